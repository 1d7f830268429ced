package browser

import (
	"errors"
	"fmt"
)

var ExitRequested = errors.New(`exit requested`)
var NoActiveTab = errors.New(`No active tab`)

func IsExitRequestedErr(err error) bool {
	return errors.Is(err, ExitRequested)
}

func TooManyMatchesErr(selector Selector, wanted int, got int) error {
	return fmt.Errorf("Selector %q matched too many elements; expected %d, got %d", selector, wanted, got)
}
