package utils

import (
	"context"
	"errors"
	"strings"
)

// Reports whether err represents a timeout (either a context deadline or an
// RPC reply that never arrived).
func IsTimeoutErr(err error) bool {
	if err == nil {
		return false
	} else if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	switch msg := err.Error(); {
	case msg == `timeout`:
		return true
	case strings.HasSuffix(msg, `: timeout`), strings.Contains(msg, `timed out`):
		return true
	}

	return false
}
