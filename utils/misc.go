package utils

import (
	"strings"
	"time"

	"github.com/ghetzel/go-stockutil/stringutil"
)

func FudgeDuration(duration time.Duration) time.Duration {
	// allow specifying times as integers representing milliseconds
	// by assuming that if you see a timeout less than 1ms, then it was
	// actually specified as an integer and thus came in as an unreasonably
	// small time.Duration
	if duration > 0 && duration < time.Millisecond {
		return time.Duration(int(duration)) * time.Millisecond
	}

	return duration
}

// Splits a "module::command" name into its parts.  A name without a module
// belongs to defaultModule.
func SplitCommandName(name string, defaultModule string) (string, string) {
	if strings.Contains(name, `::`) {
		mod, cmd := stringutil.SplitPair(name, `::`)

		if mod == `` {
			mod = defaultModule
		}

		return mod, cmd
	}

	return defaultModule, name
}
