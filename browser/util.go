package browser

import (
	"os"
	"os/exec"
	"runtime"
)

func LocateChromeExecutable() string {
	paths := []string{
		os.Getenv(`SCROLLFRIEND_BROWSER`),
	}

	switch runtime.GOOS {
	case `linux`, `freebsd`:
		paths = append(paths, []string{
			`chromium-browser`,
			`chromium`,
			`google-chrome`,
			`google-chrome-stable`,
		}...)

	case `darwin`:
		paths = append(paths, []string{
			`/Applications/Chromium.app/Contents/MacOS/Chromium`,
			`/Applications/Google Chrome.app/Contents/MacOS/Google Chrome`,
		}...)
	}

	for _, binpath := range paths {
		if binpath == `` {
			continue
		}

		if path, err := exec.LookPath(binpath); err == nil {
			return path
		}
	}

	return `false`
}
