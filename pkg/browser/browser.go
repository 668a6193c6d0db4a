// Package browser opens URLs in a web browser, honoring an explicit browser
// selection and guarding against headless invocations.
package browser

import (
	"context"
	"os"
	"os/exec"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/davedittrich/ocd/pkg/logger"
)

// EnvVar selects the default browser command, mirroring the conventional
// BROWSER environment variable.
const EnvVar = "BROWSER"

// ErrNoTTY is returned when stdin is not a terminal and force was not set.
var ErrNoTTY = errors.New("use --force-browser to open browser when stdin is not a TTY")

// isTerminal is swappable for tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// startCommand is swappable for tests.
var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Default returns the browser selected by the BROWSER environment variable,
// or empty for the system default.
func Default() string {
	return os.Getenv(EnvVar)
}

// Open opens url using the named browser command, or the operating system
// default when browser is empty. When the process has no TTY the open is
// refused unless force is set.
func Open(ctx context.Context, url, browser string, force bool) error {
	if url == "" {
		return errors.New("no page specified")
	}
	if !isTerminal() && !force {
		return ErrNoTTY
	}

	which := browser
	if which == "" {
		which = "system default"
	}
	logger.G(ctx).WithField("browser", which).Infof("opening browser for %s", url)

	if browser != "" {
		return startCommand(browser, url)
	}

	var cmd string
	var args []string
	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		return errors.New("unsupported operating system")
	}

	return startCommand(cmd, args...)
}
