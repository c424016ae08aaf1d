// Package debug provides environment-gated diagnostic logging to stderr.
// Enabled when TIF_DEBUG is set to a non-empty value other than "0".
package debug

import (
	"fmt"
	"os"
)

var enabled = func() bool {
	v := os.Getenv("TIF_DEBUG")
	return v != "" && v != "0"
}()

// Enabled reports whether debug logging is on.
func Enabled() bool { return enabled }

// Logf writes a formatted line to stderr when debug logging is enabled.
func Logf(format string, args ...any) {
	if !enabled {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
