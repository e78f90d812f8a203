package rmaroute

import (
	"fmt"

	"github.com/iccolo/rmagui"
)

// ConfigurationError describes a malformed route table.  It is always a
// startup failure, never a request-time one.
type ConfigurationError struct {
	// Entry is the offending entry
	Entry Entry

	// Field is the entry field at fault:  "path", "name", or "view"
	Field string

	// Reason describes the problem
	Reason string
}

func (ce *ConfigurationError) Error() string {
	return fmt.Sprintf(
		"route %q (path %q): %s %s",
		ce.Entry.Name, ce.Entry.Path, ce.Field, ce.Reason,
	)
}

// ExitCode implements rmagui.ExitCoder.  Route table problems are
// configuration problems.
func (ce *ConfigurationError) ExitCode() int {
	return rmagui.ConfigurationExitCode
}
