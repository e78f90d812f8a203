package rmagui

import "errors"

const (
	// DefaultErrorExitCode is used when no exit code could otherwise be
	// determined for a non-nil error.
	DefaultErrorExitCode int = 1

	// UsageExitCode is the conventional EX_USAGE code from sysexits.h.
	// Errors caused by a malformed command line report this code.
	UsageExitCode int = 64

	// ConfigurationExitCode is the conventional EX_CONFIG code from sysexits.h.
	// Errors caused by invalid configuration report this code.
	ConfigurationExitCode int = 78
)

// ExitCoder is an optional interface that an error can implement to supply
// the process exit code associated with that error.
type ExitCoder interface {
	// ExitCode returns the exit code associated with this error.
	ExitCode() int
}

type exitCodeErr struct {
	error
	exitCode int
}

func (ece exitCodeErr) ExitCode() int {
	return ece.exitCode
}

func (ece exitCodeErr) Unwrap() error {
	return ece.error
}

// UseExitCode associates an existing error with an exit code.  The returned
// error implements ExitCoder and unwraps to err.
//
// A nil err panics immediately rather than producing an error that only
// fails later.
func UseExitCode(err error, exitCode int) error {
	if err == nil {
		panic("cannot associate a nil error with an exit code")
	}

	return exitCodeErr{
		error:    err,
		exitCode: exitCode,
	}
}

// ErrorCoder is a strategy type for determining the exit code for an error.
// It is invoked with a nil error as well, so that success can map to a custom code.
type ErrorCoder func(error) int

// ExitCodeFor determines the process exit code for err, in this order:
//
//   - the first ExitCoder found in err's chain, including aggregates from multierr
//   - coder, if it is not nil
//   - DefaultErrorExitCode, if err is not nil
//   - zero
func ExitCodeFor(err error, coder ErrorCoder) int {
	var ec ExitCoder
	switch {
	case errors.As(err, &ec):
		return ec.ExitCode()

	case coder != nil:
		return coder(err)

	case err != nil:
		return DefaultErrorExitCode

	default:
		return 0
	}
}
