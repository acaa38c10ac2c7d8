package cli

import (
	"errors"

	"github.com/yaklabco/hypocrite/pkg/config"
)

// Exit codes for hypocrite.
const (
	// ExitSuccess indicates every requested file was generated.
	ExitSuccess = 0

	// ExitFailure indicates a generation failed: a parse error, a missing
	// template or an I/O error.
	ExitFailure = 1

	// ExitUsage indicates invalid command-line usage or configuration.
	ExitUsage = 2
)

var (
	// ErrUsage marks errors caused by invalid arguments or flags.
	ErrUsage = errors.New("invalid usage")

	// ErrGenerationFailed is returned after failures have already been
	// reported to the user. It only selects the exit code.
	ErrGenerationFailed = errors.New("generation failed")
)

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage), errors.Is(err, config.ErrInvalidConfig):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// Reported reports whether err has already been shown to the user.
func Reported(err error) bool {
	return errors.Is(err, ErrGenerationFailed)
}
