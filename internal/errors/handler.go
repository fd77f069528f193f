package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the ANSI sequences used when rendering errors.
// A nil provider renders plain text.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// HandleCalculationError prints a user-facing description of err and maps
// it to a process exit code. A nil error maps to ExitSuccess.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	red, yellow, reset := "", "", ""
	if colors != nil {
		red, yellow, reset = colors.Red(), colors.Yellow(), colors.Reset()
	}
	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s", duration)
	}

	var timeoutErr TimeoutError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &timeoutErr):
		fmt.Fprintf(out, "%sStatus: Failure (Timeout).%s The multiplication exceeded its time limit%s.\n", red, reset, suffix)
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sStatus: Canceled%s by user%s.\n", yellow, reset, suffix)
		return ExitErrorCanceled
	case IsPreconditionError(err):
		fmt.Fprintf(out, "%sStatus: Failure (Precondition).%s %v\n", red, reset, err)
		return ExitErrorConfig
	default:
		fmt.Fprintf(out, "%sStatus: Failure.%s An unexpected error occurred%s: %v\n", red, reset, suffix, err)
		return ExitErrorGeneric
	}
}
