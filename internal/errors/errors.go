package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/daystreak/internal/logger"
)

var (
	// ErrValidation marks input rejected before it reaches the store or the engine
	ErrValidation = errors.New("validation failed")
	// ErrNoChallenge is returned when the signed-in user has not set up a challenge yet
	ErrNoChallenge = errors.New("no challenge yet")
)

// RemoteFailure wraps a record store failure with the operation that caused it.
type RemoteFailure struct {
	Op  string
	Err error
}

func (e *RemoteFailure) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteFailure) Unwrap() error {
	return e.Err
}

// Remote wraps err as a RemoteFailure for op. A nil err stays nil.
func Remote(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteFailure{Op: op, Err: err}
}

// Validationf builds an ErrValidation error with a formatted detail message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IsRemote reports whether err is (or wraps) a RemoteFailure.
func IsRemote(err error) bool {
	var rf *RemoteFailure
	return errors.As(err, &rf)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
