package cli

import "fmt"

// ExitError carries a process exit code out of a command.
// Its message has already been shown to the user.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// exitCode returns nil for 0 and an *ExitError otherwise
func exitCode(code int) error {
	if code == 0 {
		return nil
	}
	return &ExitError{Code: code}
}
