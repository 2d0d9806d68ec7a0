package supervise

import (
	"errors"
	"os/exec"
)

// ExitCode maps a start or wait error to a process exit code: the child's
// own code when it ran, 127 when it could not be executed, 1 otherwise.
func ExitCode(err error) int32 {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return int32(exitErr.ExitCode())
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return 127
	}
	return 1
}
