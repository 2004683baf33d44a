package runner

import "fmt"

// SpawnError is returned when a command could not be started, for example
// because the binary is missing or not executable.
type SpawnError struct {
	Command string
	Dir     string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %s at %s: %v", e.Command, displayDir(e.Dir), e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// WaitError is returned when a started command could not be waited for
// normally: it was killed by a signal, cancelled, or waiting failed.
type WaitError struct {
	Command string
	Dir     string
	Err     error
}

func (e *WaitError) Error() string {
	return fmt.Sprintf("failed waiting for %s at %s: %v", e.Command, displayDir(e.Dir), e.Err)
}

func (e *WaitError) Unwrap() error {
	return e.Err
}

func displayDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
