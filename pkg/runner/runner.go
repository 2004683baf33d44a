// Package runner starts external commands for pipeline steps.
//
// Every command runs with standard input bound to the null device, so a
// prompt in the child can never stall a pipeline. A started child is owned
// by a handle that kills it (and its process group where supported) on every
// exit path of Run, including cancellation of the caller's context.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long Wait keeps copying output after the child has
// been killed.
const waitDelay = 5 * time.Second

// Status is the exit status of a command that ran to completion.
type Status struct {
	Code int
}

// Success reports a normal zero-code exit.
func (s Status) Success() bool {
	return s.Code == 0
}

func (s Status) String() string {
	return fmt.Sprintf("exit status %d", s.Code)
}

// Command is an external program with a fixed argument list and working
// directory.
type Command struct {
	Name string
	Args []string
	Dir  string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner runs commands. Its zero value discards all output.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Default forwards child output to the process's own stdout and stderr.
var Default = &Runner{Stdout: os.Stdout, Stderr: os.Stderr}

// Run runs c with the Default runner.
func Run(ctx context.Context, c Command) (Status, error) {
	return Default.Run(ctx, c)
}

// Output runs c with the Default runner and returns what it wrote to stdout.
func Output(ctx context.Context, c Command) ([]byte, Status, error) {
	return Default.Output(ctx, c)
}

// Output runs c with r's stderr and returns what it wrote to stdout.
func (r *Runner) Output(ctx context.Context, c Command) ([]byte, Status, error) {
	var stdout bytes.Buffer
	capture := &Runner{Stdout: &stdout, Stderr: r.Stderr}
	status, err := capture.Run(ctx, c)
	return stdout.Bytes(), status, err
}

// Run starts c and waits for it. A non-zero exit is reported through Status
// with a nil error; errors are reserved for supervision failures.
func (r *Runner) Run(ctx context.Context, c Command) (Status, error) {
	ch, err := r.start(ctx, c)
	if err != nil {
		return Status{}, err
	}
	defer ch.release()

	return ch.wait()
}

// child owns a started process until release is called.
type child struct {
	ctx      context.Context
	command  Command
	cmd      *exec.Cmd
	finished bool
}

func (r *Runner) start(ctx context.Context, c Command) (*child, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = nil // the null device
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.WaitDelay = waitDelay
	configureProcess(cmd)

	slog.Debug("spawning command", "command", c.String(), "dir", displayDir(c.Dir))

	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Command: c.String(), Dir: c.Dir, Err: err}
	}
	return &child{ctx: ctx, command: c, cmd: cmd}, nil
}

func (ch *child) wait() (Status, error) {
	err := ch.cmd.Wait()
	ch.finished = true

	if err == nil {
		return Status{Code: 0}, nil
	}
	if ctxErr := ch.ctx.Err(); ctxErr != nil {
		return Status{}, ch.waitError(ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// terminated by a signal
			return Status{}, ch.waitError(err)
		}
		return Status{Code: code}, nil
	}
	return Status{}, ch.waitError(err)
}

// release kills the child if wait has not observed its exit.
func (ch *child) release() {
	if ch.finished {
		return
	}
	slog.Debug("killing child process", "command", ch.command.String(), "pid", ch.cmd.Process.Pid)
	_ = killProcess(ch.cmd)
	_ = ch.cmd.Wait()
	ch.finished = true
}

func (ch *child) waitError(err error) *WaitError {
	return &WaitError{Command: ch.command.String(), Dir: ch.command.Dir, Err: err}
}
