package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pavlovdog/hyperindex/pkg/processing"
)

var version = "dev"

const (
	exitOK = iota
	exitInternalError
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	return exitCode(cmd.ExecuteContext(ctx))
}

// exitCode maps a command error to the process exit code. A failed step
// exits with the step's own code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var exitErr *processing.ExitError
	if errors.As(err, &exitErr) {
		slog.Error("command failed", "pipeline", exitErr.Pipeline, "step", exitErr.Step, "status", exitErr.ExitCode())
		return exitErr.ExitCode()
	}

	slog.Error("command failed", "error", err)
	return exitInternalError
}
