package steps

import (
	"context"
	"log/slog"

	"github.com/pavlovdog/hyperindex/pkg/runner"
)

type commandStep struct {
	name string
	cmd  runner.Command
}

// NewCommandStep creates a step running cmd. An empty cmd.Dir runs in the
// step context's WorkDir.
func NewCommandStep(name string, cmd runner.Command) Step {
	return &commandStep{name: name, cmd: cmd}
}

func (s *commandStep) Name() string { return s.name }

// Command returns the command as configured, before WorkDir is applied.
func (s *commandStep) Command() runner.Command { return s.cmd }

func (s *commandStep) Run(ctx context.Context, sctx StepContext) (runner.Status, error) {
	cmd := s.cmd
	if cmd.Dir == "" {
		cmd.Dir = sctx.WorkDir
	}

	slog.Info("running command", "step", s.name, "command", cmd.String(), "dir", cmd.Dir)

	status, err := sctx.CommandRunner().Run(ctx, cmd)
	if err != nil {
		return status, err
	}
	if !status.Success() {
		slog.Warn("command failed", "step", s.name, "command", cmd.String(), "status", status.Code)
	}
	return status, nil
}
