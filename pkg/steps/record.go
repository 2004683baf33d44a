package steps

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pavlovdog/hyperindex/pkg/runner"
	"github.com/pavlovdog/hyperindex/pkg/state"
)

type recordMigrationsStep struct {
	Step
	statePath string
	value     bool
}

// RecordMigrations wraps step so that has_run_db_migrations in the state
// file at statePath is set to value once step succeeds. A failed or
// interrupted step leaves the file untouched.
func RecordMigrations(step Step, statePath string, value bool) Step {
	return &recordMigrationsStep{Step: step, statePath: statePath, value: value}
}

// Unwrap returns the wrapped step.
func (s *recordMigrationsStep) Unwrap() Step { return s.Step }

func (s *recordMigrationsStep) Run(ctx context.Context, sctx StepContext) (runner.Status, error) {
	status, err := s.Step.Run(ctx, sctx)
	if err != nil || !status.Success() {
		return status, err
	}

	if err := state.SetHasRunDBMigrations(s.statePath, s.value); err != nil {
		return status, fmt.Errorf("recording migration state: %w", err)
	}
	slog.Info("recorded migration state", "step", s.Name(), "has_run_db_migrations", s.value)
	return status, nil
}
