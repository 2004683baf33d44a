package steps

import (
	"context"

	"github.com/pavlovdog/hyperindex/pkg/runner"
)

// StepContext provides the runtime context for a step.
type StepContext struct {
	WorkDir      string
	TemplateData any
	Runner       *runner.Runner // nil means runner.Default
}

// CommandRunner returns the runner commands should be started with.
func (c StepContext) CommandRunner() *runner.Runner {
	if c.Runner == nil {
		return runner.Default
	}
	return c.Runner
}

// Step is the interface all pipeline steps implement. A non-success Status
// is a normal result; errors are reserved for failures to supervise the
// step itself.
type Step interface {
	Name() string
	Run(ctx context.Context, sctx StepContext) (runner.Status, error)
}

var success = runner.Status{Code: 0}
