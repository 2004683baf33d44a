package processing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pavlovdog/hyperindex/pkg/progress"
	"github.com/pavlovdog/hyperindex/pkg/runner"
	"github.com/pavlovdog/hyperindex/pkg/steps"
)

// Pipeline is an ordered list of steps run one after another.
type Pipeline struct {
	Name     string
	Steps    []steps.Step
	Progress *progress.Printer // nil means progress.Stdout
}

// NewPipeline creates a pipeline running s in order.
func NewPipeline(name string, s ...steps.Step) *Pipeline {
	return &Pipeline{Name: name, Steps: s}
}

// Then appends more steps and returns the pipeline.
func (p *Pipeline) Then(s ...steps.Step) *Pipeline {
	p.Steps = append(p.Steps, s...)
	return p
}

// Run executes the steps sequentially. The first non-success status stops
// the run and is returned as-is; later steps never start. Supervision errors
// are returned immediately, wrapped with the step name.
func (p *Pipeline) Run(ctx context.Context, sctx steps.StepContext) (runner.Status, error) {
	status, _, err := p.run(ctx, sctx)
	return status, err
}

// Execute runs the pipeline and reports a non-success status as an
// *ExitError naming the failing step.
func (p *Pipeline) Execute(ctx context.Context, sctx steps.StepContext) error {
	status, failed, err := p.run(ctx, sctx)
	if err != nil {
		return err
	}
	if !status.Success() {
		return &ExitError{Pipeline: p.Name, Step: failed, Status: status}
	}
	return nil
}

func (p *Pipeline) run(ctx context.Context, sctx steps.StepContext) (runner.Status, string, error) {
	printer := p.Progress
	if printer == nil {
		printer = progress.Stdout
	}

	slog.Debug("running pipeline", "pipeline", p.Name, "steps", len(p.Steps), "dir", sctx.WorkDir)

	for _, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			return runner.Status{}, step.Name(), fmt.Errorf("step %q not started: %w", step.Name(), err)
		}

		printer.Step("%s", step.Name())
		slog.Info("running step", "pipeline", p.Name, "step", step.Name())

		status, err := step.Run(ctx, sctx)
		if err != nil {
			return status, step.Name(), fmt.Errorf("step %q failed: %w", step.Name(), err)
		}
		if !status.Success() {
			slog.Error("step exited unsuccessfully", "pipeline", p.Name, "step", step.Name(), "status", status.Code)
			return status, step.Name(), nil
		}
	}

	slog.Debug("pipeline succeeded", "pipeline", p.Name)
	return runner.Status{Code: 0}, "", nil
}

// ExitError reports a step that ran to completion with a non-zero exit code.
type ExitError struct {
	Pipeline string
	Step     string
	Status   runner.Status
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("pipeline %q: step %q exited with code %d", e.Pipeline, e.Step, e.Status.Code)
}

// ExitCode is the code the failing step exited with.
func (e *ExitError) ExitCode() int {
	return e.Status.Code
}

// Job pairs a pipeline with the context it runs in.
type Job struct {
	Pipeline *Pipeline
	Context  steps.StepContext
}

// Result is the outcome of one Job.
type Result struct {
	Pipeline string
	Dir      string
	Err      error
}

// RunConcurrently runs independent jobs in parallel and returns one result
// per job in input order. Jobs must not share working directories.
func RunConcurrently(ctx context.Context, jobs ...Job) []Result {
	results := make([]Result, len(jobs))

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := job.Pipeline.Execute(ctx, job.Context)
			results[i] = Result{Pipeline: job.Pipeline.Name, Dir: job.Context.WorkDir, Err: err}
			if err != nil {
				slog.Error("pipeline failed", "pipeline", job.Pipeline.Name, "dir", job.Context.WorkDir, "error", err)
			} else {
				slog.Info("pipeline succeeded", "pipeline", job.Pipeline.Name, "dir", job.Context.WorkDir)
			}
		}()
	}
	wg.Wait()

	return results
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
