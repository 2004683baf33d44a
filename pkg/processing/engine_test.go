package processing

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavlovdog/hyperindex/pkg/progress"
	"github.com/pavlovdog/hyperindex/pkg/runner"
	"github.com/pavlovdog/hyperindex/pkg/steps"
)

type fakeStep struct {
	name   string
	status runner.Status
	err    error
	calls  atomic.Int32
	onRun  func()
}

func (s *fakeStep) Name() string { return s.name }

func (s *fakeStep) Run(_ context.Context, _ steps.StepContext) (runner.Status, error) {
	s.calls.Add(1)
	if s.onRun != nil {
		s.onRun()
	}
	return s.status, s.err
}

func quietPipeline(name string, s ...steps.Step) *Pipeline {
	p := NewPipeline(name, s...)
	p.Progress = progress.Discard
	return p
}

func TestPipeline_AllSucceed(t *testing.T) {
	a, b, c := &fakeStep{name: "a"}, &fakeStep{name: "b"}, &fakeStep{name: "c"}

	status, err := quietPipeline("ok", a, b, c).Run(context.Background(), steps.StepContext{})
	require.NoError(t, err)
	assert.True(t, status.Success())
	for _, s := range []*fakeStep{a, b, c} {
		assert.EqualValues(t, 1, s.calls.Load(), "step %s", s.name)
	}
}

func TestPipeline_StopsAtFirstFailure(t *testing.T) {
	a := &fakeStep{name: "install"}
	b := &fakeStep{name: "clean", status: runner.Status{Code: 3}}
	c := &fakeStep{name: "build"}

	status, err := quietPipeline("post-codegen", a, b, c).Run(context.Background(), steps.StepContext{})
	require.NoError(t, err, "a non-zero exit is not an error")
	assert.Equal(t, b.status, status, "the failing step's status is returned as is")
	assert.EqualValues(t, 1, a.calls.Load())
	assert.EqualValues(t, 1, b.calls.Load())
	assert.Zero(t, c.calls.Load(), "steps after the failure must not run")
}

func TestPipeline_SupervisionErrorStops(t *testing.T) {
	spawnErr := &runner.SpawnError{Command: "pnpm install", Err: errors.New("not found")}
	a := &fakeStep{name: "install", err: spawnErr}
	b := &fakeStep{name: "build"}

	_, err := quietPipeline("p", a, b).Run(context.Background(), steps.StepContext{})

	var target *runner.SpawnError
	require.ErrorAs(t, err, &target)
	assert.ErrorContains(t, err, `step "install"`)
	assert.Zero(t, b.calls.Load())
}

func TestPipeline_Empty(t *testing.T) {
	status, err := quietPipeline("empty").Run(context.Background(), steps.StepContext{})
	require.NoError(t, err)
	assert.True(t, status.Success())
}

func TestPipeline_CancelledBeforeNextStep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &fakeStep{name: "a", onRun: cancel}
	b := &fakeStep{name: "b"}

	_, err := quietPipeline("p", a, b).Run(ctx, steps.StepContext{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, b.calls.Load())
}

func TestPipeline_PrintsProgressPerStep(t *testing.T) {
	var buf bytes.Buffer
	p := NewPipeline("p", &fakeStep{name: "pnpm install"}, &fakeStep{name: "rescript build"})
	p.Progress = progress.New(&buf)

	_, err := p.Run(context.Background(), steps.StepContext{})
	require.NoError(t, err)

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "\n"), "one line per step: %q", out)
	assert.Contains(t, out, "pnpm install")
	assert.Contains(t, out, "rescript build")
}

func TestPipeline_ExecuteExitError(t *testing.T) {
	p := quietPipeline("db-up", &fakeStep{name: "migrate", status: runner.Status{Code: 3}})

	err := p.Execute(context.Background(), steps.StepContext{})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitCode())
	assert.Equal(t, "migrate", exitErr.Step)
	assert.Equal(t, "db-up", exitErr.Pipeline)
}

func TestPipeline_Then(t *testing.T) {
	a, b := &fakeStep{name: "a"}, &fakeStep{name: "b"}
	p := quietPipeline("p", a).Then(b)

	require.Len(t, p.Steps, 2)
	require.NoError(t, p.Execute(context.Background(), steps.StepContext{}))
	assert.EqualValues(t, 1, b.calls.Load())
}

func TestRunConcurrently(t *testing.T) {
	ok := quietPipeline("ok", &fakeStep{name: "a"})
	bad := quietPipeline("bad", &fakeStep{name: "b", status: runner.Status{Code: 2}})

	results := RunConcurrently(context.Background(),
		Job{Pipeline: ok, Context: steps.StepContext{WorkDir: "/one"}},
		Job{Pipeline: bad, Context: steps.StepContext{WorkDir: "/two"}},
	)

	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "/one", results[0].Dir)

	var exitErr *ExitError
	require.ErrorAs(t, results[1].Err, &exitErr)
	assert.Equal(t, 2, exitErr.ExitCode())

	failed := Failed(results)
	require.Len(t, failed, 1)
	assert.Equal(t, "bad", failed[0].Pipeline)
}
