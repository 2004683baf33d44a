package toolchain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/pavlovdog/hyperindex/pkg/runner"
	"github.com/pavlovdog/hyperindex/pkg/steps"
)

// MinPnpmVersion is the oldest pnpm the generated package.json is tested
// with. Older versions only produce a warning.
var MinPnpmVersion = semver.MustParse("8.0.0")

const (
	pnpmBinary = "pnpm"
	npmBinary  = "npm"
)

// EnsurePnpm checks that pnpm is installed and installs it globally with npm
// when it is not. A failed install is only logged: the pnpm commands that
// follow report the problem. An npm that cannot be started is an error.
func EnsurePnpm(ctx context.Context, r *runner.Runner, dir string) (runner.Status, error) {
	quiet := &runner.Runner{Stderr: io.Discard}
	out, status, err := quiet.Output(ctx, runner.Command{Name: pnpmBinary, Args: []string{"--version"}, Dir: dir})
	var spawnErr *runner.SpawnError
	switch {
	case errors.As(err, &spawnErr), err == nil && !status.Success():
		slog.Info("pnpm is not installed, installing it", "error", err, "status", status.Code)
		return installPnpm(ctx, r, dir)
	case err != nil:
		return status, err
	}

	checkPnpmVersion(strings.TrimSpace(string(out)))
	return status, nil
}

func installPnpm(ctx context.Context, r *runner.Runner, dir string) (runner.Status, error) {
	status, err := r.Run(ctx, runner.Command{Name: npmBinary, Args: []string{"install", "--global", "pnpm"}, Dir: dir})
	if err != nil {
		return status, err
	}
	if !status.Success() {
		slog.Warn("installing pnpm failed, continuing", "status", status.Code)
	}
	return runner.Status{Code: 0}, nil
}

func checkPnpmVersion(raw string) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		slog.Warn("could not parse pnpm version", "version", raw, "error", err)
		return
	}
	if v.LessThan(MinPnpmVersion) {
		slog.Warn("pnpm is older than the supported minimum", "version", v.String(), "minimum", MinPnpmVersion.String())
		return
	}
	slog.Debug("pnpm is installed", "version", v.String())
}

type pnpmPreflight struct{}

// NewPnpmPreflight creates a step running EnsurePnpm in the step's WorkDir.
func NewPnpmPreflight() steps.Step {
	return pnpmPreflight{}
}

func (pnpmPreflight) Name() string { return "checking for pnpm" }

func (pnpmPreflight) Run(ctx context.Context, sctx steps.StepContext) (runner.Status, error) {
	return EnsurePnpm(ctx, sctx.CommandRunner(), sctx.WorkDir)
}
