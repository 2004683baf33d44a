package toolchain

import (
	"context"
	"io"
	"log/slog"

	"github.com/pkg/browser"

	"github.com/pavlovdog/hyperindex/pkg/runner"
	"github.com/pavlovdog/hyperindex/pkg/steps"
)

// ConsoleURL is where the local GraphQL console listens.
const ConsoleURL = "http://localhost:8080"

var openURL = browser.OpenURL

func init() {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

type openConsoleStep struct {
	url string
}

// NewOpenConsoleStep creates a step that opens url in the default browser.
// The step always succeeds; a failed launch is logged as a warning.
func NewOpenConsoleStep(url string) steps.Step {
	return &openConsoleStep{url: url}
}

func (s *openConsoleStep) Name() string { return "opening console at " + s.url }

func (s *openConsoleStep) Run(ctx context.Context, _ steps.StepContext) (runner.Status, error) {
	if err := ctx.Err(); err != nil {
		return runner.Status{}, err
	}
	if err := openURL(s.url); err != nil {
		slog.Warn("unable to open the console automatically, open it yourself", "url", s.url, "error", err)
	}
	return runner.Status{Code: 0}, nil
}
