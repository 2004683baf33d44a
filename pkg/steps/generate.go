package steps

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/pavlovdog/hyperindex/pkg/assets"
	"github.com/pavlovdog/hyperindex/pkg/render"
	"github.com/pavlovdog/hyperindex/pkg/runner"
)

type generateStep struct {
	name      string
	tree      *assets.Node
	generator *render.Generator
	outputDir string
}

// NewGenerateStep creates a step that renders the templates of tree into
// outputDir, resolved against WorkDir when relative, using the step
// context's TemplateData.
func NewGenerateStep(name string, tree *assets.Node, generator *render.Generator, outputDir string) Step {
	if generator == nil {
		generator = render.NewGenerator(nil)
	}
	return &generateStep{name: name, tree: tree, generator: generator, outputDir: outputDir}
}

func (s *generateStep) Name() string { return s.name }

func (s *generateStep) Run(ctx context.Context, sctx StepContext) (runner.Status, error) {
	if err := ctx.Err(); err != nil {
		return runner.Status{}, err
	}

	outDir := resolveDir(sctx.WorkDir, s.outputDir)
	files, err := s.generator.Generate(s.tree, sctx.TemplateData, outDir)
	if err != nil {
		return runner.Status{}, fmt.Errorf("generating templates: %w", err)
	}

	slog.Info("generate step wrote files", "step", s.name, "dir", outDir, "count", len(files))
	return success, nil
}

type copyStep struct {
	name      string
	tree      *assets.Node
	generator *render.Generator
	outputDir string
	filter    render.Filter
}

// NewCopyStep creates a step that copies the static files of tree into
// outputDir unchanged.
func NewCopyStep(name string, tree *assets.Node, generator *render.Generator, outputDir string, filter render.Filter) Step {
	if generator == nil {
		generator = render.NewGenerator(nil)
	}
	return &copyStep{name: name, tree: tree, generator: generator, outputDir: outputDir, filter: filter}
}

func (s *copyStep) Name() string { return s.name }

func (s *copyStep) Run(ctx context.Context, sctx StepContext) (runner.Status, error) {
	if err := ctx.Err(); err != nil {
		return runner.Status{}, err
	}

	outDir := resolveDir(sctx.WorkDir, s.outputDir)
	files, err := s.generator.Copy(s.tree, outDir, s.filter)
	if err != nil {
		return runner.Status{}, fmt.Errorf("copying static files: %w", err)
	}

	slog.Info("copy step wrote files", "step", s.name, "dir", outDir, "count", len(files))
	return success, nil
}

func resolveDir(workDir, dir string) string {
	if dir == "" {
		return workDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(workDir, dir)
}
