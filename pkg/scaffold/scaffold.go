// Package scaffold creates indexer projects and regenerates their generated
// code from the embedded template trees.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pavlovdog/hyperindex/pkg/api"
	"github.com/pavlovdog/hyperindex/pkg/assets"
	"github.com/pavlovdog/hyperindex/pkg/processing"
	"github.com/pavlovdog/hyperindex/pkg/progress"
	"github.com/pavlovdog/hyperindex/pkg/render"
	"github.com/pavlovdog/hyperindex/pkg/runner"
	"github.com/pavlovdog/hyperindex/pkg/steps"
	"github.com/pavlovdog/hyperindex/pkg/toolchain"
)

// InitOptions configures Init.
type InitOptions struct {
	Directory     string // project directory, "." when empty
	Name          string
	Template      api.Template
	Language      api.Language
	GeneratedDir  string         // relative to Directory, api.DefaultGeneratedDir when empty
	Context       map[string]any // extra codegen render context
	SkipToolchain bool           // only write files, run no external tools
	Progress      *progress.Printer
	Runner        *runner.Runner
}

// Init creates a project from a starter template, runs codegen and, unless
// SkipToolchain is set, installs and builds the result.
func Init(ctx context.Context, opts InitOptions) (api.ProjectPaths, error) {
	dir := opts.Directory
	if dir == "" {
		dir = "."
	}

	cfg := api.ProjectConfig{Name: opts.Name, Language: opts.Language}
	if cfg.Language == "" {
		return api.ProjectPaths{}, errors.New("invalid project: language is required")
	}
	if err := cfg.Validate(); err != nil {
		return api.ProjectPaths{}, fmt.Errorf("invalid project: %w", err)
	}

	paths, err := api.NewProjectPaths(dir, opts.GeneratedDir, "")
	if err != nil {
		return api.ProjectPaths{}, err
	}

	p, err := InitPipeline(paths, opts.Template, cfg.Language, opts.Context, opts.SkipToolchain)
	if err != nil {
		return paths, err
	}
	p.Progress = opts.Progress

	if err := os.MkdirAll(paths.Root, 0o755); err != nil {
		return paths, fmt.Errorf("creating project directory: %w", err)
	}

	slog.Info("initializing project", "name", cfg.Name, "template", opts.Template, "language", cfg.Language, "dir", paths.Root)

	sctx := steps.StepContext{
		WorkDir:      paths.Root,
		TemplateData: NewInitContext(cfg.Name, cfg.Language),
		Runner:       opts.Runner,
	}
	if err := p.Execute(ctx, sctx); err != nil {
		return paths, err
	}

	printer := opts.Progress
	if printer == nil {
		printer = progress.Stdout
	}
	if filepath.Clean(dir) != "." {
		printer.Done("project created, continue with: cd %s", dir)
	} else {
		printer.Done("project created")
	}
	return paths, nil
}

// InitPipeline builds the steps of Init without running them.
func InitPipeline(paths api.ProjectPaths, template api.Template, lang api.Language, extra map[string]any, skipToolchain bool) (*processing.Pipeline, error) {
	kind, err := assets.StarterKind(template)
	if err != nil {
		return nil, err
	}
	langTree, err := assets.Lookup(kind, lang)
	if err != nil {
		return nil, err
	}
	sharedTree, err := assets.Lookup(kind, assets.Shared)
	if err != nil {
		return nil, err
	}
	initTree, err := assets.Lookup(assets.KindInit, assets.Shared)
	if err != nil {
		return nil, err
	}

	gen := render.NewGenerator(nil)
	p := processing.NewPipeline("init",
		steps.NewCopyStep(fmt.Sprintf("copying %s template (%s)", template, lang), langTree, gen, paths.Root, render.Filter{}),
		steps.NewCopyStep(fmt.Sprintf("copying %s template (shared)", template), sharedTree, gen, paths.Root, render.Filter{}),
	)

	if template == api.TemplateBlank {
		blankTree, err := assets.Lookup(assets.KindBlankDynamic, assets.Shared)
		if err != nil {
			return nil, err
		}
		p.Then(steps.NewGenerateStep("rendering blank template", blankTree, gen, paths.Root))
	}

	p.Then(
		steps.NewGenerateStep("rendering project files", initTree, gen, paths.Root),
		NewCodegenStep(paths, extra),
	)

	if !skipToolchain {
		p.Then(toolchain.PostCodegen(paths).Steps...)
		if lang == api.LanguageReScript {
			p.Then(toolchain.RescriptBuild(paths.Root).Steps...)
		}
	}
	return p, nil
}

// Codegen writes the codegen trees into the generated directory: static
// files verbatim, templates rendered against data.
func Codegen(paths api.ProjectPaths, data any) ([]render.GeneratedFile, error) {
	if err := os.MkdirAll(paths.Generated, 0o755); err != nil {
		return nil, fmt.Errorf("creating generated directory: %w", err)
	}

	var written []render.GeneratedFile
	gen := render.NewGenerator(nil)
	for _, kind := range []assets.Kind{assets.KindCodegenStatic, assets.KindCodegenDynamic} {
		tree, err := assets.Lookup(kind, assets.Shared)
		if err != nil {
			return written, err
		}
		files, err := gen.Materialize(tree, data, paths.Generated)
		written = append(written, files...)
		if err != nil {
			return written, fmt.Errorf("writing %s files: %w", kind, err)
		}
	}

	slog.Debug("codegen finished", "dir", paths.Generated, "files", len(written))
	return written, nil
}

type codegenStep struct {
	paths api.ProjectPaths
	extra map[string]any
}

// NewCodegenStep creates a step that loads the project config and runs
// Codegen with the context CodegenContext builds from it.
func NewCodegenStep(paths api.ProjectPaths, extra map[string]any) steps.Step {
	return &codegenStep{paths: paths, extra: extra}
}

func (s *codegenStep) Name() string { return "generating code" }

func (s *codegenStep) Run(ctx context.Context, _ steps.StepContext) (runner.Status, error) {
	if err := ctx.Err(); err != nil {
		return runner.Status{}, err
	}

	cfg, err := api.LoadProjectConfig(s.paths.Config)
	if err != nil {
		return runner.Status{}, err
	}

	files, err := Codegen(s.paths, CodegenContext(cfg, s.extra))
	if err != nil {
		return runner.Status{}, err
	}

	slog.Info("generated code", "project", cfg.Name, "dir", s.paths.Generated, "files", len(files))
	return runner.Status{Code: 0}, nil
}

// CodegenPipeline regenerates the generated directory and, unless
// skipToolchain is set, installs and builds it.
func CodegenPipeline(paths api.ProjectPaths, extra map[string]any, skipToolchain bool) *processing.Pipeline {
	p := processing.NewPipeline("codegen", NewCodegenStep(paths, extra))
	if !skipToolchain {
		p.Then(toolchain.PostCodegen(paths).Steps...)
	}
	return p
}

// GenerateLegacy runs codegen and the post-codegen build for the project in
// dir, writing to outputDir and reading configFile.
//
// Deprecated: use CodegenPipeline, which this delegates to.
func GenerateLegacy(ctx context.Context, dir, outputDir, configFile string) error {
	paths, err := api.NewProjectPaths(dir, outputDir, configFile)
	if err != nil {
		return err
	}
	return CodegenPipeline(paths, nil, false).Execute(ctx, steps.StepContext{WorkDir: paths.Root})
}
