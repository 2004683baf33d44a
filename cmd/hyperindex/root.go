package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pavlovdog/hyperindex/pkg/api"
	"github.com/pavlovdog/hyperindex/pkg/config"
	"github.com/pavlovdog/hyperindex/pkg/logging"
	"github.com/pavlovdog/hyperindex/pkg/processing"
	"github.com/pavlovdog/hyperindex/pkg/progress"
	"github.com/pavlovdog/hyperindex/pkg/runner"
	"github.com/pavlovdog/hyperindex/pkg/steps"
)

// app carries what every subcommand needs once the root has resolved the
// settings.
type app struct {
	settings *config.Settings
	paths    api.ProjectPaths
	context  map[string]any
	progress *progress.Printer
	runner   *runner.Runner
}

func (a *app) execute(ctx context.Context, p *processing.Pipeline) error {
	p.Progress = a.progress
	return p.Execute(ctx, steps.StepContext{WorkDir: a.paths.Root, Runner: a.runner})
}

func newRootCmd() *cobra.Command {
	a := &app{progress: progress.Stdout, runner: runner.Default}

	root := &cobra.Command{
		Use:           "hyperindex",
		Short:         "Scaffold, generate and run blockchain indexers",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringP(config.KeyDirectory, "d", ".", "project root directory")
	flags.StringP(config.KeyGeneratedDir, "o", api.DefaultGeneratedDir, "generated code directory, relative to the project root")
	flags.StringP(config.KeyConfigFile, "c", api.DefaultConfigFile, "project config file, relative to the project root")
	flags.String(config.KeyContextFile, "", "extra render context file (YAML, JSON or TOML)")
	flags.String(config.KeyLogType, logging.Tint, "logging type: json, text or tint")
	flags.String(config.KeyLogLevel, "info", "logging level: debug, info, warn, error")

	root.AddCommand(
		newInitCmd(a),
		newCodegenCmd(a),
		newDevCmd(a),
		newStopCmd(a),
		newStartCmd(a),
		newDBMigrateCmd(a),
		newDockerCmd(a),
		newConfigCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	found, err := config.LoadDotenv(".")
	if err != nil {
		return err
	}

	v, err := config.New(cmd)
	if err != nil {
		return err
	}
	s, err := config.Load(v)
	if err != nil {
		return err
	}

	if err := logging.Initialize(s.LogType, s.LogLevel); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	if found {
		slog.Debug("using .env file")
	}

	paths, err := s.Paths()
	if err != nil {
		return err
	}

	if s.ContextFile != "" {
		ctx, err := processing.LoadContextFile(s.ContextFile)
		if err != nil {
			return err
		}
		a.context = ctx
	}

	a.settings = s
	a.paths = paths
	slog.Debug("settings resolved", "root", paths.Root, "generated", paths.Generated, "config", paths.Config)
	return nil
}
