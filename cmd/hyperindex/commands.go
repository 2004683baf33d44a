package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pavlovdog/hyperindex/pkg/api"
	"github.com/pavlovdog/hyperindex/pkg/config"
	"github.com/pavlovdog/hyperindex/pkg/processing"
	"github.com/pavlovdog/hyperindex/pkg/scaffold"
	"github.com/pavlovdog/hyperindex/pkg/state"
	"github.com/pavlovdog/hyperindex/pkg/steps"
	"github.com/pavlovdog/hyperindex/pkg/toolchain"
)

func newInitCmd(a *app) *cobra.Command {
	var (
		name         string
		templateName string
		languageName string
		skipInstall  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new indexer project in the project directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tpl, err := api.ParseTemplate(templateName)
			if err != nil {
				return err
			}
			lang, err := api.ParseLanguage(languageName)
			if err != nil {
				return err
			}

			_, err = scaffold.Init(cmd.Context(), scaffold.InitOptions{
				Directory:     a.settings.Directory,
				Name:          name,
				Template:      tpl,
				Language:      lang,
				GeneratedDir:  a.settings.GeneratedDir,
				Context:       a.context,
				SkipToolchain: skipInstall,
				Progress:      a.progress,
				Runner:        a.runner,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "project name")
	cmd.Flags().StringVarP(&templateName, "template", "t", string(api.TemplateBlank), "starter template: blank, greeter or erc20")
	cmd.Flags().StringVarP(&languageName, "language", "l", string(api.LanguageReScript), "handler language: rescript, typescript or javascript")
	cmd.Flags().BoolVar(&skipInstall, "skip-install", false, "only write files, do not install or build")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCodegenCmd(a *app) *cobra.Command {
	var (
		skipInstall bool
		all         bool
		maxDepth    int
	)

	cmd := &cobra.Command{
		Use:   "codegen",
		Short: "Regenerate the generated directory from the project config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !all {
				return a.execute(cmd.Context(), scaffold.CodegenPipeline(a.paths, a.context, skipInstall))
			}
			return codegenAll(cmd, a, skipInstall, maxDepth)
		},
	}

	cmd.Flags().BoolVar(&skipInstall, "skip-install", false, "only write files, do not install or build")
	cmd.Flags().BoolVar(&all, "all", false, "run codegen for every project found under the project directory")
	cmd.Flags().IntVar(&maxDepth, "max-depth", -1, "max directory recursion depth for --all (-1 = unlimited, 0 = root only)")
	return cmd
}

func codegenAll(cmd *cobra.Command, a *app, skipInstall bool, maxDepth int) error {
	projects, err := processing.DiscoverProjects(a.settings.Directory, maxDepth)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		slog.Warn("no projects found", "dir", a.settings.Directory)
		return nil
	}

	jobs := make([]processing.Job, 0, len(projects))
	for _, project := range projects {
		paths, err := api.NewProjectPaths(project.Dir, a.settings.GeneratedDir, project.FilePath)
		if err != nil {
			return err
		}
		p := scaffold.CodegenPipeline(paths, a.context, skipInstall)
		p.Name = "codegen " + project.Name
		p.Progress = a.progress
		jobs = append(jobs, processing.Job{
			Pipeline: p,
			Context:  steps.StepContext{WorkDir: paths.Root, Runner: a.runner},
		})
	}

	slog.Info("running codegen", "projects", len(jobs))
	results := processing.RunConcurrently(cmd.Context(), jobs...)

	failed := processing.Failed(results)
	if len(failed) == 1 {
		return failed[0].Err
	}
	if len(failed) > 1 {
		dirs := make([]string, len(failed))
		for i, r := range failed {
			dirs[i] = r.Dir
		}
		return fmt.Errorf("%d project(s) failed: %v", len(failed), dirs)
	}
	return nil
}

func newDevCmd(a *app) *cobra.Command {
	var openConsole bool

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start docker services, set up the database once and run the indexer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := state.Load(a.paths.PersistedState())
			if err != nil {
				return err
			}

			p := toolchain.DockerUp(a.paths)
			p.Name = "dev"
			if !st.HasRunDBMigrations {
				p.Then(toolchain.DBSetup(a.paths, true).Steps...)
			} else {
				slog.Info("database migrations already ran, skipping setup")
			}
			p.Then(toolchain.Start(a.paths, false, openConsole).Steps...)
			return a.execute(cmd.Context(), p)
		},
	}

	cmd.Flags().BoolVar(&openConsole, "open-console", false, "open the local console in a browser")
	return cmd
}

func newStopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop docker services and remove their volumes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.execute(cmd.Context(), toolchain.DockerDown(a.paths))
		},
	}
}

func newStartCmd(a *app) *cobra.Command {
	var (
		syncFromRawEvents bool
		openConsole       bool
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the indexer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.execute(cmd.Context(), toolchain.Start(a.paths, syncFromRawEvents, openConsole))
		},
	}

	cmd.Flags().BoolVarP(&syncFromRawEvents, "sync-from-raw-events", "r", false, "replay stored raw events instead of syncing from the chain")
	cmd.Flags().BoolVar(&openConsole, "open-console", false, "open the local console in a browser")
	return cmd
}

func newDBMigrateCmd(a *app) *cobra.Command {
	var dropRawEvents bool

	cmd := &cobra.Command{
		Use:   "db-migrate",
		Short: "Manage the indexer database schema",
	}

	setup := &cobra.Command{
		Use:   "setup",
		Short: "Drop and recreate the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.execute(cmd.Context(), toolchain.DBSetup(a.paths, dropRawEvents))
		},
	}
	setup.Flags().BoolVar(&dropRawEvents, "drop-raw-events", false, "also drop the stored raw events")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Run the up migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.execute(cmd.Context(), toolchain.DBUp(a.paths))
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Drop the database schema",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.execute(cmd.Context(), toolchain.DBDown(a.paths))
			},
		},
		setup,
	)
	return cmd
}

func newDockerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docker",
		Short: "Manage the generated docker compose services",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Start the services in the background",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.execute(cmd.Context(), toolchain.DockerUp(a.paths))
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Stop the services and remove their volumes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.execute(cmd.Context(), toolchain.DockerDown(a.paths))
			},
		},
	)
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage user settings",
		Long:  "Read and write settings stored in " + config.FilePath() + ".",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a configuration value",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				key, value := args[0], args[1]
				if err := config.Set(key, value); err != nil {
					return fmt.Errorf("setting config key %q: %w", key, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Get a configuration value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := config.New(nil)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v.GetString(args[0]))
				return nil
			},
		},
	)
	return cmd
}
