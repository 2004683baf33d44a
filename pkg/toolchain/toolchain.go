// Package toolchain builds the pipelines that drive the external tools of a
// generated project: pnpm, the ReScript compiler, node migration scripts,
// docker compose and the indexer start script.
package toolchain

import (
	"fmt"

	"github.com/pavlovdog/hyperindex/pkg/api"
	"github.com/pavlovdog/hyperindex/pkg/processing"
	"github.com/pavlovdog/hyperindex/pkg/runner"
	"github.com/pavlovdog/hyperindex/pkg/steps"
)

const migrationsModule = "./src/Migrations.bs.js"

// PostCodegen installs dependencies of the generated tree and rebuilds it:
// pnpm preflight, pnpm install, rescript clean, format and build.
func PostCodegen(paths api.ProjectPaths) *processing.Pipeline {
	dir := paths.Generated
	return processing.NewPipeline("post-codegen",
		NewPnpmPreflight(),
		steps.NewCommandStep("installing packages", pnpmInstall(dir, "--no-frozen-lockfile")),
		steps.NewCommandStep("cleaning build directory", rescript(dir, "clean", "-with-deps")),
		steps.NewCommandStep("formatting code", rescript(dir, "format", "-all")),
		steps.NewCommandStep("building code", rescript(dir, "build", "-with-deps")),
	)
}

// RescriptBuild installs dependencies in dir and builds the ReScript sources
// there.
func RescriptBuild(dir string) *processing.Pipeline {
	return processing.NewPipeline("rescript-build",
		steps.NewCommandStep("installing project packages", pnpmInstall(dir)),
		steps.NewCommandStep("building project code", rescript(dir, "build", "-with-deps")),
	)
}

// DBUp runs the up migrations and records that they ran.
func DBUp(paths api.ProjectPaths) *processing.Pipeline {
	return processing.NewPipeline("db-up",
		steps.RecordMigrations(
			steps.NewCommandStep("running up migrations", migration(paths, "runUpMigrations(true)")),
			paths.PersistedState(), true),
	)
}

// DBDown drops the schema and records that migrations must run again.
func DBDown(paths api.ProjectPaths) *processing.Pipeline {
	return processing.NewPipeline("db-down",
		steps.RecordMigrations(
			steps.NewCommandStep("dropping database schema", migration(paths, "runDownMigrations(true)")),
			paths.PersistedState(), false),
	)
}

// DBSetup recreates the database from scratch, optionally dropping the raw
// events table too.
func DBSetup(paths api.ProjectPaths, dropRawEvents bool) *processing.Pipeline {
	call := fmt.Sprintf("setupDb(%t)", dropRawEvents)
	return processing.NewPipeline("db-setup",
		steps.RecordMigrations(
			steps.NewCommandStep("setting up database", migration(paths, call)),
			paths.PersistedState(), true),
	)
}

// DockerUp starts the generated docker compose services in the background.
func DockerUp(paths api.ProjectPaths) *processing.Pipeline {
	return processing.NewPipeline("docker-up",
		steps.NewCommandStep("starting docker services", runner.Command{
			Name: "docker",
			Args: []string{"compose", "up", "-d"},
			Dir:  paths.Generated,
		}),
	)
}

// DockerDown stops the docker compose services and removes their volumes.
func DockerDown(paths api.ProjectPaths) *processing.Pipeline {
	return processing.NewPipeline("docker-down",
		steps.NewCommandStep("stopping docker services", runner.Command{
			Name: "docker",
			Args: []string{"compose", "down", "-v"},
			Dir:  paths.Generated,
		}),
	)
}

// Start runs the indexer from the project root. With openConsole the
// console is opened in a browser first; failing to do so only logs a
// warning.
func Start(paths api.ProjectPaths, syncFromRawEvents, openConsole bool) *processing.Pipeline {
	args := []string{"run", "start"}
	if syncFromRawEvents {
		args = append(args, "--", "--sync-from-raw-events")
	}

	p := processing.NewPipeline("start")
	if openConsole {
		p.Then(NewOpenConsoleStep(ConsoleURL))
	}
	return p.Then(steps.NewCommandStep("starting indexer", runner.Command{
		Name: "npm",
		Args: args,
		Dir:  paths.Root,
	}))
}

func pnpmInstall(dir string, extra ...string) runner.Command {
	return runner.Command{Name: "pnpm", Args: append([]string{"install"}, extra...), Dir: dir}
}

func rescript(dir string, args ...string) runner.Command {
	return runner.Command{Name: "npx", Args: append([]string{"rescript"}, args...), Dir: dir}
}

func migration(paths api.ProjectPaths, call string) runner.Command {
	return runner.Command{
		Name: "node",
		Args: []string{"-e", fmt.Sprintf("require(`%s`).%s", migrationsModule, call)},
		Dir:  paths.Generated,
	}
}
