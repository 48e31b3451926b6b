// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"
	"runtime"
	"slices"

	"github.com/cclauss/python-launcher/internal/config"
	"github.com/cclauss/python-launcher/internal/discovery"
	"github.com/cclauss/python-launcher/internal/dispatch"
	"github.com/cclauss/python-launcher/internal/resolve"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

// DebugEnvVar enables debug logging when set to any non-empty value.
const DebugEnvVar = "PYLAUNCH_DEBUG"

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: the Cobra handler delegates every launcher
	// option and the launch itself to it.
	App struct {
		Config     ConfigProvider
		Exec       dispatch.ExecFunc
		Environ    func() []string
		Getwd      func() (string, error)
		GOOS       string
		IsTerminal func(io.Writer) bool
		stdout     io.Writer
		stderr     io.Writer

		// verbose records the last invocation's log level for the error handler.
		verbose bool
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		// Exec replaces the process; unix.Exec when nil.
		Exec       dispatch.ExecFunc
		Environ    func() []string
		Getwd      func() (string, error)
		GOOS       string
		IsTerminal func(io.Writer) bool
		Stdout     io.Writer
		Stderr     io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// invocation is everything derived once per run from the environment.
	invocation struct {
		snapshot resolve.Snapshot
		config   *config.Config
		logger   *log.Logger
		resolver resolve.Resolver
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Environ == nil {
		deps.Environ = os.Environ
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}
	if deps.GOOS == "" {
		deps.GOOS = runtime.GOOS
	}
	if deps.IsTerminal == nil {
		deps.IsTerminal = isTerminal
	}

	return &App{
		Config:     deps.Config,
		Exec:       deps.Exec,
		Environ:    deps.Environ,
		Getwd:      deps.Getwd,
		GOOS:       deps.GOOS,
		IsTerminal: deps.IsTerminal,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}
}

// prepare snapshots the environment, loads configuration and builds the
// resolver for one run.
func (a *App) prepare(ctx context.Context, args []string) (*invocation, error) {
	wd, err := a.Getwd()
	if err != nil {
		wd = ""
	}
	snapshot := resolve.NewSnapshot(resolve.SnapshotOptions{
		Args:    args,
		Environ: a.Environ(),
		WorkDir: wd,
		GOOS:    a.GOOS,
	})

	cfg, err := a.Config.Load(ctx, config.LoadOptions{Getenv: snapshot.Getenv})
	if err != nil {
		return nil, err
	}

	a.verbose = cfg.Verbose || snapshot.Getenv(DebugEnvVar) != ""
	logger := newLogger(a.stderr, a.verbose)
	if wd == "" {
		logger.Warn("working directory unavailable")
	}
	if cfg.Source != "" {
		logger.Debug("loaded configuration", "path", cfg.Source)
	}
	logEnvironment(logger, snapshot)

	return &invocation{
		snapshot: snapshot,
		config:   cfg,
		logger:   logger,
		resolver: resolve.Resolver{
			Snapshot: snapshot,
			Policy:   policyFromConfig(cfg, snapshot.GOOS()),
			Logger:   logger,
			Report:   reportDiagnostic(logger),
		},
	}, nil
}

// dispatcher returns the dispatcher for inv, logging through its logger.
func (a *App) dispatcher(inv *invocation) dispatch.Dispatcher {
	return dispatch.Dispatcher{Exec: a.Exec, Logger: inv.logger}
}

// policyFromConfig maps configuration onto the resolver's policy.
func policyFromConfig(cfg *config.Config, goos string) resolve.Policy {
	return resolve.Policy{
		PreferVenv:    cfg.Venv.PreferWhenCompatible,
		VenvDirName:   cfg.Venv.DirName,
		SearchParents: cfg.Venv.SearchParents,
		FrameworkDir:  cfg.Discovery.EffectiveFrameworkDir(goos),
		Default:       cfg.Default,
	}
}

// logEnvironment records the launcher variables in key order.
func logEnvironment(logger *log.Logger, snapshot resolve.Snapshot) {
	vars := snapshot.LauncherVars()
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		logger.Debug("environment", "var", key, "value", vars[key])
	}
}

func reportDiagnostic(logger *log.Logger) func(discovery.Diagnostic) {
	return func(d discovery.Diagnostic) {
		if d.Severity == discovery.SeverityWarning {
			logger.Warn(d.Message, "code", d.Code, "path", d.Path)
			return
		}
		logger.Debug(d.Message, "code", d.Code, "path", d.Path)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
