// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"io"
	"iter"
	"path/filepath"

	"github.com/cclauss/python-launcher/internal/discovery"
	"github.com/cclauss/python-launcher/internal/venv"
	"github.com/cclauss/python-launcher/pkg/platform"
	"github.com/cclauss/python-launcher/pkg/pyversion"
	"github.com/cclauss/python-launcher/pkg/shebang"

	"github.com/charmbracelet/log"
)

// ConfigSource is the Request.Source of a default taken from the configuration file.
const ConfigSource = "config"

type (
	// Policy holds the configurable parts of resolution.
	Policy struct {
		// PreferVenv selects a virtual environment even when a flag or shebang
		// is present, as long as the environment satisfies it.
		PreferVenv bool
		// VenvDirName is the directory searched for as a local environment.
		VenvDirName string
		// SearchParents extends the local environment search to parent directories.
		SearchParents bool
		// FrameworkDir is probed after the search path when non-empty.
		FrameworkDir string
		// Default is the configured default specifier token, used when no
		// PY_PYTHON variable applies.
		Default string
	}

	// Resolver applies the precedence chain to one Snapshot.
	Resolver struct {
		Snapshot Snapshot
		Policy   Policy
		// Logger receives debug output; nil discards it.
		Logger *log.Logger
		// Report receives discovery diagnostics; nil drops them.
		Report func(discovery.Diagnostic)
	}

	// Selection is a successful resolution.
	Selection struct {
		// Path is the interpreter to execute.
		Path string
		// Args are forwarded to the interpreter (argv[0] excluded).
		Args []string
		// Request is the signal that drove the selection.
		Request Request
		// Interpreter is the chosen candidate; nil when a virtual environment was selected.
		Interpreter *discovery.Interpreter
	}
)

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy(goos string) Policy {
	return Policy{
		PreferVenv:    true,
		VenvDirName:   venv.DefaultDirName,
		SearchParents: true,
		FrameworkDir:  platform.FrameworkDir(goos),
	}
}

// Discoverer returns the interpreter discoverer for this resolver's snapshot.
func (r Resolver) Discoverer() discovery.Discoverer {
	return discovery.Discoverer{
		SearchPath:   r.Snapshot.SearchPath(),
		WorkDir:      r.Snapshot.WorkDir(),
		FrameworkDir: r.Policy.FrameworkDir,
		Arch:         r.Snapshot.Arch(),
		Logger:       r.Logger,
		Report:       r.Report,
	}
}

// Detector returns the virtual environment detector for this resolver's snapshot.
func (r Resolver) Detector() venv.Detector {
	return venv.Detector{
		VirtualEnv:    r.Snapshot.Getenv(venv.EnvVar),
		WorkDir:       r.Snapshot.WorkDir(),
		DirName:       r.Policy.VenvDirName,
		SearchParents: r.Policy.SearchParents,
		Arch:          r.Snapshot.Arch(),
		Logger:        r.Logger,
	}
}

// Resolve runs the precedence chain over the snapshot's arguments.
func (r Resolver) Resolve() (Selection, error) {
	req, args, err := r.Request()
	if err != nil {
		return Selection{}, err
	}
	return r.Select(req, args)
}

// Request determines the active signal and the arguments to forward.
func (r Resolver) Request() (Request, []string, error) {
	logger := r.logger()
	args := r.Snapshot.Args()

	// 1. Explicit flag.
	var (
		primary    *Request
		forwarded  = args
		hasPrimary bool
	)
	if len(args) > 0 {
		spec, ok, err := pyversion.FromFlag(args[0])
		if ok {
			if err != nil {
				return Request{}, nil, &SpecifierError{Signal: KindExplicitFlag, Source: args[0], Err: err}
			}
			logger.Debug("explicit version flag", "flag", args[0], "specifier", spec)
			req := ExplicitFlag(spec)
			primary, hasPrimary = &req, true
			forwarded = args[1:]
		}
	}

	// 2. Shebang, only when running a script.
	if !hasPrimary {
		if req, ok := r.shebangRequest(args); ok {
			primary, hasPrimary = &req, true
		}
	}

	// 3. Virtual environment.
	env, err := r.Detector().Detect()
	switch {
	case err != nil && hasPrimary && !primary.Specifier.IsAny():
		logger.Warn("ignoring unusable virtual environment", "request", primary, "error", err)
	case err != nil:
		return Request{}, nil, err
	case env != nil:
		if r.venvApplies(env, primary) {
			logger.Debug("selecting virtual environment", "root", env.Root, "source", env.Source)
			return VirtualEnvironment(env.Root), forwarded, nil
		}
		logger.Debug("virtual environment does not satisfy request, skipping", "root", env.Root, "request", primary)
	}

	// 4. Environment defaults refine or replace the request.
	base := Unconstrained()
	if hasPrimary {
		base = *primary
	}
	req, err := r.applyDefaults(base)
	if err != nil {
		return Request{}, nil, err
	}
	return req, forwarded, nil
}

// Select turns a request into a concrete interpreter path.
func (r Resolver) Select(req Request, args []string) (Selection, error) {
	if req.Kind == KindVirtualEnvironment {
		return Selection{Path: venv.ExecutablePath(req.VenvPath), Args: args, Request: req}, nil
	}

	best, ok := Best(req.Specifier, r.Discoverer().All())
	if !ok {
		return Selection{}, &NoInterpreterFoundError{Specifier: req.Specifier, Signal: req.Kind}
	}
	r.logger().Debug("selected interpreter", "path", best.Path, "version", best.Version, "request", req)
	return Selection{Path: best.Path, Args: args, Request: req, Interpreter: &best}, nil
}

// Best returns the newest candidate matching spec; ties go to the earliest
// discovered. Exact major.minor requests stop at the first match, since no
// later candidate can outrank it.
func Best(spec pyversion.Specifier, candidates iter.Seq[discovery.Interpreter]) (discovery.Interpreter, bool) {
	var (
		best  discovery.Interpreter
		found bool
	)
	for c := range candidates {
		if !spec.Matches(c.Version) {
			continue
		}
		if spec.IsExact() {
			return c, true
		}
		if !found || pyversion.Compare(c.Version, best.Version) > 0 {
			best, found = c, true
		}
	}
	return best, found
}

func (r Resolver) shebangRequest(args []string) (Request, bool) {
	script, ok := ScriptArg(args)
	if !ok {
		return Request{}, false
	}
	if !filepath.IsAbs(script) && r.Snapshot.WorkDir() != "" {
		script = filepath.Join(r.Snapshot.WorkDir(), script)
	}

	r.logger().Debug("checking script for a shebang", "path", script)
	info, ok := shebang.FromFile(script)
	if !ok {
		return Request{}, false
	}
	spec, err := info.Specifier()
	if err != nil {
		return Request{}, false
	}
	r.logger().Debug("found shebang", "interpreter", info.Interpreter, "specifier", spec)
	return Shebang(info.Interpreter, spec), true
}

// venvApplies decides whether env wins over primary. Without a constraining
// request the environment always wins; otherwise it must satisfy the request
// and the policy must prefer it.
func (r Resolver) venvApplies(env *venv.Environment, primary *Request) bool {
	if primary == nil || primary.Specifier.IsAny() {
		return true
	}
	if !env.HasVersion || !primary.Specifier.Matches(env.Version) {
		return false
	}
	return r.Policy.PreferVenv
}

// applyDefaults consults PY_PYTHON (unconstrained requests) or
// PY_PYTHON<major> (major-only requests), then the configured default. A
// default that names only a major version is refined once more.
func (r Resolver) applyDefaults(req Request) (Request, error) {
	for range 2 {
		name := req.Specifier.EnvVar()
		if name == "" {
			break
		}
		value := r.Snapshot.Getenv(name)
		source := name
		if value == "" && req.Specifier.IsAny() && r.Policy.Default != "" {
			value, source = r.Policy.Default, ConfigSource
		}
		if value == "" {
			r.logger().Debug("no default set", "var", name)
			break
		}

		spec, err := pyversion.Parse(value)
		if err != nil {
			return Request{}, &SpecifierError{Signal: KindEnvironmentDefault, Source: source, Err: err}
		}
		if major, ok := req.Specifier.Major(); ok {
			if got, _ := spec.Major(); got != major {
				return Request{}, &SpecifierError{
					Signal: KindEnvironmentDefault,
					Source: source,
					Err: &pyversion.MalformedError{
						Token:  value,
						Reason: fmt.Sprintf("%s must name a Python %d version", source, major),
					},
				}
			}
		}
		r.logger().Debug("applying default", "source", source, "specifier", spec)
		req = EnvironmentDefault(source, spec)
	}
	return req, nil
}

func (r Resolver) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard)
	}
	return r.Logger
}
