// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/cclauss/python-launcher/internal/venv"
	"github.com/cclauss/python-launcher/pkg/pyversion"

	"golang.org/x/exp/maps"
)

type (
	// Snapshot is the invocation environment captured once per run. It is
	// never mutated after construction; accessors return copies.
	Snapshot struct {
		args    []string
		environ []string
		vars    map[string]string
		workDir string
		goos    string
		arch    pyversion.Arch
	}

	// SnapshotOptions are the raw inputs of NewSnapshot.
	SnapshotOptions struct {
		// Args are the launcher's arguments, without argv[0].
		Args []string
		// Environ is the process environment in "KEY=value" form.
		Environ []string
		// WorkDir is the working directory ("" when unknown).
		WorkDir string
		// GOOS defaults to runtime.GOOS.
		GOOS string
		// Arch defaults to pyversion.NativeArch().
		Arch pyversion.Arch
	}
)

// NewSnapshot builds a Snapshot from explicit inputs.
func NewSnapshot(opts SnapshotOptions) Snapshot {
	s := Snapshot{
		args:    slices.Clone(opts.Args),
		environ: slices.Clone(opts.Environ),
		vars:    make(map[string]string, len(opts.Environ)),
		workDir: opts.WorkDir,
		goos:    opts.GOOS,
		arch:    opts.Arch,
	}
	if s.goos == "" {
		s.goos = runtime.GOOS
	}
	if s.arch == pyversion.ArchAny {
		s.arch = pyversion.NativeArch()
	}
	for _, kv := range s.environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		// The first definition wins, as in the C library's getenv.
		if _, seen := s.vars[key]; !seen {
			s.vars[key] = value
		}
	}
	return s
}

// Capture snapshots the running process. args excludes argv[0].
func Capture(args []string) Snapshot {
	wd, err := os.Getwd()
	if err != nil {
		// A deleted working directory disables the marker search and
		// relative search path entries.
		wd = ""
	}
	return NewSnapshot(SnapshotOptions{
		Args:    args,
		Environ: os.Environ(),
		WorkDir: wd,
	})
}

// Args returns a copy of the launcher's arguments.
func (s Snapshot) Args() []string { return slices.Clone(s.args) }

// Environ returns a copy of the environment, in its original order.
func (s Snapshot) Environ() []string { return slices.Clone(s.environ) }

// LauncherVars returns a copy of the variables that steer resolution: PATH,
// VIRTUAL_ENV and the PY_PYTHON defaults.
func (s Snapshot) LauncherVars() map[string]string {
	vars := maps.Clone(s.vars)
	maps.DeleteFunc(vars, func(key, _ string) bool {
		return key != "PATH" && key != venv.EnvVar && !strings.HasPrefix(key, pyversion.DefaultEnvVar)
	})
	return vars
}

// Getenv returns the value of key, "" when unset.
func (s Snapshot) Getenv(key string) string { return s.vars[key] }

// WorkDir returns the working directory, "" when it could not be determined.
func (s Snapshot) WorkDir() string { return s.workDir }

// GOOS returns the operating system the snapshot describes.
func (s Snapshot) GOOS() string { return s.goos }

// Arch returns the native architecture assumed for untagged interpreters.
func (s Snapshot) Arch() pyversion.Arch { return s.arch }

// SearchPath returns the PATH entries in order. Empty entries are kept so
// discovery can report them.
func (s Snapshot) SearchPath() []string {
	path, ok := s.vars["PATH"]
	if !ok || path == "" {
		return nil
	}
	return filepath.SplitList(path)
}
