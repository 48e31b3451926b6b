// SPDX-License-Identifier: MPL-2.0

package venv

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cclauss/python-launcher/pkg/pyversion"

	"github.com/charmbracelet/log"
	"github.com/go-ini/ini"
)

const (
	// EnvVar names the variable set by an activated virtual environment.
	EnvVar = "VIRTUAL_ENV"
	// DefaultDirName is the directory searched for in the working directory.
	DefaultDirName = ".venv"
	// ConfigFileName is the marker file at the root of every virtual environment.
	ConfigFileName = "pyvenv.cfg"
)

const (
	// SourceActivated means the environment came from VIRTUAL_ENV.
	SourceActivated Source = "activated"
	// SourceMarker means the environment was found by its marker file.
	SourceMarker Source = "marker"
)

// ErrAmbiguous is the sentinel error wrapped by AmbiguousError.
var ErrAmbiguous = errors.New("ambiguous virtual environment")

type (
	// Source records how an environment was found.
	Source string

	// Environment is a detected virtual environment.
	Environment struct {
		// Root is the environment's root directory.
		Root string
		// Executable is the environment's interpreter, <root>/bin/python.
		Executable string
		// Version is read from pyvenv.cfg; valid only when HasVersion is true.
		Version    pyversion.Version
		HasVersion bool
		Source     Source
	}

	// AmbiguousError is returned when a virtual environment is signalled but
	// cannot be used: its pyvenv.cfg is missing or malformed, or it has no
	// interpreter.
	AmbiguousError struct {
		Root   string
		Source Source
		Reason string
		Cause  error
	}

	// Detector finds the virtual environment for one invocation. All ambient
	// state arrives through its fields.
	Detector struct {
		// VirtualEnv is the value of VIRTUAL_ENV ("" when unset).
		VirtualEnv string
		// WorkDir is the directory the marker search starts from.
		WorkDir string
		// DirName is the environment directory name, DefaultDirName when empty.
		DirName string
		// SearchParents extends the marker search to every parent of WorkDir.
		SearchParents bool
		// Arch is recorded as the environment interpreter's architecture.
		Arch pyversion.Arch
		// Logger receives debug output; nil discards it.
		Logger *log.Logger
	}
)

// Error implements the error interface.
func (e *AmbiguousError) Error() string {
	msg := fmt.Sprintf("virtual environment %s (%s): %s", e.Root, e.Source, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns ErrAmbiguous and the underlying cause.
func (e *AmbiguousError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrAmbiguous}
	}
	return []error{ErrAmbiguous, e.Cause}
}

// ExecutablePath returns the interpreter path inside a virtual environment root.
func ExecutablePath(root string) string {
	return filepath.Join(root, "bin", "python")
}

// Detect returns the active virtual environment: VIRTUAL_ENV first, then the
// marker search. It returns nil, nil when there is none.
func (d Detector) Detect() (*Environment, error) {
	logger := d.logger()

	logger.Debug("checking for an activated virtual environment", "var", EnvVar)
	if d.VirtualEnv != "" {
		root := d.VirtualEnv
		if !filepath.IsAbs(root) && d.WorkDir != "" {
			root = filepath.Join(d.WorkDir, root)
		}
		logger.Debug("virtual environment activated", "root", root)
		return load(filepath.Clean(root), SourceActivated, d.Arch)
	}

	if d.WorkDir == "" {
		logger.Warn("working directory unknown, skipping virtual environment search")
		return nil, nil
	}

	dirName := d.DirName
	if dirName == "" {
		dirName = DefaultDirName
	}

	dir := d.WorkDir
	for {
		root := filepath.Join(dir, dirName)
		logger.Debug("checking for a virtual environment", "root", root)
		if isFile(filepath.Join(root, ConfigFileName)) {
			return load(root, SourceMarker, d.Arch)
		}
		if !d.SearchParents {
			return nil, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

func (d Detector) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard)
	}
	return d.Logger
}

// load validates the environment at root and reads its version.
func load(root string, source Source, arch pyversion.Arch) (*Environment, error) {
	cfgPath := filepath.Join(root, ConfigFileName)
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment: true,
	}, cfgPath)
	if err != nil {
		return nil, &AmbiguousError{Root: root, Source: source, Reason: "cannot read " + ConfigFileName, Cause: err}
	}

	env := &Environment{
		Root:       root,
		Executable: ExecutablePath(root),
		Source:     source,
	}

	section := cfg.Section(ini.DefaultSection)
	raw := section.Key("version_info").String()
	if raw == "" {
		raw = section.Key("version").String()
	}
	if raw != "" {
		v, err := parseConfigVersion(raw)
		if err != nil {
			return nil, &AmbiguousError{Root: root, Source: source, Reason: "invalid version in " + ConfigFileName, Cause: err}
		}
		v.Arch = arch
		env.Version, env.HasVersion = v, true
	}

	info, err := os.Stat(env.Executable)
	if err != nil {
		return nil, &AmbiguousError{Root: root, Source: source, Reason: "no interpreter", Cause: err}
	}
	if !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
		return nil, &AmbiguousError{Root: root, Source: source, Reason: "interpreter is not an executable file"}
	}

	return env, nil
}

// parseConfigVersion reads major.minor out of values such as "3.11.4" or
// "3.12.0.final.0".
func parseConfigVersion(raw string) (pyversion.Version, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ".", 3)
	if len(parts) < 2 {
		return pyversion.Version{}, fmt.Errorf("%q has no minor version", raw)
	}
	spec, err := pyversion.Parse(parts[0] + "." + parts[1])
	if err != nil {
		return pyversion.Version{}, err
	}
	major, _ := spec.Major()
	minor, _ := spec.Minor()
	return pyversion.Version{Major: major, Minor: minor, HasMinor: true}, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
