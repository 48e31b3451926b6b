// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"

	"github.com/cclauss/python-launcher/pkg/pyversion"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

const (
	// LocationSearchPath indicates the interpreter was found on the search path.
	LocationSearchPath Location = iota
	// LocationFramework indicates the interpreter was found in the framework directory.
	LocationFramework
)

// interpreterName matches python<major>[.<minor>][-<arch>].
var interpreterName = regexp.MustCompile(`^python(\d+)(?:\.(\d+))?(?:-(32|64))?$`)

type (
	// Location classifies where an interpreter was found.
	Location int

	// Interpreter is a candidate found during discovery.
	Interpreter struct {
		// Path is the absolute path to the executable.
		Path string
		// Version is inferred from the file name.
		Version pyversion.Version
		// Location records which kind of directory held the executable.
		Location Location
		// Order is the candidate's position in discovery order, starting at 0.
		// Lower orders win ties between identical versions.
		Order int
	}

	// Discoverer scans directories for interpreters. All ambient state arrives
	// through its fields, so a Discoverer is a pure description of one scan.
	Discoverer struct {
		// SearchPath lists the directories to scan, in precedence order.
		SearchPath []string
		// WorkDir resolves relative SearchPath entries. When empty, relative
		// entries are skipped.
		WorkDir string
		// FrameworkDir is probed after SearchPath when non-empty.
		FrameworkDir string
		// Arch is assigned to candidates whose name carries no architecture tag.
		Arch pyversion.Arch
		// Logger receives debug output; nil discards it.
		Logger *log.Logger
		// Report receives non-fatal findings; nil drops them after logging.
		Report func(Diagnostic)
	}
)

// String returns a human-readable location name.
func (l Location) String() string {
	switch l {
	case LocationSearchPath:
		return "search path"
	case LocationFramework:
		return "framework"
	default:
		return "unknown"
	}
}

// ParseName returns the version encoded in an interpreter file name. Names
// without a major version ("python") and derived tools ("python3-config")
// are not interpreters.
func ParseName(name string) (pyversion.Version, bool) {
	m := interpreterName.FindStringSubmatch(name)
	if m == nil {
		return pyversion.Version{}, false
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return pyversion.Version{}, false
	}
	v := pyversion.Version{Major: major, Arch: pyversion.Arch(m[3])}
	if m[2] != "" {
		minor, err := strconv.Atoi(m[2])
		if err != nil {
			return pyversion.Version{}, false
		}
		v.Minor, v.HasMinor = minor, true
	}
	return v, true
}

// All returns the interpreters in discovery order: each search path
// directory in turn, then the framework directory. The sequence is lazy and
// consumers may stop early; every iteration rescans the filesystem.
func (d Discoverer) All() iter.Seq[Interpreter] {
	return func(yield func(Interpreter) bool) {
		order := 0
		emit := func(dir string, loc Location) bool {
			for interp := range d.scanDir(dir, loc) {
				interp.Order = order
				order++
				if !yield(interp) {
					return false
				}
			}
			return true
		}

		for _, dir := range d.SearchPath {
			dir, ok := d.resolveDir(dir)
			if !ok {
				continue
			}
			if !emit(dir, LocationSearchPath) {
				return
			}
		}

		if d.FrameworkDir != "" {
			d.logger().Debug("probing framework directory", "dir", d.FrameworkDir)
			emit(d.FrameworkDir, LocationFramework)
		}
	}
}

// Collect drains All into a slice.
func (d Discoverer) Collect() []Interpreter {
	return slices.Collect(d.All())
}

// Newest reduces interpreters to one per distinct version, keeping the
// earliest discovered path, and orders the result from newest to oldest.
func Newest(interpreters iter.Seq[Interpreter]) []Interpreter {
	seen := make(map[pyversion.Version]bool)
	var out []Interpreter
	for interp := range interpreters {
		if seen[interp.Version] {
			continue
		}
		seen[interp.Version] = true
		out = append(out, interp)
	}

	slices.SortStableFunc(out, func(a, b Interpreter) int {
		if c := pyversion.Compare(b.Version, a.Version); c != 0 {
			return c
		}
		return a.Order - b.Order
	})
	return out
}

func (d Discoverer) resolveDir(dir string) (string, bool) {
	if dir == "" {
		d.report(Diagnostic{
			Severity: SeverityInfo,
			Code:     CodeSearchDirEmpty,
			Message:  "skipping empty search path entry",
		})
		return "", false
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir), true
	}
	if d.WorkDir == "" {
		d.report(Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeSearchDirRelative,
			Message:  fmt.Sprintf("skipping relative search path entry %q: working directory unknown", dir),
			Path:     dir,
		})
		return "", false
	}
	return filepath.Join(d.WorkDir, dir), true
}

// scanDir yields the interpreters in one directory in file name order.
func (d Discoverer) scanDir(dir string, loc Location) iter.Seq[Interpreter] {
	return func(yield func(Interpreter) bool) {
		d.logger().Debug("scanning for interpreters", "dir", dir, "location", loc)

		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				d.report(Diagnostic{
					Severity: SeverityInfo,
					Code:     CodeSearchDirMissing,
					Message:  fmt.Sprintf("search path directory %s does not exist", dir),
					Path:     dir,
				})
				return
			}
			d.report(Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeSearchDirUnreadable,
				Message:  fmt.Sprintf("cannot read %s", dir),
				Path:     dir,
				Cause:    err,
			})
			return
		}

		for _, entry := range entries {
			version, ok := ParseName(entry.Name())
			if !ok {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if !d.isExecutableFile(path) {
				continue
			}
			if version.Arch == pyversion.ArchAny {
				version.Arch = d.Arch
			}
			d.logger().Debug("found interpreter", "path", path, "version", version)
			if !yield(Interpreter{Path: path, Version: version, Location: loc}) {
				return
			}
		}
	}
}

// isExecutableFile follows symlinks and accepts only regular files the
// current user may execute.
func (d Discoverer) isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		d.report(Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeEntryUnreadable,
			Message:  fmt.Sprintf("cannot stat %s", path),
			Path:     path,
			Cause:    err,
		})
		return false
	}
	if !info.Mode().IsRegular() {
		return false
	}
	if err := unix.Access(path, unix.X_OK); err != nil {
		d.report(Diagnostic{
			Severity: SeverityInfo,
			Code:     CodeEntryNotExecutable,
			Message:  fmt.Sprintf("%s is not executable", path),
			Path:     path,
			Cause:    err,
		})
		return false
	}
	return true
}

func (d Discoverer) report(diag Diagnostic) {
	d.logger().Debug(diag.Message, "code", diag.Code)
	if d.Report != nil {
		d.Report(diag)
	}
}

func (d Discoverer) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard)
	}
	return d.Logger
}
