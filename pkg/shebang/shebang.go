// SPDX-License-Identifier: MPL-2.0

// Package shebang extracts Python version requests from script "#!" lines.
package shebang

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cclauss/python-launcher/pkg/pyversion"

	"mvdan.cc/sh/v3/shell"
)

const (
	// MaxLineBytes caps how much of a file is read looking for the first line.
	// It matches the kernel's "#!" buffer, so longer lines would not have been
	// honored by exec either.
	MaxLineBytes = 256

	// LauncherName is the launcher's own name as it appears in shebang lines.
	LauncherName = "py"

	marker = "#!"
)

// pythonName matches "python", "python3", "python3.11" and "python3.11-32".
var pythonName = regexp.MustCompile(`^python(\d+(?:\.\d+)?(?:-(?:32|64))?)?$`)

// Info describes a recognized Python shebang.
type Info struct {
	// Interpreter is the raw interpreter token from the line (e.g. "/usr/bin/python3.7", "py").
	Interpreter string
	// Version is the raw version token ("3.7"); empty means any interpreter.
	Version string
}

// Specifier parses the version token. An empty token yields the
// unconstrained specifier.
func (i Info) Specifier() (pyversion.Specifier, error) {
	if i.IsAny() {
		return pyversion.Any(), nil
	}
	return pyversion.Parse(i.Version)
}

// IsAny reports whether the shebang asks for "just find Python".
func (i Info) IsAny() bool { return i.Version == "" }

// ReadFirstLine returns the first line of the file at path when it starts
// with "#!". At most MaxLineBytes are read. Only regular files are opened:
// pipes and devices belong to the interpreter and must not be drained. Any
// failure (unreadable file, binary content, invalid UTF-8) yields false.
func ReadFirstLine(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	return readFirstLine(f)
}

func readFirstLine(r io.Reader) (string, bool) {
	buf := make([]byte, MaxLineBytes)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", false
	}
	buf = buf[:n]

	if idx := bytes.IndexByte(buf, '\n'); idx != -1 {
		buf = buf[:idx]
	}
	if !bytes.HasPrefix(buf, []byte(marker)) {
		return "", false
	}
	if bytes.IndexByte(buf, 0) != -1 || !utf8.Valid(buf) {
		return "", false
	}

	return strings.TrimSuffix(string(buf), "\r"), true
}

// Extract recognizes a Python shebang line. Supported shapes:
//   - #!/usr/bin/python3.7          -> Version "3.7"
//   - #! python                     -> any
//   - #!/usr/bin/env python3        -> Version "3"
//   - #!/usr/bin/env -S python3 -u  -> Version "3"
//   - #!/usr/bin/env py -3.9        -> Version "3.9"
//   - #!/usr/bin/env py             -> any, prefer the active virtual environment
//
// Anything else (other interpreters, malformed version suffixes) yields false.
func Extract(line string) (Info, bool) {
	line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	rest, ok := strings.CutPrefix(line, marker)
	if !ok {
		return Info{}, false
	}

	words, err := shell.Fields(rest, func(string) string { return "" })
	if err != nil || len(words) == 0 {
		return Info{}, false
	}

	interpreter, args := words[0], words[1:]
	if filepath.Base(interpreter) == "env" {
		var found bool
		if interpreter, args, found = envTarget(args); !found {
			return Info{}, false
		}
	}

	return recognize(interpreter, args)
}

// FromFile reads path's first line and extracts a Python shebang from it.
func FromFile(path string) (Info, bool) {
	line, ok := ReadFirstLine(path)
	if !ok {
		return Info{}, false
	}
	return Extract(line)
}

// envOperandFlags are env options whose value is the following word.
var envOperandFlags = map[string]bool{
	"-u":      true,
	"-C":      true,
	"--unset": true,
	"--chdir": true,
}

// envTarget skips env's own options (including -S and the operands of -u and
// -C) and NAME=VALUE assignments, and returns the program env would run along
// with that program's arguments.
func envTarget(args []string) (string, []string, bool) {
	options := true
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case options && arg == "--":
			options = false
		case options && envOperandFlags[arg]:
			i++
		case options && strings.HasPrefix(arg, "-"):
		case strings.Contains(arg, "="):
		default:
			return arg, args[i+1:], true
		}
	}
	return "", nil, false
}

func recognize(interpreter string, args []string) (Info, bool) {
	base := filepath.Base(interpreter)

	if base == LauncherName {
		info := Info{Interpreter: interpreter}
		if len(args) > 0 && pyversion.LooksLikeFlag(args[0]) {
			if _, err := pyversion.Parse(args[0][1:]); err != nil {
				return Info{}, false
			}
			info.Version = args[0][1:]
		}
		return info, true
	}

	m := pythonName.FindStringSubmatch(base)
	if m == nil {
		return Info{}, false
	}
	if m[1] != "" {
		if _, err := pyversion.Parse(m[1]); err != nil {
			return Info{}, false
		}
	}
	return Info{Interpreter: interpreter, Version: m[1]}, true
}
