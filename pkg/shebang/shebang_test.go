// SPDX-License-Identifier: MPL-2.0

package shebang

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cclauss/python-launcher/pkg/pyversion"

	"golang.org/x/sys/unix"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		want    Info
		wantOK  bool
		wantAny bool
	}{
		{name: "missing shebang comment", line: "/usr/bin/python"},
		{name: "missing exclamation point", line: "# /usr/bin/python"},
		{name: "missing octothorpe", line: "! /usr/bin/python"},
		{name: "non-Python shebang", line: "#! /bin/sh"},
		{name: "env with other program", line: "#!/usr/bin/env ruby"},
		{name: "python-config is not an interpreter", line: "#!/usr/bin/python3-config"},
		{name: "empty shebang", line: "#!"},
		{name: "env without program", line: "#!/usr/bin/env -S"},
		{name: "unterminated quote", line: "#!/usr/bin/env 'python3"},
		{name: "env unset without program", line: "#!/usr/bin/env -u python3"},
		{
			name:   "env unset operand is not the program",
			line:   "#!/usr/bin/env -u PYTHONPATH python3",
			want:   Info{Interpreter: "python3", Version: "3"},
			wantOK: true,
		},
		{
			name:   "env chdir and assignment",
			line:   "#!/usr/bin/env -C /srv PYTHONUTF8=1 python3.11",
			want:   Info{Interpreter: "python3.11", Version: "3.11"},
			wantOK: true,
		},
		{
			name:   "env end of options",
			line:   "#!/usr/bin/env -i -- python3",
			want:   Info{Interpreter: "python3", Version: "3"},
			wantOK: true,
		},
		{
			name:   "typical env python",
			line:   "#! /usr/bin/env python",
			want:   Info{Interpreter: "python"},
			wantOK: true, wantAny: true,
		},
		{
			name:   "typical python",
			line:   "#! /usr/bin/python",
			want:   Info{Interpreter: "/usr/bin/python"},
			wantOK: true, wantAny: true,
		},
		{
			name:   "usr local",
			line:   "#! /usr/local/bin/python",
			want:   Info{Interpreter: "/usr/local/bin/python"},
			wantOK: true, wantAny: true,
		},
		{
			name:   "bare python",
			line:   "#! python",
			want:   Info{Interpreter: "python"},
			wantOK: true, wantAny: true,
		},
		{
			name:   "env python with minor version",
			line:   "#!/usr/bin/env python3.7",
			want:   Info{Interpreter: "python3.7", Version: "3.7"},
			wantOK: true,
		},
		{
			name:   "python with minor version",
			line:   "#! /usr/bin/python3.7",
			want:   Info{Interpreter: "/usr/bin/python3.7", Version: "3.7"},
			wantOK: true,
		},
		{
			name:   "no space between shebang and path",
			line:   "#!/usr/bin/python",
			want:   Info{Interpreter: "/usr/bin/python"},
			wantOK: true, wantAny: true,
		},
		{
			name:   "env split string with interpreter args",
			line:   "#!/usr/bin/env -S python3 -u",
			want:   Info{Interpreter: "python3", Version: "3"},
			wantOK: true,
		},
		{
			name:   "windows line ending",
			line:   "#!/usr/bin/env python3.11\r",
			want:   Info{Interpreter: "python3.11", Version: "3.11"},
			wantOK: true,
		},
		{
			name:   "launcher without version",
			line:   "#!/usr/bin/env py",
			want:   Info{Interpreter: "py"},
			wantOK: true, wantAny: true,
		},
		{
			name:   "launcher with version flag",
			line:   "#!/usr/bin/env py -3.9",
			want:   Info{Interpreter: "py", Version: "3.9"},
			wantOK: true,
		},
		{
			name:   "launcher with interpreter flag only",
			line:   "#!/usr/local/bin/py -u",
			want:   Info{Interpreter: "/usr/local/bin/py"},
			wantOK: true, wantAny: true,
		},
		{name: "launcher with malformed version", line: "#!/usr/bin/env py -3.x"},
		{
			name:   "architecture suffix",
			line:   "#!/usr/bin/python3.9-32",
			want:   Info{Interpreter: "/usr/bin/python3.9-32", Version: "3.9-32"},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Extract(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("Extract(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got != tt.want {
				t.Errorf("Extract(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
			if got.IsAny() != tt.wantAny {
				t.Errorf("IsAny() = %v, want %v", got.IsAny(), tt.wantAny)
			}
		})
	}
}

func TestInfoSpecifier(t *testing.T) {
	info, ok := Extract("#!/usr/bin/env python3.7")
	if !ok {
		t.Fatal("expected shebang to be recognized")
	}
	spec, err := info.Specifier()
	if err != nil {
		t.Fatalf("Specifier() returned error: %v", err)
	}
	if spec != pyversion.Exact(3, 7) {
		t.Errorf("Specifier() = %v, want 3.7", spec)
	}

	spec, err = Info{Interpreter: "python"}.Specifier()
	if err != nil || !spec.IsAny() {
		t.Errorf("bare python Specifier() = %v, %v; want any", spec, err)
	}
}

func TestReadFirstLine(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    string
		wantOK  bool
	}{
		{name: "script", content: []byte("#!/usr/bin/env python3\nprint('hi')\n"), want: "#!/usr/bin/env python3", wantOK: true},
		{name: "no trailing newline", content: []byte("#!/usr/bin/python"), want: "#!/usr/bin/python", wantOK: true},
		{name: "crlf", content: []byte("#!/usr/bin/python\r\n"), want: "#!/usr/bin/python", wantOK: true},
		{name: "no shebang", content: []byte("print('hi')\n")},
		{name: "empty", content: nil},
		{name: "invalid UTF-8", content: []byte{0x23, 0x21, 0xc0, 0xaf}},
		{name: "binary", content: []byte("#!\x00\x01\x02")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := readFirstLine(bytes.NewReader(tt.content))
			if ok != tt.wantOK {
				t.Fatalf("readFirstLine ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("readFirstLine = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadFirstLineIsBounded(t *testing.T) {
	long := "#!/usr/bin/env python3" + strings.Repeat(" ", 2*MaxLineBytes) + "\n"
	got, ok := readFirstLine(strings.NewReader(long))
	if !ok {
		t.Fatal("expected a line")
	}
	if len(got) != MaxLineBytes {
		t.Errorf("line length = %d, want %d", len(got), MaxLineBytes)
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	script := filepath.Join(dir, "script.py")
	if err := os.WriteFile(script, []byte("#!/usr/bin/env python3.7\nprint('hello')\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	info, ok := FromFile(script)
	if !ok || info.Version != "3.7" {
		t.Errorf("FromFile(script) = %+v, %v", info, ok)
	}

	if _, ok := FromFile(filepath.Join(dir, "missing.py")); ok {
		t.Error("FromFile on a missing file should report false")
	}

	if _, ok := FromFile(dir); ok {
		t.Error("FromFile on a directory should report false")
	}
}

func TestFromFileSkipsFIFO(t *testing.T) {
	fifo := filepath.Join(t.TempDir(), "script.py")
	if err := unix.Mkfifo(fifo, 0o600); err != nil {
		t.Skipf("mkfifo unavailable: %v", err)
	}

	done := make(chan bool, 1)
	go func() {
		_, ok := FromFile(fifo)
		done <- ok
	}()

	select {
	case ok := <-done:
		if ok {
			t.Error("FromFile on a FIFO should report false")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("FromFile blocked on a FIFO")
	}
}
