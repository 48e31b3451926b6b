// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"golang.org/x/sys/unix"
)

type recordedExec struct {
	path    string
	argv    []string
	environ []string
	calls   int
}

func (r *recordedExec) exec(err error) ExecFunc {
	return func(path string, argv, environ []string) error {
		r.calls++
		r.path, r.argv, r.environ = path, argv, environ
		return err
	}
}

func TestDispatchArgv(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantArgv []string
	}{
		{name: "no args", args: nil, wantArgv: []string{"/usr/bin/python3.11"}},
		{name: "script", args: []string{"app.py", "-v"}, wantArgv: []string{"/usr/bin/python3.11", "app.py", "-v"}},
		{name: "bytes preserved", args: []string{"", " spaced ", "-c", "print('\x01')"}, wantArgv: []string{"/usr/bin/python3.11", "", " spaced ", "-c", "print('\x01')"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec recordedExec
			d := Dispatcher{Exec: rec.exec(nil)}
			env := []string{"PATH=/usr/bin", "PY_PYTHON=3"}

			if err := d.Dispatch("/usr/bin/python3.11", tt.args, env); err != nil {
				t.Fatalf("Dispatch() returned error: %v", err)
			}
			if rec.calls != 1 {
				t.Fatalf("exec called %d times, want 1", rec.calls)
			}
			if rec.path != "/usr/bin/python3.11" {
				t.Errorf("path = %q", rec.path)
			}
			if !slices.Equal(rec.argv, tt.wantArgv) {
				t.Errorf("argv = %q, want %q", rec.argv, tt.wantArgv)
			}
			if !slices.Equal(rec.environ, env) {
				t.Errorf("environ = %q, want %q", rec.environ, env)
			}
		})
	}
}

func TestDispatchFailure(t *testing.T) {
	var rec recordedExec
	d := Dispatcher{Exec: rec.exec(unix.EACCES)}

	err := d.Dispatch("/opt/python3.12", []string{"x.py"}, nil)
	if !errors.Is(err, ErrDispatch) {
		t.Fatalf("Dispatch() error = %v, want ErrDispatch", err)
	}
	if !errors.Is(err, unix.EACCES) {
		t.Errorf("Dispatch() error = %v, want EACCES in chain", err)
	}
	var de *Error
	if !errors.As(err, &de) || de.Path != "/opt/python3.12" {
		t.Errorf("error = %#v, want *Error for /opt/python3.12", err)
	}
}

func TestDispatchMissingInterpreter(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "python3.99")

	err := Dispatcher{}.Dispatch(missing, nil, nil)
	if !errors.Is(err, ErrDispatch) {
		t.Fatalf("Dispatch() error = %v, want ErrDispatch", err)
	}
	if !errors.Is(err, unix.ENOENT) {
		t.Errorf("Dispatch() error = %v, want ENOENT", err)
	}
}
