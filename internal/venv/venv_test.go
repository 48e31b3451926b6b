// SPDX-License-Identifier: MPL-2.0

package venv

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/cclauss/python-launcher/internal/testutil"
	"github.com/cclauss/python-launcher/pkg/pyversion"
)

func TestDetectActivated(t *testing.T) {
	root := filepath.Join(t.TempDir(), "env")
	exe := testutil.MakeVenv(t, root, "3.11.4")

	env, err := Detector{VirtualEnv: root, Arch: pyversion.Arch64}.Detect()
	if err != nil {
		t.Fatalf("Detect() returned error: %v", err)
	}
	if env == nil {
		t.Fatal("Detect() returned nil environment")
	}
	if env.Executable != exe {
		t.Errorf("Executable = %q, want %q", env.Executable, exe)
	}
	if env.Source != SourceActivated {
		t.Errorf("Source = %q, want %q", env.Source, SourceActivated)
	}
	want := pyversion.Version{Major: 3, Minor: 11, HasMinor: true, Arch: pyversion.Arch64}
	if !env.HasVersion || env.Version != want {
		t.Errorf("Version = %v (has=%v), want %v", env.Version, env.HasVersion, want)
	}
}

func TestDetectActivatedTakesPrecedence(t *testing.T) {
	tmp := t.TempDir()
	activated := filepath.Join(tmp, "activated")
	exe := testutil.MakeVenv(t, activated, "3.10.1")

	work := filepath.Join(tmp, "project")
	testutil.MakeVenv(t, filepath.Join(work, DefaultDirName), "3.12.0")

	env, err := Detector{VirtualEnv: activated, WorkDir: work, SearchParents: true}.Detect()
	if err != nil {
		t.Fatalf("Detect() returned error: %v", err)
	}
	if env.Executable != exe {
		t.Errorf("Executable = %q, want activated %q", env.Executable, exe)
	}
}

func TestDetectMarkerInWorkDir(t *testing.T) {
	work := t.TempDir()
	exe := testutil.MakeVenv(t, filepath.Join(work, DefaultDirName), "")

	env, err := Detector{WorkDir: work}.Detect()
	if err != nil {
		t.Fatalf("Detect() returned error: %v", err)
	}
	if env == nil || env.Executable != exe {
		t.Fatalf("Detect() = %+v, want executable %q", env, exe)
	}
	if env.Source != SourceMarker {
		t.Errorf("Source = %q, want %q", env.Source, SourceMarker)
	}
	if env.HasVersion {
		t.Error("HasVersion should be false without a version key")
	}
}

func TestDetectMarkerInParent(t *testing.T) {
	project := t.TempDir()
	exe := testutil.MakeVenv(t, filepath.Join(project, DefaultDirName), "3.9.18")
	nested := filepath.Join(project, "src", "pkg")
	testutil.MustMkdirAll(t, nested, 0o755)

	env, err := Detector{WorkDir: nested, SearchParents: true}.Detect()
	if err != nil {
		t.Fatalf("Detect() returned error: %v", err)
	}
	if env == nil || env.Executable != exe {
		t.Fatalf("Detect() = %+v, want executable %q", env, exe)
	}

	env, err = Detector{WorkDir: nested, SearchParents: false}.Detect()
	if err != nil || env != nil {
		t.Errorf("Detect() without parent search = %+v, %v; want nil, nil", env, err)
	}
}

func TestDetectCustomDirName(t *testing.T) {
	work := t.TempDir()
	exe := testutil.MakeVenv(t, filepath.Join(work, "env"), "3.12.1")

	env, err := Detector{WorkDir: work, DirName: "env"}.Detect()
	if err != nil || env == nil || env.Executable != exe {
		t.Fatalf("Detect() = %+v, %v; want executable %q", env, err, exe)
	}
}

func TestDetectNone(t *testing.T) {
	work := t.TempDir()
	// A .venv directory without pyvenv.cfg is not a virtual environment.
	testutil.WriteExecutable(t, filepath.Join(work, DefaultDirName, "bin"), "python")

	env, err := Detector{WorkDir: work}.Detect()
	if err != nil || env != nil {
		t.Errorf("Detect() = %+v, %v; want nil, nil", env, err)
	}

	env, err = Detector{}.Detect()
	if err != nil || env != nil {
		t.Errorf("Detect() with no inputs = %+v, %v; want nil, nil", env, err)
	}
}

func TestDetectAmbiguous(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, root string)
	}{
		{
			name:  "missing pyvenv.cfg",
			setup: func(t *testing.T, root string) { testutil.WriteExecutable(t, filepath.Join(root, "bin"), "python") },
		},
		{
			name: "malformed pyvenv.cfg",
			setup: func(t *testing.T, root string) {
				testutil.WriteFile(t, filepath.Join(root, ConfigFileName), "this is not a key value line\n")
				testutil.WriteExecutable(t, filepath.Join(root, "bin"), "python")
			},
		},
		{
			name: "unparsable version",
			setup: func(t *testing.T, root string) {
				testutil.WriteFile(t, filepath.Join(root, ConfigFileName), "version = three\n")
				testutil.WriteExecutable(t, filepath.Join(root, "bin"), "python")
			},
		},
		{
			name: "missing interpreter",
			setup: func(t *testing.T, root string) {
				testutil.WriteFile(t, filepath.Join(root, ConfigFileName), "version = 3.11.2\n")
			},
		},
		{
			name: "interpreter not executable",
			setup: func(t *testing.T, root string) {
				testutil.WriteFile(t, filepath.Join(root, ConfigFileName), "version = 3.11.2\n")
				testutil.WriteFile(t, filepath.Join(root, "bin", "python"), "")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := filepath.Join(t.TempDir(), "env")
			testutil.MustMkdirAll(t, root, 0o755)
			tt.setup(t, root)

			env, err := Detector{VirtualEnv: root}.Detect()
			if err == nil {
				t.Fatalf("Detect() = %+v, expected error", env)
			}
			if !errors.Is(err, ErrAmbiguous) {
				t.Errorf("error should wrap ErrAmbiguous, got %v", err)
			}
			var ae *AmbiguousError
			if !errors.As(err, &ae) || ae.Root != root {
				t.Errorf("error should be *AmbiguousError for %s, got %v", root, err)
			}
		})
	}
}

func TestDetectRelativeVirtualEnv(t *testing.T) {
	work := t.TempDir()
	exe := testutil.MakeVenv(t, filepath.Join(work, "envs", "dev"), "3.11.0")

	env, err := Detector{VirtualEnv: filepath.Join("envs", "dev"), WorkDir: work}.Detect()
	if err != nil || env == nil || env.Executable != exe {
		t.Fatalf("Detect() = %+v, %v; want executable %q", env, err, exe)
	}
}

func TestParseConfigVersion(t *testing.T) {
	tests := []struct {
		raw     string
		want    pyversion.Version
		wantErr bool
	}{
		{raw: "3.11.4", want: pyversion.Version{Major: 3, Minor: 11, HasMinor: true}},
		{raw: "3.12.0.final.0", want: pyversion.Version{Major: 3, Minor: 12, HasMinor: true}},
		{raw: " 3.9 ", want: pyversion.Version{Major: 3, Minor: 9, HasMinor: true}},
		{raw: "3", wantErr: true},
		{raw: "three.one", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseConfigVersion(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseConfigVersion(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseConfigVersion(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestExecutablePath(t *testing.T) {
	if got := ExecutablePath("/path/to/venv"); got != "/path/to/venv/bin/python" {
		t.Errorf("ExecutablePath() = %q", got)
	}
}
