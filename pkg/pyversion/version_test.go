// SPDX-License-Identifier: MPL-2.0

package pyversion

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token string
		want  Specifier
	}{
		{"3", MajorOnly(3)},
		{"3.9", Exact(3, 9)},
		{"42.13", Exact(42, 13)},
		{"3.9-32", Exact(3, 9).WithArch(Arch32)},
		{"3.11-64", Exact(3, 11).WithArch(Arch64)},
		{"-64", Any().WithArch(Arch64)},
		{"2-32", MajorOnly(2).WithArch(Arch32)},
		{"03.010", Exact(3, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.token)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	tokens := []string{
		"",
		"-",
		"x",
		"3.x",
		"three",
		"+3",
		"-3",
		"3.-1",
		"3.6.4",
		"3.",
		".9",
		"3.9-16",
		"3.9-arm",
		"3.9-",
		"3.9-32-1",
		"99999999999999999999999",
	}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(token)
			if err == nil {
				t.Fatalf("Parse(%q) expected error", token)
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Parse(%q) error should wrap ErrMalformed, got %v", token, err)
			}
			var me *MalformedError
			if !errors.As(err, &me) {
				t.Fatalf("Parse(%q) error should be *MalformedError, got %T", token, err)
			}
			if me.Token != token {
				t.Errorf("MalformedError.Token = %q, want %q", me.Token, token)
			}
		})
	}
}

func TestParseStringRoundTrip(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"3", "3.9", "3.9-32", "2.7-64", "-32"} {
		s := MustParse(token)
		if s.String() != token {
			t.Errorf("MustParse(%q).String() = %q", token, s.String())
		}
		again, err := Parse(s.String())
		if err != nil || again != s {
			t.Errorf("Parse(String()) for %q = %v, %v", token, again, err)
		}
	}

	if Any().String() != "any" {
		t.Errorf("Any().String() = %q, want any", Any().String())
	}
}

func TestMatches(t *testing.T) {
	t.Parallel()

	py27 := Version{Major: 2, Minor: 7, HasMinor: true, Arch: Arch64}
	py39 := Version{Major: 3, Minor: 9, HasMinor: true, Arch: Arch64}
	py39x32 := Version{Major: 3, Minor: 9, HasMinor: true, Arch: Arch32}
	py311 := Version{Major: 3, Minor: 11, HasMinor: true, Arch: Arch64}
	py3 := Version{Major: 3, Arch: Arch64}

	tests := []struct {
		name string
		spec Specifier
		v    Version
		want bool
	}{
		{"any matches 2.7", Any(), py27, true},
		{"any matches bare major", Any(), py3, true},
		{"major matches same major", MajorOnly(3), py311, true},
		{"major matches bare major", MajorOnly(3), py3, true},
		{"major rejects other major", MajorOnly(3), py27, false},
		{"exact matches", Exact(3, 9), py39, true},
		{"exact matches any arch", Exact(3, 9), py39x32, true},
		{"exact rejects other minor", Exact(3, 9), py311, false},
		{"exact rejects unknown minor", Exact(3, 9), py3, false},
		{"arch narrows", Exact(3, 9).WithArch(Arch32), py39x32, true},
		{"arch rejects other arch", Exact(3, 9).WithArch(Arch32), py39, false},
		{"arch only", Any().WithArch(Arch32), py39x32, true},
		{"arch only rejects", Any().WithArch(Arch32), py27, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.spec.Matches(tt.v); got != tt.want {
				t.Errorf("%v.Matches(%v) = %v, want %v", tt.spec, tt.v, got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	py38 := Version{Major: 3, Minor: 8, HasMinor: true}
	py311 := Version{Major: 3, Minor: 11, HasMinor: true}
	py3 := Version{Major: 3}
	py27 := Version{Major: 2, Minor: 7, HasMinor: true}

	if Compare(py311, py38) <= 0 {
		t.Error("3.11 should rank above 3.8")
	}
	if Compare(py38, py3) <= 0 {
		t.Error("3.8 should rank above bare python3")
	}
	if Compare(py3, py27) <= 0 {
		t.Error("python3 should rank above 2.7")
	}
	if Compare(py38, Version{Major: 3, Minor: 8, HasMinor: true, Arch: Arch32}) != 0 {
		t.Error("architecture should not affect ordering")
	}
}

func TestFromFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg     string
		want    Specifier
		ok      bool
		wantErr bool
	}{
		{arg: "-S", ok: false},
		{arg: "--something", ok: false},
		{arg: "script.py", ok: false},
		{arg: "-", ok: false},
		{arg: "-3", want: MajorOnly(3), ok: true},
		{arg: "-3.6", want: Exact(3, 6), ok: true},
		{arg: "-42.13", want: Exact(42, 13), ok: true},
		{arg: "-3.9-32", want: Exact(3, 9).WithArch(Arch32), ok: true},
		{arg: "--64", want: Any().WithArch(Arch64), ok: true},
		{arg: "-3.6.4", ok: true, wantErr: true},
		{arg: "-3.x", ok: true, wantErr: true},
		{arg: "-3.9-16", ok: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			t.Parallel()

			got, ok, err := FromFlag(tt.arg)
			if ok != tt.ok {
				t.Fatalf("FromFlag(%q) ok = %v, want %v", tt.arg, ok, tt.ok)
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromFlag(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("FromFlag(%q) = %v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}

func TestEnvVar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec Specifier
		want string
	}{
		{Any(), "PY_PYTHON"},
		{MajorOnly(3), "PY_PYTHON3"},
		{MajorOnly(2), "PY_PYTHON2"},
		{Exact(3, 9), ""},
		{MajorOnly(3).WithArch(Arch32), ""},
	}

	for _, tt := range tests {
		if got := tt.spec.EnvVar(); got != tt.want {
			t.Errorf("%v.EnvVar() = %q, want %q", tt.spec, got, tt.want)
		}
	}
}

func TestVersionString(t *testing.T) {
	t.Parallel()

	if s := (Version{Major: 3, Minor: 11, HasMinor: true}).String(); s != "3.11" {
		t.Errorf("got %q", s)
	}
	if s := (Version{Major: 3}).String(); s != "3" {
		t.Errorf("got %q", s)
	}
	if s := (Version{Major: 2, Minor: 7, HasMinor: true, Arch: Arch32}).String(); s != "2.7-32" {
		t.Errorf("got %q", s)
	}
}
