// SPDX-License-Identifier: MPL-2.0

package pyversion

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// ArchAny means no architecture constraint (or no tag on a candidate).
	ArchAny Arch = ""
	// Arch32 is the 32-bit architecture tag.
	Arch32 Arch = "32"
	// Arch64 is the 64-bit architecture tag.
	Arch64 Arch = "64"

	// DefaultEnvVar is the variable holding the default version. Major-only
	// defaults append the major number ("PY_PYTHON3").
	DefaultEnvVar = "PY_PYTHON"
)

// ErrMalformed is the sentinel error wrapped by MalformedError.
var ErrMalformed = errors.New("malformed version specifier")

type (
	// Arch is a bit-width tag such as "32" or "64".
	Arch string

	// Version is the version an interpreter encodes in its file name.
	// Minor is only meaningful when HasMinor is true.
	Version struct {
		Major    int
		Minor    int
		HasMinor bool
		Arch     Arch
	}

	// Specifier is a parsed, possibly partial version request. The zero value
	// requests any version. Specifiers are immutable and comparable with ==.
	Specifier struct {
		major    int
		minor    int
		hasMajor bool
		hasMinor bool
		arch     Arch
	}

	// MalformedError is returned when a version token cannot be parsed.
	MalformedError struct {
		Token  string
		Reason string
	}
)

// Error implements the error interface.
func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed version specifier %q: %s", e.Token, e.Reason)
}

// Unwrap returns ErrMalformed so callers can use errors.Is.
func (e *MalformedError) Unwrap() error { return ErrMalformed }

// IsValid reports whether a is a known architecture tag (ArchAny included).
func (a Arch) IsValid() bool {
	switch a {
	case ArchAny, Arch32, Arch64:
		return true
	default:
		return false
	}
}

// NativeArch returns the bit width of the running launcher, used as the
// architecture of candidates whose file name carries no tag.
func NativeArch() Arch {
	if strconv.IntSize == 32 {
		return Arch32
	}
	return Arch64
}

// Any returns the unconstrained specifier.
func Any() Specifier { return Specifier{} }

// MajorOnly returns a specifier for any minor release of major.
func MajorOnly(major int) Specifier {
	return Specifier{major: major, hasMajor: true}
}

// Exact returns a specifier for major.minor.
func Exact(major, minor int) Specifier {
	return Specifier{major: major, minor: minor, hasMajor: true, hasMinor: true}
}

// WithArch returns a copy of s narrowed to arch.
func (s Specifier) WithArch(arch Arch) Specifier {
	s.arch = arch
	return s
}

// Major returns the requested major version, if any.
func (s Specifier) Major() (int, bool) { return s.major, s.hasMajor }

// Minor returns the requested minor version, if any.
func (s Specifier) Minor() (int, bool) { return s.minor, s.hasMinor }

// Arch returns the requested architecture, ArchAny when unconstrained.
func (s Specifier) Arch() Arch { return s.arch }

// IsAny reports whether s imposes no constraint at all.
func (s Specifier) IsAny() bool { return s == Specifier{} }

// IsExact reports whether s names both a major and a minor version.
func (s Specifier) IsExact() bool { return s.hasMajor && s.hasMinor }

// Matches reports whether v satisfies every field s sets. A candidate with an
// unknown minor never satisfies a specifier that sets one.
func (s Specifier) Matches(v Version) bool {
	if s.hasMajor && v.Major != s.major {
		return false
	}
	if s.hasMinor && (!v.HasMinor || v.Minor != s.minor) {
		return false
	}
	if s.arch != ArchAny && v.Arch != s.arch {
		return false
	}
	return true
}

// EnvVar returns the environment variable that may refine s: PY_PYTHON for
// an unconstrained request, PY_PYTHON<major> for a major-only one. Requests
// that already name a minor version or an architecture have none.
func (s Specifier) EnvVar() string {
	switch {
	case s.arch != ArchAny || s.hasMinor:
		return ""
	case s.hasMajor:
		return DefaultEnvVar + strconv.Itoa(s.major)
	default:
		return DefaultEnvVar
	}
}

// String returns the canonical token form of s ("any" for the zero value).
func (s Specifier) String() string {
	if s.IsAny() {
		return "any"
	}
	var b strings.Builder
	if s.hasMajor {
		b.WriteString(strconv.Itoa(s.major))
	}
	if s.hasMinor {
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(s.minor))
	}
	if s.arch != ArchAny {
		b.WriteByte('-')
		b.WriteString(string(s.arch))
	}
	return b.String()
}

// String returns "X", "X.Y" or "X.Y-ARCH".
func (v Version) String() string {
	s := strconv.Itoa(v.Major)
	if v.HasMinor {
		s += "." + strconv.Itoa(v.Minor)
	}
	if v.Arch != ArchAny {
		s += "-" + string(v.Arch)
	}
	return s
}

// Compare orders versions by major then minor, ascending. A known minor
// sorts above an unknown one of the same major. Architecture is ignored.
func Compare(a, b Version) int {
	if c := cmp.Compare(a.Major, b.Major); c != 0 {
		return c
	}
	if a.HasMinor != b.HasMinor {
		if a.HasMinor {
			return 1
		}
		return -1
	}
	return cmp.Compare(a.Minor, b.Minor)
}

// Parse parses a version token of the form X, X.Y, X.Y-ARCH or -ARCH.
func Parse(token string) (Specifier, error) {
	if token == "" {
		return Specifier{}, &MalformedError{Token: token, Reason: "empty"}
	}

	versionPart, archPart, hasArch := strings.Cut(token, "-")
	var s Specifier
	if hasArch {
		arch := Arch(archPart)
		if arch == ArchAny || !arch.IsValid() {
			return Specifier{}, &MalformedError{Token: token, Reason: fmt.Sprintf("unknown architecture %q", archPart)}
		}
		s.arch = arch
		if versionPart == "" {
			return s, nil
		}
	}

	majorPart, minorPart, hasMinor := strings.Cut(versionPart, ".")
	major, err := parseNumber(majorPart)
	if err != nil {
		return Specifier{}, &MalformedError{Token: token, Reason: "major version " + err.Error()}
	}
	s.major, s.hasMajor = major, true

	if hasMinor {
		if strings.Contains(minorPart, ".") {
			return Specifier{}, &MalformedError{Token: token, Reason: "only major and minor versions are supported"}
		}
		minor, err := parseNumber(minorPart)
		if err != nil {
			return Specifier{}, &MalformedError{Token: token, Reason: "minor version " + err.Error()}
		}
		s.minor, s.hasMinor = minor, true
	}

	return s, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(token string) Specifier {
	s, err := Parse(token)
	if err != nil {
		panic(err)
	}
	return s
}

// LooksLikeFlag reports whether a command-line argument is meant as a
// version flag (a dash followed by a digit, or "--" followed by a digit for
// the architecture-only form). Such arguments must parse or the invocation
// fails; other dash arguments belong to the interpreter.
func LooksLikeFlag(arg string) bool {
	rest, ok := strings.CutPrefix(arg, "-")
	if !ok {
		return false
	}
	rest = strings.TrimPrefix(rest, "-")
	return rest != "" && isDigit(rest[0])
}

// FromFlag parses a version flag such as "-3.9" or "--64". ok is false when
// arg is not a version flag at all.
func FromFlag(arg string) (s Specifier, ok bool, err error) {
	if !LooksLikeFlag(arg) {
		return Specifier{}, false, nil
	}
	s, err = Parse(arg[1:])
	return s, true, err
}

func parseNumber(s string) (int, error) {
	if s == "" {
		return 0, errors.New("is missing")
	}
	for i := range len(s) {
		if !isDigit(s[i]) {
			return 0, fmt.Errorf("%q is not a non-negative integer", s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is out of range", s)
	}
	return n, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
