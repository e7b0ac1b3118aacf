package safepath

import (
	"path"
	"path/filepath"
	"strings"
)

// CurrentDir is used as the base when the base directory is empty.
const CurrentDir = "."

// Join cleans and validates each fragment and appends the accepted ones to
// base with "/" separators. It returns ("", false) as soon as any fragment is
// rejected; see the package documentation for the rules.
//
// An empty base is treated as [CurrentDir]. The base itself is trusted and
// used verbatim.
//
//	Join("/var/data", "a", "b.txt")   // "/var/data/a/b.txt", true
//	Join("/var/data", "a/../../etc")  // "", false
func Join(base string, fragments ...string) (string, bool) {
	if base == "" {
		base = CurrentDir
	}

	out := base
	for _, f := range fragments {
		cleaned, ok := clean(f)
		if !ok {
			return "", false
		}
		out = appendPart(out, cleaned)
	}
	return out, true
}

// Valid reports whether fragment would be accepted by [Join].
func Valid(fragment string) bool {
	_, ok := clean(fragment)
	return ok
}

// Guard binds a trusted base directory so handlers only pass fragments.
// The zero value joins onto [CurrentDir].
type Guard struct {
	base string
}

// NewGuard returns a Guard rooted at base.
func NewGuard(base string) Guard {
	if base == "" {
		base = CurrentDir
	}
	return Guard{base: base}
}

// Base returns the trusted base directory.
func (g Guard) Base() string {
	if g.base == "" {
		return CurrentDir
	}
	return g.base
}

// Join is [Join] with the guard's base directory.
func (g Guard) Join(fragments ...string) (string, bool) {
	return Join(g.Base(), fragments...)
}

// clean normalises a single fragment and reports whether it is acceptable.
func clean(fragment string) (string, bool) {
	if fragment != "" {
		fragment = path.Clean(fragment)
	}
	switch {
	case filepath.Separator != '/' && strings.ContainsRune(fragment, filepath.Separator):
		return "", false
	case path.IsAbs(fragment), filepath.IsAbs(fragment), filepath.VolumeName(fragment) != "":
		return "", false
	case fragment == "..", strings.HasPrefix(fragment, "../"):
		return "", false
	}
	return fragment, true
}

// appendPart joins p onto dir the way a POSIX shell would: no separator is
// added when dir already ends in one, and an empty p leaves a trailing "/".
func appendPart(dir, p string) string {
	if dir == "" || strings.HasSuffix(dir, "/") {
		return dir + p
	}
	return dir + "/" + p
}
