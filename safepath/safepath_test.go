package safepath_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasbyte1/go-authsec/safepath"
)

func TestJoin_Accepts(t *testing.T) {
	tests := []struct {
		name      string
		base      string
		fragments []string
		want      string
	}{
		{"two fragments", "/var/data", []string{"a", "b.txt"}, "/var/data/a/b.txt"},
		{"no fragments", "/var/data", nil, "/var/data"},
		{"nested fragment", "/var/data", []string{"a/b/c.txt"}, "/var/data/a/b/c.txt"},
		{"inner dotdot", "/var/data", []string{"a/../b.txt"}, "/var/data/b.txt"},
		{"dot segments", "/var/data", []string{"./a/./b"}, "/var/data/a/b"},
		{"duplicate slashes", "/var/data", []string{"a//b"}, "/var/data/a/b"},
		{"trailing slash cleaned", "/var/data", []string{"a/"}, "/var/data/a"},
		{"dot fragment", "/var/data", []string{"."}, "/var/data/."},
		{"base with slash", "/var/data/", []string{"a"}, "/var/data/a"},
		{"empty fragment", "/var/data", []string{""}, "/var/data/"},
		{"empty then name", "/var/data", []string{"", "a"}, "/var/data/a"},
		{"empty base", "", []string{"a"}, "./a"},
		{"empty base alone", "", nil, "."},
		{"relative base", "uploads", []string{"x.png"}, "uploads/x.png"},
		{"dots in name", "/srv", []string{"..hidden", "a..b"}, "/srv/..hidden/a..b"},
		{"dotdot prefix name", "/srv", []string{"...txt"}, "/srv/...txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := safepath.Join(tt.base, tt.fragments...)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoin_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		fragments []string
	}{
		{"parent", []string{".."}},
		{"parent prefix", []string{"../etc/passwd"}},
		{"normalises to traversal", []string{"a/../../etc"}},
		{"deep traversal", []string{"a/b/../../../x"}},
		{"absolute", []string{"/etc/passwd"}},
		{"double slash absolute", []string{"//etc/passwd"}},
		{"dot then parent", []string{"./.."}},
		{"trailing parent", []string{"a/../.."}},
		{"second fragment bad", []string{"a", "../b"}},
		{"first fragment bad", []string{"/x", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := safepath.Join("/var/data", tt.fragments...)
			assert.False(t, ok)
			assert.Empty(t, got, "no partial result on rejection")
		})
	}
}

func TestJoin_PlatformSeparator(t *testing.T) {
	_, ok := safepath.Join("/var/data", `..\..\windows\system32`)
	if filepath.Separator == '\\' {
		assert.False(t, ok, "backslash must be rejected where it is a separator")
	} else {
		assert.True(t, ok, "backslash is an ordinary character on this platform")
	}
}

func TestValid(t *testing.T) {
	assert.True(t, safepath.Valid("a/b"))
	assert.True(t, safepath.Valid(""))
	assert.True(t, safepath.Valid("a/.."))
	assert.False(t, safepath.Valid(".."))
	assert.False(t, safepath.Valid("../a"))
	assert.False(t, safepath.Valid("/a"))
}

func TestGuard(t *testing.T) {
	g := safepath.NewGuard("/srv/static")
	assert.Equal(t, "/srv/static", g.Base())

	got, ok := g.Join("css", "site.css")
	require.True(t, ok)
	assert.Equal(t, "/srv/static/css/site.css", got)

	_, ok = g.Join("../secrets")
	assert.False(t, ok)

	var zero safepath.Guard
	assert.Equal(t, ".", zero.Base())
	got, ok = zero.Join("a")
	require.True(t, ok)
	assert.Equal(t, "./a", got)

	assert.Equal(t, ".", safepath.NewGuard("").Base())
}

// Every accepted result stays under the base after cleaning.
func TestJoin_StaysUnderBase(t *testing.T) {
	inputs := []string{"a", "a/b", "a/../b", "./x", "x/./y/../z", "..a", "a/..", "", "."}
	for _, in := range inputs {
		got, ok := safepath.Join("/base", in)
		require.True(t, ok, in)
		rel, err := filepath.Rel("/base", filepath.Clean(got))
		require.NoError(t, err)
		assert.NotEqual(t, "..", rel, in)
		assert.NotContains(t, filepath.ToSlash(rel), "../", in)
	}
}

func FuzzJoin(f *testing.F) {
	for _, s := range []string{"a", "../x", "a/../../b", "/etc", "", ".", `a\b`} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, fragment string) {
		got, ok := safepath.Join("/base", fragment)
		if !ok {
			if got != "" {
				t.Fatalf("rejected fragment %q returned %q", fragment, got)
			}
			return
		}
		rel, err := filepath.Rel("/base", filepath.Clean(got))
		if err != nil || rel == ".." || len(rel) >= 3 && rel[:3] == "../" {
			t.Fatalf("fragment %q escaped base: %q", fragment, got)
		}
	})
}
