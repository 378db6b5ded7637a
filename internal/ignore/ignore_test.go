package ignore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	m := New([]string{"node_modules", "*.min.js", "build/**", "docs/*.md"}, "/repo")
	cases := map[string]bool{
		"node_modules/pkg/dist/index.js": true,
		"node_modules":                   true,
		"assets/app.min.js":              true,
		"build/out/x.txt":                true,
		"docs/readme.md":                 true,
		"docs/deep/readme.md":            false,
		"src/app.go":                     false,
		"/repo/node_modules/x.js":        true,
		"/repo/src/./../src/app.min.js":  true,
		"./src/main.go":                  false,
		"src/node_modules_not/keep.js":   false,
		"/elsewhere/node_modules/lib.js": false,
		"/elsewhere/docs/readme.md":      false,
		"/repo/docs/../docs/guide.md":    true,
	}
	for p, want := range cases {
		assert.Equalf(t, want, m.Match(p), "Match(%q)", p)
	}
}

// Ancestors are compared as whole paths; nested directories such as
// web/node_modules are pruned by the walker matching the directory itself.
func TestMatch_NestedDirectoryMatchesByName(t *testing.T) {
	m := New([]string{"node_modules"}, "/repo")
	assert.True(t, m.Match("web/node_modules"))
	assert.False(t, m.Match("web/node_modules/a.js"))
}

func TestMatch_BareNameOnlyWithoutSeparator(t *testing.T) {
	m := New([]string{"src/config.toml"}, "/repo")
	assert.True(t, m.Match("src/config.toml"))
	assert.False(t, m.Match("other/config.toml"))
	assert.False(t, m.Match("config.toml"))

	bare := New([]string{"config.toml"}, "/repo")
	assert.True(t, bare.Match("other/deep/config.toml"))
}

func TestMatch_AncestorSuppressesSubtree(t *testing.T) {
	m := New([]string{"vendor"}, ".")
	assert.True(t, m.Match("vendor/github.com/x/y.go"))
	assert.True(t, m.Match("vendor"))
	assert.False(t, m.Match("vendored.go"))
}

func TestMatchUnder_RelativeToWalkRoot(t *testing.T) {
	m := New([]string{"gen/*.txt"}, "/elsewhere")
	assert.False(t, m.Match("/proj/gen/a.txt"))
	assert.True(t, m.MatchUnder("/proj/gen/a.txt", "/proj"))
	assert.False(t, m.MatchUnder("/proj/src/b.txt", "/proj"))
	assert.False(t, m.MatchUnder("/other/gen/a.txt", "/proj"), "paths outside base are not rebased")
	assert.True(t, m.MatchUnder("gen/a.txt", "."), "a relative walk keeps plain matching")
}

func TestNew_DropsInvalidPatterns(t *testing.T) {
	m := New([]string{"[", "", "  ", "*.log"}, ".")
	assert.Equal(t, 1, m.Len())
	assert.True(t, m.Match("app.log"))
	assert.False(t, m.Match("["))
}

func TestMatch_Empty(t *testing.T) {
	var nilMatcher *Matcher
	assert.False(t, nilMatcher.Match("anything"))
	assert.False(t, New(nil, ".").Match("anything"))
}
