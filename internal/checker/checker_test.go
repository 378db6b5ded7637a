package checker

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineguard/lineguard/internal/config"
	"github.com/lineguard/lineguard/internal/files"
	"github.com/lineguard/lineguard/internal/types"
)

type summary struct {
	lines  []int
	ending types.IssueKind
}

func summarize(t *testing.T, issues []types.Issue) summary {
	t.Helper()
	var s summary
	for i, is := range issues {
		if is.Kind.IsNewlineEnding() {
			require.Equal(t, len(issues)-1, i, "newline issue must be last")
			require.Empty(t, s.ending, "at most one newline issue")
			s.ending = is.Kind
			continue
		}
		require.Equal(t, types.TrailingSpace, is.Kind)
		require.NotNil(t, is.Line)
		if n := len(s.lines); n > 0 {
			require.Greater(t, *is.Line, s.lines[n-1], "lines must increase")
		}
		s.lines = append(s.lines, *is.Line)
	}
	return s
}

// checkBoth runs content through the in-memory and the streaming driver.
func checkBoth(t *testing.T, cfg config.Config, content string) (mem, stream types.CheckResult) {
	t.Helper()
	m := files.NewMemory("/work")
	m.AddFile("small.txt", content)
	m.AddFile("large.txt", content)
	m.SetReportedSize("large.txt", DefaultStreamThreshold+1)
	c := New(cfg, m)
	require.False(t, c.Streaming(int64(len(content))))
	require.True(t, c.Streaming(DefaultStreamThreshold+1))
	return c.Check("small.txt"), c.Check("large.txt")
}

func TestCheck_ScenarioTrailingAndMissingNewline(t *testing.T) {
	mem, stream := checkBoth(t, config.Default(), "line1\nline2   \nline3")
	for _, res := range []types.CheckResult{mem, stream} {
		require.Empty(t, res.Error)
		require.Len(t, res.Issues, 2)
		assert.Equal(t, types.TrailingSpace, res.Issues[0].Kind)
		assert.Equal(t, 2, res.Issues[0].LineNumber())
		assert.Equal(t, types.MissingNewline, res.Issues[1].Kind)
		assert.Equal(t, MsgMissingNewline, res.Issues[1].Message)
	}
}

func TestCheck_ScenarioOnlyNewlines(t *testing.T) {
	mem, stream := checkBoth(t, config.Default(), "\n\n")
	for _, res := range []types.CheckResult{mem, stream} {
		require.Len(t, res.Issues, 1)
		assert.Equal(t, types.MultipleNewlines, res.Issues[0].Kind)
	}
}

func TestCheck_LargeFileStreams(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 60; i++ {
		if i == 50 {
			b.WriteString("defect here \n")
			continue
		}
		fmt.Fprintf(&b, "line %d\n", i)
	}
	b.WriteString("no terminator")

	m := files.NewMemory("/work")
	m.AddFile("huge.log", b.String())
	m.SetReportedSize("huge.log", 11*1024*1024)
	res := New(config.Default(), m).Check("huge.log")

	require.Empty(t, res.Error)
	require.Len(t, res.Issues, 2)
	assert.Equal(t, 50, res.Issues[0].LineNumber())
	assert.Equal(t, types.MissingNewline, res.Issues[1].Kind)
}

func TestCheck_LargeFileOnDisk(t *testing.T) {
	if testing.Short() {
		t.Skip("writes an 11 MiB file")
	}
	dir := t.TempDir()
	p := filepath.Join(dir, "big.txt")
	f, err := os.Create(p)
	require.NoError(t, err)
	line := strings.Repeat("x", 99) + "\n"
	for i := 1; i <= 110_000; i++ {
		if i == 50 {
			_, err = f.WriteString(strings.Repeat("x", 98) + " \n")
		} else {
			_, err = f.WriteString(line)
		}
		require.NoError(t, err)
	}
	_, err = f.WriteString("end")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	st, err := os.Stat(p)
	require.NoError(t, err)
	require.Greater(t, st.Size(), DefaultStreamThreshold)

	res := New(config.Default(), nil).Check(p)
	require.Empty(t, res.Error)
	s := summarize(t, res.Issues)
	assert.Equal(t, []int{50}, s.lines)
	assert.Equal(t, types.MissingNewline, s.ending)
}

func TestCheck_EmptyFileNeverHasIssues(t *testing.T) {
	for _, cfg := range allConfigs() {
		mem, stream := checkBoth(t, cfg, "")
		assert.Empty(t, mem.Issues)
		assert.Empty(t, stream.Issues)
		assert.Empty(t, mem.Error)
		assert.Empty(t, stream.Error)
	}
}

func TestCheck_DisabledChecks(t *testing.T) {
	content := "a \nb\n\n"

	cfg := config.Default()
	cfg.Checks.TrailingSpaces = false
	mem, stream := checkBoth(t, cfg, content)
	for _, res := range []types.CheckResult{mem, stream} {
		require.Len(t, res.Issues, 1)
		assert.Equal(t, types.MultipleNewlines, res.Issues[0].Kind)
	}

	cfg = config.Default()
	cfg.Checks.NewlineEnding = false
	mem, stream = checkBoth(t, cfg, content)
	for _, res := range []types.CheckResult{mem, stream} {
		require.Len(t, res.Issues, 1)
		assert.Equal(t, 1, res.Issues[0].LineNumber())
	}

	cfg.Checks.TrailingSpaces = false
	mem, stream = checkBoth(t, cfg, content)
	assert.Empty(t, mem.Issues)
	assert.Empty(t, stream.Issues)
}

func TestCheck_PerFileErrors(t *testing.T) {
	m := files.NewMemory("/work")
	m.AddFile("locked.txt", "x \n")
	m.SetUnreadable("locked.txt")
	m.AddFile("binary.txt", "ok\n\xff\xfe\n")
	c := New(config.Default(), m)

	res := c.Check("missing.txt")
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, res.Issues)
	assert.True(t, res.HasError())

	res = c.Check("locked.txt")
	assert.Contains(t, res.Error, "permission denied")
	assert.Empty(t, res.Issues)

	res = c.Check("binary.txt")
	assert.Contains(t, res.Error, errInvalidUTF8)
	assert.Empty(t, res.Issues)
}

func TestCheck_StreamingStopsAtInvalidUTF8(t *testing.T) {
	m := files.NewMemory("/work")
	m.AddFile("big.txt", "a \nb\n\xff\xfe \nc \n")
	m.SetReportedSize("big.txt", DefaultStreamThreshold+1)

	res := New(config.Default(), m).Check("big.txt")
	require.Empty(t, res.Error)
	s := summarize(t, res.Issues)
	assert.Equal(t, []int{1}, s.lines)
	assert.Empty(t, s.ending)
}

func TestCheck_StreamThresholdOverride(t *testing.T) {
	m := files.NewMemory("/work")
	m.AddFile("a.txt", "abc \n")
	c := New(config.Default(), m)
	c.StreamThreshold = 2
	assert.True(t, c.Streaming(5))
	res := c.Check("a.txt")
	require.Len(t, res.Issues, 1)
	assert.Equal(t, 1, res.Issues[0].LineNumber())
}

func TestCheck_CRLF(t *testing.T) {
	mem, stream := checkBoth(t, config.Default(), "a \r\nb\r\n\r\n")
	for _, res := range []types.CheckResult{mem, stream} {
		s := summarize(t, res.Issues)
		assert.Equal(t, []int{1}, s.lines)
		assert.Equal(t, types.MultipleNewlines, s.ending)
	}
}

func allConfigs() []config.Config {
	var out []config.Config
	for _, nl := range []bool{true, false} {
		for _, ts := range []bool{true, false} {
			cfg := config.Default()
			cfg.Checks = config.Checks{NewlineEnding: nl, TrailingSpaces: ts}
			out = append(out, cfg)
		}
	}
	return out
}

// randomText builds text from fragments that exercise every rule.
func randomText(r *rand.Rand) string {
	frags := []string{"a", "bc", " ", "\t", "\n", "\r\n", "x y", "\n\n", "é", "  \n"}
	n := r.Intn(12)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(frags[r.Intn(len(frags))])
	}
	return b.String()
}

func TestCheck_ModesAgree(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		content := randomText(r)
		for _, cfg := range allConfigs() {
			mem, stream := checkBoth(t, cfg, content)
			require.Empty(t, mem.Error)
			require.Empty(t, stream.Error)
			assert.Equalf(t, summarize(t, mem.Issues), summarize(t, stream.Issues), "content %q checks %+v", content, cfg.Checks)
		}
	}
}

func TestCheck_AppendingNewlineFixesMissing(t *testing.T) {
	c := New(config.Default(), files.NewMemory("/work"))
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 300; i++ {
		content := randomText(r) + "z"
		before := summarize(t, c.CheckContent([]byte(content)))
		require.Equal(t, types.MissingNewline, before.ending)
		after := summarize(t, c.CheckContent([]byte(content+"\n")))
		assert.Emptyf(t, after.ending, "content %q", content+"\n")
	}
}

func TestCheck_InsertingCleanLineShiftsIssues(t *testing.T) {
	c := New(config.Default(), files.NewMemory("/work"))
	r := rand.New(rand.NewSource(99))
	for i := 0; i < 300; i++ {
		body := randomText(r)
		lines := strings.Split(body, "\n")
		at := r.Intn(len(lines) + 1)
		shifted := append(append(append([]string{}, lines[:at]...), "clean"), lines[at:]...)

		before := summarize(t, c.CheckContent([]byte(body)))
		after := summarize(t, c.CheckContent([]byte(strings.Join(shifted, "\n"))))

		var want []int
		for _, n := range before.lines {
			if n > at {
				n++
			}
			want = append(want, n)
		}
		assert.Equalf(t, want, after.lines, "body %q insert at %d", body, at)
	}
}
