package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineguard/lineguard/internal/checker"
	"github.com/lineguard/lineguard/internal/config"
	"github.com/lineguard/lineguard/internal/discovery"
	errUtils "github.com/lineguard/lineguard/internal/errors"
	"github.com/lineguard/lineguard/internal/files"
	"github.com/lineguard/lineguard/internal/types"
)

func TestRun_ChecksDiscoveredFilesInOrder(t *testing.T) {
	m := files.NewMemory("/work")
	m.AddFile("a.txt", "clean\n")
	m.AddFile("b.txt", "dirty \n")
	m.AddFile("c.txt", "no newline")
	m.AddFile("d.png", "binary")

	var calls atomic.Int32
	res, err := Run(Config{
		Discovery: discovery.Options{FS: m, WorkDir: "/work", Paths: []string{"."}},
		Lint:      config.Default(),
		Threads:   2,
		Progress:  func() { calls.Add(1) },
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "b.txt", "c.txt"}, res.Files)
	require.Len(t, res.Results, 3)
	for i, r := range res.Results {
		assert.Equal(t, res.Files[i], r.FilePath)
	}
	assert.Empty(t, res.Results[0].Issues)
	assert.Equal(t, types.TrailingSpace, res.Results[1].Issues[0].Kind)
	assert.Equal(t, types.MissingNewline, res.Results[2].Issues[0].Kind)
	assert.True(t, res.HasIssues())
	assert.Equal(t, 2, res.IssueCount())
	assert.Equal(t, 2, res.FilesWithIssues())
	assert.Empty(t, res.Errors())
	assert.Equal(t, int32(3), calls.Load())
}

func TestRun_AppliesConfiguredChecks(t *testing.T) {
	m := files.NewMemory("/work")
	m.AddFile("a.txt", "dirty \nend")
	cfg := config.Default().Apply(config.Overrides{NoTrailingSpace: true})

	res, err := Run(Config{Discovery: discovery.Options{FS: m, WorkDir: "/work", Paths: []string{"a.txt"}}, Lint: cfg})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	require.Len(t, res.Results[0].Issues, 1)
	assert.Equal(t, types.MissingNewline, res.Results[0].Issues[0].Kind)
}

func TestRun_OnDiscoveredBeforeChecks(t *testing.T) {
	m := files.NewMemory("/work")
	m.AddFile("a.txt", "x\n")
	m.AddFile("b.txt", "y\n")

	var seen []string
	var checkedBefore int32
	var calls atomic.Int32
	_, err := Run(Config{
		Discovery: discovery.Options{FS: m, WorkDir: "/work", Paths: []string{"."}},
		Lint:      config.Default(),
		Progress:  func() { calls.Add(1) },
		OnDiscovered: func(d discovery.Result) {
			seen = d.Files
			checkedBefore = calls.Load()
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, seen)
	assert.Equal(t, int32(0), checkedBefore)
}

func TestRun_EmptyDiscovery(t *testing.T) {
	m := files.NewMemory("/work")
	res, err := Run(Config{Discovery: discovery.Options{FS: m, WorkDir: "/work", Paths: []string{"missing.txt"}}, Lint: config.Default()})
	require.NoError(t, err)
	assert.Empty(t, res.Files)
	assert.Empty(t, res.Results)
	assert.False(t, res.HasIssues())
}

func TestRun_DiscoveryFailureExitCode(t *testing.T) {
	m := files.NewMemory("/work")
	m.AddFile("a.txt", "x\n")
	_, err := Run(Config{
		Discovery: discovery.Options{
			FS: m, WorkDir: "/work", Paths: []string{"."}, From: "HEAD",
			OpenGit: func(string) (discovery.GitRange, error) { return nil, errUtils.ErrNotARepository },
		},
		Lint: config.Default(),
	})
	require.Error(t, err)
	assert.Equal(t, errUtils.ExitDiscovery, errUtils.GetExitCode(err))
}

func TestRun_PerFileErrorsDoNotStopOthers(t *testing.T) {
	m := files.NewMemory("/work")
	m.AddFile("a.txt", "x \n")
	m.AddFile("b.txt", "y\n")
	m.AddFile("c.txt", "z \n")
	m.SetUnreadable("b.txt")

	res, err := Run(Config{Discovery: discovery.Options{FS: m, WorkDir: "/work", Paths: []string{"."}}, Lint: config.Default()})
	require.NoError(t, err)
	require.Len(t, res.Results, 3)
	assert.True(t, res.Results[1].HasError())
	assert.Empty(t, res.Results[1].Issues)
	assert.Len(t, res.Errors(), 1)
	assert.Equal(t, 2, res.FilesWithIssues())
}

func TestCheckFiles_PreservesOrderUnderConcurrency(t *testing.T) {
	m := files.NewMemory("/work")
	var paths []string
	for i := 0; i < 200; i++ {
		p := fmt.Sprintf("f%03d.txt", i)
		content := "ok\n"
		if i%7 == 0 {
			content = "bad \n"
		}
		m.AddFile(p, content)
		paths = append(paths, p)
	}
	results, hits := CheckFiles(checker.New(config.Default(), m), paths, CheckOptions{Threads: 8, FS: m})
	assert.Equal(t, 0, hits)
	require.Len(t, results, len(paths))
	for i, r := range results {
		assert.Equal(t, paths[i], r.FilePath)
		assert.Equal(t, i%7 == 0, r.HasIssues(), r.FilePath)
	}
}

func TestRun_CacheReusesResults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("dirty \n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("clean\n"), 0o644))

	cfg := Config{
		Discovery: discovery.Options{WorkDir: dir, Paths: []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")}},
		Lint:      config.Default(),
		UseCache:  true,
	}
	first, err := Run(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, first.CacheHits)

	second, err := Run(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, second.CacheHits)
	assert.Equal(t, first.IssueCount(), second.IssueCount())
	assert.Equal(t, first.Results[0].Issues, second.Results[0].Issues)

	// changing enabled checks invalidates entries
	cfg.Lint.Checks.TrailingSpaces = false
	third, err := Run(cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, third.CacheHits)
	assert.Equal(t, 0, third.IssueCount())
}
