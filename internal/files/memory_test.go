package files

import (
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_StatAndRead(t *testing.T) {
	m := NewMemory("/work")
	m.AddFile("src/main.go", "package main\n")

	info, err := m.Stat("/work/src/main.go")
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.Equal(t, "main.go", info.Name())
	assert.Equal(t, int64(13), info.Size())

	b, err := m.ReadFile("src/main.go")
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(b))

	info, err = m.Stat("src")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = m.Stat("missing.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMemory_ReportedSize(t *testing.T) {
	m := NewMemory("/work")
	m.AddFile("big.txt", "abc")
	m.SetReportedSize("big.txt", 20<<20)

	info, err := m.Stat("big.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(20<<20), info.Size())

	b, err := m.ReadFile("big.txt")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(b))
}

func TestMemory_OpenSeeks(t *testing.T) {
	m := NewMemory("/work")
	m.AddFile("a.txt", "hello\n")

	f, err := m.Open("a.txt")
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Seek(-2, io.SeekEnd)
	require.NoError(t, err)
	tail, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "o\n", string(tail))
}

func TestMemory_ReadDirSortedAndUnreadable(t *testing.T) {
	m := NewMemory("/work")
	m.AddFile("b.txt", "")
	m.AddFile("a.txt", "")
	m.AddDir("sub")

	entries, err := m.ReadDir(".")
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a.txt", "b.txt", "sub"}, names)
	assert.True(t, entries[2].IsDir())

	m.SetUnreadable("sub")
	_, err = m.ReadDir("sub")
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestMemory_Glob(t *testing.T) {
	m := NewMemory("/work")
	m.AddFile("a.go", "")
	m.AddFile("pkg/b.go", "")
	m.AddFile("pkg/c.txt", "")

	got, err := m.Glob("*.go")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go"}, got)

	got, err = m.Glob("**/*.go")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "pkg/b.go"}, got)

	got, err = m.Glob("/work/pkg/*")
	require.NoError(t, err)
	assert.Equal(t, []string{"/work/pkg/b.go", "/work/pkg/c.txt"}, got)

	_, err = m.Glob("[")
	assert.Error(t, err)
}

func TestOS_Glob(t *testing.T) {
	dir := t.TempDir()
	m := OS()
	got, err := m.Glob(dir + "/*.nothing")
	require.NoError(t, err)
	assert.Empty(t, got)
}
