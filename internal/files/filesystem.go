package files

import (
	"io"
	"io/fs"
	"os"

	"github.com/bmatcuk/doublestar/v4"
)

// FileSystem is the set of file operations discovery and checking need.
type FileSystem interface {
	// Stat returns metadata for name, following symlinks.
	Stat(name string) (fs.FileInfo, error)

	// ReadFile reads the whole file.
	ReadFile(name string) ([]byte, error)

	// Open opens the file for incremental, seekable reading.
	Open(name string) (io.ReadSeekCloser, error)

	// ReadDir lists a directory sorted by file name.
	ReadDir(name string) ([]fs.DirEntry, error)

	// Glob expands a doublestar pattern. Matches are returned in the same
	// relative or absolute form as the pattern.
	Glob(pattern string) ([]string, error)
}

// OS returns the FileSystem backed by the host operating system.
func OS() FileSystem { return osFS{} }

type osFS struct{}

func (osFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func (osFS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

func (osFS) Open(name string) (io.ReadSeekCloser, error) { return os.Open(name) }

func (osFS) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }

func (osFS) Glob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern)
}
