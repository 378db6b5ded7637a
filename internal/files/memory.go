package files

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
)

type memInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (i *memInfo) Name() string       { return i.name }
func (i *memInfo) Size() int64        { return i.size }
func (i *memInfo) Mode() fs.FileMode  { return i.mode }
func (i *memInfo) ModTime() time.Time { return i.modTime }
func (i *memInfo) IsDir() bool        { return i.mode.IsDir() }
func (i *memInfo) Sys() any           { return nil }

type memNode struct {
	content      []byte
	dir          bool
	modTime      time.Time
	reportedSize int64 // -1 reports len(content)
	unreadable   bool
}

// Memory is an in-memory FileSystem for tests. Relative paths are resolved
// against the root given to NewMemory. It has no symlinks.
type Memory struct {
	mu    sync.RWMutex
	root  string
	nodes map[string]*memNode
}

// NewMemory returns an empty in-memory file system rooted at root.
func NewMemory(root string) *Memory {
	root = path.Clean(filepath.ToSlash(root))
	m := &Memory{root: root, nodes: map[string]*memNode{}}
	m.nodes[root] = &memNode{dir: true, modTime: time.Now(), reportedSize: -1}
	m.ensureParents(root)
	return m
}

// Root returns the directory relative paths are resolved against.
func (m *Memory) Root() string { return m.root }

func (m *Memory) abs(name string) string {
	name = filepath.ToSlash(name)
	if !path.IsAbs(name) {
		name = path.Join(m.root, name)
	}
	return path.Clean(name)
}

func (m *Memory) ensureParents(p string) {
	for dir := path.Dir(p); ; dir = path.Dir(dir) {
		if _, ok := m.nodes[dir]; !ok {
			m.nodes[dir] = &memNode{dir: true, modTime: time.Now(), reportedSize: -1}
		}
		if dir == "/" || dir == "." {
			return
		}
	}
}

// AddFile creates or replaces a file and any missing parent directories.
func (m *Memory) AddFile(name, content string) {
	m.AddFileWithTime(name, content, time.Now())
}

// AddFileWithTime is AddFile with an explicit modification time.
func (m *Memory) AddFileWithTime(name, content string, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.abs(name)
	m.nodes[p] = &memNode{content: []byte(content), modTime: modTime, reportedSize: -1}
	m.ensureParents(p)
}

// AddDir creates an empty directory.
func (m *Memory) AddDir(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.abs(name)
	m.nodes[p] = &memNode{dir: true, modTime: time.Now(), reportedSize: -1}
	m.ensureParents(p)
}

// SetReportedSize makes Stat report size for name regardless of its
// content, which lets tests force the large-file code paths cheaply.
func (m *Memory) SetReportedSize(name string, size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.nodes[m.abs(name)]; ok {
		n.reportedSize = size
	}
}

// SetUnreadable makes reads of name fail with a permission error. Stat
// keeps working, matching a directory or file without read permission.
func (m *Memory) SetUnreadable(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.nodes[m.abs(name)]; ok {
		n.unreadable = true
	}
}

// Remove deletes name and everything below it.
func (m *Memory) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.abs(name)
	for k := range m.nodes {
		if k == p || strings.HasPrefix(k, p+"/") {
			delete(m.nodes, k)
		}
	}
}

func (m *Memory) lookup(op, name string) (string, *memNode, error) {
	p := m.abs(name)
	n, ok := m.nodes[p]
	if !ok {
		return p, nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
	}
	return p, n, nil
}

func (m *Memory) info(p string, n *memNode) *memInfo {
	fi := &memInfo{name: path.Base(p), modTime: n.modTime, mode: 0o644}
	if n.dir {
		fi.mode = fs.ModeDir | 0o755
		return fi
	}
	fi.size = int64(len(n.content))
	if n.reportedSize >= 0 {
		fi.size = n.reportedSize
	}
	return fi
}

func (m *Memory) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, n, err := m.lookup("stat", name)
	if err != nil {
		return nil, err
	}
	return m.info(p, n), nil
}

func (m *Memory) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, n, err := m.lookup("open", name)
	if err != nil {
		return nil, err
	}
	if n.dir {
		return nil, &fs.PathError{Op: "read", Path: name, Err: errIsDir}
	}
	if n.unreadable {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	return bytes.Clone(n.content), nil
}

type memReader struct {
	*bytes.Reader
}

func (memReader) Close() error { return nil }

func (m *Memory) Open(name string) (io.ReadSeekCloser, error) {
	b, err := m.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return memReader{bytes.NewReader(b)}, nil
}

func (m *Memory) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, n, err := m.lookup("open", name)
	if err != nil {
		return nil, err
	}
	if !n.dir {
		return nil, &fs.PathError{Op: "readdirent", Path: name, Err: errNotDir}
	}
	if n.unreadable {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	var out []fs.DirEntry
	for k, child := range m.nodes {
		if k == p || path.Dir(k) != p {
			continue
		}
		out = append(out, fs.FileInfoToDirEntry(m.info(k, child)))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (m *Memory) Glob(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return nil, doublestar.ErrBadPattern
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	slash := filepath.ToSlash(pattern)
	relative := !path.IsAbs(slash)
	full := slash
	if relative {
		full = path.Join(m.root, slash)
	}
	var out []string
	for k := range m.nodes {
		if k == m.root && relative {
			continue
		}
		ok, err := doublestar.Match(full, k)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if relative {
			rel := strings.TrimPrefix(k, strings.TrimSuffix(m.root, "/")+"/")
			out = append(out, filepath.FromSlash(rel))
		} else {
			out = append(out, filepath.FromSlash(k))
		}
	}
	sort.Strings(out)
	return out, nil
}

var (
	errIsDir  = errors.New("is a directory")
	errNotDir = errors.New("not a directory")
)
