// Package cache persists per-file check results between runs so unchanged
// files can skip re-checking.
package cache

import (
	"encoding/binary"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/google/renameio/v2"

	"github.com/lineguard/lineguard/internal/config"
	"github.com/lineguard/lineguard/internal/files"
	"github.com/lineguard/lineguard/internal/types"
)

const version = 1

// Entry is the cached outcome for one file.
type Entry struct {
	Fingerprint uint64        `json:"fingerprint"`
	Issues      []types.Issue `json:"issues"`
}

// DB maps absolute file paths to cached entries. Lookup and Store are safe
// for concurrent use.
type DB struct {
	mu      sync.Mutex
	Version int              `json:"version"`
	Entries map[string]Entry `json:"entries"`
	dirty   bool
}

// New returns an empty cache.
func New() *DB {
	return &DB{Version: version, Entries: map[string]Entry{}}
}

// Path returns where the cache lives for root: inside .git when root is a
// git checkout, otherwise at the root itself.
func Path(root string) string {
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, "lineguardcache.json")
	}
	return filepath.Join(root, files.CacheFileName)
}

// Load reads the cache for root. A missing, unreadable or outdated cache
// yields an empty DB along with the error, so callers can simply continue.
func Load(root string) (*DB, error) {
	p := Path(root)
	b, err := os.ReadFile(p)
	if err != nil {
		return New(), err
	}
	db := New()
	if err := json.Unmarshal(b, db); err != nil {
		return New(), errors.Wrapf(err, "decode %s", p)
	}
	if db.Version != version || db.Entries == nil {
		return New(), errors.Newf("cache %s has unsupported version %d", p, db.Version)
	}
	return db, nil
}

// Save writes the cache atomically. It is a no-op when nothing changed.
func Save(root string, db *DB) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if !db.dirty {
		return nil
	}
	b, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(Path(root), b, 0o644); err != nil {
		return errors.Wrap(err, "write cache")
	}
	db.dirty = false
	return nil
}

// Fingerprint identifies a file's state together with the checks that were
// run on it: size, modification time and enabled rules.
func Fingerprint(info fs.FileInfo, checks config.Checks) uint64 {
	var buf [18]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(info.Size()))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(info.ModTime().UnixNano()))
	if checks.NewlineEnding {
		buf[16] = 1
	}
	if checks.TrailingSpaces {
		buf[17] = 1
	}
	return xxhash.Sum64(buf[:])
}

// Lookup returns cached issues for path when the fingerprint matches.
func (db *DB) Lookup(path string, fp uint64) ([]types.Issue, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	e, ok := db.Entries[path]
	if !ok || e.Fingerprint != fp {
		return nil, false
	}
	return append([]types.Issue{}, e.Issues...), true
}

// Store records issues for path.
func (db *DB) Store(path string, fp uint64, issues []types.Issue) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.Entries[path] = Entry{Fingerprint: fp, Issues: append([]types.Issue{}, issues...)}
	db.dirty = true
}

// Forget drops path, typically after the file was rewritten.
func (db *DB) Forget(path string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.Entries[path]; ok {
		delete(db.Entries, path)
		db.dirty = true
	}
}

// Len returns the number of entries.
func (db *DB) Len() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.Entries)
}
