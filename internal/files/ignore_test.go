package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendIgnore_IdempotentAndCreates(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".gitignore")
	if err := AppendIgnore(dir, CacheFileName); err != nil {
		t.Fatalf("AppendIgnore: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != CacheFileName+"\n" {
		t.Fatalf("unexpected content: %q", string(b))
	}
	if err := AppendIgnore(dir, CacheFileName); err != nil {
		t.Fatalf("AppendIgnore second: %v", err)
	}
	b2, _ := os.ReadFile(p)
	if strings.Count(string(b2), CacheFileName) != 1 {
		t.Fatalf("expected single occurrence, got: %q", string(b2))
	}
}

func TestAppendIgnore_TerminatesLastLine(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".gitignore")
	if err := os.WriteFile(p, []byte("dist/"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := AppendIgnore(dir, "tmp/"); err != nil {
		t.Fatalf("AppendIgnore: %v", err)
	}
	b, _ := os.ReadFile(p)
	if string(b) != "dist/\ntmp/\n" {
		t.Fatalf("unexpected content: %q", string(b))
	}
}

func TestDefaultGeneratedIgnores(t *testing.T) {
	items := DefaultGeneratedIgnores()
	want := map[string]bool{"*.pb.go": false, "*.min.js": false}
	for _, it := range items {
		if _, ok := want[it]; ok {
			want[it] = true
		}
	}
	for k, found := range want {
		if !found {
			t.Fatalf("expected default ignores to contain %q, got: %#v", k, items)
		}
	}
}
