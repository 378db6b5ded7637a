package discovery

import "path/filepath"

// walk visits dir in sorted order. Unreadable directories are logged and
// skipped; the walk never fails. Symlinked directories are not followed.
func (d *discoverer) walk(dir string) {
	entries, err := d.fs.ReadDir(dir)
	if err != nil {
		d.log.Warn("skipping unreadable directory", "path", dir, "error", err)
		return
	}
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if e.IsDir() {
			if !d.opts.Recursive || e.Name() == ".git" {
				continue
			}
			if d.opts.NoHidden && isHidden(p) {
				continue
			}
			if d.ignore.MatchUnder(p, d.walkRoot) {
				continue
			}
			d.walk(p)
			continue
		}
		d.consider(p, fromWalk)
	}
}
