package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	errUtils "github.com/lineguard/lineguard/internal/errors"
	"github.com/lineguard/lineguard/internal/logger"
)

// Checks toggles the individual content rules.
type Checks struct {
	NewlineEnding  bool `toml:"newline_ending" yaml:"newline_ending"`
	TrailingSpaces bool `toml:"trailing_spaces" yaml:"trailing_spaces"`
}

// Config is the effective configuration for one run. It is treated as
// read-only once discovery starts.
type Config struct {
	Checks         Checks   `toml:"checks" yaml:"checks"`
	IgnorePatterns []string `toml:"ignore_patterns" yaml:"ignore_patterns"`
	FileExtensions []string `toml:"file_extensions" yaml:"file_extensions"`
}

// Default returns the built-in configuration: every check on, no ignore
// patterns, no extension allow-list.
func Default() Config {
	return Config{
		Checks: Checks{NewlineEnding: true, TrailingSpaces: true},
	}
}

// LocalNames are the file names searched for in the working directory and
// its parents, in order of preference.
var LocalNames = []string{".lineguardrc", ".lineguard.toml", ".lineguard.yaml", ".lineguard.yml"}

// LoadFile reads a config file. YAML is used for .yaml/.yml files and TOML
// for everything else. Keys absent from the file keep their defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrapf(errUtils.ErrConfigNotFound, "%s", path)
		}
		return cfg, errors.Wrapf(err, "read %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if len(bytes.TrimSpace(b)) == 0 {
			return cfg, nil
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Default(), errors.Wrapf(errUtils.ErrConfigParse, "%s: %v", path, err)
		}
	default:
		if _, err := toml.Decode(string(b), &cfg); err != nil {
			return Default(), errors.Wrapf(errUtils.ErrConfigParse, "%s: %v", path, err)
		}
	}
	cfg.FileExtensions = NormalizeExtensions(cfg.FileExtensions)
	return cfg, nil
}

// FindLocal walks from dir up to the filesystem root and returns the first
// config file found, or "" when there is none.
func FindLocal(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	for {
		for _, name := range LocalNames {
			p := filepath.Join(abs, name)
			if st, err := os.Stat(p); err == nil && !st.IsDir() {
				return p
			}
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return ""
		}
		abs = parent
	}
}

// GlobalPath returns the per-user config location under XDG_CONFIG_HOME or
// ~/.config, or "" when neither can be determined.
func GlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "lineguard", "config.toml")
}

// Load resolves the configuration for a run. An explicit path must exist.
// Otherwise the nearest local file wins, then the global file, then defaults.
// The returned string names the file used ("" for defaults).
func Load(explicit, workDir string) (Config, string, error) {
	if explicit != "" {
		cfg, err := LoadFile(explicit)
		return cfg, explicit, err
	}
	if p := FindLocal(workDir); p != "" {
		logger.Default().Debug("using local config", "path", p)
		cfg, err := LoadFile(p)
		return cfg, p, err
	}
	if p := GlobalPath(); p != "" {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			logger.Default().Debug("using global config", "path", p)
			cfg, err := LoadFile(p)
			return cfg, p, err
		}
	}
	return Default(), "", nil
}

// NormalizeExtensions lowercases extensions and strips a leading dot so that
// "RS", ".rs" and "rs" are equivalent. Blank entries are dropped.
func NormalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		return nil
	}
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		e = strings.TrimPrefix(e, ".")
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

// Overrides carries the CLI values that replace file configuration.
type Overrides struct {
	IgnorePatterns  []string
	Extensions      []string
	ExtensionsSet   bool
	NoNewlineCheck  bool
	NoTrailingSpace bool
}

// Apply returns a copy of cfg with the overrides applied. CLI ignore
// patterns replace the configured list rather than extending it.
func (c Config) Apply(o Overrides) Config {
	out := c.Clone()
	if len(o.IgnorePatterns) > 0 {
		out.IgnorePatterns = append([]string(nil), o.IgnorePatterns...)
	}
	if o.ExtensionsSet {
		out.FileExtensions = NormalizeExtensions(o.Extensions)
	}
	if o.NoNewlineCheck {
		out.Checks.NewlineEnding = false
	}
	if o.NoTrailingSpace {
		out.Checks.TrailingSpaces = false
	}
	return out
}

// Clone returns a deep copy so callers never share slices with the original.
func (c Config) Clone() Config {
	out := c
	out.IgnorePatterns = append([]string(nil), c.IgnorePatterns...)
	out.FileExtensions = append([]string(nil), c.FileExtensions...)
	return out
}

// Encode writes the configuration as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
