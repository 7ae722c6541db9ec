package loader

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Source is a reflection dump read from disk.
type Source struct {
	Path string `json:"path"`
	Name string `json:"name"` // project directory name, used as the cache key
	Data []byte `json:"-"`
	Hash string `json:"hash"` // sha256 of Data
}

// Config holds loader configuration.
type Config struct {
	FileName    string   // dump file searched for when given a directory
	MaxFileSize int64    // Maximum file size in bytes
	ExcludeDirs []string // Directories skipped while searching
}

// DefaultConfig returns the default loader configuration.
func DefaultConfig() Config {
	return Config{
		FileName:    "reference.json",
		MaxFileSize: 64 * 1024 * 1024,
		ExcludeDirs: []string{
			".git", ".import", ".godot", "node_modules",
		},
	}
}

// LoadSource reads the reflection dump at path. When path is a directory the
// dump is cfg.FileName at its root or, failing that, the first file of that
// name found below it.
func LoadSource(path string, cfg Config) (*Source, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("cannot access %q: %w", absPath, err)
	}

	file := absPath
	if info.IsDir() {
		file, err = findDump(absPath, cfg)
		if err != nil {
			return nil, err
		}
		if info, err = os.Stat(file); err != nil {
			return nil, fmt.Errorf("cannot access %q: %w", file, err)
		}
	}

	if cfg.MaxFileSize > 0 && info.Size() > cfg.MaxFileSize {
		return nil, fmt.Errorf("%q is %d bytes, above the %d byte limit", file, info.Size(), cfg.MaxFileSize)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", file, err)
	}

	return &Source{
		Path: file,
		Name: filepath.Base(filepath.Dir(file)),
		Data: data,
		Hash: fmt.Sprintf("%x", sha256.Sum256(data)),
	}, nil
}

func findDump(root string, cfg Config) (string, error) {
	direct := filepath.Join(root, cfg.FileName)
	if fi, err := os.Stat(direct); err == nil && !fi.IsDir() {
		return direct, nil
	}

	excludeDirSet := make(map[string]bool, len(cfg.ExcludeDirs))
	for _, d := range cfg.ExcludeDirs {
		excludeDirSet[d] = true
	}

	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if d.IsDir() {
			if path != root && excludeDirSet[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == cfg.FileName {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk error: %w", err)
	}
	if found == "" {
		return "", fmt.Errorf("no %s found under %q", cfg.FileName, root)
	}
	return found, nil
}
