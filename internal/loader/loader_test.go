package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const dump = `{"name": "p", "description": "", "version": "1", "classes": []}`

func createTestProject(t *testing.T) string {
	dir, err := os.MkdirTemp("", "gdref-loader-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp project: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.FileName != "reference.json" {
		t.Errorf("FileName = %q, want reference.json", cfg.FileName)
	}
	if cfg.MaxFileSize <= 0 {
		t.Error("MaxFileSize should be > 0")
	}
	if len(cfg.ExcludeDirs) == 0 {
		t.Error("ExcludeDirs should not be empty")
	}
}

func TestLoadSourceFile(t *testing.T) {
	dir := createTestProject(t)
	path := filepath.Join(dir, "dump.json")
	if err := os.WriteFile(path, []byte(dump), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := LoadSource(path, DefaultConfig())
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	if src.Path != path {
		t.Errorf("Path = %q, want %q", src.Path, path)
	}
	if src.Name != filepath.Base(dir) {
		t.Errorf("Name = %q, want %q", src.Name, filepath.Base(dir))
	}
	if string(src.Data) != dump {
		t.Errorf("Data = %q", src.Data)
	}
	if len(src.Hash) != 64 {
		t.Errorf("Hash = %q, want 64 hex chars", src.Hash)
	}
}

func TestLoadSourceDirectory(t *testing.T) {
	dir := createTestProject(t)
	if err := os.WriteFile(filepath.Join(dir, "reference.json"), []byte(dump), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := LoadSource(dir, DefaultConfig())
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	if filepath.Base(src.Path) != "reference.json" {
		t.Errorf("Path = %q", src.Path)
	}
}

func TestLoadSourceNestedDirectory(t *testing.T) {
	dir := createTestProject(t)
	os.MkdirAll(filepath.Join(dir, ".git"), 0755)
	os.WriteFile(filepath.Join(dir, ".git", "reference.json"), []byte("ignored"), 0644)
	os.MkdirAll(filepath.Join(dir, "docs", "api"), 0755)
	nested := filepath.Join(dir, "docs", "api", "reference.json")
	os.WriteFile(nested, []byte(dump), 0644)

	src, err := LoadSource(dir, DefaultConfig())
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	if src.Path != nested {
		t.Errorf("Path = %q, want %q", src.Path, nested)
	}
	if src.Name != "api" {
		t.Errorf("Name = %q, want api", src.Name)
	}
}

func TestLoadSourceHashChanges(t *testing.T) {
	dir := createTestProject(t)
	path := filepath.Join(dir, "reference.json")
	os.WriteFile(path, []byte(dump), 0644)
	first, err := LoadSource(path, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	os.WriteFile(path, []byte(dump+"\n"), 0644)
	second, err := LoadSource(path, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if first.Hash == second.Hash {
		t.Error("hash should change with content")
	}
}

func TestLoadSourceErrors(t *testing.T) {
	dir := createTestProject(t)

	if _, err := LoadSource(filepath.Join(dir, "missing.json"), DefaultConfig()); err == nil {
		t.Error("expected error for missing file")
	}

	_, err := LoadSource(dir, DefaultConfig())
	if err == nil || !strings.Contains(err.Error(), "no reference.json") {
		t.Errorf("expected no reference.json error, got %v", err)
	}

	big := filepath.Join(dir, "big.json")
	os.WriteFile(big, make([]byte, 2000), 0644)
	cfg := DefaultConfig()
	cfg.MaxFileSize = 1000
	if _, err := LoadSource(big, cfg); err == nil {
		t.Error("expected error for file above MaxFileSize")
	}
}
