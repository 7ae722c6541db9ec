package orchestrator

import (
	"os"
	"path/filepath"
	"testing"
)

const fixture = "../../testdata/reference.json"

func newTestEngine(t *testing.T, include ...string) (*Engine, Config) {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "gdref-engine-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	cfg := DefaultConfig()
	cfg.CacheDir = filepath.Join(tempDir, "cache")
	cfg.Include = include

	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine, cfg
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("GDREF_CACHE_DIR", "")
	cfg := DefaultConfig()
	if cfg.CacheDir == "" {
		t.Error("CacheDir should not be empty")
	}
	if cfg.Loader.FileName == "" {
		t.Error("Loader.FileName should not be empty")
	}

	t.Setenv("GDREF_CACHE_DIR", "/custom/cache")
	if got := DefaultConfig().CacheDir; got != "/custom/cache" {
		t.Errorf("CacheDir = %q, want value from environment", got)
	}
}

func TestEngineInit(t *testing.T) {
	engine, cfg := newTestEngine(t)
	if engine.cache == nil {
		t.Errorf("Expected cache to be initialized")
	}
	if engine.cache.CacheDir != cfg.CacheDir {
		t.Errorf("Expected cache dir %s, got %s", cfg.CacheDir, engine.cache.CacheDir)
	}
	if engine.Reference() != nil || engine.Classes() != nil {
		t.Error("nothing should be loaded before Load")
	}
}

func TestNewEngineInvalidPattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Include = []string{"[unclosed"}
	if _, err := NewEngine(cfg); err == nil {
		t.Error("expected error for invalid include pattern")
	}
}

func TestEngineLoad(t *testing.T) {
	engine, _ := newTestEngine(t)

	result, err := engine.Load(fixture, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if result.Project != "Demo Game" || result.Version != "1.2.0" {
		t.Errorf("project = %s %s", result.Project, result.Version)
	}
	if result.TotalClasses != 4 {
		t.Errorf("TotalClasses = %d, want 4", result.TotalClasses)
	}
	// Player 7, Enemy 2, Boss 2, Stats 1
	if result.TotalSymbols != 12 {
		t.Errorf("TotalSymbols = %d, want 12", result.TotalSymbols)
	}
	if result.Groups != 2 {
		t.Errorf("Groups = %d, want 2", result.Groups)
	}
	if result.Cached {
		t.Error("first load should not come from cache")
	}
	if result.GraphStats["edges"] != 4 {
		t.Errorf("graph edges = %d, want 4", result.GraphStats["edges"])
	}

	if _, ok := engine.Resolver().Resolve("Boss.take_damage", "Player"); !ok {
		t.Error("inherited symbol should resolve")
	}
	if got := engine.Graph().Ancestors("Boss"); len(got) != 2 || got[0] != "Enemy" {
		t.Errorf("Ancestors(Boss) = %v", got)
	}
	if engine.Source() == nil || engine.Source().Hash == "" {
		t.Error("source should be recorded")
	}
}

func TestEngineLoadUsesCache(t *testing.T) {
	engine, _ := newTestEngine(t)

	if _, err := engine.Load(fixture, false); err != nil {
		t.Fatalf("first Load: %v", err)
	}
	second, err := engine.Load(fixture, false)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if !second.Cached {
		t.Error("second load should come from cache")
	}
	if second.TotalClasses != 4 {
		t.Errorf("TotalClasses from cache = %d, want 4", second.TotalClasses)
	}

	forced, err := engine.Load(fixture, true)
	if err != nil {
		t.Fatalf("forced Load: %v", err)
	}
	if forced.Cached {
		t.Error("forced load should bypass cache")
	}
}

func TestEngineLoadNoCache(t *testing.T) {
	engine, cfg := newTestEngine(t)
	engine.cfg.NoCache = true

	for i := 0; i < 2; i++ {
		result, err := engine.Load(fixture, false)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if result.Cached {
			t.Error("NoCache load should never be cached")
		}
	}
	if _, err := os.Stat(cfg.CacheDir); !os.IsNotExist(err) {
		t.Error("NoCache should not create the cache dir")
	}
}

func TestEngineLoadInclude(t *testing.T) {
	engine, _ := newTestEngine(t, "*Boss", "Ene*")

	result, err := engine.Load(fixture, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	names := engine.Classes().Names()
	if len(names) != 2 || names[0] != "Enemy" || names[1] != "Boss" {
		t.Errorf("classes = %v, want [Enemy Boss]", names)
	}
	if result.TotalClasses != 2 {
		t.Errorf("TotalClasses = %d, want 2", result.TotalClasses)
	}
	if _, ok := engine.Resolver().Resolve("Player.health", "Boss"); ok {
		t.Error("excluded class should not resolve")
	}
}

func TestEngineLoadErrors(t *testing.T) {
	engine, _ := newTestEngine(t)

	if _, err := engine.Load("/nonexistent/reference.json", false); err == nil {
		t.Error("expected error for missing dump")
	}

	bad := filepath.Join(t.TempDir(), "reference.json")
	os.WriteFile(bad, []byte(`{"name": "x", "classes": []}`), 0644)
	if _, err := engine.Load(bad, false); err == nil {
		t.Error("expected error for dump missing required fields")
	}
}
