package orchestrator

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"

	"github.com/duyhunghd6/gdref-cli/internal/cache"
	"github.com/duyhunghd6/gdref-cli/internal/config"
	"github.com/duyhunghd6/gdref-cli/internal/graph"
	"github.com/duyhunghd6/gdref-cli/internal/loader"
	"github.com/duyhunghd6/gdref-cli/internal/model"
	"github.com/duyhunghd6/gdref-cli/internal/types"
	"github.com/duyhunghd6/gdref-cli/internal/xref"
)

// Engine is the top-level orchestrator connecting all gdref modules.
type Engine struct {
	cfg      Config
	cache    *cache.ReferenceCache
	include  []glob.Glob
	source   *loader.Source
	ref      *model.Reference
	graph    *graph.Graph
	resolver *xref.Resolver
}

// Config holds engine configuration.
type Config struct {
	CacheDir string
	NoCache  bool     // If true, always decode the dump and never write the cache
	Include  []string // glob patterns; when set only matching classes are kept
	Loader   loader.Config
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	cacheDir := os.Getenv(config.EnvCacheDir)
	if cacheDir == "" {
		home, _ := os.UserHomeDir()
		cacheDir = filepath.Join(home, ".gdref", "cache")
	}
	return Config{
		CacheDir: cacheDir,
		Loader:   loader.DefaultConfig(),
	}
}

// NewEngine creates a new engine. It fails if an include pattern does not
// compile.
func NewEngine(cfg Config) (*Engine, error) {
	include := make([]glob.Glob, 0, len(cfg.Include))
	for _, pattern := range cfg.Include {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		include = append(include, g)
	}

	return &Engine{
		cfg:     cfg,
		cache:   cache.NewReferenceCache(cfg.CacheDir),
		include: include,
	}, nil
}

// LoadResult holds the result of a load operation.
type LoadResult struct {
	Project      string         `json:"project"`
	Version      string         `json:"version"`
	Path         string         `json:"path"`
	TotalClasses int            `json:"total_classes"`
	TotalSymbols int            `json:"total_symbols"`
	Groups       int            `json:"groups"`
	GraphStats   map[string]int `json:"graph_stats"`
	Cached       bool           `json:"cached"`
}

// Load reads the dump at path and builds the class model, inheritance graph
// and resolver. A cached decode is reused when the dump content is unchanged,
// unless force is set.
func (e *Engine) Load(path string, force bool) (*LoadResult, error) {
	src, err := loader.LoadSource(path, e.cfg.Loader)
	if err != nil {
		return nil, fmt.Errorf("load reference: %w", err)
	}
	e.source = src
	log.Printf("[engine] read %s (%d bytes)", src.Path, len(src.Data))

	raw, cached := e.decode(src, force)
	if raw == nil {
		decoded, err := types.DecodeReference(src.Data)
		if err != nil {
			return nil, fmt.Errorf("decode reference: %w", err)
		}
		raw = decoded
		e.saveCache(src, raw)
	}

	ref := model.NewReference(raw)
	if len(e.include) > 0 {
		ref.Classes = ref.Classes.Filter(e.included)
	}
	e.ref = ref
	e.graph = graph.BuildInheritance(ref.Classes)
	e.resolver = xref.NewResolver(ref.Classes, e.graph)

	symbols := 0
	for _, set := range ref.Classes.ClassIndex() {
		symbols += len(set)
	}
	log.Printf("[engine] built %d classes, %d symbols", ref.Classes.Len(), symbols)

	return &LoadResult{
		Project:      ref.Project.Name,
		Version:      ref.Project.Version,
		Path:         src.Path,
		TotalClasses: ref.Classes.Len(),
		TotalSymbols: symbols,
		Groups:       len(ref.Classes.GroupedByCategory()),
		GraphStats:   e.graph.Stats(),
		Cached:       cached,
	}, nil
}

func (e *Engine) decode(src *loader.Source, force bool) (*types.RawReference, bool) {
	if force || e.cfg.NoCache {
		return nil, false
	}
	cached, ok := e.cache.LoadFresh(src.Name, src.Hash)
	if !ok {
		return nil, false
	}
	log.Printf("[engine] loaded %d classes from cache", len(cached.Reference.Classes))
	return &cached.Reference, true
}

func (e *Engine) saveCache(src *loader.Source, raw *types.RawReference) {
	if e.cfg.NoCache {
		return
	}
	err := e.cache.Save(src.Name, &cache.CachedReference{
		Name:      src.Name,
		Hash:      src.Hash,
		Reference: *raw,
	})
	if err != nil {
		log.Printf("[engine] cache save failed: %v", err)
	}
}

func (e *Engine) included(c *model.Class) bool {
	for _, g := range e.include {
		if g.Match(c.Name) {
			return true
		}
	}
	return false
}

// Reference returns the loaded reference, or nil before Load.
func (e *Engine) Reference() *model.Reference {
	return e.ref
}

// Classes returns the loaded class collection, or nil before Load.
func (e *Engine) Classes() *model.Collection {
	if e.ref == nil {
		return nil
	}
	return e.ref.Classes
}

// Graph returns the inheritance graph of the loaded classes.
func (e *Engine) Graph() *graph.Graph {
	return e.graph
}

// Resolver returns the cross-reference resolver of the loaded classes.
func (e *Engine) Resolver() *xref.Resolver {
	return e.resolver
}

// Source returns the dump read by the last Load.
func (e *Engine) Source() *loader.Source {
	return e.source
}
