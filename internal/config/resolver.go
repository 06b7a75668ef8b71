package config

import (
	"context"
	"path/filepath"
)

// resolverKey is the context key for ConfigResolver
type resolverKey struct{}

// ConfigResolver provides lazy per-project config resolution with caching.
// It merges the .vsort.toml next to a project file into the global config on demand.
type ConfigResolver struct {
	global *Config
	cache  map[string]*Config // project dir -> merged config
}

// NewResolver creates a new ConfigResolver backed by the given global config.
func NewResolver(global *Config) *ConfigResolver {
	return &ConfigResolver{
		global: global,
		cache:  make(map[string]*Config),
	}
}

// ConfigForProject returns the effective config for the project file at path.
// Results are cached per directory.
func (r *ConfigResolver) ConfigForProject(path string) (*Config, error) {
	dir := filepath.Dir(path)
	if cached, ok := r.cache[dir]; ok {
		return cached, nil
	}

	local, err := LoadLocal(dir)
	if err != nil {
		return nil, err
	}

	merged, err := MergeLocal(r.global, local)
	if err != nil {
		return nil, err
	}
	r.cache[dir] = merged
	return merged, nil
}

// Global returns the global config (without any local overrides).
func (r *ConfigResolver) Global() *Config {
	return r.global
}

// WithResolver returns a new context with the ConfigResolver stored in it.
func WithResolver(ctx context.Context, r *ConfigResolver) context.Context {
	return context.WithValue(ctx, resolverKey{}, r)
}

// ResolverFromContext returns the ConfigResolver from context.
// Falls back to a resolver over Default() if none is stored.
func ResolverFromContext(ctx context.Context) *ConfigResolver {
	if r, ok := ctx.Value(resolverKey{}).(*ConfigResolver); ok {
		return r
	}
	cfg := Default()
	return NewResolver(&cfg)
}
