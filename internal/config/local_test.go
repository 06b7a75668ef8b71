package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeLocal(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, LocalConfigFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadLocal_Missing(t *testing.T) {
	t.Parallel()

	local, err := LoadLocal(t.TempDir())
	if err != nil || local != nil {
		t.Errorf("LoadLocal() = %v, %v, want nil, nil", local, err)
	}
}

func TestMergeLocal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLocal(t, dir, `
workers = 2

[thumbnail]
width = 200

[detail]
timeout = "1s"
`)
	local, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal() error = %v", err)
	}

	global := Default()
	merged, err := MergeLocal(&global, local)
	if err != nil {
		t.Fatalf("MergeLocal() error = %v", err)
	}

	if merged.Workers != 2 || merged.Thumbnail.Width != 200 || merged.Detail.Timeout.Duration != time.Second {
		t.Errorf("merged = %+v, want local overrides", merged)
	}
	if merged.Thumbnail.Height != 136 || merged.Viewer != global.Viewer {
		t.Error("fields not set locally should be inherited")
	}
	if global.Workers != DefaultWorkers || global.Thumbnail.Width != 166 {
		t.Error("MergeLocal() must not mutate global")
	}
}

func TestMergeLocal_Invalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLocal(t, dir, "workers = 0\n")
	local, err := LoadLocal(dir)
	if err != nil {
		t.Fatal(err)
	}
	global := Default()
	if _, err := MergeLocal(&global, local); err == nil || !strings.Contains(err.Error(), LocalConfigFileName) {
		t.Errorf("MergeLocal() error = %v, want validation error naming %s", err, LocalConfigFileName)
	}
}

func TestMergeLocal_Nil(t *testing.T) {
	t.Parallel()

	global := Default()
	merged, err := MergeLocal(&global, nil)
	if err != nil || merged != &global {
		t.Errorf("MergeLocal(nil) = %p, %v, want global", merged, err)
	}
}

func TestResolver(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeLocal(t, dir, "workers = 7\n")
	project := filepath.Join(dir, "show.json")

	global := Default()
	r := NewResolver(&global)
	ctx := WithResolver(context.Background(), r)

	got := ResolverFromContext(ctx)
	if got != r {
		t.Fatal("ResolverFromContext() should return the stored resolver")
	}
	cfg, err := got.ConfigForProject(project)
	if err != nil {
		t.Fatalf("ConfigForProject() error = %v", err)
	}
	if cfg.Workers != 7 {
		t.Errorf("Workers = %d, want 7", cfg.Workers)
	}

	again, _ := got.ConfigForProject(filepath.Join(dir, "other.json"))
	if again != cfg {
		t.Error("configs for the same directory should be cached")
	}
	if got.Global().Workers != DefaultWorkers {
		t.Error("Global() should be unaffected by local overrides")
	}

	if fallback := ResolverFromContext(context.Background()); fallback.Global().Workers != DefaultWorkers {
		t.Error("fallback resolver should use Default()")
	}
}
