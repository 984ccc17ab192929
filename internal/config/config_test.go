package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "quill.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing fixture config: %v", err)
	}
	return path
}

func TestLoadDecodesSearchPathsAndDefaults(t *testing.T) {
	path := writeConfig(t, "searchPaths:\n  - ./include\n  - ./vendor\ndefaultOutput: out.bin\ndefaultHeader: out.h\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}
	if len(cfg.SearchPaths) != 2 || cfg.SearchPaths[0] != "./include" {
		t.Fatalf("unexpected search paths: %v", cfg.SearchPaths)
	}
	if cfg.DefaultOutput != "out.bin" || cfg.DefaultHeader != "out.h" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestMergePrefersExplicitCLIValuesOverDefaults(t *testing.T) {
	cfg := &Config{SearchPaths: []string{"./include"}, DefaultOutput: "out.bin"}
	paths, output, header := cfg.Merge([]string{"./extra"}, "", "custom.h")
	if len(paths) != 2 || paths[0] != "./include" || paths[1] != "./extra" {
		t.Fatalf("expected config paths to precede CLI paths, got %v", paths)
	}
	if output != "out.bin" {
		t.Fatalf("expected empty CLI output to fall back to config default, got %q", output)
	}
	if header != "custom.h" {
		t.Fatalf("expected explicit CLI header to win, got %q", header)
	}
}
