package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HEALTHTALK_CONFIG", "")
	t.Setenv("FIRECRAWL_API_KEY", "")
	t.Setenv("DATABASE_DSN", "")

	cfg := Load()

	if cfg.Pipeline.WindowDays != 3 {
		t.Fatalf("WindowDays = %d, want 3", cfg.Pipeline.WindowDays)
	}
	if cfg.Pipeline.SourcesFile != "sources.txt" {
		t.Fatalf("SourcesFile = %s", cfg.Pipeline.SourcesFile)
	}
	if got := cfg.Selectors["dmp.no"]; got != "main#main-content" {
		t.Fatalf("selector for dmp.no = %q", got)
	}
	if cfg.Extractors.Resolve("unknown.no") != "firecrawl" {
		t.Fatal("default extractor should be firecrawl")
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
pipeline:
  windowDays: 7
firecrawl:
  apiKey: from-file
extractors:
  default: firecrawl
  overrides:
    local.test: html
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("HEALTHTALK_CONFIG", path)
	t.Setenv("FIRECRAWL_API_KEY", "from-env")

	cfg := Load()

	if cfg.Pipeline.WindowDays != 7 {
		t.Fatalf("WindowDays = %d, want 7 from file", cfg.Pipeline.WindowDays)
	}
	if cfg.Firecrawl.APIKey != "from-env" {
		t.Fatalf("APIKey = %q, env must win over file", cfg.Firecrawl.APIKey)
	}
	if cfg.Extractors.Resolve("local.test") != "html" {
		t.Fatal("override for local.test not applied")
	}
	if cfg.Extractors.Resolve("other.test") != "firecrawl" {
		t.Fatal("default strategy lost after merge")
	}
}

func TestSourceTimeoutDefault(t *testing.T) {
	t.Parallel()

	var p PipelineConfig
	if got := p.SourceTimeout(); got != 60*time.Second {
		t.Fatalf("SourceTimeout = %v, want 60s", got)
	}

	p.SourceTimeoutSecs = 5
	if got := p.SourceTimeout(); got != 5*time.Second {
		t.Fatalf("SourceTimeout = %v, want 5s", got)
	}
}
