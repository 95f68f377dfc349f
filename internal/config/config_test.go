package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LOGSEQ_API_TOKEN", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.APIURL != "http://localhost:12315" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.APITimeout != 10*time.Second {
		t.Errorf("APITimeout = %s", cfg.APITimeout)
	}
	if cfg.APIMaxRetries != 3 {
		t.Errorf("APIMaxRetries = %d", cfg.APIMaxRetries)
	}
	if !cfg.EnableAdvancedQueries {
		t.Error("advanced queries should default to enabled")
	}
	if cfg.EnableGitOperations {
		t.Error("git operations should default to disabled")
	}
	if cfg.EnableAssetManagement {
		t.Error("asset management should default to disabled")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LOGSEQ_API_TOKEN", "secret")
	t.Setenv("LOGSEQ_API_URL", "http://127.0.0.1:9999/")
	t.Setenv("LOGSEQ_API_TIMEOUT", "30s")
	t.Setenv("LOGSEQ_API_MAX_RETRIES", "5")
	t.Setenv("LOGSEQ_ENABLE_GIT_OPERATIONS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.APIURL != "http://127.0.0.1:9999" {
		t.Errorf("APIURL = %q, trailing slash should be trimmed", cfg.APIURL)
	}
	if cfg.APITimeout != 30*time.Second {
		t.Errorf("APITimeout = %s", cfg.APITimeout)
	}
	if cfg.APIMaxRetries != 5 {
		t.Errorf("APIMaxRetries = %d", cfg.APIMaxRetries)
	}
	if !cfg.EnableGitOperations {
		t.Error("git operations should be enabled")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("LOGSEQ_API_TOKEN", "secret")
	t.Setenv("LOGSEQ_API_TIMEOUT", "-5s")

	if _, err := Load(); err == nil {
		t.Error("negative timeout should be rejected")
	}
}

func TestFeatureFlags(t *testing.T) {
	cfg := Config{
		EnableAdvancedQueries: true,
		EnableGitOperations:   false,
		EnableAssetManagement: true,
	}
	flags := cfg.FeatureFlags()

	if !flags[FlagAdvancedQueries] {
		t.Error("advanced_queries flag should be on")
	}
	if flags[FlagGitOperations] {
		t.Error("git_operations flag should be off")
	}
	if !flags[FlagAssetManagement] {
		t.Error("asset_management flag should be on")
	}
}
