package config

import (
	"testing"
)

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error without OPENAI_API_KEY")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DATABASE_URL", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Data.MaxSampleValues != 5 {
		t.Errorf("MaxSampleValues = %d, want 5", cfg.Data.MaxSampleValues)
	}
	if cfg.Data.MaxRowsForAnalysis != 10000 {
		t.Errorf("MaxRowsForAnalysis = %d, want 10000", cfg.Data.MaxRowsForAnalysis)
	}
	if cfg.Database.URL != "" {
		t.Errorf("DATABASE_URL should default to empty, got %q", cfg.Database.URL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("MAX_SAMPLE_VALUES", "3")
	t.Setenv("MAX_ROWS_FOR_ANALYSIS", "500")
	t.Setenv("LLM_MODEL", "gpt-4o")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data.MaxSampleValues != 3 || cfg.Data.MaxRowsForAnalysis != 500 {
		t.Errorf("overrides not applied: %+v", cfg.Data)
	}
	if cfg.AI.OpenAIModel != "gpt-4o" {
		t.Errorf("model = %q, want gpt-4o", cfg.AI.OpenAIModel)
	}
}
