package main

import (
	"testing"
)

func TestApiAddr_Default(t *testing.T) {
	t.Setenv("PRACTICEENGINE_API_ADDR", "")
	if got := apiAddr(); got != "127.0.0.1:9191" {
		t.Errorf("apiAddr() = %q, want 127.0.0.1:9191", got)
	}
}

func TestApiAddr_EnvOverride(t *testing.T) {
	t.Setenv("PRACTICEENGINE_API_ADDR", "0.0.0.0:8080")
	if got := apiAddr(); got != "0.0.0.0:8080" {
		t.Errorf("apiAddr() = %q, want 0.0.0.0:8080", got)
	}
}

func TestDataDir_DefaultAndOverride(t *testing.T) {
	t.Setenv("PRACTICEENGINE_DATA", "")
	if got := dataDir(); got != "." {
		t.Errorf("dataDir() = %q, want .", got)
	}
	t.Setenv("PRACTICEENGINE_DATA", "/var/lib/practiceengine")
	if got := dataDir(); got != "/var/lib/practiceengine" {
		t.Errorf("dataDir() = %q, want /var/lib/practiceengine", got)
	}
}

func TestLoadConfig_MissingFileFallsBackToDefaults(t *testing.T) {
	t.Setenv("PRACTICEENGINE_CONFIG", "/nonexistent/path/config.toml")
	cfg := loadConfig()
	if cfg.General.DefaultTimezone != "UTC" {
		t.Errorf("DefaultTimezone = %q, want UTC", cfg.General.DefaultTimezone)
	}
	if cfg.Mastery.Threshold != 3 {
		t.Errorf("Mastery.Threshold = %d, want 3", cfg.Mastery.Threshold)
	}
}

func TestCreateLLMProvider_ClaudeRequiresKey(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "claude")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg := loadConfig()
	_, _, err := createLLMProvider(cfg)
	if err == nil {
		t.Fatal("expected error when no claude key is set")
	}
}

func TestCreateLLMProvider_ClaudeWithKey(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "claude")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	cfg := loadConfig()
	provider, name, err := createLLMProvider(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "claude" || provider == nil {
		t.Errorf("got provider=%v name=%q", provider, name)
	}
}

func TestCreateLLMProvider_OpenAIWithKey(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := loadConfig()
	provider, name, err := createLLMProvider(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "openai" || provider == nil {
		t.Errorf("got provider=%v name=%q", provider, name)
	}
}

func TestCreateLLMProvider_UnknownProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "nonsense")

	cfg := loadConfig()
	_, _, err := createLLMProvider(cfg)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestBootstrap_UnencryptedWhenNoPassphrase(t *testing.T) {
	t.Setenv("PRACTICEENGINE_MASTER_KEY", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := loadConfig()
	d, err := bootstrap(cfg)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if d.eng == nil || d.api == nil || d.dispatcher == nil || d.ttlCache == nil {
		t.Fatalf("bootstrap left nil subsystems: %+v", d)
	}
}
