package main

import (
	"path/filepath"
	"testing"

	"github.com/dailyspark/practiceengine/internal/config"
)

func TestMaskSecret(t *testing.T) {
	cases := map[string]string{
		"short":            "****",
		"12345678":         "****",
		"sk-ant-abcdefghi": "sk-a...fghi",
	}
	for in, want := range cases {
		if got := maskSecret(in); got != want {
			t.Errorf("maskSecret(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteConfigFile_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.Default()
	cfg.General.DefaultTimezone = "America/New_York"
	cfg.LLM.Provider = "openai"

	if err := writeConfigFile(path, cfg); err != nil {
		t.Fatalf("writeConfigFile: %v", err)
	}

	got, err := config.Load(path)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if got.General.DefaultTimezone != "America/New_York" {
		t.Errorf("DefaultTimezone = %q", got.General.DefaultTimezone)
	}
	if got.LLM.Provider != "openai" {
		t.Errorf("LLM.Provider = %q", got.LLM.Provider)
	}
}
