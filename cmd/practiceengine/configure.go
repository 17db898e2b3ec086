package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/dailyspark/practiceengine/internal/config"
)

// runConfigure walks the operator through the settings bootstrap actually
// needs — store encryption passphrase, timezone, and curriculum LLM
// provider — and writes them to config.toml, masking secrets with a
// hidden-input prompt and a numbered menu for the provider choice.
func runConfigure() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "warning: stdout is not a terminal; the numbered menu below will print plainly")
	}

	fmt.Printf("\n%s v%s — configuration\n\n", appName, version)

	path := os.Getenv("PRACTICEENGINE_CONFIG")
	if path == "" {
		path = "./config.toml"
	}

	cfg := config.Default()
	if existing, err := config.Load(path); err == nil {
		cfg = existing
	}

	reader := bufio.NewReader(os.Stdin)

	cfg.General.DefaultTimezone = promptString(reader, "Default timezone", cfg.General.DefaultTimezone)

	providers := []string{"claude", "openai"}
	fmt.Println("\n  Curriculum LLM provider:")
	defaultIdx := 0
	for i, p := range providers {
		if p == cfg.LLM.Provider {
			defaultIdx = i
		}
	}
	providerIdx := numberedSelect(providers, defaultIdx)
	cfg.LLM.Provider = providers[providerIdx]

	fmt.Print("  API key for " + cfg.LLM.Provider + " (leave blank to keep using env vars): ")
	if key := readSecretLine(reader); key != "" {
		envVar := "ANTHROPIC_API_KEY"
		if cfg.LLM.Provider == "openai" {
			envVar = "OPENAI_API_KEY"
		}
		fmt.Printf("  Export this before starting the daemon: export %s=%s\n", envVar, maskSecret(key))
	}

	fmt.Print("\n  Store encryption passphrase (blank = unencrypted in-memory store): ")
	if pass := readSecretLine(reader); pass != "" {
		fmt.Printf("  Export this before starting the daemon: export %s=%s\n", cfg.Store.EncryptionKeyEnvVar, maskSecret(pass))
		cfg.Store.EncryptionEnabled = true
	} else {
		cfg.Store.EncryptionEnabled = false
	}

	if err := writeConfigFile(path, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error saving config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\n  Configuration saved to %s\n\n", path)
}

func writeConfigFile(path string, cfg *config.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

func maskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// promptString asks for a string input with a default value.
func promptString(reader *bufio.Reader, prompt, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("  %s [%s]: ", prompt, defaultVal)
	} else {
		fmt.Printf("  %s: ", prompt)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultVal
	}
	return line
}

// numberedSelect prints a numbered menu and reads a choice, defaulting to
// defaultIdx on empty input. Falls back cleanly on non-interactive stdin.
func numberedSelect(items []string, defaultIdx int) int {
	reader := bufio.NewReader(os.Stdin)
	for i, item := range items {
		marker := "  "
		if i == defaultIdx {
			marker = "> "
		}
		fmt.Printf("    %s%d) %s\n", marker, i+1, item)
	}
	for {
		fmt.Printf("  Choose [%d]: ", defaultIdx+1)
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			return defaultIdx
		}
		var choice int
		if _, err := fmt.Sscanf(line, "%d", &choice); err == nil && choice >= 1 && choice <= len(items) {
			return choice - 1
		}
		fmt.Printf("  enter a number between 1 and %d\n", len(items))
	}
}

// readSecretLine reads a line without echoing it, falling back to a plain
// read when stdin isn't a terminal (e.g. piped input in tests/scripts).
func readSecretLine(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
