package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/sadopc/matcha/internal/gateway"
)

// isolate points HOME and the working directory at a fresh temp dir and
// clears the variables Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	for _, k := range []string{"GROQ_API_KEY", "MATCHA_API_KEY", "MATCHA_MODEL", "MATCHA_DB_PATH", "MATCHA_TIMEOUT", "MATCHA_LOG_FILE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Chdir(home)
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model != gateway.DefaultModel || cfg.BaseURL != gateway.DefaultBaseURL {
		t.Fatalf("unexpected gateway defaults: %s %s", cfg.Model, cfg.BaseURL)
	}
	if cfg.Timeout != gateway.DefaultTimeout {
		t.Fatalf("timeout = %v", cfg.Timeout)
	}
	if cfg.APIKey != "" {
		t.Fatalf("api key should be empty, got %q", cfg.APIKey)
	}
	want := filepath.Join(home, ".config", "matcha", "matcha.db")
	if cfg.DBPath != want {
		t.Fatalf("db path = %s, want %s", cfg.DBPath, want)
	}
}

func TestLoadGroqKeyFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("GROQ_API_KEY", "gsk_test")

	cfg, err := Load(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "gsk_test" {
		t.Fatalf("api key = %q", cfg.APIKey)
	}
}

func TestLoadPrefixedEnvWins(t *testing.T) {
	isolate(t)
	t.Setenv("GROQ_API_KEY", "groq")
	t.Setenv("MATCHA_API_KEY", "matcha")
	t.Setenv("MATCHA_MODEL", "llama-3.3-70b-versatile")

	cfg, err := Load(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "matcha" {
		t.Fatalf("api key = %q, want matcha", cfg.APIKey)
	}
	if cfg.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("model = %q", cfg.Model)
	}
}

func TestLoadConfigFileInWorkingDir(t *testing.T) {
	home := isolate(t)
	yaml := "db_path: ~/journal.db\ntimeout: 5s\nlog_file: ~/matcha.log\n"
	if err := os.WriteFile(filepath.Join(home, ".matcha.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != filepath.Join(home, "journal.db") {
		t.Fatalf("db path = %s", cfg.DBPath)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("timeout = %v", cfg.Timeout)
	}
	if cfg.LogFile != filepath.Join(home, "matcha.log") {
		t.Fatalf("log file = %s", cfg.LogFile)
	}
}

func TestLoadExplicitConfigFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.yaml")
	os.WriteFile(path, []byte("model: custom-model\n"), 0o644)

	cfg, err := Load(Options{ConfigFile: path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model != "custom-model" {
		t.Fatalf("model = %q", cfg.Model)
	}

	if _, err := Load(Options{ConfigFile: filepath.Join(home, "missing.yaml")}); err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestLoadDotEnv(t *testing.T) {
	home := isolate(t)
	envFile := filepath.Join(home, "test.env")
	os.WriteFile(envFile, []byte("GROQ_API_KEY=from-dotenv\n"), 0o644)

	cfg, err := Load(Options{EnvFile: envFile})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "from-dotenv" {
		t.Fatalf("api key = %q", cfg.APIKey)
	}
}

func TestLoadInvalidTimeout(t *testing.T) {
	isolate(t)
	t.Setenv("MATCHA_TIMEOUT", "soon")
	if _, err := Load(Options{}); err == nil {
		t.Fatal("expected error for invalid timeout")
	}
}

func TestGatewayConfig(t *testing.T) {
	cfg := &Config{APIKey: "k", Model: "m", BaseURL: "u", Timeout: time.Second, SystemPrompt: "p"}
	gc := cfg.Gateway()
	if gc.APIKey != "k" || gc.Model != "m" || gc.BaseURL != "u" || gc.Timeout != time.Second || gc.SystemPromptFile != "p" {
		t.Fatalf("unexpected gateway config %+v", gc)
	}
}
