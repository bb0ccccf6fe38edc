// Package config loads matcha settings from defaults, an optional .matcha.yaml,
// a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/sadopc/matcha/internal/gateway"
	"github.com/sadopc/matcha/internal/store"
)

const (
	KeyDBPath       = "db_path"
	KeyAPIKey       = "api_key"
	KeyModel        = "model"
	KeyBaseURL      = "base_url"
	KeyTimeout      = "timeout"
	KeySystemPrompt = "system_prompt"
	KeyLogFile      = "log_file"

	envPrefix = "MATCHA"
)

type Config struct {
	DBPath       string
	APIKey       string
	Model        string
	BaseURL      string
	Timeout      time.Duration
	SystemPrompt string // path to a prompt file, empty for the built-in one
	LogFile      string
}

type Options struct {
	// ConfigFile is an explicit config path; otherwise .matcha.* is searched
	// for in ./ and ~/.config/matcha.
	ConfigFile string
	// EnvFile is loaded before the environment is read. Defaults to .env.
	EnvFile string
}

func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// A missing .env is fine; existing variables win over the file.
	_ = godotenv.Load(envFile)

	v := viper.New()

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		dbPath = "~/.config/matcha/matcha.db"
	}
	v.SetDefault(KeyDBPath, dbPath)
	v.SetDefault(KeyModel, gateway.DefaultModel)
	v.SetDefault(KeyBaseURL, gateway.DefaultBaseURL)
	v.SetDefault(KeyTimeout, gateway.DefaultTimeout.String())

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	// The key issued by Groq is commonly exported under its own name.
	if err := v.BindEnv(KeyAPIKey, "GROQ_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if opts.ConfigFile != "" {
		path, err := homedir.Expand(opts.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("expand config path: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".matcha")
		v.AddConfigPath("./")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "matcha"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		APIKey:  v.GetString(KeyAPIKey),
		Model:   v.GetString(KeyModel),
		BaseURL: v.GetString(KeyBaseURL),
		Timeout: v.GetDuration(KeyTimeout),
	}
	if cfg.DBPath, err = expand(v.GetString(KeyDBPath)); err != nil {
		return nil, err
	}
	if cfg.SystemPrompt, err = expand(v.GetString(KeySystemPrompt)); err != nil {
		return nil, err
	}
	if cfg.LogFile, err = expand(v.GetString(KeyLogFile)); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("invalid %s %q", KeyTimeout, v.GetString(KeyTimeout))
	}
	return cfg, nil
}

func expand(path string) (string, error) {
	if path == "" || path == ":memory:" {
		return path, nil
	}
	p, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}
	return p, nil
}

// Gateway returns the assistant client settings.
func (c *Config) Gateway() gateway.Config {
	return gateway.Config{
		APIKey:           c.APIKey,
		BaseURL:          c.BaseURL,
		Model:            c.Model,
		Timeout:          c.Timeout,
		SystemPromptFile: c.SystemPrompt,
	}
}
