package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads and parses configuration from a file. Environment references of
// the form ${VAR} are interpolated before parsing, defaults are applied, and
// the result is validated. If a .checksums manifest exists next to the config
// file, the file is verified against it before being trusted.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s\n"+
			"Hint: Check the path or run with --config flag", absPath)
	}
	if info.IsDir() {
		// Directory provided - look for config.yaml inside
		absPath = filepath.Join(absPath, "config.yaml")
		if _, err := os.Stat(absPath); err != nil {
			return nil, fmt.Errorf("directory provided but config.yaml not found: %s", absPath)
		}
	}

	if err := verifyIfLocked(absPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(interpolateEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in %s: %w", absPath, err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// DiscoverConfigPath finds the config file by checking standard locations.
// Priority order: $PRESGW_CONFIG, /etc/presgw/config.yaml, ./config.yaml.
func DiscoverConfigPath() (string, error) {
	if path := os.Getenv("PRESGW_CONFIG"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		return "", fmt.Errorf("PRESGW_CONFIG is set but %s does not exist", path)
	}

	candidates := []string{
		"/etc/presgw/config.yaml",
		"./config.yaml",
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}

	return "", fmt.Errorf("no config file found (checked $PRESGW_CONFIG, %s)",
		strings.Join(candidates, ", "))
}

// interpolateEnv replaces ${VAR} references with environment values.
// Unset variables interpolate to the empty string; validation catches the
// fields that must not end up empty.
func interpolateEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyDefaults fills zero values that yaml.Unmarshal may have cleared when a
// section was present but a field was not.
func applyDefaults(cfg *Config) {
	def := Defaults()
	if cfg.Service.Name == "" {
		cfg.Service.Name = def.Service.Name
	}
	if cfg.Service.LogLevel == "" {
		cfg.Service.LogLevel = def.Service.LogLevel
	}
	if cfg.Service.LogFormat == "" {
		cfg.Service.LogFormat = def.Service.LogFormat
	}
	if cfg.Service.LockPath == "" {
		cfg.Service.LockPath = def.Service.LockPath
	}
	if cfg.API.Listen == "" {
		cfg.API.Listen = def.API.Listen
	}
	if cfg.Catalog.Timeout <= 0 {
		cfg.Catalog.Timeout = def.Catalog.Timeout
	}
	if len(cfg.Packaging.SubmitArgs) == 0 {
		cfg.Packaging.SubmitArgs = def.Packaging.SubmitArgs
	}
	if len(cfg.Packaging.GenerateArgs) == 0 {
		cfg.Packaging.GenerateArgs = def.Packaging.GenerateArgs
	}
	if cfg.Packaging.GenerateTimeout <= 0 {
		cfg.Packaging.GenerateTimeout = def.Packaging.GenerateTimeout
	}
}

func validate(cfg *Config) error {
	if cfg.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	u, err := url.Parse(cfg.Catalog.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("catalog.base_url %q is not a valid URL", cfg.Catalog.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("catalog.base_url scheme must be http or https, got %q", u.Scheme)
	}

	if cfg.Packaging.Command == "" {
		return fmt.Errorf("packaging.command is required")
	}

	if cfg.API.Auth.APIKey == "" && len(cfg.API.Auth.Tokens) == 0 {
		return fmt.Errorf("api.auth: either api_key or tokens must be configured")
	}
	for i, tok := range cfg.API.Auth.Tokens {
		if strings.TrimSpace(tok.Token) == "" {
			return fmt.Errorf("api.auth.tokens[%d]: token is empty", i)
		}
		if len(tok.Scopes) == 0 {
			return fmt.Errorf("api.auth.tokens[%d]: at least one scope is required", i)
		}
	}

	return nil
}
