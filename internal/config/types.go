package config

import "time"

// Config represents the complete presgw configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	API       APIConfig       `yaml:"api"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Packaging PackagingConfig `yaml:"packaging"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Name      string `yaml:"name"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LockPath  string `yaml:"lock_path"`
}

// APIConfig defines HTTP API server settings.
type APIConfig struct {
	Listen string        `yaml:"listen"`
	Auth   APIAuthConfig `yaml:"auth"`
}

// APIAuthConfig defines API authentication settings.
type APIAuthConfig struct {
	// APIKey is the legacy single bearer token (admin/full access).
	// Prefer Tokens for scoped access.
	APIKey string     `yaml:"api_key"`
	Tokens []APIToken `yaml:"tokens,omitempty"`
}

// APIToken defines a bearer token and its scopes.
type APIToken struct {
	Token  string   `yaml:"token"`
	Scopes []string `yaml:"scopes"`
}

// CatalogConfig defines how to reach the metadata catalog service.
type CatalogConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	// Timeout bounds each catalog request. Zero means the default.
	Timeout            time.Duration `yaml:"timeout,omitempty"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify,omitempty"`
}

// PackagingConfig defines the external packaging toolchain invocation.
type PackagingConfig struct {
	Command      string   `yaml:"command"`
	SubmitArgs   []string `yaml:"submit_args,omitempty"`
	GenerateArgs []string `yaml:"generate_args,omitempty"`
	WorkDir      string   `yaml:"workdir,omitempty"`
	// GenerateTimeout bounds a synchronous metadata generation run.
	GenerateTimeout time.Duration `yaml:"generate_timeout,omitempty"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:      "presgw",
			LogLevel:  "info",
			LogFormat: "json",
			LockPath:  "./presgw.pid",
		},
		API: APIConfig{
			Listen: "127.0.0.1:8080",
		},
		Catalog: CatalogConfig{
			Timeout: 30 * time.Second,
		},
		Packaging: PackagingConfig{
			SubmitArgs:      []string{"preserve"},
			GenerateArgs:    []string{"generate-metadata"},
			GenerateTimeout: 120 * time.Second,
		},
	}
}
