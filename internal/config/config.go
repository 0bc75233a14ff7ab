package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv      = "IDEASPARK_CONFIG"
	serverAddressEnv   = "IDEASPARK_ADDR"
	databasePathEnv    = "IDEASPARK_DB_PATH"
	anthropicKeyEnv    = "ANTHROPIC_API_KEY"
	anthropicModelEnv  = "ANTHROPIC_MODEL"
	productHuntTokEnv  = "PRODUCT_HUNT_API_TOKEN"
	imagesEndpointEnv  = "IDEASPARK_IMAGES_ENDPOINT"
	imagesAccessKeyEnv = "IDEASPARK_IMAGES_ACCESS_KEY"
	imagesSecretKeyEnv = "IDEASPARK_IMAGES_SECRET_KEY"
	imagesBucketEnv    = "IDEASPARK_IMAGES_BUCKET"
	imagesUseSSLEnv    = "IDEASPARK_IMAGES_USE_SSL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Anthropic   AnthropicConfig   `yaml:"anthropic"`
	ProductHunt ProductHuntConfig `yaml:"producthunt"`
	Images      ImagesConfig      `yaml:"images"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// DatabaseConfig describes the SQLite idea store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AnthropicConfig defines how to contact the Claude messages API.
type AnthropicConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"maxTokens"`
	APIKey    string `yaml:"apiKey"`
}

// ProductHuntConfig defines the trending-launches listing API.
type ProductHuntConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIToken string `yaml:"apiToken"`
}

// ImagesConfig wires the S3-compatible image bucket. An empty endpoint
// leaves image storage unconfigured.
type ImagesConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"useSSL"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(serverAddressEnv); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(anthropicKeyEnv); v != "" {
		c.Anthropic.APIKey = v
	}
	if v := os.Getenv(anthropicModelEnv); v != "" {
		c.Anthropic.Model = v
	}
	if v := os.Getenv(productHuntTokEnv); v != "" {
		c.ProductHunt.APIToken = v
	}
	if v := os.Getenv(imagesEndpointEnv); v != "" {
		c.Images.Endpoint = v
	}
	if v := os.Getenv(imagesAccessKeyEnv); v != "" {
		c.Images.AccessKey = v
	}
	if v := os.Getenv(imagesSecretKeyEnv); v != "" {
		c.Images.SecretKey = v
	}
	if v := os.Getenv(imagesBucketEnv); v != "" {
		c.Images.Bucket = v
	}
	if v := os.Getenv(imagesUseSSLEnv); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Images.UseSSL = parsed
		}
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Address != "" {
		base.Server.Address = override.Server.Address
	}
	if len(override.Server.AllowedOrigins) > 0 {
		base.Server.AllowedOrigins = override.Server.AllowedOrigins
	}

	if override.Database.Path != "" {
		base.Database.Path = override.Database.Path
	}

	if override.Anthropic.Endpoint != "" {
		base.Anthropic.Endpoint = override.Anthropic.Endpoint
	}
	if override.Anthropic.Model != "" {
		base.Anthropic.Model = override.Anthropic.Model
	}
	if override.Anthropic.MaxTokens > 0 {
		base.Anthropic.MaxTokens = override.Anthropic.MaxTokens
	}
	if override.Anthropic.APIKey != "" {
		base.Anthropic.APIKey = override.Anthropic.APIKey
	}

	if override.ProductHunt.Endpoint != "" {
		base.ProductHunt.Endpoint = override.ProductHunt.Endpoint
	}
	if override.ProductHunt.APIToken != "" {
		base.ProductHunt.APIToken = override.ProductHunt.APIToken
	}

	if override.Images.Endpoint != "" {
		base.Images = override.Images
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address: ":8787",
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:8788",
			},
		},
		Database: DatabaseConfig{Path: "ideas.db"},
		Anthropic: AnthropicConfig{
			Endpoint:  "https://api.anthropic.com/v1/messages",
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 3000,
		},
		ProductHunt: ProductHuntConfig{
			Endpoint: "https://api.producthunt.com/v2/api/graphql",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
