package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Caption   CaptionConfig   `mapstructure:"caption"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Billing   BillingConfig   `mapstructure:"billing"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite, postgres
	Path            string        `mapstructure:"path"`   // sqlite file path
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN builds the driver-specific connection string.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	}
	return c.Path
}

type StorageConfig struct {
	Provider  string `mapstructure:"provider"` // s3, minio
	Type      string `mapstructure:"type"`     // s3, r2, s3compatible (s3 provider only)
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type CaptionConfig struct {
	APIKey         string   `mapstructure:"api_key"`
	BaseURL        string   `mapstructure:"base_url"`
	Models         []string `mapstructure:"models"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
}

// RateRule is one (requests, window) quota.
type RateRule struct {
	Limit         int `mapstructure:"limit"`
	WindowSeconds int `mapstructure:"window_seconds"`
}

// RateLimitConfig enumerates quotas per endpoint and subscription tier.
type RateLimitConfig struct {
	Endpoints map[string]map[string]RateRule `mapstructure:"endpoints"`
}

// Rule returns the quota for the endpoint and tier, falling back to the
// free-tier rule for unknown tiers. The second return is false only when the
// endpoint itself has no configuration, which means unlimited.
func (c *RateLimitConfig) Rule(endpoint, tier string) (RateRule, bool) {
	tiers, ok := c.Endpoints[endpoint]
	if !ok {
		return RateRule{}, false
	}
	if rule, ok := tiers[tier]; ok {
		return rule, true
	}
	if rule, ok := tiers["free"]; ok {
		return rule, true
	}
	return RateRule{}, false
}

type BillingConfig struct {
	WebhookSecret string `mapstructure:"webhook_secret"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/promptfinder.db")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("storage.provider", "s3")
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.bucket", "uploads")
	v.SetDefault("caption.base_url", "https://api-inference.huggingface.co")
	v.SetDefault("caption.models", []string{
		"Salesforce/blip-image-captioning-large",
		"Salesforce/blip-image-captioning-base",
		"microsoft/git-large-coco",
		"microsoft/git-base-coco",
		"nlpconnect/vit-gpt2-image-captioning",
	})
	v.SetDefault("caption.timeout_seconds", 30)
	v.SetDefault("ratelimit.endpoints.generate.free.limit", 5)
	v.SetDefault("ratelimit.endpoints.generate.free.window_seconds", 3600)
	v.SetDefault("ratelimit.endpoints.generate.premium.limit", 50)
	v.SetDefault("ratelimit.endpoints.generate.premium.window_seconds", 3600)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.name", "DB_NAME")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("storage.use_ssl", "STORAGE_USE_SSL")
	v.BindEnv("storage.public_url", "STORAGE_PUBLIC_URL")
	v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")
	v.BindEnv("caption.api_key", "HUGGING_FACE_API_KEY")
	v.BindEnv("caption.base_url", "HUGGING_FACE_BASE_URL")
	v.BindEnv("billing.webhook_secret", "BILLING_WEBHOOK_SECRET")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
