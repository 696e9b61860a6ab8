package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Cache     CacheConfig     `yaml:"cache"`
	Firestore FirestoreConfig `yaml:"firestore"`
	Email     EmailConfig     `yaml:"email"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CacheConfig contains the PostgreSQL settings of the local catalog mirror
type CacheConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// FirestoreConfig contains the remote document store settings
type FirestoreConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

// EmailConfig contains the SendGrid back-office notification settings.
// An empty APIKey disables notifications entirely.
type EmailConfig struct {
	APIKey          string `yaml:"api_key"`
	FromEmail       string `yaml:"from_email"`
	FromName        string `yaml:"from_name"`
	BackOfficeEmail string `yaml:"back_office_email"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	RefreshCatalog string `yaml:"refresh_catalog"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Cache database
	if val := os.Getenv("CACHE_DB_HOST"); val != "" {
		c.Cache.Host = val
	}
	if val := os.Getenv("CACHE_DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Cache.Port)
	}
	if val := os.Getenv("CACHE_DB_USER"); val != "" {
		c.Cache.User = val
	}
	if val := os.Getenv("CACHE_DB_PASSWORD"); val != "" {
		c.Cache.Password = val
	}
	if val := os.Getenv("CACHE_DB_NAME"); val != "" {
		c.Cache.Database = val
	}
	if val := os.Getenv("CACHE_DB_SSL_MODE"); val != "" {
		c.Cache.SSLMode = val
	}

	// Firestore
	if val := os.Getenv("FIRESTORE_PROJECT_ID"); val != "" {
		c.Firestore.ProjectID = val
	}
	if val := os.Getenv("FIRESTORE_CREDENTIALS_FILE"); val != "" {
		c.Firestore.CredentialsFile = val
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.FromEmail = val
	}
	if val := os.Getenv("EMAIL_BACK_OFFICE"); val != "" {
		c.Email.BackOfficeEmail = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Cache database validation
	if c.Cache.Host == "" {
		return fmt.Errorf("cache database host is required")
	}
	if c.Cache.User == "" {
		return fmt.Errorf("cache database user is required")
	}
	if c.Cache.Database == "" {
		return fmt.Errorf("cache database name is required")
	}

	// Firestore validation
	if c.Firestore.ProjectID == "" {
		return fmt.Errorf("firestore project id is required")
	}

	// Email validation: the key is optional, but a configured key needs
	// addresses to go with it.
	if c.Email.APIKey != "" {
		if c.Email.FromEmail == "" {
			return fmt.Errorf("email from address is required when sendgrid is enabled")
		}
		if c.Email.BackOfficeEmail == "" {
			return fmt.Errorf("back office address is required when sendgrid is enabled")
		}
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	// Scheduler defaults
	if c.Scheduler.RefreshCatalog == "" {
		c.Scheduler.RefreshCatalog = "0 0 4 * * *" // 4 AM UTC
	}

	return nil
}

// GetCacheConnectionString returns a PostgreSQL connection string
func (c *Config) GetCacheConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Cache.User,
		c.Cache.Password,
		c.Cache.Host,
		c.Cache.Port,
		c.Cache.Database,
		c.Cache.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
