package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	DatabasePath string `json:"database_path"`
	APIPort      string `json:"api_port"`
	LogLevel     string `json:"log_level"`
	DataDir      string `json:"data_dir"`
	CORSOrigins  string `json:"cors_origins"` // comma separated, * allows all
	SenderName   string `json:"sender_name"`  // identity stamped on outgoing mail
	SenderEmail  string `json:"sender_email"`
	SenderAvatar string `json:"sender_avatar"` // empty means no avatar
}

// Default configuration values
const (
	DefaultDatabasePath = "data/mailpane.db"
	DefaultAPIPort      = "8080"
	DefaultLogLevel     = "INFO"
	DefaultDataDir      = "data"
	DefaultCORSOrigins  = "*"
	DefaultSenderName   = "Richard Brown"
	DefaultSenderEmail  = "richard@example.com"
	DefaultSenderAvatar = "/avatars/richard.jpg"
)

// Load loads configuration from environment variables and config file
// Priority: Environment variables > Config file > Default values
func Load() (*Config, error) {
	cfg := &Config{
		DatabasePath: DefaultDatabasePath,
		APIPort:      DefaultAPIPort,
		LogLevel:     DefaultLogLevel,
		DataDir:      DefaultDataDir,
		CORSOrigins:  DefaultCORSOrigins,
		SenderName:   DefaultSenderName,
		SenderEmail:  DefaultSenderEmail,
		SenderAvatar: DefaultSenderAvatar,
	}

	// Config file is optional
	_ = cfg.loadFromFile()

	// Override with environment variables
	cfg.loadFromEnv()

	return cfg, nil
}

// loadFromFile loads configuration from config.json file
func (c *Config) loadFromFile() error {
	// Look for config file in current directory and data directory
	configPaths := []string{
		"config.json",
		filepath.Join(c.DataDir, "config.json"),
	}

	for _, path := range configPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		if err := json.Unmarshal(data, c); err != nil {
			return err
		}
		return nil
	}

	return nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if val := os.Getenv("MAILPANE_DATABASE_PATH"); val != "" {
		c.DatabasePath = val
	}
	if val := os.Getenv("MAILPANE_API_PORT"); val != "" {
		c.APIPort = val
	}
	if val := os.Getenv("MAILPANE_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	if val := os.Getenv("MAILPANE_DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("MAILPANE_CORS_ORIGINS"); val != "" {
		c.CORSOrigins = val
	}
	if val := os.Getenv("MAILPANE_SENDER_NAME"); val != "" {
		c.SenderName = val
	}
	if val := os.Getenv("MAILPANE_SENDER_EMAIL"); val != "" {
		c.SenderEmail = val
	}
	if val := os.Getenv("MAILPANE_SENDER_AVATAR"); val != "" {
		c.SenderAvatar = val
	}
}

// Save saves the current configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
