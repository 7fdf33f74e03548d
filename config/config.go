// config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`

	MaxOpenConns       int    `yaml:"max_open_conns"`
	MaxIdleConns       int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeStr string `yaml:"conn_max_lifetime"`
	ConnMaxLifetime    time.Duration // Parsed duration
}

// RootServerSeed is a statically configured root server, used alongside (or
// instead of) the scraped directory list.
type RootServerSeed struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type DiscoveryConfig struct {
	// ListPageURL is the HTML directory page listing known root servers.
	ListPageURL string `yaml:"list_page_url"`
	// RowSelector matches one anchor per root server on the list page.
	RowSelector string `yaml:"row_selector"`
}

type SyncConfig struct {
	HTTPTimeoutStr string `yaml:"http_timeout"`
	HTTPTimeout    time.Duration // Parsed duration
}

type Config struct {
	Server      ServerConfig     `yaml:"server"`
	Database    DatabaseConfig   `yaml:"database"`
	RootServers []RootServerSeed `yaml:"root_servers"`
	Discovery   DiscoveryConfig  `yaml:"discovery"`
	Sync        SyncConfig       `yaml:"sync"`
}

var AppConfig Config

// LoadConfig reads configuration from the yaml file at configPath, then
// applies environment overrides for the database settings (main loads .env
// via godotenv first), so credentials can stay out of the yaml file.
func LoadConfig(configPath string) error {
	file, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Decode into a fresh Config so fields absent from the file end up at
	// their zero values rather than keeping state from an earlier load.
	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	AppConfig = cfg

	applyEnvOverrides(&AppConfig)

	// Parse durations
	if AppConfig.Sync.HTTPTimeoutStr != "" {
		AppConfig.Sync.HTTPTimeout, err = time.ParseDuration(AppConfig.Sync.HTTPTimeoutStr)
		if err != nil {
			return fmt.Errorf("failed to parse sync.http_timeout: %w", err)
		}
	} else {
		AppConfig.Sync.HTTPTimeout = 60 * time.Second // Default
	}

	if AppConfig.Database.MaxOpenConns <= 0 {
		AppConfig.Database.MaxOpenConns = 25
	}
	if AppConfig.Database.MaxIdleConns <= 0 {
		AppConfig.Database.MaxIdleConns = 25
	}
	if AppConfig.Database.ConnMaxLifetimeStr != "" {
		AppConfig.Database.ConnMaxLifetime, err = time.ParseDuration(AppConfig.Database.ConnMaxLifetimeStr)
		if err != nil {
			return fmt.Errorf("failed to parse database.conn_max_lifetime: %w", err)
		}
	} else {
		AppConfig.Database.ConnMaxLifetime = 5 * time.Minute
	}

	if AppConfig.Discovery.RowSelector == "" {
		AppConfig.Discovery.RowSelector = "table.rootservers td a"
	}

	return nil
}

func applyEnvOverrides(cfg *Config) {
	overrides := map[string]*string{
		"DB_HOST":     &cfg.Database.Host,
		"DB_PORT":     &cfg.Database.Port,
		"DB_USER":     &cfg.Database.User,
		"DB_PASSWORD": &cfg.Database.Password,
		"DB_NAME":     &cfg.Database.DBName,
	}
	for key, target := range overrides {
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}
}
