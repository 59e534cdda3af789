// Package config loads application configuration from a JSON settings
// file with environment variable overrides for secrets and infra
// endpoints.  A .env file in the working directory is honored when
// present so local setups do not need to export variables manually.
package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DatabaseConfig describes the MySQL connection and pool settings.
type DatabaseConfig struct {
	Host        string `json:"host"`         // database host address
	Port        int    `json:"port"`         // database port number
	Database    string `json:"database"`     // schema name
	User        string `json:"user"`         // database username
	Password    string `json:"password"`     // database password (DB_PASS overrides)
	Charset     string `json:"charset"`      // connection charset
	PoolSize    int    `json:"pool_size"`    // max open/idle connections
	PoolTimeout int    `json:"pool_timeout"` // connection acquire timeout in seconds
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port string `json:"port"` // HTTP port to listen on
	Env  string `json:"env"`  // application environment (dev/test/prod)
}

// ExportConfig controls file export behavior.
type ExportConfig struct {
	Path        string `json:"export_path"`   // root directory for exported files
	CSVBOM      bool   `json:"csv_bom"`       // prefix CSV output with a UTF-8 signature
	ExcelSheet  string `json:"excel_sheet"`   // worksheet name for Excel exports
	PDFPageSize string `json:"pdf_page_size"` // PDF page size, e.g. "A4"
	ImageFormat string `json:"image_format"`  // chart image format, e.g. "png"
	ImageDPI    int    `json:"image_dpi"`     // chart image resolution
}

// ChartConfig controls chart rendering defaults.
type ChartConfig struct {
	DefaultType string   `json:"default_chart_type"` // bar, pie or line
	Theme       string   `json:"theme"`              // reserved for future styling
	Colors      []string `json:"colors"`             // hex palette applied to series
}

// DateConfig holds the date/time layouts used for parsing and display.
type DateConfig struct {
	DateFormat     string `json:"date_format"`     // Go layout for dates
	DateTimeFormat string `json:"datetime_format"` // Go layout for timestamps
	Timezone       string `json:"timezone"`        // IANA timezone name
}

// LoggingConfig controls the rotating JSON log output.
type LoggingConfig struct {
	Level       string `json:"level"`          // minimum level: debug, info, warn, error
	File        string `json:"file"`           // log file path; empty disables file output
	MaxBytes    int    `json:"max_bytes"`      // rotate after this many bytes
	BackupCount int    `json:"backup_count"`   // rotated files to keep
	Console     bool   `json:"console_output"` // mirror log lines to stderr
}

// AuthConfig holds API authentication parameters.  The signing secret
// always comes from the environment, never from the settings file.
type AuthConfig struct {
	JWTSecret    string `json:"-"`              // HS256 signing secret (JWT_SECRET)
	AccessTTLMin int    `json:"access_ttl_min"` // access token lifetime in minutes
	BcryptCost   int    `json:"bcrypt_cost"`    // bcrypt cost for operator passwords
}

// Config aggregates all sections of the settings file.
type Config struct {
	Database DatabaseConfig `json:"database"`
	Server   ServerConfig   `json:"server"`
	Export   ExportConfig   `json:"export"`
	Chart    ChartConfig    `json:"chart"`
	Date     DateConfig     `json:"date"`
	Logging  LoggingConfig  `json:"logging"`
	Auth     AuthConfig     `json:"auth"`
}

// defaults returns a Config populated with workable development values.
// The settings file and environment override these field by field.
func defaults() Config {
	return Config{
		Database: DatabaseConfig{
			Host:        "localhost",
			Port:        3306,
			Database:    "dental_equipment_db",
			User:        "root",
			Charset:     "utf8mb4",
			PoolSize:    5,
			PoolTimeout: 30,
		},
		Server: ServerConfig{Port: "8080", Env: "dev"},
		Export: ExportConfig{
			Path:        "exports",
			CSVBOM:      true,
			ExcelSheet:  "Data",
			PDFPageSize: "A4",
			ImageFormat: "png",
			ImageDPI:    300,
		},
		Chart: ChartConfig{
			DefaultType: "bar",
			Theme:       "default",
			Colors:      []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd"},
		},
		Date: DateConfig{
			DateFormat:     "2006-01-02",
			DateTimeFormat: "2006-01-02 15:04:05",
			Timezone:       "UTC",
		},
		Logging: LoggingConfig{
			Level:       "info",
			File:        "logs/app.log",
			MaxBytes:    10 << 20,
			BackupCount: 5,
			Console:     true,
		},
		Auth: AuthConfig{AccessTTLMin: 60, BcryptCost: 12},
	}
}

// Load reads the settings file at path, applies environment overrides
// and returns the resulting Config.  A missing file is not an error:
// defaults plus environment are used, which keeps containerized
// deployments working without a mounted settings volume.  Malformed
// JSON is fatal; running with half-applied settings would be worse
// than not starting.
func Load(path string) Config {
	_ = godotenv.Load()

	cfg := defaults()
	if path == "" {
		path = envOr("SETTINGS_FILE", "settings.json")
	}
	if raw, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			log.Fatalf("config: malformed settings file %s: %v", path, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config: cannot read settings file %s: %v", path, err)
	}

	applyEnv(&cfg)
	return cfg
}

// applyEnv overrides individual fields from environment variables.
// Only secrets and endpoints that differ between deployments are
// override-able; layout and formatting stay in the settings file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("APP_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Server.Env = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = n
		}
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Database = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASS"); v != "" {
		cfg.Database.Password = v
	}
	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
