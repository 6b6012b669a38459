package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/rentbook/internal/apperr"
)

// SourceBackend selects where statement PDFs are listed from.
type SourceBackend string

const (
	SourceDrive SourceBackend = "drive"
	SourceGCS   SourceBackend = "gcs"
)

type Config struct {
	App struct {
		Name        string   `envconfig:"APP_NAME" default:"Rentbook"`
		Port        int      `envconfig:"PORT" default:"8080"`
		CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"rentbook"`

		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"5m"`
	}

	Source struct {
		Backend  SourceBackend `envconfig:"SOURCE_BACKEND" default:"drive"`
		FolderID string        `envconfig:"SOURCE_FOLDER_ID"`
	}

	Google struct {
		// Service account key, either inline JSON or a path to the key file.
		Credentials     string `envconfig:"GOOGLE_CREDENTIALS_JSON"`
		CredentialsFile string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
	}

	Reasoning struct {
		APIKey  string        `envconfig:"GEMINI_API_KEY"`
		Model   string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
		Timeout time.Duration `envconfig:"REASONING_TIMEOUT" default:"90s"`
		Retries uint64        `envconfig:"REASONING_RETRIES" default:"1"`
	}

	Sync struct {
		Workers      int           `envconfig:"SYNC_WORKERS" default:"1"`
		FetchTimeout time.Duration `envconfig:"SYNC_FETCH_TIMEOUT" default:"60s"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"console"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) HasGoogleCredentials() bool {
	return c.Google.Credentials != "" || c.Google.CredentialsFile != ""
}

// RequireSync checks everything a document sync needs before any external
// call is made.
func (c *Config) RequireSync() error {
	if strings.TrimSpace(c.Source.FolderID) == "" {
		return apperr.Configuration("SOURCE_FOLDER_ID is not set")
	}

	switch c.Source.Backend {
	case SourceDrive, SourceGCS:
	default:
		return apperr.Configuration("SOURCE_BACKEND %q is not one of drive, gcs", c.Source.Backend)
	}

	if !c.HasGoogleCredentials() {
		return apperr.Configuration("GOOGLE_CREDENTIALS_JSON or GOOGLE_APPLICATION_CREDENTIALS must be set")
	}

	return c.RequireReasoning()
}

func (c *Config) RequireReasoning() error {
	if strings.TrimSpace(c.Reasoning.APIKey) == "" {
		return apperr.Configuration("GEMINI_API_KEY is not set")
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
