package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Ghost    GhostConfig
	Matrix   MatrixConfig
	Snapshot SnapshotConfig
	MongoDB  MongoDBConfig
	Sheets   SheetsConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// GhostConfig contains connection and credential options for the upstream
// Ghost API. Either a static Token or an Email/Password pair must be set.
type GhostConfig struct {
	BaseURL  string
	Token    string
	Email    string
	Password string
	Timeout  time.Duration
}

// MatrixConfig holds grid behavior settings.
type MatrixConfig struct {
	FiscalYearStart string // YYYY-MM-DD, normalized to first of month
	SessionTTL      time.Duration
	MastersTTL      time.Duration
}

// JobRef names one (project, job) pair for scheduled snapshots.
type JobRef struct {
	ProjectID string
	JobID     string
}

// SnapshotConfig holds scheduled snapshot-export settings.
type SnapshotConfig struct {
	Enabled      bool
	CronSchedule string
	SheetRange   string
	Jobs         []JobRef
}

// MongoDBConfig holds settings for the save-audit store.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from
		// the environment directly.
		_ = godotenv.Load()
	}

	jobs, err := parseJobRefs(os.Getenv("SNAPSHOT_JOBS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Ghost: GhostConfig{
			BaseURL:  os.Getenv("GHOST_BASE_URL"),
			Token:    os.Getenv("GHOST_TOKEN"),
			Email:    os.Getenv("GHOST_EMAIL"),
			Password: os.Getenv("GHOST_PASSWORD"),
			Timeout:  time.Duration(getenvInt("GHOST_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Matrix: MatrixConfig{
			FiscalYearStart: getenvWithDefault("FISCAL_YEAR_START", "2026-04-01"),
			SessionTTL:      time.Duration(getenvInt("EDIT_SESSION_TTL_MINUTES", 30)) * time.Minute,
			MastersTTL:      time.Duration(getenvInt("MASTERS_CACHE_TTL_MINUTES", 10)) * time.Minute,
		},
		Snapshot: SnapshotConfig{
			Enabled:      getenvBool("SNAPSHOT_ENABLED", false),
			CronSchedule: getenvWithDefault("SNAPSHOT_CRON_SCHEDULE", "0 6 * * *"),
			SheetRange:   getenvWithDefault("SNAPSHOT_SHEET_RANGE", "Matrix!A:Z"),
			Jobs:         jobs,
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "matrix"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_SNAPSHOT_ID"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Ghost.BaseURL == "" {
		return errors.New("GHOST_BASE_URL must be provided")
	}
	if c.Ghost.Token == "" && (c.Ghost.Email == "" || c.Ghost.Password == "") {
		return errors.New("either GHOST_TOKEN or GHOST_EMAIL and GHOST_PASSWORD must be provided")
	}
	if c.Ghost.Timeout <= 0 {
		return errors.New("GHOST_TIMEOUT_SECONDS must be positive")
	}

	if _, err := time.Parse("2006-01-02", c.Matrix.FiscalYearStart); err != nil {
		return fmt.Errorf("FISCAL_YEAR_START must be YYYY-MM-DD: %w", err)
	}

	if c.Snapshot.Enabled {
		if c.Snapshot.CronSchedule == "" {
			return errors.New("SNAPSHOT_CRON_SCHEDULE must be provided when snapshots are enabled")
		}
		if len(c.Snapshot.Jobs) == 0 {
			return errors.New("SNAPSHOT_JOBS must name at least one project:job pair when snapshots are enabled")
		}
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when snapshots are enabled")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_SNAPSHOT_ID must be provided when snapshots are enabled")
		}
	}

	return nil
}

// parseJobRefs parses "projectID:jobID,projectID:jobID" pairs.
func parseJobRefs(raw string) ([]JobRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var refs []JobRef
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("SNAPSHOT_JOBS entry %q must look like projectID:jobID", pair)
		}
		refs = append(refs, JobRef{ProjectID: parts[0], JobID: parts[1]})
	}
	return refs, nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}
