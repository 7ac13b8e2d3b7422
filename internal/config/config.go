package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xxxsen/common/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultUploadMaxBytes = 20 * 1024 * 1024
	defaultReadLimit      = 64 * 1024
	defaultPingInterval   = 30
	defaultCacheSize      = 256
	defaultCacheTTL       = 300
	defaultCheckpointSpec = "*/15 * * * *"

	// JobDisabled as a job spec turns that job off.
	JobDisabled = "-"
)

type Config struct {
	Port           int              `json:"port"`
	Database       DatabaseConfig   `json:"database"`
	LogConfig      logger.LogConfig `json:"log_config"`
	CORSAllowlist  []string         `json:"cors_allowlist"`
	FileStore      FileStoreConfig  `json:"file_store"`
	UploadMaxBytes int64            `json:"upload_max_bytes"`
	Realtime       RealtimeConfig   `json:"realtime"`
	ProjectCache   CacheConfig      `json:"project_cache"`
	Jobs           JobsConfig       `json:"jobs"`
}

type DatabaseConfig struct {
	Driver   string `json:"driver"`
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type RealtimeConfig struct {
	ReadLimit       int64    `json:"read_limit"`
	PingIntervalSec int      `json:"ping_interval_sec"`
	AllowedOrigins  []string `json:"allowed_origins"`
}

type CacheConfig struct {
	Size   int `json:"size"`
	TTLSec int `json:"ttl_sec"`
}

type JobsConfig struct {
	WALCheckpoint string `json:"wal_checkpoint"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	if c.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if c.LogConfig.Level == "" {
		c.LogConfig.Level = "info"
	}
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.DSN == "" {
			c.Database.DSN = "designer.db"
		}
	case DriverPostgres:
		if c.Database.DSN == "" && (c.Database.Host == "" || c.Database.DBName == "") {
			return fmt.Errorf("database.dsn or database.host/dbname are required for postgres")
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres")
	}
	if c.FileStore.Type == "" {
		c.FileStore.Type = "local"
	}
	if c.UploadMaxBytes <= 0 {
		c.UploadMaxBytes = defaultUploadMaxBytes
	}
	if c.Realtime.ReadLimit <= 0 {
		c.Realtime.ReadLimit = defaultReadLimit
	}
	if c.Realtime.PingIntervalSec <= 0 {
		c.Realtime.PingIntervalSec = defaultPingInterval
	}
	if c.ProjectCache.Size == 0 {
		c.ProjectCache.Size = defaultCacheSize
	}
	if c.ProjectCache.TTLSec == 0 {
		c.ProjectCache.TTLSec = defaultCacheTTL
	}
	c.Jobs.WALCheckpoint = strings.TrimSpace(c.Jobs.WALCheckpoint)
	if c.Jobs.WALCheckpoint == "" {
		c.Jobs.WALCheckpoint = defaultCheckpointSpec
	}
	return nil
}
