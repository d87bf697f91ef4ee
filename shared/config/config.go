package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	DefaultListenAddr   = ":8080"
	DefaultMetadataDB   = "./picshare.db"
	DefaultAuditLogPath = "./picshare-audit"
	DefaultBlobEndpoint = "localhost:9000"
	DefaultBlobBucket   = "images"

	// Local MinIO ships with these credentials; anything real overrides
	// them through the environment.
	defaultBlobAccessKey = "minioadmin"
	defaultBlobSecretKey = "minioadmin"

	configPathEnvKey = "PICSHARE_CONFIG"
)

// ServerConfig defines the listen address of the HTTP surface.
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// MetadataConfig locates the image metadata document database.
type MetadataConfig struct {
	DBPath string `toml:"db_path"`
}

// BlobConfig carries the blob service connection settings. Credentials are
// normally supplied through the environment, not the config file.
type BlobConfig struct {
	Endpoint      string `toml:"endpoint"`
	AccessKey     string `toml:"access_key"`
	SecretKey     string `toml:"secret_key"`
	UseSSL        bool   `toml:"use_ssl"`
	Bucket        string `toml:"bucket"`
	PublicBaseURL string `toml:"public_base_url"`
}

// AuditLogConfig locates the view-audit table.
type AuditLogConfig struct {
	Path string `toml:"path"`
}

// Config defines runtime configuration for picshare.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Metadata MetadataConfig `toml:"metadata"`
	Blobs    BlobConfig     `toml:"blobs"`
	AuditLog AuditLogConfig `toml:"audit_log"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		Server:   ServerConfig{ListenAddr: DefaultListenAddr},
		Metadata: MetadataConfig{DBPath: DefaultMetadataDB},
		Blobs: BlobConfig{
			Endpoint:  DefaultBlobEndpoint,
			AccessKey: defaultBlobAccessKey,
			SecretKey: defaultBlobSecretKey,
			Bucket:    DefaultBlobBucket,
		},
		AuditLog: AuditLogConfig{Path: DefaultAuditLogPath},
	}
}

// Load builds the effective configuration: defaults, then the TOML file at
// path (or $PICSHARE_CONFIG) when one exists, then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnvKey)
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Server.ListenAddr, "PICSHARE_LISTEN_ADDR")
	overrideString(&cfg.Metadata.DBPath, "PICSHARE_METADATA_DB")
	overrideString(&cfg.Blobs.Endpoint, "PICSHARE_BLOB_ENDPOINT")
	overrideString(&cfg.Blobs.AccessKey, "PICSHARE_BLOB_ACCESS_KEY")
	overrideString(&cfg.Blobs.SecretKey, "PICSHARE_BLOB_SECRET_KEY")
	overrideString(&cfg.Blobs.Bucket, "PICSHARE_BLOB_BUCKET")
	overrideString(&cfg.Blobs.PublicBaseURL, "PICSHARE_BLOB_PUBLIC_URL")
	overrideString(&cfg.AuditLog.Path, "PICSHARE_AUDIT_LOG_PATH")

	if v := os.Getenv("PICSHARE_BLOB_USE_SSL"); v != "" {
		cfg.Blobs.UseSSL = v == "true" || v == "1"
	}
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate fails fast on settings the process cannot start without.
func (c Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server listen address is required")
	}
	if c.Metadata.DBPath == "" {
		return fmt.Errorf("metadata db path is required")
	}
	if c.Blobs.Endpoint == "" {
		return fmt.Errorf("blob endpoint is required")
	}
	if c.Blobs.Bucket == "" {
		return fmt.Errorf("blob bucket is required")
	}
	if c.Blobs.AccessKey == "" || c.Blobs.SecretKey == "" {
		return fmt.Errorf("blob credentials are required")
	}
	if c.AuditLog.Path == "" {
		return fmt.Errorf("audit log path is required")
	}
	return nil
}
