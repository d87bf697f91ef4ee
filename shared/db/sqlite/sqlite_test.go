package sqlite

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewSQLiteConfig(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		envValue string
		want     string
	}{
		{
			name: "explicit path",
			path: "/tmp/explicit.db",
			want: "/tmp/explicit.db",
		},
		{
			name:     "env variable",
			envValue: "/tmp/env.db",
			want:     "/tmp/env.db",
		},
		{
			name: "default path",
			want: "./picshare.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv("PICSHARE_METADATA_DB", tt.envValue)
				defer os.Unsetenv("PICSHARE_METADATA_DB")
			} else {
				os.Unsetenv("PICSHARE_METADATA_DB")
			}

			cfg := NewSQLiteConfig(tt.path)

			if cfg.Path != tt.want {
				t.Errorf("Path = %v, want %v", cfg.Path, tt.want)
			}
		})
	}
}

func TestSQLiteDB_Connect(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	database := NewSQLiteDB(&SQLiteConfig{Path: dbPath})

	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer database.Close()

	if database.DB() == nil {
		t.Error("DB() returned nil after Connect")
	}

	// Connecting twice is an error
	if err := database.Connect(); err == nil {
		t.Error("second Connect() should fail")
	}
}

func TestSQLiteDB_Close(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	database := NewSQLiteDB(&SQLiteConfig{Path: dbPath})
	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if err := database.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	// Closing an unconnected database is a no-op
	if err := database.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
