package db

import (
	"database/sql"
)

// Database is the lifecycle handle for the metadata document database. It is
// connected once at process start and the underlying *sql.DB is shared by
// every adapter call for the life of the process.
type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB
}
