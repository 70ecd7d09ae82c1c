package models

import (
	"fmt"
	"strings"

	sqlitecloud "github.com/sqlitecloud/sqlitecloud-go"
)

// Database represents the database connection and operations
type Database struct {
	db *sqlitecloud.SQCloud
}

// NewDatabase connects to SQLite Cloud and creates the schema if needed.
func NewDatabase(connStr string) (*Database, error) {
	db, err := sqlitecloud.Connect(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite Cloud at %s: %w", MaskConnectionString(connStr), err)
	}

	database := &Database{db: db}
	if err := database.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return database, nil
}

// MaskConnectionString hides the API key of a SQLite Cloud connection string
// so it can be logged.
func MaskConnectionString(connStr string) string {
	if before, _, found := strings.Cut(connStr, "apikey="); found {
		return before + "apikey=***"
	}
	return connStr
}

func (d *Database) createTables() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS channel_engagement (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			channel_id TEXT NOT NULL,
			engagement_type TEXT NOT NULL CHECK(engagement_type IN ('insights')),
			create_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			update_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			json_response TEXT NOT NULL,
			CONSTRAINT unique_channel_engagement UNIQUE(channel_id, engagement_type)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_channel_engagement_channel_id ON channel_engagement(channel_id)`,
	}

	for _, table := range tables {
		if err := d.db.Execute(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
