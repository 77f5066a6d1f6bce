package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/apex/log"
	_ "github.com/go-sql-driver/mysql"

	"safety-assessment-service/config"
)

// ErrNotFound is returned when a lookup by id yields nothing.
var ErrNotFound = errors.New("record not found")

// Database represents the database connection
type Database struct {
	db *sql.DB
}

// NewDatabase creates a new database connection
func NewDatabase(cfg *config.Config) (*Database, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection with exponential backoff retry
	waitInterval := 1 * time.Second
	for attempt := 0; ; attempt++ {
		err := db.Ping()
		if err == nil {
			break
		}
		if attempt >= 5 {
			db.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		log.WithError(err).Warnf("Database connection failed, retrying in %v", waitInterval)
		time.Sleep(waitInterval)
		waitInterval *= 2
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Database{db: db}, nil
}

// NewWithDB wraps an existing connection. Used by tests to substitute a mock.
func NewWithDB(db *sql.DB) *Database {
	return &Database{db: db}
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// GetDB returns the underlying sql.DB for direct queries
func (d *Database) GetDB() *sql.DB {
	return d.db
}

// CreateTables creates all service tables if they don't exist
func (d *Database) CreateTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS images (
			id CHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			image_url TEXT NOT NULL,
			longitude DOUBLE,
			latitude DOUBLE,
			location_name VARCHAR(255),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_images_user_id (user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS safety_assessments (
			id CHAR(36) NOT NULL PRIMARY KEY,
			image_id CHAR(36) NOT NULL,
			safety_score INT,
			magnitude_survivability VARCHAR(32),
			description TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_safety_assessments_image_id (image_id),
			CONSTRAINT fk_safety_assessments_image FOREIGN KEY (image_id) REFERENCES images(id)
		)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id CHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			message TEXT NOT NULL,
			ai_response TEXT NOT NULL,
			chat_context ENUM('before', 'during', 'after') NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_chat_messages_user_id (user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS emergency_actions (
			id CHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			action_taken TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_emergency_actions_user_id (user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS location_risk_data (
			id CHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			earthquake_risk_level VARCHAR(64) NOT NULL,
			zone_code VARCHAR(64) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_location_risk_data_user_id (user_id)
		)`,
	}

	for _, query := range queries {
		if _, err := d.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	log.Info("Database tables created/verified successfully")
	return nil
}
