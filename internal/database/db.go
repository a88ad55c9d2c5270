package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// schema contains the full DDL for the booking database. Statements
// are idempotent so the service can bootstrap a fresh database on
// first start without a separate migration step.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS restaurants (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		timezone VARCHAR(64) NOT NULL DEFAULT 'UTC',
		accepts_reservations TINYINT(1) NOT NULL DEFAULT 1,
		combinable_tables TINYINT(1) NOT NULL DEFAULT 0,
		deposit_per_person_cents INT UNSIGNED NOT NULL DEFAULT 0,
		peak_start VARCHAR(5) NULL,
		peak_end VARCHAR(5) NULL,
		peak_buffer INT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS dining_tables (
		id VARCHAR(36) PRIMARY KEY,
		restaurant_id VARCHAR(36) NOT NULL,
		table_number VARCHAR(64) NOT NULL,
		capacity INT NOT NULL,
		INDEX idx_tables_restaurant (restaurant_id)
	)`,
	`CREATE TABLE IF NOT EXISTS weekly_hours (
		restaurant_id VARCHAR(36) NOT NULL,
		day_of_week TINYINT NOT NULL,
		open_time VARCHAR(5) NOT NULL,
		close_time VARCHAR(5) NOT NULL,
		PRIMARY KEY (restaurant_id, day_of_week, open_time)
	)`,
	`CREATE TABLE IF NOT EXISTS hours_overrides (
		restaurant_id VARCHAR(36) NOT NULL,
		override_date VARCHAR(10) NOT NULL,
		is_closed TINYINT(1) NOT NULL DEFAULT 0,
		open_time VARCHAR(5) NOT NULL DEFAULT '',
		close_time VARCHAR(5) NOT NULL DEFAULT '',
		PRIMARY KEY (restaurant_id, override_date, open_time)
	)`,
	`CREATE TABLE IF NOT EXISTS capacity_slots (
		restaurant_id VARCHAR(36) NOT NULL,
		slot_date VARCHAR(10) NOT NULL,
		slot_time VARCHAR(5) NOT NULL,
		table_id VARCHAR(36) NOT NULL,
		total_capacity INT NOT NULL,
		reserved_capacity INT NOT NULL DEFAULT 0,
		frozen TINYINT(1) NOT NULL DEFAULT 0,
		PRIMARY KEY (restaurant_id, slot_date, slot_time, table_id)
	)`,
	`CREATE TABLE IF NOT EXISTS holds (
		id VARCHAR(36) PRIMARY KEY,
		user_id VARCHAR(36) NOT NULL,
		restaurant_id VARCHAR(36) NOT NULL,
		slot_date VARCHAR(10) NOT NULL,
		slot_time VARCHAR(5) NOT NULL,
		party_size INT NOT NULL,
		status VARCHAR(16) NOT NULL,
		deposit_amount_cents INT UNSIGNED NOT NULL DEFAULT 0,
		waitlist_id VARCHAR(36) NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL,
		INDEX idx_holds_user_status (user_id, status),
		INDEX idx_holds_status_expiry (status, expires_at)
	)`,
	`CREATE TABLE IF NOT EXISTS hold_tables (
		hold_id VARCHAR(36) NOT NULL,
		table_id VARCHAR(36) NOT NULL,
		seats INT NOT NULL,
		PRIMARY KEY (hold_id, table_id)
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id VARCHAR(36) PRIMARY KEY,
		hold_id VARCHAR(36) NOT NULL,
		user_id VARCHAR(36) NOT NULL,
		restaurant_id VARCHAR(36) NOT NULL,
		slot_date VARCHAR(10) NOT NULL,
		slot_time VARCHAR(5) NOT NULL,
		party_size INT NOT NULL,
		status VARCHAR(16) NOT NULL,
		deposit_amount_cents INT UNSIGNED NOT NULL DEFAULT 0,
		confirmation_code VARCHAR(12) NOT NULL,
		created_at DATETIME NOT NULL,
		INDEX idx_reservations_user (user_id, created_at)
	)`,
	`CREATE TABLE IF NOT EXISTS reservation_tables (
		reservation_id VARCHAR(36) NOT NULL,
		table_id VARCHAR(36) NOT NULL,
		seats INT NOT NULL,
		PRIMARY KEY (reservation_id, table_id)
	)`,
	`CREATE TABLE IF NOT EXISTS waitlist_entries (
		id VARCHAR(36) PRIMARY KEY,
		user_id VARCHAR(36) NOT NULL,
		restaurant_id VARCHAR(36) NOT NULL,
		requested_date VARCHAR(10) NOT NULL,
		requested_time VARCHAR(5) NOT NULL DEFAULT '',
		party_size INT NOT NULL,
		status VARCHAR(16) NOT NULL,
		created_at DATETIME NOT NULL,
		INDEX idx_waitlist_restaurant (restaurant_id, requested_date, status, created_at)
	)`,
}

// EnsureSchema creates all tables if they do not already exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
