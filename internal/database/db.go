package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.  The database
// only backs the draft handoff store, so the pool is kept small.
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

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the booking_drafts table when it does not exist
// yet.  The service owns this one table; everything else it touches
// lives behind external APIs.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const ddl = `CREATE TABLE IF NOT EXISTS booking_drafts (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		token         CHAR(64) NOT NULL,
		status        VARCHAR(16) NOT NULL,
		showtime_id   BIGINT UNSIGNED NOT NULL,
		payload       JSON NOT NULL,
		booking_ref   VARCHAR(64) NOT NULL DEFAULT '',
		ttl_remaining INT NOT NULL DEFAULT 0,
		captured_at   DATETIME NOT NULL,
		expires_at    DATETIME NOT NULL,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_booking_drafts_token (token),
		KEY idx_booking_drafts_expires (expires_at)
	)`
	_, err := db.ExecContext(ctx, ddl)
	return err
}
