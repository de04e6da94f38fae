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

// EnsureSchema creates the auth tables when they do not exist yet.  The
// composite unique index on (user_id, ip, fingerprint(191), user_agent(191))
// backs the one-live-session-per-device-context rule: a concurrent duplicate
// insert fails with a duplicate-key error instead of silently producing a
// second row.  Prefix lengths keep the index under MySQL's key size limit.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(255) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			first_name VARCHAR(255) NOT NULL,
			last_name VARCHAR(255) NOT NULL,
			display_name VARCHAR(255) NOT NULL,
			bio TEXT NULL,
			vk_url VARCHAR(255) NULL,
			steam_url VARCHAR(255) NULL,
			role VARCHAR(16) NOT NULL DEFAULT 'USER',
			status VARCHAR(16) NOT NULL DEFAULT 'ACTIVE',
			is_activated TINYINT(1) NOT NULL DEFAULT 0,
			registered_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_users_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS refresh_sessions (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			refresh_token CHAR(36) NOT NULL,
			user_id BIGINT UNSIGNED NOT NULL,
			ip VARCHAR(64) NOT NULL,
			user_agent VARCHAR(512) NOT NULL,
			fingerprint VARCHAR(255) NOT NULL,
			created_at DATETIME NOT NULL,
			expired_at DATETIME NOT NULL,
			UNIQUE KEY uq_refresh_sessions_token (refresh_token),
			UNIQUE KEY uq_refresh_sessions_device (user_id, ip, fingerprint(191), user_agent(191)),
			CONSTRAINT fk_refresh_sessions_user FOREIGN KEY (user_id) REFERENCES users(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
