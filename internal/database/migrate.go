package database

import (
	"context"
	"database/sql"
	"fmt"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		username   VARCHAR(80)  NOT NULL UNIQUE,
		email      VARCHAR(120) NOT NULL UNIQUE,
		password   VARCHAR(120) NOT NULL,
		created_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS movies (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    INTEGER      NOT NULL REFERENCES users(id),
		title      VARCHAR(200) NOT NULL,
		director   VARCHAR(100),
		year       INTEGER,
		rating     REAL,
		poster_url VARCHAR(500),
		created_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_user_id ON movies (user_id)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username   VARCHAR(80)  NOT NULL UNIQUE,
		email      VARCHAR(120) NOT NULL UNIQUE,
		password   VARCHAR(120) NOT NULL,
		created_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS movies (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		title      VARCHAR(200) NOT NULL,
		director   VARCHAR(100),
		year       INT,
		rating     DOUBLE,
		poster_url VARCHAR(500),
		created_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_movies_user_id (user_id),
		CONSTRAINT fk_movies_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the users and movies tables when they do not exist yet.
// Deleting a user does not cascade to movies.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var stmts []string
	switch driver {
	case DriverSQLite:
		stmts = sqliteSchema
	case DriverMySQL:
		stmts = mysqlSchema
	default:
		return fmt.Errorf("unsupported db driver %q", driver)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
