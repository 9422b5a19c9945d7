package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// GetPostgresClient provides a ready to use postgres database handle.
// The handle carries its own pool and is passed explicitly to each
// repository, there is no process-wide connection singleton.
func GetPostgresClient(config *Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.Postgres.Host,
		config.Postgres.Port,
		config.Postgres.Username,
		config.Postgres.Password,
		config.Postgres.Database,
		config.Postgres.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open the database: %v", err)
	}

	db.SetMaxOpenConns(config.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(config.Postgres.MaxIdleConns)
	db.SetConnMaxIdleTime(config.Postgres.ConnMaxIdleTime)

	// test connection.
	ctx, cancel := context.WithTimeout(context.Background(), config.Postgres.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("test connection failed: %v", err)
	}
	return db, nil
}

// EnsureSchema creates the books, users and orders tables when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS books (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			isbn TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			price NUMERIC(10,2) NOT NULL,
			stock_quantity INTEGER NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			publication_date DATE,
			publisher TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			password_salt TEXT NOT NULL,
			email TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			order_date TIMESTAMPTZ NOT NULL,
			total_amount NUMERIC(10,2) NOT NULL,
			status TEXT NOT NULL,
			shipping_address TEXT NOT NULL,
			payment_method TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_id TEXT NOT NULL REFERENCES orders(id),
			book_id TEXT NOT NULL REFERENCES books(id),
			quantity INTEGER NOT NULL,
			unit_price NUMERIC(10,2) NOT NULL,
			subtotal NUMERIC(10,2) NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to set up schema: %v", err)
		}
	}
	return nil
}
