package main

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"
)

const userColumns = `id, username, password_hash, password_salt, email, first_name, last_name, role, status, created_at, updated_at`

type postgresUserStorage struct {
	logger *zap.Logger
	db     *sql.DB
}

// NewPostgresUserStorage provides an instance of postgres-based user storage.
func NewPostgresUserStorage(logger *zap.Logger, db *sql.DB) UserStorage {
	return &postgresUserStorage{
		logger: logger,
		db:     db,
	}
}

// Add inserts a new user record. Only the salted hash of the password
// reaches the database.
func (ps *postgresUserStorage) Add(ctx context.Context, user User) error {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := ps.db.ExecContext(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.PasswordSalt, user.Email,
		user.FirstName, user.LastName, user.Role, user.Status, user.CreatedAt, user.UpdatedAt,
	)
	return err
}

// GetOne retrieves an active user record based on its ID.
func (ps *postgresUserStorage) GetOne(ctx context.Context, id string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND status = $2`
	return ps.scanOne(ps.db.QueryRowContext(ctx, query, id, StatusActive))
}

// GetByUsername retrieves an active user record based on its unique username.
func (ps *postgresUserStorage) GetByUsername(ctx context.Context, username string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND status = $2`
	return ps.scanOne(ps.db.QueryRowContext(ctx, query, username, StatusActive))
}

// GetByEmail retrieves an active user record based on its unique email.
func (ps *postgresUserStorage) GetByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND status = $2`
	return ps.scanOne(ps.db.QueryRowContext(ctx, query, email, StatusActive))
}

// GetAll retrieves the list of all active users ordered by username.
func (ps *postgresUserStorage) GetAll(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE status = $1 ORDER BY username`
	rows, err := ps.db.QueryContext(ctx, query, StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var user User
		if err := rows.Scan(
			&user.ID, &user.Username, &user.PasswordHash, &user.PasswordSalt, &user.Email,
			&user.FirstName, &user.LastName, &user.Role, &user.Status, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Update replaces the data of an existing active user record and
// returns the stored row so untouched columns stay visible.
func (ps *postgresUserStorage) Update(ctx context.Context, id string, user User) (User, error) {
	query := `UPDATE users SET username = $1, password_hash = $2, password_salt = $3, email = $4,
		first_name = $5, last_name = $6, role = $7, updated_at = $8
		WHERE id = $9 AND status = $10
		RETURNING ` + userColumns
	return ps.scanOne(ps.db.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.PasswordSalt, user.Email,
		user.FirstName, user.LastName, user.Role, user.UpdatedAt, id, StatusActive,
	))
}

// Delete flips the status of a user record to deleted.
func (ps *postgresUserStorage) Delete(ctx context.Context, id string) error {
	query := `UPDATE users SET status = $1 WHERE id = $2 AND status = $3`
	result, err := ps.db.ExecContext(ctx, query, StatusDeleted, id, StatusActive)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (ps *postgresUserStorage) scanOne(row *sql.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.PasswordSalt, &user.Email,
		&user.FirstName, &user.LastName, &user.Role, &user.Status, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return user, ErrUserNotFound
	}
	return user, err
}
