package main

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"
)

const bookColumns = `id, title, author, isbn, category, price, stock_quantity, description, publication_date, publisher, status, created_at, updated_at`

// likeEscaper neutralizes LIKE wildcards so user supplied search
// patterns only ever match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type postgresBookStorage struct {
	logger *zap.Logger
	db     *sql.DB
}

// NewPostgresBookStorage provides an instance of postgres-based book storage.
func NewPostgresBookStorage(logger *zap.Logger, db *sql.DB) BookStorage {
	return &postgresBookStorage{
		logger: logger,
		db:     db,
	}
}

// Add inserts a new book record.
func (ps *postgresBookStorage) Add(ctx context.Context, book Book) error {
	query := `INSERT INTO books (` + bookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := ps.db.ExecContext(ctx, query,
		book.ID, book.Title, book.Author, book.ISBN, book.Category, book.Price,
		book.StockQuantity, book.Description, book.PublicationDate, book.Publisher,
		book.Status, book.CreatedAt, book.UpdatedAt,
	)
	return err
}

// GetOne retrieves an active book record based on its ID.
func (ps *postgresBookStorage) GetOne(ctx context.Context, id string) (Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1 AND status = $2`
	return ps.scanOne(ps.db.QueryRowContext(ctx, query, id, StatusActive))
}

// GetByISBN retrieves an active book record based on its unique ISBN.
func (ps *postgresBookStorage) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE isbn = $1 AND status = $2`
	return ps.scanOne(ps.db.QueryRowContext(ctx, query, isbn, StatusActive))
}

// GetAll retrieves the list of all active books ordered by title.
func (ps *postgresBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE status = $1 ORDER BY title`
	rows, err := ps.db.QueryContext(ctx, query, StatusActive)
	if err != nil {
		return nil, err
	}
	return ps.scanAll(rows)
}

// SearchByTitle retrieves active books whose title contains the
// pattern, case insensitively, ordered by title.
func (ps *postgresBookStorage) SearchByTitle(ctx context.Context, title string) ([]Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books
		WHERE title ILIKE '%' || $1 || '%' AND status = $2 ORDER BY title`
	rows, err := ps.db.QueryContext(ctx, query, likeEscaper.Replace(title), StatusActive)
	if err != nil {
		return nil, err
	}
	return ps.scanAll(rows)
}

// SearchByAuthor retrieves active books whose author contains the
// pattern, case insensitively, ordered by title.
func (ps *postgresBookStorage) SearchByAuthor(ctx context.Context, author string) ([]Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books
		WHERE author ILIKE '%' || $1 || '%' AND status = $2 ORDER BY title`
	rows, err := ps.db.QueryContext(ctx, query, likeEscaper.Replace(author), StatusActive)
	if err != nil {
		return nil, err
	}
	return ps.scanAll(rows)
}

// GetByCategory retrieves active books matching the exact category.
func (ps *postgresBookStorage) GetByCategory(ctx context.Context, category string) ([]Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE category = $1 AND status = $2 ORDER BY title`
	rows, err := ps.db.QueryContext(ctx, query, category, StatusActive)
	if err != nil {
		return nil, err
	}
	return ps.scanAll(rows)
}

// Categories retrieves the distinct categories of active books.
func (ps *postgresBookStorage) Categories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM books WHERE category <> '' AND status = $1 ORDER BY category`
	rows, err := ps.db.QueryContext(ctx, query, StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Update replaces the data of an existing active book record and
// returns the stored row so untouched columns stay visible.
func (ps *postgresBookStorage) Update(ctx context.Context, id string, book Book) (Book, error) {
	query := `UPDATE books SET title = $1, author = $2, isbn = $3, category = $4, price = $5,
		stock_quantity = $6, description = $7, publication_date = $8, publisher = $9, updated_at = $10
		WHERE id = $11 AND status = $12
		RETURNING ` + bookColumns
	return ps.scanOne(ps.db.QueryRowContext(ctx, query,
		book.Title, book.Author, book.ISBN, book.Category, book.Price,
		book.StockQuantity, book.Description, book.PublicationDate, book.Publisher,
		book.UpdatedAt, id, StatusActive,
	))
}

// UpdateStock sets the stock quantity of an active book record.
func (ps *postgresBookStorage) UpdateStock(ctx context.Context, id string, quantity int) error {
	query := `UPDATE books SET stock_quantity = $1 WHERE id = $2 AND status = $3`
	result, err := ps.db.ExecContext(ctx, query, quantity, id, StatusActive)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrBookNotFound
	}
	return nil
}

// Delete flips the status of a book record to deleted. The row is
// never physically removed.
func (ps *postgresBookStorage) Delete(ctx context.Context, id string) error {
	query := `UPDATE books SET status = $1 WHERE id = $2 AND status = $3`
	result, err := ps.db.ExecContext(ctx, query, StatusDeleted, id, StatusActive)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrBookNotFound
	}
	return nil
}

func (ps *postgresBookStorage) scanOne(row *sql.Row) (Book, error) {
	var book Book
	var publicationDate sql.NullTime
	err := row.Scan(
		&book.ID, &book.Title, &book.Author, &book.ISBN, &book.Category, &book.Price,
		&book.StockQuantity, &book.Description, &publicationDate, &book.Publisher,
		&book.Status, &book.CreatedAt, &book.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return book, ErrBookNotFound
	}
	if err != nil {
		return book, err
	}
	if publicationDate.Valid {
		book.PublicationDate = &publicationDate.Time
	}
	return book, nil
}

func (ps *postgresBookStorage) scanAll(rows *sql.Rows) ([]Book, error) {
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		var book Book
		var publicationDate sql.NullTime
		if err := rows.Scan(
			&book.ID, &book.Title, &book.Author, &book.ISBN, &book.Category, &book.Price,
			&book.StockQuantity, &book.Description, &publicationDate, &book.Publisher,
			&book.Status, &book.CreatedAt, &book.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if publicationDate.Valid {
			book.PublicationDate = &publicationDate.Time
		}
		books = append(books, book)
	}
	return books, rows.Err()
}
