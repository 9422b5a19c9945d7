package main

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RecordStatus marks a record as visible or soft deleted. Deleted
// records are kept in storage so historical references stay valid,
// but every active-only query excludes them.
type RecordStatus string

const (
	StatusActive  RecordStatus = "active"
	StatusDeleted RecordStatus = "deleted"
)

// Book represents a book entity of the store catalog.
type Book struct {
	ID              string          `json:"id"`
	Title           string          `json:"title" binding:"required"`
	Author          string          `json:"author" binding:"required"`
	ISBN            string          `json:"isbn" binding:"required"`
	Category        string          `json:"category"`
	Price           decimal.Decimal `json:"price" binding:"required"`
	StockQuantity   int             `json:"stockQuantity"`
	Description     string          `json:"description"`
	PublicationDate *time.Time      `json:"publicationDate,omitempty"`
	Publisher       string          `json:"publisher"`
	Status          RecordStatus    `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// IsInStock tells if at least one copy is available.
func (b *Book) IsInStock() bool {
	return b.StockQuantity > 0
}

// BookStorage defines possible operations on book records.
// Every reading method considers active records only.
type BookStorage interface {
	Add(ctx context.Context, book Book) error
	GetOne(ctx context.Context, id string) (Book, error)
	GetByISBN(ctx context.Context, isbn string) (Book, error)
	GetAll(ctx context.Context) ([]Book, error)
	SearchByTitle(ctx context.Context, title string) ([]Book, error)
	SearchByAuthor(ctx context.Context, author string) ([]Book, error)
	GetByCategory(ctx context.Context, category string) ([]Book, error)
	Categories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, id string, book Book) (Book, error)
	UpdateStock(ctx context.Context, id string, quantity int) error
	Delete(ctx context.Context, id string) error
}
