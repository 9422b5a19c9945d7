package main

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// BookServiceProvider defines the catalog operations exposed to the api layer.
type BookServiceProvider interface {
	Add(ctx context.Context, book Book) (Book, error)
	Update(ctx context.Context, id string, book Book) (Book, error)
	GetOne(ctx context.Context, id string) (Book, error)
	GetAll(ctx context.Context) ([]Book, error)
	Delete(ctx context.Context, id string) error
	SearchByTitle(ctx context.Context, title string) ([]Book, error)
	SearchByAuthor(ctx context.Context, author string) ([]Book, error)
	Search(ctx context.Context, query, category string) ([]Book, error)
	Categories(ctx context.Context) ([]string, error)
	UpdateStock(ctx context.Context, id string, quantity int) error
	ReduceStock(ctx context.Context, id string, quantity int) error
}

type BookService struct {
	logger     *zap.Logger
	config     *Config
	clock      Clocker
	idsHandler UIDHandler
	storage    BookStorage
	queue      Queuer
}

func NewBookService(logger *zap.Logger, config *Config, clock Clocker, ids UIDHandler, storage BookStorage, queue Queuer) BookServiceProvider {
	return &BookService{
		logger:     logger,
		config:     config,
		clock:      clock,
		idsHandler: ids,
		storage:    storage,
		queue:      queue,
	}
}

// Add validates the candidate book, enforces ISBN uniqueness among
// active records, then persists it with a fresh identity.
func (bs *BookService) Add(ctx context.Context, book Book) (Book, error) {
	now := bs.clock.Now().UTC()
	if err := ValidateBook(&book, now); err != nil {
		return book, err
	}

	if _, err := bs.storage.GetByISBN(ctx, book.ISBN); err == nil {
		return book, ErrISBNExists
	} else if !errors.Is(err, ErrBookNotFound) {
		return book, err
	}

	book.ID = bs.idsHandler.Generate(BookIDPrefix)
	book.Status = StatusActive
	book.CreatedAt = now
	book.UpdatedAt = now

	if err := bs.storage.Add(ctx, book); err != nil {
		return book, err
	}

	if err := bs.queue.Push(ctx, CreateQueue, book); err != nil {
		bs.logger.Error("service: failed to push book to queue", zap.String("qid", CreateQueue), zap.Error(err))
	}
	return book, nil
}

// Update validates the candidate book and fails when its ISBN belongs
// to a different active record, then persists the new data.
func (bs *BookService) Update(ctx context.Context, id string, book Book) (Book, error) {
	now := bs.clock.Now().UTC()
	if err := ValidateBook(&book, now); err != nil {
		return book, err
	}

	existing, err := bs.storage.GetByISBN(ctx, book.ISBN)
	if err == nil && existing.ID != id {
		return book, ErrISBNExists
	}
	if err != nil && !errors.Is(err, ErrBookNotFound) {
		return book, err
	}

	book.UpdatedAt = now
	book, err = bs.storage.Update(ctx, id, book)
	if err != nil {
		return book, err
	}

	if err := bs.queue.Push(ctx, UpdateQueue, book); err != nil {
		bs.logger.Error("service: failed to push book to queue", zap.String("qid", UpdateQueue), zap.Error(err))
	}
	return book, nil
}

func (bs *BookService) GetOne(ctx context.Context, id string) (Book, error) {
	return bs.storage.GetOne(ctx, id)
}

func (bs *BookService) GetAll(ctx context.Context) ([]Book, error) {
	return bs.storage.GetAll(ctx)
}

// Delete soft deletes the book record so references from past orders
// stay resolvable.
func (bs *BookService) Delete(ctx context.Context, id string) error {
	if err := bs.storage.Delete(ctx, id); err != nil {
		return err
	}
	if err := bs.queue.Push(ctx, DeleteQueue, Book{ID: id}); err != nil {
		bs.logger.Error("service: failed to push book to queue", zap.String("qid", DeleteQueue), zap.Error(err))
	}
	return nil
}

// SearchByTitle returns the full active list on a blank query,
// otherwise the case-insensitive title substring matches.
func (bs *BookService) SearchByTitle(ctx context.Context, title string) ([]Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return bs.storage.GetAll(ctx)
	}
	return bs.storage.SearchByTitle(ctx, title)
}

// SearchByAuthor returns the full active list on a blank query,
// otherwise the case-insensitive author substring matches.
func (bs *BookService) SearchByAuthor(ctx context.Context, author string) ([]Book, error) {
	author = strings.TrimSpace(author)
	if author == "" {
		return bs.storage.GetAll(ctx)
	}
	return bs.storage.SearchByAuthor(ctx, author)
}

// Search combines title and author matches for the free-text query,
// de-duplicated by book identity, optionally narrowed to an exact
// category.
func (bs *BookService) Search(ctx context.Context, query, category string) ([]Book, error) {
	query = strings.TrimSpace(query)
	category = strings.TrimSpace(category)

	var books []Book
	var err error
	if query == "" {
		books, err = bs.storage.GetAll(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		byTitle, err := bs.storage.SearchByTitle(ctx, query)
		if err != nil {
			return nil, err
		}
		byAuthor, err := bs.storage.SearchByAuthor(ctx, query)
		if err != nil {
			return nil, err
		}

		seen := make(map[string]bool, len(byTitle))
		books = make([]Book, 0, len(byTitle)+len(byAuthor))
		for _, book := range byTitle {
			seen[book.ID] = true
			books = append(books, book)
		}
		for _, book := range byAuthor {
			if !seen[book.ID] {
				seen[book.ID] = true
				books = append(books, book)
			}
		}
	}

	if category == "" {
		return books, nil
	}

	filtered := make([]Book, 0, len(books))
	for _, book := range books {
		if book.Category == category {
			filtered = append(filtered, book)
		}
	}
	return filtered, nil
}

// Categories lists the distinct categories of the active catalog.
func (bs *BookService) Categories(ctx context.Context) ([]string, error) {
	return bs.storage.Categories(ctx)
}

// UpdateStock sets the stock level of a book to an absolute quantity.
func (bs *BookService) UpdateStock(ctx context.Context, id string, quantity int) error {
	if quantity < 0 {
		return validationError("stock quantity cannot be negative")
	}
	return bs.storage.UpdateStock(ctx, id, quantity)
}

// ReduceStock withdraws the requested quantity from the book stock.
// The stock is left untouched when the book is missing, the quantity
// is not positive or the stock cannot cover it.
func (bs *BookService) ReduceStock(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return validationError("quantity must be positive")
	}

	book, err := bs.storage.GetOne(ctx, id)
	if err != nil {
		return err
	}

	if book.StockQuantity < quantity {
		return ErrInsufficientStock
	}

	return bs.storage.UpdateStock(ctx, id, book.StockQuantity-quantity)
}
