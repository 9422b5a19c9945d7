package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func validBook() Book {
	return Book{
		Title:         "Nineteen Eighty-Four",
		Author:        "George Orwell",
		ISBN:          "978-0-452-28423-4",
		Category:      "Fiction",
		Price:         decimal.NewFromFloat(10.99),
		StockQuantity: 5,
		Description:   "A dystopian novel.",
	}
}

// TestBookServiceAdd ensures the catalog service validates, checks
// isbn uniqueness and stamps identity before persisting a book.
func TestBookServiceAdd(t *testing.T) {
	var stored Book
	mockRepo := &MockBookStorage{
		AddFunc: func(ctx context.Context, book Book) error {
			stored = book
			return nil
		},
		GetByISBNFunc: func(ctx context.Context, isbn string) (Book, error) {
			return Book{}, ErrBookNotFound
		},
	}
	bs := NewBookService(zap.NewNop(), nil, NewMockClocker(), NewMockUIDHandler("cb8f2136-fae4-4200-85d9-3533c7f8c70d", true), mockRepo, &MockQueuer{})

	t.Run("should pass: valid book", func(t *testing.T) {
		book, err := bs.Add(context.Background(), validBook())
		assert.NoError(t, err)
		assert.Equal(t, "b:cb8f2136-fae4-4200-85d9-3533c7f8c70d", book.ID)
		assert.Equal(t, StatusActive, book.Status)
		assert.Equal(t, NewMockClocker().Now(), book.CreatedAt)
		assert.Equal(t, NewMockClocker().Now(), book.UpdatedAt)
		assert.Equal(t, book, stored)
	})

	t.Run("should fail: invalid isbn lengths", func(t *testing.T) {
		testCases := []struct {
			name string
			isbn string
		}{
			{name: "9 digits", isbn: "123456789"},
			{name: "11 digits", isbn: "12345678901"},
			{name: "12 digits", isbn: "123-456-789-012"},
			{name: "letters", isbn: "12345678X"},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				book := validBook()
				book.ISBN = tc.isbn
				_, err := bs.Add(context.Background(), book)
				assert.EqualError(t, err, "invalid isbn format")
				assert.True(t, IsValidationError(err))
			})
		}
	})

	t.Run("should pass: 10 and 13 digits isbn", func(t *testing.T) {
		for _, isbn := range []string{"0452284236", "978 0 452 28423 4"} {
			book := validBook()
			book.ISBN = isbn
			_, err := bs.Add(context.Background(), book)
			assert.NoError(t, err)
		}
	})

	t.Run("should fail: missing title", func(t *testing.T) {
		book := validBook()
		book.Title = "  "
		_, err := bs.Add(context.Background(), book)
		assert.EqualError(t, err, "title is required")
	})

	t.Run("should fail: future publication date", func(t *testing.T) {
		book := validBook()
		future := NewMockClocker().Now().Add(24 * time.Hour)
		book.PublicationDate = &future
		_, err := bs.Add(context.Background(), book)
		assert.EqualError(t, err, "publication date cannot be in the future")
		assert.True(t, IsValidationError(err))
	})

	t.Run("should pass: publication date at now", func(t *testing.T) {
		book := validBook()
		today := NewMockClocker().Now()
		book.PublicationDate = &today
		_, err := bs.Add(context.Background(), book)
		assert.NoError(t, err)
	})

	t.Run("should fail: non positive price", func(t *testing.T) {
		book := validBook()
		book.Price = decimal.Zero
		_, err := bs.Add(context.Background(), book)
		assert.EqualError(t, err, "price must be greater than 0")
	})

	t.Run("should fail: isbn already used", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			GetByISBNFunc: func(ctx context.Context, isbn string) (Book, error) {
				return Book{ID: "b:other"}, nil
			},
		}
		bs := NewBookService(zap.NewNop(), nil, NewMockClocker(), NewMockUIDHandler("x", true), mockRepo, &MockQueuer{})
		_, err := bs.Add(context.Background(), validBook())
		assert.ErrorIs(t, err, ErrISBNExists)
	})
}

// TestBookServiceUpdate ensures the same isbn stays usable by the
// record being updated but not by another one.
func TestBookServiceUpdate(t *testing.T) {
	id := "b:cb8f2136-fae4-4200-85d9-3533c7f8c70d"
	mockRepo := &MockBookStorage{
		GetByISBNFunc: func(ctx context.Context, isbn string) (Book, error) {
			return Book{ID: id, ISBN: isbn}, nil
		},
		UpdateFunc: func(ctx context.Context, id string, book Book) (Book, error) {
			book.ID = id
			return book, nil
		},
	}
	bs := NewBookService(zap.NewNop(), nil, NewMockClocker(), NewMockUIDHandler("x", true), mockRepo, &MockQueuer{})

	t.Run("should pass: same record owns the isbn", func(t *testing.T) {
		book, err := bs.Update(context.Background(), id, validBook())
		assert.NoError(t, err)
		assert.Equal(t, id, book.ID)
		assert.Equal(t, NewMockClocker().Now(), book.UpdatedAt)
	})

	t.Run("should fail: isbn owned by another record", func(t *testing.T) {
		_, err := bs.Update(context.Background(), "b:another-record", validBook())
		assert.ErrorIs(t, err, ErrISBNExists)
	})
}

// TestBookServiceSearch ensures the free text search merges title and
// author matches without duplicates and applies the category filter.
func TestBookServiceSearch(t *testing.T) {
	animalFarm := Book{ID: "b:1", Title: "Animal Farm", Author: "George Orwell", Category: "Fiction"}
	nineteen := Book{ID: "b:2", Title: "Nineteen Eighty-Four by Orwell", Author: "George Orwell", Category: "Fiction"}
	essays := Book{ID: "b:3", Title: "Essays", Author: "George Orwell", Category: "Non-Fiction"}

	mockRepo := &MockBookStorage{
		SearchByTitleFunc: func(ctx context.Context, title string) ([]Book, error) {
			return []Book{nineteen}, nil
		},
		SearchByAuthorFunc: func(ctx context.Context, author string) ([]Book, error) {
			return []Book{animalFarm, nineteen, essays}, nil
		},
		GetAllFunc: func(ctx context.Context) ([]Book, error) {
			return []Book{animalFarm, nineteen, essays}, nil
		},
	}
	bs := NewBookService(zap.NewNop(), nil, NewMockClocker(), NewMockUIDHandler("x", true), mockRepo, &MockQueuer{})

	t.Run("should merge matches without duplicates", func(t *testing.T) {
		books, err := bs.Search(context.Background(), "Orwell", "")
		assert.NoError(t, err)
		assert.Equal(t, []Book{nineteen, animalFarm, essays}, books)
	})

	t.Run("should narrow matches to the category", func(t *testing.T) {
		books, err := bs.Search(context.Background(), "Orwell", "Non-Fiction")
		assert.NoError(t, err)
		assert.Equal(t, []Book{essays}, books)
	})

	t.Run("should list the whole catalog on blank query", func(t *testing.T) {
		books, err := bs.Search(context.Background(), "  ", "")
		assert.NoError(t, err)
		assert.Len(t, books, 3)
	})
}

// TestBookServiceReduceStock covers the stock withdrawal guards.
func TestBookServiceReduceStock(t *testing.T) {
	var persisted int
	mockRepo := &MockBookStorage{
		GetOneFunc: func(ctx context.Context, id string) (Book, error) {
			if id != "b:known" {
				return Book{}, ErrBookNotFound
			}
			return Book{ID: id, StockQuantity: 5}, nil
		},
		UpdateStockFunc: func(ctx context.Context, id string, quantity int) error {
			persisted = quantity
			return nil
		},
	}
	bs := NewBookService(zap.NewNop(), nil, NewMockClocker(), NewMockUIDHandler("x", true), mockRepo, &MockQueuer{})

	t.Run("should fail: unknown book", func(t *testing.T) {
		err := bs.ReduceStock(context.Background(), "b:unknown", 1)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("should fail: non positive quantity", func(t *testing.T) {
		for _, qty := range []int{0, -3} {
			err := bs.ReduceStock(context.Background(), "b:known", qty)
			assert.EqualError(t, err, "quantity must be positive")
			assert.True(t, IsValidationError(err))
		}
	})

	t.Run("should fail: stock cannot cover the quantity", func(t *testing.T) {
		err := bs.ReduceStock(context.Background(), "b:known", 6)
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})

	t.Run("should pass: stock withdrawal persisted", func(t *testing.T) {
		err := bs.ReduceStock(context.Background(), "b:known", 3)
		assert.NoError(t, err)
		assert.Equal(t, 2, persisted)
	})

	t.Run("should pass: full stock withdrawal", func(t *testing.T) {
		err := bs.ReduceStock(context.Background(), "b:known", 5)
		assert.NoError(t, err)
		assert.Equal(t, 0, persisted)
	})
}

// TestBookServiceUpdateStock ensures the absolute stock level guard.
func TestBookServiceUpdateStock(t *testing.T) {
	mockRepo := &MockBookStorage{
		UpdateStockFunc: func(ctx context.Context, id string, quantity int) error {
			return nil
		},
	}
	bs := NewBookService(zap.NewNop(), nil, NewMockClocker(), NewMockUIDHandler("x", true), mockRepo, &MockQueuer{})

	assert.NoError(t, bs.UpdateStock(context.Background(), "b:known", 0))
	err := bs.UpdateStock(context.Background(), "b:known", -1)
	assert.EqualError(t, err, "stock quantity cannot be negative")
}

// TestBookServiceDelete ensures deletion failures are surfaced and
// queue pushes never block the flow.
func TestBookServiceDelete(t *testing.T) {
	t.Run("should pass: queue failure is not fatal", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			DeleteFunc: func(ctx context.Context, id string) error {
				return nil
			},
		}
		queue := &MockQueuer{
			PushFunc: func(ctx context.Context, qid string, book Book) error {
				return errors.New("queue unreachable")
			},
		}
		bs := NewBookService(zap.NewNop(), nil, NewMockClocker(), NewMockUIDHandler("x", true), mockRepo, queue)
		assert.NoError(t, bs.Delete(context.Background(), "b:known"))
	})

	t.Run("should fail: unknown book", func(t *testing.T) {
		mockRepo := &MockBookStorage{
			DeleteFunc: func(ctx context.Context, id string) error {
				return ErrBookNotFound
			},
		}
		bs := NewBookService(zap.NewNop(), nil, NewMockClocker(), NewMockUIDHandler("x", true), mockRepo, &MockQueuer{})
		assert.ErrorIs(t, bs.Delete(context.Background(), "b:unknown"), ErrBookNotFound)
	})
}
