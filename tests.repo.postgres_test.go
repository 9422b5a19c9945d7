package main

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startPostgresDockerContainer(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("Failed to start Dockertest: %+v", err)
	}

	err = pool.Client.Ping()
	if err != nil {
		t.Fatalf("Could not connect to Docker: %+v", err)
	}

	resource, err := pool.Run("postgres", "15.3-alpine", []string{
		"POSTGRES_USER=bookstore",
		"POSTGRES_PASSWORD=bookstore",
		"POSTGRES_DB=bookstore",
	})
	if err != nil {
		t.Fatalf("Failed to start postgres: %+v", err)
	}

	config := &Config{
		Postgres: PostgresConfig{
			Host:           "localhost",
			Port:           resource.GetPort("5432/tcp"),
			Username:       "bookstore",
			Password:       "bookstore",
			Database:       "bookstore",
			SSLMode:        "disable",
			ConnectTimeout: 5 * time.Second,
			MaxOpenConns:   5,
			MaxIdleConns:   2,
		},
	}

	var db *sql.DB
	// ensure to wait for the container to be ready
	err = pool.Retry(func() error {
		var e error
		db, e = GetPostgresClient(config)
		return e
	})
	if err != nil {
		t.Fatalf("Failed to ping Postgres: %+v", err)
	}

	if err = EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("Failed to create schema: %+v", err)
	}

	destroyFunc := func() {
		db.Close()
		if err := pool.Purge(resource); err != nil {
			t.Logf("Failed to purge resource: %+v", err)
		}
	}

	return db, destroyFunc
}

func TestPostgresBookStorage(t *testing.T) {
	db, destroyFunc := startPostgresDockerContainer(t)
	defer destroyFunc()
	ps := NewPostgresBookStorage(zap.NewNop(), db)
	ctx := context.Background()
	now := time.Date(2023, 7, 2, 0, 0, 0, 0, time.UTC)

	animalFarm := Book{
		ID:            "b:0dbef707-a569-4bbd-ab65-d2f2d06668c0",
		Title:         "Animal Farm",
		Author:        "George Orwell",
		ISBN:          "978-0-452-28424-1",
		Category:      "Fiction",
		Price:         decimal.NewFromFloat(8.99),
		StockQuantity: 3,
		Status:        StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	nineteen := Book{
		ID:            "b:cb8f2136-9e24-4744-a21a-6a9b04eda9c8",
		Title:         "Nineteen Eighty-Four",
		Author:        "George Orwell",
		ISBN:          "978-0-452-28423-4",
		Category:      "Fiction",
		Price:         decimal.NewFromFloat(10.99),
		StockQuantity: 5,
		Status:        StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	t.Run("Add Book", func(t *testing.T) {
		require.NoError(t, ps.Add(ctx, animalFarm))
		require.NoError(t, ps.Add(ctx, nineteen))
	})

	t.Run("Get Existent Book", func(t *testing.T) {
		book, err := ps.GetOne(ctx, animalFarm.ID)
		require.NoError(t, err)
		assert.Equal(t, animalFarm.Title, book.Title)
		assert.Equal(t, animalFarm.ISBN, book.ISBN)
		assert.True(t, animalFarm.Price.Equal(book.Price))
		assert.Equal(t, animalFarm.StockQuantity, book.StockQuantity)
	})

	t.Run("Get NonExistent Book", func(t *testing.T) {
		_, err := ps.GetOne(ctx, "b:unknown")
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("Get By ISBN", func(t *testing.T) {
		book, err := ps.GetByISBN(ctx, nineteen.ISBN)
		require.NoError(t, err)
		assert.Equal(t, nineteen.ID, book.ID)
	})

	t.Run("Get All Books", func(t *testing.T) {
		books, err := ps.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, len(books))
		// alphabetical ordering by title.
		assert.Equal(t, animalFarm.ID, books[0].ID)
	})

	t.Run("Search Books By Title", func(t *testing.T) {
		books, err := ps.SearchByTitle(ctx, "nineteen")
		require.NoError(t, err)
		require.Equal(t, 1, len(books))
		assert.Equal(t, nineteen.ID, books[0].ID)
	})

	t.Run("Search Books By Author", func(t *testing.T) {
		books, err := ps.SearchByAuthor(ctx, "orwell")
		require.NoError(t, err)
		assert.Equal(t, 2, len(books))
	})

	t.Run("Get Books By Category", func(t *testing.T) {
		books, err := ps.GetByCategory(ctx, "Fiction")
		require.NoError(t, err)
		assert.Equal(t, 2, len(books))
	})

	t.Run("Get Categories", func(t *testing.T) {
		categories, err := ps.Categories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Fiction"}, categories)
	})

	t.Run("Search Ignores Like Wildcards", func(t *testing.T) {
		books, err := ps.SearchByTitle(ctx, "100%")
		require.NoError(t, err)
		assert.Equal(t, 0, len(books))

		books, err = ps.SearchByTitle(ctx, "_ineteen")
		require.NoError(t, err)
		assert.Equal(t, 0, len(books))
	})

	t.Run("Update Book", func(t *testing.T) {
		updated := animalFarm
		updated.Price = decimal.NewFromFloat(9.49)
		updated.UpdatedAt = now.Add(time.Hour)
		returned, err := ps.Update(ctx, animalFarm.ID, updated)
		require.NoError(t, err)
		// the returned record is the stored row, not the candidate.
		assert.Equal(t, StatusActive, returned.Status)
		assert.True(t, returned.CreatedAt.Equal(now))
		book, err := ps.GetOne(ctx, animalFarm.ID)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromFloat(9.49).Equal(book.Price))
	})

	t.Run("Update NonExistent Book", func(t *testing.T) {
		_, err := ps.Update(ctx, "b:unknown", animalFarm)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("Update Stock", func(t *testing.T) {
		require.NoError(t, ps.UpdateStock(ctx, nineteen.ID, 12))
		book, err := ps.GetOne(ctx, nineteen.ID)
		require.NoError(t, err)
		assert.Equal(t, 12, book.StockQuantity)
	})

	t.Run("Delete Book", func(t *testing.T) {
		require.NoError(t, ps.Delete(ctx, animalFarm.ID))
		_, err := ps.GetOne(ctx, animalFarm.ID)
		assert.ErrorIs(t, err, ErrBookNotFound)
		// deleted record no longer blocks its isbn.
		_, err = ps.GetByISBN(ctx, animalFarm.ISBN)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("Delete NonExistent Book", func(t *testing.T) {
		assert.ErrorIs(t, ps.Delete(ctx, "b:unknown"), ErrBookNotFound)
	})
}

func TestPostgresUserAndOrderStorage(t *testing.T) {
	db, destroyFunc := startPostgresDockerContainer(t)
	defer destroyFunc()
	us := NewPostgresUserStorage(zap.NewNop(), db)
	bs := NewPostgresBookStorage(zap.NewNop(), db)
	ors := NewPostgresOrderStorage(zap.NewNop(), db)
	ctx := context.Background()
	now := time.Date(2023, 7, 2, 0, 0, 0, 0, time.UTC)

	user := User{
		ID:           "u:9a1a3cbe-6536-4c74-a384-c4b04bdcfc36",
		Username:     "gorwell",
		PasswordHash: "hashed:secret-words",
		PasswordSalt: "salt",
		Email:        "george.orwell@books.io",
		FirstName:    "George",
		LastName:     "Orwell",
		Role:         RoleCustomer,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	t.Run("Add User", func(t *testing.T) {
		require.NoError(t, us.Add(ctx, user))
	})

	t.Run("Get User By Username And Email", func(t *testing.T) {
		got, err := us.GetByUsername(ctx, user.Username)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.PasswordHash, got.PasswordHash)

		got, err = us.GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("Get NonExistent User", func(t *testing.T) {
		_, err := us.GetOne(ctx, "u:unknown")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("Update User", func(t *testing.T) {
		updated := user
		updated.FirstName = "Eric"
		updated.UpdatedAt = now.Add(time.Hour)
		returned, err := us.Update(ctx, user.ID, updated)
		require.NoError(t, err)
		assert.Equal(t, StatusActive, returned.Status)
		assert.True(t, returned.CreatedAt.Equal(now))
		got, err := us.GetOne(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Eric", got.FirstName)
	})

	book := Book{
		ID:            "b:1f45a3c2-0000-4744-a21a-6a9b04eda9c8",
		Title:         "Essays",
		Author:        "George Orwell",
		ISBN:          "978-0-14-118306-6",
		Category:      "Essays",
		Price:         decimal.NewFromFloat(12.00),
		StockQuantity: 10,
		Status:        StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	order := Order{
		ID:              "o:f3b54eb1-8a62-47e5-b461-a5dbc40b4bae",
		UserID:          user.ID,
		OrderDate:       now,
		TotalAmount:     decimal.NewFromFloat(24.00),
		Status:          OrderPending,
		ShippingAddress: "221B Baker Street",
		PaymentMethod:   "CARD",
		Items: []OrderItem{
			NewOrderItem(book.ID, 2, decimal.NewFromFloat(12.00)),
		},
	}

	t.Run("Add Order", func(t *testing.T) {
		require.NoError(t, bs.Add(ctx, book))
		require.NoError(t, ors.Add(ctx, order))
	})

	t.Run("Get Order With Items", func(t *testing.T) {
		got, err := ors.GetOne(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.UserID, got.UserID)
		assert.Equal(t, OrderPending, got.Status)
		require.Equal(t, 1, len(got.Items))
		assert.Equal(t, book.ID, got.Items[0].BookID)
		assert.Equal(t, 2, got.Items[0].Quantity)
		assert.True(t, decimal.NewFromFloat(24.00).Equal(got.Items[0].Subtotal))
	})

	t.Run("Get NonExistent Order", func(t *testing.T) {
		_, err := ors.GetOne(ctx, "o:unknown")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("Get Orders By User", func(t *testing.T) {
		orders, err := ors.GetAllByUser(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, 1, len(orders))
		assert.Equal(t, order.ID, orders[0].ID)
		assert.Equal(t, 1, len(orders[0].Items))
	})

	t.Run("Update Order Status", func(t *testing.T) {
		require.NoError(t, ors.UpdateStatus(ctx, order.ID, OrderConfirmed))
		got, err := ors.GetOne(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, OrderConfirmed, got.Status)
	})

	t.Run("Update NonExistent Order Status", func(t *testing.T) {
		assert.ErrorIs(t, ors.UpdateStatus(ctx, "o:unknown", OrderShipped), ErrOrderNotFound)
	})

	t.Run("Delete User", func(t *testing.T) {
		require.NoError(t, us.Delete(ctx, user.ID))
		_, err := us.GetOne(ctx, user.ID)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
