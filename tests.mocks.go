package main

import (
	"context"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookStorage struct {
	AddFunc            func(ctx context.Context, book Book) error
	GetOneFunc         func(ctx context.Context, id string) (Book, error)
	GetByISBNFunc      func(ctx context.Context, isbn string) (Book, error)
	GetAllFunc         func(ctx context.Context) ([]Book, error)
	SearchByTitleFunc  func(ctx context.Context, title string) ([]Book, error)
	SearchByAuthorFunc func(ctx context.Context, author string) ([]Book, error)
	GetByCategoryFunc  func(ctx context.Context, category string) ([]Book, error)
	CategoriesFunc     func(ctx context.Context) ([]string, error)
	UpdateFunc         func(ctx context.Context, id string, book Book) (Book, error)
	UpdateStockFunc    func(ctx context.Context, id string, quantity int) error
	DeleteFunc         func(ctx context.Context, id string) error
}

// Add mocks the behavior of book creation by the repository.
func (m *MockBookStorage) Add(ctx context.Context, book Book) error {
	return m.AddFunc(ctx, book)
}

// GetOne mocks the behavior of retrieving a book by the repository.
func (m *MockBookStorage) GetOne(ctx context.Context, id string) (Book, error) {
	return m.GetOneFunc(ctx, id)
}

// GetByISBN mocks the behavior of retrieving a book by its isbn.
func (m *MockBookStorage) GetByISBN(ctx context.Context, isbn string) (Book, error) {
	return m.GetByISBNFunc(ctx, isbn)
}

// GetAll mocks the behavior of retrieving all books by the repository.
func (m *MockBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	return m.GetAllFunc(ctx)
}

// SearchByTitle mocks the behavior of searching books by title.
func (m *MockBookStorage) SearchByTitle(ctx context.Context, title string) ([]Book, error) {
	return m.SearchByTitleFunc(ctx, title)
}

// SearchByAuthor mocks the behavior of searching books by author.
func (m *MockBookStorage) SearchByAuthor(ctx context.Context, author string) ([]Book, error) {
	return m.SearchByAuthorFunc(ctx, author)
}

// GetByCategory mocks the behavior of filtering books by category.
func (m *MockBookStorage) GetByCategory(ctx context.Context, category string) ([]Book, error) {
	return m.GetByCategoryFunc(ctx, category)
}

// Categories mocks the behavior of listing distinct categories.
func (m *MockBookStorage) Categories(ctx context.Context) ([]string, error) {
	return m.CategoriesFunc(ctx)
}

// Update mocks the behavior of updating a book by the repository.
func (m *MockBookStorage) Update(ctx context.Context, id string, book Book) (Book, error) {
	return m.UpdateFunc(ctx, id, book)
}

// UpdateStock mocks the behavior of updating a book stock level.
func (m *MockBookStorage) UpdateStock(ctx context.Context, id string, quantity int) error {
	return m.UpdateStockFunc(ctx, id, quantity)
}

// Delete mocks the behavior of deleting a book by the repository.
func (m *MockBookStorage) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

type MockUserStorage struct {
	AddFunc           func(ctx context.Context, user User) error
	GetOneFunc        func(ctx context.Context, id string) (User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (User, error)
	GetByEmailFunc    func(ctx context.Context, email string) (User, error)
	GetAllFunc        func(ctx context.Context) ([]User, error)
	UpdateFunc        func(ctx context.Context, id string, user User) (User, error)
	DeleteFunc        func(ctx context.Context, id string) error
}

func (m *MockUserStorage) Add(ctx context.Context, user User) error {
	return m.AddFunc(ctx, user)
}

func (m *MockUserStorage) GetOne(ctx context.Context, id string) (User, error) {
	return m.GetOneFunc(ctx, id)
}

func (m *MockUserStorage) GetByUsername(ctx context.Context, username string) (User, error) {
	return m.GetByUsernameFunc(ctx, username)
}

func (m *MockUserStorage) GetByEmail(ctx context.Context, email string) (User, error) {
	return m.GetByEmailFunc(ctx, email)
}

func (m *MockUserStorage) GetAll(ctx context.Context) ([]User, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockUserStorage) Update(ctx context.Context, id string, user User) (User, error) {
	return m.UpdateFunc(ctx, id, user)
}

func (m *MockUserStorage) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

type MockOrderStorage struct {
	AddFunc          func(ctx context.Context, order Order) error
	GetOneFunc       func(ctx context.Context, id string) (Order, error)
	GetAllByUserFunc func(ctx context.Context, userID string) ([]Order, error)
	UpdateStatusFunc func(ctx context.Context, id string, status OrderStatus) error
}

func (m *MockOrderStorage) Add(ctx context.Context, order Order) error {
	return m.AddFunc(ctx, order)
}

func (m *MockOrderStorage) GetOne(ctx context.Context, id string) (Order, error) {
	return m.GetOneFunc(ctx, id)
}

func (m *MockOrderStorage) GetAllByUser(ctx context.Context, userID string) ([]Order, error) {
	return m.GetAllByUserFunc(ctx, userID)
}

func (m *MockOrderStorage) UpdateStatus(ctx context.Context, id string, status OrderStatus) error {
	return m.UpdateStatusFunc(ctx, id, status)
}

// MockQueuer implements a fake Queuer.
type MockQueuer struct {
	PushFunc func(ctx context.Context, qid string, book Book) error
	PopFunc  func(ctx context.Context, qids ...string) (string, Book, error)
}

func (m *MockQueuer) Push(ctx context.Context, qid string, book Book) error {
	if m.PushFunc == nil {
		return nil
	}
	return m.PushFunc(ctx, qid, book)
}

func (m *MockQueuer) Pop(ctx context.Context, qids ...string) (string, Book, error) {
	return m.PopFunc(ctx, qids...)
}

// MockBookArchiver implements a fake BookArchiver.
type MockBookArchiver struct {
	PutFunc    func(ctx context.Context, id string, book Book) error
	GetFunc    func(ctx context.Context, id string) (Book, error)
	RemoveFunc func(ctx context.Context, id string) error
	ListFunc   func(ctx context.Context) ([]Book, error)
}

func (m *MockBookArchiver) Put(ctx context.Context, id string, book Book) error {
	return m.PutFunc(ctx, id, book)
}

func (m *MockBookArchiver) Get(ctx context.Context, id string) (Book, error) {
	return m.GetFunc(ctx, id)
}

func (m *MockBookArchiver) Remove(ctx context.Context, id string) error {
	return m.RemoveFunc(ctx, id)
}

func (m *MockBookArchiver) List(ctx context.Context) ([]Book, error) {
	return m.ListFunc(ctx)
}

func (m *MockBookArchiver) Close() error {
	return nil
}

// MockPasswordHasher implements a fake PasswordHasher. With no functions
// configured it hashes to a marked copy of the password and verifies by
// comparing against that mark.
type MockPasswordHasher struct {
	HashFunc   func(password string) (string, string, error)
	VerifyFunc func(password, salt, hash string) (bool, error)
}

func (m *MockPasswordHasher) Hash(password string) (string, string, error) {
	if m.HashFunc == nil {
		return "hashed:" + password, "salt", nil
	}
	return m.HashFunc(password)
}

func (m *MockPasswordHasher) Verify(password, salt, hash string) (bool, error) {
	if m.VerifyFunc == nil {
		return hash == "hashed:"+password, nil
	}
	return m.VerifyFunc(password, salt, hash)
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
// equals to `2023-07-02 00:00:00 +0000 UTC` in String format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}
