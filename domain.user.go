package main

import (
	"context"
	"time"
)

// Role defines the access level granted to a store user.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// User represents a registered user of the store. The Password field
// only carries the plaintext submitted at registration or profile
// update time. It is never persisted: the storage layer only sees the
// salted argon2 hash.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username" binding:"required"`
	Password     string       `json:"password,omitempty"`
	PasswordHash string       `json:"-"`
	PasswordSalt string       `json:"-"`
	Email        string       `json:"email" binding:"required"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Role         Role         `json:"role"`
	Status       RecordStatus `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// FullName provides the display name of the user.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsAdmin tells if the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserStorage defines possible operations on user records.
// Every reading method considers active records only.
type UserStorage interface {
	Add(ctx context.Context, user User) error
	GetOne(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id string, user User) (User, error)
	Delete(ctx context.Context, id string) error
}
