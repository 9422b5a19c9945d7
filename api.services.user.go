package main

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// UserServiceProvider defines the account operations exposed to the api layer.
type UserServiceProvider interface {
	Register(ctx context.Context, user User) (User, error)
	Login(ctx context.Context, username, password string) (User, error)
	UpdateProfile(ctx context.Context, id string, user User) (User, error)
	GetOne(ctx context.Context, id string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id string) error
}

type UserService struct {
	logger     *zap.Logger
	config     *Config
	clock      Clocker
	idsHandler UIDHandler
	hasher     PasswordHasher
	storage    UserStorage
}

func NewUserService(logger *zap.Logger, config *Config, clock Clocker, ids UIDHandler, hasher PasswordHasher, storage UserStorage) UserServiceProvider {
	return &UserService{
		logger:     logger,
		config:     config,
		clock:      clock,
		idsHandler: ids,
		hasher:     hasher,
		storage:    storage,
	}
}

// Register validates the candidate user, enforces username and email
// uniqueness among active records, hashes the password and persists
// the new account. The plaintext never leaves this method.
func (us *UserService) Register(ctx context.Context, user User) (User, error) {
	if err := ValidateUser(&user); err != nil {
		return user, err
	}

	if _, err := us.storage.GetByUsername(ctx, user.Username); err == nil {
		return user, ErrUsernameExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return user, err
	}

	if _, err := us.storage.GetByEmail(ctx, user.Email); err == nil {
		return user, ErrEmailExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return user, err
	}

	hash, salt, err := us.hasher.Hash(user.Password)
	if err != nil {
		return user, err
	}
	user.PasswordHash = hash
	user.PasswordSalt = salt
	user.Password = ""

	now := us.clock.Now().UTC()
	user.ID = us.idsHandler.Generate(UserIDPrefix)
	user.Status = StatusActive
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := us.storage.Add(ctx, user); err != nil {
		return user, err
	}
	return user, nil
}

// Login checks the provided credentials against the stored salted
// hash and returns the matching active user. A missing account and a
// wrong password are indistinguishable for the caller.
func (us *UserService) Login(ctx context.Context, username, password string) (User, error) {
	var user User
	username = strings.TrimSpace(username)
	if username == "" {
		return user, missingFieldError("username")
	}
	if strings.TrimSpace(password) == "" {
		return user, missingFieldError("password")
	}

	user, err := us.storage.GetByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}

	ok, err := us.hasher.Verify(password, user.PasswordSalt, user.PasswordHash)
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// UpdateProfile validates the candidate data and fails when the
// username or email belongs to a different active account, then
// persists the profile. A blank password keeps the stored hash, a
// provided one gets rehashed.
func (us *UserService) UpdateProfile(ctx context.Context, id string, user User) (User, error) {
	if err := ValidateUserProfile(&user); err != nil {
		return user, err
	}

	existing, err := us.storage.GetByUsername(ctx, user.Username)
	if err == nil && existing.ID != id {
		return user, ErrUsernameExists
	}
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return user, err
	}

	existing, err = us.storage.GetByEmail(ctx, user.Email)
	if err == nil && existing.ID != id {
		return user, ErrEmailExists
	}
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return user, err
	}

	if strings.TrimSpace(user.Password) == "" {
		current, err := us.storage.GetOne(ctx, id)
		if err != nil {
			return user, err
		}
		user.PasswordHash = current.PasswordHash
		user.PasswordSalt = current.PasswordSalt
	} else {
		hash, salt, err := us.hasher.Hash(user.Password)
		if err != nil {
			return user, err
		}
		user.PasswordHash = hash
		user.PasswordSalt = salt
	}
	user.Password = ""

	user.UpdatedAt = us.clock.Now().UTC()
	return us.storage.Update(ctx, id, user)
}

func (us *UserService) GetOne(ctx context.Context, id string) (User, error) {
	return us.storage.GetOne(ctx, id)
}

func (us *UserService) GetAll(ctx context.Context) ([]User, error) {
	return us.storage.GetAll(ctx)
}

// Delete soft deletes the user account.
func (us *UserService) Delete(ctx context.Context, id string) error {
	return us.storage.Delete(ctx, id)
}
