package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func validUser() User {
	return User{
		Username:  "gorwell",
		Password:  "secret-words",
		Email:     "george.orwell@books.io",
		FirstName: "George",
		LastName:  "Orwell",
		Role:      RoleCustomer,
	}
}

func newUserServiceForTest(storage *MockUserStorage) UserServiceProvider {
	return NewUserService(zap.NewNop(), nil, NewMockClocker(), NewMockUIDHandler("9a1a3cbe-0077-4b21-a51d-68a2f096e260", true), &MockPasswordHasher{}, storage)
}

// TestUserServiceRegister ensures accounts are validated, unique and
// stored with a salted hash instead of the plaintext password.
func TestUserServiceRegister(t *testing.T) {
	var stored User
	mockRepo := &MockUserStorage{
		AddFunc: func(ctx context.Context, user User) error {
			stored = user
			return nil
		},
		GetByUsernameFunc: func(ctx context.Context, username string) (User, error) {
			return User{}, ErrUserNotFound
		},
		GetByEmailFunc: func(ctx context.Context, email string) (User, error) {
			return User{}, ErrUserNotFound
		},
	}
	us := newUserServiceForTest(mockRepo)

	t.Run("should pass: valid user", func(t *testing.T) {
		user, err := us.Register(context.Background(), validUser())
		assert.NoError(t, err)
		assert.Equal(t, "u:9a1a3cbe-0077-4b21-a51d-68a2f096e260", user.ID)
		assert.Equal(t, StatusActive, user.Status)
		assert.Empty(t, user.Password)
		assert.Equal(t, "hashed:secret-words", user.PasswordHash)
		assert.NotEmpty(t, user.PasswordSalt)
		assert.Empty(t, stored.Password)
	})

	t.Run("should fail: invalid fields", func(t *testing.T) {
		testCases := []struct {
			name     string
			mutate   func(u *User)
			expected string
		}{
			{name: "short username", mutate: func(u *User) { u.Username = "ab" }, expected: "username must be at least 3 characters long"},
			{name: "short password", mutate: func(u *User) { u.Password = "12345" }, expected: "password must be at least 6 characters long"},
			{name: "missing email", mutate: func(u *User) { u.Email = " " }, expected: "email is required"},
			{name: "bad email", mutate: func(u *User) { u.Email = "not-an-email" }, expected: "invalid email format"},
			{name: "missing first name", mutate: func(u *User) { u.FirstName = "" }, expected: "first name is required"},
			{name: "unknown role", mutate: func(u *User) { u.Role = "MANAGER" }, expected: "role must be ADMIN or CUSTOMER"},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				user := validUser()
				tc.mutate(&user)
				_, err := us.Register(context.Background(), user)
				assert.EqualError(t, err, tc.expected)
				assert.True(t, IsValidationError(err))
			})
		}
	})

	t.Run("should fail: username already taken", func(t *testing.T) {
		mockRepo := &MockUserStorage{
			GetByUsernameFunc: func(ctx context.Context, username string) (User, error) {
				return User{ID: "u:other"}, nil
			},
		}
		us := newUserServiceForTest(mockRepo)
		_, err := us.Register(context.Background(), validUser())
		assert.ErrorIs(t, err, ErrUsernameExists)
	})

	t.Run("should fail: email already taken", func(t *testing.T) {
		mockRepo := &MockUserStorage{
			GetByUsernameFunc: func(ctx context.Context, username string) (User, error) {
				return User{}, ErrUserNotFound
			},
			GetByEmailFunc: func(ctx context.Context, email string) (User, error) {
				return User{ID: "u:other"}, nil
			},
		}
		us := newUserServiceForTest(mockRepo)
		_, err := us.Register(context.Background(), validUser())
		assert.ErrorIs(t, err, ErrEmailExists)
	})
}

// TestUserServiceLogin covers credentials verification including the
// indistinguishable unknown-account and wrong-password paths.
func TestUserServiceLogin(t *testing.T) {
	mockRepo := &MockUserStorage{
		GetByUsernameFunc: func(ctx context.Context, username string) (User, error) {
			if username != "gorwell" {
				return User{}, ErrUserNotFound
			}
			return User{
				ID:           "u:9a1a3cbe-0077-4b21-a51d-68a2f096e260",
				Username:     "gorwell",
				PasswordHash: "hashed:secret-words",
				PasswordSalt: "salt",
			}, nil
		},
	}
	us := newUserServiceForTest(mockRepo)

	t.Run("should pass: valid credentials", func(t *testing.T) {
		user, err := us.Login(context.Background(), "gorwell", "secret-words")
		assert.NoError(t, err)
		assert.Equal(t, "u:9a1a3cbe-0077-4b21-a51d-68a2f096e260", user.ID)
	})

	t.Run("should fail: unknown account", func(t *testing.T) {
		_, err := us.Login(context.Background(), "nobody", "secret-words")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("should fail: wrong password", func(t *testing.T) {
		_, err := us.Login(context.Background(), "gorwell", "wrong-words")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("should fail: blank credentials", func(t *testing.T) {
		_, err := us.Login(context.Background(), " ", "secret-words")
		assert.EqualError(t, err, "username is required")

		_, err = us.Login(context.Background(), "gorwell", "  ")
		assert.EqualError(t, err, "password is required")
	})
}

// TestUserServiceUpdateProfile ensures uniqueness checks skip the
// record being updated and the stored hash only changes when a new
// password comes along.
func TestUserServiceUpdateProfile(t *testing.T) {
	id := "u:9a1a3cbe-0077-4b21-a51d-68a2f096e260"
	var updated User
	mockRepo := &MockUserStorage{
		GetOneFunc: func(ctx context.Context, id string) (User, error) {
			return User{ID: id, PasswordHash: "hashed:former-words", PasswordSalt: "former-salt"}, nil
		},
		GetByUsernameFunc: func(ctx context.Context, username string) (User, error) {
			return User{ID: id, Username: username}, nil
		},
		GetByEmailFunc: func(ctx context.Context, email string) (User, error) {
			return User{ID: id, Email: email}, nil
		},
		UpdateFunc: func(ctx context.Context, id string, user User) (User, error) {
			user.ID = id
			updated = user
			return user, nil
		},
	}
	us := newUserServiceForTest(mockRepo)

	t.Run("should pass: same account keeps its username and email", func(t *testing.T) {
		user, err := us.UpdateProfile(context.Background(), id, validUser())
		assert.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Empty(t, user.Password)
		assert.Equal(t, "hashed:secret-words", user.PasswordHash)
		assert.Equal(t, NewMockClocker().Now(), user.UpdatedAt)
	})

	t.Run("should pass: blank password keeps the stored hash", func(t *testing.T) {
		user := validUser()
		user.Password = ""
		got, err := us.UpdateProfile(context.Background(), id, user)
		assert.NoError(t, err)
		assert.Equal(t, "hashed:former-words", got.PasswordHash)
		assert.Equal(t, "former-salt", got.PasswordSalt)
		assert.Equal(t, "hashed:former-words", updated.PasswordHash)
		assert.Equal(t, "former-salt", updated.PasswordSalt)
	})

	t.Run("should fail: provided password still checked", func(t *testing.T) {
		user := validUser()
		user.Password = "12345"
		_, err := us.UpdateProfile(context.Background(), id, user)
		assert.EqualError(t, err, "password must be at least 6 characters long")
	})

	t.Run("should fail: username owned by another account", func(t *testing.T) {
		_, err := us.UpdateProfile(context.Background(), "u:another-account", validUser())
		assert.ErrorIs(t, err, ErrUsernameExists)
	})
}

// TestArgon2Hasher ensures hashing round trips and rejects a wrong password.
func TestArgon2Hasher(t *testing.T) {
	hasher := NewArgon2Hasher()
	hash, salt, err := hasher.Hash("secret-words")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEmpty(t, salt)

	ok, err := hasher.Verify("secret-words", salt, hash)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("wrong-words", salt, hash)
	assert.NoError(t, err)
	assert.False(t, ok)

	// two hashes of the same password differ through their salts.
	hash2, salt2, err := hasher.Hash("secret-words")
	assert.NoError(t, err)
	assert.NotEqual(t, salt, salt2)
	assert.NotEqual(t, hash, hash2)
}
