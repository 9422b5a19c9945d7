package main

import (
	"regexp"
	"strings"
	"time"
)

// Same permissive email shape the legacy registration form accepted.
var emailRegexp = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

var isbnCleaner = strings.NewReplacer("-", "", " ", "")

type (
	validationError   string
	missingFieldError string
)

func (v validationError) Error() string {
	return string(v)
}

func (m missingFieldError) Error() string {
	return string(m) + " is required"
}

// IsValidISBN checks that an ISBN holds exactly 10 or 13 digits
// once hyphens and spaces are stripped out.
func IsValidISBN(isbn string) bool {
	clean := isbnCleaner.Replace(isbn)
	if len(clean) != 10 && len(clean) != 13 {
		return false
	}
	for _, r := range clean {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateBook checks a candidate book and fails fast on the first
// violated rule: required fields, then formats, then numeric ranges,
// then the publication date against the provided current time.
func ValidateBook(book *Book, now time.Time) error {
	if book == nil {
		return validationError("book cannot be nil")
	}

	if len(strings.TrimSpace(book.Title)) == 0 {
		return missingFieldError("title")
	}

	if len(strings.TrimSpace(book.Author)) == 0 {
		return missingFieldError("author")
	}

	if len(strings.TrimSpace(book.ISBN)) == 0 {
		return missingFieldError("isbn")
	}

	if !IsValidISBN(book.ISBN) {
		return validationError("invalid isbn format")
	}

	if !book.Price.IsPositive() {
		return validationError("price must be greater than 0")
	}

	if book.StockQuantity < 0 {
		return validationError("stock quantity cannot be negative")
	}

	if book.PublicationDate != nil && book.PublicationDate.After(now) {
		return validationError("publication date cannot be in the future")
	}

	return nil
}

// ValidateUser checks a candidate user at registration the same
// fail-fast way. The plaintext password is mandatory here since the
// account cannot exist without one.
func ValidateUser(user *User) error {
	return validateUserFields(user, true)
}

// ValidateUserProfile checks a candidate profile update. The password
// is optional so the stored hash stays untouched when none is given,
// but a provided one still goes through the length rule.
func ValidateUserProfile(user *User) error {
	return validateUserFields(user, false)
}

func validateUserFields(user *User, passwordRequired bool) error {
	if user == nil {
		return validationError("user cannot be nil")
	}

	if len(strings.TrimSpace(user.Username)) == 0 {
		return missingFieldError("username")
	}

	if len(user.Username) < 3 {
		return validationError("username must be at least 3 characters long")
	}

	if passwordRequired && len(strings.TrimSpace(user.Password)) == 0 {
		return missingFieldError("password")
	}

	if len(strings.TrimSpace(user.Password)) != 0 && len(user.Password) < 6 {
		return validationError("password must be at least 6 characters long")
	}

	if len(strings.TrimSpace(user.Email)) == 0 {
		return missingFieldError("email")
	}

	if !emailRegexp.MatchString(user.Email) {
		return validationError("invalid email format")
	}

	if len(strings.TrimSpace(user.FirstName)) == 0 {
		return missingFieldError("first name")
	}

	if len(strings.TrimSpace(user.LastName)) == 0 {
		return missingFieldError("last name")
	}

	if user.Role != RoleAdmin && user.Role != RoleCustomer {
		return validationError("role must be ADMIN or CUSTOMER")
	}

	return nil
}

// ValidateOrder checks the shape of a candidate order before any
// stock movement happens.
func ValidateOrder(order *Order) error {
	if order == nil {
		return validationError("order cannot be nil")
	}

	if len(strings.TrimSpace(order.UserID)) == 0 {
		return missingFieldError("user id")
	}

	if len(order.Items) == 0 {
		return validationError("order must contain at least one item")
	}

	for i := range order.Items {
		if len(strings.TrimSpace(order.Items[i].BookID)) == 0 {
			return missingFieldError("book id")
		}
		if order.Items[i].Quantity <= 0 {
			return validationError("item quantity must be positive")
		}
	}

	if len(strings.TrimSpace(order.ShippingAddress)) == 0 {
		return missingFieldError("shipping address")
	}

	if len(strings.TrimSpace(order.PaymentMethod)) == 0 {
		return missingFieldError("payment method")
	}

	return nil
}
