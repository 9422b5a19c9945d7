package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"strings"
)

// Sentinel errors surfaced by the domain services. Handlers map each
// family to an http status code through StatusForError.
var (
	ErrBookNotFound       = errors.New("book not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrISBNExists         = errors.New("isbn already exists")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrOrderTransition    = errors.New("order status transition not allowed")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type ContextKey string

const (
	BookIDPrefix    string = "b"
	UserIDPrefix    string = "u"
	OrderIDPrefix   string = "o"
	RequestIDPrefix string = "r"

	ContextRequestID     ContextKey = "request.id"
	ContextRequestNumber ContextKey = "request.number"
)

// IsValidationError reports whether err comes from the validation layer.
func IsValidationError(err error) bool {
	var v validationError
	var m missingFieldError
	return errors.As(err, &v) || errors.As(err, &m)
}

// StatusForError translates a service error into the http status code
// to be sent back to the client. Unknown errors are storage failures.
func StatusForError(err error) int {
	switch {
	case IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, ErrBookNotFound), errors.Is(err, ErrUserNotFound), errors.Is(err, ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrISBNExists), errors.Is(err, ErrUsernameExists), errors.Is(err, ErrEmailExists),
		errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrOrderTransition):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val := ctx.Value(contextKey); val != nil {
		return val.(string)
	}
	return ""
}

// GetRequestNumberFromContext returns the request number set in
// the context. if not previously set then it returns 0.
func GetRequestNumberFromContext(ctx context.Context) uint64 {
	if val := ctx.Value(ContextRequestNumber); val != nil {
		return val.(uint64)
	}
	return 0
}

// DecodeRequestBody is a helper function to read the json content of
// any creation or update request into the target entity.
func DecodeRequestBody(r *http.Request, target interface{}) error {
	if r.Body == nil {
		return errors.New("invalid request body")
	}
	return json.NewDecoder(r.Body).Decode(target)
}

// GetRequestSourceIP helps find the source IP of the caller.
func GetRequestSourceIP(r *http.Request) string {
	// Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip
	}

	// Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP = net.ParseIP(ip)
		if netIP != nil {
			return ip
		}
	}

	// Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip
	}
	return ""
}

// IsAppRunningInDocker checks the existence of the .dockerenv
// file at the root directory and returns a boolean result. This
// helps know if the App is running in a docker container or not.
func IsAppRunningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}
