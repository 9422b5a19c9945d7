package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newMiddlewareAPIForTest() *APIHandler {
	return NewAPIHandler(zap.NewNop(), nil, &Statistics{started: time.Now()}, NewMockClocker(), NewMockUIDHandler("abc", true), nil, nil, nil)
}

// TestMiddlewaresStacks ensures we get both public and ops middlewares
// stacks with exact number of elements in those stacks.
func TestMiddlewaresStacks(t *testing.T) {
	api := newMiddlewareAPIForTest()
	pub, ops := api.MiddlewaresStacks()
	assert.Equal(t, 7, len(*pub))
	assert.Equal(t, 6, len(*ops))
}

// TestChain ensures each middleware in the stack is called as well the handler.
func TestChain(t *testing.T) {
	var ca, cb, cc, ch bool
	queue := make(chan int, 4)

	middlewareA := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 1
			ca = true
			next(w, r, ps)
		}
	}
	middlewareB := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 2
			cb = true
			next(w, r, ps)
		}
	}
	middlewareC := func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			queue <- 3
			cc = true
			next(w, r, ps)
		}
	}
	middlewares := Middlewares{
		middlewareA,
		middlewareB,
		middlewareC,
	}

	handler := func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		queue <- 4
		ch = true
	}

	chained := (&middlewares).Chain(handler)
	req := httptest.NewRequest("GET", "/v1/books", nil)
	w := httptest.NewRecorder()
	chained(w, req, nil)

	t.Run("check calling", func(t *testing.T) {
		assert.Equal(t, true, ca)
		assert.Equal(t, true, cb)
		assert.Equal(t, true, cc)
		assert.Equal(t, true, ch)
	})

	t.Run("check ordering", func(t *testing.T) {
		assert.Equal(t, 1, <-queue)
		assert.Equal(t, 2, <-queue)
		assert.Equal(t, 3, <-queue)
		assert.Equal(t, 4, <-queue)
	})
}

// TestRequestsCounterMiddleware ensures the request counter increment.
func TestRequestsCounterMiddleware(t *testing.T) {
	api := newMiddlewareAPIForTest()
	req := httptest.NewRequest("GET", "/v1/books", nil)
	w := httptest.NewRecorder()
	var called bool
	handler := func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		called = true
		assert.Equal(t, uint64(1), GetRequestNumberFromContext(req.Context()))
	}
	wrapped := api.RequestsCounterMiddleware(handler)
	wrapped(w, req, nil)
	assert.Equal(t, true, called)
	assert.Equal(t, uint64(1), api.stats.called)
}

// TestRequestIDMiddleware ensures each request gets a prefixed id.
func TestRequestIDMiddleware(t *testing.T) {
	api := newMiddlewareAPIForTest()
	req := httptest.NewRequest("GET", "/v1/books", nil)
	w := httptest.NewRecorder()
	handler := func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		assert.Equal(t, "r:abc", GetValueFromContext(req.Context(), ContextRequestID))
	}
	api.RequestIDMiddleware(handler)(w, req, nil)
}

// TestResponseStatusMiddleware ensures status codes distribution is recorded.
func TestResponseStatusMiddleware(t *testing.T) {
	api := newMiddlewareAPIForTest()
	handler := func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		w.WriteHeader(http.StatusConflict)
	}
	wrapped := api.ResponseStatusMiddleware(handler)
	wrapped(httptest.NewRecorder(), httptest.NewRequest("GET", "/v1/books", nil), nil)
	wrapped(httptest.NewRecorder(), httptest.NewRequest("GET", "/v1/books", nil), nil)

	api.stats.mu.RLock()
	defer api.stats.mu.RUnlock()
	assert.Equal(t, uint64(2), api.stats.status[http.StatusConflict])
}

// TestMaintenanceModeMiddleware ensures public requests are rejected
// with 503 while the mode is enabled and flow normally otherwise.
func TestMaintenanceModeMiddleware(t *testing.T) {
	api := newMiddlewareAPIForTest()
	var called bool
	handler := func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		called = true
	}
	wrapped := api.MaintenanceModeMiddleware(handler)

	t.Run("disabled mode lets the request through", func(t *testing.T) {
		w := httptest.NewRecorder()
		wrapped(w, httptest.NewRequest("GET", "/v1/books", nil), nil)
		assert.True(t, called)
	})

	t.Run("enabled mode short-circuits with 503", func(t *testing.T) {
		called = false
		api.mode.message = "upgrading storage"
		api.mode.started = time.Now().UTC()
		api.mode.enabled.Store(true)

		w := httptest.NewRecorder()
		wrapped(w, httptest.NewRequest("GET", "/v1/books", nil), nil)
		assert.False(t, called)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

// TestPanicRecoveryMiddleware ensures a panicking handler turns into a 500 response.
func TestPanicRecoveryMiddleware(t *testing.T) {
	api := newMiddlewareAPIForTest()
	handler := func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		panic("boom")
	}
	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		api.PanicRecoveryMiddleware(handler)(w, httptest.NewRequest("GET", "/v1/books", nil), nil)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
