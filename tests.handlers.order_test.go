package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOrderAPIForTest(env *orderTestEnv) *APIHandler {
	ids := NewMockUIDHandler("f3b54eb1-64e2-4db5-8b60-3a1f2b8cfe01", true)
	return NewAPIHandler(zap.NewNop(), nil, &Statistics{started: time.Now()}, NewMockClocker(), ids, nil, nil, env.service)
}

func placeOrder(t *testing.T, api *APIHandler, order Order) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(order)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewBuffer(payload))
	w := httptest.NewRecorder()
	api.CreateOrder(w, req, httprouter.Params{})
	return w
}

// TestCreateOrderHandler ensures orders placement over http.
func TestCreateOrderHandler(t *testing.T) {
	t.Run("should pass: valid payload", func(t *testing.T) {
		env := newOrderTestEnv()
		api := newOrderAPIForTest(env)
		w := placeOrder(t, api, validOrder())
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, res.StatusCode)

		resultMap := make(map[string]interface{})
		assert.NoError(t, json.Unmarshal(data, &resultMap))
		orderMap, ok := resultMap["data"].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, "o:f3b54eb1-64e2-4db5-8b60-3a1f2b8cfe01", orderMap["id"])
		assert.Equal(t, string(OrderPending), orderMap["status"])
		assert.Equal(t, 3, env.books["b:1"].StockQuantity)
	})

	t.Run("should fail: unknown user gets 404", func(t *testing.T) {
		env := newOrderTestEnv()
		api := newOrderAPIForTest(env)
		order := validOrder()
		order.UserID = "u:ghost"
		w := placeOrder(t, api, order)
		assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
	})

	t.Run("should fail: insufficient stock gets 409", func(t *testing.T) {
		env := newOrderTestEnv()
		api := newOrderAPIForTest(env)
		order := validOrder()
		order.Items[0].Quantity = 9
		w := placeOrder(t, api, order)
		assert.Equal(t, http.StatusConflict, w.Result().StatusCode)
		assert.Equal(t, 5, env.books["b:1"].StockQuantity)
	})

	t.Run("should fail: missing shipping address gets 400", func(t *testing.T) {
		env := newOrderTestEnv()
		api := newOrderAPIForTest(env)
		order := validOrder()
		order.ShippingAddress = ""
		w := placeOrder(t, api, order)
		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	})
}

// TestUpdateOrderStatusHandler ensures lifecycle moves over http.
func TestUpdateOrderStatusHandler(t *testing.T) {
	env := newOrderTestEnv()
	api := newOrderAPIForTest(env)
	w := placeOrder(t, api, validOrder())
	require.Equal(t, http.StatusCreated, w.Result().StatusCode)
	id := "o:f3b54eb1-64e2-4db5-8b60-3a1f2b8cfe01"

	patch := func(status string) *httptest.ResponseRecorder {
		payload := []byte(`{"status":"` + status + `"}`)
		req := httptest.NewRequest(http.MethodPatch, "/v1/orders/"+id+"/status", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		api.UpdateOrderStatus(w, req, httprouter.Params{httprouter.Param{Key: "id", Value: id}})
		return w
	}

	t.Run("should pass: pending to confirmed", func(t *testing.T) {
		w := patch("CONFIRMED")
		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
		order, err := env.service.GetOne(context.Background(), id)
		assert.NoError(t, err)
		assert.Equal(t, OrderConfirmed, order.Status)
	})

	t.Run("should fail: skipping shipped gets 409", func(t *testing.T) {
		w := patch("DELIVERED")
		assert.Equal(t, http.StatusConflict, w.Result().StatusCode)
	})

	t.Run("should fail: unknown status gets 400", func(t *testing.T) {
		w := patch("LOST")
		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
	})
}

// TestCancelOrderHandler ensures cancellation over http restores the stock.
func TestCancelOrderHandler(t *testing.T) {
	env := newOrderTestEnv()
	api := newOrderAPIForTest(env)
	w := placeOrder(t, api, validOrder())
	require.Equal(t, http.StatusCreated, w.Result().StatusCode)
	require.Equal(t, 3, env.books["b:1"].StockQuantity)
	id := "o:f3b54eb1-64e2-4db5-8b60-3a1f2b8cfe01"

	req := httptest.NewRequest(http.MethodPost, "/v1/orders/"+id+"/cancel", nil)
	rec := httptest.NewRecorder()
	api.CancelOrder(rec, req, httprouter.Params{httprouter.Param{Key: "id", Value: id}})
	assert.Equal(t, http.StatusOK, rec.Result().StatusCode)
	assert.Equal(t, 5, env.books["b:1"].StockQuantity)
	assert.Equal(t, 2, env.books["b:2"].StockQuantity)

	order, err := env.service.GetOne(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, OrderCancelled, order.Status)
}
