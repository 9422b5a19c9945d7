package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupOrderRoutes injects orders related api endpoints.
func (api *APIHandler) SetupOrderRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.POST("/v1/orders", m.public(api.CreateOrder))
	router.GET("/v1/orders/:id", m.public(api.GetOneOrder))
	router.PATCH("/v1/orders/:id/status", m.public(api.UpdateOrderStatus))
	router.POST("/v1/orders/:id/cancel", m.public(api.CancelOrder))
	return router
}
