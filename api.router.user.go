package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupUserRoutes injects users related api endpoints.
func (api *APIHandler) SetupUserRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.POST("/v1/users", m.public(api.RegisterUser))
	router.POST("/v1/login", m.public(api.LoginUser))
	router.GET("/v1/users", m.public(api.GetAllUsers))
	router.GET("/v1/users/:id", m.public(api.GetOneUser))
	router.PUT("/v1/users/:id", m.public(api.UpdateUser))
	router.DELETE("/v1/users/:id", m.public(api.DeleteOneUser))
	router.GET("/v1/users/:id/orders", m.public(api.GetUserOrders))
	return router
}
