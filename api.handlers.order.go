package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// orderStatusRequest is the payload of an order status change request.
type orderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}

func (api *APIHandler) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	order := Order{}
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	if err := DecodeRequestBody(r, &order); err != nil {
		api.logger.Error("failed to create order", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to create the order", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	order, err := api.orderService.Create(r.Context(), order)
	if err != nil {
		api.logger.Error("failed to create order", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, StatusForError(err), "failed to create the order", err.Error())
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	resp := GenericResponse(requestID, http.StatusCreated, "Order created successfully.", nil, order)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

func (api *APIHandler) GetOneOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, OrderIDPrefix); !ok {
		api.logger.Error("order id provided is not valid", zap.String("order.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "order id provided is not valid", EmptyData)
		if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	order, err := api.orderService.GetOne(r.Context(), id)
	if err != nil {
		api.logger.Error("failed to get order", zap.String("order.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, StatusForError(err), "failed to get the order", err.Error())
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	resp := GenericResponse(requestID, http.StatusOK, "Order fetched successfully.", nil, order)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// UpdateOrderStatus moves an order along its lifecycle.
func (api *APIHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var payload orderStatusRequest
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, OrderIDPrefix); !ok {
		api.logger.Error("order id provided is not valid", zap.String("order.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "order id provided is not valid", EmptyData)
		if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err := DecodeRequestBody(r, &payload); err != nil {
		api.logger.Error("failed to update order status", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to update the order status", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	order, err := api.orderService.UpdateStatus(r.Context(), id, payload.Status)
	if err != nil {
		api.logger.Error("failed to update order status", zap.String("order.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, StatusForError(err), "failed to update the order status", err.Error())
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	resp := GenericResponse(requestID, http.StatusOK, "Order status updated successfully.", nil, order)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// CancelOrder cancels an order and restores the reserved stock.
func (api *APIHandler) CancelOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, OrderIDPrefix); !ok {
		api.logger.Error("order id provided is not valid", zap.String("order.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "order id provided is not valid", EmptyData)
		if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	order, err := api.orderService.Cancel(r.Context(), id)
	if err != nil {
		api.logger.Error("failed to cancel order", zap.String("order.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, StatusForError(err), "failed to cancel the order", err.Error())
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	resp := GenericResponse(requestID, http.StatusOK, "Order cancelled successfully.", nil, order)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
