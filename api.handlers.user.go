package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// loginRequest carries the credentials of an authentication request.
type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (api *APIHandler) RegisterUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user := User{}
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	if err := DecodeRequestBody(r, &user); err != nil {
		api.logger.Error("failed to register user", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to register the user", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	user, err := api.userService.Register(r.Context(), user)
	if err != nil {
		api.logger.Error("failed to register user", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, StatusForError(err), "failed to register the user", err.Error())
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	resp := GenericResponse(requestID, http.StatusCreated, "User registered successfully.", nil, user)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// LoginUser checks the submitted credentials and serves the matching account.
func (api *APIHandler) LoginUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds loginRequest
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	if err := DecodeRequestBody(r, &creds); err != nil {
		api.logger.Error("failed to login user", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to login", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	user, err := api.userService.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		api.logger.Error("failed to login user", zap.String("user.username", creds.Username), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, StatusForError(err), "failed to login", err.Error())
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	resp := GenericResponse(requestID, http.StatusOK, "User logged in successfully.", nil, user)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

func (api *APIHandler) GetAllUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	users, err := api.userService.GetAll(r.Context())
	if err != nil {
		api.logger.Error("failed to get users", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, StatusForError(err), "failed to get users", err.Error())
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	total := len(users)
	resp := GenericResponse(requestID, http.StatusOK, "Users fetched successfully.", &total, users)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

func (api *APIHandler) GetOneUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, UserIDPrefix); !ok {
		api.logger.Error("user id provided is not valid", zap.String("user.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "user id provided is not valid", EmptyData)
		if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	user, err := api.userService.GetOne(r.Context(), id)
	if err != nil {
		api.logger.Error("failed to get user", zap.String("user.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, StatusForError(err), "failed to get the user", err.Error())
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	resp := GenericResponse(requestID, http.StatusOK, "User fetched successfully.", nil, user)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

func (api *APIHandler) UpdateUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var user User
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, UserIDPrefix); !ok {
		api.logger.Error("user id provided is not valid", zap.String("user.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "user id provided is not valid", EmptyData)
		if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	if err := DecodeRequestBody(r, &user); err != nil {
		api.logger.Error("failed to update user", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to update the user", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	user, err := api.userService.UpdateProfile(r.Context(), id, user)
	if err != nil {
		api.logger.Error("failed to update user", zap.String("user.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, StatusForError(err), "failed to update the user", err.Error())
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	resp := GenericResponse(requestID, http.StatusOK, "User updated successfully.", nil, user)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

func (api *APIHandler) DeleteOneUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, UserIDPrefix); !ok {
		api.logger.Error("user id provided is not valid", zap.String("user.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "user id provided is not valid", EmptyData)
		if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	if err := api.userService.Delete(r.Context(), id); err != nil {
		api.logger.Error("failed to delete user", zap.String("user.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, StatusForError(err), "failed to delete the user", err.Error())
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	resp := GenericResponse(requestID, http.StatusOK, "User deleted successfully.", nil, EmptyData)
	if err := WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetUserOrders serves the orders history of a given user, newest first.
func (api *APIHandler) GetUserOrders(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := ps.ByName("id")
	if ok := api.idsHandler.IsValid(id, UserIDPrefix); !ok {
		api.logger.Error("user id provided is not valid", zap.String("user.id", id), zap.String("request.id", requestID))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "user id provided is not valid", EmptyData)
		if err := WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	orders, err := api.orderService.GetAllForUser(r.Context(), id)
	if err != nil {
		api.logger.Error("failed to get user orders", zap.String("user.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, StatusForError(err), "failed to get the user orders", err.Error())
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	total := len(orders)
	resp := GenericResponse(requestID, http.StatusOK, "Orders fetched successfully.", &total, orders)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
