package handler

import (
	"context"
	"net/http"

	"gymstore/internal/users/service"
	"gymstore/pkg/auth"
	httputil "gymstore/pkg/http"
	"gymstore/pkg/logger"
	"gymstore/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type UserHandler struct {
	service service.UserService
	log     *logger.Logger
}

func NewUserHandler(service service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Register", err)
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	if err := httputil.WriteCreated(w, resp); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "operation", "WriteCreated", "error", err)
	}
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.login(w, r, "Login", h.service.Login)
}

func (h *UserHandler) AdminLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.login(w, r, "AdminLogin", h.service.AdminLogin)
}

func (h *UserHandler) login(w http.ResponseWriter, r *http.Request, name string, fn func(context.Context, *model.LoginRequest) (*model.AuthResponse, error)) {
	var req model.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, name, err)
		return
	}

	resp, err := fn(r.Context(), &req)
	if err != nil {
		h.writeError(w, name, err)
		return
	}

	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", name, "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) SendOTP(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.OTPRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "SendOTP", err)
		return
	}

	if err := h.service.SendOTP(r.Context(), &req); err != nil {
		h.writeError(w, "SendOTP", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]string{"message": "OTP sent successfully"}); err != nil {
		h.log.Error("failed to write success response", "handler", "SendOTP", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) VerifyOTP(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.VerifyOTPRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "VerifyOTP", err)
		return
	}

	user, err := h.service.VerifyOTP(r.Context(), &req)
	if err != nil {
		h.writeError(w, "VerifyOTP", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "VerifyOTP", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) CreateBranchUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BranchUserRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "CreateBranchUser", err)
		return
	}

	user, err := h.service.CreateBranchUser(r.Context(), &req)
	if err != nil {
		h.writeError(w, "CreateBranchUser", err)
		return
	}

	if err := httputil.WriteCreated(w, user); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateBranchUser", "operation", "WriteCreated", "error", err)
	}
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ChangePasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "ChangePassword", err)
		return
	}

	resp, err := h.service.ChangePassword(r.Context(), auth.FromContext(r.Context()), &req)
	if err != nil {
		h.writeError(w, "ChangePassword", err)
		return
	}

	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "ChangePassword", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cart, err := h.service.GetCart(r.Context(), auth.FromContext(r.Context()).UserID())
	if err != nil {
		h.writeError(w, "GetCart", err)
		return
	}

	if err := httputil.WriteSuccess(w, cart); err != nil {
		h.log.Error("failed to write success response", "handler", "GetCart", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.cart(w, r, "AddToCart", h.service.AddToCart)
}

func (h *UserHandler) UpdateCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.cart(w, r, "UpdateCart", h.service.UpdateCart)
}

func (h *UserHandler) cart(w http.ResponseWriter, r *http.Request, name string, fn func(context.Context, string, *model.CartItemRequest) (model.CartData, error)) {
	var req model.CartItemRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, name, err)
		return
	}

	cart, err := fn(r.Context(), auth.FromContext(r.Context()).UserID(), &req)
	if err != nil {
		h.writeError(w, name, err)
		return
	}

	if err := httputil.WriteSuccess(w, cart); err != nil {
		h.log.Error("failed to write success response", "handler", name, "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) writeError(w http.ResponseWriter, name string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/users/register", h.Register)
	router.POST("/api/v1/users/login", h.Login)
	router.POST("/api/v1/users/admin/login", h.AdminLogin)
	router.POST("/api/v1/users/otp/send", h.SendOTP)
	router.POST("/api/v1/users/otp/verify", h.VerifyOTP)
	router.POST("/api/v1/users/branch", auth.RequireRole(h.CreateBranchUser, model.RoleAdmin))
	router.POST("/api/v1/users/password", auth.RequireRole(h.ChangePassword))

	router.GET("/api/v1/users/cart", auth.RequireRole(h.GetCart))
	router.POST("/api/v1/users/cart", auth.RequireRole(h.AddToCart))
	router.PUT("/api/v1/users/cart", auth.RequireRole(h.UpdateCart))
}
