package handler

import (
	"net/http"

	"gymstore/internal/orders/service"
	"gymstore/pkg/auth"
	apperrors "gymstore/pkg/errors"
	httputil "gymstore/pkg/http"
	"gymstore/pkg/logger"
	"gymstore/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type OrderHandler struct {
	service service.OrderService
	log     *logger.Logger
}

func NewOrderHandler(service service.OrderService, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log,
	}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.OrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	claims := auth.FromContext(r.Context())
	result, err := h.service.Create(r.Context(), claims.UserID(), httputil.Origin(r), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *OrderHandler) Verify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.VerifyPaymentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Verify", err)
		return
	}

	result, err := h.service.VerifyPayment(r.Context(), ownerScope(r), &req)
	if err != nil {
		h.writeError(w, "Verify", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Verify", "operation", "WriteSuccess", "error", err)
	}
}

// GetAll lists every order for the admin panel, optionally by status.
func (h *OrderHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, "GetAll", model.OrderFilter{Status: r.URL.Query().Get("status")})
}

func (h *OrderHandler) GetUserOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, "GetUserOrders", model.OrderFilter{UserID: auth.FromContext(r.Context()).UserID()})
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request, name string, filter model.OrderFilter) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, name, err)
		return
	}

	orders, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, name, err)
		return
	}

	if err := httputil.WritePaginated(w, orders, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", name, "operation", "WritePaginated", "error", err)
	}
}

func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	order, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err == nil {
		if scope := ownerScope(r); scope != "" && order.UserID != scope {
			err = apperrors.Forbidden("Not authorized to view this order")
		}
	}
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, order); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.OrderStatusUpdate
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	if err := httputil.WriteSuccess(w, order); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	result, err := h.service.Cancel(r.Context(), ps.ByName("id"), ownerScope(r))
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func (h *OrderHandler) writeError(w http.ResponseWriter, name string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
}

// ownerScope is empty for admins, who act on any order.
func ownerScope(r *http.Request) string {
	claims := auth.FromContext(r.Context())
	if claims.Role == model.RoleAdmin {
		return ""
	}
	return claims.UserID()
}

func (h *OrderHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/orders", auth.RequireRole(h.Create, model.RoleUser))
	router.GET("/api/v1/orders", auth.RequireRole(h.GetAll, model.RoleAdmin))
	router.POST("/api/v1/orders/verify", auth.RequireRole(h.Verify))
	router.GET("/api/v1/orders/user", auth.RequireRole(h.GetUserOrders))
	router.GET("/api/v1/orders/id/:id", auth.RequireRole(h.GetByID))
	router.PATCH("/api/v1/orders/id/:id/status", auth.RequireRole(h.UpdateStatus, model.RoleAdmin))
	router.POST("/api/v1/orders/id/:id/cancel", auth.RequireRole(h.Cancel))
}
