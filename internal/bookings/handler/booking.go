package handler

import (
	"net/http"

	"gymstore/internal/bookings/service"
	"gymstore/pkg/auth"
	apperrors "gymstore/pkg/errors"
	httputil "gymstore/pkg/http"
	"gymstore/pkg/logger"
	"gymstore/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

// Create books a slot. Authentication is optional; when present the booking
// is linked to the caller.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var userID string
	if claims := auth.FromContext(r.Context()); claims != nil {
		userID = claims.UserID()
	}

	booking, err := h.service.CheckAndCreate(r.Context(), userID, &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err == nil {
		err = canView(auth.FromContext(r.Context()), booking)
	}
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// GetAll lists every booking. Admin only.
func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.list(w, r, "GetAll", model.BookingFilter{})
}

// GetUserBookings lists the caller's bookings. Admins may pass user_id.
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims := auth.FromContext(r.Context())
	userID := claims.UserID()
	if q := r.URL.Query().Get("user_id"); q != "" && claims.Role == model.RoleAdmin {
		userID = q
	}
	h.list(w, r, "GetUserBookings", model.BookingFilter{UserID: userID})
}

func (h *BookingHandler) GetBranchBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims := auth.FromContext(r.Context())
	if claims.Gym == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Gym not found in token")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetBranchBookings", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	h.list(w, r, "GetBranchBookings", model.BookingFilter{Gym: claims.Gym})
}

func (h *BookingHandler) list(w http.ResponseWriter, r *http.Request, name string, filter model.BookingFilter) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
		}
		return
	}

	bookings, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", name, "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) GetBranchMembers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims := auth.FromContext(r.Context())

	members, err := h.service.Members(r.Context(), claims.Gym)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetBranchMembers", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, members); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBranchMembers", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetBookedSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	slots, err := h.service.BookedSlots(r.Context(), query.Get("gym"), query.Get("date"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetBookedSlots", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBookedSlots", "operation", "WriteSuccess", "error", err)
	}
}

// Cancel is open to admins and to branch users of the booking's gym.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims := auth.FromContext(r.Context())
	var gymScope string
	if claims.Role == model.RoleBranch {
		gymScope = claims.Gym
		if gymScope == "" {
			if writeErr := httputil.WriteError(w, apperrors.Forbidden("Not authorized to cancel this booking")); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
			}
			return
		}
	}

	result, err := h.service.Cancel(r.Context(), ps.ByName("id"), gymScope)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

func canView(claims *auth.Claims, b *model.Booking) error {
	switch claims.Role {
	case model.RoleAdmin:
		return nil
	case model.RoleBranch:
		if b.Gym == claims.Gym {
			return nil
		}
	default:
		if b.UserID != "" && b.UserID == claims.UserID() {
			return nil
		}
	}
	return apperrors.Forbidden("Not authorized to view this booking")
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", auth.RequireRole(h.GetAll, model.RoleAdmin))
	router.GET("/api/v1/bookings/id/:id", auth.RequireRole(h.GetByID))
	router.POST("/api/v1/bookings/id/:id/cancel", auth.RequireRole(h.Cancel, model.RoleBranch, model.RoleAdmin))
	router.GET("/api/v1/bookings/user", auth.RequireRole(h.GetUserBookings))
	router.GET("/api/v1/bookings/branch/bookings", auth.RequireRole(h.GetBranchBookings, model.RoleBranch))
	router.GET("/api/v1/bookings/branch/members", auth.RequireRole(h.GetBranchMembers, model.RoleBranch))
	router.GET("/api/v1/bookings/booked-slots", h.GetBookedSlots)
}
