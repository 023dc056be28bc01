package handler

import (
	"net/http"
	"strconv"

	"gymstore/internal/products/service"
	"gymstore/pkg/auth"
	apperrors "gymstore/pkg/errors"
	httputil "gymstore/pkg/http"
	"gymstore/pkg/logger"
	"gymstore/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ProductHandler struct {
	service service.ProductService
	log     *logger.Logger
}

func NewProductHandler(service service.ProductService, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log,
	}
}

// GetAll accepts category, sub_category, on_discount, sort (date, price,
// discount) and order (asc, desc).
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter, err := parseFilter(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	products, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, products, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	product, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, product); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var product model.Product
	if err := httputil.DecodeJSON(r, &product); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	created, err := h.service.Create(r.Context(), &product)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.ProductUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	product, err := h.service.Update(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, product); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	httputil.WriteNoContent(w)
}

// UploadMedia takes the raw file as the request body; Content-Type decides
// whether it is stored as an image or a video.
func (h *ProductHandler) UploadMedia(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if r.Body == nil || r.ContentLength == 0 {
		h.writeError(w, "UploadMedia", apperrors.InvalidInput("Request body is required"))
		return
	}

	product, err := h.service.UploadMedia(r.Context(), ps.ByName("id"), r.Header.Get("Content-Type"), r.Body)
	if err != nil {
		h.writeError(w, "UploadMedia", err)
		return
	}

	if err := httputil.WriteCreated(w, product); err != nil {
		h.log.Error("failed to write created response", "handler", "UploadMedia", "operation", "WriteCreated", "error", err)
	}
}

func (h *ProductHandler) writeError(w http.ResponseWriter, name string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
}

func parseFilter(r *http.Request) (model.ProductFilter, error) {
	q := r.URL.Query()
	filter := model.ProductFilter{
		Category:    q.Get("category"),
		SubCategory: q.Get("sub_category"),
		SortBy:      q.Get("sort"),
	}

	switch filter.SortBy {
	case "", model.ProductSortDate, model.ProductSortPrice, model.ProductSortDiscount:
	default:
		return filter, apperrors.InvalidInput("sort must be one of date, price, discount")
	}

	switch q.Get("order") {
	case "", "desc":
	case "asc":
		filter.Ascending = true
	default:
		return filter, apperrors.InvalidInput("order must be asc or desc")
	}

	if raw := q.Get("on_discount"); raw != "" {
		onDiscount, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, apperrors.InvalidInput("on_discount must be a boolean")
		}
		filter.OnDiscount = onDiscount
	}
	return filter, nil
}

func (h *ProductHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/products", h.GetAll)
	router.GET("/api/v1/products/id/:id", h.GetByID)
	router.POST("/api/v1/products", auth.RequireRole(h.Create, model.RoleAdmin))
	router.PATCH("/api/v1/products/id/:id", auth.RequireRole(h.Update, model.RoleAdmin))
	router.DELETE("/api/v1/products/id/:id", auth.RequireRole(h.Delete, model.RoleAdmin))
	router.POST("/api/v1/products/id/:id/media", auth.RequireRole(h.UploadMedia, model.RoleAdmin))
}
