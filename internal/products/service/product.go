package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	productserrors "gymstore/internal/products/errors"
	"gymstore/internal/products/repository"
	"gymstore/internal/products/validator"
	"gymstore/pkg/config"
	apperrors "gymstore/pkg/errors"
	"gymstore/pkg/media"
	"gymstore/pkg/metrics"
	"gymstore/pkg/model"
	"gymstore/pkg/sanitizer"
	"gymstore/pkg/validation"
)

const mediaPrefix = "products"

type ProductService interface {
	List(ctx context.Context, filter model.ProductFilter, limit int, offset int64) ([]*model.Product, int64, error)
	GetByID(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	Update(ctx context.Context, id string, update *model.ProductUpdate) (*model.Product, error)
	Delete(ctx context.Context, id string) error
	UploadMedia(ctx context.Context, id, contentType string, body io.Reader) (*model.Product, error)
}

type productService struct {
	repo      repository.ProductRepository
	validator *validator.ProductValidator
	uploader  media.Uploader
	cfg       *config.Config
}

// NewProductService builds the service. A nil uploader disables media uploads.
func NewProductService(repo repository.ProductRepository, validator *validator.ProductValidator, uploader media.Uploader, cfg *config.Config) ProductService {
	return &productService{
		repo:      repo,
		validator: validator,
		uploader:  uploader,
		cfg:       cfg,
	}
}

func (s *productService) List(ctx context.Context, filter model.ProductFilter, limit int, offset int64) ([]*model.Product, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var products []*model.Product
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count products", "category", filter.Category, "error", errCount)
			errCount = apperrors.Internal("Failed to count products", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		products, errFind = s.repo.FindAll(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list products", "category", filter.Category, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve products", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	if products == nil {
		products = []*model.Product{}
	}

	return products, count, nil
}

func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateError(ctx, id, "Failed to retrieve product", err)
	}
	return product, nil
}

func (s *productService) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	log := s.cfg.Log.ForContext(ctx)

	product.ID = ""
	sanitizeProduct(product)

	if err := s.validator.Validate(product); err != nil {
		log.Warn("Product validation failed", "name", product.Name, "error", err)
		return nil, validation.AsAppError("Invalid product", err)
	}

	if err := s.repo.Create(ctx, product); err != nil {
		log.Error("Failed to create product", "name", product.Name, "error", err)
		return nil, apperrors.Internal("Failed to create product", err)
	}

	log.Info("Product created", "id", product.ID, "category", product.Category)
	return product, nil
}

// Update applies the non-nil fields of update and validates the result as a
// whole, so an edit cannot leave the product invalid.
func (s *productService) Update(ctx context.Context, id string, update *model.ProductUpdate) (*model.Product, error) {
	log := s.cfg.Log.ForContext(ctx)

	if update.IsEmpty() {
		return nil, apperrors.InvalidInput("No product fields to update")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := mergeProductUpdate(existing, update)
	sanitizeProduct(merged)
	if err := s.validator.Validate(merged); err != nil {
		log.Warn("Product update validation failed", "id", id, "error", err)
		return nil, validation.AsAppError("Invalid product", err)
	}

	updated, err := s.repo.Update(ctx, id, merged)
	if err != nil {
		return nil, s.translateError(ctx, id, "Failed to update product", err)
	}

	log.Info("Product updated", "id", id, "name", updated.Name)
	return updated, nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translateError(ctx, id, "Failed to delete product", err)
	}
	s.cfg.Log.ForContext(ctx).Info("Product deleted", "id", id)
	return nil
}

// UploadMedia stores body and appends its URL to the product's images or
// videos, depending on contentType. The product is checked first so no
// object is written for an unknown id.
func (s *productService) UploadMedia(ctx context.Context, id, contentType string, body io.Reader) (*model.Product, error) {
	log := s.cfg.Log.ForContext(ctx)

	if s.uploader == nil {
		return nil, apperrors.Unavailable("Media storage")
	}

	field := ""
	kind := media.Kind(contentType)
	switch kind {
	case "image":
		field = repository.FieldImages
	case "video":
		field = repository.FieldVideos
	default:
		return nil, apperrors.InvalidInput("Content-Type must be an image or video type")
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	key := media.ObjectKey(mediaPrefix+"/"+id, contentType)
	url, err := s.uploader.Upload(ctx, key, contentType, body)
	metrics.IncMediaUpload(kind, err)
	if err != nil {
		log.Error("Failed to upload media", "id", id, "key", key, "error", err)
		return nil, apperrors.BadGateway("Media storage", err)
	}

	product, err := s.repo.AppendMedia(ctx, id, field, url)
	if err != nil {
		return nil, s.translateError(ctx, id, "Failed to attach media", err)
	}

	log.Info("Product media uploaded", "id", id, "kind", kind, "url", url)
	return product, nil
}

func mergeProductUpdate(existing *model.Product, update *model.ProductUpdate) *model.Product {
	merged := *existing

	if update.Name != nil {
		merged.Name = *update.Name
	}
	if update.Description != nil {
		merged.Description = *update.Description
	}
	if update.Price != nil {
		merged.Price = *update.Price
	}
	if update.Category != nil {
		merged.Category = *update.Category
	}
	if update.SubCategory != nil {
		merged.SubCategory = *update.SubCategory
	}
	if update.Sizes != nil {
		merged.Sizes = *update.Sizes
	}
	if update.Images != nil {
		merged.Images = *update.Images
	}
	if update.Videos != nil {
		merged.Videos = *update.Videos
	}
	if update.Bestseller != nil {
		merged.Bestseller = *update.Bestseller
	}
	if update.Discount != nil {
		merged.Discount = *update.Discount
	}

	return &merged
}

func sanitizeProduct(p *model.Product) {
	p.Name = sanitizer.NormalizeName(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Category = sanitizer.NormalizeIdentifier(p.Category)
	p.SubCategory = sanitizer.NormalizeIdentifier(p.SubCategory)
	p.Sizes = sanitizer.NormalizeStringSlice(p.Sizes, sanitizer.NormalizeIdentifier)
	p.Discount = sanitizer.ClampPercent(p.Discount)
}

func (s *productService) translateError(ctx context.Context, id, message string, err error) error {
	switch {
	case errors.Is(err, productserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Product", id)
	case errors.Is(err, productserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid product ID format")
	default:
		s.cfg.Log.ForContext(ctx).Error(message, "id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}
