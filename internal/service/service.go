// Package service implements the catalog's business logic: input validation,
// the duplicate-code rule and the coordination between the database record
// and the image file.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	cerrors "github.com/prasit/catalog_service/internal/errors"
	"github.com/prasit/catalog_service/internal/storage"
	"github.com/prasit/catalog_service/internal/store"
)

// imageURLPrefix is the public route prefix under which stored images are served.
const imageURLPrefix = "/media/products/"

// CatalogService defines the operations of the product catalog.
type CatalogService interface {
	// Create validates the input, stores the image payload if present and
	// persists the record. Returns a ValidationError on rejected input and
	// ErrDuplicateCode when the product code is already taken.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// FindByCode retrieves a product by its code.
	// Returns ErrProductNotFound if no product exists with the given code.
	FindByCode(ctx context.Context, code string) (*ProductDto, error)

	// FindAll returns all products ordered newest-first.
	// Returns an empty slice if the catalog is empty.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// DeleteByCode removes the product and its stored image as a unit.
	// Returns ErrProductNotFound if no product exists with the given code.
	DeleteByCode(ctx context.Context, code string) error
}

// Service implements CatalogService on top of a ProductStore and an ImageStore.
type Service struct {
	repository store.ProductStore
	images     storage.ImageStore
	validate   *validator.Validate
}

// NewService creates a new CatalogService with the provided store and image directory.
func NewService(repo store.ProductStore, images storage.ImageStore) *Service {
	return &Service{
		repository: repo,
		images:     images,
		validate:   validator.New(),
	}
}

// ProductCreateDto carries the raw external input of a create request.
// Price arrives as the raw form value and is parsed by the service.
// Image holds the uploaded payload, ImageName its original filename.
type ProductCreateDto struct {
	ProductCode string `json:"product_code" validate:"required,min=1,max=50"`
	Name        string `json:"name"         validate:"required,min=1,max=200"`
	Price       string `json:"price"        validate:"required"`
	Image       []byte `json:"-"`
	ImageName   string `json:"-"`
}

// ProductDto represents a persisted product as returned to the boundary.
type ProductDto struct {
	ID            int64     `json:"id"`
	ProductCode   string    `json:"product_code"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	ImageFilename *string   `json:"image_filename"`
	ImageURL      *string   `json:"image_url"`
	CreatedAt     time.Time `json:"created_at"`
}

// Create validates the input, writes the image file before the record and
// persists the product. The store's uniqueness constraint is the authoritative
// duplicate arbiter; the pre-insert lookup is only a fast path. When the
// constraint fires after the image was written, the file is left behind
// (bounded, documented inconsistency) and ErrDuplicateCode is returned.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	if err := s.validate.Struct(product); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fieldErr := validationErrors[0]
			return nil, cerrors.NewValidationError(fieldErr.Field(), "failed on rule: "+fieldErr.Tag())
		}
		return nil, cerrors.NewValidationError("", err.Error())
	}

	price, err := strconv.ParseFloat(product.Price, 64)
	if err != nil {
		return nil, cerrors.NewValidationError("Price", "must be a number")
	}
	// ParseFloat accepts "NaN" and "Inf", and NaN compares false against 0.
	// Non-finite values also cannot be marshalled to JSON later.
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, cerrors.NewValidationError("Price", "must be a finite number")
	}
	if price < 0 {
		return nil, cerrors.NewValidationError("Price", "must not be negative")
	}

	if _, err := s.repository.FindByCode(ctx, product.ProductCode); err == nil {
		return nil, cerrors.ErrDuplicateCode
	} else if !errors.Is(err, cerrors.ErrProductNotFound) {
		return nil, fmt.Errorf("failed to check product code %s: %w", product.ProductCode, err)
	}

	var imageFilename *string
	if len(product.Image) > 0 {
		ext := filepath.Ext(storage.SanitizeFilename(product.ImageName))
		name := product.ProductCode + ext
		if err := s.images.Save(name, product.Image); err != nil {
			return nil, fmt.Errorf("failed to store image for product %s: %w", product.ProductCode, err)
		}
		imageFilename = &name
	}

	created, err := s.repository.Insert(ctx, store.InsertParams{
		ProductCode:   product.ProductCode,
		Name:          product.Name,
		Price:         price,
		ImageFilename: imageFilename,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, cerrors.ErrDuplicateCode) {
			return nil, cerrors.ErrDuplicateCode
		}
		return nil, fmt.Errorf("failed to create product %s: %w", product.ProductCode, err)
	}

	return toDto(created), nil
}

// FindByCode retrieves a product by its code and returns it with a derived image URL.
// Returns ErrProductNotFound if no product exists with the given code.
func (s *Service) FindByCode(ctx context.Context, code string) (*ProductDto, error) {
	product, err := s.repository.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, cerrors.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch product by code %s: %w", code, err)
	}
	return toDto(product), nil
}

// FindAll retrieves all products newest-first, each with a derived image URL.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))
	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}
	return productDTOs, nil
}

// DeleteByCode removes the stored image file before the record so that a
// crash in between leaves an orphaned record pointing at a missing file,
// never an unreferenced file. A file that is already gone is not an error.
func (s *Service) DeleteByCode(ctx context.Context, code string) error {
	product, err := s.repository.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, cerrors.ErrProductNotFound) {
			return err
		}
		return fmt.Errorf("failed to fetch product by code %s: %w", code, err)
	}

	if product.ImageFilename != nil {
		if err := s.images.Remove(*product.ImageFilename); err != nil {
			return fmt.Errorf("failed to remove image for product %s: %w", code, err)
		}
	}

	if err := s.repository.DeleteByCode(ctx, code); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", code, err)
	}
	return nil
}

// toDto converts a store.Product to a ProductDto, deriving the image URL.
func toDto(product *store.Product) *ProductDto {
	dto := &ProductDto{
		ID:            product.ID,
		ProductCode:   product.ProductCode,
		Name:          product.Name,
		Price:         product.Price,
		ImageFilename: product.ImageFilename,
		CreatedAt:     product.CreatedAt,
	}
	if product.ImageFilename != nil {
		url := imageURLPrefix + *product.ImageFilename
		dto.ImageURL = &url
	}
	return dto
}
