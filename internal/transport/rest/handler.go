// Package rest provides the HTTP boundary for the catalog service.
package rest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	cerrors "github.com/prasit/catalog_service/internal/errors"
	"github.com/prasit/catalog_service/internal/service"
	"github.com/prasit/catalog_service/internal/storage"
	"github.com/prasit/catalog_service/pkg/web"
)

// maxUploadBytes bounds the multipart form kept in memory per create request.
const maxUploadBytes = 10 << 20

type Handler struct {
	service service.CatalogService
	images  storage.ImageStore
	logger  *slog.Logger
}

// NewHandler creates a new Handler with the provided service and image store.
func NewHandler(service service.CatalogService, images storage.ImageStore, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		images:  images,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the catalog service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)

		r.Route("/{code}", func(r chi.Router) {
			r.Get("/", h.FindByCode)
			r.Delete("/", h.DeleteByCode)
		})
	})

	r.Get("/media/products/{filename}", h.ServeImage)
	r.Get("/healthz", h.HealthCheck)
}

// Create handles the creation of a new product from a multipart form with
// fields product_code, name, price and an optional image file.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		mLogger.WarnContext(r.Context(), "Error parsing multipart form", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	dto := service.ProductCreateDto{
		ProductCode: r.FormValue("product_code"),
		Name:        r.FormValue("name"),
		Price:       r.FormValue("price"),
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer func() { _ = file.Close() }()
		payload, readErr := io.ReadAll(file)
		if readErr != nil {
			mLogger.ErrorContext(r.Context(), "Error reading uploaded image", "error", readErr)
			web.RespondError(w, mLogger, http.StatusBadRequest, "Failed to read uploaded image")
			return
		}
		dto.Image = payload
		dto.ImageName = header.Filename
	}

	mLogger.DebugContext(r.Context(), "Received request to create product", "code", dto.ProductCode)
	created, err := h.service.Create(r.Context(), dto)
	if err != nil {
		var validationErr *cerrors.ValidationError
		switch {
		case errors.As(err, &validationErr):
			mLogger.WarnContext(r.Context(), "Validation error", "field", validationErr.Field, "error", validationErr.Message)
			web.RespondError(w, mLogger, http.StatusBadRequest, validationErr.Error())
		case errors.Is(err, cerrors.ErrDuplicateCode):
			mLogger.WarnContext(r.Context(), "Duplicate product code", "code", dto.ProductCode)
			web.RespondError(w, mLogger, http.StatusBadRequest, fmt.Sprintf("Product code %s already exists", dto.ProductCode))
		default:
			mLogger.ErrorContext(r.Context(), "Error creating product", "code", dto.ProductCode, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product")
		}
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "code", created.ProductCode, "ID", created.ID)
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// FindByCode retrieves a product by its code.
func (h *Handler) FindByCode(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	code, ok := web.ParseCode(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product", "code", code)
	found, err := h.service.FindByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, cerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "code", code)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with code %s not found", code))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "code", code, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with code %s", code))
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "code", found.ProductCode, "Name", found.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// FindAll retrieves all products, newest first.
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	mLogger.DebugContext(r.Context(), "Received request to find all products")
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// DeleteByCode deletes a product and its stored image.
func (h *Handler) DeleteByCode(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	code, ok := web.ParseCode(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to delete product", "code", code)
	if err := h.service.DeleteByCode(r.Context(), code); err != nil {
		if errors.Is(err, cerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found for deletion", "code", code)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with code %s not found", code))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting product", "code", code, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete product with code %s", code))
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "code", code)
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]string{"message": fmt.Sprintf("Product %s deleted", code)})
}

// ServeImage serves a stored product image by filename from the image directory.
func (h *Handler) ServeImage(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	filename := filepath.Base(chi.URLParam(r, "filename"))
	path := h.images.Path(filename)
	if _, err := os.Stat(path); err != nil {
		mLogger.WarnContext(r.Context(), "Image not found", "filename", filename)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Image %s not found", filename))
		return
	}
	http.ServeFile(w, r, path)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}
