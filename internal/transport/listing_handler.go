package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"buymesho/internal/middleware"
	"buymesho/internal/repository"
	"buymesho/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type createListingResponse struct {
	ID int64 `json:"id"`
}

// ListingHandler handles HTTP requests for listing operations
type ListingHandler struct {
	listings service.ListingService
	logger   *zap.Logger
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(listings service.ListingService, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{listings: listings, logger: logger}
}

// RegisterRoutes registers the catalogue and owner-only listing routes
func (h *ListingHandler) RegisterRoutes(r chi.Router, authMiddleware Middleware) {
	r.Get("/listings", h.List)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/listings", h.Create)
		r.Put("/listings/{id}", h.Update)
		r.Delete("/listings/{id}", h.Delete)
	})
}

// List handles the public catalogue query
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ListingFilter{
		Category:   q.Get("category"),
		University: q.Get("university"),
		Search:     q.Get("search"),
		SortBy:     q.Get("sortBy"),
	}

	views, err := h.listings.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to fetch listings")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, views)
}

// decodeInput reads a listing body. Field types are checked by Validate, and
// an empty body decodes to an empty input so the first missing field is
// reported.
func (h *ListingHandler) decodeInput(w http.ResponseWriter, r *http.Request) (service.ListingInput, bool) {
	var in service.ListingInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Debug("Listing decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, msgInvalidBody)
		return in, false
	}
	return in, true
}

// Create handles listing creation for the authenticated seller
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.GetUserID(r.Context())

	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	id, err := h.listings.Create(r.Context(), uid, in)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create listing")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, createListingResponse{ID: id})
}

// Update handles a full replacement of an owned listing
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.GetUserID(r.Context())

	id, ok := listingID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, msgInvalidListingID)
		return
	}

	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	if err := h.listings.Update(r.Context(), uid, id, in); err != nil {
		respondServiceError(w, h.logger, err, "Failed to update listing")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, successResponse{Success: true})
}

// Delete handles removal of an owned listing
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.GetUserID(r.Context())

	id, ok := listingID(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, msgInvalidListingID)
		return
	}

	if err := h.listings.Delete(r.Context(), uid, id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete listing")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, successResponse{Success: true})
}
