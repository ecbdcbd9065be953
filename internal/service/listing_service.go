package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"buymesho/internal/domain"
	"buymesho/internal/repository"

	"go.uber.org/zap"
)

// Column bounds of the listings table.
const (
	maxNameLength     = 255
	maxWhatsappLength = 32
	maxPrice          = 9_999_999_999.99
)

// ListingInput is the client-supplied part of a listing. Ownership never
// comes from here.
type ListingInput struct {
	Name           Text     `json:"name"`
	Price          Price    `json:"price"`
	Description    *string  `json:"description"`
	Category       Text     `json:"category"`
	University     Text     `json:"university"`
	Photos         []string `json:"photos"`
	WhatsappNumber Text     `json:"whatsapp_number"`
}

// Validate checks fields in a fixed order and reports the first failure:
// presence and type of name, price, category, university and
// whatsapp_number, then enumeration membership, then price range and
// column lengths.
func (in *ListingInput) Validate() error {
	if !in.Name.Valid() || strings.TrimSpace(in.Name.String()) == "" {
		return invalid("name", "name is required")
	}
	if !in.Price.Numeric() {
		return invalid("price", "price must be a number")
	}
	if !in.Category.Valid() || in.Category.String() == "" {
		return invalid("category", "category is required")
	}
	if !in.University.Valid() || in.University.String() == "" {
		return invalid("university", "university is required")
	}
	if !in.WhatsappNumber.Valid() || strings.TrimSpace(in.WhatsappNumber.String()) == "" {
		return invalid("whatsapp_number", "whatsapp_number is required")
	}
	if !domain.IsCategory(in.Category.String()) {
		return invalid("category", "category is not supported")
	}
	if !domain.IsUniversity(in.University.String()) {
		return invalid("university", "university is not supported")
	}
	if in.Price.Value() < 0 {
		return invalid("price", "price must not be negative")
	}
	if in.Price.Value() > maxPrice {
		return invalid("price", "price must not exceed 9999999999.99")
	}
	if !hasCents(in.Price.Value()) {
		return invalid("price", "price must have at most 2 decimal places")
	}
	if utf8.RuneCountInString(in.Name.String()) > maxNameLength {
		return invalid("name", "name must be at most 255 characters")
	}
	if utf8.RuneCountInString(in.WhatsappNumber.String()) > maxWhatsappLength {
		return invalid("whatsapp_number", "whatsapp_number must be at most 32 characters")
	}
	return nil
}

// hasCents reports whether v has no more than two decimal places.
func hasCents(v float64) bool {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	return dot < 0 || len(s)-dot-1 <= 2
}

func (in *ListingInput) apply(l *domain.Listing) {
	l.Name = in.Name.String()
	l.Price = in.Price.Value()
	l.Description = in.Description
	l.Category = in.Category.String()
	l.University = in.University.String()
	l.WhatsappNumber = in.WhatsappNumber.String()
	l.Photos = in.Photos
	if l.Photos == nil {
		l.Photos = []string{}
	}
}

// ListingService defines the catalogue read path and the owner-only mutations.
type ListingService interface {
	List(ctx context.Context, filter repository.ListingFilter) ([]*domain.ListingView, error)
	Create(ctx context.Context, sellerUID string, in ListingInput) (int64, error)
	Update(ctx context.Context, sellerUID string, id int64, in ListingInput) error
	Delete(ctx context.Context, sellerUID string, id int64) error
}

type listingService struct {
	listings repository.ListingRepository
	sellers  repository.SellerRepository
	reports  repository.ReportRepository
	logger   *zap.Logger
}

// NewListingService creates a new instance of ListingService
func NewListingService(
	listings repository.ListingRepository,
	sellers repository.SellerRepository,
	reports repository.ReportRepository,
	logger *zap.Logger,
) ListingService {
	return &listingService{
		listings: listings,
		sellers:  sellers,
		reports:  reports,
		logger:   logger,
	}
}

// List drains the catalogue query. The result is never nil.
func (s *listingService) List(ctx context.Context, filter repository.ListingFilter) ([]*domain.ListingView, error) {
	views := []*domain.ListingView{}
	for view, err := range s.listings.Query(ctx, filter) {
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *listingService) Create(ctx context.Context, sellerUID string, in ListingInput) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}

	exists, err := s.sellers.Exists(ctx, sellerUID)
	if err != nil {
		return 0, fmt.Errorf("failed to check seller: %w", err)
	}
	if !exists {
		return 0, repository.ErrSellerNotFound
	}

	listing := &domain.Listing{SellerUID: sellerUID}
	in.apply(listing)

	if err := s.listings.Create(ctx, listing); err != nil {
		return 0, err
	}

	s.logger.Info("Listing created",
		zap.Int64("listing_id", listing.ID),
		zap.String("seller_uid", sellerUID),
	)
	return listing.ID, nil
}

// Update validates before touching the store, then enforces ownership and
// replaces the whole row.
func (s *listingService) Update(ctx context.Context, sellerUID string, id int64, in ListingInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	listing, err := s.ownedListing(ctx, sellerUID, id)
	if err != nil {
		return err
	}

	in.apply(listing)
	if err := s.listings.Update(ctx, listing); err != nil {
		return err
	}

	s.logger.Info("Listing updated", zap.Int64("listing_id", id), zap.String("seller_uid", sellerUID))
	return nil
}

// Delete removes the listing together with its reports.
func (s *listingService) Delete(ctx context.Context, sellerUID string, id int64) error {
	if _, err := s.ownedListing(ctx, sellerUID, id); err != nil {
		return err
	}

	if _, err := s.reports.DeleteByListingIDs(ctx, []int64{id}); err != nil {
		return err
	}
	if err := s.listings.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Listing deleted", zap.Int64("listing_id", id), zap.String("seller_uid", sellerUID))
	return nil
}

func (s *listingService) ownedListing(ctx context.Context, sellerUID string, id int64) (*domain.Listing, error) {
	listing, err := s.listings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if listing.SellerUID != sellerUID {
		s.logger.Warn("Listing mutation by non-owner rejected",
			zap.Int64("listing_id", id),
			zap.String("seller_uid", sellerUID),
		)
		return nil, ErrForbidden
	}

	return listing, nil
}
