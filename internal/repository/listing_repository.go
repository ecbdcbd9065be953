package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"iter"

	"buymesho/internal/domain"
)

var (
	ErrListingNotFound = errors.New("listing not found")
)

// ListingRepository defines the interface for listing data access
type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	Update(ctx context.Context, listing *domain.Listing) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Listing, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]*domain.Listing, error)
	DeleteBySeller(ctx context.Context, sellerUID string) (int64, error)
	Query(ctx context.Context, filter ListingFilter) iter.Seq2[*domain.ListingView, error]
}

type listingRepository struct {
	db *sql.DB
}

// NewListingRepository creates a new instance of ListingRepository
func NewListingRepository(db *sql.DB) ListingRepository {
	return &listingRepository{db: db}
}

const listingColumns = `id, seller_uid, name, price, description, category, university, photos, whatsapp_number, created_at`

// Create inserts a listing and fills in its generated id and created_at.
func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	query := `
		INSERT INTO listings (seller_uid, name, price, description, category, university, photos, whatsapp_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	photos, err := encodePhotos(listing.Photos)
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(
		ctx,
		query,
		listing.SellerUID,
		listing.Name,
		listing.Price,
		listing.Description,
		listing.Category,
		listing.University,
		photos,
		listing.WhatsappNumber,
	).Scan(&listing.ID, &listing.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err, "fk_listings_seller") {
			return ErrSellerNotFound
		}
		return fmt.Errorf("failed to create listing: %w", err)
	}

	return nil
}

// Update replaces every mutable column. seller_uid and created_at are left untouched.
func (r *listingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	query := `
		UPDATE listings
		SET name = $2, price = $3, description = $4, category = $5,
		    university = $6, photos = $7, whatsapp_number = $8
		WHERE id = $1
	`

	photos, err := encodePhotos(listing.Photos)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(
		ctx,
		query,
		listing.ID,
		listing.Name,
		listing.Price,
		listing.Description,
		listing.Category,
		listing.University,
		photos,
		listing.WhatsappNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrListingNotFound
	}

	return nil
}

// Delete removes a single listing. Callers remove its reports first.
func (r *listingRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrListingNotFound
	}

	return nil
}

// FindByID retrieves a listing by id
func (r *listingRepository) FindByID(ctx context.Context, id int64) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	listing, err := scanListing(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to find listing by ID: %w", err)
	}

	return listing, nil
}

// ListBySeller retrieves every listing owned by sellerUID, oldest first
func (r *listingRepository) ListBySeller(ctx context.Context, sellerUID string) ([]*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE seller_uid = $1 ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, sellerUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seller listings: %w", err)
	}
	defer rows.Close()

	listings := []*domain.Listing{}
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, listing)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating seller listings: %w", err)
	}

	return listings, nil
}

// DeleteBySeller removes every listing owned by sellerUID and returns how many went.
func (r *listingRepository) DeleteBySeller(ctx context.Context, sellerUID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE seller_uid = $1`, sellerUID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete seller listings: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// Query streams the catalogue rows matching filter. Iteration stops at the
// first error, which is yielded with a nil view.
func (r *listingRepository) Query(ctx context.Context, filter ListingFilter) iter.Seq2[*domain.ListingView, error] {
	return func(yield func(*domain.ListingView, error) bool) {
		query, args := buildListingQuery(filter)

		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			yield(nil, fmt.Errorf("failed to query listings: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			view, err := scanListingView(rows)
			if err != nil {
				yield(nil, fmt.Errorf("failed to scan listing: %w", err))
				return
			}
			if !yield(view, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("error iterating listings: %w", err))
		}
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	var (
		listing     domain.Listing
		description sql.NullString
		photos      sql.NullString
	)

	err := row.Scan(
		&listing.ID,
		&listing.SellerUID,
		&listing.Name,
		&listing.Price,
		&description,
		&listing.Category,
		&listing.University,
		&photos,
		&listing.WhatsappNumber,
		&listing.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	listing.Description = nullableString(description)
	listing.Photos = decodePhotos(photos)
	return &listing, nil
}

func scanListingView(row rowScanner) (*domain.ListingView, error) {
	var (
		view        domain.ListingView
		description sql.NullString
		photos      sql.NullString
	)

	err := row.Scan(
		&view.ID,
		&view.SellerUID,
		&view.Name,
		&view.Price,
		&description,
		&view.Category,
		&view.University,
		&photos,
		&view.WhatsappNumber,
		&view.CreatedAt,
		&view.BusinessName,
		&view.BusinessLogo,
		&view.IsVerified,
	)
	if err != nil {
		return nil, err
	}

	view.Description = nullableString(description)
	view.Photos = decodePhotos(photos)
	return &view, nil
}

func encodePhotos(photos []string) (string, error) {
	if photos == nil {
		photos = []string{}
	}
	b, err := json.Marshal(photos)
	if err != nil {
		return "", fmt.Errorf("failed to encode photos: %w", err)
	}
	return string(b), nil
}

// decodePhotos never fails: a missing or malformed column reads as no photos.
func decodePhotos(raw sql.NullString) []string {
	photos := []string{}
	if !raw.Valid || raw.String == "" {
		return photos
	}
	if err := json.Unmarshal([]byte(raw.String), &photos); err != nil || photos == nil {
		return []string{}
	}
	return photos
}
