package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"buymesho/internal/domain"
)

var (
	ErrSellerNotFound = errors.New("seller not found")
)

// SellerRepository defines the interface for seller data access
type SellerRepository interface {
	Upsert(ctx context.Context, seller *domain.Seller) error
	FindByUID(ctx context.Context, uid string) (*domain.Seller, error)
	Exists(ctx context.Context, uid string) (bool, error)
	MarkVerified(ctx context.Context, uid string) error
	Delete(ctx context.Context, uid string) error
}

type sellerRepository struct {
	db *sql.DB
}

// NewSellerRepository creates a new instance of SellerRepository
func NewSellerRepository(db *sql.DB) SellerRepository {
	return &sellerRepository{db: db}
}

// Upsert inserts the seller or replaces the profile fields of an existing row.
// is_verified and join_date are never written here.
func (r *sellerRepository) Upsert(ctx context.Context, seller *domain.Seller) error {
	query := `
		INSERT INTO sellers (uid, email, business_name, business_logo, university, bio)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (uid) DO UPDATE
		SET email = EXCLUDED.email,
		    business_name = EXCLUDED.business_name,
		    business_logo = EXCLUDED.business_logo,
		    university = EXCLUDED.university,
		    bio = EXCLUDED.bio
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		seller.UID,
		seller.Email,
		seller.BusinessName,
		seller.BusinessLogo,
		seller.University,
		seller.Bio,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert seller: %w", err)
	}

	return nil
}

// FindByUID retrieves a seller by subject id
func (r *sellerRepository) FindByUID(ctx context.Context, uid string) (*domain.Seller, error) {
	query := `
		SELECT uid, email, business_name, business_logo, university, bio, is_verified, join_date
		FROM sellers
		WHERE uid = $1
	`

	var (
		seller domain.Seller
		bio    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, uid).Scan(
		&seller.UID,
		&seller.Email,
		&seller.BusinessName,
		&seller.BusinessLogo,
		&seller.University,
		&bio,
		&seller.IsVerified,
		&seller.JoinDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSellerNotFound
		}
		return nil, fmt.Errorf("failed to find seller by uid: %w", err)
	}

	seller.Bio = nullableString(bio)
	return &seller, nil
}

// Exists reports whether a seller row is present for uid
func (r *sellerRepository) Exists(ctx context.Context, uid string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM sellers WHERE uid = $1)`, uid).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check seller existence: %w", err)
	}
	return exists, nil
}

// MarkVerified sets is_verified. The flag only ever moves from false to true.
func (r *sellerRepository) MarkVerified(ctx context.Context, uid string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE sellers SET is_verified = TRUE WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("failed to mark seller verified: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSellerNotFound
	}

	return nil
}

// Delete removes the seller row. Deleting an absent seller is not an error.
func (r *sellerRepository) Delete(ctx context.Context, uid string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sellers WHERE uid = $1`, uid); err != nil {
		return fmt.Errorf("failed to delete seller: %w", err)
	}
	return nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
