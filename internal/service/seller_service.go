package service

import (
	"context"

	"buymesho/internal/domain"
	"buymesho/internal/identity"
	"buymesho/internal/repository"

	"go.uber.org/zap"
)

// SellerInput is the profile body. The subject id always comes from the
// verified credential; a uid in the body is ignored.
type SellerInput struct {
	Email        string  `json:"email" validate:"required,email,max=255"`
	BusinessName string  `json:"business_name" validate:"required,max=255"`
	BusinessLogo string  `json:"business_logo" validate:"required,url"`
	University   string  `json:"university" validate:"required,university"`
	Bio          *string `json:"bio" validate:"omitempty,max=2000"`
}

// SellerService defines seller profile operations
type SellerService interface {
	Upsert(ctx context.Context, uid string, in SellerInput) error
	Get(ctx context.Context, uid string) (*domain.Seller, error)
	Verify(ctx context.Context, caller *identity.Identity) error
}

type sellerService struct {
	sellers repository.SellerRepository
	logger  *zap.Logger
}

// NewSellerService creates a new instance of SellerService
func NewSellerService(sellers repository.SellerRepository, logger *zap.Logger) SellerService {
	return &sellerService{sellers: sellers, logger: logger}
}

func (s *sellerService) Upsert(ctx context.Context, uid string, in SellerInput) error {
	seller := &domain.Seller{
		UID:          uid,
		Email:        in.Email,
		BusinessName: in.BusinessName,
		BusinessLogo: in.BusinessLogo,
		University:   in.University,
		Bio:          in.Bio,
	}

	if err := s.sellers.Upsert(ctx, seller); err != nil {
		return err
	}

	s.logger.Info("Seller profile synced", zap.String("seller_uid", uid))
	return nil
}

func (s *sellerService) Get(ctx context.Context, uid string) (*domain.Seller, error) {
	return s.sellers.FindByUID(ctx, uid)
}

// Verify marks the caller's profile verified once the provider vouches for
// the email address. Nothing ever clears the flag.
func (s *sellerService) Verify(ctx context.Context, caller *identity.Identity) error {
	if !caller.EmailVerified {
		return ErrEmailNotVerified
	}

	if err := s.sellers.MarkVerified(ctx, caller.UID); err != nil {
		return err
	}

	s.logger.Info("Seller verified", zap.String("seller_uid", caller.UID))
	return nil
}
