package service

import (
	"context"
	"errors"
	"fmt"

	"buymesho/internal/domain"
	"buymesho/internal/media"
	"buymesho/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultDeleteConcurrency = 4

// MediaResult is the outcome of one best-effort destroy call.
type MediaResult struct {
	PublicID string `json:"publicId"`
	Result   string `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
}

// DeletionSummary describes a completed account teardown.
type DeletionSummary struct {
	Success            bool          `json:"success"`
	DeletedListings    int64         `json:"deletedListings"`
	DeletedMediaAssets int           `json:"deletedCloudinaryAssets"`
	MediaResults       []MediaResult `json:"cloudinaryResults"`
}

// MediaObserver is told about every destroy attempt.
type MediaObserver interface {
	MediaDeletion(result string, err error)
}

// AccountService removes a seller and everything hanging off it.
type AccountService interface {
	DeleteAccount(ctx context.Context, uid string) (*DeletionSummary, error)
}

type accountService struct {
	sellers     repository.SellerRepository
	listings    repository.ListingRepository
	reports     repository.ReportRepository
	host        media.Host
	observer    MediaObserver
	concurrency int
	logger      *zap.Logger
}

// NewAccountService creates a new instance of AccountService. observer may be nil.
func NewAccountService(
	sellers repository.SellerRepository,
	listings repository.ListingRepository,
	reports repository.ReportRepository,
	host media.Host,
	observer MediaObserver,
	concurrency int,
	logger *zap.Logger,
) AccountService {
	if concurrency <= 0 {
		concurrency = defaultDeleteConcurrency
	}
	return &accountService{
		sellers:     sellers,
		listings:    listings,
		reports:     reports,
		host:        host,
		observer:    observer,
		concurrency: concurrency,
		logger:      logger,
	}
}

// DeleteAccount loads the seller's rows, purges referenced media on a best
// effort basis and then deletes reports, listings and the seller in that
// order. Store errors abort with no summary; media errors are only recorded.
func (s *accountService) DeleteAccount(ctx context.Context, uid string) (*DeletionSummary, error) {
	seller, err := s.sellers.FindByUID(ctx, uid)
	if err != nil && !errors.Is(err, repository.ErrSellerNotFound) {
		return nil, fmt.Errorf("failed to load seller: %w", err)
	}

	listings, err := s.listings.ListBySeller(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}

	publicIDs := media.PublicIDs(collectMediaURLs(seller, listings))
	results := s.purgeMedia(ctx, publicIDs)

	var deletedListings int64
	if len(listings) > 0 {
		ids := make([]int64, len(listings))
		for i, l := range listings {
			ids[i] = l.ID
		}

		if _, err := s.reports.DeleteByListingIDs(ctx, ids); err != nil {
			return nil, err
		}
		if deletedListings, err = s.listings.DeleteBySeller(ctx, uid); err != nil {
			return nil, err
		}
	}

	if err := s.sellers.Delete(ctx, uid); err != nil {
		return nil, err
	}

	s.logger.Info("Account deleted",
		zap.String("seller_uid", uid),
		zap.Int64("deleted_listings", deletedListings),
		zap.Int("media_assets", len(publicIDs)),
	)

	return &DeletionSummary{
		Success:            true,
		DeletedListings:    deletedListings,
		DeletedMediaAssets: len(publicIDs),
		MediaResults:       results,
	}, nil
}

// purgeMedia destroys every id with bounded concurrency. It returns only
// after all attempts finish; results follow the order of ids.
func (s *accountService) purgeMedia(ctx context.Context, ids []string) []MediaResult {
	results := make([]MediaResult, len(ids))

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			result, err := s.host.Destroy(ctx, id)

			results[i] = MediaResult{PublicID: id, Result: result}
			if err != nil {
				results[i].Result = ""
				results[i].Error = err.Error()
				s.logger.Warn("Media delete failed", zap.String("public_id", id), zap.Error(err))
			}
			if s.observer != nil {
				s.observer.MediaDeletion(result, err)
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// collectMediaURLs lists every photo followed by the logo.
func collectMediaURLs(seller *domain.Seller, listings []*domain.Listing) []string {
	var urls []string
	for _, l := range listings {
		urls = append(urls, l.Photos...)
	}
	if seller != nil && seller.BusinessLogo != "" {
		urls = append(urls, seller.BusinessLogo)
	}
	return urls
}
