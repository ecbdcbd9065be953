package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"buymesho/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned by every call when no credentials were supplied.
var ErrNotConfigured = errors.New("media host is not configured")

// CloudinaryHost uploads into one folder and destroys by public id.
type CloudinaryHost struct {
	cld     *cloudinary.Cloudinary
	folder  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewCloudinaryHost builds a host from cfg. Missing credentials produce a host
// whose calls fail with ErrNotConfigured, so the API still starts locally.
func NewCloudinaryHost(cfg config.MediaConfig, logger *zap.Logger) (*CloudinaryHost, error) {
	h := &CloudinaryHost{
		folder:  cfg.Folder,
		timeout: cfg.Timeout,
		logger:  logger,
	}

	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		logger.Warn("Cloudinary credentials missing, media operations will fail")
		return h, nil
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	h.cld = cld

	return h, nil
}

func (h *CloudinaryHost) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}

// Upload stores r under a random public id inside the configured folder.
func (h *CloudinaryHost) Upload(ctx context.Context, r io.Reader, filename string) (string, error) {
	if h.cld == nil {
		return "", ErrNotConfigured
	}

	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	publicID := uuid.NewString()
	result, err := h.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:     publicID,
		Folder:       h.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload %s: %s", filename, result.Error.Message)
	}

	h.logger.Debug("Media uploaded",
		zap.String("filename", filename),
		zap.String("public_id", result.PublicID),
	)
	return result.SecureURL, nil
}

// Destroy removes publicID and returns the host's outcome verbatim.
func (h *CloudinaryHost) Destroy(ctx context.Context, publicID string) (string, error) {
	if h.cld == nil {
		return "", ErrNotConfigured
	}

	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	result, err := h.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return "", fmt.Errorf("failed to destroy %s: %w", publicID, err)
	}
	if result.Error.Message != "" {
		return "", errors.New(result.Error.Message)
	}

	return result.Result, nil
}
