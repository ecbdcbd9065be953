package transport

import (
	"errors"
	"net/http"

	"buymesho/internal/media"
	"buymesho/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultMaxUploadBytes = 10 << 20

type uploadResponse struct {
	URL string `json:"url"`
}

type uploadStatusResponse struct {
	Status string `json:"status"`
	Method string `json:"method"`
}

// UploadHandler forwards a single multipart image to the media host.
type UploadHandler struct {
	host     media.Host
	maxBytes int64
	logger   *zap.Logger
}

func NewUploadHandler(host media.Host, maxBytes int64, logger *zap.Logger) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &UploadHandler{host: host, maxBytes: maxBytes, logger: logger}
}

func (h *UploadHandler) RegisterRoutes(r chi.Router, limit Middleware) {
	r.Get("/upload", h.Status)
	r.With(orPassthrough(limit)).Post("/upload", h.Upload)
	r.With(orPassthrough(limit)).Post("/upload/", h.Upload)
}

func (h *UploadHandler) Status(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, uploadStatusResponse{Status: "ready", Method: "POST required"})
}

// Upload reads the "image" field and answers with the hosted URL.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Room for the multipart envelope on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.logger.Debug("Multipart parse failed", zap.Error(err))
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, "File upload error", map[string]interface{}{
			"message": err.Error(),
		})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.logger.Debug("No file in upload request", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, "File upload error", map[string]interface{}{
			"message": "file too large",
		})
		return
	}

	url, err := h.host.Upload(r.Context(), file, header.Filename)
	if err != nil {
		h.logger.Error("Upload failed", zap.String("filename", header.Filename), zap.Error(err))
		middleware.RespondWithErrorDetails(w, http.StatusInternalServerError, "Upload failed", map[string]interface{}{
			"message": err.Error(),
		})
		return
	}

	h.logger.Info("Image uploaded", zap.String("url", url))
	middleware.RespondWithJSON(w, http.StatusOK, uploadResponse{URL: url})
}
