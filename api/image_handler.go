package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mvaldes/portfolio-backend/errs"
	"github.com/mvaldes/portfolio-backend/storage"
)

// maxImageSize caps uploads at 5MB, matching the frontend validation
const maxImageSize = 5 << 20

type imageHandler struct {
	responder  Responder
	logger     zerolog.Logger
	imageStore *storage.ImageStore
}

func newImageHandler(imageStore *storage.ImageStore) imageHandler {
	logger := log.With().Str("handlerName", "imageHandler").Logger()

	return imageHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		imageStore: imageStore,
	}
}

// uploadImage stores a project image and returns its public URL and
// object key. Accepts multipart form data with an "image" file field;
// an optional "previousImageUrl" field names an older image that is
// deleted best-effort before the upload.
// @Summary Upload project image
// @Tags Storage
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file (max 5MB)"
// @Param previousImageUrl formData string false "URL of the image being replaced"
// @Success 200 {object} map[string]string "Public URL and object key"
// @Failure 413 {object} ErrorResponse "Request Entity Too Large"
// @Failure 415 {object} ErrorResponse "Unsupported Media Type"
// @Failure 503 {object} ErrorResponse "Service Unavailable - bucket missing"
// @Router /image [post]
func (h imageHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+512*1024)

		if err := r.ParseMultipartForm(maxImageSize); err != nil {
			// Only a body over the reader cap is a size problem; any
			// other parse failure is a malformed payload.
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxImageSize))
				return
			}
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("image"))
			return
		}
		defer file.Close()

		if header.Size > maxImageSize {
			h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxImageSize))
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to read uploaded file")
			h.responder.WriteError(w, errs.NewBadRequestError("failed to read uploaded file"))
			return
		}

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
		if !strings.HasPrefix(contentType, "image/") {
			h.responder.WriteError(w, errs.NewUnsupportedMediaTypeError(contentType, []string{"image/*"}))
			return
		}

		// Replace-flow: drop the previous image first, best-effort
		if previous := r.FormValue("previousImageUrl"); previous != "" {
			if err := h.imageStore.DeleteByURL(r.Context(), previous); err != nil {
				h.logger.Error().Err(err).Str("previousImageUrl", previous).Msg("Failed to delete previous image")
			}
		}

		key := generateImageKey(header.Filename)

		url, err := h.imageStore.Upload(r.Context(), data, key, contentType)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"url":  url,
			"path": key,
		})
	}
}

// deleteImage removes a stored image by its public URL
// @Summary Delete project image
// @Tags Storage
// @Produce json
// @Param url query string true "Public URL of the stored image"
// @Success 200 {object} map[string]string "Success message"
// @Failure 400 {object} ErrorResponse "Bad Request - missing or foreign URL"
// @Router /image [delete]
func (h imageHandler) deleteImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url := r.URL.Query().Get("url")
		if url == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("url"))
			return
		}

		if err := h.imageStore.DeleteByURL(r.Context(), url); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "image deleted successfully",
		})
	}
}

// bucketStatus reports whether the image bucket exists. The frontend
// polls this before enabling uploads so it can show setup instructions.
// @Summary Check storage bucket
// @Tags Storage
// @Produce json
// @Success 200 {object} map[string]any "Bucket name and existence"
// @Router /storage/status [get]
func (h imageHandler) bucketStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exists, err := h.imageStore.BucketExists(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to check storage bucket", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"bucket": h.imageStore.Bucket(),
			"exists": exists,
		})
	}
}

// generateImageKey builds a collision-resistant object key from the
// upload timestamp, a random suffix and the original file extension.
func generateImageKey(originalName string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), suffix, ext)
}
