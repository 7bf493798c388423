package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"insureport/internal/config"
	"insureport/internal/domain"
	"insureport/internal/port"
)

// DocumentHandler serves report PDF uploads into object storage.
type DocumentHandler struct {
	storage       port.ObjectStorage
	bucket        string
	maxBytes      int64
	presignExpiry int64
}

func NewDocumentHandler(storage port.ObjectStorage, cfg *config.S3Config) *DocumentHandler {
	return &DocumentHandler{
		storage:       storage,
		bucket:        cfg.Bucket,
		maxBytes:      cfg.MaxFileSizeMB * 1024 * 1024,
		presignExpiry: cfg.PresignExpiry,
	}
}

// Upload handles POST /api/v1/documents/upload (multipart, field "file").
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart field 'file' is required")
		return
	}

	if fileHeader.Size > h.maxBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "application/pdf" {
		HandleError(c, domain.ErrUnsupportedFileType)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		HandleError(c, domain.ErrUploadFailed)
		return
	}
	defer func() { _ = src.Close() }()

	key := fmt.Sprintf("uploads/%s/%s.pdf", time.Now().UTC().Format("2006/01/02"), uuid.New().String())

	_, err = h.storage.Upload(c.Request.Context(), port.UploadInput{
		Bucket:      h.bucket,
		Key:         key,
		Body:        src,
		ContentType: contentType,
		Size:        fileHeader.Size,
	})
	if err != nil {
		HandleError(c, domain.ErrUploadFailed)
		return
	}

	// The presigned link lets callers fetch the stored PDF without S3
	// credentials. Signing failure does not void the upload.
	url, err := h.storage.GetPresignedURL(c.Request.Context(), h.bucket, key, h.presignExpiry)
	if err != nil {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] PRESIGN_FAILED: %v", requestID, err)
		url = ""
	}

	RespondCreated(c, gin.H{
		"key":         key,
		"size":        fileHeader.Size,
		"contentType": contentType,
		"url":         url,
	})
}
