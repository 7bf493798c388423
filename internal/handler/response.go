package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"insureport/internal/backend"
	"insureport/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var backendErr *backend.BackendError

	switch {
	case errors.Is(err, domain.ErrMissingInput):
		return http.StatusBadRequest, "MISSING_INPUT", "documentKey or documentBase64 and draftRecord are required"
	case errors.Is(err, domain.ErrInvalidDocument):
		return http.StatusBadRequest, "INVALID_DOCUMENT", "documentBase64 is not valid base64"
	case errors.Is(err, domain.ErrInvalidBackend):
		return http.StatusBadRequest, "INVALID_BACKEND", "backend must be one of modelA, modelB, modelC, auto"
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound, "DOCUMENT_NOT_FOUND", "stored document not found"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusServiceUnavailable, "BACKEND_UNAVAILABLE", "requested backend credential not configured"
	case errors.Is(err, domain.ErrAllBackendsFailed):
		return http.StatusBadGateway, "ALL_BACKENDS_FAILED", err.Error()
	case errors.Is(err, domain.ErrAllChunksFailed):
		return http.StatusBadGateway, "ALL_CHUNKS_FAILED", err.Error()
	case errors.Is(err, domain.ErrUnparsableResponse):
		return http.StatusInternalServerError, "UNPARSABLE_RESPONSE", "backend output could not be parsed as JSON"
	case errors.As(err, &backendErr):
		return http.StatusBadGateway, "BACKEND_ERROR", backendErr.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] %s: %v", requestID, code, err)
	}
	RespondError(c, status, code, msg)
}
