package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"insureport/internal/config"
	"insureport/internal/domain"
	"insureport/internal/port"
)

// ValidateRequest is the validate endpoint's JSON body. Exactly one of
// DocumentKey or DocumentBase64 must be set.
type ValidateRequest struct {
	DocumentKey    string              `json:"documentKey"`
	DocumentBase64 string              `json:"documentBase64"`
	DraftRecord    *domain.DraftRecord `json:"draftRecord"`
	Backend        string              `json:"backend"`
	Parallel       bool                `json:"parallel"`
	AsOfDate       string              `json:"asOfDate"`
}

// ValidateResponse pairs the validated record with processing metadata.
type ValidateResponse struct {
	Record *domain.ValidatedRecord `json:"record"`
	Meta   *domain.ValidateMeta    `json:"meta"`
}

// ValidateHandler exposes the validation core over HTTP.
type ValidateHandler struct {
	validator port.RecordValidator
	storage   port.ObjectStorage
	bucket    string
}

func NewValidateHandler(validator port.RecordValidator, storage port.ObjectStorage, cfg *config.S3Config) *ValidateHandler {
	return &ValidateHandler{validator: validator, storage: storage, bucket: cfg.Bucket}
}

// Validate handles POST /api/v1/validate.
func (h *ValidateHandler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
		return
	}

	if req.DraftRecord == nil || (req.DocumentKey == "" && req.DocumentBase64 == "") {
		HandleError(c, domain.ErrMissingInput)
		return
	}

	backendID := domain.BackendID(req.Backend)
	if backendID == "" {
		backendID = domain.BackendAuto
	}
	if !domain.ValidBackendSelectors[backendID] {
		HandleError(c, domain.ErrInvalidBackend)
		return
	}

	doc, err := h.resolveDocument(c, &req)
	if err != nil {
		HandleError(c, err)
		return
	}

	record, meta, err := h.validator.Validate(c.Request.Context(), port.ValidateInput{
		Document: doc,
		Draft:    req.DraftRecord,
		Backend:  backendID,
		Parallel: req.Parallel,
		AsOf:     req.AsOfDate,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, ValidateResponse{Record: record, Meta: meta})
}

func (h *ValidateHandler) resolveDocument(c *gin.Context, req *ValidateRequest) ([]byte, error) {
	if req.DocumentBase64 != "" {
		doc, err := base64.StdEncoding.DecodeString(req.DocumentBase64)
		if err != nil {
			return nil, domain.ErrInvalidDocument
		}
		return doc, nil
	}
	return h.storage.Download(c.Request.Context(), h.bucket, req.DocumentKey)
}
