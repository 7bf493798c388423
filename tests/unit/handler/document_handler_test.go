package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"insureport/internal/config"
	"insureport/internal/handler"
	"insureport/internal/port"
	"insureport/mocks"
)

func setupDocumentRouter(storage port.ObjectStorage, maxFileSizeMB int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewDocumentHandler(storage, &config.S3Config{
		Bucket:        "test-bucket",
		MaxFileSizeMB: maxFileSizeMB,
		PresignExpiry: 3600,
	})
	r := gin.New()
	r.POST("/api/v1/documents/upload", h.Upload)
	return r
}

func multipartPDF(t *testing.T, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="report.pdf"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestDocumentHandler_Upload(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "test-bucket" && in.ContentType == "application/pdf"
	})).Return(&port.UploadOutput{}, nil)
	storage.On("GetPresignedURL", mock.Anything, "test-bucket", mock.Anything, int64(3600)).
		Return("https://storage.example.com/signed/report.pdf", nil)

	r := setupDocumentRouter(storage, 50)

	body, contentType := multipartPDF(t, "application/pdf", []byte("%PDF-1.7 test"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Regexp(t, `^uploads/\d{4}/\d{2}/\d{2}/[0-9a-f-]+\.pdf$`, data["key"])
	assert.Equal(t, "https://storage.example.com/signed/report.pdf", data["url"])
	storage.AssertNumberOfCalls(t, "Upload", 1)
	storage.AssertNumberOfCalls(t, "GetPresignedURL", 1)
}

func TestDocumentHandler_UploadSurvivesPresignFailure(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	storage.On("GetPresignedURL", mock.Anything, "test-bucket", mock.Anything, int64(3600)).
		Return("", assert.AnError)

	r := setupDocumentRouter(storage, 50)

	body, contentType := multipartPDF(t, "application/pdf", []byte("%PDF-1.7 test"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, "", data["url"])
}

func TestDocumentHandler_MissingFile(t *testing.T) {
	r := setupDocumentRouter(new(mocks.MockObjectStorage), 50)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", bytes.NewReader(nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILE", decodeResponse(t, w).Error.Code)
}

func TestDocumentHandler_RejectsNonPDF(t *testing.T) {
	r := setupDocumentRouter(new(mocks.MockObjectStorage), 50)

	body, contentType := multipartPDF(t, "image/png", []byte("not a pdf"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", decodeResponse(t, w).Error.Code)
}

func TestDocumentHandler_RejectsOversizedFile(t *testing.T) {
	// 1MB cap; send a 2MB payload.
	r := setupDocumentRouter(new(mocks.MockObjectStorage), 1)

	body, contentType := multipartPDF(t, "application/pdf", bytes.Repeat([]byte("x"), 2*1024*1024))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "FILE_TOO_LARGE", decodeResponse(t, w).Error.Code)
}
