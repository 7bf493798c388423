package domain

import "errors"

var (
	ErrMissingInput        = errors.New("required input missing")
	ErrInvalidDocument     = errors.New("document payload is not decodable")
	ErrInvalidBackend      = errors.New("invalid backend selector")
	ErrDocumentNotFound    = errors.New("stored document not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrBackendUnavailable  = errors.New("backend credential not configured")
	ErrUnparsableResponse  = errors.New("backend response is not recoverable as JSON")
	ErrAllBackendsFailed   = errors.New("all backends failed or were unavailable")
	ErrAllChunksFailed     = errors.New("every document chunk failed to process")
)
