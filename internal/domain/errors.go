package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateSKU is returned when the sku unique constraint rejects a write.
	ErrDuplicateSKU = errors.New("sku already exists")
	// ErrValidation marks malformed input rejected before reaching the engine.
	ErrValidation = errors.New("validation failed")
	// ErrMalformedPayload means an image payload could not be parsed or decoded.
	ErrMalformedPayload = errors.New("malformed image payload")
	// ErrStorageWrite means the object store rejected or failed an upload.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrImageIngest wraps any failure of the image ingestion step.
	ErrImageIngest = errors.New("image ingest failed")
)
