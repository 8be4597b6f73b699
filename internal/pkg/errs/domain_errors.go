package errs

import "errors"

// Error taxonomy shared by the allocator, administration and transport layers.
var (
	ErrNotFound          = errors.New("pool not found")
	ErrAlreadyExists     = errors.New("pool already exists")
	ErrExhausted         = errors.New("pool exhausted")
	ErrQuotaReached      = errors.New("claim quota reached")
	ErrIngestionFailed   = errors.New("code ingestion failed")
	ErrPersistenceFailed = errors.New("pool state persistence failed")
	ErrValidation        = errors.New("validation failed")
)
