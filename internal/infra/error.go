package infra

import (
	"errors"
	"log/slog"

	"cdk-distributor/internal/pkg/errs"
)

type ErrorKind string

const (
	KindIOFailure       ErrorKind = "IO_FAILURE"
	KindCorruptDocument ErrorKind = "CORRUPT_DOCUMENT"
	KindTimeout         ErrorKind = "TIMEOUT"
	KindDBFailure       ErrorKind = "DB_FAILURE"
	KindUpstream        ErrorKind = "UPSTREAM_FAILURE"
)

// RepositoryError is what store and ingest adapters return, so callers can
// branch on Kind without knowing the backend.
type RepositoryError struct {
	Kind ErrorKind
	op   string
	err  error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.op + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.op
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

// WrapRepoErr logs the failure once, at the adapter, and classifies it.
func WrapRepoErr(logger *slog.Logger, kind ErrorKind, op string, err error) error {
	attrs := []any{slog.String("kind", string(kind)), slog.String("op", op)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		err = errs.Wrap(err, op)
	}
	logger.Error("infra operation failed", attrs...)

	return RepositoryError{Kind: kind, op: op, err: err}
}

func IsKind(err error, kind ErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Retryable reports whether repeating the same operation can succeed.
// A document that cannot be encoded fails the same way every time.
// Unclassified errors count as retryable.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	return !IsKind(err, KindCorruptDocument)
}
