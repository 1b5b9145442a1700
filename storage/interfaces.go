package storage

import (
	"context"

	"review-digest/models"
)

// DigestWriter is the interface any digest output backend must satisfy.
// Write replaces the previous output of the backend.
type DigestWriter interface {
	Name() string
	Write(ctx context.Context, rows []models.DigestRow) error
	Close() error
}
