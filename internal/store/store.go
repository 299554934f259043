package store

import (
	"context"
	"errors"

	"github.com/verilex/verilex/internal/model"
)

// ErrNotFound is returned when no record exists for a document ID
var ErrNotFound = errors.New("verification record not found")

// Store persists verification records across the review suspension barrier.
// A record saved with status AwaitingReview is inert until Resume loads it
// again, so the backing store is what makes the pipeline restart-safe. Swap
// with concrete storage without touching the pipeline.
type Store interface {
	Save(ctx context.Context, record *model.VerificationRecord) error
	Get(ctx context.Context, documentID string) (*model.VerificationRecord, error)
	Delete(ctx context.Context, documentID string) error
}
