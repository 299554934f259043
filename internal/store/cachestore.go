package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/verilex/verilex/internal/cache"
	"github.com/verilex/verilex/internal/model"
)

// CacheStore persists records as JSON into any cache backend. With a memory
// cache it serves the API server; with a disk or layered cache suspended
// runs survive process restarts, which is what the CLI review flow needs.
type CacheStore struct {
	cache cache.Cache
}

// NewCacheStore creates a store on top of the given cache backend
func NewCacheStore(c cache.Cache) *CacheStore {
	return &CacheStore{cache: c}
}

func recordKey(documentID string) string {
	return "record:" + documentID
}

// Save persists the record, replacing any previous version
func (s *CacheStore) Save(_ context.Context, record *model.VerificationRecord) error {
	if record.DocumentID == "" {
		return fmt.Errorf("save record: empty document ID")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", record.DocumentID, err)
	}

	// Records never expire on their own; lifecycle is explicit
	if err := s.cache.Set(recordKey(record.DocumentID), data, -1); err != nil {
		return fmt.Errorf("persist record %s: %w", record.DocumentID, err)
	}
	return nil
}

// Get loads a record by document ID
func (s *CacheStore) Get(_ context.Context, documentID string) (*model.VerificationRecord, error) {
	data, found := s.cache.Get(recordKey(documentID))
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, documentID)
	}

	var record model.VerificationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", documentID, err)
	}
	return &record, nil
}

// Delete removes a record
func (s *CacheStore) Delete(_ context.Context, documentID string) error {
	return s.cache.Delete(recordKey(documentID))
}
