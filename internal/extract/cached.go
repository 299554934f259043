package extract

import (
	"context"
	"encoding/json"
	"time"

	"github.com/verilex/verilex/internal/cache"
	"github.com/verilex/verilex/internal/model"
)

// CachedExtractor wraps another extractor with a response cache keyed by
// document content. Re-verifying an unchanged document (including a revise
// cycle's neighbors in a batch) does not re-bill the model.
type CachedExtractor struct {
	inner Extractor
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedExtractor wraps inner with the given cache
func NewCachedExtractor(inner Extractor, c cache.Cache, ttl time.Duration) *CachedExtractor {
	return &CachedExtractor{inner: inner, cache: c, ttl: ttl}
}

// Name returns the wrapped provider's name
func (e *CachedExtractor) Name() string { return e.inner.Name() }

// Classify returns a cached classification when one exists for this text
func (e *CachedExtractor) Classify(ctx context.Context, rawText string) (*model.Classification, error) {
	key := cache.Key("classify", e.inner.Name(), rawText)

	if data, found := e.cache.Get(key); found {
		var cls model.Classification
		if err := json.Unmarshal(data, &cls); err == nil {
			return &cls, nil
		}
		_ = e.cache.Delete(key)
	}

	cls, err := e.inner.Classify(ctx, rawText)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(cls); err == nil {
		_ = e.cache.Set(key, data, e.ttl)
	}
	return cls, nil
}

// ExtractFacts returns cached facts when they exist for this text and type
func (e *CachedExtractor) ExtractFacts(ctx context.Context, rawText string, docType model.DocumentType) (*model.RawFacts, error) {
	key := cache.Key("facts", e.inner.Name(), string(docType.Normalize()), rawText)

	if data, found := e.cache.Get(key); found {
		var facts model.RawFacts
		if err := json.Unmarshal(data, &facts); err == nil {
			return &facts, nil
		}
		_ = e.cache.Delete(key)
	}

	facts, err := e.inner.ExtractFacts(ctx, rawText, docType)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(facts); err == nil {
		_ = e.cache.Set(key, data, e.ttl)
	}
	return facts, nil
}
