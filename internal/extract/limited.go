package extract

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/verilex/verilex/internal/model"
)

// LimitedExtractor throttles calls to the underlying provider with a token
// bucket. Batch runs share one LimitedExtractor so concurrent workers cannot
// exceed the provider's rate limits between them.
type LimitedExtractor struct {
	inner   Extractor
	limiter *rate.Limiter
}

// NewLimitedExtractor wraps inner with the given requests-per-second limit
func NewLimitedExtractor(inner Extractor, requestsPerSecond float64, burst int) *LimitedExtractor {
	if burst <= 0 {
		burst = 1
	}
	return &LimitedExtractor{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Name returns the wrapped provider's name
func (e *LimitedExtractor) Name() string { return e.inner.Name() }

// Classify waits for rate clearance, then delegates
func (e *LimitedExtractor) Classify(ctx context.Context, rawText string) (*model.Classification, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return e.inner.Classify(ctx, rawText)
}

// ExtractFacts waits for rate clearance, then delegates
func (e *LimitedExtractor) ExtractFacts(ctx context.Context, rawText string, docType model.DocumentType) (*model.RawFacts, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return e.inner.ExtractFacts(ctx, rawText, docType)
}
