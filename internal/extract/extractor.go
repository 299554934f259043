package extract

import (
	"context"
	"errors"

	"github.com/verilex/verilex/internal/model"
)

// Errors an extractor can report. The pipeline maps either to a failed stage
// with a distinguishable failure reason; it never retries on its own.
var (
	// ErrModelUnavailable means the backing capability could not be reached
	// or refused the request
	ErrModelUnavailable = errors.New("extraction model unavailable")

	// ErrMalformedResponse means the capability answered but the response
	// could not be turned into usable facts
	ErrMalformedResponse = errors.New("malformed extraction response")
)

// Extractor turns raw document text into structured facts. Implementations
// wrap an LLM or a deterministic heuristic; the pipeline treats them as an
// opaque, potentially failing capability.
type Extractor interface {
	// Classify identifies the document type, parties and key dates
	Classify(ctx context.Context, rawText string) (*model.Classification, error)

	// ExtractFacts pulls renewal dates, obligations and compliance
	// statements out of the text. The statements carry the extractor's
	// per-regulation coverage judgment; the matcher consumes it as-is.
	ExtractFacts(ctx context.Context, rawText string, docType model.DocumentType) (*model.RawFacts, error)

	// Name identifies the provider for logs and reports
	Name() string
}
