package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/verilex/verilex/internal/cache"
	"github.com/verilex/verilex/internal/model"
)

// NewExtractor creates a bare extractor from configuration. An empty provider
// selects the offline heuristic extractor.
func NewExtractor(cfg model.ExtractorConfig) (Extractor, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "heuristic":
		return NewHeuristicExtractor(), nil

	case "openai":
		return NewOpenAIExtractor(cfg)

	default:
		return nil, fmt.Errorf("unknown extractor provider: %s (supported: openai, heuristic)", cfg.Provider)
	}
}

// Build assembles the configured extractor with its standard decorators:
// rate limiting for model-backed providers, and response caching when a
// cache is supplied.
func Build(cfg model.ExtractorConfig, c cache.Cache, cacheTTL time.Duration) (Extractor, error) {
	ex, err := NewExtractor(cfg)
	if err != nil {
		return nil, err
	}

	modelBacked := cfg.Provider != "" && !strings.EqualFold(cfg.Provider, "heuristic")
	if modelBacked && cfg.RequestsPerSecond > 0 {
		ex = NewLimitedExtractor(ex, cfg.RequestsPerSecond, cfg.Burst)
	}

	if c != nil {
		ex = NewCachedExtractor(ex, c, cacheTTL)
	}

	return ex, nil
}
