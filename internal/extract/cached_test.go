package extract

import (
	"context"
	"testing"
	"time"

	"github.com/verilex/verilex/internal/cache"
	"github.com/verilex/verilex/internal/model"
)

// countingExtractor counts how often the inner provider is hit
type countingExtractor struct {
	classifyCalls int
	factsCalls    int
}

func (c *countingExtractor) Classify(_ context.Context, _ string) (*model.Classification, error) {
	c.classifyCalls++
	return &model.Classification{DocumentType: model.DocTypeContract}, nil
}

func (c *countingExtractor) ExtractFacts(_ context.Context, _ string, _ model.DocumentType) (*model.RawFacts, error) {
	c.factsCalls++
	return &model.RawFacts{
		ComplianceStatements: []model.ComplianceStatement{
			{RegulationID: "clause-termination", Satisfied: true},
		},
	}, nil
}

func (c *countingExtractor) Name() string { return "counting" }

func TestCachedExtractor_SecondCallHitsCache(t *testing.T) {
	inner := &countingExtractor{}
	cached := NewCachedExtractor(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)
	ctx := context.Background()

	first, err := cached.Classify(ctx, "some contract")
	if err != nil {
		t.Fatal(err)
	}
	second, err := cached.Classify(ctx, "some contract")
	if err != nil {
		t.Fatal(err)
	}

	if inner.classifyCalls != 1 {
		t.Errorf("Expected 1 inner classify call, got %d", inner.classifyCalls)
	}
	if first.DocumentType != second.DocumentType {
		t.Errorf("Expected identical cached classification, got %s vs %s", first.DocumentType, second.DocumentType)
	}

	// Different text misses
	if _, err := cached.Classify(ctx, "a different contract"); err != nil {
		t.Fatal(err)
	}
	if inner.classifyCalls != 2 {
		t.Errorf("Expected a cache miss for different text, got %d inner calls", inner.classifyCalls)
	}
}

func TestCachedExtractor_FactsKeyedByDocType(t *testing.T) {
	inner := &countingExtractor{}
	cached := NewCachedExtractor(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)
	ctx := context.Background()

	if _, err := cached.ExtractFacts(ctx, "text", model.DocTypeContract); err != nil {
		t.Fatal(err)
	}
	if _, err := cached.ExtractFacts(ctx, "text", model.DocTypeContract); err != nil {
		t.Fatal(err)
	}
	if inner.factsCalls != 1 {
		t.Errorf("Expected 1 inner facts call for repeated doc type, got %d", inner.factsCalls)
	}

	if _, err := cached.ExtractFacts(ctx, "text", model.DocTypeLicense); err != nil {
		t.Fatal(err)
	}
	if inner.factsCalls != 2 {
		t.Errorf("Expected a miss for a different doc type, got %d inner calls", inner.factsCalls)
	}
}

func TestBuild_Providers(t *testing.T) {
	tests := []struct {
		provider string
		wantName string
		wantErr  bool
	}{
		{"", "heuristic", false},
		{"heuristic", "heuristic", false},
		{"carrier-pigeon", "", true},
	}

	for _, tt := range tests {
		ex, err := Build(model.ExtractorConfig{Provider: tt.provider}, nil, 0)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Expected an error for provider %q", tt.provider)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Expected no error for provider %q, got %v", tt.provider, err)
		}
		if ex.Name() != tt.wantName {
			t.Errorf("Expected provider name %q, got %q", tt.wantName, ex.Name())
		}
	}
}

func TestBuild_WrapsWithCache(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	ex, err := Build(model.ExtractorConfig{Provider: "heuristic"}, c, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ex.(*CachedExtractor); !ok {
		t.Errorf("Expected a cached extractor, got %T", ex)
	}
}
