package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/verilex/verilex/internal/model"
	"github.com/verilex/verilex/internal/pipeline"
)

// Verifier runs one document through the verification pipeline. Satisfied by
// *pipeline.Runner.
type Verifier interface {
	Start(ctx context.Context, req pipeline.StartRequest) (*model.VerificationRecord, error)
}

// VerifyJob verifies one document file
type VerifyJob struct {
	Path     string
	DocType  model.DocumentType
	Verifier Verifier
}

// VerifyResult pairs a document file with its verification outcome. Record
// may be non-nil even when Error is set: failed runs keep partial results.
type VerifyResult struct {
	Path   string
	Record *model.VerificationRecord
	Error  error
}

// Err returns the verification error, if any
func (r *VerifyResult) Err() error { return r.Error }

// Execute reads the document and runs the pipeline on it. The file name
// (without extension) becomes the document ID.
func (j *VerifyJob) Execute(ctx context.Context) Result {
	data, err := os.ReadFile(j.Path)
	if err != nil {
		return &VerifyResult{Path: j.Path, Error: fmt.Errorf("read document: %w", err)}
	}

	record, err := j.Verifier.Start(ctx, pipeline.StartRequest{
		DocumentID:   documentID(j.Path),
		DocumentType: j.DocType,
		RawText:      string(data),
	})
	return &VerifyResult{Path: j.Path, Record: record, Error: err}
}

func documentID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// BatchProcessor verifies many documents in parallel. Each document gets its
// own pipeline run; there is no shared mutable state between them, so a slow
// or failing extractor call on one document never blocks the others.
type BatchProcessor struct {
	verifier    Verifier
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(verifier Verifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{verifier: verifier, concurrency: concurrency}
}

// ProcessPaths verifies the given document files concurrently
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string, docType model.DocumentType) []*VerifyResult {
	if len(paths) == 0 {
		return []*VerifyResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		for _, path := range paths {
			pool.Submit(&VerifyJob{Path: path, DocType: docType, Verifier: b.verifier})
		}
		pool.Close()
	}()

	results := pool.Collect()
	out := make([]*VerifyResult, len(results))
	for i, res := range results {
		out[i] = res.(*VerifyResult)
	}
	return out
}

// ProcessDir verifies every document file in a directory
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string, docType model.DocumentType) ([]*VerifyResult, error) {
	paths, err := ListDocuments(dir)
	if err != nil {
		return nil, err
	}
	return b.ProcessPaths(ctx, paths, docType), nil
}

// ListDocuments returns the text documents in a directory, sorted by name
func ListDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read document dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".txt", ".md", ".text":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
