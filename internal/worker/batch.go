package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/qezhu/medqc/internal/model"
	"github.com/qezhu/medqc/internal/pipeline"
)

// Checker runs quality control on a single document.
type Checker interface {
	Check(ctx context.Context, doc model.Document) (*pipeline.Result, error)
}

// CheckJob validates one document file.
type CheckJob struct {
	Path     string
	Document model.Document
	Checker  Checker
}

// Execute runs the check for the job's document.
func (j *CheckJob) Execute(ctx context.Context) Result {
	result, err := j.Checker.Check(ctx, j.Document)
	return &CheckResult{
		Path:   j.Path,
		Result: result,
		Error:  err,
	}
}

// CheckResult is the outcome of validating one document file.
type CheckResult struct {
	Path   string
	Result *pipeline.Result
	Error  error
}

// GetError returns the error from the check result.
func (r *CheckResult) GetError() error {
	return r.Error
}

// BatchProcessor validates multiple documents concurrently.
type BatchProcessor struct {
	checker     Checker
	concurrency int
}

// NewBatchProcessor creates a new batch processor.
func NewBatchProcessor(checker Checker, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
}

// InputDocument pairs a document with the file it was loaded from.
type InputDocument struct {
	Path     string
	Document model.Document
}

// Process validates the given documents concurrently. Results are sorted by
// path so batch output is stable regardless of worker scheduling.
func (b *BatchProcessor) Process(ctx context.Context, docs []InputDocument) []*CheckResult {
	if len(docs) == 0 {
		return []*CheckResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, in := range docs {
		pool.Submit(&CheckJob{
			Path:     in.Path,
			Document: in.Document,
			Checker:  b.checker,
		})
	}

	results := pool.Wait()

	checkResults := make([]*CheckResult, len(results))
	for i, result := range results {
		checkResults[i] = result.(*CheckResult)
	}
	sort.Slice(checkResults, func(i, j int) bool {
		return checkResults[i].Path < checkResults[j].Path
	})

	return checkResults
}

// ProcessDir loads every document file in a directory and validates them
// concurrently.
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*CheckResult, error) {
	docs, err := ReadDocuments(dir)
	if err != nil {
		return nil, fmt.Errorf("read documents: %w", err)
	}
	return b.Process(ctx, docs), nil
}

// ReadDocuments loads all .json, .yaml and .yml files in dir as documents.
func ReadDocuments(dir string) ([]InputDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var docs []InputDocument
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		doc, err := LoadDocument(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		docs = append(docs, InputDocument{Path: path, Document: doc})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// LoadDocument parses a document file by its extension.
func LoadDocument(path string) (model.Document, error) {
	var doc model.Document

	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return doc, fmt.Errorf("parse json: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return doc, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return doc, fmt.Errorf("unsupported document format %q", filepath.Ext(path))
	}

	if doc.DocumentType == "" {
		return doc, fmt.Errorf("document %s has no document_type", path)
	}
	return doc, nil
}
