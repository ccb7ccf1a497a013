// Package fs resolves ingestion inputs on the local filesystem.
package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adamani-ai/rag"
)

// ErrNoMatches indicates a pattern matched no ingestible file.
var ErrNoMatches = errors.New("no matching files")

// LoadDocument reads the file at path into an upload. The upload is not
// validated; rag.Assistant.Ingest does that before submitting.
func LoadDocument(path string, useOCR bool) (rag.DocumentUpload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return rag.DocumentUpload{}, fmt.Errorf("fs: %w", err)
	}
	if info.IsDir() {
		return rag.DocumentUpload{}, fmt.Errorf("fs: %s is a directory: %w", path, rag.ErrValidation)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return rag.DocumentUpload{}, fmt.Errorf("fs: %w", err)
	}
	return rag.DocumentUpload{
		Filename: filepath.Base(path),
		Data:     data,
		UseOCR:   useOCR,
	}, nil
}
