package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
)

var (
	// ErrNotPDF rejects uploads without a .pdf extension.
	ErrNotPDF = errors.New("only PDF uploads are accepted")

	// ErrInvalidPDF rejects files that fail structural validation.
	ErrInvalidPDF = errors.New("uploaded file is not a valid PDF")
)

// Store saves uploaded PDFs under a fixed directory, giving each a unique
// name so repeated uploads of the same file never collide.
type Store struct {
	dir      string
	validate func(path string) error
}

// New builds a Store writing into dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{
		dir: dir,
		validate: func(path string) error {
			return pdfapi.ValidateFile(path, nil)
		},
	}, nil
}

// Save streams one uploaded file to disk and validates it as a PDF. On any
// failure the partial file is removed.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	base := filepath.Base(filename)
	if !strings.EqualFold(filepath.Ext(base), ".pdf") {
		return "", ErrNotPDF
	}

	path := filepath.Join(s.dir, uuid.NewString()+"-"+base)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close upload file: %w", err)
	}

	if err := s.validate(path); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}
	return path, nil
}
