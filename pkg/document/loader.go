package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrUnsupportedFileType = errors.New("unsupported file type")

// RawDocument is the text of one source unit: a whole text file or a single PDF page.
type RawDocument struct {
	Source  string
	Page    int // 1-based for PDFs, 0 for text files
	Content string
}

// IsSupported reports whether the loader understands the file extension.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".txt":
		return true
	}
	return false
}

// Load reads a file by extension. PDFs produce one document per page with text.
func Load(path string) ([]RawDocument, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return loadPDF(path)
	case ".txt":
		return loadText(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, filepath.Ext(path))
	}
}

func loadText(path string) ([]RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return []RawDocument{{Source: path, Content: string(content)}}, nil
}

func loadPDF(path string) ([]RawDocument, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		if f != nil {
			f.Close()
		}
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var docs []RawDocument
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("read pdf %s page %d: %w", path, i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, RawDocument{Source: path, Page: i, Content: text})
	}
	return docs, nil
}

// Scan loads every supported file directly under dir. Files that fail to load are reported via
// onError and skipped.
func Scan(dir string, onError func(path string, err error)) ([]RawDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var docs []RawDocument
	for _, entry := range entries {
		if entry.IsDir() || !IsSupported(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		loaded, err := Load(path)
		if err != nil {
			if onError != nil {
				onError(path, err)
			}
			continue
		}
		docs = append(docs, loaded...)
	}
	return docs, nil
}
