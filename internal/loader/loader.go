// Package loader reads the knowledge corpus from disk.
package loader

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"allison/internal/domain"
)

// Load expands each path as a glob and reads every .txt and .pdf file
// it finds. Paths without glob metacharacters are read directly.
func Load(paths []string) ([]domain.Document, error) {
	var documents []domain.Document
	for _, p := range paths {
		matches, _ := filepath.Glob(p)
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			var content string
			var err error
			switch strings.ToLower(filepath.Ext(m)) {
			case ".txt":
				content, err = readText(m)
			case ".pdf":
				content, err = readPDF(m)
			default:
				continue
			}
			if err != nil {
				return nil, err
			}
			documents = append(documents, domain.Document{
				ID:      hashString(m),
				Path:    m,
				Content: content,
			})
		}
	}
	if len(documents) == 0 {
		return nil, fmt.Errorf("no .txt or .pdf documents found")
	}
	return documents, nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readPDF(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer doc.Close()

	var b strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d of %s: %w", i, path, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
