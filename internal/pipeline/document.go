// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jikhanjung/pdfhunter/pkg/types"
)

// TextDocument is an in-memory document over pre-extracted page texts.
// It always reports a text layer and cannot be rendered, so the
// expansion actions that need page images skip themselves.
type TextDocument struct {
	FileName string
	Pages    []string
}

// NewTextDocument wraps already-split page texts as a document.
func NewTextDocument(name string, pages []string) *TextDocument {
	return &TextDocument{FileName: name, Pages: pages}
}

// LoadTextFile reads a plain-text file as a document. Form feeds mark
// page boundaries; a file without any is a single page.
func LoadTextFile(path string) (*TextDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	pages := strings.Split(string(data), "\f")
	return NewTextDocument(filepath.Base(path), pages), nil
}

func (d *TextDocument) Name() string { return d.FileName }

func (d *TextDocument) IsPDF() bool { return false }

func (d *TextDocument) PageCount() int { return len(d.Pages) }

func (d *TextDocument) HasTextLayer() bool { return true }

func (d *TextDocument) PageText(page int) (string, error) {
	if page < 1 || page > len(d.Pages) {
		return "", fmt.Errorf("page %d out of range (1-%d)", page, len(d.Pages))
	}
	return d.Pages[page-1], nil
}

func (d *TextDocument) RenderPage(ctx context.Context, page, dpi int) (types.PageImage, error) {
	return nil, fmt.Errorf("text document has no rendered form")
}
