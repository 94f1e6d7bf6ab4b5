package pagetext

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
)

// PDF reads page text with ledongthuc/pdf, rebuilding lines from text rows.
// The underlying reader is not safe for concurrent use, so page reads are
// serialized.
type PDF struct {
	mu sync.Mutex
	f  *os.File
	r  *pdf.Reader
}

// newPDFReader parses an open file; tests replace it.
var newPDFReader = pdf.NewReader

// OpenPDF opens a PDF document. The file is closed again if parsing fails or
// panics.
func OpenPDF(path string) (src Source, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentUnreadable, path, err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: pdf library panic: %v", ErrDocumentUnreadable, path, r)
		}
		if err != nil {
			f.Close()
			src = nil
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentUnreadable, path, err)
	}
	r, err := newPDFReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentUnreadable, path, err)
	}
	return &PDF{f: f, r: r}, nil
}

// PageCount returns the number of pages in the document.
func (d *PDF) PageCount() (n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: pdf library panic: %v", ErrDocumentUnreadable, r)
		}
	}()

	n = d.r.NumPage()
	if n == 0 {
		return 0, fmt.Errorf("%w: no pages", ErrDocumentUnreadable)
	}
	return n, nil
}

// PageText returns the text of page index, one line per text row.
func (d *PDF) PageText(index int) (text string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: page %d: pdf library panic: %v", ErrPageExtraction, index+1, r)
		}
	}()

	page := d.r.Page(index + 1)
	if page.V.IsNull() {
		return "", fmt.Errorf("%w: page %d not found", ErrPageExtraction, index+1)
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return "", fmt.Errorf("%w: page %d: %v", ErrPageExtraction, index+1, err)
	}

	var lines []string
	for _, row := range rows {
		parts := make([]string, 0, len(row.Content))
		for _, word := range row.Content {
			parts = append(parts, word.S)
		}
		if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("%w: page %d has no text layer", ErrPageExtraction, index+1)
	}
	return strings.Join(lines, "\n"), nil
}

// Close releases the underlying file.
func (d *PDF) Close() error {
	return d.f.Close()
}
