package pagetext

import (
	"fmt"
	"os"
	"strings"
)

// PageSeparator divides pages in a text dump.
const PageSeparator = "--page--"

// Pages is an in-memory Source, one string per page.
type Pages []string

// PageCount returns the number of pages.
func (p Pages) PageCount() (int, error) { return len(p), nil }

// PageText returns page index.
func (p Pages) PageText(index int) (string, error) {
	if index < 0 || index >= len(p) {
		return "", fmt.Errorf("%w: page %d out of range", ErrPageExtraction, index+1)
	}
	return p[index], nil
}

// Close is a no-op.
func (p Pages) Close() error { return nil }

// OpenText reads a text dump whose pages are separated by PageSeparator.
func OpenText(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}
	return SplitPages(string(data)), nil
}

// SplitPages splits a text dump into pages.
func SplitPages(text string) Pages {
	return Pages(strings.Split(text, PageSeparator))
}

// JoinPages is the inverse of SplitPages.
func JoinPages(pages []string) string {
	return strings.Join(pages, PageSeparator)
}
