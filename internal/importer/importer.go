package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInputNotFound is returned when no document in the input directory has
// an accepted extension.
var ErrInputNotFound = errors.New("no input documents found")

// FileInfo describes a document in the input directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Base returns the file name without its extension.
func (f FileInfo) Base() string {
	return strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
}

// processedDir is the subdirectory documents are archived into.
const processedDir = "processed"

// Scan returns the documents directly inside dir whose extension is one of
// exts (case-insensitive, with or without a leading dot), sorted by name.
func Scan(dir string, exts []string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory %s does not exist", ErrInputNotFound, dir)
		}
		return nil, fmt.Errorf("reading input dir: %w", err)
	}

	accept := make(map[string]bool, len(exts))
	for _, ext := range exts {
		accept["."+strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !accept[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no *.{%s} files in %s", ErrInputNotFound, strings.Join(exts, ","), dir)
	}
	return files, nil
}

// MarkProcessed moves a document from dir to dir/processed/.
func MarkProcessed(dir, fileName string) error {
	src := filepath.Join(dir, fileName)
	dstDir := filepath.Join(dir, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
