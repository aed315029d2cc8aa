// Package loader reads a directory of single-article exports into
// ordered paragraph lists. Rich-text, HTML and plain-text exports are
// supported, selected by file extension.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/presscorpus/presscorpus/pkg/domain"
)

// FormatError reports a file that could not be parsed as an article.
// The file is skipped and the rest of the batch continues.
type FormatError struct {
	File string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unparseable article file %q: %v", e.File, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Loader scans a directory for article files with a fixed extension
type Loader struct {
	ext string // normalized, with leading dot, lowercase
}

// New creates a loader for the given file extension, e.g. "rtf" or ".html"
func New(ext string) *Loader {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &Loader{ext: ext}
}

// Load reads all matching files from dir in directory-listing order.
// Unreadable directories and empty matches are fatal; files that fail
// to parse are reported as format issues and skipped, so article
// positions are contiguous over the successfully loaded files.
func (l *Loader) Load(dir string) ([]domain.RawArticle, []domain.Issue, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read article directory %q: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), l.ext) {
			files = append(files, entry.Name())
		}
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no %q files in directory %q", l.ext, dir)
	}

	var articles []domain.RawArticle
	var issues []domain.Issue
	for i, name := range files {
		path := filepath.Join(dir, name)
		paragraphs, err := l.parseFile(path)
		if err != nil {
			ferr := &FormatError{File: name, Err: err}
			lgr.Printf("[WARN] %v, skipped", ferr)
			issues = append(issues, domain.Issue{Position: i + 1, File: name, Stage: domain.StageFormat, Reason: ferr.Error()})
			continue
		}
		articles = append(articles, domain.RawArticle{
			Position:   len(articles) + 1,
			File:       name,
			Paragraphs: paragraphs,
		})
	}

	lgr.Printf("[INFO] loaded %d articles from %q, %d files skipped", len(articles), dir, len(issues))
	return articles, issues, nil
}

// parseFile reads one article file and splits it into paragraphs
func (l *Loader) parseFile(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path built from scanned directory
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var paragraphs []string
	switch l.ext {
	case ".rtf":
		paragraphs, err = parseRTF(data)
	case ".html", ".htm":
		paragraphs, err = parseHTML(data)
	default:
		paragraphs = parseText(data)
	}
	if err != nil {
		return nil, err
	}
	if len(paragraphs) == 0 {
		return nil, fmt.Errorf("no paragraphs found")
	}
	return paragraphs, nil
}

// parseText splits a plain-text export into per-line paragraphs
func parseText(data []byte) []string {
	var paragraphs []string
	for _, line := range strings.Split(string(data), "\n") {
		if p := strings.TrimSpace(line); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}
