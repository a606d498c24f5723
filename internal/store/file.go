package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
)

// FileStore writes the final draft as plain text to a fixed path, optionally
// with a Markdown-rendered HTML copy next to it.
type FileStore struct {
	dir  string
	name string
	html bool
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithHTML also renders each saved draft as HTML beside the text file.
func WithHTML(enabled bool) FileOption {
	return func(s *FileStore) { s.html = enabled }
}

func NewFileStore(dir, name string, opts ...FileOption) (*FileStore, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("output file name required")
	}
	if dir == "" {
		dir = "."
	}
	s := &FileStore{dir: dir, name: name}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path is the file the draft is written to.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, s.name)
}

// HTMLPath is Path with its extension replaced by .html.
func (s *FileStore) HTMLPath() string {
	return strings.TrimSuffix(s.Path(), filepath.Ext(s.name)) + ".html"
}

func (s *FileStore) Prepare(_ context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", s.dir, err)
	}
	return nil
}

// SaveDraft writes the draft. When HTML output is on, the HTML copy is
// rendered and written first, so a failed HTML write leaves the previous text
// file in place and an error always means the text file was not replaced.
func (s *FileStore) SaveDraft(ctx context.Context, draft string) error {
	if draft == "" {
		return ErrEmptyDraft
	}
	if err := s.Prepare(ctx); err != nil {
		return err
	}
	if s.html {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(draft), &buf); err != nil {
			return fmt.Errorf("render draft html: %w", err)
		}
		if err := s.writeAtomic(s.HTMLPath(), buf.Bytes()); err != nil {
			return fmt.Errorf("save draft html to %s: %w", s.HTMLPath(), err)
		}
	}
	if err := s.writeAtomic(s.Path(), []byte(draft)); err != nil {
		return fmt.Errorf("save draft to %s: %w", s.Path(), err)
	}
	return nil
}

// writeAtomic replaces path via a temp file and rename so a failed write
// never leaves a truncated file behind.
func (s *FileStore) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	return os.Rename(tmpName, path)
}
