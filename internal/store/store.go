// Package store keeps uploaded documents on disk and loads them back as
// analyzable text.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"policyrag/internal/domain"
	"policyrag/internal/logger"
	"policyrag/internal/parser"
)

var (
	// ErrHidden is returned for file names that start with a dot.
	ErrHidden = errors.New("hidden file")
	// ErrInvalidName is returned when an upload has no usable file name.
	ErrInvalidName = errors.New("invalid file name")
)

const timestampLayout = "20060102_150405"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Store is a flat directory of uploaded documents.
type Store struct {
	dir      string
	registry *parser.Registry
	now      func() time.Time
}

// New opens (and creates if needed) the upload directory.
func New(dir string, registry *parser.Registry) (*Store, error) {
	if registry == nil {
		registry = parser.NewRegistry()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, registry: registry, now: time.Now}, nil
}

func (s *Store) Dir() string { return s.dir }

// Supported reports whether name has a registered parser.
func (s *Store) Supported(name string) bool { return s.registry.Supported(name) }

// Save writes data as <stem>_<timestamp><ext> and returns the parsed document.
// The id is the stored file's stem.
func (s *Store) Save(filename string, data []byte) (domain.Document, error) {
	name := filepath.Base(filepath.Clean("/" + filename))
	if name == "/" || name == "." || name == "" {
		return domain.Document{}, ErrInvalidName
	}
	if isHidden(name) {
		return domain.Document{}, ErrHidden
	}
	if !s.registry.Supported(name) {
		return domain.Document{}, parser.ErrUnsupported
	}

	content, err := s.registry.Parse(name, Decode(data))
	if err != nil {
		return domain.Document{}, fmt.Errorf("parse %s: %w", name, err)
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext) + "_" + s.now().Format(timestampLayout)
	f, path, err := s.create(stem, ext)
	if err != nil {
		return domain.Document{}, err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return domain.Document{}, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return domain.Document{}, fmt.Errorf("write %s: %w", path, err)
	}
	id := strings.TrimSuffix(filepath.Base(path), ext)
	return domain.Document{ID: id, Path: path, Content: content}, nil
}

// create exclusively creates stem+ext, or stem_N+ext for the first free N.
func (s *Store) create(stem, ext string) (*os.File, string, error) {
	path := filepath.Join(s.dir, stem+ext)
	for n := 1; ; n++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !os.IsExist(err) {
			return nil, "", fmt.Errorf("create %s: %w", path, err)
		}
		path = filepath.Join(s.dir, stem+"_"+strconv.Itoa(n)+ext)
	}
}

// Read returns the file at path decoded as text.
func (s *Store) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data), nil
}

// Load reads and parses a single file. The document id is the file stem.
func (s *Store) Load(path string) (domain.Document, error) {
	base := filepath.Base(path)
	if isHidden(base) {
		return domain.Document{}, ErrHidden
	}
	text, err := s.Read(path)
	if err != nil {
		return domain.Document{}, err
	}
	content, err := s.registry.Parse(base, text)
	if err != nil {
		return domain.Document{}, fmt.Errorf("parse %s: %w", base, err)
	}
	return domain.Document{
		ID:      strings.TrimSuffix(base, filepath.Ext(base)),
		Path:    path,
		Content: content,
	}, nil
}

// List returns the paths of regular, non-hidden files in the upload dir in
// name order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || isHidden(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(s.dir, e.Name()))
	}
	return out, nil
}

// LoadAll loads every supported document in the upload dir. Files without a
// parser and files that fail to load are skipped.
func (s *Store) LoadAll() ([]domain.Document, error) {
	paths, err := s.List()
	if err != nil {
		return nil, err
	}
	log := logger.Named("store")
	docs := make([]domain.Document, 0, len(paths))
	for _, p := range paths {
		if !s.registry.Supported(p) {
			log.Debug().Str("path", p).Msg("skipping unsupported file")
			continue
		}
		doc, err := s.Load(p)
		if err != nil {
			log.Warn().Err(err).Str("path", p).Msg("skipping unreadable file")
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Decode converts raw bytes to text. Valid UTF-8 (with or without a BOM) is
// used as is; anything else is read as ISO-8859-1.
func Decode(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(out)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

