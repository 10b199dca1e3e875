package persistence

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ceramic-editor/editor-sync/pkg/reactive"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/afero"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"
)

// DocumentVersion is the current snapshot document format.
const DocumentVersion = 1

// Persistence errors.
var (
	ErrUnsupportedVersion = errors.New("unsupported document version")
	ErrNoRoot             = errors.New("document has no root record")
)

// Document is one stored snapshot.
type Document struct {
	Version  int              `json:"version" yaml:"version"`
	Revision string           `json:"revision" yaml:"revision"`
	SavedAt  time.Time        `json:"saved_at" yaml:"saved_at"`
	Digest   string           `json:"digest" yaml:"digest"`
	Root     *reactive.Record `json:"root" yaml:"root"`
}

// Format is a document encoding.
type Format uint8

const (
	FormatYAML Format = iota
	FormatJSON
)

// String returns the format name.
func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "yaml"
}

// FormatFor picks the format from a file name.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Store manages one snapshot file.
type Store struct {
	mu     sync.Mutex
	fs     afero.Fs
	path   string
	format Format
	now    func() time.Time
	logger *slog.Logger
}

// NewStore creates a store for path on fsys. nil uses the OS filesystem.
func NewStore(fsys afero.Fs, path string) *Store {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Store{
		fs:     fsys,
		path:   path,
		format: FormatFor(path),
		now:    time.Now,
		logger: slog.Default(),
	}
}

// SetLogger replaces the logger used for recoverable store problems.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	s.mu.Lock()
	s.logger = logger
	s.mu.Unlock()
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Digest returns the hex blake2b-256 digest of a root record.
func Digest(root *reactive.Record) (string, error) {
	// encoding/json sorts map keys, which makes the encoding canonical.
	data, err := json.Marshal(root)
	if err != nil {
		return "", fmt.Errorf("encoding root: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Save writes root as a new revision. It returns the stored document and
// whether the file was written; an unchanged root is not rewritten. An
// existing file that cannot be read back is logged and overwritten.
func (s *Store) Save(root *reactive.Record) (*Document, bool, error) {
	if root == nil {
		return nil, false, ErrNoRoot
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	digest, err := Digest(root)
	if err != nil {
		return nil, false, err
	}
	current, err := s.load()
	if err != nil {
		s.logger.Warn("Overwriting unreadable snapshot",
			slog.String("path", s.path), slog.Any("error", err))
		current = nil
	}
	if current != nil && current.Digest == digest {
		return current, false, nil
	}

	now := s.now()
	doc := &Document{
		Version:  DocumentVersion,
		Revision: ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		SavedAt:  now.UTC(),
		Digest:   digest,
		Root:     root,
	}
	data, err := s.encode(doc)
	if err != nil {
		return nil, false, err
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, false, err
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return nil, false, err
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return nil, false, err
	}
	return doc, true, nil
}

// Load reads the snapshot. Returns nil, nil if the file doesn't exist.
func (s *Store) Load() (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (*Document, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	switch s.format {
	case FormatJSON:
		err = json.Unmarshal(data, doc)
	default:
		err = yaml.Unmarshal(data, doc)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.path, err)
	}
	if doc.Version != DocumentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	if doc.Root == nil {
		return nil, ErrNoRoot
	}
	return doc, nil
}

// Clear removes the snapshot file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.fs.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *Store) encode(doc *Document) ([]byte, error) {
	switch s.format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	default:
		return yaml.Marshal(doc)
	}
}
