package store

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/authcorp/proptest/errors"
	"github.com/authcorp/proptest/observability"
)

// DefaultDir is the directory used by Open for file stores without a path.
const DefaultDir = ".proptest"

const fileExt = ".yaml"

// FileStore keeps one YAML document per property in a directory. File
// names are name-based UUIDs of the property so any name is safe on disk.
type FileStore struct {
	dir    string
	codec  YAMLCodec
	logger *slog.Logger
	mu     sync.Mutex
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.StoreFailure("failed to create store directory", err).
			WithDetail("dir", dir)
	}
	return &FileStore{dir: dir, logger: observability.LoggerOrDefault(logger)}, nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(property string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(property))
	return filepath.Join(s.dir, id.String()+fileExt)
}

func (s *FileStore) Save(ctx context.Context, rec Record) error {
	if rec.Property == "" {
		return apperrors.StoreFailure("record without property name", nil)
	}
	data, err := s.codec.Encode(rec)
	if err != nil {
		return apperrors.StoreFailure("failed to encode record", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(rec.Property)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return apperrors.StoreFailure("failed to write record", err).WithDetail("path", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return apperrors.StoreFailure("failed to replace record", err).WithDetail("path", path)
	}

	s.logger.DebugContext(ctx, "failure record saved",
		slog.String("property", rec.Property),
		slog.String("path", path))
	return nil
}

func (s *FileStore) Load(_ context.Context, property string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read(s.path(property))
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

func (s *FileStore) read(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	rec, err := s.codec.Decode(data)
	if err != nil {
		return Record{}, apperrors.StoreFailure("failed to decode record", err).WithDetail("path", path)
	}
	return rec, nil
}

func (s *FileStore) Delete(ctx context.Context, property string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(property))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperrors.StoreFailure("failed to delete record", err).WithDetail("property", property)
	}
	s.logger.DebugContext(ctx, "failure record deleted", slog.String("property", property))
	return nil
}

// List returns all readable records. Undecodable files are logged and skipped.
func (s *FileStore) List(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, apperrors.StoreFailure("failed to list store directory", err).WithDetail("dir", s.dir)
	}

	var out []Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		rec, err := s.read(path)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping unreadable failure record",
				slog.String("path", path),
				slog.String("error", err.Error()))
			continue
		}
		out = append(out, rec)
	}
	sortRecords(out)
	return out, nil
}
