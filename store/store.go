// Package store persists falsified properties so that a later run can
// replay the failing seed or sample first.
package store

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/authcorp/proptest/config"
	apperrors "github.com/authcorp/proptest/errors"
)

// Record describes the last failure of a property.
type Record struct {
	Property string    `json:"property" yaml:"property"`
	Seed     int64     `json:"seed" yaml:"seed"`
	Sample   string    `json:"sample,omitempty" yaml:"sample,omitempty"`
	Tries    int       `json:"tries" yaml:"tries"`
	FailedAt time.Time `json:"failed_at" yaml:"failed_at"`
}

// Store keeps failure records keyed by property name.
type Store interface {
	Save(ctx context.Context, rec Record) error
	// Load returns false if no record exists for property.
	Load(ctx context.Context, property string) (Record, bool, error)
	Delete(ctx context.Context, property string) error
	List(ctx context.Context) ([]Record, error)
}

// Kinds accepted by Open.
const (
	KindMemory = "memory"
	KindFile   = "file"
	KindRedis  = "redis"
)

// Open creates the store selected by the "database.*" keys of cfg.
// An empty kind selects the memory store.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	kind := strings.ToLower(cfg.GetString("database.kind"))
	switch kind {
	case "", KindMemory:
		return NewMemoryStore(), nil
	case KindFile:
		path := cfg.GetString("database.path")
		if path == "" {
			path = DefaultDir
		}
		return NewFileStore(path, logger)
	case KindRedis:
		ttl, err := cfg.GetDuration("database.ttl")
		if err != nil {
			return nil, err
		}
		return DialRedis(ctx, cfg.GetString("database.url"), RedisOptions{
			Prefix: cfg.GetString("database.prefix"),
			TTL:    ttl,
		}, logger)
	}
	return nil, apperrors.InvalidConfiguration("unknown database kind %q", kind).
		WithDetail("kind", kind)
}

// MemoryStore is a Store held in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	if rec.Property == "" {
		return apperrors.StoreFailure("record without property name", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Property] = rec
	return nil
}

func (s *MemoryStore) Load(_ context.Context, property string) (Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[property]
	return rec, ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, property string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, property)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sortRecords(out)
	return out, nil
}

func sortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Property < records[j].Property
	})
}
