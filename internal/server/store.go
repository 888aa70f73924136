package server

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tablekit/tablekit/pkg/errors"
)

// Dataset is a stored table with its metadata. Payload holds the table
// serialized as Parquet; metadata responses omit it.
type Dataset struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name,omitempty" json:"name,omitempty"`
	Rows      int       `bson:"rows" json:"rows"`
	Columns   []string  `bson:"columns" json:"columns"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	Payload   []byte    `bson:"payload" json:"-"`
}

// Meta returns a copy of the dataset without its payload, for list and
// create responses.
func (d *Dataset) Meta() *Dataset {
	meta := *d
	meta.Payload = nil
	return &meta
}

// Store is the interface for dataset storage backends.
//
// Two implementations exist: MemoryStore for development and tests, and
// MongoStore for deployments that outlive a process.
type Store interface {
	// Put stores a dataset, replacing any existing one with the same ID.
	Put(ctx context.Context, d *Dataset) error

	// Get retrieves a dataset by ID, including its payload.
	// Returns a DATASET_NOT_FOUND error if it does not exist.
	Get(ctx context.Context, id string) (*Dataset, error)

	// Delete removes a dataset.
	// Returns a DATASET_NOT_FOUND error if it does not exist.
	Delete(ctx context.Context, id string) error

	// List returns metadata for all datasets, newest first, without
	// payloads.
	List(ctx context.Context) ([]*Dataset, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// MemoryStore is an in-memory dataset store for development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{datasets: make(map[string]*Dataset)}
}

func (s *MemoryStore) Put(ctx context.Context, d *Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *d
	s.datasets[d.ID] = &stored
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.datasets[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeDatasetNotFound, "dataset %s not found", id)
	}
	found := *d
	return &found, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.datasets[id]; !ok {
		return errors.New(errors.ErrCodeDatasetNotFound, "dataset %s not found", id)
	}
	delete(s.datasets, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Dataset, 0, len(s.datasets))
	for _, d := range s.datasets {
		out = append(out, d.Meta())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
