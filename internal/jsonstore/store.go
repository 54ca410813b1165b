package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/clubpulse/internal/domain"
)

// Keyed is implemented by every record type the store persists. Most
// entities key on their id; summaries key on the practice id.
type Keyed interface {
	Key() string
}

// Store persists named collections as JSON array files under a data
// directory. Every operation is a whole-collection read-modify-write;
// collections are assumed small (single-club scale). A per-collection mutex
// serializes operations on the same file, but nothing coordinates across
// collections.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates a store rooted at dir. The directory is created lazily on
// first write.
func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) lock(collection string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[collection]
	if !ok {
		l = &sync.Mutex{}
		s.locks[collection] = l
	}
	return l
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// readAll loads a collection without taking its lock.
func readAll[T any](s *Store, collection string) ([]T, error) {
	data, err := os.ReadFile(s.path(collection))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrStorage, collection, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", domain.ErrCorruptData, collection, err)
	}
	return records, nil
}

// writeAll persists a collection without taking its lock. The file is
// written to a temp file in the same directory and renamed over the target
// so readers never observe a partial file.
func writeAll[T any](s *Store, collection string, records []T) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating data dir: %v", domain.ErrStorage, err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", domain.ErrStorage, collection, err)
	}

	tmp, err := os.CreateTemp(s.dir, collection+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: writing %s: %v", domain.ErrStorage, collection, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: writing %s: %v", domain.ErrStorage, collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: writing %s: %v", domain.ErrStorage, collection, err)
	}
	if err := os.Rename(tmp.Name(), s.path(collection)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: writing %s: %v", domain.ErrStorage, collection, err)
	}
	return nil
}

// ReadAll returns every record of a collection in insertion order. An absent
// backing file yields an empty slice.
func ReadAll[T any](s *Store, collection string) ([]T, error) {
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()
	return readAll[T](s, collection)
}

// WriteAll replaces the full contents of a collection.
func WriteAll[T any](s *Store, collection string, records []T) error {
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()
	return writeAll(s, collection, records)
}

// FindByKey returns the record with the given key, reporting whether it was
// found.
func FindByKey[T Keyed](s *Store, collection, key string) (T, bool, error) {
	var zero T
	records, err := ReadAll[T](s, collection)
	if err != nil {
		return zero, false, err
	}
	for _, r := range records {
		if r.Key() == key {
			return r, true, nil
		}
	}
	return zero, false, nil
}

// Filter returns the records matching keep, preserving insertion order.
func Filter[T any](s *Store, collection string, keep func(T) bool) ([]T, error) {
	records, err := ReadAll[T](s, collection)
	if err != nil {
		return nil, err
	}
	matched := []T{}
	for _, r := range records {
		if keep(r) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// Create appends a record and persists the collection. A record with the
// same key must not already exist.
func Create[T Keyed](s *Store, collection string, record T) error {
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()

	records, err := readAll[T](s, collection)
	if err != nil {
		return err
	}
	for _, r := range records {
		if r.Key() == record.Key() {
			return fmt.Errorf("%w: %s %q", domain.ErrRecordExists, collection, record.Key())
		}
	}
	return writeAll(s, collection, append(records, record))
}

// Update applies mutate to the record with the given key and persists the
// collection. The record keeps its position.
func Update[T Keyed](s *Store, collection, key string, mutate func(T) T) (T, error) {
	var zero T
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()

	records, err := readAll[T](s, collection)
	if err != nil {
		return zero, err
	}
	for i, r := range records {
		if r.Key() == key {
			records[i] = mutate(r)
			if err := writeAll(s, collection, records); err != nil {
				return zero, err
			}
			return records[i], nil
		}
	}
	return zero, fmt.Errorf("%w: %s %q", domain.ErrRecordNotFound, collection, key)
}
