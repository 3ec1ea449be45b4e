package manifeststore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
)

const manifestBucket = "manifests"

// CachedStore fronts an upstream Store with a local BoltDB-backed disk
// cache. Manifests rarely change once a cube is registered, so a cache hit
// skips the round-trip to the upstream store entirely; misses fall through
// and populate the cache for next time.
type CachedStore struct {
	upstream Store
	db       *bolt.DB
	ttl      time.Duration
}

// OpenCachedStore opens (creating if necessary) a BoltDB file at filename
// and wraps upstream with it. A zero ttl disables cache expiry: entries are
// served until evicted by a Put.
func OpenCachedStore(upstream Store, filename string, ttl time.Duration) (*CachedStore, error) {
	if err := os.MkdirAll(filepath.Dir(filename), os.ModePerm); err != nil {
		return nil, err
	}
	db, err := bolt.Open(filename, 0600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(manifestBucket))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &CachedStore{upstream: upstream, db: db, ttl: ttl}, nil
}

// Close releases the underlying BoltDB file handle.
func (s *CachedStore) Close() error {
	return s.db.Close()
}

// Get serves rec from the local cache if present and fresh, otherwise falls
// through to the upstream store and caches the result.
func (s *CachedStore) Get(cubeID string) (*Record, error) {
	if rec := s.getCached(cubeID); rec != nil {
		return rec, nil
	}

	rec, err := s.upstream.Get(cubeID)
	if err != nil {
		return nil, err
	}
	if err := s.putCached(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Put writes through to the upstream store and refreshes the local cache.
func (s *CachedStore) Put(rec *Record) error {
	if err := s.upstream.Put(rec); err != nil {
		return err
	}
	return s.putCached(rec)
}

func (s *CachedStore) getCached(cubeID string) *Record {
	var rec *Record
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(manifestBucket))
		data := b.Get([]byte(cubeID))
		if data == nil {
			return nil
		}
		var r Record
		if err := json.Unmarshal(data, &r); err != nil {
			return nil
		}
		if s.ttl > 0 && time.Since(r.FetchedAt) > s.ttl {
			return nil
		}
		rec = &r
		return nil
	})
	return rec
}

func (s *CachedStore) putCached(rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(manifestBucket))
		return b.Put([]byte(rec.CubeID), data)
	})
}
