package manifeststore

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCacheFile = "./manifest_cache_test.db"

type fakeUpstream struct {
	records map[string]*Record
	gets    int
}

func (f *fakeUpstream) Get(cubeID string) (*Record, error) {
	f.gets++
	rec, ok := f.records[cubeID]
	if !ok {
		return nil, &NotFoundError{CubeID: cubeID}
	}
	return rec, nil
}

func (f *fakeUpstream) Put(rec *Record) error {
	f.records[rec.CubeID] = rec
	return nil
}

func TestCachedStoreMissThenHit(t *testing.T) {
	defer os.Remove(testCacheFile)

	up := &fakeUpstream{records: map[string]*Record{
		"cube-1": {CubeID: "cube-1", Body: []byte(`{"dimensions":[[1],[2],[3]]}`)},
	}}
	store, err := OpenCachedStore(up, testCacheFile, 0)
	require.NoError(t, err)
	defer store.Close()

	rec, err := store.Get("cube-1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"dimensions":[[1],[2],[3]]}`), rec.Body)
	assert.Equal(t, 1, up.gets)

	rec2, err := store.Get("cube-1")
	require.NoError(t, err)
	assert.Equal(t, rec.Body, rec2.Body)
	assert.Equal(t, 1, up.gets, "second get should be served from cache")
}

func TestCachedStoreMissingPropagatesNotFound(t *testing.T) {
	defer os.Remove(testCacheFile)

	up := &fakeUpstream{records: map[string]*Record{}}
	store, err := OpenCachedStore(up, testCacheFile, 0)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get("missing")
	require.Error(t, err)
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
}

func TestCachedStorePutWritesThroughAndCaches(t *testing.T) {
	defer os.Remove(testCacheFile)

	up := &fakeUpstream{records: map[string]*Record{}}
	store, err := OpenCachedStore(up, testCacheFile, 0)
	require.NoError(t, err)
	defer store.Close()

	rec := &Record{CubeID: "cube-2", Body: []byte("abc"), FetchedAt: time.Now()}
	require.NoError(t, store.Put(rec))

	assert.Contains(t, up.records, "cube-2")

	got, err := store.Get("cube-2")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got.Body)
	assert.Equal(t, 0, up.gets, "put should have primed the cache")
}

func TestCachedStoreExpiry(t *testing.T) {
	defer os.Remove(testCacheFile)

	up := &fakeUpstream{records: map[string]*Record{
		"cube-3": {CubeID: "cube-3", Body: []byte("fresh")},
	}}
	store, err := OpenCachedStore(up, testCacheFile, time.Millisecond)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get("cube-3")
	require.NoError(t, err)
	assert.Equal(t, 1, up.gets)

	time.Sleep(5 * time.Millisecond)

	_, err = store.Get("cube-3")
	require.NoError(t, err)
	assert.Equal(t, 2, up.gets, "expired entry should fall through to upstream again")
}
