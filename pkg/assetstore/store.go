// Package assetstore persists and fetches serialized record spools by an
// opaque content-addressed id. It is a byte-addressable blob store, not a
// queryable asset database: no secondary indexes, no browsing, no path
// resolution.
package assetstore

import (
	"bytes"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/kestrelforge/enginecore/pkg/archive"
	"github.com/kestrelforge/enginecore/pkg/reflect"
)

// AssetID identifies one stored spool. Its string form is the underlying
// KSUID's canonical base62 encoding.
type AssetID struct {
	id ksuid.KSUID
}

func (a AssetID) String() string { return a.id.String() }

// ParseAssetID parses the string form produced by AssetID.String.
func ParseAssetID(s string) (AssetID, error) {
	id, err := ksuid.Parse(s)
	if err != nil {
		return AssetID{}, fmt.Errorf("assetstore: invalid asset id %q: %w", s, err)
	}
	return AssetID{id: id}, nil
}

// Store is a pebble-backed byte-addressable blob store keyed by KSUID. A
// single Store wraps one pebble.DB; Get and Put may be called concurrently
// from multiple goroutines, relying on pebble's own internal synchronization
// rather than a lock of Store's own.
type Store struct {
	db     *pebble.DB
	engine *archive.Engine
}

// Open opens (creating if absent) a pebble database at path and returns a
// Store that serializes through engine.
func Open(path string, engine *archive.Engine) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("assetstore: open %s: %w", path, err)
	}
	return &Store{db: db, engine: engine}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put archives spool with the store's ArchiveEngine and persists the result
// under a freshly generated id.
func (s *Store) Put(spool []reflect.Record) (AssetID, error) {
	var buf seekBuffer
	if err := s.engine.Write(&buf, spool); err != nil {
		return AssetID{}, fmt.Errorf("assetstore: archive spool: %w", err)
	}
	id := ksuid.New()
	if err := s.db.Set(id.Bytes(), buf.Bytes(), pebble.NoSync); err != nil {
		return AssetID{}, fmt.Errorf("assetstore: put %s: %w", id, err)
	}
	return AssetID{id: id}, nil
}

// Get fetches the bytes stored under id and reads them back through the
// store's ArchiveEngine.
func (s *Store) Get(id AssetID) ([]reflect.Record, error) {
	data, closer, err := s.db.Get(id.id.Bytes())
	if err != nil {
		return nil, fmt.Errorf("assetstore: get %s: %w", id, err)
	}
	defer closer.Close()

	buf := bytes.NewReader(append([]byte(nil), data...))
	spool, err := s.engine.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("assetstore: decode %s: %w", id, err)
	}
	return spool, nil
}

// Delete removes the asset stored under id. It is not an error to delete an
// id that was never written.
func (s *Store) Delete(id AssetID) error {
	return s.db.Delete(id.id.Bytes(), pebble.NoSync)
}

// PutBytes stores an already-archived payload verbatim under a fresh id,
// without decoding it. Used by the administrative HTTP surface, which
// receives asset uploads as a raw archive stream and has no need to
// materialize records in the request handler.
func (s *Store) PutBytes(archived []byte) (AssetID, error) {
	id := ksuid.New()
	if err := s.db.Set(id.Bytes(), archived, pebble.NoSync); err != nil {
		return AssetID{}, fmt.Errorf("assetstore: put %s: %w", id, err)
	}
	return AssetID{id: id}, nil
}

// GetBytes fetches the raw archived payload stored under id without
// decoding it.
func (s *Store) GetBytes(id AssetID) ([]byte, error) {
	data, closer, err := s.db.Get(id.id.Bytes())
	if err != nil {
		return nil, fmt.Errorf("assetstore: get %s: %w", id, err)
	}
	defer closer.Close()
	return append([]byte(nil), data...), nil
}
