// Package store persists arc-encoded records in a bbolt-backed object
// store: every record lives under a composite key of (registered type id,
// object id), so a single bucket can hold every registered type and still
// support "iterate every Student" as a prefix scan.
package store

import (
	"encoding/binary"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/andreyvit/arc"
)

var bucketName = []byte("objects")

// ErrNotFound is returned by Get when no record exists for the given
// type id and object id.
var ErrNotFound = errors.New("store: not found")

// Store is a bbolt-backed keyed store of arc-encoded records.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if necessary) a bbolt file at path as an object
// store.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

func typeKey(typeID uint64, objectID []byte) []byte {
	var idBuf [8]byte
	binary.BigEndian.PutUint64(idBuf[:], typeID)
	return key{idBuf[:], objectID}.encode()
}

// Put encodes values with a saving arc.Archive and stores the result
// under (typeID, objectID), overwriting any existing record.
func (s *Store) Put(typeID uint64, objectID []byte, values ...any) error {
	sink := arc.AcquireSink()
	defer sink.Release()
	a := arc.NewSavingArchive(sink)
	if err := a.Apply(values...); err != nil {
		return err
	}
	rec := append([]byte(nil), sink.Bytes()...)
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put(typeKey(typeID, objectID), rec)
	})
}

// Get loads the record stored under (typeID, objectID) into values with a
// loading arc.Archive. It returns ErrNotFound if no such record exists.
func (s *Store) Get(typeID uint64, objectID []byte, values ...any) error {
	var rec []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketName).Get(typeKey(typeID, objectID))
		if v == nil {
			return ErrNotFound
		}
		rec = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return err
	}
	src := arc.NewByteSource(rec)
	a := arc.NewLoadingArchive(src)
	return a.Apply(values...)
}

// Delete removes the record stored under (typeID, objectID), if any.
func (s *Store) Delete(typeID uint64, objectID []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete(typeKey(typeID, objectID))
	})
}

// ForEach calls fn with the object id and raw record bytes of every
// record stored under typeID, in key order, stopping early if fn returns
// an error.
func (s *Store) ForEach(typeID uint64, fn func(objectID, rec []byte) error) error {
	var idBuf [8]byte
	binary.BigEndian.PutUint64(idBuf[:], typeID)
	prefix := prefixOf(idBuf[:])

	return s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketName).Cursor()
		for k, v := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, v = c.Next() {
			parts, err := decodeKey(k)
			if err != nil {
				return err
			}
			if len(parts) != 2 {
				continue
			}
			if err := fn(parts[1], v); err != nil {
				return err
			}
		}
		return nil
	})
}

func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i, c := range prefix {
		if b[i] != c {
			return false
		}
	}
	return true
}
