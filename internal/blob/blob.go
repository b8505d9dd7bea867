// Package blob stores photo bytes in an embedded key/value file, outside the
// relational rows. Patient rows reference photos by generated string keys;
// per-patient galleries are lists of such keys.
package blob

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	bolt "go.etcd.io/bbolt"

	"github.com/crptmaveric/femilio-evidence/internal/errs"
)

var (
	bucketPhotos = []byte("photos")
	bucketAlbums = []byte("albums")
)

// Store is a bbolt-backed blob store. Keys are opaque to callers; only
// distinctness is guaranteed.
type Store struct{ db *bolt.DB }

// OpenFile opens (creating if needed) the blob file at path.
func OpenFile(path string) (*bolt.DB, error) {
	return bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
}

// New constructs a Store on an open bbolt handle and ensures its buckets exist.
func New(db *bolt.DB) (*Store, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketPhotos, bucketAlbums} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("blob buckets: %w", err)
	}
	return &Store{db: db}, nil
}

// newKey generates a blob key. The unix-milli prefix keeps the historical
// timestamp-derived shape; the uuid suffix makes distinctness independent of
// clock resolution.
func newKey() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), id), nil
}

// Put stores data under a freshly generated key and returns the key.
func (s *Store) Put(_ context.Context, data []byte) (string, error) {
	key, err := newKey()
	if err != nil {
		return "", err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPhotos).Put([]byte(key), data)
	})
	if err != nil {
		return "", fmt.Errorf("blob put: %w", err)
	}
	return key, nil
}

// Get returns the bytes stored under key, or errs.ErrBlobNotFound. Callers on
// the patient path treat the miss as "no photo", not as a failure.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketPhotos).Get([]byte(key))
		if v == nil {
			return errs.ErrBlobNotFound
		}
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Delete removes the bytes under key. Deleting an unknown key is a no-op, so
// compensating cleanups can run best-effort.
func (s *Store) Delete(_ context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPhotos).Delete([]byte(key))
	})
}

// albumKey returns the storage key of a patient's gallery.
func albumKey(patientID int64) []byte {
	return []byte(fmt.Sprintf("photos_%d", patientID))
}

// Album returns the blob keys of a patient's gallery in insertion order.
// A patient without a gallery has an empty album.
func (s *Store) Album(_ context.Context, patientID int64) ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketAlbums).Get(albumKey(patientID))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &keys)
	})
	if err != nil {
		return nil, fmt.Errorf("album %d: %w", patientID, err)
	}
	return keys, nil
}

// AppendToAlbum stores data as a new photo and appends its key to the
// patient's gallery. It returns the new key.
func (s *Store) AppendToAlbum(ctx context.Context, patientID int64, data []byte) (string, error) {
	key, err := newKey()
	if err != nil {
		return "", err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketPhotos).Put([]byte(key), data); err != nil {
			return err
		}
		album := tx.Bucket(bucketAlbums)
		var keys []string
		if v := album.Get(albumKey(patientID)); v != nil {
			if err := json.Unmarshal(v, &keys); err != nil {
				return err
			}
		}
		keys = append(keys, key)
		enc, err := json.Marshal(keys)
		if err != nil {
			return err
		}
		return album.Put(albumKey(patientID), enc)
	})
	if err != nil {
		return "", fmt.Errorf("album append %d: %w", patientID, err)
	}
	return key, nil
}

// RemoveFromAlbum deletes the photo at index from the patient's gallery and
// reclaims its bytes.
func (s *Store) RemoveFromAlbum(_ context.Context, patientID int64, index int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		album := tx.Bucket(bucketAlbums)
		var keys []string
		if v := album.Get(albumKey(patientID)); v != nil {
			if err := json.Unmarshal(v, &keys); err != nil {
				return err
			}
		}
		if index < 0 || index >= len(keys) {
			return errs.ErrBlobNotFound
		}
		removed := keys[index]
		keys = append(keys[:index], keys[index+1:]...)
		if err := tx.Bucket(bucketPhotos).Delete([]byte(removed)); err != nil {
			return err
		}
		enc, err := json.Marshal(keys)
		if err != nil {
			return err
		}
		return album.Put(albumKey(patientID), enc)
	})
}
