// Package store implements the Chunk Store on top of go.etcd.io/bbolt.
// bbolt's single-writer, copy-on-write B+tree with mmap'd read-only views
// for concurrent readers gives non-blocking reads during writes without a
// literal write-ahead-log file.
package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/chittiv1113/Oracle/internal/domain"
	"github.com/chittiv1113/Oracle/internal/oraclerr"
)

var (
	bucketChunks           = []byte("chunks")
	bucketByFile           = []byte("by_file")
	bucketByHash           = []byte("by_hash")
	bucketBySym            = []byte("by_symbol")
	bucketByLang           = []byte("by_lang")
	bucketMeta             = []byte("meta")
	bucketSchemaMigrations = []byte("schema_migrations")
	keyChunkSeq            = []byte("chunk_seq")
)

// BoltStore is the Chunk Store: a durable, transactional bbolt-backed row
// store with secondary indices on file_path, content_hash, symbol_name, and
// language.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens or creates the store at path, ensuring every bucket
// this implementation relies on exists.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, oraclerr.New(oraclerr.IO, "store.NewBoltStore", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketChunks, bucketByFile, bucketByHash, bucketBySym, bucketByLang, bucketMeta, bucketSchemaMigrations} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, oraclerr.New(oraclerr.IO, "store.NewBoltStore", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) DB() *bbolt.DB { return s.db }

func (s *BoltStore) Close() error { return s.db.Close() }

func idKey(id int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}

func idFromKey(key []byte) int64 {
	return int64(binary.BigEndian.Uint64(key))
}

// InsertBatch wraps all inserts in one atomic transaction. Chunk ids are
// assigned in input order via the chunks bucket's monotonic sequence.
func (s *BoltStore) InsertBatch(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	inserted := make([]domain.Chunk, len(chunks))
	err := s.db.Update(func(tx *bbolt.Tx) error {
		chunksBucket := tx.Bucket(bucketChunks)
		byFile := tx.Bucket(bucketByFile)
		byHash := tx.Bucket(bucketByHash)
		bySym := tx.Bucket(bucketBySym)
		byLang := tx.Bucket(bucketByLang)

		for i, c := range chunks {
			seq, err := chunksBucket.NextSequence()
			if err != nil {
				return err
			}
			c.ID = int64(seq)

			data, err := json.Marshal(c)
			if err != nil {
				return err
			}
			key := idKey(c.ID)
			if err := chunksBucket.Put(key, data); err != nil {
				return err
			}
			if err := appendIndexEntry(byFile, []byte(c.FilePath), c.ID); err != nil {
				return err
			}
			if err := appendIndexEntry(byHash, []byte(c.ContentHash), c.ID); err != nil {
				return err
			}
			if c.SymbolName != "" {
				if err := appendIndexEntry(bySym, []byte(c.SymbolName), c.ID); err != nil {
					return err
				}
			}
			if err := appendIndexEntry(byLang, []byte(c.Language), c.ID); err != nil {
				return err
			}
			inserted[i] = c
		}
		return nil
	})
	if err != nil {
		return nil, oraclerr.New(oraclerr.IO, "store.InsertBatch", err)
	}
	return inserted, nil
}

func appendIndexEntry(bucket *bbolt.Bucket, key []byte, id int64) error {
	var ids []int64
	if existing := bucket.Get(key); existing != nil {
		if err := json.Unmarshal(existing, &ids); err != nil {
			return err
		}
	}
	ids = append(ids, id)
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return bucket.Put(key, data)
}

func removeIndexEntry(bucket *bbolt.Bucket, key []byte, id int64) error {
	existing := bucket.Get(key)
	if existing == nil {
		return nil
	}
	var ids []int64
	if err := json.Unmarshal(existing, &ids); err != nil {
		return err
	}
	filtered := ids[:0:0]
	for _, v := range ids {
		if v != id {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) == 0 {
		return bucket.Delete(key)
	}
	data, err := json.Marshal(filtered)
	if err != nil {
		return err
	}
	return bucket.Put(key, data)
}

// DeleteAll clears every chunk row and secondary index.
func (s *BoltStore) DeleteAll(ctx context.Context) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketChunks, bucketByFile, bucketByHash, bucketBySym, bucketByLang} {
			if err := tx.DeleteBucket(b); err != nil && err != bbolt.ErrBucketNotFound {
				return err
			}
			if _, err := tx.CreateBucket(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return oraclerr.New(oraclerr.IO, "store.DeleteAll", err)
	}
	return nil
}

// DeleteByFile removes every chunk row for filePath.
func (s *BoltStore) DeleteByFile(ctx context.Context, filePath string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		byFile := tx.Bucket(bucketByFile)
		ids, err := readIndexEntry(byFile, []byte(filePath))
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		chunksBucket := tx.Bucket(bucketChunks)
		byHash := tx.Bucket(bucketByHash)
		bySym := tx.Bucket(bucketBySym)
		byLang := tx.Bucket(bucketByLang)

		for _, id := range ids {
			data := chunksBucket.Get(idKey(id))
			if data != nil {
				var c domain.Chunk
				if err := json.Unmarshal(data, &c); err == nil {
					removeIndexEntry(byHash, []byte(c.ContentHash), id)
					if c.SymbolName != "" {
						removeIndexEntry(bySym, []byte(c.SymbolName), id)
					}
					removeIndexEntry(byLang, []byte(c.Language), id)
				}
			}
			chunksBucket.Delete(idKey(id))
		}
		return byFile.Delete([]byte(filePath))
	})
	if err != nil {
		return oraclerr.New(oraclerr.IO, "store.DeleteByFile", err)
	}
	return nil
}

func readIndexEntry(bucket *bbolt.Bucket, key []byte) ([]int64, error) {
	data := bucket.Get(key)
	if data == nil {
		return nil, nil
	}
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// ListByFile returns every chunk for filePath.
func (s *BoltStore) ListByFile(ctx context.Context, filePath string) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	err := s.db.View(func(tx *bbolt.Tx) error {
		ids, err := readIndexEntry(tx.Bucket(bucketByFile), []byte(filePath))
		if err != nil {
			return err
		}
		chunksBucket := tx.Bucket(bucketChunks)
		for _, id := range ids {
			data := chunksBucket.Get(idKey(id))
			if data == nil {
				continue
			}
			var c domain.Chunk
			if err := json.Unmarshal(data, &c); err != nil {
				return err
			}
			chunks = append(chunks, c)
		}
		return nil
	})
	if err != nil {
		return nil, oraclerr.New(oraclerr.IO, "store.ListByFile", err)
	}
	return chunks, nil
}

// GetByHash returns at most one chunk matching hash.
func (s *BoltStore) GetByHash(ctx context.Context, hash string) (domain.Chunk, bool, error) {
	var chunk domain.Chunk
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		ids, err := readIndexEntry(tx.Bucket(bucketByHash), []byte(hash))
		if err != nil || len(ids) == 0 {
			return err
		}
		data := tx.Bucket(bucketChunks).Get(idKey(ids[0]))
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &chunk); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return domain.Chunk{}, false, oraclerr.New(oraclerr.IO, "store.GetByHash", err)
	}
	return chunk, found, nil
}

// ListFilePaths returns every distinct file_path with at least one chunk,
// ascending.
func (s *BoltStore) ListFilePaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketByFile).ForEach(func(k, v []byte) error {
			paths = append(paths, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, oraclerr.New(oraclerr.IO, "store.ListFilePaths", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// ListAll performs a full scan of every chunk row.
func (s *BoltStore) ListAll(ctx context.Context) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketChunks).ForEach(func(k, v []byte) error {
			var c domain.Chunk
			if err := json.Unmarshal(v, &c); err != nil {
				return err
			}
			chunks = append(chunks, c)
			return nil
		})
	})
	if err != nil {
		return nil, oraclerr.New(oraclerr.IO, "store.ListAll", err)
	}
	return chunks, nil
}

// GetMany performs a batched lookup by id. Returned order is unspecified.
func (s *BoltStore) GetMany(ctx context.Context, ids []int64) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	err := s.db.View(func(tx *bbolt.Tx) error {
		chunksBucket := tx.Bucket(bucketChunks)
		for _, id := range ids {
			data := chunksBucket.Get(idKey(id))
			if data == nil {
				continue
			}
			var c domain.Chunk
			if err := json.Unmarshal(data, &c); err != nil {
				return err
			}
			chunks = append(chunks, c)
		}
		return nil
	})
	if err != nil {
		return nil, oraclerr.New(oraclerr.IO, "store.GetMany", err)
	}
	return chunks, nil
}
