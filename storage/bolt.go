package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Luismorlan/ledger_in_go/model"
	bbolt "go.etcd.io/bbolt"
)

var blocksBucket = []byte("blocks")

// BoltStore keeps one key per block in a bbolt bucket, keyed by the big endian block index
// so a cursor walks the chain in order.
type BoltStore struct {
	*bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(blocksBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{DB: db}, nil
}

func blockKey(index int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(index))
	return key
}

func (s *BoltStore) Load(ctx context.Context) ([]model.Block, error) {
	chain := []model.Block{}
	err := s.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(blocksBucket).ForEach(func(k, v []byte) error {
			// Values are only valid inside the transaction, decoding copies them out.
			block := model.Block{}
			if err := decodeJSON(v, &block); err != nil {
				return fmt.Errorf("corrupted block %x: %w", k, err)
			}
			chain = append(chain, block)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if len(chain) == 0 {
		return nil, ErrNoSnapshot
	}
	return chain, nil
}

// Save replaces the whole bucket in one transaction, a failed save leaves the old chain intact.
func (s *BoltStore) Save(ctx context.Context, chain []model.Block) error {
	return s.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(blocksBucket); err != nil {
			return err
		}
		b, err := tx.CreateBucket(blocksBucket)
		if err != nil {
			return err
		}
		for i := range chain {
			val, err := json.Marshal(&chain[i])
			if err != nil {
				return err
			}
			// Key by position, the stored index field may have been tampered with.
			if err := b.Put(blockKey(i+1), val); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) Close() error {
	return s.DB.Close()
}
