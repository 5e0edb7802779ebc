package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Luismorlan/ledger_in_go/config"
	"github.com/Luismorlan/ledger_in_go/model"
)

// Store types accepted by Open.
const (
	STORE_MEMORY   = "memory"
	STORE_FILE     = "file"
	STORE_BOLT     = "bolt"
	STORE_REDIS    = "redis"
	STORE_POSTGRES = "postgres"
	STORE_ETCD     = "etcd"
)

// Returned by Load when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no chain snapshot stored")

// Store persists the whole chain. Save replaces whatever was stored before.
type Store interface {
	Load(ctx context.Context) ([]model.Block, error)
	Save(ctx context.Context, chain []model.Block) error
	Close() error
}

// Open the store selected by c.STORE_TYPE.
func Open(ctx context.Context, c config.AppConfig) (Store, error) {
	switch strings.ToLower(c.STORE_TYPE) {
	case "", STORE_MEMORY:
		return NewMemoryStore(), nil
	case STORE_FILE:
		return NewFileStore(c.STORE_PATH), nil
	case STORE_BOLT:
		return NewBoltStore(c.STORE_PATH)
	case STORE_REDIS:
		return NewRedisStore(ctx, c.STORE_ADDR, c.STORE_KEY)
	case STORE_POSTGRES:
		return NewPostgresStore(ctx, c.STORE_DSN)
	case STORE_ETCD:
		return NewEtcdStore(ctx, strings.Split(c.STORE_ADDR, ","), c.STORE_KEY)
	default:
		return nil, fmt.Errorf("unknown store type %q", c.STORE_TYPE)
	}
}

func encodeChain(chain []model.Block) ([]byte, error) {
	return json.Marshal(model.NewChainSnapshot(chain))
}

func decodeChain(data []byte) ([]model.Block, error) {
	snapshot := model.ChainSnapshot{}
	if err := decodeJSON(data, &snapshot); err != nil {
		return nil, err
	}
	if !snapshot.IsConsistent() {
		return nil, fmt.Errorf("corrupted snapshot: length %d but %d blocks", snapshot.Length, len(snapshot.Chain))
	}
	if len(snapshot.Chain) == 0 {
		return nil, ErrNoSnapshot
	}
	return snapshot.Chain, nil
}

// Numbers are kept as json.Number so integers inside transactions hash the same after a round trip.
func decodeJSON(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
