package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Luismorlan/ledger_in_go/model"
	clientv3 "go.etcd.io/etcd/client/v3"
)

var DEFAULT_DIAL_TIMEOUT = 2 * time.Second

// EtcdStore keeps the snapshot under a single key.
type EtcdStore struct {
	client *clientv3.Client
	key    string
}

func NewEtcdStore(ctx context.Context, endpoints []string, key string) (*EtcdStore, error) {
	client, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: DEFAULT_DIAL_TIMEOUT,
		Context:     ctx,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd %v: %w", endpoints, err)
	}
	return &EtcdStore{client: client, key: key}, nil
}

func (s *EtcdStore) Load(ctx context.Context) ([]model.Block, error) {
	resp, err := s.client.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if len(resp.Kvs) == 0 {
		return nil, ErrNoSnapshot
	}
	return decodeChain(resp.Kvs[0].Value)
}

func (s *EtcdStore) Save(ctx context.Context, chain []model.Block) error {
	data, err := encodeChain(chain)
	if err != nil {
		return err
	}
	_, err = s.client.Put(ctx, s.key, string(data))
	return err
}

func (s *EtcdStore) Close() error {
	return s.client.Close()
}
