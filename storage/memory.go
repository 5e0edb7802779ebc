package storage

import (
	"context"
	"sync"

	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/utils"
)

// MemoryStore keeps a private copy of the last saved chain. Nothing survives a restart.
type MemoryStore struct {
	m     sync.Mutex
	chain []model.Block
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) ([]model.Block, error) {
	s.m.Lock()
	defer s.m.Unlock()
	if len(s.chain) == 0 {
		return nil, ErrNoSnapshot
	}
	return utils.CopyChain(s.chain), nil
}

func (s *MemoryStore) Save(ctx context.Context, chain []model.Block) error {
	cp := utils.CopyChain(chain)
	s.m.Lock()
	defer s.m.Unlock()
	s.chain = cp
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
