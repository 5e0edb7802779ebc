package storage

import (
	"context"
	"fmt"

	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/utils"
)

// FileStore writes the chain as one json snapshot file, replaced atomically on every save.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) ([]model.Block, error) {
	data, err := utils.ReadFileIfExists(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", s.path, err)
	}
	if data == nil {
		return nil, ErrNoSnapshot
	}
	return decodeChain(data)
}

func (s *FileStore) Save(ctx context.Context, chain []model.Block) error {
	data, err := encodeChain(chain)
	if err != nil {
		return err
	}
	return utils.WriteFileAtomic(s.path, data, 0644)
}

func (s *FileStore) Close() error {
	return nil
}
