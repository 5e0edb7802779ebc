package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Luismorlan/ledger_in_go/config"
	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDifficulty = 1

func createTestChain(n int) []model.Block {
	chain := model.NewBlockChain().Blocks
	for len(chain) < n {
		prev := chain[len(chain)-1]
		block := model.NewBlock(len(chain)+1, utils.FindProof(prev.Proof, testDifficulty), utils.ComputeHash(&prev), []model.Transaction{
			{"amount": 12345678901234567, "memo": "<b>&</b>", "tags": []interface{}{"x", 1.5}},
		})
		chain = append(chain, block)
	}
	return chain
}

// Run the behavior every store must share against s.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Load(ctx)
	assert.True(t, errors.Is(err, ErrNoSnapshot))

	chain := createTestChain(4)
	require.True(t, utils.IsChainValid(chain, testDifficulty))
	require.Nil(t, s.Save(ctx, chain))

	loaded, err := s.Load(ctx)
	require.Nil(t, err)
	assert.Len(t, loaded, 4)
	assert.True(t, utils.IsChainValid(loaded, testDifficulty))
	for i := range chain {
		assert.Equal(t, utils.ComputeHash(&chain[i]), utils.ComputeHash(&loaded[i]))
	}

	// A shorter chain replaces the stored one entirely.
	require.Nil(t, s.Save(ctx, chain[:2]))
	loaded, err = s.Load(ctx)
	require.Nil(t, err)
	assert.Len(t, loaded, 2)

	// A tampered chain comes back just as tampered.
	tampered := createTestChain(3)
	tampered[1].Txs = []model.Transaction{{"forged": true}}
	require.Nil(t, s.Save(ctx, tampered))
	loaded, err = s.Load(ctx)
	require.Nil(t, err)
	assert.False(t, utils.IsChainValid(loaded, testDifficulty))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	testStore(t, s)
}

func TestMemoryStoreCopies(t *testing.T) {
	s := NewMemoryStore()
	chain := createTestChain(2)
	require.Nil(t, s.Save(context.Background(), chain))
	chain[1].Txs[0]["memo"] = "changed"

	loaded, err := s.Load(context.Background())
	require.Nil(t, err)
	assert.Equal(t, "<b>&</b>", loaded[1].Txs[0]["memo"])
}

func TestFileStore(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "chain.json"))
	defer s.Close()
	testStore(t, s)
}

func TestFileStoreCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.json")
	require.Nil(t, os.WriteFile(path, []byte(`{"chain":[],"length":3}`), 0644))
	_, err := NewFileStore(path).Load(context.Background())
	assert.NotNil(t, err)
	assert.False(t, errors.Is(err, ErrNoSnapshot))
}

func TestBoltStore(t *testing.T) {
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "ledger.db"))
	require.Nil(t, err)
	defer s.Close()
	testStore(t, s)
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := NewBoltStore(path)
	require.Nil(t, err)
	chain := createTestChain(3)
	require.Nil(t, s.Save(context.Background(), chain))
	require.Nil(t, s.Close())

	s, err = NewBoltStore(path)
	require.Nil(t, err)
	defer s.Close()
	loaded, err := s.Load(context.Background())
	require.Nil(t, err)
	assert.Equal(t, utils.ComputeHash(&chain[2]), utils.ComputeHash(&loaded[2]))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := NewRedisStore(ctx, addr, "ledger_test/"+t.Name())
	require.Nil(t, err)
	defer s.Close()
	defer s.client.Del(ctx, s.key)
	testStore(t, s)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_LEDGER_DSN")
	if dsn == "" {
		t.Skip("TEST_LEDGER_DSN not set")
	}
	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dsn)
	require.Nil(t, err)
	defer s.Close()
	_, err = s.pool.Exec(ctx, `DELETE FROM ledger_blocks`)
	require.Nil(t, err)
	testStore(t, s)
}

func TestEtcdStore(t *testing.T) {
	endpoints := os.Getenv("TEST_ETCD_ENDPOINTS")
	if endpoints == "" {
		t.Skip("TEST_ETCD_ENDPOINTS not set")
	}
	ctx := context.Background()
	s, err := NewEtcdStore(ctx, strings.Split(endpoints, ","), "ledger_test/"+t.Name())
	require.Nil(t, err)
	defer s.Close()
	_, err = s.client.Delete(ctx, s.key)
	require.Nil(t, err)
	testStore(t, s)
}

func TestOpen(t *testing.T) {
	c := config.DefaultAppConfig()
	s, err := Open(context.Background(), c)
	require.Nil(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	c.STORE_TYPE = STORE_FILE
	c.STORE_PATH = filepath.Join(t.TempDir(), "chain.json")
	s, err = Open(context.Background(), c)
	require.Nil(t, err)
	assert.IsType(t, &FileStore{}, s)

	c.STORE_TYPE = "floppy"
	_, err = Open(context.Background(), c)
	assert.NotNil(t, err)
}
