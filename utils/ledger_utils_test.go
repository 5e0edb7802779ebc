package utils

import (
	"testing"

	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/stretchr/testify/assert"
)

func TestCopyChainIsDeep(t *testing.T) {
	chain := []model.Block{
		model.NewBlock(1, 1, "0", nil),
		model.NewBlock(2, 7, "h", []model.Transaction{{"a": 1}}),
	}
	cp := CopyChain(chain)
	assert.Equal(t, chain, cp)

	cp[1].Txs[0]["a"] = 2
	cp[1].Proof = 99
	cp = append(cp, model.NewBlock(3, 1, "x", nil))
	assert.Equal(t, 1, chain[1].Txs[0]["a"])
	assert.Equal(t, int64(7), chain[1].Proof)
	assert.Len(t, chain, 2)
}

func TestCopyChainEmpty(t *testing.T) {
	cp := CopyChain(nil)
	assert.NotNil(t, cp)
	assert.Len(t, cp, 0)
}

func TestTailOf(t *testing.T) {
	chain := []model.Block{
		model.NewBlock(1, 1, "0", nil),
		model.NewBlock(2, 2, "a", nil),
		model.NewBlock(3, 3, "b", nil),
	}
	assert.Len(t, TailOf(chain, 0), 0)
	assert.Equal(t, chain[1:], TailOf(chain, 2))
	assert.Equal(t, chain, TailOf(chain, 10))
}
