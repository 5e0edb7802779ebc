package utils

import (
	"log/slog"

	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/jinzhu/copier"
)

// CopyChain returns a deep copy of the chain so that callers can't reach the blocks owned by
// the ledger. Transaction maps are copied too.
func CopyChain(chain []model.Block) []model.Block {
	cp := make([]model.Block, 0, len(chain))
	if len(chain) == 0 {
		return cp
	}
	if err := copier.CopyWithOption(&cp, &chain, copier.Option{DeepCopy: true}); err != nil {
		slog.Warn("deep copy of chain failed, falling back to a shallow copy", "error", err)
		cp = append(cp[:0], chain...)
	}
	// Peers expect "transactions": [] rather than null.
	for i := range cp {
		if cp[i].Txs == nil {
			cp[i].Txs = []model.Transaction{}
		}
	}
	return cp
}

// Last n blocks of the chain, the whole chain if it is shorter.
func TailOf(chain []model.Block, n int) []model.Block {
	if n <= 0 {
		return []model.Block{}
	}
	if n >= len(chain) {
		return chain
	}
	return chain[len(chain)-n:]
}
