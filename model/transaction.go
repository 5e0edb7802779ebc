package model

// Transaction is an open-ended record. No field is required and nothing is signed: the shape
// is decided by whoever submits it, and it is pooled verbatim.
type Transaction map[string]interface{}

type TransactionPool struct {
	// Txs contains all pending transactions that haven't been sealed into a block, in arrival order.
	Txs []Transaction
}

// NewTransactionPool creates a new transaction pool with no transaction at all.
func NewTransactionPool() TransactionPool {
	return TransactionPool{
		Txs: []Transaction{},
	}
}

func (p *TransactionPool) Add(txs ...Transaction) {
	p.Txs = append(p.Txs, txs...)
}

// Drain returns every pending transaction and leaves the pool with a fresh, empty slice.
// The returned slice is never shared with the pool afterwards.
func (p *TransactionPool) Drain() []Transaction {
	txs := p.Txs
	if txs == nil {
		txs = []Transaction{}
	}
	p.Txs = []Transaction{}
	return txs
}

func (p *TransactionPool) Len() int {
	return len(p.Txs)
}
