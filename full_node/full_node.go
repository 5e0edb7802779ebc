package full_node

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Luismorlan/ledger_in_go/commands"
	"github.com/Luismorlan/ledger_in_go/config"
	"github.com/Luismorlan/ledger_in_go/logger"
	"github.com/Luismorlan/ledger_in_go/metrics"
	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/storage"
	"github.com/Luismorlan/ledger_in_go/tracing"
	"github.com/Luismorlan/ledger_in_go/utils"
	uuid "github.com/satori/go.uuid"
)

// Sender of the reward transaction pooled right before sealing.
const REWARD_SENDER = "network"

// Upper bound of a single store save, taken while the write lock is held.
const DEFAULT_SAVE_TIMEOUT = 5 * time.Second

// A full node maintains the chain and the pending transactions.
type FullNode struct {
	// The blockchain it needs to maintain.
	blockchain model.Blockchain
	// Transaction pool it need to maintain. Incoming transactions are added to this pool.
	txPool model.TransactionPool
	// Where the chain is saved after every change.
	store storage.Store
	// Ledger config.
	config config.AppConfig
	// A single mutex for changing internal state.
	m sync.RWMutex
	// A unique identifier of this full node, receives the mining reward.
	uuid        string
	log         *logger.Logger
	saveTimeout time.Duration
}

// Create a brand new full node, which contains a genesis block in the chain.
// A nil store keeps the chain in memory only.
func NewFullNode(c config.AppConfig, store storage.Store, log *logger.Logger) *FullNode {
	if store == nil {
		store = storage.NewMemoryStore()
	}
	if log == nil {
		log = logger.Discard()
	}
	id := uuid.NewV4().String()
	f := &FullNode{
		blockchain:  model.NewBlockChain(),
		txPool:      model.NewTransactionPool(),
		store:       store,
		config:      c,
		uuid:        id,
		log:         log.With("node", id),
		saveTimeout: DEFAULT_SAVE_TIMEOUT,
	}
	metrics.ChainLength.Set(float64(f.blockchain.Length()))
	return f
}

// Restore replaces the genesis-only chain with the stored one. Nothing stored yet is not an
// error, the genesis chain gets saved instead. A stored chain that fails validation is
// refused with ErrCorruptedSnapshot.
func (f *FullNode) Restore(ctx context.Context) error {
	chain, err := f.store.Load(ctx)
	if errors.Is(err, storage.ErrNoSnapshot) {
		f.m.Lock()
		defer f.m.Unlock()
		f.persistLocked(ctx)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load chain: %w", err)
	}
	if !utils.IsChainValid(chain, f.config.DIFFICULTY) {
		return ErrCorruptedSnapshot
	}
	f.m.Lock()
	defer f.m.Unlock()
	f.blockchain.Blocks = chain
	metrics.ChainLength.Set(float64(len(chain)))
	f.log.Info("chain restored", "length", len(chain))
	return nil
}

func (f *FullNode) UUID() string {
	return f.uuid
}

func (f *FullNode) Config() config.AppConfig {
	return f.config
}

// Tail returns the last block of the chain.
func (f *FullNode) Tail() (model.Block, error) {
	f.m.RLock()
	defer f.m.RUnlock()
	tail, ok := f.blockchain.Tail()
	if !ok {
		return model.Block{}, ErrEmptyChain
	}
	return tail, nil
}

// AddTransaction pools tx and returns the index of the block it will be sealed into.
func (f *FullNode) AddTransaction(tx model.Transaction) (int, error) {
	return f.AddTransactions([]model.Transaction{tx})
}

// AddTransactions pools txs in order. The shape of a transaction is never checked here.
func (f *FullNode) AddTransactions(txs []model.Transaction) (int, error) {
	f.m.Lock()
	defer f.m.Unlock()
	tail, ok := f.blockchain.Tail()
	if !ok {
		return 0, ErrEmptyChain
	}
	f.txPool.Add(txs...)
	metrics.PendingTransactions.Set(float64(f.txPool.Len()))
	return tail.Index + 1, nil
}

// Return a copy of the transactions waiting for the next block.
func (f *FullNode) PendingTransactions() []model.Transaction {
	f.m.RLock()
	defer f.m.RUnlock()
	txs := make([]model.Transaction, len(f.txPool.Txs))
	copy(txs, f.txPool.Txs)
	return txs
}

// SealBlock appends a block holding every pending transaction and empties the pool.
func (f *FullNode) SealBlock(proof int64, prevHash string) model.Block {
	f.m.Lock()
	defer f.m.Unlock()
	block := f.sealBlockLocked(proof, prevHash)
	f.persistLocked(context.Background())
	return block
}

// Must hold the write lock.
func (f *FullNode) sealBlockLocked(proof int64, prevHash string) model.Block {
	block := model.NewBlock(f.blockchain.Length()+1, proof, prevHash, f.txPool.Drain())
	f.blockchain.Blocks = append(f.blockchain.Blocks, block)
	metrics.PendingTransactions.Set(0)
	metrics.ChainLength.Set(float64(f.blockchain.Length()))
	return block
}

// Save the chain, must hold the lock so that saves land in mutation order. A failed save is
// logged, the in memory chain stays authoritative.
func (f *FullNode) persistLocked(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, f.saveTimeout)
	defer cancel()
	if err := f.store.Save(ctx, f.blockchain.Blocks); err != nil {
		f.log.Error("failed to persist chain", "length", f.blockchain.Length(), "error", err)
	}
}

// Create a new block on top of the tail. Mining is a really heavy task and runs without
// holding the lock: if the tail got replaced in the meantime the proof is useless and the
// search starts over on the new tail.
// ctl is a channel that interrupts the mining process at any time, the interrupting command
// is returned with an error. A nil ctl never interrupts.
func (f *FullNode) MineBlock(ctx context.Context, ctl chan commands.Command) (*model.Block, commands.Command, error) {
	for {
		tail, err := f.Tail()
		if err != nil {
			return nil, commands.NewDefaultCommand(), err
		}
		prevHash := utils.ComputeHash(&tail)

		_, span := tracing.StartMineSpan(ctx, tail.Index, f.config.DIFFICULTY)
		start := time.Now()
		proof, c, err := utils.Mine(tail.Proof, f.config.DIFFICULTY, ctl)
		metrics.MiningDuration.Observe(time.Since(start).Seconds())
		span.End()
		if err != nil {
			metrics.MiningInterrupted.WithLabelValues("command").Inc()
			return nil, c, err
		}

		block, err := f.sealOnTail(ctx, tail, prevHash, proof)
		if errors.Is(err, ErrStaleTail) {
			metrics.MiningInterrupted.WithLabelValues("stale_tail").Inc()
			f.log.Info("tail changed while mining, mining again", "mined_on", tail.Index)
			continue
		}
		if err != nil {
			return nil, commands.NewDefaultCommand(), err
		}
		metrics.BlocksMined.Inc()
		f.log.Info("block mined", "index", block.Index, "proof", block.Proof, "txs", len(block.Txs))
		return &block, commands.NewDefaultCommand(), nil
	}
}

// Seal only if the tail is still the block the proof was found for.
func (f *FullNode) sealOnTail(ctx context.Context, minedOn model.Block, prevHash string, proof int64) (model.Block, error) {
	f.m.Lock()
	defer f.m.Unlock()
	tail, ok := f.blockchain.Tail()
	if !ok {
		return model.Block{}, ErrEmptyChain
	}
	if tail.Index != minedOn.Index || utils.ComputeHash(&tail) != prevHash {
		return model.Block{}, ErrStaleTail
	}
	if f.config.COINBASE_REWARD > 0 {
		f.txPool.Add(model.Transaction{
			"sender":   REWARD_SENDER,
			"receiver": f.uuid,
			"amount":   f.config.COINBASE_REWARD,
		})
	}
	block := f.sealBlockLocked(proof, prevHash)
	f.persistLocked(ctx)
	return block, nil
}

// GetChain returns a deep copy of the chain and its length.
func (f *FullNode) GetChain() ([]model.Block, int) {
	f.m.RLock()
	defer f.m.RUnlock()
	return utils.CopyChain(f.blockchain.Blocks), f.blockchain.Length()
}

// Return the number of blocks in the chain.
func (f *FullNode) GetHeight() int {
	f.m.RLock()
	defer f.m.RUnlock()
	return f.blockchain.Length()
}

// IsValid checks the local chain.
func (f *FullNode) IsValid() bool {
	f.m.RLock()
	defer f.m.RUnlock()
	return utils.IsChainValid(f.blockchain.Blocks, f.config.DIFFICULTY)
}

// ReplaceChain swaps in candidate when it is valid and strictly longer than the local chain
// at the time of the swap. Pending transactions are kept. Returns whether the chain changed.
func (f *FullNode) ReplaceChain(ctx context.Context, candidate []model.Block) bool {
	candidate = utils.CopyChain(candidate)
	if !utils.IsChainValid(candidate, f.config.DIFFICULTY) {
		return false
	}
	return f.replaceValidChain(ctx, candidate)
}

// The caller has validated candidate already and hands over ownership, only the length is
// checked again.
func (f *FullNode) replaceValidChain(ctx context.Context, candidate []model.Block) bool {
	f.m.Lock()
	defer f.m.Unlock()
	if len(candidate) <= f.blockchain.Length() {
		return false
	}
	old := f.blockchain.Length()
	f.blockchain.Blocks = candidate
	f.persistLocked(ctx)
	metrics.ChainReplaced.Inc()
	metrics.ChainLength.Set(float64(len(candidate)))
	f.log.Info("chain replaced", "old_length", old, "new_length", len(candidate))
	return true
}

// Search returns every sealed transaction holding a value equal to term, case-insensitively.
func (f *FullNode) Search(term string) []utils.SearchResult {
	chain, _ := f.GetChain()
	return utils.SearchTransactions(chain, term)
}

// TamperBlock overwrites the transactions of the block at index, bypassing every check.
// It only exists to show that validation catches the edit.
func (f *FullNode) TamperBlock(ctx context.Context, index int, txs []model.Transaction) (model.Block, error) {
	f.m.Lock()
	defer f.m.Unlock()
	if index < 1 || index > f.blockchain.Length() {
		return model.Block{}, fmt.Errorf("%w: index %d", ErrBlockNotFound, index)
	}
	if txs == nil {
		txs = []model.Transaction{}
	}
	f.blockchain.Blocks[index-1].Txs = txs
	f.persistLocked(ctx)
	f.log.Warn("block tampered", "index", index)
	return f.blockchain.Blocks[index-1], nil
}
