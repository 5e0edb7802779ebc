package model

import "time"

// Timestamp layout used when a block is sealed. The timestamp is advisory only and never validated.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// Proof and previous hash of the genesis block.
const (
	GenesisProof    int64 = 1
	GenesisPrevHash       = "0"
)

type Block struct {
	// 1-based position of the block in the chain.
	Index int `json:"index"`
	// Capture time at creation.
	Timestamp string `json:"timestamp"`
	// Proof is the miner's answer to the puzzle relative to the previous block's proof.
	Proof int64 `json:"proof"`
	// Hash of the previous block in the hex format, "0" for the genesis block.
	PrevHash string `json:"previous_hash"`
	// Transactions sealed into this block, in pool order.
	Txs []Transaction `json:"transactions"`
}

// Blockchain is the append-only sequence of blocks. Blocks[0] is always the genesis block.
type Blockchain struct {
	Blocks []Block
}

// Create a new block at the given index, stamped with the current time.
func NewBlock(index int, proof int64, prevHash string, txs []Transaction) Block {
	if txs == nil {
		txs = []Transaction{}
	}
	return Block{
		Index:     index,
		Timestamp: time.Now().Format(TimestampLayout),
		Proof:     proof,
		PrevHash:  prevHash,
		Txs:       txs,
	}
}

// Create a new blockchain holding only the genesis block.
func NewBlockChain() Blockchain {
	genesis := NewBlock(1, GenesisProof, GenesisPrevHash, nil)
	return Blockchain{
		Blocks: []Block{genesis},
	}
}

// Length of the chain.
func (bc *Blockchain) Length() int {
	return len(bc.Blocks)
}

// Tail returns the last block and false if the chain is empty.
func (bc *Blockchain) Tail() (Block, bool) {
	if len(bc.Blocks) == 0 {
		return Block{}, false
	}
	return bc.Blocks[len(bc.Blocks)-1], true
}
