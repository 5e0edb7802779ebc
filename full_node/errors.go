package full_node

import "errors"

var (
	// The ledger holds no block at all. A node built by NewFullNode never gets there.
	ErrEmptyChain = errors.New("chain is empty")
	// The tail a proof was mined on was replaced before the block could be sealed.
	ErrStaleTail = errors.New("tail changed while mining")
	// No block at the requested index.
	ErrBlockNotFound = errors.New("block not found")
	// A stored chain failed validation and was not restored.
	ErrCorruptedSnapshot = errors.New("stored chain is invalid")
)
