package api

import (
	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/utils"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type MineBlockResponse struct {
	Message string      `json:"message"`
	Block   model.Block `json:"block"`
}

type IsValidResponse struct {
	Message string `json:"message"`
	Valid   bool   `json:"valid"`
}

type AddTransactionResponse struct {
	Message string `json:"message"`
	// Index of the block the transactions will be sealed into.
	Index int `json:"index"`
	Count int `json:"count"`
}

type ConnectNodeRequest struct {
	Nodes []string `json:"nodes"`
}

type ConnectNodeResponse struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"total_nodes"`
}

type ReplaceChainResponse struct {
	Message  string        `json:"message"`
	Replaced bool          `json:"replaced"`
	Chain    []model.Block `json:"chain"`
}

type NetworkChainResponse struct {
	Message string        `json:"message"`
	Source  string        `json:"source"`
	Chain   []model.Block `json:"chain"`
	Length  int           `json:"length"`
}

type SearchResponse struct {
	Message string               `json:"message"`
	Results []utils.SearchResult `json:"results"`
}

// Either index (1-based) with transactions, or block_index (0-based position) with a single
// new_transaction. The latter wins when both are given.
type EditBlockRequest struct {
	Index          int           `json:"index"`
	Transactions   []interface{} `json:"transactions"`
	BlockIndex     *int          `json:"block_index"`
	NewTransaction interface{}   `json:"new_transaction"`
}

type EditBlockResponse struct {
	Message           string      `json:"message"`
	Conclusion        string      `json:"conclusion"`
	BlockEditedIndex  int         `json:"block_edited_index"`
	Block             model.Block `json:"block"`
	IsChainStillValid bool        `json:"is_chain_still_valid"`
}
