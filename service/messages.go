package service

import "github.com/Luismorlan/ledger_in_go/model"

type GetChainRequest struct{}

type GetChainResponse struct {
	Chain  []model.Block `json:"chain"`
	Length int           `json:"length"`
}

func (r *GetChainResponse) GetChain() []model.Block {
	if r == nil {
		return nil
	}
	return r.Chain
}

type SetTransactionsRequest struct {
	// Raw json objects, checked against the node's transaction schema.
	Transactions []interface{} `json:"transactions"`
}

type SetTransactionsResponse struct {
	// Index of the block the transactions will be sealed into.
	Index int `json:"index"`
	Count int `json:"count"`
}

type MineBlockRequest struct{}

type MineBlockResponse struct {
	Block model.Block `json:"block"`
}

type AddPeersRequest struct {
	Nodes []string `json:"nodes"`
}

type AddPeersResponse struct {
	// Every peer known after the addition.
	TotalNodes []string `json:"total_nodes"`
}

type ConsensusRequest struct{}

type ConsensusResponse struct {
	Replaced bool          `json:"replaced"`
	Chain    []model.Block `json:"chain"`
}
