package model

// ChainSnapshot is a chain as reported by a node: what /get_chain returns, what peers send
// during consensus and what a store persists.
type ChainSnapshot struct {
	Chain  []Block `json:"chain"`
	Length int     `json:"length"`
}

func NewChainSnapshot(chain []Block) ChainSnapshot {
	if chain == nil {
		chain = []Block{}
	}
	return ChainSnapshot{
		Chain:  chain,
		Length: len(chain),
	}
}

// A snapshot is consistent when the reported length matches the chain it carries.
func (s *ChainSnapshot) IsConsistent() bool {
	return s.Length == len(s.Chain)
}
