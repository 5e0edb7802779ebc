package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Luismorlan/ledger_in_go/full_node"
	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/utils"
	"github.com/julienschmidt/httprouter"
)

func (s *Server) getChainGet(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	chain, _ := s.node.FullNode().GetChain()
	writeJSON(w, http.StatusOK, model.NewChainSnapshot(chain))
}

func (s *Server) mineBlockGet(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if s.mineLimiter != nil && !s.mineLimiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "Mining too often, try again later")
		return
	}
	block, err := s.node.MineOnce(r.Context())
	if err != nil {
		s.log.Warn("mining failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Mining did not complete: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, MineBlockResponse{
		Message: "Congratulations, you just mined a block!",
		Block:   *block,
	})
}

func (s *Server) isValidGet(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	valid := s.node.FullNode().IsValid()
	message := "All good. The Blockchain is valid."
	if !valid {
		message = "Houston, we have a problem. The Blockchain is not valid."
	}
	writeJSON(w, http.StatusOK, IsValidResponse{Message: message, Valid: valid})
}

// Accepts {"transactions": [...]} or a single transaction object.
func (s *Server) addTransactionPost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body := map[string]interface{}{}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Request body should be properly formatted JSON")
		return
	}
	var raw []interface{}
	if batch, ok := body["transactions"]; ok {
		list, isList := batch.([]interface{})
		if !isList {
			writeError(w, http.StatusBadRequest, "transactions must be a list")
			return
		}
		raw = list
	} else {
		raw = []interface{}{body}
	}

	index, count, err := s.node.SubmitTransactions(r.Context(), raw)
	if errors.Is(err, utils.ErrInvalidTransaction) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, AddTransactionResponse{
		Message: fmt.Sprintf("%d transaction(s) will be added to block %d", count, index),
		Index:   index,
		Count:   count,
	})
}

func (s *Server) connectNodePost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := ConnectNodeRequest{}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Request body should be properly formatted JSON")
		return
	}
	if len(req.Nodes) == 0 {
		writeError(w, http.StatusBadRequest, "No node given")
		return
	}
	if _, err := s.node.RegisterPeers(req.Nodes); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, ConnectNodeResponse{
		Message:    "All the nodes are now connected.",
		TotalNodes: s.node.GetAllPeers(),
	})
}

func (s *Server) replaceChainGet(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	replaced, chain := s.node.Resolve(r.Context())
	message := "All good. The chain is the largest one."
	if replaced {
		message = "The nodes had different chains so the chain was replaced by the longest one."
	}
	writeJSON(w, http.StatusOK, ReplaceChainResponse{Message: message, Replaced: replaced, Chain: chain})
}

func (s *Server) networkChainGet(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	source, chain := s.node.Authoritative(r.Context())
	writeJSON(w, http.StatusOK, NetworkChainResponse{
		Message: "Longest valid chain in the network.",
		Source:  source,
		Chain:   chain,
		Length:  len(chain),
	})
}

func (s *Server) searchGet(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		writeError(w, http.StatusBadRequest, "Missing search term q")
		return
	}
	results := s.node.FullNode().Search(term)
	if len(results) == 0 {
		writeJSON(w, http.StatusNotFound, SearchResponse{Message: "No transaction matches " + term, Results: results})
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Message: fmt.Sprintf("%d transaction(s) found", len(results)),
		Results: results,
	})
}

func (s *Server) editBlockPost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !s.node.FullNode().Config().ALLOW_TAMPER {
		writeError(w, http.StatusForbidden, "Tampering is disabled on this node")
		return
	}
	req := EditBlockRequest{}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Request body should be properly formatted JSON")
		return
	}
	index, raw := req.Index, req.Transactions
	if req.BlockIndex != nil {
		index = *req.BlockIndex + 1
	}
	if req.NewTransaction != nil {
		raw = []interface{}{req.NewTransaction}
	}
	txs := []model.Transaction{}
	if len(raw) > 0 {
		var err error
		txs, err = utils.ValidateTransactions(raw, utils.SCHEMA_OPEN)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	block, err := s.node.FullNode().TamperBlock(r.Context(), index, txs)
	if errors.Is(err, full_node.ErrBlockNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	valid := s.node.FullNode().IsValid()
	conclusion := "As expected, the chain is now reported as invalid."
	if valid {
		conclusion = "The chain is still valid, only edits covered by a later block are detected."
	}
	writeJSON(w, http.StatusOK, EditBlockResponse{
		Message:           "Block edited.",
		Conclusion:        conclusion,
		BlockEditedIndex:  block.Index - 1,
		Block:             block,
		IsChainStillValid: valid,
	})
}
