package utils

import (
	"errors"
	"log/slog"
	"math"
	"math/big"
	"strconv"

	"github.com/Luismorlan/ledger_in_go/commands"
	"github.com/Luismorlan/ledger_in_go/model"
)

// Largest absolute value whose square still fits in an int64.
const maxSquareRoot = 3037000499

var errProofSpaceExhausted = errors.New("failed to find any proof")

// GetBlockBytes returns the canonical encoding of a block, see CanonicalJSON. An empty
// transaction list is encoded as [].
// Two blocks with the same content always encode to the same bytes, however they were built.
func GetBlockBytes(block *model.Block) ([]byte, error) {
	txs := make([]interface{}, 0, len(block.Txs))
	for _, tx := range block.Txs {
		txs = append(txs, map[string]interface{}(tx))
	}
	return CanonicalJSON(map[string]interface{}{
		"index":         block.Index,
		"previous_hash": block.PrevHash,
		"proof":         block.Proof,
		"timestamp":     block.Timestamp,
		"transactions":  txs,
	})
}

// ComputeHash returns the hex SHA-256 of the canonical block encoding, or "" when the block
// holds a value json cannot encode.
func ComputeHash(block *model.Block) string {
	blockBytes, err := GetBlockBytes(block)
	if err != nil {
		slog.Warn("failed to encode block", "index", block.Index, "error", err)
		return ""
	}
	return SHA256Hex(blockBytes)
}

// puzzleInput is the decimal string of proof² - prevProof². Large operands fall back to
// math/big so the result is exact for any int64 pair.
func puzzleInput(prevProof int64, proof int64) string {
	if inSquareRange(prevProof) && inSquareRange(proof) {
		return strconv.FormatInt(proof*proof-prevProof*prevProof, 10)
	}
	p := big.NewInt(proof)
	p.Mul(p, p)
	q := big.NewInt(prevProof)
	q.Mul(q, q)
	return p.Sub(p, q).String()
}

func inSquareRange(n int64) bool {
	return n >= -maxSquareRoot && n <= maxSquareRoot
}

// MatchProof reports whether proof answers the puzzle for prevProof: the hex SHA-256 of
// str(proof² - prevProof²) must start with difficulty '0' characters.
// This is a rate limiter for block production, not a security property.
func MatchProof(prevProof int64, proof int64, difficulty int) bool {
	digest := SHA256Hex([]byte(puzzleInput(prevProof, proof)))
	return HexHasLeadingZeros(digest, difficulty)
}

// FindProof returns the smallest proof >= 1 matching the puzzle. It never gives up.
func FindProof(prevProof int64, difficulty int) int64 {
	proof, _, _ := Mine(prevProof, difficulty, nil)
	return proof
}

// Mine searches proofs sequentially from 1 and returns the first one that matches.
// ctl is a channel that interrupts the search at any time, the interrupting command is
// returned along with an error. A nil ctl can't interrupt.
func Mine(prevProof int64, difficulty int, ctl chan commands.Command) (int64, commands.Command, error) {
	for proof := int64(1); proof < math.MaxInt64; proof++ {
		select {
		case c := <-ctl:
			return 0, c, errors.New("mining interrupted")
		default:
		}
		if MatchProof(prevProof, proof, difficulty) {
			return proof, commands.NewDefaultCommand(), nil
		}
	}
	return 0, commands.NewDefaultCommand(), errProofSpaceExhausted
}

// IsChainValid walks the chain from its second block and checks, for every adjacent pair,
// the hash link and the puzzle. The first block is trusted as is: a forged genesis is never
// detected. An empty chain is invalid. The chain is only read.
func IsChainValid(chain []model.Block, difficulty int) bool {
	if len(chain) == 0 {
		return false
	}
	for i := 1; i < len(chain); i++ {
		prev := &chain[i-1]
		curr := &chain[i]
		prevBytes, err := GetBlockBytes(prev)
		if err != nil {
			return false
		}
		if curr.PrevHash != SHA256Hex(prevBytes) {
			return false
		}
		if !MatchProof(prev.Proof, curr.Proof, difficulty) {
			return false
		}
	}
	return true
}
