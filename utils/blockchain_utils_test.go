package utils

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Luismorlan/ledger_in_go/commands"
	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDifficulty = 2

func createTestBlock() model.Block {
	return model.Block{
		Index:     2,
		Timestamp: "2024-01-02 03:04:05.000006",
		Proof:     533,
		PrevHash:  "00ab",
		Txs: []model.Transaction{
			{"sender": "a", "receiver": "b", "amount": 1},
		},
	}
}

// Build a valid chain of n blocks, each sealing one transaction.
func createTestChain(t *testing.T, n int) []model.Block {
	chain := model.NewBlockChain().Blocks
	for len(chain) < n {
		prev := chain[len(chain)-1]
		proof := FindProof(prev.Proof, testDifficulty)
		block := model.NewBlock(len(chain)+1, proof, ComputeHash(&prev), []model.Transaction{
			{"seq": len(chain), "nested": map[string]interface{}{"k": "v"}},
		})
		chain = append(chain, block)
	}
	require.True(t, IsChainValid(chain, testDifficulty))
	return chain
}

func TestGetBlockBytes(t *testing.T) {
	testBlock := createTestBlock()

	actualBlockBytes, err := GetBlockBytes(&testBlock)
	assert.Nil(t, err)

	expected := `{"index": 2, "previous_hash": "00ab", "proof": 533, "timestamp": "2024-01-02 03:04:05.000006", ` +
		`"transactions": [{"amount": 1, "receiver": "b", "sender": "a"}]}`
	assert.Equal(t, expected, string(actualBlockBytes))
}

func TestGetBlockBytesEmptyTransactions(t *testing.T) {
	block := model.Block{Index: 1, Proof: 1, PrevHash: "0"}
	b, err := GetBlockBytes(&block)
	assert.Nil(t, err)
	assert.True(t, strings.Contains(string(b), `"transactions": []`))

	block.Txs = []model.Transaction{}
	assert.Equal(t, ComputeHash(&model.Block{Index: 1, Proof: 1, PrevHash: "0"}), ComputeHash(&block))
}

func TestComputeHashIsDeterministic(t *testing.T) {
	first := createTestBlock()

	// Same logical block, transaction keys inserted in a different order.
	tx := model.Transaction{}
	tx["amount"] = 1
	tx["receiver"] = "b"
	tx["sender"] = "a"
	second := model.Block{
		Txs:       []model.Transaction{tx},
		PrevHash:  "00ab",
		Proof:     533,
		Timestamp: "2024-01-02 03:04:05.000006",
		Index:     2,
	}

	assert.Equal(t, ComputeHash(&first), ComputeHash(&first))
	assert.Equal(t, ComputeHash(&first), ComputeHash(&second))
	assert.Len(t, ComputeHash(&first), 64)
}

func TestComputeHashSurvivesJsonRoundTrip(t *testing.T) {
	block := createTestBlock()
	raw, err := json.Marshal(block)
	require.Nil(t, err)

	var decoded model.Block
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	require.Nil(t, dec.Decode(&decoded))

	assert.Equal(t, ComputeHash(&block), ComputeHash(&decoded))
}

func TestMatchProof(t *testing.T) {
	digest := SHA256Hex([]byte(puzzleInput(1, 533)))
	assert.Equal(t, HexHasLeadingZeros(digest, 2), MatchProof(1, 533, 2))
	assert.True(t, MatchProof(1, 533, 0))
}

func TestPuzzleInput(t *testing.T) {
	assert.Equal(t, "0", puzzleInput(1, 1))
	assert.Equal(t, "3", puzzleInput(1, 2))
	assert.Equal(t, "-3", puzzleInput(2, 1))
	// Squares overflowing int64 are computed exactly.
	assert.Equal(t, "85070591730234615847396907784232501249", puzzleInput(0, 9223372036854775807))
}

func TestFindProofIsSmallest(t *testing.T) {
	for _, difficulty := range []int{1, 2} {
		for _, prev := range []int64{1, 2, 7, 533, 100000} {
			proof := FindProof(prev, difficulty)
			assert.True(t, proof >= 1)
			assert.True(t, MatchProof(prev, proof, difficulty))
			for p := int64(1); p < proof; p++ {
				assert.False(t, MatchProof(prev, p, difficulty), "proof %d for prev %d", p, prev)
			}
		}
	}
}

func TestMine(t *testing.T) {
	testChan := make(chan commands.Command)

	proof, c, err := Mine(1, testDifficulty, testChan)
	assert.Nil(t, err)
	assert.True(t, c.IsDefault())
	assert.Equal(t, FindProof(1, testDifficulty), proof)
}

func TestMineInterruption(t *testing.T) {
	// A difficulty no digest can reach, only the command ends the search.
	impossibleDifficulty := 65
	testChan := make(chan commands.Command)

	go func() {
		testChan <- commands.Command{
			Op: commands.STOP,
		}
	}()

	_, c, err := Mine(1, impossibleDifficulty, testChan)
	assert.NotNil(t, err)
	assert.Equal(t, commands.Command{Op: commands.STOP}, c)
}

func TestHexHasLeadingZeros(t *testing.T) {
	assert.True(t, HexHasLeadingZeros("000af", 3))
	assert.False(t, HexHasLeadingZeros("000af", 4))
	assert.False(t, HexHasLeadingZeros("00", 3))
	assert.True(t, HexHasLeadingZeros("abc", 0))
}

func TestIsChainValid(t *testing.T) {
	assert.False(t, IsChainValid(nil, testDifficulty))
	assert.True(t, IsChainValid(model.NewBlockChain().Blocks, testDifficulty))
	assert.True(t, IsChainValid(createTestChain(t, 5), testDifficulty))
}

func TestIsChainValidDetectsSabotage(t *testing.T) {
	const n = 5

	// Editing the transactions of any block but the tail breaks the next link.
	for i := 0; i < n-1; i++ {
		chain := createTestChain(t, n)
		chain[i].Txs = []model.Transaction{{"forged": true}}
		assert.False(t, IsChainValid(chain, testDifficulty), "transactions of block %d", i)
	}

	// Editing the proof breaks the next link and the puzzle.
	for i := 0; i < n; i++ {
		chain := createTestChain(t, n)
		forged := chain[i].Proof + 1
		if i > 0 {
			for MatchProof(chain[i-1].Proof, forged, testDifficulty) {
				forged++
			}
		}
		chain[i].Proof = forged
		assert.False(t, IsChainValid(chain, testDifficulty), "proof of block %d", i)
	}

	// Editing the previous hash breaks the link it carries.
	for i := 1; i < n; i++ {
		chain := createTestChain(t, n)
		chain[i].PrevHash = strings.Repeat("f", 64)
		assert.False(t, IsChainValid(chain, testDifficulty), "previous hash of block %d", i)
	}
}

func TestIsChainValidDoesNotMutate(t *testing.T) {
	chain := createTestChain(t, 3)
	before := ComputeHash(&chain[2])
	IsChainValid(chain, testDifficulty)
	assert.Equal(t, before, ComputeHash(&chain[2]))
	assert.Len(t, chain, 3)
}
