package utils

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeTransaction(t *testing.T, raw string) model.Transaction {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	tx := model.Transaction{}
	require.Nil(t, dec.Decode(&tx))
	return tx
}

// Digests below come from json.dumps(block, sort_keys=True) on the Flask nodes.
func TestComputeHashMatchesFlaskNodes(t *testing.T) {
	genesis := model.Block{
		Index:     1,
		Timestamp: "2024-01-01 00:00:00.000000",
		Proof:     1,
		PrevHash:  "0",
		Txs:       []model.Transaction{},
	}
	b, err := GetBlockBytes(&genesis)
	assert.Nil(t, err)
	assert.Equal(t, `{"index": 1, "previous_hash": "0", "proof": 1, "timestamp": "2024-01-01 00:00:00.000000", "transactions": []}`, string(b))
	assert.Equal(t, "cad612a090e91b7e87692edd4b95eb203c86ced15e5252c36469e33f3a90a784", ComputeHash(&genesis))

	tx := decodeTransaction(t, `{"name": "café", "emoji": "😀", "q": "a\"b</>&\\\n\t\u0001",
		"n": 12345678901234567890, "f": 1.5, "g": 1e-05, "h": 100000.0, "ok": true, "none": null,
		"list": [1, "x", {"b": 1, "a": 2}]}`)
	block := model.Block{
		Index:     2,
		Timestamp: "2024-01-01 00:00:01.000000",
		Proof:     533,
		PrevHash:  "abc",
		Txs:       []model.Transaction{tx},
	}
	b, err = GetBlockBytes(&block)
	assert.Nil(t, err)
	assert.Equal(t, `{"index": 2, "previous_hash": "abc", "proof": 533, "timestamp": "2024-01-01 00:00:01.000000", `+
		`"transactions": [{"emoji": "\ud83d\ude00", "f": 1.5, "g": 1e-05, "h": 100000.0, "list": [1, "x", {"a": 2, "b": 1}], `+
		`"n": 12345678901234567890, "name": "caf\u00e9", "none": null, "ok": true, "q": "a\"b</>&\\\n\t\u0001"}]}`, string(b))
	assert.Equal(t, "aef6462501dca22f16fd2a5077f8d18c48cf130f21f5a173d84a76c8cbf87399", ComputeHash(&block))
}

func TestCanonicalJSONFloats(t *testing.T) {
	cases := map[string]string{
		"1.0":     "1.0",
		"2.50":    "2.5",
		"1e-05":   "1e-05",
		"0.0001":  "0.0001",
		"1E16":    "1e+16",
		"1.5e+16": "1.5e+16",
		"-0.0":    "-0.0",
		"123":     "123",
	}
	for literal, expected := range cases {
		b, err := CanonicalJSON(json.Number(literal))
		assert.Nil(t, err, literal)
		assert.Equal(t, expected, string(b), literal)
	}

	_, err := CanonicalJSON(json.Number("12x"))
	assert.NotNil(t, err)
}

func TestCanonicalJSONMatchesWireForm(t *testing.T) {
	// A float held in memory hashes like the literal a peer decodes from the wire.
	local := model.Transaction{"amount": float64(1), "rate": 0.25, "count": 3}
	raw, err := json.Marshal(local)
	require.Nil(t, err)
	remote := decodeTransaction(t, string(raw))

	a, err := CanonicalJSON(map[string]interface{}(local))
	assert.Nil(t, err)
	b, err := CanonicalJSON(map[string]interface{}(remote))
	assert.Nil(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, `{"amount": 1, "count": 3, "rate": 0.25}`, string(a))
}

func TestCanonicalJSONStructFallback(t *testing.T) {
	type point struct {
		Y int    `json:"y"`
		X string `json:"x"`
	}
	b, err := CanonicalJSON([]interface{}{point{Y: 1, X: "é"}, []string{"a"}})
	assert.Nil(t, err)
	assert.Equal(t, `[{"x": "\u00e9", "y": 1}, ["a"]]`, string(b))
}
