package utils

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/stretchr/testify/assert"
)

func TestValidateTransactionsOpen(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{"a": 1},
		map[string]interface{}{"anything": []interface{}{"goes"}},
	}
	txs, err := ValidateTransactions(raw, SCHEMA_OPEN)
	assert.Nil(t, err)
	assert.Equal(t, []model.Transaction{{"a": 1}, {"anything": []interface{}{"goes"}}}, txs)
}

func TestValidateTransactionsRejectsWholeBatch(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{"sender": "a", "receiver": "b", "amount": 1},
		map[string]interface{}{"sender": "a", "amount": 1},
	}
	txs, err := ValidateTransactions(raw, SCHEMA_TRANSFER)
	assert.True(t, errors.Is(err, ErrInvalidTransaction))
	assert.Contains(t, err.Error(), "item 1")
	assert.Contains(t, err.Error(), "receiver")
	assert.Nil(t, txs)
}

func TestValidateTransactionsBadInput(t *testing.T) {
	_, err := ValidateTransactions(nil, SCHEMA_OPEN)
	assert.True(t, errors.Is(err, ErrInvalidTransaction))

	_, err = ValidateTransactions([]interface{}{"not an object"}, SCHEMA_OPEN)
	assert.True(t, errors.Is(err, ErrInvalidTransaction))

	_, err = ValidateTransactions([]interface{}{map[string]interface{}{}}, "bogus")
	assert.True(t, errors.Is(err, ErrInvalidTransaction))
}

func TestValidateTransactionsFiltersFields(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{"sender": "a", "receiver": "b", "amount": 3, "memo": "dropped"},
	}
	txs, err := ValidateTransactions(raw, SCHEMA_TRANSFER)
	assert.Nil(t, err)
	assert.Equal(t, model.Transaction{"sender": "a", "receiver": "b", "amount": 3}, txs[0])

	task := map[string]interface{}{
		"id":     "t1",
		"name":   "convert",
		"engine": "v2",
		"extra":  true,
		"converter": map[string]interface{}{
			"code": "c", "id": "c1", "name": "conv", "secret": "x",
		},
	}
	txs, err = ValidateTransactions([]interface{}{task}, SCHEMA_TASK)
	assert.Nil(t, err)
	assert.Equal(t, model.Transaction{
		"id":        "t1",
		"name":      "convert",
		"engine":    "v2",
		"converter": map[string]interface{}{"code": "c", "id": "c1", "name": "conv"},
	}, txs[0])

	task["converter"] = "flat"
	_, err = ValidateTransactions([]interface{}{task}, SCHEMA_TASK)
	assert.True(t, errors.Is(err, ErrInvalidTransaction))
}

func TestSearchTransactions(t *testing.T) {
	chain := []model.Block{
		model.NewBlock(1, 1, "0", nil),
		model.NewBlock(2, 7, "h1", []model.Transaction{
			{"sender": "Alice", "amount": json.Number("10")},
			{"sender": "bob", "meta": map[string]interface{}{"tags": []interface{}{"x", "GPU"}}},
		}),
		model.NewBlock(3, 9, "h2", []model.Transaction{
			{"sender": "carol", "amount": json.Number("10")},
		}),
	}

	results := SearchTransactions(chain, "alice")
	assert.Len(t, results, 1)
	assert.Equal(t, 2, results[0].BlockIndex)

	results = SearchTransactions(chain, "gpu")
	assert.Len(t, results, 1)
	assert.Equal(t, "bob", results[0].Transaction["sender"])

	results = SearchTransactions(chain, "10")
	assert.Len(t, results, 2)
	assert.Equal(t, 3, results[1].BlockIndex)

	assert.Empty(t, SearchTransactions(chain, "dave"))
	assert.NotNil(t, SearchTransactions(nil, "dave"))
}
