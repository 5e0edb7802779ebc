package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Luismorlan/ledger_in_go/model"
)

// Transaction schemas accepted at the boundary. The ledger itself never looks at the shape.
const (
	// Any json object, pooled verbatim.
	SCHEMA_OPEN = "open"
	// sender, receiver and amount.
	SCHEMA_TRANSFER = "transfer"
	// id, name, engine and a converter object with code, id and name.
	SCHEMA_TASK = "task"
)

var ErrInvalidTransaction = errors.New("invalid transaction")

var (
	transferKeys  = []string{"sender", "receiver", "amount"}
	taskKeys      = []string{"id", "name", "engine", "converter"}
	converterKeys = []string{"code", "id", "name"}
)

func IsKnownSchema(schema string) bool {
	switch schema {
	case SCHEMA_OPEN, SCHEMA_TRANSFER, SCHEMA_TASK:
		return true
	}
	return false
}

// ValidateTransactions checks a whole batch against the schema and returns the records to pool.
// Either every item is valid and all are returned, or an error naming the first bad item is
// returned and nothing is.
func ValidateTransactions(raw []interface{}, schema string) ([]model.Transaction, error) {
	if !IsKnownSchema(schema) {
		return nil, fmt.Errorf("%w: unknown schema %q", ErrInvalidTransaction, schema)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: transactions must be a non-empty list", ErrInvalidTransaction)
	}
	txs := make([]model.Transaction, 0, len(raw))
	for i, item := range raw {
		obj, ok := asObject(item)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is not an object", ErrInvalidTransaction, i)
		}
		tx, err := filterTransaction(obj, schema)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrInvalidTransaction, i, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func filterTransaction(obj map[string]interface{}, schema string) (model.Transaction, error) {
	switch schema {
	case SCHEMA_TRANSFER:
		if missing := missingKeys(obj, transferKeys); len(missing) > 0 {
			return nil, fmt.Errorf("missing %s", strings.Join(missing, ", "))
		}
		return model.Transaction{
			"sender":   obj["sender"],
			"receiver": obj["receiver"],
			"amount":   obj["amount"],
		}, nil
	case SCHEMA_TASK:
		if missing := missingKeys(obj, taskKeys); len(missing) > 0 {
			return nil, fmt.Errorf("missing %s", strings.Join(missing, ", "))
		}
		converter, ok := asObject(obj["converter"])
		if !ok {
			return nil, errors.New("converter must be an object")
		}
		if missing := missingKeys(converter, converterKeys); len(missing) > 0 {
			return nil, fmt.Errorf("converter missing %s", strings.Join(missing, ", "))
		}
		return model.Transaction{
			"id":     obj["id"],
			"name":   obj["name"],
			"engine": obj["engine"],
			"converter": map[string]interface{}{
				"id":   converter["id"],
				"code": converter["code"],
				"name": converter["name"],
			},
		}, nil
	default:
		return model.Transaction(obj), nil
	}
}

func asObject(v interface{}) (map[string]interface{}, bool) {
	switch o := v.(type) {
	case map[string]interface{}:
		return o, true
	case model.Transaction:
		return o, true
	}
	return nil, false
}

func missingKeys(obj map[string]interface{}, keys []string) []string {
	var missing []string
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// A transaction found by SearchTransactions, with the index of the block sealing it.
type SearchResult struct {
	BlockIndex  int               `json:"block_index"`
	Transaction model.Transaction `json:"transaction"`
}

// SearchTransactions returns every sealed transaction holding, at any depth, a value whose
// string form equals term, case-insensitively.
func SearchTransactions(chain []model.Block, term string) []SearchResult {
	term = strings.ToLower(term)
	results := []SearchResult{}
	for _, block := range chain {
		for _, tx := range block.Txs {
			if containsTerm(map[string]interface{}(tx), term) {
				results = append(results, SearchResult{BlockIndex: block.Index, Transaction: tx})
			}
		}
	}
	return results
}

func containsTerm(v interface{}, term string) bool {
	switch o := v.(type) {
	case map[string]interface{}:
		for _, child := range o {
			if containsTerm(child, term) {
				return true
			}
		}
		return false
	case model.Transaction:
		return containsTerm(map[string]interface{}(o), term)
	case []interface{}:
		for _, child := range o {
			if containsTerm(child, term) {
				return true
			}
		}
		return false
	case nil:
		return term == "none" || term == "null"
	case json.Number:
		return strings.ToLower(o.String()) == term
	default:
		return strings.ToLower(fmt.Sprint(o)) == term
	}
}
