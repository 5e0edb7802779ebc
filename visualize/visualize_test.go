package visualize

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/utils"
	"github.com/stretchr/testify/assert"
)

func TestShortenString(t *testing.T) {
	assert.Equal(t, "abc...ghi", shortenString("abcdefghi"))
	assert.Equal(t, "0", shortenString("0"))
}

func TestRender(t *testing.T) {
	chain := model.NewBlockChain().Blocks
	genesisHash := utils.ComputeHash(&chain[0])
	chain = append(chain,
		model.NewBlock(2, 7, genesisHash, []model.Transaction{{"sender": "alice"}}),
		model.NewBlock(3, 9, "ffffffffff", nil),
	)

	buf := &bytes.Buffer{}
	assert.Nil(t, Render(buf, chain, 2))
	out := buf.String()
	assert.Contains(t, out, "chain length=3 showing=2")
	assert.Contains(t, out, "#2")
	assert.Contains(t, out, "#3")
	assert.False(t, strings.Contains(out, "#1 "))
	assert.Contains(t, out, "prev="+shortenString(genesisHash))
	assert.Contains(t, out, `{"sender":"alice"}`)
}
