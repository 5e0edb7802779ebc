package visualize

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/utils"
	"github.com/pterm/pterm"
)

// The string of hash is just too long to render, instead we take only first 3 and last 3
// characters and replace the middle part with '...'. E.g. "abcdefghi" will be rendered as "abc...ghi"
func shortenString(s string) string {
	if len(s) < 9 {
		return s
	}
	return fmt.Sprintf("%s...%s", s[0:3], s[len(s)-3:])
}

func txToNode(tx model.Transaction) pterm.TreeNode {
	b, err := json.Marshal(tx)
	if err != nil {
		return pterm.TreeNode{Text: fmt.Sprintf("<unencodable transaction: %v>", err)}
	}
	return pterm.TreeNode{Text: string(b)}
}

func blockToNode(b *model.Block) pterm.TreeNode {
	node := pterm.TreeNode{
		Text: fmt.Sprintf("#%d hash=%s prev=%s proof=%d at %s",
			b.Index, shortenString(utils.ComputeHash(b)), shortenString(b.PrevHash), b.Proof, b.Timestamp),
	}
	for _, tx := range b.Txs {
		node.Children = append(node.Children, txToNode(tx))
	}
	return node
}

// Entry to this package, where:
// w: where the tree is written to.
// chain: the chain as tracked by full node.
// d: how many blocks from the tail to render.
func Render(w io.Writer, chain []model.Block, d int) error {
	shown := utils.TailOf(chain, d)
	root := pterm.TreeNode{
		Text: fmt.Sprintf("chain length=%d showing=%d", len(chain), len(shown)),
	}
	for i := range shown {
		root.Children = append(root.Children, blockToNode(&shown[i]))
	}
	out, err := pterm.DefaultTree.WithRoot(root).Srender()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
