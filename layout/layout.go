package layout

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Luismorlan/ledger_in_go/commands"
	"github.com/pterm/pterm"
)

const FULL_NODE_MANUAL = `start                     start mining, until stopped
stop                      stop mining
restart                   drop the current proof search and mine on the tail again
add_peer <host> <port>    register a peer
remove_peer <host> <port> forget a peer
list_peer                 list every known peer
resolve                   adopt the longest valid chain among peers
valid                     check the local chain
show <depth>              render the last blocks
help                      show this manual
history                   show past commands`

const WALLET_MANUAL = `connect <host> <port>     connect to a full node over grpc
tx <json>                 submit a transaction object, or a list of them
chain                     fetch the chain length
mine                      ask the full node to mine a block
resolve                   ask the full node to run consensus
add_peer <address>...     register peers on the full node
show <depth>              render the last blocks
help                      show this manual
history                   show past commands`

// Console reads commands line by line and keeps the ones accepted.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	manual string

	// Past accepted commands, oldest first.
	history []string
	m       sync.RWMutex
}

func NewConsole(in io.Reader, out io.Writer, manual string) *Console {
	return &Console{
		in:     bufio.NewReader(in),
		out:    out,
		manual: manual,
	}
}

func (c *Console) ShowManual() {
	fmt.Fprintln(c.out, pterm.DefaultBox.WithTitle("Manual").Sprint(c.manual))
}

func (c *Console) History() []string {
	c.m.RLock()
	defer c.m.RUnlock()
	return append([]string{}, c.history...)
}

func (c *Console) showHistory() {
	past := c.History()
	if len(past) == 0 {
		fmt.Fprint(c.out, pterm.Info.Sprintln("no past command"))
		return
	}
	items := []pterm.BulletListItem{}
	for _, line := range past {
		items = append(items, pterm.BulletListItem{Level: 0, Text: line})
	}
	s, err := pterm.DefaultBulletList.WithItems(items).Srender()
	if err != nil {
		return
	}
	fmt.Fprint(c.out, s)
}

// Run hands every line to handle until the input ends. help and history are served by the
// console itself. Lines rejected by handle are reported and left out of the history.
func (c *Console) Run(handle func(line string) error) {
	for {
		fmt.Fprint(c.out, "> ")
		text, err := c.in.ReadString('\n')
		line := strings.TrimSpace(text)
		if line != "" {
			c.dispatch(line, handle)
		}
		if err != nil {
			return
		}
	}
}

func (c *Console) dispatch(line string, handle func(line string) error) {
	switch line {
	case "help":
		c.ShowManual()
		return
	case "history":
		c.showHistory()
		return
	}
	if err := handle(line); err != nil {
		fmt.Fprint(c.out, pterm.Warning.Sprintln(err.Error()+", type help for the manual"))
		return
	}
	c.m.Lock()
	c.history = append(c.history, line)
	c.m.Unlock()
}

// Parse full node commands and send them to cmd.
func (c *Console) RunFullNode(cmd chan commands.Command) {
	c.Run(func(line string) error {
		parsed, err := commands.CreateCommand(line)
		if err != nil {
			return err
		}
		cmd <- parsed
		return nil
	})
}

// Parse wallet commands and handle them in order.
func (c *Console) RunWallet(handle func(commands.ClientCommand)) {
	c.Run(func(line string) error {
		parsed, err := commands.CreateClientCommand(line)
		if err != nil {
			return err
		}
		handle(parsed)
		return nil
	})
}
