package commands

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

const (
	// do nothing operation
	NOOP = iota
	// Submit one transaction, or a batch, given as json.
	TRANSACTION
	// Connect a full node with host and port
	CONNECT
	// Fetch the chain from the connected full node.
	CHAIN
	// Ask the connected full node to mine a block.
	MINE
	// Ask the connected full node to run consensus.
	CONSENSUS
	// Register peers on the connected full node.
	PEER
	// Render the last blocks of the chain.
	DRAW
)

type ClientCommand struct {
	Op   Operation
	Args []string
}

func (c ClientCommand) IsValid() bool {
	switch c.Op {
	case TRANSACTION:
		if len(c.Args) != 1 {
			return false
		}
		raw := strings.TrimSpace(c.Args[0])
		return (strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "[")) && json.Valid([]byte(raw))
	case CHAIN, MINE, CONSENSUS:
		return len(c.Args) == 0
	case CONNECT:
		if len(c.Args) != 2 {
			return false
		}
		return c.Args[0] != "" && portRegex.MatchString(c.Args[1])
	case PEER:
		return len(c.Args) > 0
	case DRAW:
		if len(c.Args) != 1 {
			return false
		}
		_, err := strconv.Atoi(c.Args[0])
		return err == nil
	default:
		return false
	}
}

func CreateClientCommand(s string) (ClientCommand, error) {
	ss := strings.Fields(s)
	if len(ss) == 0 {
		return ClientCommand{}, errors.New("command is empty")
	}
	cmd := ClientCommand{}
	cmd.Args = ss[1:]
	switch ss[0] {
	case "tx":
		cmd.Op = TRANSACTION
		// json may contain spaces, keep everything after the verb as one argument.
		cmd.Args = []string{strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "tx"))}
	case "connect":
		cmd.Op = CONNECT
	case "chain":
		cmd.Op = CHAIN
	case "mine":
		cmd.Op = MINE
	case "resolve":
		cmd.Op = CONSENSUS
	case "add_peer":
		cmd.Op = PEER
	case "show":
		cmd.Op = DRAW
	default:
		cmd.Op = NOOP
	}
	if !cmd.IsValid() {
		return ClientCommand{}, errors.New("invalid command")
	}
	return cmd, nil
}
