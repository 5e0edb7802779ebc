package commands

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

type Operation int

const PORT_REGEX = "^[0-9]{2,5}$"

var portRegex = regexp.MustCompile(PORT_REGEX)

const (
	DEFAULT = iota
	// Start mining, infinite loop until explicit cancel.
	START
	// Restart mining when new tail replace the tail we mine on.
	RESTART
	// Stop mining completely.
	STOP
	// Add a new peer to this full node.
	ADD_PEER
	// Remove a peer by host and port.
	REMOVE_PEER
	// List all peers.
	LIST_PEER
	// Show the blockchain.
	SHOW
	// Run longest-chain consensus against all peers.
	RESOLVE
	// Check the local chain.
	VALID
)

// A command contains a operation and many arguments.
type Command struct {
	Op   Operation
	Args []string
}

func (c Command) IsValid() bool {
	switch c.Op {
	case START, RESTART, STOP, LIST_PEER, RESOLVE, VALID:
		return len(c.Args) == 0
	case ADD_PEER, REMOVE_PEER:
		if len(c.Args) != 2 {
			return false
		}
		return c.Args[0] != "" && portRegex.MatchString(c.Args[1])
	case SHOW:
		if len(c.Args) != 1 {
			return false
		}
		// depth must be a number.
		if _, err := strconv.Atoi(c.Args[0]); err != nil {
			return false
		}
		return true
	default:
		return false
	}
}

// From string, create a command.
func CreateCommand(s string) (Command, error) {
	ss := strings.Fields(s)
	if len(ss) == 0 {
		return Command{}, errors.New("command is empty")
	}
	cmd := Command{}
	switch ss[0] {
	case "start":
		cmd.Op = START
	case "restart":
		cmd.Op = RESTART
	case "stop":
		cmd.Op = STOP
	case "add_peer":
		cmd.Op = ADD_PEER
	case "remove_peer":
		cmd.Op = REMOVE_PEER
	case "list_peer":
		cmd.Op = LIST_PEER
	case "show":
		cmd.Op = SHOW
	case "resolve":
		cmd.Op = RESOLVE
	case "valid":
		cmd.Op = VALID
	}
	cmd.Args = ss[1:]
	if !cmd.IsValid() {
		return Command{}, errors.New("invalid command")
	}
	return cmd, nil
}

// Create a brand new command with default operation.
func NewDefaultCommand() Command {
	return Command{
		Op: DEFAULT,
	}
}

func (c Command) IsDefault() bool {
	return c.Op == DEFAULT
}
