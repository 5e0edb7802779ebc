package main

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/Luismorlan/ledger_in_go/commands"
	"github.com/Luismorlan/ledger_in_go/layout"
	"github.com/Luismorlan/ledger_in_go/logger"
	"github.com/Luismorlan/ledger_in_go/wallet"
	"github.com/pterm/pterm"
)

var (
	host     *string
	port     *string
	logLevel *string
)

func init() {
	host = flag.String("host", "localhost", "full node host to connect to on start")
	port = flag.String("port", "10000", "full node grpc port")
	logLevel = flag.String("log_level", "warn", "debug, info, warn or error")
}

func main() {
	flag.Parse()
	log := logger.NewLogger(&logger.Config{Level: *logLevel})

	w := wallet.NewWallet(log)
	defer w.Close()
	if err := w.SetFullNodeConnection(*host, *port); err != nil {
		pterm.Error.Println("failed to connect to full node:", err)
	}

	console := layout.NewConsole(os.Stdin, os.Stdout, layout.WALLET_MANUAL)
	console.ShowManual()
	console.RunWallet(func(c commands.ClientCommand) {
		HandleCommand(c, w)
	})
}

func HandleCommand(c commands.ClientCommand, w *wallet.Wallet) {
	switch c.Op {
	case commands.TRANSACTION:
		index, count, err := w.SendTransactions(c.Args[0])
		if err != nil {
			pterm.Error.Println("failed to send transactions:", err)
			return
		}
		pterm.Success.Printf("%d transaction(s) will be added to block %d\n", count, index)
	case commands.CONNECT:
		if err := w.SetFullNodeConnection(c.Args[0], c.Args[1]); err != nil {
			pterm.Error.Println("failed to connect to full node:", err)
			return
		}
		pterm.Success.Println("connected to full node", c.Args[0]+":"+c.Args[1])
	case commands.CHAIN:
		chain, err := w.GetChain()
		if err != nil {
			pterm.Error.Println("failed to get chain:", err)
			return
		}
		pterm.Info.Printf("chain length is %d\n", len(chain))
	case commands.MINE:
		block, err := w.Mine()
		if err != nil {
			pterm.Error.Println("mining failed:", err)
			return
		}
		pterm.Success.Printf("mined block %d with proof %d\n", block.Index, block.Proof)
	case commands.CONSENSUS:
		replaced, chain, err := w.Resolve()
		if err != nil {
			pterm.Error.Println("consensus failed:", err)
			return
		}
		if replaced {
			pterm.Success.Printf("chain replaced, length is now %d\n", len(chain))
		} else {
			pterm.Info.Printf("chain kept, length %d\n", len(chain))
		}
	case commands.PEER:
		all, err := w.AddPeers(c.Args)
		if err != nil {
			pterm.Error.Println("failed to add peers:", err)
			return
		}
		pterm.Success.Println("known peers:", strings.Join(all, ", "))
	case commands.DRAW:
		d, _ := strconv.Atoi(c.Args[0])
		if err := w.Show(os.Stdout, d); err != nil {
			pterm.Error.Println("failed to render chain:", err)
		}
	default:
		pterm.Warning.Printf("Unimplemented command: %d\n", c.Op)
	}
}
