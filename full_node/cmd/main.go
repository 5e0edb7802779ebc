package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/Luismorlan/ledger_in_go/api"
	"github.com/Luismorlan/ledger_in_go/commands"
	"github.com/Luismorlan/ledger_in_go/config"
	"github.com/Luismorlan/ledger_in_go/full_node"
	"github.com/Luismorlan/ledger_in_go/layout"
	"github.com/Luismorlan/ledger_in_go/logger"
	"github.com/Luismorlan/ledger_in_go/network"
	"github.com/Luismorlan/ledger_in_go/service"
	"github.com/Luismorlan/ledger_in_go/storage"
	"github.com/Luismorlan/ledger_in_go/tracing"
	"github.com/pterm/pterm"
	"google.golang.org/grpc"
)

var (
	port        *string
	grpcPort    *string
	peers       *string
	configPath  *string
	writeConfig *string
)

func init() {
	port = flag.String("port", "5000", "port serving the http api to peers and users")
	grpcPort = flag.String("grpc_port", "10000", "port serving grpc to peers and wallets")
	peers = flag.String("peers", "", "comma separated peer addresses, host:port or url")
	configPath = flag.String("config_path", "full_node/cmd/config.yaml", "path to full node config")
	writeConfig = flag.String("write_config", "", "write the default config to this path and exit")
}

// Write the default config, with LEDGER_ environment overrides applied, as a yaml template.
func WriteConfigTemplate(path string) error {
	c, err := config.LoadAppConfig("")
	if err != nil {
		return err
	}
	return config.WriteAppConfig(path, c)
}

// Commands come from the console, or from consensus when the tail changes under the miner.
func HandleCommand(cmd chan commands.Command, server *full_node.FullNodeServer, log *logger.Logger) {
	// A separate control is needed to make sure cmd is non-blocking
	// when we just want to restart task.
	ctl := make(chan commands.Command, 1)
	var running atomic.Bool
	for {
		c := <-cmd
		switch c.Op {
		case commands.START:
			if !running.CompareAndSwap(false, true) {
				log.Warn("mining has already been started")
				continue
			}
			go func() {
				defer running.Store(false)
				for {
					res, err := server.Mine(ctl)
					if err != nil {
						log.Error("mining failed", "error", err)
					}
					if res.Op == commands.STOP {
						return
					}
				}
			}()
		case commands.RESTART, commands.STOP:
			if !running.Load() {
				log.Info("no running mining task to restart or stop")
				continue
			}
			go func() {
				// Relay the signal in a separate goroutine, HandleCommand never blocks.
				ctl <- c
			}()
		case commands.ADD_PEER:
			address := net.JoinHostPort(c.Args[0], c.Args[1])
			if _, err := server.RegisterPeer(address); err != nil {
				log.Warn("failed to add peer", "address", address, "error", err)
				continue
			}
			pterm.Success.Println("peer added:", address)
		case commands.REMOVE_PEER:
			address := net.JoinHostPort(c.Args[0], c.Args[1])
			if !server.RemovePeer(address) {
				pterm.Warning.Println("unknown peer:", address)
				continue
			}
			pterm.Success.Println("peer removed:", address)
		case commands.LIST_PEER:
			all := server.GetAllPeers()
			if len(all) == 0 {
				pterm.Info.Println("no peers")
				continue
			}
			items := []pterm.BulletListItem{}
			for _, p := range all {
				items = append(items, pterm.BulletListItem{Level: 0, Text: p})
			}
			pterm.DefaultBulletList.WithItems(items).Render()
		case commands.SHOW:
			d, _ := strconv.Atoi(c.Args[0])
			if err := server.Show(os.Stdout, d); err != nil {
				log.Error("failed to render chain", "error", err)
			}
		case commands.RESOLVE:
			replaced, chain := server.Resolve(context.Background())
			if replaced {
				pterm.Success.Printf("chain replaced, length is now %d\n", len(chain))
			} else {
				pterm.Info.Printf("local chain kept, length %d\n", len(chain))
			}
		case commands.VALID:
			if server.FullNode().IsValid() {
				pterm.Success.Println("the chain is valid")
			} else {
				pterm.Error.Println("the chain is not valid")
			}
		default:
			log.Warn("unrecognized command", "op", c.Op)
		}
	}
}

func main() {
	flag.Parse()

	if *writeConfig != "" {
		if err := WriteConfigTemplate(*writeConfig); err != nil {
			pterm.Fatal.Println("failed to write config:", err)
		}
		pterm.Success.Println("config written to", *writeConfig)
		return
	}

	cfg, err := config.LoadAppConfig(*configPath)
	if err != nil {
		pterm.Fatal.Println("failed to load config:", err)
	}
	log := logger.NewLogger(&logger.Config{Level: cfg.LOG_LEVEL, Format: cfg.LOG_FORMAT})
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName: "ledger-full-node",
		Endpoint:    cfg.TRACING_ENDPOINT,
		Insecure:    true,
	})
	if err != nil {
		log.Error("failed to init tracing", "error", err)
		os.Exit(1)
	}

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Error("failed to open store", "type", cfg.STORE_TYPE, "error", err)
		os.Exit(1)
	}
	node := full_node.NewFullNode(cfg, store, log.With("component", "full_node"))
	if err := node.Restore(ctx); err != nil {
		log.Error("failed to restore chain", "error", err)
		os.Exit(1)
	}

	fetcher, err := network.NewChainFetcher(cfg)
	if err != nil {
		log.Error("failed to create peer transport", "error", err)
		os.Exit(1)
	}

	// A command channel that non-blockingly takes external or internal command
	// and handle it correspondingly.
	cmd := make(chan commands.Command)
	server := full_node.NewFullNodeServer(node, fetcher, cmd, log.With("component", "server"))
	if *peers != "" {
		all, err := server.RegisterPeers(strings.Split(*peers, ","))
		if err != nil {
			log.Error("bad peer list", "peers", *peers, "error", err)
			os.Exit(1)
		}
		log.Info("peers registered", "peers", all)
	}

	lis, err := net.Listen("tcp", ":"+*grpcPort)
	if err != nil {
		log.Error("failed to listen", "port", *grpcPort, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer()
	service.RegisterFullNodeServiceServer(grpcServer, server)
	go func() {
		log.Info("serving grpc", "port", *grpcPort)
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("grpc server stopped", "error", err)
		}
	}()

	httpServer := &http.Server{
		Addr:              ":" + *port,
		Handler:           api.New(server, log.With("component", "api")),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("serving http", "port", *port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", "error", err)
			stop()
		}
	}()

	console := layout.NewConsole(os.Stdin, os.Stdout, layout.FULL_NODE_MANUAL)
	console.ShowManual()
	go console.RunFullNode(cmd)
	go HandleCommand(cmd, server, log)

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	httpServer.Shutdown(shutdownCtx)
	grpcServer.GracefulStop()
	fetcher.Close()
	store.Close()
	shutdownTracer(shutdownCtx)
}
