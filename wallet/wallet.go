package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"time"

	"github.com/Luismorlan/ledger_in_go/logger"
	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/service"
	"github.com/Luismorlan/ledger_in_go/visualize"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const DEFAULT_CALL_TIMEOUT = 10 * time.Second

// Mining may take a while on higher difficulties.
const DEFAULT_MINE_TIMEOUT = 5 * time.Minute

var ErrNotConnected = errors.New("wallet is not connected to a full node")

// Wallet submits transactions to a full node and drives it over grpc.
type Wallet struct {
	FullNodeClient service.FullNodeServiceClient

	conn *grpc.ClientConn
	log  *logger.Logger
}

// Create a new wallet, not yet connected to any full node.
func NewWallet(log *logger.Logger) *Wallet {
	if log == nil {
		log = logger.Discard()
	}
	return &Wallet{log: log}
}

// Connect to the full node listening on ipAddr:port, dropping any previous connection.
func (w *Wallet) SetFullNodeConnection(ipAddr string, port string, opts ...grpc.DialOption) error {
	if len(opts) == 0 {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	serverAddr := net.JoinHostPort(ipAddr, port)
	conn, err := grpc.NewClient("passthrough:///"+serverAddr, opts...)
	if err != nil {
		w.log.Error("failed to dial", "address", serverAddr, "error", err)
		return err
	}
	w.Close()
	w.conn = conn
	w.FullNodeClient = service.NewFullNodeServiceClient(conn)
	w.log.Info("connected to full node", "address", serverAddr)
	return nil
}

func (w *Wallet) Close() error {
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	w.FullNodeClient = nil
	return err
}

func (w *Wallet) client() (service.FullNodeServiceClient, error) {
	if w.FullNodeClient == nil {
		return nil, ErrNotConnected
	}
	return w.FullNodeClient, nil
}

// Parse a json object, or a list of them, keeping numbers exact.
func ParseTransactions(raw string) ([]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after json value")
	}
	if list, ok := v.([]interface{}); ok {
		return list, nil
	}
	return []interface{}{v}, nil
}

// SendTransactions submits the transactions in raw json and returns the index of the block
// they will be sealed into.
func (w *Wallet) SendTransactions(raw string) (int, int, error) {
	txs, err := ParseTransactions(raw)
	if err != nil {
		return 0, 0, err
	}
	client, err := w.client()
	if err != nil {
		return 0, 0, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), DEFAULT_CALL_TIMEOUT)
	defer cancel()
	res, err := client.SetTransactions(ctx, &service.SetTransactionsRequest{Transactions: txs})
	if err != nil {
		return 0, 0, err
	}
	return res.Index, res.Count, nil
}

func (w *Wallet) GetChain() ([]model.Block, error) {
	client, err := w.client()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), DEFAULT_CALL_TIMEOUT)
	defer cancel()
	res, err := client.GetChain(ctx, &service.GetChainRequest{})
	if err != nil {
		return nil, err
	}
	snapshot := model.ChainSnapshot{Chain: res.GetChain(), Length: res.Length}
	if !snapshot.IsConsistent() {
		return nil, errors.New("full node answered with an inconsistent chain")
	}
	return snapshot.Chain, nil
}

func (w *Wallet) Mine() (model.Block, error) {
	client, err := w.client()
	if err != nil {
		return model.Block{}, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), DEFAULT_MINE_TIMEOUT)
	defer cancel()
	res, err := client.MineBlock(ctx, &service.MineBlockRequest{})
	if err != nil {
		return model.Block{}, err
	}
	return res.Block, nil
}

// Ask the full node to adopt the longest valid chain among its peers.
func (w *Wallet) Resolve() (bool, []model.Block, error) {
	client, err := w.client()
	if err != nil {
		return false, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), DEFAULT_CALL_TIMEOUT)
	defer cancel()
	res, err := client.Consensus(ctx, &service.ConsensusRequest{})
	if err != nil {
		return false, nil, err
	}
	return res.Replaced, res.Chain, nil
}

func (w *Wallet) AddPeers(nodes []string) ([]string, error) {
	client, err := w.client()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), DEFAULT_CALL_TIMEOUT)
	defer cancel()
	res, err := client.AddPeers(ctx, &service.AddPeersRequest{Nodes: nodes})
	if err != nil {
		return nil, err
	}
	return res.TotalNodes, nil
}

// Render the last d blocks of the full node's chain to out.
func (w *Wallet) Show(out io.Writer, d int) error {
	chain, err := w.GetChain()
	if err != nil {
		return err
	}
	return visualize.Render(out, chain, d)
}
