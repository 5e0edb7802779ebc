package full_node

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/Luismorlan/ledger_in_go/commands"
	"github.com/Luismorlan/ledger_in_go/logger"
	"github.com/Luismorlan/ledger_in_go/metrics"
	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/network"
	"github.com/Luismorlan/ledger_in_go/service"
	"github.com/Luismorlan/ledger_in_go/tracing"
	"github.com/Luismorlan/ledger_in_go/utils"
	"github.com/Luismorlan/ledger_in_go/visualize"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Source reported by Authoritative when the local chain wins and no self address is configured.
const LOCAL_SOURCE = "local"

// This server owns the peer set and runs consensus on top of a full node. It also serves the
// full node over gRPC.
type FullNodeServer struct {
	service.UnimplementedFullNodeServiceServer

	fullNode *FullNode
	fetcher  network.ChainFetcher

	// Normalized host:port of every known peer.
	peers map[string]struct{}
	// Create a mutex protect peers addition and deletion.
	pm sync.RWMutex

	// A command channel to pass command to other part of the system.
	// For now, the only use is to interrupt the mining process on tail change.
	cmd chan commands.Command
	log *logger.Logger
}

// Create a new full node server. cmd may be nil when nothing mines in the background.
func NewFullNodeServer(node *FullNode, fetcher network.ChainFetcher, cmd chan commands.Command, log *logger.Logger) *FullNodeServer {
	if log == nil {
		log = logger.Discard()
	}
	return &FullNodeServer{
		fullNode: node,
		fetcher:  fetcher,
		peers:    map[string]struct{}{},
		cmd:      cmd,
		log:      log,
	}
}

func (sev *FullNodeServer) FullNode() *FullNode {
	return sev.fullNode
}

// RegisterPeer normalizes address and adds it to the peer set. Registering a known peer
// again is a no-op.
func (sev *FullNodeServer) RegisterPeer(address string) (string, error) {
	normalized, err := utils.NormalizeAddress(address)
	if err != nil {
		return "", err
	}
	sev.pm.Lock()
	defer sev.pm.Unlock()
	sev.peers[normalized] = struct{}{}
	return normalized, nil
}

// RegisterPeers adds every address or none of them.
func (sev *FullNodeServer) RegisterPeers(addresses []string) ([]string, error) {
	if len(addresses) == 0 {
		return nil, fmt.Errorf("%w: no address given", utils.ErrInvalidAddress)
	}
	normalized := make([]string, 0, len(addresses))
	for _, address := range addresses {
		n, err := utils.NormalizeAddress(address)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, n)
	}
	sev.pm.Lock()
	defer sev.pm.Unlock()
	for _, n := range normalized {
		sev.peers[n] = struct{}{}
	}
	return normalized, nil
}

// Remove a peer from the peer set, return whether it was there.
func (sev *FullNodeServer) RemovePeer(address string) bool {
	normalized, err := utils.NormalizeAddress(address)
	if err != nil {
		return false
	}
	sev.pm.Lock()
	_, ok := sev.peers[normalized]
	delete(sev.peers, normalized)
	sev.pm.Unlock()
	if g, isGRPC := sev.fetcher.(*network.GRPCFetcher); ok && isGRPC {
		g.Forget(normalized)
	}
	return ok
}

// Return all current peers, sorted.
func (sev *FullNodeServer) GetAllPeers() []string {
	sev.pm.RLock()
	defer sev.pm.RUnlock()
	peers := make([]string, 0, len(sev.peers))
	for p := range sev.peers {
		peers = append(peers, p)
	}
	sort.Strings(peers)
	return peers
}

// Resolve asks every peer for its chain and adopts the longest valid one when it is longer
// than the local chain. Unreachable or malformed peers are skipped. Returns whether the local
// chain was replaced, and the local chain after the round.
// When several peers offer valid chains of the same winning length, the first to answer wins.
func (sev *FullNodeServer) Resolve(ctx context.Context) (bool, []model.Block) {
	peers := sev.GetAllPeers()
	ctx, span := tracing.StartResolveSpan(ctx, len(peers))
	defer span.End()

	source, best := sev.longestChain(ctx, peers, sev.fullNode.GetHeight())
	replaced := false
	if best != nil {
		replaced = sev.fullNode.replaceValidChain(ctx, best)
	}
	if replaced {
		metrics.ResolveTotal.WithLabelValues("replaced").Inc()
		sev.log.Info("chain replaced by peer", "peer", source, "length", len(best))
		sev.notifyTailChange()
	} else {
		metrics.ResolveTotal.WithLabelValues("kept").Inc()
	}
	chain, _ := sev.fullNode.GetChain()
	return replaced, chain
}

// Authoritative looks for the longest valid chain among the peers and this node, without
// replacing anything. The source is the address of the node holding it.
func (sev *FullNodeServer) Authoritative(ctx context.Context) (string, []model.Block) {
	self := LOCAL_SOURCE
	if addr := sev.fullNode.config.SELF_ADDRESS; addr != "" {
		if n, err := utils.NormalizeAddress(addr); err == nil {
			self = n
		}
	}
	peers := []string{}
	for _, p := range sev.GetAllPeers() {
		if p != self {
			peers = append(peers, p)
		}
	}
	local, length := sev.fullNode.GetChain()
	source, best := sev.longestChain(ctx, peers, length)
	if best == nil {
		return self, local
	}
	return source, best
}

// Query all peers, concurrency bounded, and return the longest valid chain strictly longer
// than minLength along with its peer. nil when no peer beats minLength.
func (sev *FullNodeServer) longestChain(ctx context.Context, peers []string, minLength int) (string, []model.Block) {
	var (
		mu     sync.Mutex
		source string
		best   []model.Block
	)
	g := errgroup.Group{}
	limit := sev.fullNode.config.RESOLVE_CONCURRENCY
	if limit <= 0 {
		limit = -1
	}
	g.SetLimit(limit)
	for _, peer := range peers {
		peer := peer
		g.Go(func() error {
			chain, ok := sev.fetchChain(ctx, peer)
			if !ok || len(chain) <= minLength {
				return nil
			}
			if !utils.IsChainValid(chain, sev.fullNode.config.DIFFICULTY) {
				metrics.PeerFetchFailures.WithLabelValues("invalid").Inc()
				sev.log.Warn("peer sent an invalid chain", "peer", peer, "length", len(chain))
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			if len(chain) > len(best) {
				source, best = peer, chain
			}
			return nil
		})
	}
	// Peer failures never surface as errors.
	g.Wait()
	return source, best
}

// Fetch one peer's chain, bounded by PEER_TIMEOUT. A reported length that doesn't match the
// chain makes the answer malformed.
func (sev *FullNodeServer) fetchChain(ctx context.Context, peer string) ([]model.Block, bool) {
	ctx, cancel := context.WithTimeout(ctx, sev.peerTimeout())
	defer cancel()
	ctx, span := tracing.StartFetchSpan(ctx, peer, sev.fetcher.Transport())
	defer span.End()

	snapshot, err := sev.fetcher.FetchChain(ctx, peer)
	if err != nil {
		metrics.PeerFetchFailures.WithLabelValues("unreachable").Inc()
		sev.log.Warn("failed to fetch chain from peer", "peer", peer, "error", err)
		return nil, false
	}
	if !snapshot.IsConsistent() {
		metrics.PeerFetchFailures.WithLabelValues("malformed").Inc()
		sev.log.Warn("peer reported a length that doesn't match its chain", "peer", peer,
			"length", snapshot.Length, "blocks", len(snapshot.Chain))
		return nil, false
	}
	return snapshot.Chain, true
}

func (sev *FullNodeServer) peerTimeout() time.Duration {
	if t := sev.fullNode.config.PEER_TIMEOUT; t > 0 {
		return t
	}
	return network.DEFAULT_FETCH_TIMEOUT
}

// Only a consensus incurred tail change interrupts the mining process. Nobody reading the
// channel means nothing is mining, the signal is dropped.
func (sev *FullNodeServer) notifyTailChange() {
	if !sev.fullNode.config.REMINE_ON_TAIL_CHANGE || sev.cmd == nil {
		return
	}
	select {
	case sev.cmd <- commands.Command{Op: commands.RESTART}:
	default:
		sev.log.Debug("no listener for restart, dropped")
	}
}

// Mine one block and set that block. Used by the console mining loop.
func (sev *FullNodeServer) Mine(ctl chan commands.Command) (commands.Command, error) {
	if sev.fullNode.config.RESOLVE_BEFORE_MINE {
		sev.Resolve(context.Background())
	}
	_, c, err := sev.fullNode.MineBlock(context.Background(), ctl)
	return c, err
}

// MineOnce mines a single block, giving up when ctx is done.
func (sev *FullNodeServer) MineOnce(ctx context.Context) (*model.Block, error) {
	if sev.fullNode.config.RESOLVE_BEFORE_MINE {
		sev.Resolve(ctx)
	}
	// Buffered so that the watcher never blocks once mining is over.
	ctl := make(chan commands.Command, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			ctl <- commands.Command{Op: commands.STOP}
		case <-done:
		}
	}()
	block, _, err := sev.fullNode.MineBlock(ctx, ctl)
	return block, err
}

// SubmitTransactions validates raw against the configured schema and pools the whole batch,
// or nothing. Returns the index of the block they will be sealed into.
func (sev *FullNodeServer) SubmitTransactions(ctx context.Context, raw []interface{}) (int, int, error) {
	txs, err := utils.ValidateTransactions(raw, sev.fullNode.config.TX_SCHEMA)
	if err != nil {
		return 0, 0, err
	}
	if sev.fullNode.config.RESOLVE_BEFORE_ENQUEUE {
		sev.Resolve(ctx)
	}
	index, err := sev.fullNode.AddTransactions(txs)
	if err != nil {
		return 0, 0, err
	}
	return index, len(txs), nil
}

// Show renders the last d blocks to w.
func (sev *FullNodeServer) Show(w io.Writer, d int) error {
	chain, _ := sev.fullNode.GetChain()
	return visualize.Render(w, chain, d)
}

func (sev *FullNodeServer) GetChain(ctx context.Context, req *service.GetChainRequest) (*service.GetChainResponse, error) {
	chain, length := sev.fullNode.GetChain()
	return &service.GetChainResponse{Chain: chain, Length: length}, nil
}

func (sev *FullNodeServer) SetTransactions(ctx context.Context, req *service.SetTransactionsRequest) (*service.SetTransactionsResponse, error) {
	index, count, err := sev.SubmitTransactions(ctx, req.Transactions)
	if errors.Is(err, utils.ErrInvalidTransaction) {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &service.SetTransactionsResponse{Index: index, Count: count}, nil
}

func (sev *FullNodeServer) MineBlock(ctx context.Context, req *service.MineBlockRequest) (*service.MineBlockResponse, error) {
	block, err := sev.MineOnce(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, status.FromContextError(ctx.Err()).Err()
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &service.MineBlockResponse{Block: *block}, nil
}

func (sev *FullNodeServer) AddPeers(ctx context.Context, req *service.AddPeersRequest) (*service.AddPeersResponse, error) {
	if _, err := sev.RegisterPeers(req.Nodes); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return &service.AddPeersResponse{TotalNodes: sev.GetAllPeers()}, nil
}

func (sev *FullNodeServer) Consensus(ctx context.Context, req *service.ConsensusRequest) (*service.ConsensusResponse, error) {
	replaced, chain := sev.Resolve(ctx)
	return &service.ConsensusResponse{Replaced: replaced, Chain: chain}, nil
}
