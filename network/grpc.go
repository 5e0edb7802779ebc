package network

import (
	"context"
	"sync"

	"github.com/Luismorlan/ledger_in_go/config"
	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/service"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// GRPCFetcher calls FullNodeService.GetChain on the peer. Connections are created lazily and
// kept for the next consensus round.
type GRPCFetcher struct {
	opts []grpc.DialOption

	// Protects conns.
	m     sync.Mutex
	conns map[string]*grpc.ClientConn
}

// Extra dial options are appended to the insecure transport credentials.
func NewGRPCFetcher(opts ...grpc.DialOption) *GRPCFetcher {
	return &GRPCFetcher{
		opts:  append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...),
		conns: map[string]*grpc.ClientConn{},
	}
}

func (g *GRPCFetcher) conn(address string) (*grpc.ClientConn, error) {
	g.m.Lock()
	defer g.m.Unlock()
	if conn, ok := g.conns[address]; ok {
		return conn, nil
	}
	// Peers are plain host:port, no name resolution beyond the dialer's.
	conn, err := grpc.NewClient("passthrough:///"+address, g.opts...)
	if err != nil {
		return nil, err
	}
	g.conns[address] = conn
	return conn, nil
}

func (g *GRPCFetcher) FetchChain(ctx context.Context, address string) (*model.ChainSnapshot, error) {
	conn, err := g.conn(address)
	if err != nil {
		return nil, err
	}
	res, err := service.NewFullNodeServiceClient(conn).GetChain(ctx, &service.GetChainRequest{})
	if err != nil {
		return nil, err
	}
	return &model.ChainSnapshot{Chain: res.Chain, Length: res.Length}, nil
}

// Forget drops the cached connection to a peer that was removed.
func (g *GRPCFetcher) Forget(address string) {
	g.m.Lock()
	defer g.m.Unlock()
	if conn, ok := g.conns[address]; ok {
		conn.Close()
		delete(g.conns, address)
	}
}

func (g *GRPCFetcher) Transport() string {
	return config.TRANSPORT_GRPC
}

func (g *GRPCFetcher) Close() error {
	g.m.Lock()
	defer g.m.Unlock()
	for address, conn := range g.conns {
		conn.Close()
		delete(g.conns, address)
	}
	return nil
}
