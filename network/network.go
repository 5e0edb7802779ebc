package network

import (
	"context"
	"fmt"
	"time"

	"github.com/Luismorlan/ledger_in_go/config"
	"github.com/Luismorlan/ledger_in_go/model"
)

// ChainFetcher is the only thing consensus needs from the wire: ask a peer, given as
// host:port, for its whole chain. Whether the answer is consistent or valid is up to the caller.
type ChainFetcher interface {
	FetchChain(ctx context.Context, address string) (*model.ChainSnapshot, error)
	// Name of the transport, for logs and metrics.
	Transport() string
	Close() error
}

// Create the fetcher for the configured peer transport.
func NewChainFetcher(c config.AppConfig) (ChainFetcher, error) {
	switch c.PEER_TRANSPORT {
	case config.TRANSPORT_HTTP:
		return NewHTTPFetcher(c.PEER_TIMEOUT), nil
	case config.TRANSPORT_GRPC:
		return NewGRPCFetcher(), nil
	default:
		return nil, fmt.Errorf("unknown peer transport %q", c.PEER_TRANSPORT)
	}
}

// Fallback bound of a single fetch when the caller's context has none.
const DEFAULT_FETCH_TIMEOUT = 10 * time.Second
