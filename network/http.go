package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Luismorlan/ledger_in_go/config"
	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/go-resty/resty/v2"
)

// Path every node serves its chain at.
const CHAIN_PATH = "/get_chain"

// HTTPFetcher reads GET http://<peer>/get_chain.
type HTTPFetcher struct {
	client *resty.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DEFAULT_FETCH_TIMEOUT
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	client.JSONUnmarshal = unmarshalWithNumbers
	return &HTTPFetcher{client: client}
}

func unmarshalWithNumbers(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func (h *HTTPFetcher) FetchChain(ctx context.Context, address string) (*model.ChainSnapshot, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&model.ChainSnapshot{}).
		ForceContentType("application/json").
		Get("http://" + address + CHAIN_PATH)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chain from %s: %w", address, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch chain from %s: status %d", address, resp.StatusCode())
	}
	snapshot, ok := resp.Result().(*model.ChainSnapshot)
	if !ok || snapshot == nil {
		return nil, fmt.Errorf("unexpected response from %s", address)
	}
	return snapshot, nil
}

func (h *HTTPFetcher) Transport() string {
	return config.TRANSPORT_HTTP
}

func (h *HTTPFetcher) Close() error {
	h.client.GetClient().CloseIdleConnections()
	return nil
}
