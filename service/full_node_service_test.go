package service

import (
	"context"
	"encoding/json"
	"net"
	"testing"

	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type chainOnlyServer struct {
	UnimplementedFullNodeServiceServer
	chain []model.Block
}

func (s *chainOnlyServer) GetChain(ctx context.Context, req *GetChainRequest) (*GetChainResponse, error) {
	return &GetChainResponse{Chain: s.chain, Length: len(s.chain)}, nil
}

func dialTestServer(t *testing.T, srv FullNodeServiceServer) FullNodeServiceClient {
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	RegisterFullNodeServiceServer(s, srv)
	go s.Serve(lis)
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.Nil(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewFullNodeServiceClient(conn)
}

func TestJsonCodecKeepsNumbers(t *testing.T) {
	c := jsonCodec{}
	data, err := c.Marshal(&SetTransactionsRequest{Transactions: []interface{}{
		map[string]interface{}{"amount": 12345678901234567},
	}})
	require.Nil(t, err)

	req := SetTransactionsRequest{}
	require.Nil(t, c.Unmarshal(data, &req))
	tx := req.Transactions[0].(map[string]interface{})
	assert.Equal(t, json.Number("12345678901234567"), tx["amount"])
	assert.Equal(t, "json", c.Name())
}

func TestGetChainOverGrpc(t *testing.T) {
	chain := []model.Block{
		model.NewBlock(1, 1, "0", nil),
		model.NewBlock(2, 7, "ab", []model.Transaction{{"a": 1}}),
	}
	client := dialTestServer(t, &chainOnlyServer{chain: chain})

	res, err := client.GetChain(context.Background(), &GetChainRequest{})
	require.Nil(t, err)
	assert.Equal(t, 2, res.Length)
	assert.Equal(t, "ab", res.GetChain()[1].PrevHash)
	assert.Equal(t, json.Number("1"), res.Chain[1].Txs[0]["a"])
}

func TestUnimplementedMethod(t *testing.T) {
	client := dialTestServer(t, &chainOnlyServer{})

	_, err := client.MineBlock(context.Background(), &MineBlockRequest{})
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}
