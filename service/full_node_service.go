package service

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	FullNodeService_GetChain_FullMethodName        = "/ledger.FullNodeService/GetChain"
	FullNodeService_SetTransactions_FullMethodName = "/ledger.FullNodeService/SetTransactions"
	FullNodeService_MineBlock_FullMethodName       = "/ledger.FullNodeService/MineBlock"
	FullNodeService_AddPeers_FullMethodName        = "/ledger.FullNodeService/AddPeers"
	FullNodeService_Consensus_FullMethodName       = "/ledger.FullNodeService/Consensus"
)

// CallOptions makes a call use the json codec, prepended to the caller's options.
func CallOptions(opts ...grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CODEC_NAME)}, opts...)
}

// FullNodeServiceClient is the client API for the full node service, used by wallets and peers.
type FullNodeServiceClient interface {
	GetChain(ctx context.Context, in *GetChainRequest, opts ...grpc.CallOption) (*GetChainResponse, error)
	SetTransactions(ctx context.Context, in *SetTransactionsRequest, opts ...grpc.CallOption) (*SetTransactionsResponse, error)
	MineBlock(ctx context.Context, in *MineBlockRequest, opts ...grpc.CallOption) (*MineBlockResponse, error)
	AddPeers(ctx context.Context, in *AddPeersRequest, opts ...grpc.CallOption) (*AddPeersResponse, error)
	Consensus(ctx context.Context, in *ConsensusRequest, opts ...grpc.CallOption) (*ConsensusResponse, error)
}

type fullNodeServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewFullNodeServiceClient(cc grpc.ClientConnInterface) FullNodeServiceClient {
	return &fullNodeServiceClient{cc}
}

func (c *fullNodeServiceClient) GetChain(ctx context.Context, in *GetChainRequest, opts ...grpc.CallOption) (*GetChainResponse, error) {
	out := new(GetChainResponse)
	err := c.cc.Invoke(ctx, FullNodeService_GetChain_FullMethodName, in, out, CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fullNodeServiceClient) SetTransactions(ctx context.Context, in *SetTransactionsRequest, opts ...grpc.CallOption) (*SetTransactionsResponse, error) {
	out := new(SetTransactionsResponse)
	err := c.cc.Invoke(ctx, FullNodeService_SetTransactions_FullMethodName, in, out, CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fullNodeServiceClient) MineBlock(ctx context.Context, in *MineBlockRequest, opts ...grpc.CallOption) (*MineBlockResponse, error) {
	out := new(MineBlockResponse)
	err := c.cc.Invoke(ctx, FullNodeService_MineBlock_FullMethodName, in, out, CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fullNodeServiceClient) AddPeers(ctx context.Context, in *AddPeersRequest, opts ...grpc.CallOption) (*AddPeersResponse, error) {
	out := new(AddPeersResponse)
	err := c.cc.Invoke(ctx, FullNodeService_AddPeers_FullMethodName, in, out, CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fullNodeServiceClient) Consensus(ctx context.Context, in *ConsensusRequest, opts ...grpc.CallOption) (*ConsensusResponse, error) {
	out := new(ConsensusResponse)
	err := c.cc.Invoke(ctx, FullNodeService_Consensus_FullMethodName, in, out, CallOptions(opts...)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FullNodeServiceServer is the server API for the full node service.
// All implementations must embed UnimplementedFullNodeServiceServer.
type FullNodeServiceServer interface {
	GetChain(context.Context, *GetChainRequest) (*GetChainResponse, error)
	SetTransactions(context.Context, *SetTransactionsRequest) (*SetTransactionsResponse, error)
	MineBlock(context.Context, *MineBlockRequest) (*MineBlockResponse, error)
	AddPeers(context.Context, *AddPeersRequest) (*AddPeersResponse, error)
	Consensus(context.Context, *ConsensusRequest) (*ConsensusResponse, error)
	mustEmbedUnimplementedFullNodeServiceServer()
}

type UnimplementedFullNodeServiceServer struct{}

func (UnimplementedFullNodeServiceServer) GetChain(context.Context, *GetChainRequest) (*GetChainResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetChain not implemented")
}
func (UnimplementedFullNodeServiceServer) SetTransactions(context.Context, *SetTransactionsRequest) (*SetTransactionsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SetTransactions not implemented")
}
func (UnimplementedFullNodeServiceServer) MineBlock(context.Context, *MineBlockRequest) (*MineBlockResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method MineBlock not implemented")
}
func (UnimplementedFullNodeServiceServer) AddPeers(context.Context, *AddPeersRequest) (*AddPeersResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AddPeers not implemented")
}
func (UnimplementedFullNodeServiceServer) Consensus(context.Context, *ConsensusRequest) (*ConsensusResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Consensus not implemented")
}
func (UnimplementedFullNodeServiceServer) mustEmbedUnimplementedFullNodeServiceServer() {}

func RegisterFullNodeServiceServer(s grpc.ServiceRegistrar, srv FullNodeServiceServer) {
	s.RegisterService(&FullNodeService_ServiceDesc, srv)
}

func _FullNodeService_GetChain_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetChainRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FullNodeServiceServer).GetChain(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: FullNodeService_GetChain_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FullNodeServiceServer).GetChain(ctx, req.(*GetChainRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _FullNodeService_SetTransactions_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SetTransactionsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FullNodeServiceServer).SetTransactions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: FullNodeService_SetTransactions_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FullNodeServiceServer).SetTransactions(ctx, req.(*SetTransactionsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _FullNodeService_MineBlock_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(MineBlockRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FullNodeServiceServer).MineBlock(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: FullNodeService_MineBlock_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FullNodeServiceServer).MineBlock(ctx, req.(*MineBlockRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _FullNodeService_AddPeers_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(AddPeersRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FullNodeServiceServer).AddPeers(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: FullNodeService_AddPeers_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FullNodeServiceServer).AddPeers(ctx, req.(*AddPeersRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _FullNodeService_Consensus_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ConsensusRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FullNodeServiceServer).Consensus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: FullNodeService_Consensus_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FullNodeServiceServer).Consensus(ctx, req.(*ConsensusRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// FullNodeService_ServiceDesc is written by hand, messages travel through the json codec so
// there is no generated proto code behind it.
var FullNodeService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "ledger.FullNodeService",
	HandlerType: (*FullNodeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetChain",
			Handler:    _FullNodeService_GetChain_Handler,
		},
		{
			MethodName: "SetTransactions",
			Handler:    _FullNodeService_SetTransactions_Handler,
		},
		{
			MethodName: "MineBlock",
			Handler:    _FullNodeService_MineBlock_Handler,
		},
		{
			MethodName: "AddPeers",
			Handler:    _FullNodeService_AddPeers_Handler,
		},
		{
			MethodName: "Consensus",
			Handler:    _FullNodeService_Consensus_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ledger/full_node_service",
}
