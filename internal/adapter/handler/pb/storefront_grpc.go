package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "primo.v1.Storefront"

const (
	Storefront_GetMenu_FullMethodName           = "/primo.v1.Storefront/GetMenu"
	Storefront_Quote_FullMethodName             = "/primo.v1.Storefront/Quote"
	Storefront_PlaceOrder_FullMethodName        = "/primo.v1.Storefront/PlaceOrder"
	Storefront_TrackOrders_FullMethodName       = "/primo.v1.Storefront/TrackOrders"
	Storefront_GetLoyalty_FullMethodName        = "/primo.v1.Storefront/GetLoyalty"
	Storefront_RedeemReward_FullMethodName      = "/primo.v1.Storefront/RedeemReward"
	Storefront_UpdateOrderStatus_FullMethodName = "/primo.v1.Storefront/UpdateOrderStatus"
)

type StorefrontServer interface {
	GetMenu(context.Context, *GetMenuRequest) (*GetMenuResponse, error)
	Quote(context.Context, *QuoteRequest) (*QuoteResponse, error)
	PlaceOrder(context.Context, *PlaceOrderRequest) (*PlaceOrderResponse, error)
	TrackOrders(context.Context, *TrackOrdersRequest) (*TrackOrdersResponse, error)
	GetLoyalty(context.Context, *GetLoyaltyRequest) (*GetLoyaltyResponse, error)
	RedeemReward(context.Context, *RedeemRewardRequest) (*RedeemRewardResponse, error)
	UpdateOrderStatus(context.Context, *UpdateOrderStatusRequest) (*UpdateOrderStatusResponse, error)
	mustEmbedUnimplementedStorefrontServer()
}

// UnimplementedStorefrontServer must be embedded by implementations.
type UnimplementedStorefrontServer struct{}

func (UnimplementedStorefrontServer) GetMenu(context.Context, *GetMenuRequest) (*GetMenuResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMenu not implemented")
}
func (UnimplementedStorefrontServer) Quote(context.Context, *QuoteRequest) (*QuoteResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Quote not implemented")
}
func (UnimplementedStorefrontServer) PlaceOrder(context.Context, *PlaceOrderRequest) (*PlaceOrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PlaceOrder not implemented")
}
func (UnimplementedStorefrontServer) TrackOrders(context.Context, *TrackOrdersRequest) (*TrackOrdersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method TrackOrders not implemented")
}
func (UnimplementedStorefrontServer) GetLoyalty(context.Context, *GetLoyaltyRequest) (*GetLoyaltyResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetLoyalty not implemented")
}
func (UnimplementedStorefrontServer) RedeemReward(context.Context, *RedeemRewardRequest) (*RedeemRewardResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RedeemReward not implemented")
}
func (UnimplementedStorefrontServer) UpdateOrderStatus(context.Context, *UpdateOrderStatusRequest) (*UpdateOrderStatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateOrderStatus not implemented")
}
func (UnimplementedStorefrontServer) mustEmbedUnimplementedStorefrontServer() {}

// RegisterStorefrontServer serves the storefront on s. Messages are encoded
// with the JSON codec, so clients must call with
// grpc.CallContentSubtype(CodecName); StorefrontClient does this already.
func RegisterStorefrontServer(s grpc.ServiceRegistrar, srv StorefrontServer) {
	s.RegisterService(&Storefront_ServiceDesc, srv)
}

// unary builds the method handler for one RPC.
func unary[Req, Resp any](method string, call func(StorefrontServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(StorefrontServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(StorefrontServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var Storefront_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StorefrontServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetMenu", Handler: unary(Storefront_GetMenu_FullMethodName, StorefrontServer.GetMenu)},
		{MethodName: "Quote", Handler: unary(Storefront_Quote_FullMethodName, StorefrontServer.Quote)},
		{MethodName: "PlaceOrder", Handler: unary(Storefront_PlaceOrder_FullMethodName, StorefrontServer.PlaceOrder)},
		{MethodName: "TrackOrders", Handler: unary(Storefront_TrackOrders_FullMethodName, StorefrontServer.TrackOrders)},
		{MethodName: "GetLoyalty", Handler: unary(Storefront_GetLoyalty_FullMethodName, StorefrontServer.GetLoyalty)},
		{MethodName: "RedeemReward", Handler: unary(Storefront_RedeemReward_FullMethodName, StorefrontServer.RedeemReward)},
		{MethodName: "UpdateOrderStatus", Handler: unary(Storefront_UpdateOrderStatus_FullMethodName, StorefrontServer.UpdateOrderStatus)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "primo/v1/storefront.proto",
}

type StorefrontClient struct {
	cc grpc.ClientConnInterface
}

func NewStorefrontClient(cc grpc.ClientConnInterface) *StorefrontClient {
	return &StorefrontClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StorefrontClient) GetMenu(ctx context.Context, in *GetMenuRequest, opts ...grpc.CallOption) (*GetMenuResponse, error) {
	return invoke[GetMenuResponse](ctx, c.cc, Storefront_GetMenu_FullMethodName, in, opts)
}

func (c *StorefrontClient) Quote(ctx context.Context, in *QuoteRequest, opts ...grpc.CallOption) (*QuoteResponse, error) {
	return invoke[QuoteResponse](ctx, c.cc, Storefront_Quote_FullMethodName, in, opts)
}

func (c *StorefrontClient) PlaceOrder(ctx context.Context, in *PlaceOrderRequest, opts ...grpc.CallOption) (*PlaceOrderResponse, error) {
	return invoke[PlaceOrderResponse](ctx, c.cc, Storefront_PlaceOrder_FullMethodName, in, opts)
}

func (c *StorefrontClient) TrackOrders(ctx context.Context, in *TrackOrdersRequest, opts ...grpc.CallOption) (*TrackOrdersResponse, error) {
	return invoke[TrackOrdersResponse](ctx, c.cc, Storefront_TrackOrders_FullMethodName, in, opts)
}

func (c *StorefrontClient) GetLoyalty(ctx context.Context, in *GetLoyaltyRequest, opts ...grpc.CallOption) (*GetLoyaltyResponse, error) {
	return invoke[GetLoyaltyResponse](ctx, c.cc, Storefront_GetLoyalty_FullMethodName, in, opts)
}

func (c *StorefrontClient) RedeemReward(ctx context.Context, in *RedeemRewardRequest, opts ...grpc.CallOption) (*RedeemRewardResponse, error) {
	return invoke[RedeemRewardResponse](ctx, c.cc, Storefront_RedeemReward_FullMethodName, in, opts)
}

func (c *StorefrontClient) UpdateOrderStatus(ctx context.Context, in *UpdateOrderStatusRequest, opts ...grpc.CallOption) (*UpdateOrderStatusResponse, error) {
	return invoke[UpdateOrderStatusResponse](ctx, c.cc, Storefront_UpdateOrderStatus_FullMethodName, in, opts)
}
