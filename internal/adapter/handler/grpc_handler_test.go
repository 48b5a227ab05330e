package handler

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/rl1809/primo-pizza/internal/adapter/handler/pb"
	"github.com/rl1809/primo-pizza/internal/core/domain"
)

func newTestClient(t *testing.T) *pb.StorefrontClient {
	t.Helper()
	return pb.NewStorefrontClient(newTestConn(t))
}

func newTestConn(t *testing.T) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(AdminAuthInterceptor(testAdminToken)))
	pb.RegisterStorefrontServer(srv, NewGRPCHandler(newTestServices(t), nil))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func placeOrder(t *testing.T, c *pb.StorefrontClient, phone string) *pb.Order {
	t.Helper()
	resp, err := c.PlaceOrder(context.Background(), &pb.PlaceOrderRequest{
		Customer: &pb.Customer{Name: "Ann", Phone: phone, Address: "1 Main"},
		Items:    []*pb.LineItem{{ItemId: "1", Quantity: 2}},
		ZoneId:   "z2",
	})
	require.NoError(t, err)
	return resp.Order
}

func TestGRPC_GetMenu(t *testing.T) {
	c := newTestClient(t)

	resp, err := c.GetMenu(context.Background(), &pb.GetMenuRequest{Category: "meat"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Items)
	for _, item := range resp.Items {
		assert.Equal(t, "meat", item.Category)
	}
}

func TestGRPC_Quote(t *testing.T) {
	c := newTestClient(t)

	resp, err := c.Quote(context.Background(), &pb.QuoteRequest{
		Items:     []*pb.LineItem{{ItemId: "1", Quantity: 2}},
		PromoCode: "WELCOME10",
		ZoneId:    "z2",
	})
	require.NoError(t, err)
	assert.Equal(t, 31.98, resp.Subtotal)
	assert.Equal(t, 34.77, resp.Total)
	assert.Equal(t, "$34.77", resp.TotalDisplay)

	_, err = c.Quote(context.Background(), &pb.QuoteRequest{Items: []*pb.LineItem{{ItemId: "1", Quantity: 0}}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.Quote(context.Background(), &pb.QuoteRequest{PromoCode: "BOGUS"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGRPC_PlaceAndTrack(t *testing.T) {
	c := newTestClient(t)

	order := placeOrder(t, c, "555-0100")
	assert.Equal(t, string(domain.OrderStatusPending), order.Status)
	assert.Equal(t, int32(2), order.Items[0].Quantity)

	tracked, err := c.TrackOrders(context.Background(), &pb.TrackOrdersRequest{Phone: "555-0100"})
	require.NoError(t, err)
	require.Len(t, tracked.Orders, 1)
	assert.Equal(t, order.Id, tracked.Orders[0].Id)

	loyalty, err := c.GetLoyalty(context.Background(), &pb.GetLoyaltyRequest{Phone: "555-0100"})
	require.NoError(t, err)
	assert.Equal(t, int32(37), loyalty.Points)
	assert.Len(t, loyalty.Tiers, 3)

	_, err = c.RedeemReward(context.Background(), &pb.RedeemRewardRequest{Phone: "555-0100", Tier: 1})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestGRPC_PlaceOrderValidation(t *testing.T) {
	c := newTestClient(t)

	_, err := c.PlaceOrder(context.Background(), &pb.PlaceOrderRequest{
		Customer: &pb.Customer{Name: "Ann", Phone: "555-0100", Address: "1 Main"},
		ZoneId:   "z1",
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.PlaceOrder(context.Background(), &pb.PlaceOrderRequest{
		Items:  []*pb.LineItem{{ItemId: "1", Quantity: 1}},
		ZoneId: "z1",
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.PlaceOrder(context.Background(), &pb.PlaceOrderRequest{
		Customer: &pb.Customer{Name: "Ann", Phone: "555-0100", Address: "1 Main"},
		Items:    []*pb.LineItem{{ItemId: "404", Quantity: 1}},
		ZoneId:   "z1",
	})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGRPC_UpdateOrderStatusRequiresAdmin(t *testing.T) {
	c := newTestClient(t)
	order := placeOrder(t, c, "555-0100")

	req := &pb.UpdateOrderStatusRequest{OrderId: order.Id, Status: string(domain.OrderStatusInProgress)}
	_, err := c.UpdateOrderStatus(context.Background(), req)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	ctx := metadata.AppendToOutgoingContext(context.Background(), adminMetadataKey, testAdminToken)
	resp, err := c.UpdateOrderStatus(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, string(domain.OrderStatusInProgress), resp.Order.Status)

	_, err = c.UpdateOrderStatus(ctx, &pb.UpdateOrderStatusRequest{OrderId: order.Id, Status: string(domain.OrderStatusPending)})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = c.UpdateOrderStatus(ctx, &pb.UpdateOrderStatusRequest{OrderId: "ORD-none", Status: string(domain.OrderStatusDelivered)})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGRPC_RequiresJSONContentSubtype(t *testing.T) {
	conn := newTestConn(t)

	var resp pb.GetMenuResponse
	err := conn.Invoke(context.Background(), pb.Storefront_GetMenu_FullMethodName, &pb.GetMenuRequest{}, &resp)
	assert.Error(t, err, "default proto codec cannot carry storefront messages")

	err = conn.Invoke(context.Background(), pb.Storefront_GetMenu_FullMethodName, &pb.GetMenuRequest{}, &resp,
		grpc.CallContentSubtype(pb.CodecName))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Items)
}
