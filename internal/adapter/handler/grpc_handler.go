package handler

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/rl1809/primo-pizza/internal/adapter/handler/pb"
	"github.com/rl1809/primo-pizza/internal/core/domain"
	"github.com/rl1809/primo-pizza/internal/core/pricing"
	"github.com/rl1809/primo-pizza/internal/core/service"
	"github.com/rl1809/primo-pizza/internal/core/session"
	"github.com/rl1809/primo-pizza/internal/logging"
	"github.com/rl1809/primo-pizza/internal/port"
)

// adminMetadataKey carries the admin token on admin RPCs.
const adminMetadataKey = "x-admin-token"

var adminMethods = map[string]bool{
	pb.Storefront_UpdateOrderStatus_FullMethodName: true,
}

type GRPCHandler struct {
	pb.UnimplementedStorefrontServer
	svc    *service.Services
	logger *zap.Logger
}

func NewGRPCHandler(svc *service.Services, logger *zap.Logger) *GRPCHandler {
	return &GRPCHandler{svc: svc, logger: logging.OrNop(logger).Named("grpc")}
}

// AdminAuthInterceptor rejects admin RPCs that do not carry token.
func AdminAuthInterceptor(token string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !adminMethods[info.FullMethod] {
			return handler(ctx, req)
		}
		md, _ := metadata.FromIncomingContext(ctx)
		var got string
		if vals := md.Get(adminMetadataKey); len(vals) > 0 {
			got = vals[0]
		}
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			return nil, status.Error(codes.Unauthenticated, "admin token required")
		}
		return handler(ctx, req)
	}
}

func (h *GRPCHandler) GetMenu(ctx context.Context, req *pb.GetMenuRequest) (*pb.GetMenuResponse, error) {
	items, err := h.svc.Menu.Search(ctx, service.MenuQuery{Category: req.GetCategory(), Term: req.GetQuery()})
	if err != nil {
		return nil, h.toStatus(err)
	}
	avail, err := h.svc.Menu.Available(ctx)
	if err != nil {
		return nil, h.toStatus(err)
	}
	ok := make(map[string]bool, len(avail))
	for _, a := range avail {
		ok[a.ID] = a.Available
	}

	resp := &pb.GetMenuResponse{Items: make([]*pb.MenuItem, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, &pb.MenuItem{
			Id:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
			Category:    string(item.Category),
			Popular:     item.IsPopular,
			Available:   ok[item.ID],
		})
	}
	return resp, nil
}

// cart fills a throwaway session with items and an optional promotion, so
// RPCs go through the same checks as the HTTP storefront.
func (h *GRPCHandler) cart(ctx context.Context, items []*pb.LineItem, promoCode string) (*session.Session, error) {
	s := session.New(h.svc, h.logger)
	for _, li := range items {
		if li == nil || li.Quantity <= 0 {
			return nil, status.Error(codes.InvalidArgument, "line items need a positive quantity")
		}
		if _, err := s.AddByID(ctx, li.ItemId); err != nil {
			return nil, err
		}
		s.UpdateQuantity(li.ItemId, int(li.Quantity)-1)
	}
	if promoCode != "" {
		if _, err := s.ApplyPromotion(ctx, promoCode); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (h *GRPCHandler) Quote(ctx context.Context, req *pb.QuoteRequest) (*pb.QuoteResponse, error) {
	s, err := h.cart(ctx, req.Items, req.PromoCode)
	if err != nil {
		return nil, h.toStatus(err)
	}
	q, err := s.Quote(ctx, req.ZoneId)
	if err != nil {
		return nil, h.toStatus(err)
	}
	r := q.Rounded()
	return &pb.QuoteResponse{
		Subtotal:     r.Subtotal,
		Discount:     r.Discount,
		DeliveryFee:  r.DeliveryFee,
		Total:        r.Total,
		TotalDisplay: pricing.Format(q.Total),
	}, nil
}

func (h *GRPCHandler) PlaceOrder(ctx context.Context, req *pb.PlaceOrderRequest) (*pb.PlaceOrderResponse, error) {
	s, err := h.cart(ctx, req.Items, req.PromoCode)
	if err != nil {
		return nil, h.toStatus(err)
	}
	c := req.GetCustomer()
	order, err := s.Checkout(ctx, session.CheckoutForm{
		RequestID: req.GetRequestId(),
		Name:      c.GetName(),
		Phone:     c.GetPhone(),
		Address:   c.GetAddress(),
		ZoneID:    req.ZoneId,
	})
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &pb.PlaceOrderResponse{Order: toPBOrder(order)}, nil
}

func (h *GRPCHandler) TrackOrders(ctx context.Context, req *pb.TrackOrdersRequest) (*pb.TrackOrdersResponse, error) {
	orders, err := h.svc.Orders.ForCustomer(ctx, req.Phone)
	if err != nil {
		return nil, h.toStatus(err)
	}
	resp := &pb.TrackOrdersResponse{Orders: make([]*pb.Order, 0, len(orders))}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, toPBOrder(o))
	}
	return resp, nil
}

func (h *GRPCHandler) GetLoyalty(ctx context.Context, req *pb.GetLoyaltyRequest) (*pb.GetLoyaltyResponse, error) {
	points, err := h.svc.Loyalty.Balance(ctx, req.Phone)
	if err != nil {
		return nil, h.toStatus(err)
	}
	resp := &pb.GetLoyaltyResponse{Points: int32(points)}
	for i, t := range h.svc.Loyalty.Tiers() {
		resp.Tiers = append(resp.Tiers, &pb.RewardTier{
			Index: int32(i),
			Cost:  int32(t.Cost),
			Title: t.Title,
			Value: t.Value,
		})
	}
	return resp, nil
}

func (h *GRPCHandler) RedeemReward(ctx context.Context, req *pb.RedeemRewardRequest) (*pb.RedeemRewardResponse, error) {
	promo, err := h.svc.Loyalty.RedeemReward(ctx, req.Phone, int(req.Tier))
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &pb.RedeemRewardResponse{Code: promo.Code, Value: promo.Value}, nil
}

func (h *GRPCHandler) UpdateOrderStatus(ctx context.Context, req *pb.UpdateOrderStatusRequest) (*pb.UpdateOrderStatusResponse, error) {
	order, err := h.svc.Orders.UpdateStatus(ctx, req.OrderId, domain.OrderStatus(req.Status))
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &pb.UpdateOrderStatusResponse{Order: toPBOrder(order)}, nil
}

func toPBOrder(o domain.Order) *pb.Order {
	out := &pb.Order{
		Id: o.ID,
		Customer: &pb.Customer{
			Name:    o.Customer.Name,
			Phone:   o.Customer.Phone,
			Address: o.Customer.Address,
		},
		Items:         make([]*pb.OrderLine, 0, len(o.Items)),
		Total:         o.Total,
		Discount:      o.DiscountApplied,
		DeliveryFee:   o.DeliveryFee,
		DeliveryZone:  o.DeliveryZone,
		Status:        string(o.Status),
		Timestamp:     o.Timestamp.Format(time.RFC3339),
		PaymentMethod: o.PaymentMethod,
	}
	for _, l := range o.Items {
		out.Items = append(out.Items, &pb.OrderLine{
			ItemId:   l.ID,
			Name:     l.Name,
			Price:    l.Price,
			Quantity: int32(l.Quantity),
		})
	}
	return out
}

func (h *GRPCHandler) toStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	var code codes.Code
	switch {
	case service.IsNotFound(err):
		code = codes.NotFound
	case errors.Is(err, service.ErrDuplicateRequest),
		errors.Is(err, service.ErrDuplicateCode):
		code = codes.AlreadyExists
	case errors.Is(err, service.ErrIllegalTransition),
		errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrInsufficientPoints):
		code = codes.FailedPrecondition
	case errors.Is(err, port.ErrConflict):
		code = codes.Aborted
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrMissingField),
		errors.Is(err, service.ErrEmptyCode),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrUnknownReward),
		errors.Is(err, session.ErrInvalidPhone):
		code = codes.InvalidArgument
	default:
		h.logger.Error("rpc failed", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}
