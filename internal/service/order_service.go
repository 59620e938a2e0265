package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/dto"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/model"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/repository"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService handles cart submission and order retrieval. Unit prices are
// resolved server-side from the catalog at submission time and frozen into the
// order; client-supplied prices are never trusted.
type OrderService interface {
	Submit(ctx context.Context, email string, req dto.SubmitOrderRequest) (*dto.OrderResponse, error)
	Get(ctx context.Context, email, role string, id uuid.UUID) (*dto.OrderResponse, error)
	ListMine(ctx context.Context, email string) (*dto.OrderListResponse, error)
	ListAll(ctx context.Context) (*dto.OrderListResponse, error)
	Cancel(ctx context.Context, email, role string, id uuid.UUID) error
}

type orderService struct {
	orders     repository.OrderRepository
	products   repository.ProductRepository
	dispatcher *worker.Dispatcher
}

func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, dispatcher *worker.Dispatcher) OrderService {
	return &orderService{orders: orders, products: products, dispatcher: dispatcher}
}

func (s *orderService) Submit(ctx context.Context, email string, req dto.SubmitOrderRequest) (*dto.OrderResponse, error) {
	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, line := range req.Items {
		id, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, ErrNotFound
		}
		ids = append(ids, id)
	}

	products, err := s.products.FindManyByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("order: resolve products: %w", err)
	}
	byID := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	order := model.Order{
		Email:  strings.ToLower(email),
		Note:   req.Note,
		Status: model.OrderStatusSubmitted,
		Total:  decimal.Zero,
	}
	for i, line := range req.Items {
		p, ok := byID[ids[i]]
		if !ok {
			return nil, ErrNotFound
		}
		if !p.Active {
			return nil, ErrProductUnavailable
		}
		if p.ListPrice == nil {
			return nil, ErrProductNoPrice
		}
		subtotal := p.ListPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		order.Items = append(order.Items, model.OrderItem{
			ProductID: p.ID,
			Quantity:  line.Quantity,
			UnitPrice: *p.ListPrice,
			Subtotal:  subtotal,
		})
		order.Total = order.Total.Add(subtotal)
	}

	orderNo, err := s.orders.NextOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("order: allocate number: %w", err)
	}
	order.OrderNo = orderNo

	if err := s.orders.Create(ctx, &order); err != nil {
		return nil, fmt.Errorf("order: create: %w", err)
	}

	s.sendConfirmation(ctx, &order)

	resp := s.toOrderResponse(&order, byID)
	return &resp, nil
}

// sendConfirmation enqueues the confirmation email. Best effort: a full queue
// or missing dispatcher never fails an already committed order.
func (s *orderService) sendConfirmation(ctx context.Context, order *model.Order) {
	if s.dispatcher == nil {
		return
	}
	payload := worker.EmailJobPayload{
		ToEmail: order.Email,
		Subject: fmt.Sprintf("Order #%d received", order.OrderNo),
		Body: fmt.Sprintf("Your order #%d with %d line(s) totalling %s was received and is being processed.",
			order.OrderNo, len(order.Items), order.Total.StringFixed(2)),
	}
	if err := s.dispatcher.EnqueueEmail(ctx, payload); err != nil {
		log.Error().Err(err).Int64("order_no", order.OrderNo).Msg("order: failed to enqueue confirmation email")
	}
}

func (s *orderService) Get(ctx context.Context, email, role string, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.findVisible(ctx, email, role, id)
	if err != nil {
		return nil, err
	}
	resp := s.toOrderResponse(order, nil)
	return &resp, nil
}

func (s *orderService) ListMine(ctx context.Context, email string) (*dto.OrderListResponse, error) {
	orders, total, err := s.orders.ListByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, fmt.Errorf("order: list: %w", err)
	}
	return s.toOrderListResponse(orders, total), nil
}

func (s *orderService) ListAll(ctx context.Context) (*dto.OrderListResponse, error) {
	orders, total, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("order: list all: %w", err)
	}
	return s.toOrderListResponse(orders, total), nil
}

func (s *orderService) Cancel(ctx context.Context, email, role string, id uuid.UUID) error {
	order, err := s.findVisible(ctx, email, role, id)
	if err != nil {
		return err
	}
	if order.Status != model.OrderStatusSubmitted {
		return ErrOrderNotCancelable
	}
	if err := s.orders.UpdateStatus(ctx, id, model.OrderStatusCancelled); err != nil {
		return fmt.Errorf("order: cancel: %w", err)
	}
	return nil
}

// findVisible loads an order and enforces ownership: staff see only their own
// orders, admins see everything. A foreign order reads as not found rather
// than forbidden so order IDs are not probeable.
func (s *orderService) findVisible(ctx context.Context, email, role string, id uuid.UUID) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("order: get: %w", err)
	}
	if role != model.RoleAdmin && order.Email != strings.ToLower(email) {
		return nil, ErrNotFound
	}
	return order, nil
}

func (s *orderService) toOrderListResponse(orders []model.Order, total int64) *dto.OrderListResponse {
	resp := &dto.OrderListResponse{
		Data:  make([]dto.OrderResponse, 0, len(orders)),
		Total: total,
	}
	for i := range orders {
		resp.Data = append(resp.Data, s.toOrderResponse(&orders[i], nil))
	}
	return resp
}

// toOrderResponse maps an order. products supplies fresh lookups right after
// submission, before the association is loaded; otherwise item.Product is
// used when preloaded.
func (s *orderService) toOrderResponse(order *model.Order, products map[uuid.UUID]*model.Product) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:        order.ID.String(),
		OrderNo:   order.OrderNo,
		Email:     order.Email,
		Note:      order.Note,
		Status:    order.Status,
		Total:     order.Total,
		CreatedAt: order.CreatedAt.Format(time.RFC3339),
	}
	for _, item := range order.Items {
		line := dto.OrderItemResponse{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		}
		p := item.Product
		if p == nil && products != nil {
			p = products[item.ProductID]
		}
		if p != nil {
			line.ProductNo = p.ProductNo
			line.Name = p.Name
		}
		resp.Items = append(resp.Items, line)
	}
	return resp
}
