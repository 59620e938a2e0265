package service

import (
	"context"
	"testing"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/dto"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/model"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubCatalogRepo serves product lookups for order submission.
type stubCatalogRepo struct {
	repository.ProductRepository

	products map[uuid.UUID]model.Product
}

func (s *stubCatalogRepo) FindManyByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubOrderRepo struct {
	nextNo  int64
	created []*model.Order
	byID    map[uuid.UUID]*model.Order
	status  map[uuid.UUID]string
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		nextNo: 1000,
		byID:   make(map[uuid.UUID]*model.Order),
		status: make(map[uuid.UUID]string),
	}
}

func (s *stubOrderRepo) NextOrderNumber(_ context.Context) (int64, error) {
	s.nextNo++
	return s.nextNo, nil
}

func (s *stubOrderRepo) Create(_ context.Context, o *model.Order) error {
	o.ID = uuid.New()
	s.created = append(s.created, o)
	s.byID[o.ID] = o
	return nil
}

func (s *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (s *stubOrderRepo) ListByEmail(_ context.Context, email string) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range s.byID {
		if o.Email == email {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubOrderRepo) ListAll(_ context.Context) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range s.byID {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	s.status[id] = status
	if o, ok := s.byID[id]; ok {
		o.Status = status
	}
	return nil
}

func priceProduct(no string, price string, active bool) model.Product {
	p := decimal.RequireFromString(price)
	return model.Product{
		ID:        uuid.New(),
		ProductNo: no,
		ListPrice: &p,
		Active:    active,
	}
}

func newOrderFixture(products ...model.Product) (*stubOrderRepo, OrderService) {
	catalog := &stubCatalogRepo{products: make(map[uuid.UUID]model.Product)}
	for _, p := range products {
		catalog.products[p.ID] = p
	}
	orders := newStubOrderRepo()
	return orders, NewOrderService(orders, catalog, nil)
}

func TestSubmitComputesTotalsFromCatalogPrices(t *testing.T) {
	pump := priceProduct("PUMP-1", "1999.00", true)
	hose := priceProduct("HOSE-1", "49.90", true)
	orders, svc := newOrderFixture(pump, hose)

	resp, err := svc.Submit(context.Background(), "Staff@Example.COM", dto.SubmitOrderRequest{
		Items: []dto.OrderLineRequest{
			{ProductID: pump.ID.String(), Quantity: 2},
			{ProductID: hose.ID.String(), Quantity: 3},
		},
	})
	require.NoError(t, err)

	// 2*1999.00 + 3*49.90
	assert.Equal(t, "4147.7", resp.Total.String())
	assert.Equal(t, "staff@example.com", resp.Email)
	assert.Equal(t, model.OrderStatusSubmitted, resp.Status)
	assert.Equal(t, int64(1001), resp.OrderNo)

	require.Len(t, orders.created, 1)
	items := orders.created[0].Items
	require.Len(t, items, 2)
	assert.Equal(t, "1999", items[0].UnitPrice.String())
	assert.Equal(t, "3998", items[0].Subtotal.String())
}

func TestSubmitRejectsInactiveProduct(t *testing.T) {
	p := priceProduct("GONE-1", "10.00", false)
	orders, svc := newOrderFixture(p)

	_, err := svc.Submit(context.Background(), "a@b.c", dto.SubmitOrderRequest{
		Items: []dto.OrderLineRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrProductUnavailable)
	assert.Empty(t, orders.created)
}

func TestSubmitRejectsProductWithoutPrice(t *testing.T) {
	p := model.Product{ID: uuid.New(), ProductNo: "NOPRICE", Active: true}
	orders, svc := newOrderFixture(p)

	_, err := svc.Submit(context.Background(), "a@b.c", dto.SubmitOrderRequest{
		Items: []dto.OrderLineRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrProductNoPrice)
	assert.Empty(t, orders.created)
}

func TestSubmitRejectsUnknownProduct(t *testing.T) {
	_, svc := newOrderFixture()

	_, err := svc.Submit(context.Background(), "a@b.c", dto.SubmitOrderRequest{
		Items: []dto.OrderLineRequest{{ProductID: uuid.NewString(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetHidesForeignOrdersFromStaff(t *testing.T) {
	p := priceProduct("PUMP-1", "5.00", true)
	orders, svc := newOrderFixture(p)

	resp, err := svc.Submit(context.Background(), "owner@example.com", dto.SubmitOrderRequest{
		Items: []dto.OrderLineRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)
	id := orders.created[0].ID

	_, err = svc.Get(context.Background(), "other@example.com", model.RoleStaff, id)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.Get(context.Background(), "OWNER@example.com", model.RoleStaff, id)
	require.NoError(t, err)
	assert.Equal(t, resp.OrderNo, got.OrderNo)

	// Admins see everything.
	_, err = svc.Get(context.Background(), "admin@example.com", model.RoleAdmin, id)
	assert.NoError(t, err)
}

func TestCancelOnlySubmittedOrders(t *testing.T) {
	p := priceProduct("PUMP-1", "5.00", true)
	orders, svc := newOrderFixture(p)

	_, err := svc.Submit(context.Background(), "owner@example.com", dto.SubmitOrderRequest{
		Items: []dto.OrderLineRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)
	id := orders.created[0].ID

	require.NoError(t, svc.Cancel(context.Background(), "owner@example.com", model.RoleStaff, id))
	assert.Equal(t, model.OrderStatusCancelled, orders.status[id])

	// Already cancelled.
	err = svc.Cancel(context.Background(), "owner@example.com", model.RoleStaff, id)
	assert.ErrorIs(t, err, ErrOrderNotCancelable)
}
