package application

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"nexmall/internal/service/order/domain"
	"nexmall/internal/service/order/domain/port"
)

func noopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer("test")
}

func carrierStatus(code int) *port.CarrierTracking {
	return &port.CarrierTracking{CarrierStatus: code, StatusText: "test"}
}

func testProfile() *port.Profile {
	return &port.Profile{
		UserID:   "user-1",
		FullName: "Nguyen Van A",
		Email:    "a@example.com",
		Tel:      "0912345678",
	}
}

// memOrderRepo 是 domain.OrderRepository 的进程内实现，
// 乐观锁语义与 GORM 仓储保持一致。
type memOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order

	transitionCalls int
}

func newMemOrderRepo(seed ...*domain.Order) *memOrderRepo {
	repo := &memOrderRepo{orders: make(map[string]*domain.Order)}
	for _, o := range seed {
		cp := *o
		repo.orders[o.ID] = &cp
	}
	return repo
}

func (r *memOrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *memOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *order
	return &cp, nil
}

func (r *memOrderRepo) TransitionStatus(_ context.Context, orderID string, expectedVersion int64, next domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitionCalls++
	order, ok := r.orders[orderID]
	if !ok || order.Version != expectedVersion {
		return domain.ErrInvalidStatusTransition
	}
	order.Status = next
	order.Version++
	return nil
}

func (r *memOrderRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *memOrderRepo) FindByUser(_ context.Context, userID string, status *domain.Status, _, _ int) (*domain.OrderPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var orders []*domain.Order
	for _, o := range r.orders {
		if o.UserID != userID {
			continue
		}
		if status != nil && o.Status != *status {
			continue
		}
		cp := *o
		orders = append(orders, &cp)
	}
	return &domain.OrderPage{Orders: orders, TotalElements: int64(len(orders)), TotalPages: 1}, nil
}

func (r *memOrderRepo) Search(_ context.Context, _ string, _, _ int) (*domain.OrderPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var orders []*domain.Order
	for _, o := range r.orders {
		cp := *o
		orders = append(orders, &cp)
	}
	return &domain.OrderPage{Orders: orders, TotalElements: int64(len(orders)), TotalPages: 1}, nil
}

func (r *memOrderRepo) get(id string) *domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orders[id]
}

type fakeStock struct {
	mu           sync.Mutex
	insufficient []string
	checkErr     error
	adjustErr    error

	checkCalls int
	commands   []domain.StockUpdateCommand
}

func (f *fakeStock) CheckStock(_ context.Context, _ []domain.StockAdjustment) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkCalls++
	return f.insufficient, f.checkErr
}

func (f *fakeStock) AdjustStock(_ context.Context, cmd domain.StockUpdateCommand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.adjustErr != nil {
		return f.adjustErr
	}
	f.commands = append(f.commands, cmd)
	return nil
}

type fakeShipping struct {
	mu        sync.Mutex
	bookErr   error
	cancelErr error
	tracking  *port.CarrierTracking
	statusErr error

	bookings    []string
	cancels     []string
	statusCalls int
}

func (f *fakeShipping) CreateShipment(_ context.Context, order *domain.Order) (*port.ShipmentBooking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	f.bookings = append(f.bookings, order.ID)
	return &port.ShipmentBooking{TrackingID: 1234, Label: "S1.A2.17373471"}, nil
}

func (f *fakeShipping) CancelShipment(_ context.Context, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancels = append(f.cancels, orderID)
	return nil
}

func (f *fakeShipping) GetStatus(_ context.Context, _ string) (*port.CarrierTracking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.tracking, nil
}

type fakeProfile struct {
	profile *port.Profile
	err     error
}

func (f *fakeProfile) GetProfile(context.Context, string) (*port.Profile, error) {
	return f.profile, f.err
}

type fakeRule struct {
	result bool
	err    error
	calls  int
}

func (f *fakeRule) Evaluate(string, map[string]interface{}) (bool, error) {
	f.calls++
	return f.result, f.err
}

// countingLocker 进程内锁，记录加锁次数。
type countingLocker struct {
	mu    sync.Mutex
	calls int
}

func (l *countingLocker) WithLock(_ context.Context, _ string, fn func() error) error {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return fn()
}

type memCache struct {
	mu      sync.Mutex
	values  map[string]string
	missErr error
}

func newMemCache(missErr error) *memCache {
	return &memCache{values: make(map[string]string), missErr: missErr}
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.values[key]; ok {
		return v, nil
	}
	return "", c.missErr
}

func (c *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}
