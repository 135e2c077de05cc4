package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"nexmall/internal/pkg/config"
	"nexmall/internal/service/shipping/domain"
	"nexmall/internal/service/shipping/domain/port"
)

type memShipmentRepo struct {
	records map[string]*domain.ShipmentRecord
	saveErr error
}

func newMemShipmentRepo() *memShipmentRepo {
	return &memShipmentRepo{records: make(map[string]*domain.ShipmentRecord)}
}

func (r *memShipmentRepo) Save(_ context.Context, record *domain.ShipmentRecord) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *record
	r.records[record.OrderID] = &cp
	return nil
}

func (r *memShipmentRepo) FindByOrderID(_ context.Context, orderID string) (*domain.ShipmentRecord, error) {
	record, ok := r.records[orderID]
	if !ok {
		return nil, domain.ErrShipmentNotFound
	}
	cp := *record
	return &cp, nil
}

type fakeCarrier struct {
	createErr error
	cancelErr error
	statusErr error
	feeErr    error

	lastOrder    *port.CarrierOrder
	lastProducts []port.CarrierProduct
	lastFeeQuery *port.FeeQuery
	canceled     []int64
}

func (f *fakeCarrier) CreateOrder(_ context.Context, order *port.CarrierOrder, products []port.CarrierProduct) (*port.CarrierBooking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.lastOrder = order
	f.lastProducts = products
	return &port.CarrierBooking{
		PartnerID:            order.ID,
		Label:                "S1.A2.17373471",
		TrackingID:           98765,
		Fee:                  22000,
		InsuranceFee:         5000,
		EstimatedPickTime:    "Sáng 2026-08-30",
		EstimatedDeliverTime: "Chiều 2026-08-31",
	}, nil
}

func (f *fakeCarrier) CancelOrder(_ context.Context, trackingID int64) (string, error) {
	if f.cancelErr != nil {
		return "", f.cancelErr
	}
	f.canceled = append(f.canceled, trackingID)
	return "log-1", nil
}

func (f *fakeCarrier) OrderStatus(_ context.Context, trackingID int64) (*port.CarrierTrackingDetail, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &port.CarrierTrackingDetail{
		LabelID:    "S1.A2.17373471",
		PartnerID:  "order-1",
		Status:     5,
		StatusText: "Đang giao hàng",
	}, nil
}

func (f *fakeCarrier) CalculateFee(_ context.Context, query *port.FeeQuery) (*port.FeeQuote, error) {
	if f.feeErr != nil {
		return nil, f.feeErr
	}
	f.lastFeeQuery = query
	return &port.FeeQuote{Name: "area2", Fee: 30000, InsuranceFee: 2500, Delivery: true}, nil
}

func pickupConfig() config.CarrierConfig {
	return config.CarrierConfig{
		PickName:     "Petshop HN",
		PickAddress:  "5 Tran Hung Dao",
		PickProvince: "Ha Noi",
		PickDistrict: "Hoan Kiem",
		PickWard:     "Phan Chu Trinh",
		PickTel:      "0987654321",
	}
}

func newTestShippingService() (*ShippingApplicationService, *memShipmentRepo, *fakeCarrier) {
	repo := newMemShipmentRepo()
	carrier := &fakeCarrier{}
	service := NewShippingApplicationService(repo, carrier, pickupConfig(), noop.NewTracerProvider().Tracer("test"))
	return service, repo, carrier
}

func bookRequest() *BookShipmentRequest {
	return &BookShipmentRequest{
		Order: BookOrderPayload{
			OrderID:      "order-1",
			CustomerName: "Nguyen Van A",
			Address:      "12 Ly Thuong Kiet",
			Province:     "Ha Noi",
			District:     "Hoan Kiem",
			Ward:         "Trang Tien",
			Tel:          "0912345678",
			Value:        300000,
			PickMoney:    300000,
		},
		Products: []BookProductPayload{
			{Name: "cat food", Weight: 1.5, Quantity: 2, Price: 50000},
		},
	}
}

func TestCreateShipment_FillsPickupFromConfigAndPersists(t *testing.T) {
	service, repo, carrier := newTestShippingService()

	resp, err := service.CreateShipment(context.Background(), bookRequest())
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Order)
	assert.Equal(t, int64(98765), resp.Order.TrackingID)

	// 取件方信息来自配置，不信任调用方
	require.NotNil(t, carrier.lastOrder)
	assert.Equal(t, "Petshop HN", carrier.lastOrder.PickName)
	assert.Equal(t, "Ha Noi", carrier.lastOrder.PickProvince)
	assert.Equal(t, "cod", carrier.lastOrder.PickOption)

	record, err := repo.FindByOrderID(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, int64(98765), record.TrackingID)
	assert.Equal(t, "S1.A2.17373471", record.Label)
}

func TestCreateShipment_DefaultsProductQuantity(t *testing.T) {
	service, _, carrier := newTestShippingService()
	req := bookRequest()
	req.Products[0].Quantity = 0

	_, err := service.CreateShipment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, carrier.lastProducts[0].Quantity)
}

func TestCreateShipment_CarrierRejection(t *testing.T) {
	service, repo, carrier := newTestShippingService()
	carrier.createErr = errors.New("address not serviceable")

	_, err := service.CreateShipment(context.Background(), bookRequest())
	require.Error(t, err)
	_, err = repo.FindByOrderID(context.Background(), "order-1")
	assert.ErrorIs(t, err, domain.ErrShipmentNotFound)
}

func TestCreateShipment_PersistFailureFailsBooking(t *testing.T) {
	service, repo, _ := newTestShippingService()
	repo.saveErr = errors.New("mysql down")

	_, err := service.CreateShipment(context.Background(), bookRequest())
	assert.Error(t, err)
}

func TestCancelShipment_ResolvesTrackingID(t *testing.T) {
	service, _, carrier := newTestShippingService()
	_, err := service.CreateShipment(context.Background(), bookRequest())
	require.NoError(t, err)

	resp, err := service.CancelShipment(context.Background(), "order-1")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "log-1", resp.LogID)
	assert.Equal(t, []int64{98765}, carrier.canceled)
}

func TestCancelShipment_UnknownOrder(t *testing.T) {
	service, _, _ := newTestShippingService()

	_, err := service.CancelShipment(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrShipmentNotFound)
}

func TestOrderStatus_ReturnsCarrierDetail(t *testing.T) {
	service, _, _ := newTestShippingService()
	_, err := service.CreateShipment(context.Background(), bookRequest())
	require.NoError(t, err)

	resp, err := service.OrderStatus(context.Background(), "order-1")
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Order)
	assert.Equal(t, 5, resp.Order.Status)
	assert.Equal(t, "Đang giao hàng", resp.Order.StatusText)
}

func TestCalculateFee(t *testing.T) {
	service, _, carrier := newTestShippingService()

	resp, err := service.CalculateFee(context.Background(), &FeeRequest{
		Address:  "12 Ly Thuong Kiet",
		Province: "Ha Noi",
		District: "Hoan Kiem",
		Ward:     "Trang Tien",
		Value:    "300000",
		Weight:   3,
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, 30000, resp.Fee.Fee)

	// 取件地址来自配置，deliver_option 默认 none
	assert.Equal(t, "5 Tran Hung Dao", carrier.lastFeeQuery.PickAddress)
	assert.Equal(t, "none", carrier.lastFeeQuery.DeliverOption)
}

func TestCalculateFee_CarrierFailureDegrades(t *testing.T) {
	service, _, carrier := newTestShippingService()
	carrier.feeErr = errors.New("carrier down")

	resp, err := service.CalculateFee(context.Background(), &FeeRequest{})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Nil(t, resp.Fee)
}
