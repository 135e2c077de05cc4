package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexmall/internal/service/order/domain"
)

type testDeps struct {
	repo     *memOrderRepo
	stock    *fakeStock
	shipping *fakeShipping
	profile  *fakeProfile
	rule     *fakeRule
	locker   *countingLocker
}

func newTestService(seed ...*domain.Order) (*OrderApplicationService, *testDeps) {
	deps := &testDeps{
		repo:     newMemOrderRepo(seed...),
		stock:    &fakeStock{},
		shipping: &fakeShipping{},
		profile:  &fakeProfile{profile: testProfile()},
		rule:     &fakeRule{},
		locker:   &countingLocker{},
	}
	tracer := noopTracer()
	reconciler := NewReconciler(deps.repo, deps.shipping, nil, 0, tracer)
	service := NewOrderApplicationService(
		deps.repo, deps.stock, deps.shipping, deps.profile,
		deps.rule, "", deps.locker, reconciler, 2, tracer,
	)
	return service, deps
}

func createRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		UserID:       "user-1",
		CustomerName: "Nguyen Van A",
		Address:      "12 Ly Thuong Kiet",
		Province:     "Ha Noi",
		District:     "Hoan Kiem",
		Ward:         "Trang Tien",
		Tel:          "0912345678",
		Value:        300,
		PickMoney:    300,
		OrderItems: []OrderItemRequest{
			{ProductCode: 101, Name: "cat food", Quantity: 2, Price: 50, Weight: 1.5},
			{ProductCode: 202, Name: "scratching post", Quantity: 1, Price: 120, Weight: 3},
		},
	}
}

func seedOrder(status domain.Status) *domain.Order {
	order, err := domain.NewOrder("user-1", "Nguyen Van A", []domain.OrderItem{
		{ProductCode: 101, Name: "cat food", Quantity: 2, Price: 50, Weight: 1.5},
	})
	if err != nil {
		panic(err)
	}
	order.Status = status
	return order
}

func TestCreateOrder_ReservesStockAfterPersist(t *testing.T) {
	service, deps := newTestService()

	resp, err := service.CreateOrder(context.Background(), createRequest())
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, int(domain.StatusPendingConfirmation), resp.Status)
	assert.Equal(t, float64(2*50+120), resp.TotalPrice)
	assert.NotNil(t, deps.repo.get(resp.ID), "order must be persisted")
	assert.Equal(t, 1, deps.stock.checkCalls)

	// 落库成功后恰好投递一次扣减指令，数量为负
	require.Len(t, deps.stock.commands, 1)
	cmd := deps.stock.commands[0]
	assert.Equal(t, resp.ID, cmd.OrderID)
	require.Len(t, cmd.Items, 2)
	assert.Equal(t, -2, cmd.Items[0].Quantity)
	assert.Equal(t, -1, cmd.Items[1].Quantity)
}

func TestCreateOrder_OutOfStockRejectsWithoutSideEffects(t *testing.T) {
	service, deps := newTestService()
	deps.stock.insufficient = []string{"cat food"}

	_, err := service.CreateOrder(context.Background(), createRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.Contains(t, err.Error(), "cat food")

	// 拒单时不落库、不投递任何库存指令
	assert.Empty(t, deps.repo.orders)
	assert.Empty(t, deps.stock.commands)
}

func TestCreateOrder_StockCheckFailureRejects(t *testing.T) {
	service, deps := newTestService()
	deps.stock.checkErr = errors.New("product service unavailable")

	_, err := service.CreateOrder(context.Background(), createRequest())
	require.Error(t, err)
	assert.Empty(t, deps.repo.orders)
	assert.Empty(t, deps.stock.commands)
}

func TestCreateOrder_DispatchFailureDoesNotFailOrder(t *testing.T) {
	service, deps := newTestService()
	deps.stock.adjustErr = errors.New("kafka unreachable")

	resp, err := service.CreateOrder(context.Background(), createRequest())
	require.NoError(t, err)
	// 订单照常创建，扣减缺口由补偿任务兜底
	assert.NotNil(t, deps.repo.get(resp.ID))
}

func TestCreateOrder_ValidationErrors(t *testing.T) {
	service, _ := newTestService()

	req := createRequest()
	req.OrderItems = nil
	_, err := service.CreateOrder(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrValidation)

	req = createRequest()
	req.PickMoney = -1
	_, err = service.CreateOrder(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateOrder_FreeShippingRule(t *testing.T) {
	service, deps := newTestService()
	service.freeShippingRule = "total >= 200.0"
	deps.rule.result = true

	resp, err := service.CreateOrder(context.Background(), createRequest())
	require.NoError(t, err)
	assert.True(t, resp.IsFreeShip)
	assert.Equal(t, 1, deps.rule.calls)
}

func TestCreateOrder_RuleFailureIsNotFatal(t *testing.T) {
	service, deps := newTestService()
	service.freeShippingRule = "total >= 200.0"
	deps.rule.err = errors.New("bad rule")

	resp, err := service.CreateOrder(context.Background(), createRequest())
	require.NoError(t, err)
	assert.False(t, resp.IsFreeShip)
}

func TestAdvanceStatus_ConfirmBooksShipmentOnce(t *testing.T) {
	order := seedOrder(domain.StatusPendingConfirmation)
	service, deps := newTestService(order)

	resp, err := service.AdvanceStatus(context.Background(), order.ID, "WAITING_FOR_SHIPMENT")
	require.NoError(t, err)

	assert.Equal(t, int(domain.StatusWaitingForShipment), resp.Status)
	assert.Equal(t, []string{order.ID}, deps.shipping.bookings)
	assert.Empty(t, deps.stock.commands, "confirmation must not touch stock")
	assert.Equal(t, domain.StatusWaitingForShipment, deps.repo.get(order.ID).Status)
	assert.Equal(t, 1, deps.locker.calls)
}

func TestAdvanceStatus_BookingFailureKeepsStatus(t *testing.T) {
	order := seedOrder(domain.StatusPendingConfirmation)
	service, deps := newTestService(order)
	deps.shipping.bookErr = errors.New("carrier timeout")

	_, err := service.AdvanceStatus(context.Background(), order.ID, "WAITING_FOR_SHIPMENT")
	require.Error(t, err)

	// 副作用失败时状态保持原样，重试安全
	assert.Equal(t, domain.StatusPendingConfirmation, deps.repo.get(order.ID).Status)
	assert.Empty(t, deps.stock.commands)
}

func TestAdvanceStatus_AdminCancelFromPendingRestoresStock(t *testing.T) {
	order := seedOrder(domain.StatusPendingConfirmation)
	service, deps := newTestService(order)

	_, err := service.AdvanceStatus(context.Background(), order.ID, "CANCELED")
	require.NoError(t, err)

	assert.Empty(t, deps.shipping.cancels, "no shipment exists yet")
	require.Len(t, deps.stock.commands, 1)
	assert.Equal(t, 2, deps.stock.commands[0].Items[0].Quantity)
}

func TestAdvanceStatus_CancelAfterBookingCancelsShipment(t *testing.T) {
	order := seedOrder(domain.StatusWaitingForShipment)
	service, deps := newTestService(order)

	_, err := service.AdvanceStatus(context.Background(), order.ID, "CANCELED")
	require.NoError(t, err)

	assert.Equal(t, []string{order.ID}, deps.shipping.cancels)
	require.Len(t, deps.stock.commands, 1)
	assert.Equal(t, 2, deps.stock.commands[0].Items[0].Quantity)
	assert.Equal(t, domain.StatusCanceled, deps.repo.get(order.ID).Status)
}

func TestAdvanceStatus_CarrierCancelFailureKeepsStatus(t *testing.T) {
	order := seedOrder(domain.StatusWaitingForShipment)
	service, deps := newTestService(order)
	deps.shipping.cancelErr = errors.New("carrier refused")

	_, err := service.AdvanceStatus(context.Background(), order.ID, "CANCELED")
	require.Error(t, err)
	assert.Equal(t, domain.StatusWaitingForShipment, deps.repo.get(order.ID).Status)
	assert.Empty(t, deps.stock.commands)
}

func TestAdvanceStatus_ReturnCompletionRestoresStock(t *testing.T) {
	order := seedOrder(domain.StatusReturnApproved)
	service, deps := newTestService(order)

	_, err := service.AdvanceStatus(context.Background(), order.ID, "RETURNED")
	require.NoError(t, err)

	assert.Empty(t, deps.shipping.cancels)
	require.Len(t, deps.stock.commands, 1)
}

func TestAdvanceStatus_InvalidTransition(t *testing.T) {
	order := seedOrder(domain.StatusPendingConfirmation)
	service, deps := newTestService(order)

	_, err := service.AdvanceStatus(context.Background(), order.ID, "DELIVERED")
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
	assert.Empty(t, deps.shipping.bookings)
	assert.Empty(t, deps.stock.commands)
}

func TestAdvanceStatus_UnknownStatusName(t *testing.T) {
	order := seedOrder(domain.StatusPendingConfirmation)
	service, _ := newTestService(order)

	_, err := service.AdvanceStatus(context.Background(), order.ID, "SHIPPED")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAdvanceStatus_OrderNotFound(t *testing.T) {
	service, _ := newTestService()

	_, err := service.AdvanceStatus(context.Background(), "missing", "CANCELED")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestCancelOrder_PendingConfirmation(t *testing.T) {
	order := seedOrder(domain.StatusPendingConfirmation)
	service, deps := newTestService(order)

	resp, err := service.CancelOrder(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, int(domain.StatusCanceled), resp.Status)
	assert.Empty(t, deps.shipping.cancels)
	require.Len(t, deps.stock.commands, 1)
	assert.Equal(t, 2, deps.stock.commands[0].Items[0].Quantity)
}

func TestCancelOrder_WaitingForPickupCancelsShipmentFirst(t *testing.T) {
	order := seedOrder(domain.StatusWaitingForPickup)
	service, deps := newTestService(order)

	_, err := service.CancelOrder(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{order.ID}, deps.shipping.cancels)
	require.Len(t, deps.stock.commands, 1)
	assert.Equal(t, domain.StatusCanceled, deps.repo.get(order.ID).Status)
}

func TestCancelOrder_CarrierFailureKeepsOrder(t *testing.T) {
	order := seedOrder(domain.StatusWaitingForPickup)
	service, deps := newTestService(order)
	deps.shipping.cancelErr = errors.New("carrier down")

	_, err := service.CancelOrder(context.Background(), order.ID)
	require.Error(t, err)
	assert.Equal(t, domain.StatusWaitingForPickup, deps.repo.get(order.ID).Status)
	assert.Empty(t, deps.stock.commands)
}

func TestCancelOrder_RejectedStates(t *testing.T) {
	for _, status := range []domain.Status{
		domain.StatusWaitingForShipment,
		domain.StatusShipping,
		domain.StatusDelivered,
		domain.StatusCanceled,
		domain.StatusReturnRequested,
		domain.StatusReturnApproved,
		domain.StatusReturned,
	} {
		t.Run(status.String(), func(t *testing.T) {
			order := seedOrder(status)
			service, deps := newTestService(order)

			_, err := service.CancelOrder(context.Background(), order.ID)
			assert.ErrorIs(t, err, domain.ErrCannotCancelOrder)
			assert.Equal(t, status, deps.repo.get(order.ID).Status)
			assert.Empty(t, deps.stock.commands)
		})
	}
}

func TestGetOrder_DecoratesWithProfile(t *testing.T) {
	order := seedOrder(domain.StatusDelivered)
	service, deps := newTestService(order)
	deps.profile.profile = testProfile()

	resp, err := service.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.Customer)
	assert.Equal(t, "Nguyen Van A", resp.Customer.FullName)
}

func TestGetOrder_ProfileFailureReturnsPartialResponse(t *testing.T) {
	order := seedOrder(domain.StatusDelivered)
	service, deps := newTestService(order)
	deps.profile.profile = nil
	deps.profile.err = errors.New("profile service down")

	resp, err := service.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Nil(t, resp.Customer)
}

func TestGetOrder_NotFound(t *testing.T) {
	service, _ := newTestService()

	_, err := service.GetOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestListUserOrders_FiltersByStatus(t *testing.T) {
	delivered := seedOrder(domain.StatusDelivered)
	canceled := seedOrder(domain.StatusCanceled)
	service, _ := newTestService(delivered, canceled)

	status := domain.StatusDelivered
	resp, err := service.ListUserOrders(context.Background(), "user-1", &status, 0, 10)
	require.NoError(t, err)
	require.Len(t, resp.Elements, 1)
	assert.Equal(t, delivered.ID, resp.Elements[0].ID)
}

func TestDeleteOrder(t *testing.T) {
	order := seedOrder(domain.StatusCanceled)
	service, deps := newTestService(order)

	require.NoError(t, service.DeleteOrder(context.Background(), order.ID))
	assert.Nil(t, deps.repo.get(order.ID))

	err := service.DeleteOrder(context.Background(), order.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
