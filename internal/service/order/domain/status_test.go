package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionSideEffect_AllowedPairs(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		next    Status
		effect  SideEffect
	}{
		{"确认订单触发下运单", StatusPendingConfirmation, StatusWaitingForShipment, SideEffectBookShipment},
		{"待确认取消只回补库存", StatusPendingConfirmation, StatusCanceled, SideEffectRestoreStock},
		{"待发货进入运输无副作用", StatusWaitingForShipment, StatusShipping, SideEffectNone},
		{"待发货取消要先撤运单", StatusWaitingForShipment, StatusCanceled, SideEffectCancelShipmentAndRestore},
		{"运输完成无副作用", StatusShipping, StatusDelivered, SideEffectNone},
		{"送达后批准退货无副作用", StatusDelivered, StatusReturnApproved, SideEffectNone},
		{"退货完成回补库存", StatusReturnApproved, StatusReturned, SideEffectRestoreStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effect, ok := TransitionSideEffect(tt.current, tt.next)
			require.True(t, ok)
			assert.Equal(t, tt.effect, effect)
		})
	}
}

// 流转表之外的任何状态对（包括流转到自身）都必须被拒绝。
func TestTransitionSideEffect_RejectsEverythingElse(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPendingConfirmation, StatusWaitingForShipment}: true,
		{StatusPendingConfirmation, StatusCanceled}:           true,
		{StatusWaitingForShipment, StatusShipping}:            true,
		{StatusWaitingForShipment, StatusCanceled}:            true,
		{StatusShipping, StatusDelivered}:                     true,
		{StatusDelivered, StatusReturnApproved}:               true,
		{StatusReturnApproved, StatusReturned}:                true,
	}

	for _, current := range AllStatuses() {
		for _, next := range AllStatuses() {
			_, ok := TransitionSideEffect(current, next)
			assert.Equal(t, allowed[[2]Status{current, next}], ok,
				"transition %s -> %s", current, next)
		}
	}
}

func TestFromCarrierStatus(t *testing.T) {
	tests := []struct {
		carrier int
		want    Status
	}{
		{1, StatusPendingConfirmation},
		{2, StatusWaitingForShipment},
		{3, StatusWaitingForPickup},
		{5, StatusShipping},
		{6, StatusDelivered},
		{8, StatusReturnApproved},
		{9, StatusReturned},
		// 未识别的码按历史行为兜底到 CANCELED
		{0, StatusCanceled},
		{4, StatusCanceled},
		{7, StatusCanceled},
		{127, StatusCanceled},
		{-1, StatusCanceled},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromCarrierStatus(tt.carrier), "carrier status %d", tt.carrier)
	}
}

func TestKnownCarrierStatus(t *testing.T) {
	for _, known := range []int{1, 2, 3, 5, 6, 8, 9} {
		assert.True(t, KnownCarrierStatus(known), "carrier status %d", known)
	}
	for _, unknown := range []int{0, 4, 7, 10, -1} {
		assert.False(t, KnownCarrierStatus(unknown), "carrier status %d", unknown)
	}
}

func TestCancelableByCustomer(t *testing.T) {
	for _, s := range AllStatuses() {
		want := s == StatusPendingConfirmation || s == StatusWaitingForPickup
		assert.Equal(t, want, CancelableByCustomer(s), "status %s", s)
	}
}

func TestNeedsCarrierRefresh(t *testing.T) {
	skipped := map[Status]bool{
		StatusPendingConfirmation: true,
		StatusReturnRequested:     true,
		StatusDelivered:           true,
		StatusCanceled:            true,
	}
	for _, s := range AllStatuses() {
		assert.Equal(t, !skipped[s], NeedsCarrierRefresh(s), "status %s", s)
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range AllStatuses() {
		parsed, err := ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseStatus("SHIPPED")
	assert.Error(t, err)
	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestStatusCodes(t *testing.T) {
	// 数值编码沿用历史库表，不能漂移
	assert.Equal(t, 0, int(StatusPendingConfirmation))
	assert.Equal(t, 1, int(StatusWaitingForShipment))
	assert.Equal(t, 2, int(StatusShipping))
	assert.Equal(t, 3, int(StatusDelivered))
	assert.Equal(t, 4, int(StatusCanceled))
	assert.Equal(t, -1, int(StatusReturnRequested))
	assert.Equal(t, -2, int(StatusReturnApproved))
	assert.Equal(t, -3, int(StatusWaitingForPickup))
	assert.Equal(t, -4, int(StatusReturned))
}
