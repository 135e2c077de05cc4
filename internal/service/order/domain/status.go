// internal/service/order/domain/status.go
package domain

import "fmt"

// Status 定义了订单的生命周期状态。
// 数值编码沿用历史库表：正数为正向履约链路，负数为退货链路。
type Status int

const (
	StatusPendingConfirmation Status = 0  // 待商家确认
	StatusWaitingForShipment  Status = 1  // 待交给承运商
	StatusShipping            Status = 2  // 运输中
	StatusDelivered           Status = 3  // 已送达
	StatusCanceled            Status = 4  // 已取消
	StatusReturnRequested     Status = -1 // 买家发起退货
	StatusReturnApproved      Status = -2 // 退货申请已通过
	StatusWaitingForPickup    Status = -3 // 待承运商上门取件
	StatusReturned            Status = -4 // 退货完成
)

var statusNames = map[Status]string{
	StatusPendingConfirmation: "PENDING_CONFIRMATION",
	StatusWaitingForShipment:  "WAITING_FOR_SHIPMENT",
	StatusShipping:            "SHIPPING",
	StatusDelivered:           "DELIVERED",
	StatusCanceled:            "CANCELED",
	StatusReturnRequested:     "RETURN_REQUESTED",
	StatusReturnApproved:      "RETURN_APPROVED",
	StatusWaitingForPickup:    "WAITING_FOR_PICKUP",
	StatusReturned:            "RETURNED",
}

var statusDescriptions = map[Status]string{
	StatusPendingConfirmation: "waiting for confirmation",
	StatusWaitingForShipment:  "waiting for shipment",
	StatusShipping:            "shipping",
	StatusDelivered:           "delivered",
	StatusCanceled:            "canceled",
	StatusReturnRequested:     "return requested",
	StatusReturnApproved:      "return approved",
	StatusWaitingForPickup:    "waiting for pickup",
	StatusReturned:            "returned",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(s))
}

// Description 返回状态的可读描述，用于订单响应。
func (s Status) Description() string {
	return statusDescriptions[s]
}

// Valid 判断编码是否为已定义状态。
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseStatus 按枚举名解析状态（管理端接口按名字传状态）。
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown order status %q", name)
}

// SideEffect 描述一次状态流转需要触发的外部动作。
// 状态机只产出描述符，真正的网关调用由协调器执行，
// 这样流转表可以在不接真实网关的情况下单独测试。
type SideEffect int

const (
	SideEffectNone SideEffect = iota
	SideEffectBookShipment             // 到承运商下运单
	SideEffectRestoreStock             // 按原始明细回补库存
	SideEffectCancelShipmentAndRestore // 先撤运单再回补库存
)

// transitionTable 是管理端状态机的唯一事实：(当前, 目标) -> 副作用。
// 不在表里的流转（含流转到自身）一律拒绝。
var transitionTable = map[Status]map[Status]SideEffect{
	StatusPendingConfirmation: {
		StatusWaitingForShipment: SideEffectBookShipment,
		StatusCanceled:           SideEffectRestoreStock,
	},
	StatusWaitingForShipment: {
		StatusShipping: SideEffectNone,
		StatusCanceled: SideEffectCancelShipmentAndRestore,
	},
	StatusShipping: {
		StatusDelivered: SideEffectNone,
	},
	StatusDelivered: {
		StatusReturnApproved: SideEffectNone,
	},
	StatusReturnApproved: {
		StatusReturned: SideEffectRestoreStock,
	},
}

// TransitionSideEffect 查流转表。第二个返回值表示该流转是否被允许。
func TransitionSideEffect(current, next Status) (SideEffect, bool) {
	nexts, ok := transitionTable[current]
	if !ok {
		return SideEffectNone, false
	}
	effect, ok := nexts[next]
	return effect, ok
}

// CancelableByCustomer 判断买家是否还能主动取消。
// 仅允许尚未确认、或已确认待取件的订单。
func CancelableByCustomer(current Status) bool {
	return current == StatusPendingConfirmation || current == StatusWaitingForPickup
}

// NeedsCarrierRefresh 判断读取订单时是否还需要向承运商拉取最新状态。
// 这四个状态本地视为已结算，跳过网络调用。
func NeedsCarrierRefresh(current Status) bool {
	switch current {
	case StatusPendingConfirmation, StatusReturnRequested, StatusDelivered, StatusCanceled:
		return false
	}
	return true
}

// FromCarrierStatus 把承运商的数字状态码映射为本地状态。
// 未识别的码落到 CANCELED —— 这是沿用至今的历史行为，改动会破坏
// 与老数据的兼容，调用方应对这个分支打告警日志。
func FromCarrierStatus(carrierStatus int) Status {
	switch carrierStatus {
	case 1:
		return StatusPendingConfirmation
	case 2:
		return StatusWaitingForShipment
	case 3:
		return StatusWaitingForPickup
	case 5:
		return StatusShipping
	case 6:
		return StatusDelivered
	case 8:
		return StatusReturnApproved
	case 9:
		return StatusReturned
	default:
		return StatusCanceled
	}
}

// KnownCarrierStatus 返回映射表里是否有这个承运商状态码，
// 供调用方识别“默认取消”的兜底分支。
func KnownCarrierStatus(carrierStatus int) bool {
	switch carrierStatus {
	case 1, 2, 3, 5, 6, 8, 9:
		return true
	}
	return false
}

// AllStatuses 返回全部已定义状态，主要供测试遍历状态对。
func AllStatuses() []Status {
	return []Status{
		StatusPendingConfirmation,
		StatusWaitingForShipment,
		StatusShipping,
		StatusDelivered,
		StatusCanceled,
		StatusReturnRequested,
		StatusReturnApproved,
		StatusWaitingForPickup,
		StatusReturned,
	}
}
