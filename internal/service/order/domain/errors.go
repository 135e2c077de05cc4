// internal/service/order/domain/errors.go
package domain

import (
	"fmt"
	"net/http"
	"strings"
)

// AppError 把一次业务失败映射为稳定的 (业务码, HTTP 状态) 对。
// 业务码沿用历史服务的取值，前端据此分支展示。
type AppError struct {
	Code       int
	Message    string
	HTTPStatus int
}

func (e *AppError) Error() string {
	return e.Message
}

// Is 允许 errors.Is 用业务码做同类判断，携带了动态信息的
// 错误实例（比如缺货商品清单）也能匹配到它的原型。
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage 在保持业务码不变的前提下替换提示文案。
func (e *AppError) WithMessage(msg string) *AppError {
	return &AppError{Code: e.Code, Message: msg, HTTPStatus: e.HTTPStatus}
}

var (
	ErrValidation = &AppError{
		Code: 1006, Message: "invalid request", HTTPStatus: http.StatusBadRequest,
	}
	ErrOrderNotFound = &AppError{
		Code: 1017, Message: "order not found", HTTPStatus: http.StatusNotFound,
	}
	ErrOutOfStock = &AppError{
		Code: 1102, Message: "insufficient stock for products: %s", HTTPStatus: http.StatusBadRequest,
	}
	ErrCannotCancelOrder = &AppError{
		Code: 2004, Message: "order has already been handed to the carrier and can no longer be canceled", HTTPStatus: http.StatusBadRequest,
	}
	ErrInvalidStatusTransition = &AppError{
		Code: 2005, Message: "requested order status transition is not allowed", HTTPStatus: http.StatusBadRequest,
	}
	ErrUncategorized = &AppError{
		Code: 9999, Message: "uncategorized exception", HTTPStatus: http.StatusInternalServerError,
	}
)

// NewOutOfStockError 携带缺货商品名清单，errors.Is(err, ErrOutOfStock) 成立。
func NewOutOfStockError(products []string) *AppError {
	return &AppError{
		Code:       ErrOutOfStock.Code,
		Message:    fmt.Sprintf(ErrOutOfStock.Message, strings.Join(products, ", ")),
		HTTPStatus: ErrOutOfStock.HTTPStatus,
	}
}
