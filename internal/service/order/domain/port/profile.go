// internal/service/order/domain/port/profile.go
package port

import "context"

// Profile 是用户档案服务返回的收件人概要。
type Profile struct {
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Tel      string `json:"tel"`
	Address  string `json:"address"`
}

// ProfileService 只用于装饰订单响应；它失败不允许影响订单读取。
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
}
