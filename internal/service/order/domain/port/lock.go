// internal/service/order/domain/port/lock.go
package port

import "context"

// OrderLocker 把对同一订单的状态变更收敛到单写者。
// 实现可以是分布式锁（多副本部署）或进程内互斥（测试）。
// 即便锁服务降级，仓储层的乐观锁版本号仍然兜底。
type OrderLocker interface {
	WithLock(ctx context.Context, orderID string, fn func() error) error
}
