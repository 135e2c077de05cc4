// internal/service/order/infrastructure/zk_locker.go
package infrastructure

import (
	"context"

	"github.com/pkg/errors"

	"nexmall/internal/pkg/zookeeper"
)

// ZkOrderLocker 用 Zookeeper 临时顺序节点实现订单级互斥，
// 保证同一订单的状态流转在多实例部署下也是串行的。
type ZkOrderLocker struct {
	conn *zookeeper.Conn
}

func NewZkOrderLocker(conn *zookeeper.Conn) *ZkOrderLocker {
	return &ZkOrderLocker{conn: conn}
}

func (l *ZkOrderLocker) WithLock(ctx context.Context, orderID string, fn func() error) error {
	lock, err := zookeeper.NewDistributedLock(l.conn, orderID)
	if err != nil {
		return errors.Wrap(err, "init order lock failed")
	}
	if err := lock.Lock(ctx); err != nil {
		return errors.Wrapf(err, "acquire order lock failed: %s", orderID)
	}
	defer lock.Unlock()

	return fn()
}
