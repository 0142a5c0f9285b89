package adapter

import (
	"context"
	"strconv"
	"time"

	"github.com/go-zookeeper/zk"

	"eshop/internal/pkg/logger"
	"eshop/internal/service/order/domain/port"
	"eshop/internal/zookeeper"
)

// ZkCheckoutLocker 用 ZooKeeper 分布式锁串行化同一购物车的结算。
type ZkCheckoutLocker struct {
	conn    *zk.Conn
	timeout time.Duration
}

func NewZkCheckoutLocker(conn *zk.Conn, timeout time.Duration) *ZkCheckoutLocker {
	return &ZkCheckoutLocker{conn: conn, timeout: timeout}
}

func (l *ZkCheckoutLocker) Lock(ctx context.Context, basketID int64) (func() error, error) {
	lock, err := zookeeper.NewDistributedLock(l.conn, "basket-"+strconv.FormatInt(basketID, 10))
	if err != nil {
		return nil, err
	}
	lockCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	if err := lock.Lock(lockCtx); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Debug().Int64("basket_id", basketID).Msg("Checkout lock acquired")
	return lock.Unlock, nil
}

var _ port.CheckoutLocker = (*ZkCheckoutLocker)(nil)
