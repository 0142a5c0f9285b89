package port

import "context"

// CheckoutLocker 在同一个购物车上串行化并发的结算请求。
type CheckoutLocker interface {
	// Lock 阻塞直到获得购物车锁，返回的 unlock 必须被调用。
	Lock(ctx context.Context, basketID int64) (unlock func() error, err error)
}
