// internal/service/order/domain/errors.go
package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidBasket 表示购物车不存在（例如未知的购物车 ID）。
	ErrInvalidBasket = errors.New("invalid basket")
	// ErrEmptyBasket 表示购物车中没有任何商品，不能结算。
	ErrEmptyBasket = errors.New("basket is empty")
	// ErrNotFound 是 NotFoundError 的哨兵，便于 errors.Is 判断。
	ErrNotFound = errors.New("not found")
	// ErrDeliveryExhausted 是 DeliveryExhaustedError 的哨兵。
	ErrDeliveryExhausted = errors.New("delivery exhausted")
	// ErrPersistence 是 PersistenceError 的哨兵。
	ErrPersistence = errors.New("persistence failed")
)

// NotFoundError 表示请求的实体（通常是目录商品）不存在。
type NotFoundError struct {
	Entity string
	IDs    []int64
}

func (e *NotFoundError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("%s not found: [%s]", e.Entity, strings.Join(ids, ","))
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DeliveryExhaustedError 表示向队列投递的所有重试都失败了。
// 它只被记录和上报，不会回滚已经持久化的订单。
type DeliveryExhaustedError struct {
	Channel  string
	Attempts int
	Err      error
}

func (e *DeliveryExhaustedError) Error() string {
	return fmt.Sprintf("delivery to %q exhausted after %d attempts: %v", e.Channel, e.Attempts, e.Err)
}

func (e *DeliveryExhaustedError) Unwrap() error { return e.Err }

func (e *DeliveryExhaustedError) Is(target error) bool { return target == ErrDeliveryExhausted }

// PersistenceError 表示订单未能保存，对本次下单请求是致命的。
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("order not saved: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
