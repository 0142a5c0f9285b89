package interfaces

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"eshop/internal/pkg/logger"
	"eshop/internal/pkg/mq"
	"eshop/internal/service/order/application"
	"eshop/internal/service/order/domain"
)

// OrderCreator 是下单用例的入站端口，由 OrderApplicationService 实现。
type OrderCreator interface {
	CreateOrder(ctx context.Context, req application.CreateOrderRequest) (*application.CreateOrderResult, error)
}

// CheckoutRequestHandler 是驱动适配器：监听结算请求事件并驱动下单用例。
type CheckoutRequestHandler struct {
	orders OrderCreator
}

func NewCheckoutRequestHandler(orders OrderCreator) *CheckoutRequestHandler {
	return &CheckoutRequestHandler{orders: orders}
}

func (h *CheckoutRequestHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var event domain.CheckoutRequested
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return errors.Wrap(err, "decode checkout request")
	}

	log := logger.Ctx(ctx).With().
		Str("request_id", event.RequestID).
		Int64("basket_id", event.BasketID).
		Logger()

	result, err := h.orders.CreateOrder(ctx, application.ToCreateOrderRequest(&event))
	if err != nil {
		if application.IsPermanent(err) {
			log.Warn().Err(err).Msg("Checkout request rejected")
			return err
		}
		// 存储或锁服务暂时不可用，消息不提交，退避后重新处理
		log.Error().Err(err).Msg("Checkout request failed")
		return mq.Retryable(err)
	}

	evt := log.Info().Int64("order_id", result.Order.ID()).Str("delivery", string(result.Delivery.State))
	if result.Delivery.Err != nil {
		evt = evt.AnErr("delivery_error", result.Delivery.Err)
	}
	evt.Msg("✅ Order created from checkout request")
	return nil
}

var _ mq.Handler = (*CheckoutRequestHandler)(nil)
