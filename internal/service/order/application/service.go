// internal/service/order/application/service.go
package application

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"eshop/internal/pkg/logger"
	"eshop/internal/pkg/metrics"
	"eshop/internal/service/order/domain"
	"eshop/internal/service/order/domain/port"
)

// OrderApplicationService 编排下单流程：购物车 -> 商品快照 -> 组装订单 -> 持久化 -> 投递队列。
type OrderApplicationService struct {
	baskets   port.BasketQuery
	resolver  *CatalogSnapshotResolver
	assembler *OrderAssembler
	orderRepo domain.OrderRepository
	publisher port.OrderPublisher
	locker    port.CheckoutLocker
	tracer    trace.Tracer
}

// Option 配置 OrderApplicationService 的可选依赖。
type Option func(*OrderApplicationService)

// WithCheckoutLocker 启用同一购物车的结算串行化。
func WithCheckoutLocker(locker port.CheckoutLocker) Option {
	return func(s *OrderApplicationService) { s.locker = locker }
}

func NewOrderApplicationService(
	baskets port.BasketQuery,
	resolver *CatalogSnapshotResolver,
	assembler *OrderAssembler,
	orderRepo domain.OrderRepository,
	publisher port.OrderPublisher,
	tracer trace.Tracer,
	opts ...Option,
) *OrderApplicationService {
	s := &OrderApplicationService{
		baskets:   baskets,
		resolver:  resolver,
		assembler: assembler,
		orderRepo: orderRepo,
		publisher: publisher,
		tracer:    tracer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder 把购物车转换为订单。
//
// 校验错误（购物车不存在、为空、商品缺失）会提前中止，既不持久化也不投递。
// 持久化失败返回 *domain.PersistenceError。持久化成功后才投递队列，
// 投递耗尽只记录在 CreateOrderResult.Delivery 中，下单仍然视为成功。
func (s *OrderApplicationService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	ctx, span := s.tracer.Start(ctx, "app.CreateOrder")
	defer span.End()
	span.SetAttributes(attribute.Int64("basket.id", req.BasketID))

	result, err := s.createOrder(ctx, req)
	metrics.OrdersCreated.WithLabelValues(outcomeOf(err)).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order creation failed")
		logger.Ctx(ctx).Warn().Err(err).Int64("basket_id", req.BasketID).Msg("Order creation aborted")
		return nil, err
	}
	return result, nil
}

func (s *OrderApplicationService) createOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, req.BasketID)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := unlock(); err != nil {
				logger.Ctx(ctx).Warn().Err(err).Int64("basket_id", req.BasketID).Msg("Failed to release checkout lock")
			}
		}()
	}

	// 1. 加载购物车并校验前置条件
	basket, err := s.baskets.GetWithItems(ctx, req.BasketID)
	if err != nil {
		return nil, err
	}
	if err := ValidateBasket(basket); err != nil {
		return nil, err
	}

	// 2. 冻结商品快照
	facts, err := s.resolver.Resolve(ctx, basket.CatalogItemIDs())
	if err != nil {
		return nil, err
	}

	// 3. 组装不可变订单
	order, err := s.assembler.Assemble(basket, facts, req.ShippingAddress)
	if err != nil {
		return nil, err
	}
	trace.SpanFromContext(ctx).AddEvent("Order assembled", trace.WithAttributes(attribute.Int("order.items", order.ItemCount())))

	// 4. 持久化是下单成功的唯一标准
	id, err := s.orderRepo.Add(ctx, order)
	if err != nil {
		var pe *domain.PersistenceError
		if !errors.As(err, &pe) {
			err = &domain.PersistenceError{Err: err}
		}
		return nil, err
	}
	order = order.WithID(id)
	logger.Ctx(ctx).Info().
		Int64("order_id", id).
		Int64("basket_id", req.BasketID).
		Str("buyer_id", order.BuyerID()).
		Int("items", order.ItemCount()).
		Msg("Order persisted")

	// 5. 尽力投递到下游，失败不回滚订单
	delivery := s.publisher.Publish(ctx, order)
	if delivery.Err != nil {
		trace.SpanFromContext(ctx).AddEvent("Order delivery exhausted",
			trace.WithAttributes(attribute.String("delivery.error", delivery.Err.Error())))
	}

	return &CreateOrderResult{Order: order, Delivery: delivery}, nil
}

// IsPermanent 判断错误是否为调用方可纠正、不应重试的错误。
func IsPermanent(err error) bool {
	return errors.Is(err, domain.ErrInvalidBasket) ||
		errors.Is(err, domain.ErrEmptyBasket) ||
		errors.Is(err, domain.ErrNotFound)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, domain.ErrInvalidBasket):
		return "invalid_basket"
	case errors.Is(err, domain.ErrEmptyBasket):
		return "empty_basket"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrPersistence):
		return "persistence_error"
	default:
		return "error"
	}
}
