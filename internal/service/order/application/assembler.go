package application

import (
	"eshop/internal/pkg/clock"
	"eshop/internal/service/order/domain"
	"eshop/internal/service/order/domain/port"
)

// OrderAssembler 把购物车和商品快照组装成不可变的订单。
type OrderAssembler struct {
	composer port.PictureURIComposer
	clock    clock.Clock
}

func NewOrderAssembler(composer port.PictureURIComposer, clk clock.Clock) *OrderAssembler {
	return &OrderAssembler{composer: composer, clock: clk}
}

// ValidateBasket 检查下单前置条件：购物车存在且至少有一个商品。
func ValidateBasket(basket *domain.Basket) error {
	if basket == nil {
		return domain.ErrInvalidBasket
	}
	if len(basket.Items) == 0 {
		return domain.ErrEmptyBasket
	}
	return nil
}

// Assemble 为每个购物车行冻结商品名称和图片地址；单价和数量取自购物车，而不是目录。
func (a *OrderAssembler) Assemble(basket *domain.Basket, facts map[int64]domain.CatalogFact, shipTo domain.Address) (*domain.Order, error) {
	if err := ValidateBasket(basket); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(basket.Items))
	var missing []int64
	for _, line := range basket.Items {
		fact, ok := facts[line.CatalogItemID]
		if !ok {
			missing = append(missing, line.CatalogItemID)
			continue
		}
		ordered := domain.NewCatalogItemOrdered(fact.ID, fact.Name, a.composer.ComposePicURI(fact.PictureURI))
		items = append(items, domain.NewOrderItem(ordered, line.UnitPrice, line.Quantity))
	}
	if len(missing) > 0 {
		return nil, &domain.NotFoundError{Entity: "catalog item", IDs: missing}
	}

	return domain.NewOrder(basket.BuyerID, shipTo, items, a.clock.Now()), nil
}
