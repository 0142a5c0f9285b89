package infrastructure

import (
	"eshop/internal/service/order/domain"
)

// ToOrderModel 将领域订单转换为数据库模型
func ToOrderModel(order *domain.Order) *OrderModel {
	addr := order.ShipToAddress()
	model := &OrderModel{
		ID:            order.ID(),
		BuyerID:       order.BuyerID(),
		OrderDate:     order.OrderDate(),
		ShipToStreet:  addr.Street,
		ShipToCity:    addr.City,
		ShipToState:   addr.State,
		ShipToCountry: addr.Country,
		ShipToZipCode: addr.ZipCode,
	}
	for i, item := range order.Items() {
		ordered := item.ItemOrdered()
		model.Items = append(model.Items, OrderItemModel{
			Position:      i,
			CatalogItemID: ordered.CatalogItemID(),
			ProductName:   ordered.ProductName(),
			PictureURI:    ordered.PictureURI(),
			UnitPrice:     item.UnitPrice(),
			Units:         item.Units(),
		})
	}
	return model
}

// ToDomainOrder 将数据库模型转换为领域模型，调用方需保证 Items 已按 Position 排序
func ToDomainOrder(model *OrderModel) *domain.Order {
	if model == nil {
		return nil
	}
	items := make([]domain.OrderItem, 0, len(model.Items))
	for _, m := range model.Items {
		items = append(items, domain.NewOrderItem(
			domain.NewCatalogItemOrdered(m.CatalogItemID, m.ProductName, m.PictureURI),
			m.UnitPrice,
			m.Units,
		))
	}
	order := domain.NewOrder(model.BuyerID, domain.Address{
		Street:  model.ShipToStreet,
		City:    model.ShipToCity,
		State:   model.ShipToState,
		Country: model.ShipToCountry,
		ZipCode: model.ShipToZipCode,
	}, items, model.OrderDate.UTC())
	return order.WithID(model.ID)
}

// ToDomainBasket 将购物车模型转换为领域模型
func ToDomainBasket(model *BasketModel) *domain.Basket {
	if model == nil {
		return nil
	}
	basket := &domain.Basket{ID: model.ID, BuyerID: model.BuyerID}
	for _, m := range model.Items {
		basket.Items = append(basket.Items, domain.BasketItem{
			CatalogItemID: m.CatalogItemID,
			UnitPrice:     m.UnitPrice,
			Quantity:      m.Quantity,
		})
	}
	return basket
}

// ToCatalogFact 将目录商品模型转换为下单所需的快照
func ToCatalogFact(model *CatalogItemModel) domain.CatalogFact {
	return domain.CatalogFact{ID: model.ID, Name: model.Name, PictureURI: model.PictureURI}
}
