package infrastructure

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eshop/internal/service/order/domain"
)

func TestOrderMapping_RoundTrip(t *testing.T) {
	order := domain.NewOrder("buyer-1",
		domain.Address{Street: "1 Loop", City: "Cupertino", State: "CA", Country: "US", ZipCode: "95014"},
		[]domain.OrderItem{
			domain.NewOrderItem(domain.NewCatalogItemOrdered(3, "Mug", "m.png"), 7.5, 4),
			domain.NewOrderItem(domain.NewCatalogItemOrdered(1, "Cap", "c.png"), 12, 1),
		},
		time.Date(2024, 2, 2, 8, 0, 0, 0, time.UTC),
	).WithID(5)

	model := ToOrderModel(order)
	require.Len(t, model.Items, 2)
	assert.Equal(t, 0, model.Items[0].Position)
	assert.Equal(t, 1, model.Items[1].Position)
	assert.Equal(t, "Cupertino", model.ShipToCity)

	back := ToDomainOrder(model)
	assert.Equal(t, order.ID(), back.ID())
	assert.Equal(t, order.BuyerID(), back.BuyerID())
	assert.Equal(t, order.ShipToAddress(), back.ShipToAddress())
	assert.Equal(t, order.Items(), back.Items())
	assert.True(t, order.OrderDate().Equal(back.OrderDate()))
}

func TestOrderMapping_StoredDateMatchesPayload(t *testing.T) {
	order := domain.NewOrder("buyer-1", domain.Address{City: "Kent"},
		[]domain.OrderItem{domain.NewOrderItem(domain.NewCatalogItemOrdered(1, "Widget", "w.png"), 19.99, 2)},
		time.Date(2024, 5, 1, 12, 0, 0, 123456789, time.UTC),
	).WithID(11)

	raw, err := json.Marshal(order)
	require.NoError(t, err)
	var published domain.Order
	require.NoError(t, json.Unmarshal(raw, &published))

	// datetime(6) 列保存到微秒，模拟数据库读回的值
	model := ToOrderModel(order)
	model.OrderDate = model.OrderDate.Truncate(time.Microsecond)
	stored := ToDomainOrder(model)

	assert.Equal(t, published.OrderDate(), stored.OrderDate(), "stored order and published payload carry the same date")
	assert.Equal(t, 123456000, stored.OrderDate().Nanosecond())
}

func TestBasketAndCatalogMapping(t *testing.T) {
	assert.Nil(t, ToDomainBasket(nil))

	basket := ToDomainBasket(&BasketModel{ID: 9, BuyerID: "b", Items: []BasketItemModel{
		{CatalogItemID: 1, UnitPrice: 19.99, Quantity: 2},
	}})
	require.Len(t, basket.Items, 1)
	assert.Equal(t, domain.BasketItem{CatalogItemID: 1, UnitPrice: 19.99, Quantity: 2}, basket.Items[0])

	fact := ToCatalogFact(&CatalogItemModel{ID: 1, Name: "Widget", PictureURI: "1.png"})
	assert.Equal(t, domain.CatalogFact{ID: 1, Name: "Widget", PictureURI: "1.png"}, fact)
}
