package domain

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderDate = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func sampleOrder() *Order {
	return NewOrder("buyer-1",
		Address{Street: "123 Main St", City: "Kent", State: "OH", Country: "US", ZipCode: "44240"},
		[]OrderItem{
			NewOrderItem(NewCatalogItemOrdered(1, "Widget", "http://cdn/1.png"), 19.99, 2),
			NewOrderItem(NewCatalogItemOrdered(2, "Gadget", "http://cdn/2.png"), 5.00, 1),
		},
		orderDate,
	)
}

func TestNewOrder_CopiesItems(t *testing.T) {
	items := []OrderItem{NewOrderItem(NewCatalogItemOrdered(1, "Widget", ""), 19.99, 2)}
	order := NewOrder("buyer-1", Address{}, items, orderDate)

	items[0] = NewOrderItem(NewCatalogItemOrdered(9, "Changed", ""), 1, 1)
	assert.Equal(t, int64(1), order.Items()[0].ItemOrdered().CatalogItemID())

	got := order.Items()
	got[0] = NewOrderItem(NewCatalogItemOrdered(9, "Changed", ""), 1, 1)
	assert.Equal(t, "Widget", order.Items()[0].ItemOrdered().ProductName())
}

func TestOrder_Total(t *testing.T) {
	assert.InDelta(t, 44.98, sampleOrder().Total(), 1e-9)
	assert.Zero(t, NewOrder("b", Address{}, nil, orderDate).Total())
}

func TestOrder_WithID(t *testing.T) {
	order := sampleOrder()
	saved := order.WithID(42)

	assert.Equal(t, int64(0), order.ID())
	assert.Equal(t, int64(42), saved.ID())
	assert.Equal(t, order.Items(), saved.Items())
	assert.Equal(t, order.BuyerID(), saved.BuyerID())
}

func TestNewOrder_OrderDateResolution(t *testing.T) {
	local := time.FixedZone("UTC+8", 8*3600)
	at := time.Date(2024, 5, 1, 20, 0, 0, 123456789, local)

	order := NewOrder("b", Address{}, nil, at)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 123456000, time.UTC), order.OrderDate())
	assert.Equal(t, time.UTC, order.OrderDate().Location())
}

func TestOrder_JSONRoundTrip(t *testing.T) {
	order := sampleOrder().WithID(7)

	raw, err := json.Marshal(order)
	require.NoError(t, err)

	var decoded Order
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, order.ID(), decoded.ID())
	assert.Equal(t, order.BuyerID(), decoded.BuyerID())
	assert.True(t, order.OrderDate().Equal(decoded.OrderDate()))
	assert.Equal(t, order.ShipToAddress(), decoded.ShipToAddress())
	assert.Equal(t, order.Items(), decoded.Items())
}

func TestOrder_JSONShape(t *testing.T) {
	raw, err := json.Marshal(sampleOrder().WithID(7))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.EqualValues(t, 7, doc["id"])
	assert.Equal(t, "buyer-1", doc["buyerId"])
	assert.Contains(t, doc, "orderDate")
	assert.Contains(t, doc, "shipToAddress")

	items := doc["orderItems"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.EqualValues(t, 2, first["units"])
	assert.EqualValues(t, 19.99, first["unitPrice"])
	assert.Equal(t, "Widget", first["itemOrdered"].(map[string]any)["productName"])
}

func TestBasket_CatalogItemIDs(t *testing.T) {
	b := &Basket{Items: []BasketItem{
		{CatalogItemID: 3}, {CatalogItemID: 1}, {CatalogItemID: 3}, {CatalogItemID: 2},
	}}
	assert.Equal(t, []int64{3, 1, 2}, b.CatalogItemIDs())
	assert.Empty(t, (&Basket{}).CatalogItemIDs())
}

func TestErrors_IsAndAs(t *testing.T) {
	cause := fmt.Errorf("broker down")

	nf := fmt.Errorf("wrapped: %w", &NotFoundError{Entity: "catalog item", IDs: []int64{99}})
	assert.ErrorIs(t, nf, ErrNotFound)
	assert.EqualError(t, nf, "wrapped: catalog item not found: [99]")

	de := &DeliveryExhaustedError{Channel: "orders", Attempts: 3, Err: cause}
	assert.ErrorIs(t, de, ErrDeliveryExhausted)
	assert.ErrorIs(t, de, cause)

	pe := fmt.Errorf("save: %w", &PersistenceError{Err: cause})
	var target *PersistenceError
	require.ErrorAs(t, pe, &target)
	assert.ErrorIs(t, pe, ErrPersistence)
	assert.NotErrorIs(t, pe, ErrNotFound)
}

func TestDeliveryState(t *testing.T) {
	assert.False(t, DeliveryPending.IsTerminal())
	assert.False(t, DeliverySent.IsTerminal())
	assert.True(t, DeliveryExhausted.IsTerminal())
	assert.True(t, DeliveryAcknowledged.IsTerminal())

	assert.True(t, DeliveryAttempt{State: DeliverySent}.Delivered())
	assert.False(t, DeliveryAttempt{State: DeliveryExhausted}.Delivered())
}
