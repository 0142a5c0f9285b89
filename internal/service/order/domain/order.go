// internal/service/order/domain/order.go
package domain

import (
	"encoding/json"
	"time"
)

// Address 是收货地址值对象。
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	ZipCode string `json:"zipCode"`
}

// CatalogItemOrdered 是下单时刻的商品快照，之后目录的变化不会影响历史订单。
type CatalogItemOrdered struct {
	catalogItemID int64
	productName   string
	pictureURI    string
}

func NewCatalogItemOrdered(catalogItemID int64, productName, pictureURI string) CatalogItemOrdered {
	return CatalogItemOrdered{catalogItemID: catalogItemID, productName: productName, pictureURI: pictureURI}
}

func (c CatalogItemOrdered) CatalogItemID() int64 { return c.catalogItemID }
func (c CatalogItemOrdered) ProductName() string  { return c.productName }
func (c CatalogItemOrdered) PictureURI() string   { return c.pictureURI }

// OrderItem 是订单行，价格和数量取自购物车，而不是当前目录价格。
type OrderItem struct {
	itemOrdered CatalogItemOrdered
	unitPrice   float64
	units       int
}

func NewOrderItem(itemOrdered CatalogItemOrdered, unitPrice float64, units int) OrderItem {
	return OrderItem{itemOrdered: itemOrdered, unitPrice: unitPrice, units: units}
}

func (i OrderItem) ItemOrdered() CatalogItemOrdered { return i.itemOrdered }
func (i OrderItem) UnitPrice() float64              { return i.unitPrice }
func (i OrderItem) Units() int                      { return i.units }

// Order 是订单聚合根。构造之后不可变，没有任何修改方法。
// ID 在持久化时由订单仓储分配，因此只能通过 WithID 得到带 ID 的副本。
type Order struct {
	id            int64
	buyerID       string
	orderDate     time.Time
	shipToAddress Address
	items         []OrderItem
}

// OrderDateResolution 是下单时间的精度，与 orders.order_date 列 datetime(6) 一致。
const OrderDateResolution = time.Microsecond

// NewOrder 是订单的工厂函数，会复制传入的订单行，调用方之后的修改不会影响订单。
// 下单时间转为 UTC 并截断到 OrderDateResolution，存储前后和消息体里的时间完全相同。
func NewOrder(buyerID string, shipTo Address, items []OrderItem, orderDate time.Time) *Order {
	copied := make([]OrderItem, len(items))
	copy(copied, items)
	return &Order{
		buyerID:       buyerID,
		orderDate:     orderDate.UTC().Truncate(OrderDateResolution),
		shipToAddress: shipTo,
		items:         copied,
	}
}

func (o *Order) ID() int64              { return o.id }
func (o *Order) BuyerID() string        { return o.buyerID }
func (o *Order) OrderDate() time.Time   { return o.orderDate }
func (o *Order) ShipToAddress() Address { return o.shipToAddress }
func (o *Order) ItemCount() int         { return len(o.items) }

// Items 返回订单行的副本。
func (o *Order) Items() []OrderItem {
	items := make([]OrderItem, len(o.items))
	copy(items, o.items)
	return items
}

// Total 计算订单总金额。
func (o *Order) Total() float64 {
	var total float64
	for _, item := range o.items {
		total += item.unitPrice * float64(item.units)
	}
	return total
}

// WithID 返回分配了持久化 ID 的订单副本，原订单保持不变。
func (o *Order) WithID(id int64) *Order {
	cp := NewOrder(o.buyerID, o.shipToAddress, o.items, o.orderDate)
	cp.id = id
	return cp
}

// orderPayload 是订单在队列中的 JSON 形态，字段顺序固定。
type orderPayload struct {
	ID            int64              `json:"id"`
	BuyerID       string             `json:"buyerId"`
	OrderDate     time.Time          `json:"orderDate"`
	ShipToAddress Address            `json:"shipToAddress"`
	OrderItems    []orderItemPayload `json:"orderItems"`
}

type orderItemPayload struct {
	ItemOrdered itemOrderedPayload `json:"itemOrdered"`
	UnitPrice   float64            `json:"unitPrice"`
	Units       int                `json:"units"`
}

type itemOrderedPayload struct {
	CatalogItemID int64  `json:"catalogItemId"`
	ProductName   string `json:"productName"`
	PictureURI    string `json:"pictureUri"`
}

func (o *Order) MarshalJSON() ([]byte, error) {
	p := orderPayload{
		ID:            o.id,
		BuyerID:       o.buyerID,
		OrderDate:     o.orderDate,
		ShipToAddress: o.shipToAddress,
		OrderItems:    make([]orderItemPayload, 0, len(o.items)),
	}
	for _, item := range o.items {
		p.OrderItems = append(p.OrderItems, orderItemPayload{
			ItemOrdered: itemOrderedPayload{
				CatalogItemID: item.itemOrdered.catalogItemID,
				ProductName:   item.itemOrdered.productName,
				PictureURI:    item.itemOrdered.pictureURI,
			},
			UnitPrice: item.unitPrice,
			Units:     item.units,
		})
	}
	return json.Marshal(p)
}

func (o *Order) UnmarshalJSON(data []byte) error {
	var p orderPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	items := make([]OrderItem, 0, len(p.OrderItems))
	for _, item := range p.OrderItems {
		items = append(items, NewOrderItem(
			NewCatalogItemOrdered(item.ItemOrdered.CatalogItemID, item.ItemOrdered.ProductName, item.ItemOrdered.PictureURI),
			item.UnitPrice,
			item.Units,
		))
	}
	*o = Order{
		id:            p.ID,
		buyerID:       p.BuyerID,
		orderDate:     p.OrderDate,
		shipToAddress: p.ShipToAddress,
		items:         items,
	}
	return nil
}
