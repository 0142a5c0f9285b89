package infrastructure

import "time"

// OrderModel 对应数据库中的 orders 表
type OrderModel struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	BuyerID       string    `gorm:"size:256;not null;index"`
	OrderDate     time.Time `gorm:"precision:6;not null"`
	ShipToStreet  string    `gorm:"size:180"`
	ShipToCity    string    `gorm:"size:100"`
	ShipToState   string    `gorm:"size:60"`
	ShipToCountry string    `gorm:"size:90"`
	ShipToZipCode string    `gorm:"size:18"`

	Items []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName 指定 GORM 应该使用的表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel 对应 order_items 表。Position 保证读取时的行顺序与下单时一致。
type OrderItemModel struct {
	ID            int64   `gorm:"primaryKey;autoIncrement"`
	OrderID       int64   `gorm:"not null;index"`
	Position      int     `gorm:"not null"`
	CatalogItemID int64   `gorm:"not null"`
	ProductName   string  `gorm:"size:50;not null"`
	PictureURI    string  `gorm:"size:512"`
	UnitPrice     float64 `gorm:"type:decimal(18,2);not null"`
	Units         int     `gorm:"not null"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

// BasketModel 对应 baskets 表（由购物车服务维护，这里只读）
type BasketModel struct {
	ID      int64             `gorm:"primaryKey;autoIncrement"`
	BuyerID string            `gorm:"size:256;not null"`
	Items   []BasketItemModel `gorm:"foreignKey:BasketID"`
}

func (BasketModel) TableName() string {
	return "baskets"
}

type BasketItemModel struct {
	ID            int64   `gorm:"primaryKey;autoIncrement"`
	BasketID      int64   `gorm:"not null;index"`
	CatalogItemID int64   `gorm:"not null"`
	UnitPrice     float64 `gorm:"type:decimal(18,2);not null"`
	Quantity      int     `gorm:"not null"`
}

func (BasketItemModel) TableName() string {
	return "basket_items"
}

// CatalogItemModel 对应 catalog 表（由目录服务维护，这里只读）
type CatalogItemModel struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"size:50;not null"`
	Description string  `gorm:"type:text"`
	Price       float64 `gorm:"type:decimal(18,2)"`
	PictureURI  string  `gorm:"size:512"`
}

func (CatalogItemModel) TableName() string {
	return "catalog"
}
