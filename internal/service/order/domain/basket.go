// internal/service/order/domain/basket.go
package domain

// Basket 是买家在结算前选择的商品集合。订单核心只读取它，从不修改。
type Basket struct {
	ID      int64
	BuyerID string
	Items   []BasketItem
}

// BasketItem 记录加入购物车时的单价和数量，下单时以此为准。
type BasketItem struct {
	CatalogItemID int64
	UnitPrice     float64
	Quantity      int
}

// CatalogItemIDs 按出现顺序返回去重后的商品 ID。
func (b *Basket) CatalogItemIDs() []int64 {
	seen := make(map[int64]struct{}, len(b.Items))
	ids := make([]int64, 0, len(b.Items))
	for _, item := range b.Items {
		if _, ok := seen[item.CatalogItemID]; ok {
			continue
		}
		seen[item.CatalogItemID] = struct{}{}
		ids = append(ids, item.CatalogItemID)
	}
	return ids
}

// CatalogFact 是下单时刻的商品快照（名称、图片），会被冻结进订单行。
type CatalogFact struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PictureURI string `json:"pictureUri"`
}
