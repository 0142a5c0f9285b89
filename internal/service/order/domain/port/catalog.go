package port

import (
	"context"
	"eshop/internal/service/order/domain"
)

// CatalogQuery 是商品目录的出站端口。
type CatalogQuery interface {
	// ListByIDs 返回与给定 ID 匹配的目录商品快照；没有匹配的 ID 会被直接省略。
	ListByIDs(ctx context.Context, ids []int64) ([]domain.CatalogFact, error)
}

// PictureURIComposer 把目录中保存的原始图片引用转换成可访问的完整 URI。
type PictureURIComposer interface {
	ComposePicURI(uriTemplate string) string
}
