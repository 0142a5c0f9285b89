package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"eshop/internal/service/order/domain"
)

// GormCatalogRepository 实现 port.CatalogQuery
type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// ListByIDs 只返回存在的商品，缺失的 ID 由调用方检测
func (r *GormCatalogRepository) ListByIDs(ctx context.Context, ids []int64) ([]domain.CatalogFact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []CatalogItemModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "list catalog items")
	}
	facts := make([]domain.CatalogFact, 0, len(models))
	for i := range models {
		facts = append(facts, ToCatalogFact(&models[i]))
	}
	return facts, nil
}
