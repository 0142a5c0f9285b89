package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"eshop/internal/service/order/domain"
)

// GormBasketRepository 实现 port.BasketQuery
type GormBasketRepository struct {
	db *gorm.DB
}

func NewGormBasketRepository(db *gorm.DB) *GormBasketRepository {
	return &GormBasketRepository{db: db}
}

// GetWithItems 购物车不存在时返回 (nil, nil)
func (r *GormBasketRepository) GetWithItems(ctx context.Context, basketID int64) (*domain.Basket, error) {
	var model BasketModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&model, basketID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "load basket %d", basketID)
	}
	return ToDomainBasket(&model), nil
}
