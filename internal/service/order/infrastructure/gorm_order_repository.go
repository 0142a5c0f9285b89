package infrastructure

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"eshop/internal/service/order/domain"
)

// GormOrderRepository 是 domain.OrderRepository 的 GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository 创建一个新的 GORM 仓储实例
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add 在一个事务里写入订单和全部订单行，返回数据库分配的订单 ID
func (r *GormOrderRepository) Add(ctx context.Context, order *domain.Order) (int64, error) {
	model := ToOrderModel(order)
	model.ID = 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err != nil {
		return 0, &domain.PersistenceError{Err: errors.Wrap(err, "insert order")}
	}
	return model.ID, nil
}

// FindByID 加载订单及其按原始顺序排列的订单行
func (r *GormOrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Entity: "order", IDs: []int64{id}}
		}
		return nil, errors.Wrapf(err, "find order %d", id)
	}
	return ToDomainOrder(&model), nil
}
