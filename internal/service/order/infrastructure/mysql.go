package infrastructure

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenMySQL 打开 MySQL 连接池。DSN 需要包含 parseTime=true。
func OpenMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB from gorm")
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// AutoMigrate 创建或更新订单服务拥有的表。
// baskets / catalog 属于其他服务，这里同样迁移只是为了本地开发与集成测试。
func AutoMigrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(
		&OrderModel{},
		&OrderItemModel{},
		&BasketModel{},
		&BasketItemModel{},
		&CatalogItemModel{},
	), "auto migrate")
}
