// Package persistence stores sales in a SQL database through gorm.
package persistence

import (
	"context"
	"errors"
	"fmt"

	"sales_orders/internal/logger"
	"sales_orders/internal/sales"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the database selected by driver ("sqlite" or "postgres")
// and migrates the sales schema.
func Open(driver, dsn string, zapLogger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewGormLogger(zapLogger, gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the sales tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&SaleModel{}, &SaleItemModel{}); err != nil {
		return fmt.Errorf("migrate sales schema: %w", err)
	}
	return nil
}

// GormStorage implements sales.Storage using GORM.
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage creates a new GormStorage.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

// Create inserts a new sale with its items.
func (r *GormStorage) Create(ctx context.Context, sale *sales.Sale) error {
	if sale.ID == uuid.Nil {
		return sales.ErrEmptyID
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&SaleModel{}).Where("number = ?", sale.Number).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return sales.ErrDuplicateNumber
		}

		if err := tx.Create(SaleModelFromDomain(sale)).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return sales.ErrDuplicateNumber
			}
			return err
		}
		return nil
	})
}

// Set saves the sale header and reconciles its stored items in one transaction.
func (r *GormStorage) Set(ctx context.Context, sale *sales.Sale) error {
	if sale.ID == uuid.Nil {
		return sales.ErrEmptyID
	}
	model := SaleModelFromDomain(sale)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&SaleModel{}).Where("id = ?", model.ID).Updates(map[string]any{
			"number":        model.Number,
			"date":          model.Date,
			"customer_id":   model.CustomerID,
			"customer_name": model.CustomerName,
			"branch_id":     model.BranchID,
			"branch_name":   model.BranchName,
			"total":         model.Total,
			"is_cancelled":  model.IsCancelled,
			"updated_at":    model.UpdatedAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return sales.ErrNotFound
		}

		ids := make([]uuid.UUID, len(model.Items))
		for i, it := range model.Items {
			ids[i] = it.ID
		}
		del := tx.Where("sale_id = ?", model.ID)
		if len(ids) > 0 {
			del = del.Where("id NOT IN ?", ids)
		}
		if err := del.Delete(&SaleItemModel{}).Error; err != nil {
			return err
		}

		if len(model.Items) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&model.Items).Error
	})
}

// Read loads a sale and its items by ID.
// Returns sales.ErrNotFound if the sale is not found.
func (r *GormStorage) Read(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var model SaleModel
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sales.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GetAll loads every sale, oldest first.
func (r *GormStorage) GetAll(ctx context.Context) ([]*sales.Sale, error) {
	var models []SaleModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	result := make([]*sales.Sale, len(models))
	for i := range models {
		result[i] = models[i].ToDomain()
	}
	return result, nil
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

var _ sales.Storage = (*GormStorage)(nil)
