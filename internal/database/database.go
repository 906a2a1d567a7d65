package database

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stockroom/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens (or creates) the catalog database at the given path.
// WAL mode and a busy timeout let background sync upserts and live lookup
// reads run concurrently.
func NewDatabase(dbPath string) (*Database, error) {
	dsn := dbPath + "?_journal=WAL&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Product{},
		&entities.SyncLog{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) FindBySKU(sku string) (*entities.Product, error) {
	var product entities.Product
	err := d.DB.Where("sku = ?", sku).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// UpsertProduct creates or updates a product keyed by SKU and reports
// whether a new row was created. Updates are field-limited: quantities are
// only written when withStock is set (the bulk master-data feed carries no
// stock figures), and curated fields (color, dimensions, case qty) are
// never touched here.
func (d *Database) UpsertProduct(p *entities.Product, withStock bool) (bool, error) {
	now := time.Now()

	var existing entities.Product
	err := d.DB.Where("sku = ?", p.SKU).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p.LastSynced = &now
		if p.BasePrice != nil {
			p.PriceChangedAt = &now
		}
		if createErr := d.DB.Create(p).Error; createErr != nil {
			return false, createErr
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	updates := map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"category":    p.Category,
		"base_price":  p.BasePrice,
		"image_url":   p.ImageURL,
		"last_synced": now,
	}
	if withStock {
		updates["available_qty"] = p.AvailableQty
		updates["local_qty"] = p.LocalQty
	}
	if priceChanged(existing.BasePrice, p.BasePrice) {
		updates["price_changed_at"] = now
	}

	err = d.DB.Model(&entities.Product{}).Where("id = ?", existing.ID).Updates(updates).Error
	if err != nil {
		return false, err
	}
	return false, nil
}

// UpdateStock refreshes only availability figures and the sync timestamp.
// Used by the live lookup path, which must not overwrite curated fields.
func (d *Database) UpdateStock(sku string, availableQty, localQty int) error {
	return d.DB.Model(&entities.Product{}).
		Where("sku = ?", sku).
		Updates(map[string]any{
			"available_qty": availableQty,
			"local_qty":     localQty,
			"last_synced":   time.Now(),
		}).Error
}

func (d *Database) CountProducts() (int64, error) {
	var count int64
	err := d.DB.Model(&entities.Product{}).Count(&count).Error
	return count, err
}

func (d *Database) CountInStock() (int64, error) {
	var count int64
	err := d.DB.Model(&entities.Product{}).Where("available_qty > 0").Count(&count).Error
	return count, err
}

func (d *Database) CountLocalStock() (int64, error) {
	var count int64
	err := d.DB.Model(&entities.Product{}).Where("local_qty > 0").Count(&count).Error
	return count, err
}

// LastSyncedAt returns the most recent sync timestamp across the catalog,
// or nil when nothing has been synced yet.
func (d *Database) LastSyncedAt() (*time.Time, error) {
	var product entities.Product
	err := d.DB.Where("last_synced IS NOT NULL").Order("last_synced DESC").First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return product.LastSynced, nil
}

func (d *Database) SaveSyncLog(entry *entities.SyncLog) error {
	return d.DB.Create(entry).Error
}

func (d *Database) RecentSyncLogs(limit int) ([]entities.SyncLog, error) {
	var logs []entities.SyncLog
	query := d.DB.Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&logs).Error
	return logs, err
}

// DeleteOldSyncLogs removes sync history older than the retention period
// and returns the number of rows deleted.
func (d *Database) DeleteOldSyncLogs(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := d.DB.Where("started_at < ?", cutoff).Delete(&entities.SyncLog{})
	return result.RowsAffected, result.Error
}

func priceChanged(oldPrice, newPrice *float64) bool {
	if oldPrice == nil && newPrice == nil {
		return false
	}
	if oldPrice == nil || newPrice == nil {
		return true
	}
	return *oldPrice != *newPrice
}
