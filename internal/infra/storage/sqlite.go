// Package storage persists the append-only trade journal in SQLite.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TradeEntry is one applied buy/sell trade.
type TradeEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Stock      string    `gorm:"index" json:"stock"`
	Action     string    `json:"action"`
	Amount     string    `json:"amount"`
	PriceAfter string    `json:"price_after"`
	Weekday    string    `json:"weekday"`
	CreatedAt  time.Time `json:"created_at"`
}

// Journal stores the trade history.
type Journal struct {
	db *gorm.DB
}

// NewJournal opens (or creates) the SQLite journal at the given path.
func NewJournal(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	// Pure Go SQLite
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&TradeEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Journal{db: db}, nil
}

// Append records one trade.
func (j *Journal) Append(entry *TradeEntry) error {
	return j.db.Create(entry).Error
}

// Recent returns the newest entries first, optionally filtered by stock.
func (j *Journal) Recent(stock string, limit int) ([]TradeEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	q := j.db.Order("id DESC").Limit(limit)
	if stock != "" {
		q = q.Where("stock = ?", stock)
	}

	var entries []TradeEntry
	err := q.Find(&entries).Error
	return entries, err
}

// Count returns the total number of journaled trades.
func (j *Journal) Count() (int64, error) {
	var n int64
	err := j.db.Model(&TradeEntry{}).Count(&n).Error
	return n, err
}
