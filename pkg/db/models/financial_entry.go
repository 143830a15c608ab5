package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/clubops/clubfinance/pkg/enums"
)

// FinancialEntry is a flattened accounting-feed row written next to invoices
// and movements. It is additive only and never the source of truth.
type FinancialEntry struct {
	ID            uuid.UUID                    `gorm:"column:id;type:uuid;primaryKey"`
	EntryDate     time.Time                    `gorm:"column:entry_date;not null"`
	Description   string                       `gorm:"column:description;not null"`
	Category      enums.EntryCategory          `gorm:"column:category;type:varchar(64);not null"`
	Kind          enums.MovementClassification `gorm:"column:kind;type:varchar(16);not null"`
	Amount        decimal.Decimal              `gorm:"column:amount;type:numeric(12,2);not null"`
	PaymentMethod *string                      `gorm:"column:payment_method"`
	UserID        *uuid.UUID                   `gorm:"column:user_id;type:uuid;index"`
	Origin        Origin                       `gorm:"embedded;embeddedPrefix:origin_"`
	CreatedAt     time.Time                    `gorm:"column:created_at;autoCreateTime"`
}

func (f *FinancialEntry) BeforeCreate(*gorm.DB) error {
	ensureID(&f.ID)
	return nil
}
