package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is a point-of-sale merchandise transaction. It carries no invoice
// pointer; billed sales are found through invoices with a stock origin.
type Sale struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	BuyerID       *uuid.UUID          `gorm:"column:buyer_id;type:uuid;index"`
	ItemName      string              `gorm:"column:item_name;not null"`
	UnitPrice     decimal.Decimal     `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity      int                 `gorm:"column:quantity;not null"`
	Total         decimal.NullDecimal `gorm:"column:total;type:numeric(12,2)"`
	SoldAt        *time.Time          `gorm:"column:sold_at"`
	PaymentMethod string              `gorm:"column:payment_method"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime;index"`
}

func (s *Sale) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
