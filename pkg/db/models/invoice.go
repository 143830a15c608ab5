package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/clubops/clubfinance/pkg/enums"
)

// Invoice is a billing document owed by a member.
type Invoice struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	IssuedAt  time.Time           `gorm:"column:issued_at;not null"`
	DueAt     time.Time           `gorm:"column:due_at;not null"`
	Total     decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	Status    enums.PaymentStatus `gorm:"column:status;type:varchar(32);not null;default:'pending'"`
	Type      enums.InvoiceType   `gorm:"column:type;type:varchar(32);not null"`
	Origin    Origin              `gorm:"embedded;embeddedPrefix:origin_"`
	Notes     *string             `gorm:"column:notes"`
	Items     []InvoiceItem       `gorm:"foreignKey:InvoiceID"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *Invoice) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// InvoiceItem is one billed line of an invoice.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `gorm:"column:invoice_id;type:uuid;not null;index"`
	Description string          `gorm:"column:description;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Total       decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
}

func (i *InvoiceItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
