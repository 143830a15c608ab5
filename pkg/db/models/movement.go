package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/clubops/clubfinance/pkg/enums"
)

// Movement is a ledger entry. Amount is signed: expenses (despesa) are stored
// negative, receipts (receita) positive. Movements without a member payer
// carry a free-text PayerName instead of UserID.
type Movement struct {
	ID             uuid.UUID                    `gorm:"column:id;type:uuid;primaryKey"`
	UserID         *uuid.UUID                   `gorm:"column:user_id;type:uuid;index"`
	PayerName      *string                      `gorm:"column:payer_name"`
	Classification enums.MovementClassification `gorm:"column:classification;type:varchar(16);not null"`
	Type           enums.MovementType           `gorm:"column:type;type:varchar(32);not null"`
	IssuedAt       time.Time                    `gorm:"column:issued_at;not null"`
	DueAt          *time.Time                   `gorm:"column:due_at"`
	Amount         decimal.Decimal              `gorm:"column:amount;type:numeric(12,2);not null"`
	Status         enums.PaymentStatus          `gorm:"column:status;type:varchar(32);not null;default:'pending'"`
	Origin         Origin                       `gorm:"embedded;embeddedPrefix:origin_"`
	Notes          *string                      `gorm:"column:notes"`
	Items          []MovementItem               `gorm:"foreignKey:MovementID"`
	CreatedAt      time.Time                    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                    `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *Movement) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

// MovementItem is one line of a movement; its amounts are always positive.
type MovementItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	MovementID  uuid.UUID       `gorm:"column:movement_id;type:uuid;not null;index"`
	Description string          `gorm:"column:description;not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Total       decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
}

func (m *MovementItem) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
