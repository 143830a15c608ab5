package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Registration is an athlete's entry in a race. InvoiceID is set once the
// entry has been billed.
type Registration struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	AthleteID *uuid.UUID          `gorm:"column:athlete_id;type:uuid;index"`
	RaceID    uuid.UUID           `gorm:"column:race_id;type:uuid;not null;index"`
	Fee       decimal.NullDecimal `gorm:"column:fee;type:numeric(12,2)"`
	InvoiceID *uuid.UUID          `gorm:"column:invoice_id;type:uuid;index"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *Registration) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
