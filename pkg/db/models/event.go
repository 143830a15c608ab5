package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Event is a club calendar entry (training, competition, trip). The fee columns
// price registrations and call-ups raised against it.
type Event struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Title     string              `gorm:"column:title;not null"`
	StartsAt  time.Time           `gorm:"column:starts_at;not null"`
	EntryFee  decimal.NullDecimal `gorm:"column:entry_fee;type:numeric(12,2)"`
	RaceFee   decimal.NullDecimal `gorm:"column:race_fee;type:numeric(12,2)"`
	JumpFee   decimal.NullDecimal `gorm:"column:jump_fee;type:numeric(12,2)"`
	RelayFee  decimal.NullDecimal `gorm:"column:relay_fee;type:numeric(12,2)"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (e *Event) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
