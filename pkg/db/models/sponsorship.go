package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sponsor is an external company or person backing the club.
type Sponsor struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (s *Sponsor) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// Sponsorship is a sponsor agreement with an annual value.
type Sponsorship struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	SponsorID   uuid.UUID           `gorm:"column:sponsor_id;type:uuid;not null;index"`
	AnnualValue decimal.NullDecimal `gorm:"column:annual_value;type:numeric(12,2)"`
	StartsAt    *time.Time          `gorm:"column:starts_at"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime;index"`
}

func (s *Sponsorship) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
