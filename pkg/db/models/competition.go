package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Competition groups the races run as part of an event.
type Competition struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	EventID   uuid.UUID `gorm:"column:event_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (c *Competition) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// Race is a single heat inside a competition.
type Race struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CompetitionID uuid.UUID `gorm:"column:competition_id;type:uuid;not null;index"`
	Name          string    `gorm:"column:name;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (r *Race) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
