package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clubops/clubfinance/pkg/enums"
)

// Attendance tracks one invited member for one event.
type Attendance struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	EventID   uuid.UUID              `gorm:"column:event_id;type:uuid;not null;uniqueIndex:uq_attendances_event_user,priority:1"`
	UserID    uuid.UUID              `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_attendances_event_user,priority:2"`
	Status    enums.AttendanceStatus `gorm:"column:status;type:varchar(16);not null;default:'pending'"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *Attendance) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
