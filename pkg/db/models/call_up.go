package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dbtypes "github.com/clubops/clubfinance/pkg/db/types"
	"github.com/clubops/clubfinance/pkg/enums"
)

// CallUpGroup is a roster of athletes called up for an event together with
// the pricing policy used to bill them. The *Price columns override the
// event's fees for this group only. MovementID points at the aggregate
// expense movement once the group has been billed.
type CallUpGroup struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	EventID           uuid.UUID           `gorm:"column:event_id;type:uuid;not null;index"`
	Name              string              `gorm:"column:name"`
	AthleteIDs        dbtypes.IDList      `gorm:"column:athlete_ids"`
	CostBasis         enums.CostBasis     `gorm:"column:cost_basis;type:varchar(32);not null;default:'flat'"`
	RacePrice         decimal.NullDecimal `gorm:"column:race_price;type:numeric(12,2)"`
	JumpPrice         decimal.NullDecimal `gorm:"column:jump_price;type:numeric(12,2)"`
	RelayPrice        decimal.NullDecimal `gorm:"column:relay_price;type:numeric(12,2)"`
	RegistrationPrice decimal.NullDecimal `gorm:"column:registration_price;type:numeric(12,2)"`
	MovementID        *uuid.UUID          `gorm:"column:movement_id;type:uuid;index"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (g *CallUpGroup) BeforeCreate(*gorm.DB) error {
	ensureID(&g.ID)
	return nil
}

// CallUpAthlete lists the races one athlete is entered in within a group.
type CallUpAthlete struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	GroupID   uuid.UUID      `gorm:"column:group_id;type:uuid;not null;index"`
	AthleteID uuid.UUID      `gorm:"column:athlete_id;type:uuid;not null;index"`
	RaceIDs   dbtypes.IDList `gorm:"column:race_ids"`
}

func (a *CallUpAthlete) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
