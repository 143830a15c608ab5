package models

import (
	"github.com/google/uuid"

	"github.com/clubops/clubfinance/pkg/enums"
)

// Origin is the tagged back-reference from a financial row to the record that
// produced it. Embed it with `embedded;embeddedPrefix:origin_` so the columns
// become origin_type/origin_id and share one composite index per table.
type Origin struct {
	Type enums.OriginType `gorm:"column:type;type:varchar(32);not null;index:,composite:origin,priority:1"`
	ID   uuid.UUID        `gorm:"column:id;type:uuid;not null;index:,composite:origin,priority:2"`
}

// NewOrigin builds an Origin key.
func NewOrigin(kind enums.OriginType, id uuid.UUID) Origin {
	return Origin{Type: kind, ID: id}
}

// IsZero reports whether the key is unset.
func (o Origin) IsZero() bool {
	return o.Type == "" && o.ID == uuid.Nil
}
