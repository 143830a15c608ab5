package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// IDList is a JSON array of UUIDs kept in a single column. Valid is false
// when the stored value is NULL, is not a JSON array, or holds an entry that
// is not a UUID string; callers treat such rows as carrying no list at all.
type IDList struct {
	IDs   []uuid.UUID
	Valid bool
}

// NewIDList returns a valid list holding ids.
func NewIDList(ids ...uuid.UUID) IDList {
	out := make([]uuid.UUID, len(ids))
	copy(out, ids)
	return IDList{IDs: out, Valid: true}
}

// Len returns the number of ids, zero for an invalid list.
func (l IDList) Len() int {
	if !l.Valid {
		return 0
	}
	return len(l.IDs)
}

// Contains reports whether id is present in a valid list.
func (l IDList) Contains(id uuid.UUID) bool {
	if !l.Valid {
		return false
	}
	for _, candidate := range l.IDs {
		if candidate == id {
			return true
		}
	}
	return false
}

// Scan never fails on malformed content so one bad row cannot abort a batch.
func (l *IDList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = IDList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("IDList: unsupported Scan type %T", src)
	}
	*l = parseIDList(raw)
	return nil
}

func (l IDList) Value() (driver.Value, error) {
	if !l.Valid {
		return nil, nil
	}
	ids := l.IDs
	if ids == nil {
		ids = []uuid.UUID{}
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("IDList: marshal: %w", err)
	}
	return string(encoded), nil
}

// GormDataType keeps gorm from treating IDList as a nested struct.
func (IDList) GormDataType() string {
	return "json"
}

// GormDBDataType stores the list as jsonb on Postgres and text elsewhere.
func (IDList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db != nil && db.Dialector != nil && db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}

func parseIDList(raw []byte) IDList {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil || entries == nil {
		return IDList{}
	}
	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		var s string
		if err := json.Unmarshal(entry, &s); err != nil {
			return IDList{}
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return IDList{}
		}
		ids = append(ids, id)
	}
	return IDList{IDs: ids, Valid: true}
}
