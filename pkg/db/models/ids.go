package models

import "github.com/google/uuid"

// ensureID assigns a fresh UUID when the caller left the primary key empty.
// Used from BeforeCreate hooks so rows get ids on every supported driver.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
