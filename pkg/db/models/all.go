package models

// All lists every model in dependency order, for AutoMigrate in tests and
// local SQLite runs.
func All() []any {
	return []any{
		&User{},
		&Event{},
		&Competition{},
		&Race{},
		&Registration{},
		&Sale{},
		&Sponsor{},
		&Sponsorship{},
		&CallUpGroup{},
		&CallUpAthlete{},
		&Invoice{},
		&InvoiceItem{},
		&Movement{},
		&MovementItem{},
		&FinancialEntry{},
		&Attendance{},
	}
}
