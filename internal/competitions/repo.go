package competitions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clubops/clubfinance/internal/repo"
	"github.com/clubops/clubfinance/pkg/db/models"
)

// RaceChain is a race resolved up to the event that prices it.
type RaceChain struct {
	Race        models.Race
	Competition models.Competition
	Event       models.Event
}

// Repository reads competition registrations and their race hierarchy.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListUninvoicedRegistrations(ctx context.Context, limit int) ([]models.Registration, error)
	FindRaceChain(ctx context.Context, raceID uuid.UUID) (*RaceChain, error)
	LinkInvoice(ctx context.Context, registrationID, invoiceID uuid.UUID) error
}

type repository struct {
	base repo.Base
}

// NewRepository returns a competitions repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{base: r.base.WithTx(tx)}
}

func (r *repository) ListUninvoicedRegistrations(ctx context.Context, limit int) ([]models.Registration, error) {
	var regs []models.Registration
	query := r.base.DB(ctx).
		Model(&models.Registration{}).
		Where("registrations.invoice_id IS NULL")
	if err := repo.OldestFirst(query, "registrations", limit).Find(&regs).Error; err != nil {
		return nil, err
	}
	return regs, nil
}

// FindRaceChain returns nil without error when any link of the chain is missing.
func (r *repository) FindRaceChain(ctx context.Context, raceID uuid.UUID) (*RaceChain, error) {
	var chain RaceChain
	found, err := first(r.base.DB(ctx), &chain.Race, raceID)
	if err != nil || !found {
		return nil, err
	}
	found, err = first(r.base.DB(ctx), &chain.Competition, chain.Race.CompetitionID)
	if err != nil || !found {
		return nil, err
	}
	found, err = first(r.base.DB(ctx), &chain.Event, chain.Competition.EventID)
	if err != nil || !found {
		return nil, err
	}
	return &chain, nil
}

// LinkInvoice only fills an empty back-reference so a concurrent writer
// cannot be overwritten; gorm.ErrRecordNotFound signals the row was taken.
func (r *repository) LinkInvoice(ctx context.Context, registrationID, invoiceID uuid.UUID) error {
	res := r.base.DB(ctx).
		Model(&models.Registration{}).
		Where("id = ? AND invoice_id IS NULL", registrationID).
		Update("invoice_id", invoiceID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func first(db *gorm.DB, dest any, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	if err := db.Where("id = ?", id).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
