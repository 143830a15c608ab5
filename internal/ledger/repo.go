package ledger

import (
	"context"

	"gorm.io/gorm"

	"github.com/clubops/clubfinance/pkg/db/models"
)

// Repository manages persistence for financial feed entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.FinancialEntry) error
	ListByOrigin(ctx context.Context, origin models.Origin) ([]models.FinancialEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.FinancialEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListByOrigin(ctx context.Context, origin models.Origin) ([]models.FinancialEntry, error) {
	var entries []models.FinancialEntry
	if err := r.db.WithContext(ctx).
		Where("origin_type = ? AND origin_id = ?", origin.Type, origin.ID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
