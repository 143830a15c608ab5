package invoices

import (
	"context"

	"gorm.io/gorm"

	"github.com/clubops/clubfinance/pkg/db/models"
)

// Repository manages persistence for invoices and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, invoice *models.Invoice) error
	ExistsByOrigin(ctx context.Context, origin models.Origin) (bool, error)
	ListByOrigin(ctx context.Context, origin models.Origin) ([]models.Invoice, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an invoice repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create inserts the invoice together with its Items.
func (r *repository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *repository) ExistsByOrigin(ctx context.Context, origin models.Origin) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("origin_type = ? AND origin_id = ?", origin.Type, origin.ID).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListByOrigin(ctx context.Context, origin models.Origin) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("origin_type = ? AND origin_id = ?", origin.Type, origin.ID).
		Order("created_at ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}
