package stock

import (
	"context"

	"gorm.io/gorm"

	"github.com/clubops/clubfinance/internal/repo"
	"github.com/clubops/clubfinance/pkg/db/models"
	"github.com/clubops/clubfinance/pkg/enums"
)

// Repository reads point-of-sale transactions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListUninvoicedSales(ctx context.Context, limit int) ([]models.Sale, error)
}

type repository struct {
	base repo.Base
}

// NewRepository returns a stock repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{base: r.base.WithTx(tx)}
}

// ListUninvoicedSales returns sales with no invoice carrying a stock origin for
// them. Sales have no invoice column, so the link is resolved through the
// invoices origin index.
func (r *repository) ListUninvoicedSales(ctx context.Context, limit int) ([]models.Sale, error) {
	var sales []models.Sale
	query := r.base.DB(ctx).
		Model(&models.Sale{}).
		Where(`NOT EXISTS (
			SELECT 1 FROM invoices
			WHERE invoices.origin_type = ? AND invoices.origin_id = sales.id
		)`, enums.OriginTypeStock)
	if err := repo.OldestFirst(query, "sales", limit).Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}
