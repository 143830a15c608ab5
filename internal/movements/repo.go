package movements

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clubops/clubfinance/pkg/db/models"
)

// Repository manages persistence for ledger movements and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, movement *models.Movement) error
	ExistsByOrigin(ctx context.Context, origin models.Origin) (bool, error)
	ListByOrigin(ctx context.Context, origin models.Origin) ([]models.Movement, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Movement, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a movement repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, movement *models.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *repository) ExistsByOrigin(ctx context.Context, origin models.Origin) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Movement{}).
		Where("origin_type = ? AND origin_id = ?", origin.Type, origin.ID).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByOrigin returns every movement raised for origin, oldest first. For
// call-up billing this is the only way to reach the per-athlete movements of
// an event, since they carry no pointer back to their group.
func (r *repository) ListByOrigin(ctx context.Context, origin models.Origin) ([]models.Movement, error) {
	var movements []models.Movement
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("origin_type = ? AND origin_id = ?", origin.Type, origin.ID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Movement, error) {
	var movement models.Movement
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&movement).Error; err != nil {
		return nil, err
	}
	return &movement, nil
}
