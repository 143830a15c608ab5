package callups

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clubops/clubfinance/internal/repo"
	"github.com/clubops/clubfinance/pkg/db/models"
)

// Repository reads call-up rosters and records their billing link.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListUnbilledGroups(ctx context.Context, limit int) ([]models.CallUpGroup, error)
	ListAthleteEntries(ctx context.Context, groupID uuid.UUID) ([]models.CallUpAthlete, error)
	LinkMovement(ctx context.Context, groupID, movementID uuid.UUID) error
}

type repository struct {
	base repo.Base
}

// NewRepository returns a call-ups repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{base: r.base.WithTx(tx)}
}

func (r *repository) ListUnbilledGroups(ctx context.Context, limit int) ([]models.CallUpGroup, error) {
	var groups []models.CallUpGroup
	query := r.base.DB(ctx).
		Model(&models.CallUpGroup{}).
		Where("call_up_groups.movement_id IS NULL")
	if err := repo.OldestFirst(query, "call_up_groups", limit).Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *repository) ListAthleteEntries(ctx context.Context, groupID uuid.UUID) ([]models.CallUpAthlete, error) {
	var entries []models.CallUpAthlete
	if err := r.base.DB(ctx).
		Where("group_id = ?", groupID).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// LinkMovement only fills an empty back-reference; gorm.ErrRecordNotFound
// signals another run linked the group first.
func (r *repository) LinkMovement(ctx context.Context, groupID, movementID uuid.UUID) error {
	res := r.base.DB(ctx).
		Model(&models.CallUpGroup{}).
		Where("id = ? AND movement_id IS NULL", groupID).
		Update("movement_id", movementID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
