package attendance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clubops/clubfinance/pkg/db/models"
)

// Repository manages attendance rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Attendance, error)
	CreateMissing(ctx context.Context, rows []models.Attendance) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an attendance repository bound to db.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Attendance, error) {
	var rows []models.Attendance
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Order("user_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateMissing inserts rows, leaving any existing (event, user) pair as it
// is. It returns the number of rows actually inserted.
func (r *repository) CreateMissing(ctx context.Context, rows []models.Attendance) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&rows)
	return res.RowsAffected, res.Error
}
