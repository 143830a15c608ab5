package attendance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clubops/clubfinance/pkg/db/models"
	"github.com/clubops/clubfinance/pkg/enums"
	pkgerrors "github.com/clubops/clubfinance/pkg/errors"
)

// Service initializes and reads event attendance.
type Service interface {
	InitializeForEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, userIDs []uuid.UUID) (int, error)
	ListForEvent(ctx context.Context, eventID uuid.UUID) ([]models.Attendance, error)
}

type service struct {
	repo Repository
}

// NewService wires an attendance service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("attendance repository required")
	}
	return &service{repo: repo}, nil
}

// InitializeForEvent creates one pending attendance per invited user.
// Duplicate and nil ids are ignored and rows that already exist are kept
// untouched, so calling it again for the same event is harmless. It reports
// how many rows were inserted.
func (s *service) InitializeForEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID, userIDs []uuid.UUID) (int, error) {
	if eventID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "event id is required")
	}

	seen := make(map[uuid.UUID]struct{}, len(userIDs))
	rows := make([]models.Attendance, 0, len(userIDs))
	for _, userID := range userIDs {
		if userID == uuid.Nil {
			continue
		}
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}
		rows = append(rows, models.Attendance{
			EventID: eventID,
			UserID:  userID,
			Status:  enums.AttendanceStatusPending,
		})
	}

	inserted, err := s.repo.WithTx(tx).CreateMissing(ctx, rows)
	if err != nil {
		return 0, err
	}
	return int(inserted), nil
}

func (s *service) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]models.Attendance, error) {
	if eventID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event id is required")
	}
	return s.repo.ListByEvent(ctx, eventID)
}
