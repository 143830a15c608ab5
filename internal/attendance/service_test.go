package attendance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubops/clubfinance/pkg/db/dbtest"
	"github.com/clubops/clubfinance/pkg/db/models"
	"github.com/clubops/clubfinance/pkg/enums"
	pkgerrors "github.com/clubops/clubfinance/pkg/errors"
)

func TestInitializeForEvent_CreatesPendingRowsOnce(t *testing.T) {
	db := dbtest.Open(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	eventID := uuid.New()
	a, b := uuid.New(), uuid.New()

	created, err := svc.InitializeForEvent(ctx, nil, eventID, []uuid.UUID{a, b, a, uuid.Nil})
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	rows, err := svc.ListForEvent(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, enums.AttendanceStatusPending, row.Status)
	}

	// mark one present, then re-run with an extra invitee
	require.NoError(t, db.Model(&models.Attendance{}).
		Where("event_id = ? AND user_id = ?", eventID, a).
		Update("status", enums.AttendanceStatusPresent).Error)

	c := uuid.New()
	created, err = svc.InitializeForEvent(ctx, nil, eventID, []uuid.UUID{a, b, c})
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	rows, err = svc.ListForEvent(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	statuses := map[uuid.UUID]enums.AttendanceStatus{}
	for _, row := range rows {
		statuses[row.UserID] = row.Status
	}
	assert.Equal(t, enums.AttendanceStatusPresent, statuses[a])
	assert.Equal(t, enums.AttendanceStatusPending, statuses[c])
}

func TestInitializeForEvent_NoInvitees(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.Open(t)))
	require.NoError(t, err)

	created, err := svc.InitializeForEvent(context.Background(), nil, uuid.New(), nil)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestInitializeForEvent_RequiresEvent(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.Open(t)))
	require.NoError(t, err)

	_, err = svc.InitializeForEvent(context.Background(), nil, uuid.Nil, []uuid.UUID{uuid.New()})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}
