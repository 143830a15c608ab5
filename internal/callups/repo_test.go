package callups

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/clubops/clubfinance/pkg/db/dbtest"
	"github.com/clubops/clubfinance/pkg/db/models"
	dbtypes "github.com/clubops/clubfinance/pkg/db/types"
	"github.com/clubops/clubfinance/pkg/enums"
)

func TestListUnbilledGroupsAndLink(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	athlete := uuid.New()
	first := models.CallUpGroup{EventID: uuid.New(), AthleteIDs: dbtypes.NewIDList(athlete), CostBasis: enums.CostBasisPerRace, CreatedAt: base}
	second := models.CallUpGroup{EventID: uuid.New(), CreatedAt: base.Add(time.Hour)}
	require.NoError(t, db.Create(&second).Error)
	require.NoError(t, db.Create(&first).Error)

	groups, err := repo.ListUnbilledGroups(ctx, 0)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, first.ID, groups[0].ID)
	assert.True(t, groups[0].AthleteIDs.Contains(athlete))
	assert.False(t, groups[1].AthleteIDs.Valid, "NULL athlete list reads as invalid")

	movementID := uuid.New()
	require.NoError(t, repo.LinkMovement(ctx, first.ID, movementID))
	assert.ErrorIs(t, repo.LinkMovement(ctx, first.ID, uuid.New()), gorm.ErrRecordNotFound)

	groups, err = repo.ListUnbilledGroups(ctx, 0)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, second.ID, groups[0].ID)
}

func TestListAthleteEntries(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	groupID := uuid.New()
	athlete := uuid.New()

	require.NoError(t, db.Create(&models.CallUpAthlete{GroupID: groupID, AthleteID: athlete, RaceIDs: dbtypes.NewIDList(uuid.New(), uuid.New())}).Error)
	require.NoError(t, db.Create(&models.CallUpAthlete{GroupID: uuid.New(), AthleteID: athlete}).Error)

	entries, err := repo.ListAthleteEntries(context.Background(), groupID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].RaceIDs.Len())
}
