package sponsors

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubops/clubfinance/pkg/db/dbtest"
	"github.com/clubops/clubfinance/pkg/db/models"
	"github.com/clubops/clubfinance/pkg/enums"
)

func TestListUnrecordedSponsorships(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	sponsor := models.Sponsor{Name: "Acme"}
	require.NoError(t, db.Create(&sponsor).Error)

	recorded := models.Sponsorship{SponsorID: sponsor.ID, AnnualValue: decimal.NewNullDecimal(decimal.NewFromInt(100)), CreatedAt: base}
	open := models.Sponsorship{SponsorID: sponsor.ID, CreatedAt: base.Add(time.Hour)}
	orphan := models.Sponsorship{SponsorID: uuid.New(), CreatedAt: base.Add(2 * time.Hour)}
	for _, s := range []*models.Sponsorship{&recorded, &open, &orphan} {
		require.NoError(t, db.Create(s).Error)
	}
	name := "Acme"
	require.NoError(t, db.Create(&models.Movement{
		PayerName:      &name,
		Classification: enums.MovementClassificationIncome,
		Type:           enums.MovementTypeSponsorship,
		IssuedAt:       base,
		Amount:         decimal.NewFromInt(100),
		Status:         enums.PaymentStatusPaid,
		Origin:         models.NewOrigin(enums.OriginTypeSponsorship, recorded.ID),
	}).Error)

	rows, err := repo.ListUnrecordedSponsorships(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, open.ID, rows[0].ID)
	assert.Equal(t, "Acme", rows[0].DisplayName("fallback"))
	assert.Equal(t, orphan.ID, rows[1].ID)
	assert.Equal(t, "fallback", rows[1].DisplayName("fallback"))
	assert.False(t, rows[0].AnnualValue.Valid)

	rows, err = repo.ListUnrecordedSponsorships(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
