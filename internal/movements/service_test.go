package movements

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
	pkgerrors "github.com/clubops/clubfinance/pkg/errors"
)

func expenseInput() CreateInput {
	athlete := uuid.New()
	return CreateInput{
		UserID:         &athlete,
		Classification: enums.MovementClassificationExpense,
		Type:           enums.MovementTypeRegistration,
		IssuedAt:       time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Amount:         decimal.NewFromInt(15),
		Origin:         models.NewOrigin(enums.OriginTypeEvent, uuid.New()),
		Items: []ItemInput{
			{Description: "Race entries", Quantity: 3, UnitPrice: decimal.NewFromInt(5)},
		},
	}
}

func TestSignedAmount(t *testing.T) {
	assert.True(t, SignedAmount(enums.MovementClassificationExpense, decimal.NewFromInt(15)).Equal(decimal.NewFromInt(-15)))
	assert.True(t, SignedAmount(enums.MovementClassificationExpense, decimal.NewFromInt(-15)).Equal(decimal.NewFromInt(-15)))
	assert.True(t, SignedAmount(enums.MovementClassificationIncome, decimal.NewFromInt(40)).Equal(decimal.NewFromInt(40)))
}

func TestService_CreateExpenseStoresNegativeAmount(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	input := expenseInput()
	movement, err := svc.Create(ctx, nil, input)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPending, movement.Status)

	stored, err := repo.FindByID(ctx, movement.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(-15)), "got %s", stored.Amount)
	require.Len(t, stored.Items, 1)
	assert.True(t, stored.Items[0].Total.Equal(decimal.NewFromInt(15)), "item totals stay positive")

	exists, err := svc.ExistsForOrigin(ctx, nil, input.Origin)
	require.NoError(t, err)
	assert.True(t, exists)

	listed, err := repo.ListByOrigin(ctx, input.Origin)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestService_CreateIncomeWithPayerName(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.Open(t)))
	require.NoError(t, err)

	sponsor := "Acme Sports"
	movement, err := svc.Create(context.Background(), nil, CreateInput{
		PayerName:      &sponsor,
		Classification: enums.MovementClassificationIncome,
		Type:           enums.MovementTypeSponsorship,
		Status:         enums.PaymentStatusPaid,
		IssuedAt:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:         decimal.Zero,
		Origin:         models.NewOrigin(enums.OriginTypeSponsorship, uuid.New()),
		Items:          []ItemInput{{Description: "Annual sponsorship", Quantity: 1, UnitPrice: decimal.Zero}},
	})
	require.NoError(t, err)
	assert.Nil(t, movement.UserID)
	assert.True(t, movement.Amount.IsZero())
	assert.Equal(t, enums.PaymentStatusPaid, movement.Status)
}

func TestService_CreateValidation(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.Open(t)))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{name: "negative magnitude", mutate: func(in *CreateInput) { in.Amount = decimal.NewFromInt(-1) }},
		{name: "invalid classification", mutate: func(in *CreateInput) { in.Classification = "transfer" }},
		{name: "invalid type", mutate: func(in *CreateInput) { in.Type = "refund" }},
		{name: "missing issue date", mutate: func(in *CreateInput) { in.IssuedAt = time.Time{} }},
		{name: "no payer", mutate: func(in *CreateInput) { in.UserID = nil }},
		{name: "missing origin", mutate: func(in *CreateInput) { in.Origin = models.Origin{} }},
		{name: "item without description", mutate: func(in *CreateInput) { in.Items[0].Description = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := expenseInput()
			tc.mutate(&input)
			_, err := svc.Create(context.Background(), nil, input)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
		})
	}
}
