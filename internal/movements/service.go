package movements

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/clubops/clubfinance/pkg/db/models"
	"github.com/clubops/clubfinance/pkg/enums"
	pkgerrors "github.com/clubops/clubfinance/pkg/errors"
	"github.com/clubops/clubfinance/pkg/validators"
)

// Service records ledger movements.
type Service interface {
	Create(ctx context.Context, tx *gorm.DB, input CreateInput) (*models.Movement, error)
	ExistsForOrigin(ctx context.Context, tx *gorm.DB, origin models.Origin) (bool, error)
}

type service struct {
	repo Repository
}

// CreateInput captures a new movement. Amount is the magnitude; the stored
// amount is negated for expenses. Items always keep positive values.
type CreateInput struct {
	UserID         *uuid.UUID                   `json:"user_id"`
	PayerName      *string                      `json:"payer_name"`
	Classification enums.MovementClassification `json:"classification" validate:"enum"`
	Type           enums.MovementType           `json:"type" validate:"enum"`
	Status         enums.PaymentStatus          `json:"status"`
	IssuedAt       time.Time                    `json:"issued_at" validate:"required"`
	DueAt          *time.Time                   `json:"due_at"`
	Amount         decimal.Decimal              `json:"amount"`
	Origin         models.Origin                `json:"origin"`
	Notes          *string                      `json:"notes"`
	Items          []ItemInput                  `json:"items" validate:"dive"`
}

// ItemInput is one movement line; Total defaults to Quantity × UnitPrice.
type ItemInput struct {
	Description string              `json:"description" validate:"required"`
	Quantity    int                 `json:"quantity" validate:"min=1"`
	UnitPrice   decimal.Decimal     `json:"unit_price"`
	Total       decimal.NullDecimal `json:"total"`
}

func (i ItemInput) total() decimal.Decimal {
	if i.Total.Valid {
		return i.Total.Decimal
	}
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewService wires a movement service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("movement repository required")
	}
	return &service{repo: repo}, nil
}

// SignedAmount applies the ledger sign convention to a magnitude.
func SignedAmount(classification enums.MovementClassification, magnitude decimal.Decimal) decimal.Decimal {
	if classification == enums.MovementClassificationExpense {
		return magnitude.Abs().Neg()
	}
	return magnitude.Abs()
}

func (s *service) Create(ctx context.Context, tx *gorm.DB, input CreateInput) (*models.Movement, error) {
	if input.Status == "" {
		input.Status = enums.PaymentStatusPending
	}
	if err := validators.Struct(input); err != nil {
		return nil, err
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid movement status %q", input.Status))
	}
	if input.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "movement amount must be a non-negative magnitude")
	}
	if !input.Origin.Type.IsValid() || input.Origin.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "movement origin is required")
	}
	if input.UserID == nil && input.PayerName == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "movement needs a user or a payer name")
	}

	movement := &models.Movement{
		UserID:         input.UserID,
		PayerName:      input.PayerName,
		Classification: input.Classification,
		Type:           input.Type,
		IssuedAt:       input.IssuedAt,
		DueAt:          input.DueAt,
		Amount:         SignedAmount(input.Classification, input.Amount),
		Status:         input.Status,
		Origin:         input.Origin,
		Notes:          input.Notes,
	}
	for _, item := range input.Items {
		if item.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "movement item unit price must not be negative")
		}
		movement.Items = append(movement.Items, models.MovementItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.total(),
		})
	}

	if err := s.repo.WithTx(tx).Create(ctx, movement); err != nil {
		return nil, err
	}
	return movement, nil
}

func (s *service) ExistsForOrigin(ctx context.Context, tx *gorm.DB, origin models.Origin) (bool, error) {
	if !origin.Type.IsValid() || origin.ID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "movement origin is required")
	}
	return s.repo.WithTx(tx).ExistsByOrigin(ctx, origin)
}
