package invoices

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

// Service issues invoices.
type Service interface {
	Create(ctx context.Context, tx *gorm.DB, input CreateInput) (*models.Invoice, error)
	ExistsForOrigin(ctx context.Context, tx *gorm.DB, origin models.Origin) (bool, error)
}

type service struct {
	repo Repository
}

// CreateInput captures a new invoice. Status defaults to pending. The
// invoice total is the sum of the item totals.
type CreateInput struct {
	UserID   uuid.UUID           `json:"user_id" validate:"required"`
	IssuedAt time.Time           `json:"issued_at" validate:"required"`
	DueAt    time.Time           `json:"due_at" validate:"required"`
	Type     enums.InvoiceType   `json:"type" validate:"enum"`
	Status   enums.PaymentStatus `json:"status"`
	Origin   models.Origin       `json:"origin"`
	Notes    *string             `json:"notes"`
	Items    []ItemInput         `json:"items" validate:"min=1,dive"`
}

// ItemInput is one invoice line. Total defaults to Quantity × UnitPrice; set
// it when the billed amount was fixed elsewhere (e.g. a discounted sale).
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

// NewService wires an invoice service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invoice repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, tx *gorm.DB, input CreateInput) (*models.Invoice, error) {
	if input.Status == "" {
		input.Status = enums.PaymentStatusPending
	}
	if err := validators.Struct(input); err != nil {
		return nil, err
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid invoice status %q", input.Status))
	}
	if !input.Origin.Type.IsValid() || input.Origin.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice origin is required")
	}
	if input.DueAt.Before(input.IssuedAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "due date precedes issue date")
	}

	invoice := &models.Invoice{
		UserID:   input.UserID,
		IssuedAt: input.IssuedAt,
		DueAt:    input.DueAt,
		Status:   input.Status,
		Type:     input.Type,
		Origin:   input.Origin,
		Notes:    input.Notes,
		Total:    decimal.Zero,
	}
	for _, item := range input.Items {
		if item.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice item unit price must not be negative")
		}
		lineTotal := item.total()
		invoice.Items = append(invoice.Items, models.InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       lineTotal,
		})
		invoice.Total = invoice.Total.Add(lineTotal)
	}

	if err := s.repo.WithTx(tx).Create(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *service) ExistsForOrigin(ctx context.Context, tx *gorm.DB, origin models.Origin) (bool, error) {
	if !origin.Type.IsValid() || origin.ID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "invoice origin is required")
	}
	return s.repo.WithTx(tx).ExistsByOrigin(ctx, origin)
}
