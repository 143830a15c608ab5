package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/clubops/clubfinance/pkg/db/models"
	"github.com/clubops/clubfinance/pkg/enums"
	pkgerrors "github.com/clubops/clubfinance/pkg/errors"
	"github.com/clubops/clubfinance/pkg/validators"
)

// Service defines operations that record financial feed entries.
type Service interface {
	RecordEntry(ctx context.Context, tx *gorm.DB, input RecordEntryInput) (*models.FinancialEntry, error)
	ListForOrigin(ctx context.Context, origin models.Origin) ([]models.FinancialEntry, error)
}

type service struct {
	repo Repository
}

// RecordEntryInput captures the immutable data a feed entry requires.
type RecordEntryInput struct {
	EntryDate     time.Time                    `json:"entry_date" validate:"required"`
	Description   string                       `json:"description" validate:"required"`
	Category      enums.EntryCategory          `json:"category" validate:"enum"`
	Kind          enums.MovementClassification `json:"kind" validate:"enum"`
	Amount        decimal.Decimal              `json:"amount"`
	PaymentMethod string                       `json:"payment_method"`
	UserID        *uuid.UUID                   `json:"user_id"`
	Origin        models.Origin                `json:"origin"`
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

// RecordEntry writes one feed entry. Only positive amounts are accepted;
// callers decide beforehand whether an entry is due at all.
func (s *service) RecordEntry(ctx context.Context, tx *gorm.DB, input RecordEntryInput) (*models.FinancialEntry, error) {
	if err := validators.Struct(input); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "financial entry amount must be positive")
	}
	if !input.Origin.Type.IsValid() || input.Origin.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "financial entry origin is required")
	}

	entry := &models.FinancialEntry{
		EntryDate:   input.EntryDate,
		Description: input.Description,
		Category:    input.Category,
		Kind:        input.Kind,
		Amount:      input.Amount,
		UserID:      input.UserID,
		Origin:      input.Origin,
	}
	if method := strings.TrimSpace(input.PaymentMethod); method != "" {
		entry.PaymentMethod = &method
	}

	if err := s.repo.WithTx(tx).Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) ListForOrigin(ctx context.Context, origin models.Origin) ([]models.FinancialEntry, error) {
	if !origin.Type.IsValid() || origin.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "financial entry origin is required")
	}
	return s.repo.ListByOrigin(ctx, origin)
}
