package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/clubops/clubfinance/internal/attendance"
	"github.com/clubops/clubfinance/pkg/db/models"
	pkgerrors "github.com/clubops/clubfinance/pkg/errors"
	"github.com/clubops/clubfinance/pkg/logger"
	"github.com/clubops/clubfinance/pkg/validators"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// MemberLister resolves the full member roster for events that invite
// everyone.
type MemberLister interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Service creates club events.
type Service interface {
	CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error)
}

// ServiceParams wires the event service.
type ServiceParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repo       Repository
	Attendance attendance.Service
	Members    MemberLister
}

type service struct {
	logg       *logger.Logger
	db         txRunner
	repo       Repository
	attendance attendance.Service
	members    MemberLister
}

// CreateEventInput describes a new event and who is invited to it.
type CreateEventInput struct {
	Title     string              `json:"title" validate:"required,max=255"`
	StartsAt  time.Time           `json:"starts_at" validate:"required"`
	EntryFee  decimal.NullDecimal `json:"entry_fee"`
	RaceFee   decimal.NullDecimal `json:"race_fee"`
	JumpFee   decimal.NullDecimal `json:"jump_fee"`
	RelayFee  decimal.NullDecimal `json:"relay_fee"`
	Invitees  []uuid.UUID         `json:"invitees"`
	InviteAll bool                `json:"invite_all"`
}

// NewService validates params and returns an event service.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("event repository required")
	}
	if params.Attendance == nil {
		return nil, fmt.Errorf("attendance service required")
	}
	return &service{
		logg:       params.Logger,
		db:         params.DB,
		repo:       params.Repo,
		attendance: params.Attendance,
		members:    params.Members,
	}, nil
}

// CreateEvent stores the event and initializes attendance for its invitees in
// the same transaction.
func (s *service) CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	if err := validators.Struct(input); err != nil {
		return nil, err
	}
	for name, fee := range map[string]decimal.NullDecimal{
		"entry_fee": input.EntryFee,
		"race_fee":  input.RaceFee,
		"jump_fee":  input.JumpFee,
		"relay_fee": input.RelayFee,
	} {
		if fee.Valid && fee.Decimal.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must not be negative", name))
		}
	}

	invitees := input.Invitees
	if input.InviteAll {
		if s.members == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "member roster unavailable")
		}
		ids, err := s.members.ListIDs(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list members")
		}
		invitees = append(invitees, ids...)
	}

	event := &models.Event{
		Title:    input.Title,
		StartsAt: input.StartsAt,
		EntryFee: input.EntryFee,
		RaceFee:  input.RaceFee,
		JumpFee:  input.JumpFee,
		RelayFee: input.RelayFee,
	}

	var initialized int
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create event")
		}
		created, err := s.attendance.InitializeForEvent(ctx, tx, event.ID, invitees)
		if err != nil {
			return err
		}
		initialized = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"event_id":    event.ID.String(),
		"attendances": initialized,
	})
	s.logg.Info(logCtx, "event created")
	return event, nil
}
