package sponsors

import (
	"context"

	"gorm.io/gorm"

	"github.com/clubops/clubfinance/internal/repo"
	"github.com/clubops/clubfinance/pkg/db/models"
	"github.com/clubops/clubfinance/pkg/enums"
)

// SponsorshipRow is a sponsorship joined with its sponsor's display name.
type SponsorshipRow struct {
	models.Sponsorship
	SponsorName *string `gorm:"column:sponsor_name"`
}

// DisplayName returns the sponsor name, or fallback when the sponsor row is gone.
func (r SponsorshipRow) DisplayName(fallback string) string {
	if r.SponsorName == nil || *r.SponsorName == "" {
		return fallback
	}
	return *r.SponsorName
}

// Repository reads sponsorship agreements.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListUnrecordedSponsorships(ctx context.Context, limit int) ([]SponsorshipRow, error)
}

type repository struct {
	base repo.Base
}

// NewRepository returns a sponsors repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{base: r.base.WithTx(tx)}
}

// ListUnrecordedSponsorships returns sponsorships without a sponsorship-origin
// movement in the ledger.
func (r *repository) ListUnrecordedSponsorships(ctx context.Context, limit int) ([]SponsorshipRow, error) {
	var rows []SponsorshipRow
	query := r.base.DB(ctx).
		Table("sponsorships").
		Select("sponsorships.*, sponsors.name AS sponsor_name").
		Joins("LEFT JOIN sponsors ON sponsors.id = sponsorships.sponsor_id").
		Where(`NOT EXISTS (
			SELECT 1 FROM movements
			WHERE movements.origin_type = ? AND movements.origin_id = sponsorships.id
		)`, enums.OriginTypeSponsorship)
	if err := repo.OldestFirst(query, "sponsorships", limit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
