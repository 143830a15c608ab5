package backfill

import (
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/clubops/clubfinance/internal/callups"
	"github.com/clubops/clubfinance/internal/competitions"
	"github.com/clubops/clubfinance/internal/events"
	"github.com/clubops/clubfinance/internal/invoices"
	"github.com/clubops/clubfinance/internal/ledger"
	"github.com/clubops/clubfinance/internal/movements"
	"github.com/clubops/clubfinance/internal/sponsors"
	"github.com/clubops/clubfinance/internal/stock"
	"github.com/clubops/clubfinance/pkg/db"
	"github.com/clubops/clubfinance/pkg/db/dbtest"
	"github.com/clubops/clubfinance/pkg/db/models"
	dbtypes "github.com/clubops/clubfinance/pkg/db/types"
	"github.com/clubops/clubfinance/pkg/enums"
	"github.com/clubops/clubfinance/pkg/logger"
	"github.com/clubops/clubfinance/pkg/metrics"
)

// friday is the pinned "now" of every backfill test.
var friday = time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

type harness struct {
	t        *testing.T
	conn     *gorm.DB
	service  *Service
	registry *prometheus.Registry
	seq      int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	conn := dbtest.Open(t)
	runner := db.Wrap(conn)
	logg := logger.New(logger.Options{ServiceName: "backfill-test", Output: io.Discard})
	clock := func() time.Time { return friday }

	invoiceSvc, err := invoices.NewService(invoices.NewRepository(conn))
	require.NoError(t, err)
	movementSvc, err := movements.NewService(movements.NewRepository(conn))
	require.NoError(t, err)
	ledgerSvc, err := ledger.NewService(ledger.NewRepository(conn))
	require.NoError(t, err)

	registrations, err := NewRegistrationsPass(RegistrationsPassParams{
		Logger: logg, DB: runner, Source: competitions.NewRepository(conn),
		Invoices: invoiceSvc, Ledger: ledgerSvc, Clock: clock, DueBusinessDays: 8,
	})
	require.NoError(t, err)
	sales, err := NewSalesPass(SalesPassParams{
		Logger: logg, DB: runner, Source: stock.NewRepository(conn),
		Invoices: invoiceSvc, Ledger: ledgerSvc, Clock: clock, DueBusinessDays: 8,
	})
	require.NoError(t, err)
	sponsorships, err := NewSponsorshipsPass(SponsorshipsPassParams{
		Logger: logg, DB: runner, Source: sponsors.NewRepository(conn),
		Movements: movementSvc, Ledger: ledgerSvc, Clock: clock,
	})
	require.NoError(t, err)
	callUps, err := NewCallUpsPass(CallUpsPassParams{
		Logger: logg, DB: runner, Source: callups.NewRepository(conn),
		Events: events.NewRepository(conn), Movements: movementSvc, Clock: clock, DueBusinessDays: 8,
	})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	svc, err := NewService(ServiceParams{
		Logger:   logg,
		Registry: NewRegistry(registrations, sales, sponsorships, callUps),
		Metrics:  metrics.NewBackfillMetrics(reg),
	})
	require.NoError(t, err)

	return &harness{t: t, conn: conn, service: svc, registry: reg}
}

// next returns increasing creation timestamps so seeded rows have a stable
// oldest-first order.
func (h *harness) next() time.Time {
	h.seq++
	return time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(h.seq) * time.Minute)
}

func (h *harness) create(value any) {
	h.t.Helper()
	require.NoError(h.t, h.conn.Create(value).Error)
}

func (h *harness) user(name string) models.User {
	u := models.User{Name: name, CreatedAt: h.next()}
	h.create(&u)
	return u
}

func (h *harness) event(title string, entryFee decimal.NullDecimal) models.Event {
	e := models.Event{Title: title, StartsAt: friday.AddDate(0, 1, 0), EntryFee: entryFee, CreatedAt: h.next()}
	h.create(&e)
	return e
}

func (h *harness) race(event models.Event, name string) models.Race {
	c := models.Competition{EventID: event.ID, Name: event.Title}
	h.create(&c)
	r := models.Race{CompetitionID: c.ID, Name: name}
	h.create(&r)
	return r
}

func (h *harness) registration(athlete *uuid.UUID, race models.Race, fee decimal.NullDecimal) models.Registration {
	r := models.Registration{AthleteID: athlete, RaceID: race.ID, Fee: fee, CreatedAt: h.next()}
	h.create(&r)
	return r
}

func (h *harness) sale(buyer *uuid.UUID, unit int64, qty int, total decimal.NullDecimal) models.Sale {
	s := models.Sale{
		BuyerID:       buyer,
		ItemName:      "Club scarf",
		UnitPrice:     decimal.NewFromInt(unit),
		Quantity:      qty,
		Total:         total,
		PaymentMethod: enums.PaymentMethodCash.String(),
		CreatedAt:     h.next(),
	}
	h.create(&s)
	return s
}

func (h *harness) sponsorship(name string, value decimal.NullDecimal, startsAt *time.Time) models.Sponsorship {
	sponsor := models.Sponsor{Name: name}
	h.create(&sponsor)
	s := models.Sponsorship{SponsorID: sponsor.ID, AnnualValue: value, StartsAt: startsAt, CreatedAt: h.next()}
	h.create(&s)
	return s
}

func (h *harness) group(event models.Event, basis enums.CostBasis, athletes ...uuid.UUID) models.CallUpGroup {
	g := models.CallUpGroup{
		EventID:    event.ID,
		Name:       "U18",
		AthleteIDs: dbtypes.NewIDList(athletes...),
		CostBasis:  basis,
		CreatedAt:  h.next(),
	}
	h.create(&g)
	return g
}

func (h *harness) entry(group models.CallUpGroup, athlete uuid.UUID, races int) {
	ids := make([]uuid.UUID, races)
	for i := range ids {
		ids[i] = uuid.New()
	}
	h.create(&models.CallUpAthlete{GroupID: group.ID, AthleteID: athlete, RaceIDs: dbtypes.NewIDList(ids...)})
}

func (h *harness) count(model any) int64 {
	h.t.Helper()
	var n int64
	require.NoError(h.t, h.conn.Model(model).Count(&n).Error)
	return n
}

func money(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func ptr[T any](v T) *T {
	return &v
}
