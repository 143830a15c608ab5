package backfill

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubops/clubfinance/pkg/db/models"
	"github.com/clubops/clubfinance/pkg/enums"
	pkgerrors "github.com/clubops/clubfinance/pkg/errors"
	"github.com/clubops/clubfinance/pkg/logger"
	"github.com/clubops/clubfinance/pkg/metrics"
)

// seedEverything creates one processable record per section plus a skip.
func seedEverything(h *harness) {
	athlete := h.user("Ana")
	event := h.event("Meet", money(20))
	race := h.race(event, "100m")
	h.registration(&athlete.ID, race, decimal.NullDecimal{})
	h.registration(nil, race, decimal.NullDecimal{})
	h.sale(&athlete.ID, 10, 3, decimal.NullDecimal{})
	h.sponsorship("Acme", money(500), nil)
	h.group(event, enums.CostBasisFlat, athlete.ID)
}

func financialRows(h *harness) int64 {
	return h.count(&models.Invoice{}) + h.count(&models.InvoiceItem{}) +
		h.count(&models.Movement{}) + h.count(&models.MovementItem{}) +
		h.count(&models.FinancialEntry{})
}

func TestRun_IsIdempotent(t *testing.T) {
	h := newHarness(t)
	seedEverything(h)
	ctx := context.Background()

	first, err := h.service.Run(ctx, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"registrations: created=1 skipped=1",
		"sales: created=1 skipped=0",
		"sponsorships: created=1 skipped=0",
		"callups: created=1 skipped=0",
	}, first.Lines())
	rows := financialRows(h)

	second, err := h.service.Run(ctx, Options{})
	require.NoError(t, err)
	for _, result := range second.Results {
		assert.Zero(t, result.Created, "section %s created on re-run", result.Section)
	}
	assert.Equal(t, rows, financialRows(h))
}

func TestRun_DryRunWritesNothingButCounts(t *testing.T) {
	dry := newHarness(t)
	seedEverything(dry)
	dryReport, err := dry.service.Run(context.Background(), Options{DryRun: true})
	require.NoError(t, err)
	assert.True(t, dryReport.DryRun)
	assert.Zero(t, financialRows(dry))

	var linked int64
	require.NoError(t, dry.conn.Model(&models.Registration{}).Where("invoice_id IS NOT NULL").Count(&linked).Error)
	assert.Zero(t, linked)

	live := newHarness(t)
	seedEverything(live)
	liveReport, err := live.service.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, liveReport.Results, dryReport.Results)
}

func TestRun_LimitCapsInspectedRecords(t *testing.T) {
	h := newHarness(t)
	buyer := h.user("Buyer")
	first := h.sale(&buyer.ID, 1, 1, decimal.NullDecimal{})
	second := h.sale(&buyer.ID, 2, 1, decimal.NullDecimal{})
	third := h.sale(&buyer.ID, 3, 1, decimal.NullDecimal{})

	report, err := h.service.Run(context.Background(), Options{Limit: 2, Sections: []string{SectionSales}})
	require.NoError(t, err)
	assert.Equal(t, Result{Section: SectionSales, Created: 2}, resultFor(t, report, SectionSales))

	invoiced := func(id any) bool {
		var n int64
		require.NoError(t, h.conn.Model(&models.Invoice{}).Where("origin_id = ?", id).Count(&n).Error)
		return n > 0
	}
	assert.True(t, invoiced(first.ID))
	assert.True(t, invoiced(second.ID))
	assert.False(t, invoiced(third.ID), "records past the limit stay for the next run")

	report, err = h.service.Run(context.Background(), Options{Limit: 2, Sections: []string{SectionSales}})
	require.NoError(t, err)
	assert.Equal(t, Result{Section: SectionSales, Created: 1}, resultFor(t, report, SectionSales))
	assert.True(t, invoiced(third.ID))
}

func TestRun_LimitCountsSkippedRecords(t *testing.T) {
	h := newHarness(t)
	buyer := h.user("Buyer")
	h.sale(nil, 1, 1, decimal.NullDecimal{})
	h.sale(&buyer.ID, 2, 1, decimal.NullDecimal{})

	report, err := h.service.Run(context.Background(), Options{Limit: 1, Sections: []string{SectionSales}})
	require.NoError(t, err)
	assert.Equal(t, Result{Section: SectionSales, Skipped: 1}, resultFor(t, report, SectionSales))
}

func TestRun_SameLimitRerunsStallOnSkippedHead(t *testing.T) {
	h := newHarness(t)
	buyer := h.user("Buyer")
	h.sale(nil, 1, 1, decimal.NullDecimal{})
	pending := h.sale(&buyer.ID, 2, 1, decimal.NullDecimal{})

	opts := Options{Limit: 1, Sections: []string{SectionSales}}
	for range 2 {
		report, err := h.service.Run(context.Background(), opts)
		require.NoError(t, err)
		assert.Equal(t, Result{Section: SectionSales, Skipped: 1}, resultFor(t, report, SectionSales))
	}
	assert.Zero(t, h.count(&models.Invoice{}), "the unlinked head keeps the window on the same record")

	report, err := h.service.Run(context.Background(), Options{Limit: 2, Sections: []string{SectionSales}})
	require.NoError(t, err)
	assert.Equal(t, Result{Section: SectionSales, Created: 1, Skipped: 1}, resultFor(t, report, SectionSales))

	var invoice models.Invoice
	require.NoError(t, h.conn.First(&invoice, "origin_id = ?", pending.ID).Error)
}

func TestRun_RejectsInvalidOptions(t *testing.T) {
	h := newHarness(t)

	_, err := h.service.Run(context.Background(), Options{Limit: -1})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = h.service.Run(context.Background(), Options{Sections: []string{"refunds"}})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestRun_SectionsKeepFixedOrder(t *testing.T) {
	h := newHarness(t)
	report, err := h.service.Run(context.Background(), Options{Sections: []string{SectionCallUps, SectionRegistrations}})
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.Equal(t, SectionRegistrations, report.Results[0].Section)
	assert.Equal(t, SectionCallUps, report.Results[1].Section)
}

func TestRun_RecordsMetrics(t *testing.T) {
	h := newHarness(t)
	seedEverything(h)

	_, err := h.service.Run(context.Background(), Options{})
	require.NoError(t, err)

	mfs, err := h.registry.Gather()
	require.NoError(t, err)
	assert.Equal(t, 1.0, counterValue(t, mfs, "backfill_records_created_total", SectionRegistrations))
	assert.Equal(t, 1.0, counterValue(t, mfs, "backfill_records_skipped_total", SectionRegistrations))
	assert.Equal(t, 1.0, counterValue(t, mfs, "backfill_records_created_total", SectionCallUps))
}

type stubPass struct {
	name   string
	result Result
	err    error
	ran    bool
}

func (s *stubPass) Name() string { return s.name }

func (s *stubPass) Run(context.Context, Options) (Result, error) {
	s.ran = true
	return s.result, s.err
}

type stubLock struct {
	acquired   bool
	acquireErr error
	releaseErr error
	released   bool
}

func (l *stubLock) Acquire(context.Context) (bool, error) { return l.acquired, l.acquireErr }

func (l *stubLock) Release(context.Context) error {
	l.released = true
	return l.releaseErr
}

func newStubService(t *testing.T, lock Lock, reg *prometheus.Registry, passes ...Pass) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Registry: NewRegistry(passes...),
		Lock:     lock,
		Metrics:  metrics.NewBackfillMetrics(reg),
	})
	require.NoError(t, err)
	return svc
}

func TestRun_StopsAtFirstFailingPass(t *testing.T) {
	boom := pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("db gone"), "list sales")
	registrations := &stubPass{name: SectionRegistrations, result: Result{Section: SectionRegistrations, Created: 2}}
	sales := &stubPass{name: SectionSales, result: Result{Section: SectionSales, Created: 1}, err: boom}
	sponsorships := &stubPass{name: SectionSponsorships}
	lock := &stubLock{acquired: true}
	reg := prometheus.NewRegistry()

	svc := newStubService(t, lock, reg, sponsorships, sales, registrations)
	report, err := svc.Run(context.Background(), Options{})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.CodeOf(err))
	assert.True(t, registrations.ran)
	assert.False(t, sponsorships.ran)
	require.Len(t, report.Results, 2)
	assert.True(t, lock.released)

	mfs, gatherErr := reg.Gather()
	require.NoError(t, gatherErr)
	assert.Equal(t, 1.0, counterValue(t, mfs, "backfill_section_failure_total", SectionSales))
}

func TestRun_SkipsWhenLockHeld(t *testing.T) {
	pass := &stubPass{name: SectionSales}
	lock := &stubLock{acquired: false}
	svc := newStubService(t, lock, prometheus.NewRegistry(), pass)

	report, err := svc.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.True(t, report.LockHeld)
	assert.False(t, pass.ran)
	assert.False(t, lock.released)
	assert.Equal(t, []string{"backfill skipped: another run holds the lock"}, report.Lines())
}

func TestRun_ReportsLockErrors(t *testing.T) {
	svc := newStubService(t, &stubLock{acquireErr: errors.New("redis down")}, prometheus.NewRegistry())
	_, err := svc.Run(context.Background(), Options{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.CodeOf(err))

	releaseFails := &stubLock{acquired: true, releaseErr: errors.New("redis down")}
	svc = newStubService(t, releaseFails, prometheus.NewRegistry(), &stubPass{name: SectionSales})
	report, err := svc.Run(context.Background(), Options{})
	require.Error(t, err)
	assert.Len(t, report.Results, 1)
}

func TestRun_FillsMissingSectionName(t *testing.T) {
	pass := &stubPass{name: SectionSales, result: Result{Created: 4}}
	svc := newStubService(t, nil, prometheus.NewRegistry(), pass)

	report, err := svc.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"sales: created=4 skipped=0"}, report.Lines())
}

func TestNewService_RequiresLogger(t *testing.T) {
	_, err := NewService(ServiceParams{})
	assert.Error(t, err)
}

func counterValue(t *testing.T, mfs []*dto.MetricFamily, name, section string) float64 {
	t.Helper()
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "section" && label.GetValue() == section {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s{section=%s} not found", name, section)
	return 0
}
