package backfill

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/clubops/clubfinance/internal/invoices"
	"github.com/clubops/clubfinance/internal/ledger"
	"github.com/clubops/clubfinance/internal/stock"
	"github.com/clubops/clubfinance/pkg/calendar"
	"github.com/clubops/clubfinance/pkg/db/models"
	"github.com/clubops/clubfinance/pkg/enums"
	"github.com/clubops/clubfinance/pkg/logger"
)

// SalesPassParams wire the merchandise sale invoicing pass.
type SalesPassParams struct {
	Logger          *logger.Logger
	DB              txRunner
	Source          stock.Repository
	Invoices        invoices.Service
	Ledger          ledger.Service
	Clock           calendar.Clock
	DueBusinessDays int
}

type salesPass struct {
	passCommon
	source   stock.Repository
	invoices invoices.Service
	ledger   ledger.Service
}

// NewSalesPass builds the pass that invoices point-of-sale transactions.
func NewSalesPass(params SalesPassParams) (Pass, error) {
	common, err := newPassCommon(params.Logger, params.DB, params.Clock, params.DueBusinessDays)
	if err != nil {
		return nil, err
	}
	if params.Source == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if params.Invoices == nil {
		return nil, fmt.Errorf("invoice service required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	return &salesPass{
		passCommon: common,
		source:     params.Source,
		invoices:   params.Invoices,
		ledger:     params.Ledger,
	}, nil
}

func (p *salesPass) Name() string { return SectionSales }

func (p *salesPass) Run(ctx context.Context, opts Options) (Result, error) {
	result := Result{Section: SectionSales}
	sales, err := p.source.ListUninvoicedSales(ctx, opts.Limit)
	if err != nil {
		return result, dependencyError(err, "list uninvoiced sales")
	}
	for _, sale := range sales {
		out, err := p.process(ctx, sale, opts.DryRun)
		if err != nil {
			return result, err
		}
		p.tally(ctx, &result, sale.ID, out)
	}
	return result, nil
}

// saleAmount is the stored total, or unit price × quantity when it is missing.
func saleAmount(sale models.Sale) decimal.Decimal {
	if sale.Total.Valid {
		return sale.Total.Decimal
	}
	return sale.UnitPrice.Mul(decimal.NewFromInt(int64(sale.Quantity)))
}

// saleLine is the invoice line quantity and unit price. A sale recorded with
// a total but no quantity is billed as a single unit of that total.
func saleLine(sale models.Sale) (int, decimal.Decimal) {
	if sale.Quantity >= 1 {
		return sale.Quantity, sale.UnitPrice
	}
	if sale.Total.Valid {
		return 1, sale.Total.Decimal
	}
	return 0, sale.UnitPrice
}

func (p *salesPass) process(ctx context.Context, sale models.Sale, dryRun bool) (outcome, error) {
	if sale.BuyerID == nil {
		return skip("sale has no buyer"), nil
	}
	quantity, unitPrice := saleLine(sale)
	if quantity < 1 {
		return skip("sale has neither quantity nor total"), nil
	}
	amount := saleAmount(sale)
	if amount.IsNegative() || unitPrice.IsNegative() {
		return skip("sale amount is negative"), nil
	}

	origin := models.NewOrigin(enums.OriginTypeStock, sale.ID)
	if dryRun {
		exists, err := p.invoices.ExistsForOrigin(ctx, nil, origin)
		if err != nil {
			return outcome{}, dependencyError(err, "check sale invoice")
		}
		if exists {
			return skip("sale already linked"), nil
		}
		return created, nil
	}

	buyerID := *sale.BuyerID
	issued := p.now()
	if sale.SoldAt != nil {
		issued = *sale.SoldAt
	}
	itemName := strings.TrimSpace(sale.ItemName)
	if itemName == "" {
		itemName = "Merchandise"
	}
	description := fmt.Sprintf("Merchandise sale: %s", itemName)

	err := p.db.WithTx(ctx, func(tx *gorm.DB) error {
		exists, err := p.invoices.ExistsForOrigin(ctx, tx, origin)
		if err != nil {
			return err
		}
		if exists {
			return errAlreadyLinked
		}
		if _, err := p.invoices.Create(ctx, tx, invoices.CreateInput{
			UserID:   buyerID,
			IssuedAt: issued,
			DueAt:    p.dueDate(issued),
			Type:     enums.InvoiceTypeMaterial,
			Status:   enums.PaymentStatusPending,
			Origin:   origin,
			Items: []invoices.ItemInput{{
				Description: itemName,
				Quantity:    quantity,
				UnitPrice:   unitPrice,
				Total:       decimal.NewNullDecimal(amount),
			}},
		}); err != nil {
			return err
		}
		if amount.IsPositive() {
			if _, err := p.ledger.RecordEntry(ctx, tx, ledger.RecordEntryInput{
				EntryDate:     issued,
				Description:   description,
				Category:      enums.EntryCategoryMerchandiseSale,
				Kind:          enums.MovementClassificationIncome,
				Amount:        amount,
				PaymentMethod: sale.PaymentMethod,
				UserID:        &buyerID,
				Origin:        origin,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return settle(err, "sale")
}
