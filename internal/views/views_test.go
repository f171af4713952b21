package views_test

import (
	"testing"
	"time"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func reportSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Sectors: []domain.Sector{
			{ID: "sec-1", Name: "Pharmacy"},
			{ID: "sec-2", Name: "Cardiology"},
			{ID: "sec-3", Name: "Orthopedics"},
		},
		Suppliers: []domain.Supplier{
			{ID: "sup-1", Name: "MedSupplies Co."},
			{ID: "sup-2", Name: "Pharma Solutions"},
		},
		Quotations: []domain.Quotation{
			{ID: "qt-1", Status: domain.QuotationStatusDraft},
			{ID: "qt-2", Status: domain.QuotationStatusPending},
			{ID: "qt-3", Status: domain.QuotationStatusCompleted},
			{ID: "qt-4", Status: domain.QuotationStatusClosed},
		},
		PurchaseOrders: []domain.PurchaseOrder{
			{ID: "po-1", SupplierID: "sup-1", SectorID: "sec-1", Total: 100, Status: domain.OrderStatusApproved, CreatedAt: base},
			{ID: "po-2", SupplierID: "sup-2", SectorID: "sec-2", Total: 250, Status: domain.OrderStatusDelivered, CreatedAt: base.AddDate(0, 0, 2)},
			{ID: "po-3", SupplierID: "sup-1", SectorID: "sec-1", Total: 40, Status: domain.OrderStatusPendingApproval, CreatedAt: base.AddDate(0, 0, 3)},
			{ID: "po-4", SupplierID: "sup-2", SectorID: "sec-2", Total: 75, Status: domain.OrderStatusCanceled, CreatedAt: base.AddDate(0, 0, 4)},
			{ID: "po-5", SupplierID: "sup-1", SectorID: "sec-1", Total: 60, Status: domain.OrderStatusRejected, CreatedAt: base.AddDate(0, 0, 5)},
		},
	}
}

func TestTotalSpend(t *testing.T) {
	// Only approved and delivered orders count
	assert.InDelta(t, 350.0, views.TotalSpend(reportSnapshot()), 0.0001)
}

func TestOpenOrderCount(t *testing.T) {
	assert.Equal(t, 1, views.OpenOrderCount(reportSnapshot()))
}

func TestPendingQuotationCount(t *testing.T) {
	// Draft and pending count; completed and closed do not
	assert.Equal(t, 2, views.PendingQuotationCount(reportSnapshot()))
}

func TestSpendBySector(t *testing.T) {
	spend := views.SpendBySector(reportSnapshot())
	require.Len(t, spend, 2)

	// Descending by spend
	assert.Equal(t, "sec-2", spend[0].SectorID)
	assert.Equal(t, "Cardiology", spend[0].SectorName)
	assert.InDelta(t, 250.0, spend[0].Spend, 0.0001)

	assert.Equal(t, "sec-1", spend[1].SectorID)
	assert.InDelta(t, 100.0, spend[1].Spend, 0.0001)
}

func TestMetrics(t *testing.T) {
	m := views.Metrics(reportSnapshot())
	assert.InDelta(t, 350.0, m.TotalSpend, 0.0001)
	assert.Equal(t, 1, m.OpenOrders)
	assert.Equal(t, 2, m.PendingQuotations)
	assert.Len(t, m.SpendBySector, 2)
}

func TestCashFlow(t *testing.T) {
	entries := views.CashFlow(reportSnapshot())
	require.Len(t, entries, 2)

	// Newest first with a running total down the ledger
	assert.Equal(t, "po-2", entries[0].Order.ID)
	assert.Equal(t, "Pharma Solutions", entries[0].SupplierName)
	assert.InDelta(t, 250.0, entries[0].RunningTotal, 0.0001)

	assert.Equal(t, "po-1", entries[1].Order.ID)
	assert.Equal(t, "MedSupplies Co.", entries[1].SupplierName)
	assert.InDelta(t, 350.0, entries[1].RunningTotal, 0.0001)
}

func TestBestPrice(t *testing.T) {
	s := reportSnapshot()
	q := domain.Quotation{
		ID:    "qt-9",
		Items: []domain.QuotationItem{{Name: "Gauze", Quantity: 50}, {Name: "Tape", Quantity: 10}},
		Suppliers: []domain.SupplierQuote{
			{SupplierID: "sup-1", Submitted: true, Prices: map[string]float64{"Gauze": 10}},
			{SupplierID: "sup-2", Submitted: true, Prices: map[string]float64{"Gauze": 0}},
		},
	}

	t.Run("zero and missing prices are ignored", func(t *testing.T) {
		best, ok := views.BestPrice(s, q, "Gauze")
		require.True(t, ok)
		assert.InDelta(t, 10.0, best.Price, 0.0001)
		assert.Equal(t, "sup-1", best.SupplierID)
		assert.Equal(t, "MedSupplies Co.", best.SupplierName)
	})

	t.Run("no positive price means no best price", func(t *testing.T) {
		_, ok := views.BestPrice(s, q, "Tape")
		assert.False(t, ok)
	})

	t.Run("unsubmitted quotes are ignored", func(t *testing.T) {
		q2 := q
		q2.Suppliers = []domain.SupplierQuote{
			{SupplierID: "sup-1", Submitted: false, Prices: map[string]float64{"Gauze": 1}},
			{SupplierID: "sup-2", Submitted: true, Prices: map[string]float64{"Gauze": 8}},
		}
		best, ok := views.BestPrice(s, q2, "Gauze")
		require.True(t, ok)
		assert.InDelta(t, 8.0, best.Price, 0.0001)
		assert.Equal(t, "sup-2", best.SupplierID)
	})
}

func TestBestPrices(t *testing.T) {
	s := reportSnapshot()
	q := domain.Quotation{
		Items: []domain.QuotationItem{
			{Name: "Gauze", Quantity: 50},
			{Name: "Tape", Quantity: 10},
			{Name: "Gloves", Quantity: 100},
		},
		Suppliers: []domain.SupplierQuote{
			{SupplierID: "sup-1", Submitted: true, Prices: map[string]float64{"Gauze": 4.50, "Gloves": 0.30}},
			{SupplierID: "sup-2", Submitted: true, Prices: map[string]float64{"Gauze": 5.00, "Gloves": 0.25}},
		},
	}

	prices := views.BestPrices(s, q)
	// Tape has no prices and is omitted; item order is preserved
	require.Len(t, prices, 2)
	assert.Equal(t, "Gauze", prices[0].ItemName)
	assert.Equal(t, "sup-1", prices[0].SupplierID)
	assert.Equal(t, "Gloves", prices[1].ItemName)
	assert.Equal(t, "sup-2", prices[1].SupplierID)
}
