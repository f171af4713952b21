// Package views holds read-only projections over a snapshot. Everything here
// is recomputed on read; nothing is cached or stored.
package views

import (
	"sort"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
)

// spendCounts reports whether an order contributes to historical spend
func spendCounts(status domain.OrderStatus) bool {
	return status == domain.OrderStatusApproved || status == domain.OrderStatusDelivered
}

// TotalSpend sums the totals of approved and delivered purchase orders
func TotalSpend(s domain.Snapshot) float64 {
	total := 0.0
	for _, po := range s.PurchaseOrders {
		if spendCounts(po.Status) {
			total += po.Total
		}
	}
	return total
}

// OpenOrderCount counts approved orders awaiting delivery
func OpenOrderCount(s domain.Snapshot) int {
	count := 0
	for _, po := range s.PurchaseOrders {
		if po.Status == domain.OrderStatusApproved {
			count++
		}
	}
	return count
}

// PendingQuotationCount counts quotations still awaiting completion or closure
func PendingQuotationCount(s domain.Snapshot) int {
	count := 0
	for _, q := range s.Quotations {
		if q.Status != domain.QuotationStatusClosed && q.Status != domain.QuotationStatusCompleted {
			count++
		}
	}
	return count
}

// SpendBySector groups historical spend by owning sector, descending by
// spend. Sectors with zero spend are excluded.
func SpendBySector(s domain.Snapshot) []domain.SectorSpend {
	bySector := make(map[string]float64)
	for _, po := range s.PurchaseOrders {
		if spendCounts(po.Status) {
			bySector[po.SectorID] += po.Total
		}
	}

	out := make([]domain.SectorSpend, 0, len(bySector))
	for sectorID, spend := range bySector {
		if spend == 0 {
			continue
		}
		name := sectorID
		if sec, ok := s.SectorByID(sectorID); ok {
			name = sec.Name
		}
		out = append(out, domain.SectorSpend{
			SectorID:   sectorID,
			SectorName: name,
			Spend:      spend,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Spend != out[j].Spend {
			return out[i].Spend > out[j].Spend
		}
		return out[i].SectorID < out[j].SectorID
	})
	return out
}

// Metrics assembles the dashboard headline numbers
func Metrics(s domain.Snapshot) domain.DashboardMetrics {
	return domain.DashboardMetrics{
		TotalSpend:        TotalSpend(s),
		OpenOrders:        OpenOrderCount(s),
		PendingQuotations: PendingQuotationCount(s),
		SpendBySector:     SpendBySector(s),
	}
}

// CashFlow lists approved and delivered orders newest first, each row
// carrying the running outflow total up to and including itself
func CashFlow(s domain.Snapshot) []domain.CashFlowEntry {
	orders := make([]domain.PurchaseOrder, 0, len(s.PurchaseOrders))
	for _, po := range s.PurchaseOrders {
		if spendCounts(po.Status) {
			orders = append(orders, po.Clone())
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	entries := make([]domain.CashFlowEntry, 0, len(orders))
	running := 0.0
	for _, po := range orders {
		running += po.Total
		name := po.SupplierID
		if sup, ok := s.SupplierByID(po.SupplierID); ok {
			name = sup.Name
		}
		entries = append(entries, domain.CashFlowEntry{
			Order:        po,
			SupplierName: name,
			RunningTotal: running,
		})
	}
	return entries
}

// BestPrice returns the lowest positive submitted price for one item across
// a quotation's supplier quotes. Zero and missing prices are ignored; ok is
// false when no supplier has submitted a positive price for the item.
func BestPrice(s domain.Snapshot, q domain.Quotation, itemName string) (domain.BestPrice, bool) {
	best := domain.BestPrice{ItemName: itemName}
	found := false
	for _, sq := range q.Suppliers {
		if !sq.Submitted {
			continue
		}
		price, ok := sq.Prices[itemName]
		if !ok || price <= 0 {
			continue
		}
		if !found || price < best.Price {
			best.Price = price
			best.SupplierID = sq.SupplierID
			if sup, ok := s.SupplierByID(sq.SupplierID); ok {
				best.SupplierName = sup.Name
			}
			found = true
		}
	}
	return best, found
}

// BestPrices computes the best price for every item of a quotation, keeping
// the quotation's item order. Items nobody has priced are omitted.
func BestPrices(s domain.Snapshot, q domain.Quotation) []domain.BestPrice {
	out := make([]domain.BestPrice, 0, len(q.Items))
	for _, item := range q.Items {
		if best, ok := BestPrice(s, q, item.Name); ok {
			out = append(out, best)
		}
	}
	return out
}
