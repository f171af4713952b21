package engine

import (
	"fmt"
	"strings"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
)

// CreateQuotation opens a new quotation in draft with one empty supplier
// quote per invited supplier. Callers normally pre-assign the id via NewID so
// they can address the quotation afterwards; one is generated when absent.
type CreateQuotation struct {
	command
	ID          string
	Title       string
	CreatedBy   string
	SectorID    string
	Items       []domain.QuotationItem
	SupplierIDs []string
}

// UpdateQuotation replaces title, sector, items and the invited supplier set.
// Supplier quotes already submitted survive the edit when the supplier is
// still invited; newly invited suppliers start with an empty quote.
type UpdateQuotation struct {
	command
	ID          string
	Title       string
	SectorID    string
	Items       []domain.QuotationItem
	SupplierIDs []string
	ActorID     string
}

// DeleteQuotation removes a quotation unless a purchase order references it
type DeleteQuotation struct {
	command
	ID string
}

// AdvanceQuotationStatus sets a new status and records it in the history
type AdvanceQuotationStatus struct {
	command
	ID      string
	Status  domain.QuotationStatus
	ActorID string
}

// SubmitSupplierPrices replaces one supplier's whole price map and marks the
// quote submitted. ActorID is the supplier id for portal submissions and the
// staff user id for manual submissions.
type SubmitSupplierPrices struct {
	command
	QuotationID string
	SupplierID  string
	Prices      map[string]float64
	Via         domain.SubmissionType
	ActorID     string
}

// SetSupplierPrice sets a single item price on a supplier's behalf. The
// history entry records the before/after delta.
type SetSupplierPrice struct {
	command
	QuotationID string
	SupplierID  string
	ItemName    string
	Price       float64
	ActorID     string
}

func (e *Engine) applyCreateQuotation(s domain.Snapshot, c CreateQuotation) (domain.Snapshot, error) {
	if strings.TrimSpace(c.Title) == "" {
		return s, ErrEmptyTitle
	}
	if len(c.Items) == 0 {
		return s, ErrNoItems
	}
	if len(c.SupplierIDs) == 0 {
		return s, ErrNoSuppliers
	}

	next := s.Clone()
	now := e.now()

	id := c.ID
	if id == "" {
		id = NewID("qt")
	}

	items := make([]domain.QuotationItem, len(c.Items))
	copy(items, c.Items)

	quotes := make([]domain.SupplierQuote, 0, len(c.SupplierIDs))
	for _, supplierID := range c.SupplierIDs {
		quotes = append(quotes, domain.SupplierQuote{
			SupplierID: supplierID,
			Prices:     map[string]float64{},
		})
	}

	next.Quotations = append(next.Quotations, domain.Quotation{
		ID:        id,
		Title:     c.Title,
		CreatedBy: c.CreatedBy,
		SectorID:  c.SectorID,
		Status:    domain.QuotationStatusDraft,
		Items:     items,
		Suppliers: quotes,
		CreatedAt: now,
		History: []domain.HistoryEntry{
			{Timestamp: now, ActorID: c.CreatedBy, Action: "Quotation created."},
		},
	})
	return next, nil
}

func (e *Engine) applyUpdateQuotation(s domain.Snapshot, c UpdateQuotation) (domain.Snapshot, error) {
	next := s.Clone()
	for i := range next.Quotations {
		q := &next.Quotations[i]
		if q.ID != c.ID {
			continue
		}

		q.Title = c.Title
		q.SectorID = c.SectorID

		items := make([]domain.QuotationItem, len(c.Items))
		copy(items, c.Items)
		q.Items = items

		quotes := make([]domain.SupplierQuote, 0, len(c.SupplierIDs))
		for _, supplierID := range c.SupplierIDs {
			if existing, ok := q.Quote(supplierID); ok {
				quotes = append(quotes, existing)
			} else {
				quotes = append(quotes, domain.SupplierQuote{
					SupplierID: supplierID,
					Prices:     map[string]float64{},
				})
			}
		}
		q.Suppliers = quotes

		q.History = append(q.History, domain.HistoryEntry{
			Timestamp: e.now(),
			ActorID:   c.ActorID,
			Action:    "Quotation edited.",
		})
		return next, nil
	}
	return s, ErrQuotationNotFound
}

func (e *Engine) applyDeleteQuotation(s domain.Snapshot, c DeleteQuotation) (domain.Snapshot, error) {
	for _, po := range s.PurchaseOrders {
		if po.QuotationID == c.ID {
			return s, ErrQuotationReferenced
		}
	}

	next := s.Clone()
	for i, q := range next.Quotations {
		if q.ID == c.ID {
			next.Quotations = append(next.Quotations[:i], next.Quotations[i+1:]...)
			return next, nil
		}
	}
	return s, ErrQuotationNotFound
}

func (e *Engine) applyAdvanceQuotationStatus(s domain.Snapshot, c AdvanceQuotationStatus) (domain.Snapshot, error) {
	if !c.Status.IsValid() {
		return s, ErrInvalidStatus
	}

	next := s.Clone()
	for i := range next.Quotations {
		q := &next.Quotations[i]
		if q.ID != c.ID {
			continue
		}
		q.Status = c.Status
		q.History = append(q.History, domain.HistoryEntry{
			Timestamp: e.now(),
			ActorID:   c.ActorID,
			Action:    fmt.Sprintf("Status changed to %q.", string(c.Status)),
		})
		return next, nil
	}
	return s, ErrQuotationNotFound
}

func (e *Engine) applySubmitSupplierPrices(s domain.Snapshot, c SubmitSupplierPrices) (domain.Snapshot, error) {
	if !c.Via.IsValid() {
		return s, ErrInvalidSubmission
	}

	next := s.Clone()
	for i := range next.Quotations {
		q := &next.Quotations[i]
		if q.ID != c.QuotationID {
			continue
		}

		found := false
		for j := range q.Suppliers {
			sq := &q.Suppliers[j]
			if sq.SupplierID != c.SupplierID {
				continue
			}
			prices := make(map[string]float64, len(c.Prices))
			for name, price := range c.Prices {
				prices[name] = price
			}
			sq.Prices = prices
			sq.Submitted = true
			sq.SubmissionType = c.Via
			sq.SubmittedBy = c.ActorID
			found = true
			break
		}
		if !found {
			return s, ErrSupplierNotInvited
		}

		// Completion only ever moves forward: prices accumulate, so a
		// quotation never reverts from completed here.
		if q.AllSubmitted() {
			q.Status = domain.QuotationStatusCompleted
		}

		q.History = append(q.History, domain.HistoryEntry{
			Timestamp: e.now(),
			ActorID:   c.ActorID,
			Action:    e.submissionAction(s, c),
		})
		return next, nil
	}
	return s, ErrQuotationNotFound
}

func (e *Engine) submissionAction(s domain.Snapshot, c SubmitSupplierPrices) string {
	name := supplierName(s, c.SupplierID)
	if c.Via == domain.SubmissionManual {
		return fmt.Sprintf("Prices for supplier %s entered manually.", name)
	}
	return fmt.Sprintf("Supplier %s submitted prices.", name)
}

func (e *Engine) applySetSupplierPrice(s domain.Snapshot, c SetSupplierPrice) (domain.Snapshot, error) {
	next := s.Clone()
	for i := range next.Quotations {
		q := &next.Quotations[i]
		if q.ID != c.QuotationID {
			continue
		}

		name := supplierName(s, c.SupplierID)
		found := false
		var action string
		for j := range q.Suppliers {
			sq := &q.Suppliers[j]
			if sq.SupplierID != c.SupplierID {
				continue
			}
			if old, ok := sq.Prices[c.ItemName]; ok {
				action = fmt.Sprintf("Price for %q from supplier %s changed from %.2f to %.2f.",
					c.ItemName, name, old, c.Price)
			} else {
				action = fmt.Sprintf("Price for %q from supplier %s added: %.2f.",
					c.ItemName, name, c.Price)
			}
			sq.Prices[c.ItemName] = c.Price
			sq.Submitted = true
			sq.SubmissionType = domain.SubmissionManual
			sq.SubmittedBy = c.ActorID
			found = true
			break
		}
		if !found {
			return s, ErrSupplierNotInvited
		}

		if q.AllSubmitted() {
			q.Status = domain.QuotationStatusCompleted
		}

		q.History = append(q.History, domain.HistoryEntry{
			Timestamp: e.now(),
			ActorID:   c.ActorID,
			Action:    action,
		})
		return next, nil
	}
	return s, ErrQuotationNotFound
}

func supplierName(s domain.Snapshot, id string) string {
	if sup, ok := s.SupplierByID(id); ok {
		return sup.Name
	}
	return "N/A"
}
