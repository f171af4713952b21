package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
)

// CreatePurchaseOrder converts a quotation into a purchase order for one of
// its invited suppliers. The quotation must be in the completed status, which
// also makes the command single-shot: the first application closes the
// quotation, so a concurrent duplicate is refused instead of creating a second
// order. Line items pair each quotation item with that supplier's submitted
// price; items the supplier never priced default to zero and are called out in
// the quotation history. The quotation is closed as part of the same command;
// the two effects are never applied independently.
type CreatePurchaseOrder struct {
	command
	ID          string
	QuotationID string
	SupplierID  string
	ActorID     string
}

// UpdatePurchaseOrderStatus overwrites the order status directly. Purchase
// orders carry no history log of their own, unlike quotations.
type UpdatePurchaseOrderStatus struct {
	command
	ID     string
	Status domain.OrderStatus
}

// RecordDelivery sets the order to delivered or rejected and stores the
// delivery record, overwriting any previous one
type RecordDelivery struct {
	command
	OrderID     string
	Confirmed   bool
	Observation string
}

// RecordEvaluation stores a 1-5 supplier rating on the order. The order
// status is not checked; an evaluation can be recorded at any lifecycle stage.
type RecordEvaluation struct {
	command
	OrderID string
	Rating  int
	Comment string
}

func (e *Engine) applyCreatePurchaseOrder(s domain.Snapshot, c CreatePurchaseOrder) (domain.Snapshot, error) {
	next := s.Clone()
	for i := range next.Quotations {
		q := &next.Quotations[i]
		if q.ID != c.QuotationID {
			continue
		}

		if q.Status != domain.QuotationStatusCompleted {
			return s, ErrQuotationNotCompleted
		}

		quote, ok := q.Quote(c.SupplierID)
		if !ok {
			return s, ErrSupplierNotInvited
		}

		now := e.now()
		id := c.ID
		if id == "" {
			id = NewID("po")
		}

		var unpriced []string
		items := make([]domain.OrderItem, 0, len(q.Items))
		total := 0.0
		for _, item := range q.Items {
			price, ok := quote.Prices[item.Name]
			if !ok {
				unpriced = append(unpriced, item.Name)
			}
			items = append(items, domain.OrderItem{
				ProductName: item.Name,
				Quantity:    item.Quantity,
				Price:       price,
			})
			total += item.Quantity * price
		}

		next.PurchaseOrders = append(next.PurchaseOrders, domain.PurchaseOrder{
			ID:          id,
			QuotationID: q.ID,
			SupplierID:  c.SupplierID,
			SectorID:    q.SectorID,
			Items:       items,
			Total:       total,
			Status:      domain.OrderStatusPendingApproval,
			CreatedAt:   now,
		})

		action := fmt.Sprintf("Purchase order %s created.", id)
		if len(unpriced) > 0 {
			sort.Strings(unpriced)
			action += fmt.Sprintf(" Items without a submitted price defaulted to zero: %s.",
				strings.Join(unpriced, ", "))
		}
		q.History = append(q.History, domain.HistoryEntry{
			Timestamp: now,
			ActorID:   c.ActorID,
			Action:    action,
		})

		// Combined effect: closing the quotation is part of order creation.
		q.Status = domain.QuotationStatusClosed
		q.History = append(q.History, domain.HistoryEntry{
			Timestamp: now,
			ActorID:   c.ActorID,
			Action:    fmt.Sprintf("Status changed to %q.", string(domain.QuotationStatusClosed)),
		})
		return next, nil
	}
	return s, ErrQuotationNotFound
}

func (e *Engine) applyUpdatePurchaseOrderStatus(s domain.Snapshot, c UpdatePurchaseOrderStatus) (domain.Snapshot, error) {
	if !c.Status.IsValid() {
		return s, ErrInvalidStatus
	}

	next := s.Clone()
	for i := range next.PurchaseOrders {
		po := &next.PurchaseOrders[i]
		if po.ID == c.ID {
			po.Status = c.Status
			return next, nil
		}
	}
	return s, ErrOrderNotFound
}

func (e *Engine) applyRecordDelivery(s domain.Snapshot, c RecordDelivery) (domain.Snapshot, error) {
	next := s.Clone()
	for i := range next.PurchaseOrders {
		po := &next.PurchaseOrders[i]
		if po.ID != c.OrderID {
			continue
		}
		if c.Confirmed {
			po.Status = domain.OrderStatusDelivered
		} else {
			po.Status = domain.OrderStatusRejected
		}
		po.Delivery = &domain.DeliveryRecord{
			Confirmed:   c.Confirmed,
			Observation: c.Observation,
			Date:        e.now(),
		}
		return next, nil
	}
	return s, ErrOrderNotFound
}

func (e *Engine) applyRecordEvaluation(s domain.Snapshot, c RecordEvaluation) (domain.Snapshot, error) {
	if c.Rating < 1 || c.Rating > 5 {
		return s, ErrInvalidRating
	}

	next := s.Clone()
	for i := range next.PurchaseOrders {
		po := &next.PurchaseOrders[i]
		if po.ID == c.OrderID {
			po.Evaluation = &domain.Evaluation{
				Rating:  c.Rating,
				Comment: c.Comment,
			}
			return next, nil
		}
	}
	return s, ErrOrderNotFound
}
