package engine_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func testEngine() *engine.Engine {
	return engine.NewWithClock(func() time.Time { return testNow })
}

// baseSnapshot builds a small snapshot with one sector, two suppliers and one
// pending quotation for two items
func baseSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Sectors: []domain.Sector{
			{ID: "sec-1", Name: "Pharmacy"},
		},
		Suppliers: []domain.Supplier{
			{ID: "sup-1", Name: "MedSupplies Co.", Email: "sales@medsupplies.com"},
			{ID: "sup-2", Name: "Pharma Solutions", Email: "sales@pharmasol.com"},
		},
		Users: []domain.User{
			{ID: "user-1", Name: "Dr. Alice Hart", Email: "alice@clinic.com", Password: "123"},
		},
		Quotations: []domain.Quotation{
			{
				ID:        "qt-1",
				Title:     "Monthly Restock",
				CreatedBy: "user-1",
				SectorID:  "sec-1",
				Status:    domain.QuotationStatusPending,
				CreatedAt: testNow.AddDate(0, 0, -3),
				Items: []domain.QuotationItem{
					{Name: "Gauze", Quantity: 50},
					{Name: "Gloves", Quantity: 100},
				},
				Suppliers: []domain.SupplierQuote{
					{SupplierID: "sup-1", Prices: map[string]float64{}},
					{SupplierID: "sup-2", Prices: map[string]float64{}},
				},
				History: []domain.HistoryEntry{
					{Timestamp: testNow.AddDate(0, 0, -3), ActorID: "user-1", Action: "Quotation created."},
				},
			},
		},
	}
}

// snapshotJSON is used to assert that a snapshot was not mutated
func snapshotJSON(t *testing.T, s domain.Snapshot) string {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	return string(b)
}

func TestCreateQuotation(t *testing.T) {
	e := testEngine()

	t.Run("creates draft with empty supplier quotes", func(t *testing.T) {
		s := baseSnapshot()
		next, err := e.Apply(s, engine.CreateQuotation{
			ID:          "qt-2",
			Title:       "Surgical Supplies",
			CreatedBy:   "user-1",
			SectorID:    "sec-1",
			Items:       []domain.QuotationItem{{Name: "Scalpel", Quantity: 10}},
			SupplierIDs: []string{"sup-1", "sup-2"},
		})
		require.NoError(t, err)

		q, ok := next.QuotationByID("qt-2")
		require.True(t, ok)
		assert.Equal(t, domain.QuotationStatusDraft, q.Status)
		assert.Equal(t, testNow, q.CreatedAt)
		require.Len(t, q.Suppliers, 2)
		for _, sq := range q.Suppliers {
			assert.False(t, sq.Submitted)
			assert.Empty(t, sq.Prices)
		}
		require.Len(t, q.History, 1)
		assert.Equal(t, "Quotation created.", q.History[0].Action)
		assert.Equal(t, "user-1", q.History[0].ActorID)
	})

	t.Run("refuses empty title", func(t *testing.T) {
		s := baseSnapshot()
		_, err := e.Apply(s, engine.CreateQuotation{
			Title:       "   ",
			Items:       []domain.QuotationItem{{Name: "Scalpel", Quantity: 10}},
			SupplierIDs: []string{"sup-1"},
		})
		assert.ErrorIs(t, err, engine.ErrEmptyTitle)
	})

	t.Run("refuses empty items", func(t *testing.T) {
		s := baseSnapshot()
		_, err := e.Apply(s, engine.CreateQuotation{
			Title:       "Surgical Supplies",
			SupplierIDs: []string{"sup-1"},
		})
		assert.ErrorIs(t, err, engine.ErrNoItems)
	})

	t.Run("refuses empty supplier list", func(t *testing.T) {
		s := baseSnapshot()
		_, err := e.Apply(s, engine.CreateQuotation{
			Title: "Surgical Supplies",
			Items: []domain.QuotationItem{{Name: "Scalpel", Quantity: 10}},
		})
		assert.ErrorIs(t, err, engine.ErrNoSuppliers)
	})
}

func TestApplyNeverMutatesInput(t *testing.T) {
	e := testEngine()
	s := baseSnapshot()
	before := snapshotJSON(t, s)

	commands := []engine.Command{
		engine.CreateQuotation{
			ID: "qt-9", Title: "X", CreatedBy: "user-1", SectorID: "sec-1",
			Items:       []domain.QuotationItem{{Name: "Tape", Quantity: 5}},
			SupplierIDs: []string{"sup-1"},
		},
		engine.SubmitSupplierPrices{
			QuotationID: "qt-1", SupplierID: "sup-1",
			Prices:  map[string]float64{"Gauze": 4.50, "Gloves": 0.30},
			Via:     domain.SubmissionPortal,
			ActorID: "sup-1",
		},
		engine.AdvanceQuotationStatus{ID: "qt-1", Status: domain.QuotationStatusCompleted, ActorID: "user-1"},
		engine.DeleteQuotation{ID: "qt-1"},
		engine.AddSupplier{Supplier: domain.Supplier{Name: "New Vendor"}},
		engine.DeleteSector{ID: "sec-1"},
	}

	for _, cmd := range commands {
		_, _ = e.Apply(s, cmd)
		assert.Equal(t, before, snapshotJSON(t, s))
	}
}

func TestApplyUnknownCommandIsIdentity(t *testing.T) {
	e := testEngine()
	s := baseSnapshot()

	next, err := e.Apply(s, nil)
	require.NoError(t, err)
	assert.Equal(t, snapshotJSON(t, s), snapshotJSON(t, next))
}

func TestSubmitSupplierPrices(t *testing.T) {
	e := testEngine()

	t.Run("portal submission records prices and history", func(t *testing.T) {
		s := baseSnapshot()
		next, err := e.Apply(s, engine.SubmitSupplierPrices{
			QuotationID: "qt-1",
			SupplierID:  "sup-1",
			Prices:      map[string]float64{"Gauze": 4.50, "Gloves": 0.30},
			Via:         domain.SubmissionPortal,
			ActorID:     "sup-1",
		})
		require.NoError(t, err)

		q, _ := next.QuotationByID("qt-1")
		quote, ok := q.Quote("sup-1")
		require.True(t, ok)
		assert.True(t, quote.Submitted)
		assert.Equal(t, domain.SubmissionPortal, quote.SubmissionType)
		assert.Equal(t, 4.50, quote.Prices["Gauze"])

		// One supplier still missing, so the quotation stays pending
		assert.Equal(t, domain.QuotationStatusPending, q.Status)

		last := q.History[len(q.History)-1]
		assert.Equal(t, "Supplier MedSupplies Co. submitted prices.", last.Action)
		assert.Equal(t, "sup-1", last.ActorID)
	})

	t.Run("manual submission uses the manual history wording", func(t *testing.T) {
		s := baseSnapshot()
		next, err := e.Apply(s, engine.SubmitSupplierPrices{
			QuotationID: "qt-1",
			SupplierID:  "sup-2",
			Prices:      map[string]float64{"Gauze": 5.00, "Gloves": 0.25},
			Via:         domain.SubmissionManual,
			ActorID:     "user-1",
		})
		require.NoError(t, err)

		q, _ := next.QuotationByID("qt-1")
		last := q.History[len(q.History)-1]
		assert.Equal(t, "Prices for supplier Pharma Solutions entered manually.", last.Action)
		assert.Equal(t, "user-1", last.ActorID)
	})

	t.Run("last submission completes the quotation", func(t *testing.T) {
		s := baseSnapshot()
		mid, err := e.Apply(s, engine.SubmitSupplierPrices{
			QuotationID: "qt-1", SupplierID: "sup-1",
			Prices: map[string]float64{"Gauze": 4.50, "Gloves": 0.30},
			Via:    domain.SubmissionPortal, ActorID: "sup-1",
		})
		require.NoError(t, err)

		next, err := e.Apply(mid, engine.SubmitSupplierPrices{
			QuotationID: "qt-1", SupplierID: "sup-2",
			Prices: map[string]float64{"Gauze": 5.00, "Gloves": 0.25},
			Via:    domain.SubmissionPortal, ActorID: "sup-2",
		})
		require.NoError(t, err)

		q, _ := next.QuotationByID("qt-1")
		assert.Equal(t, domain.QuotationStatusCompleted, q.Status)
	})

	t.Run("refuses uninvited supplier", func(t *testing.T) {
		s := baseSnapshot()
		_, err := e.Apply(s, engine.SubmitSupplierPrices{
			QuotationID: "qt-1", SupplierID: "sup-99",
			Prices: map[string]float64{"Gauze": 1},
			Via:    domain.SubmissionPortal, ActorID: "sup-99",
		})
		assert.ErrorIs(t, err, engine.ErrSupplierNotInvited)
	})
}

func TestSetSupplierPrice(t *testing.T) {
	e := testEngine()

	t.Run("adding a price records the addition", func(t *testing.T) {
		s := baseSnapshot()
		next, err := e.Apply(s, engine.SetSupplierPrice{
			QuotationID: "qt-1", SupplierID: "sup-1",
			ItemName: "Gauze", Price: 4.50, ActorID: "user-1",
		})
		require.NoError(t, err)

		q, _ := next.QuotationByID("qt-1")
		last := q.History[len(q.History)-1]
		assert.Equal(t, `Price for "Gauze" from supplier MedSupplies Co. added: 4.50.`, last.Action)
	})

	t.Run("changing a price records the delta", func(t *testing.T) {
		s := baseSnapshot()
		s.Quotations[0].Suppliers[0].Prices["Gauze"] = 4.50

		next, err := e.Apply(s, engine.SetSupplierPrice{
			QuotationID: "qt-1", SupplierID: "sup-1",
			ItemName: "Gauze", Price: 4.25, ActorID: "user-1",
		})
		require.NoError(t, err)

		q, _ := next.QuotationByID("qt-1")
		last := q.History[len(q.History)-1]
		assert.Equal(t, `Price for "Gauze" from supplier MedSupplies Co. changed from 4.50 to 4.25.`, last.Action)
	})
}

func TestCreatePurchaseOrder(t *testing.T) {
	e := testEngine()

	completedSnapshot := func() domain.Snapshot {
		s := baseSnapshot()
		s.Quotations[0].Status = domain.QuotationStatusCompleted
		s.Quotations[0].Suppliers[0] = domain.SupplierQuote{
			SupplierID: "sup-1",
			Prices:     map[string]float64{"Gauze": 4.50, "Gloves": 0.30},
			Submitted:  true, SubmissionType: domain.SubmissionPortal, SubmittedBy: "sup-1",
		}
		s.Quotations[0].Suppliers[1] = domain.SupplierQuote{
			SupplierID: "sup-2",
			Prices:     map[string]float64{"Gauze": 5.00, "Gloves": 0.25},
			Submitted:  true, SubmissionType: domain.SubmissionPortal, SubmittedBy: "sup-2",
		}
		return s
	}

	t.Run("captures items and total and closes the quotation", func(t *testing.T) {
		s := completedSnapshot()
		next, err := e.Apply(s, engine.CreatePurchaseOrder{
			ID: "po-1", QuotationID: "qt-1", SupplierID: "sup-1", ActorID: "user-1",
		})
		require.NoError(t, err)

		po, ok := next.OrderByID("po-1")
		require.True(t, ok)
		assert.Equal(t, domain.OrderStatusPendingApproval, po.Status)
		assert.Equal(t, "sec-1", po.SectorID)
		require.Len(t, po.Items, 2)
		// 50 x 4.50 + 100 x 0.30
		assert.InDelta(t, 255.0, po.Total, 0.0001)
		assert.InDelta(t, 225.0, po.Items[0].Quantity*po.Items[0].Price, 0.0001)

		q, _ := next.QuotationByID("qt-1")
		assert.Equal(t, domain.QuotationStatusClosed, q.Status)

		// Creation entry followed by the status change entry
		require.GreaterOrEqual(t, len(q.History), 2)
		assert.Equal(t, "Purchase order po-1 created.", q.History[len(q.History)-2].Action)
		assert.Equal(t, `Status changed to "closed".`, q.History[len(q.History)-1].Action)
	})

	t.Run("missing prices default to zero and are called out", func(t *testing.T) {
		s := completedSnapshot()
		delete(s.Quotations[0].Suppliers[0].Prices, "Gloves")

		next, err := e.Apply(s, engine.CreatePurchaseOrder{
			ID: "po-1", QuotationID: "qt-1", SupplierID: "sup-1", ActorID: "user-1",
		})
		require.NoError(t, err)

		po, _ := next.OrderByID("po-1")
		assert.InDelta(t, 225.0, po.Total, 0.0001)
		assert.Equal(t, 0.0, po.Items[1].Price)

		q, _ := next.QuotationByID("qt-1")
		creation := q.History[len(q.History)-2].Action
		assert.Equal(t, "Purchase order po-1 created. Items without a submitted price defaulted to zero: Gloves.", creation)
	})

	t.Run("refuses uninvited supplier", func(t *testing.T) {
		s := completedSnapshot()
		_, err := e.Apply(s, engine.CreatePurchaseOrder{
			QuotationID: "qt-1", SupplierID: "sup-99", ActorID: "user-1",
		})
		assert.ErrorIs(t, err, engine.ErrSupplierNotInvited)
	})

	t.Run("refuses a quotation that is not completed", func(t *testing.T) {
		s := baseSnapshot() // still pending
		_, err := e.Apply(s, engine.CreatePurchaseOrder{
			QuotationID: "qt-1", SupplierID: "sup-1", ActorID: "user-1",
		})
		assert.ErrorIs(t, err, engine.ErrQuotationNotCompleted)
	})

	t.Run("converting twice creates exactly one order", func(t *testing.T) {
		s := completedSnapshot()
		mid, err := e.Apply(s, engine.CreatePurchaseOrder{
			ID: "po-1", QuotationID: "qt-1", SupplierID: "sup-1", ActorID: "user-1",
		})
		require.NoError(t, err)

		// The first conversion closed the quotation, so the duplicate is refused
		next, err := e.Apply(mid, engine.CreatePurchaseOrder{
			ID: "po-2", QuotationID: "qt-1", SupplierID: "sup-2", ActorID: "user-1",
		})
		assert.ErrorIs(t, err, engine.ErrQuotationNotCompleted)
		assert.Len(t, next.PurchaseOrders, 1)
	})
}

func TestDeleteQuotation(t *testing.T) {
	e := testEngine()

	t.Run("deletes unreferenced quotation", func(t *testing.T) {
		s := baseSnapshot()
		next, err := e.Apply(s, engine.DeleteQuotation{ID: "qt-1"})
		require.NoError(t, err)
		_, ok := next.QuotationByID("qt-1")
		assert.False(t, ok)
	})

	t.Run("refuses when a purchase order references it", func(t *testing.T) {
		s := baseSnapshot()
		s.PurchaseOrders = []domain.PurchaseOrder{
			{ID: "po-1", QuotationID: "qt-1", SupplierID: "sup-1"},
		}
		_, err := e.Apply(s, engine.DeleteQuotation{ID: "qt-1"})
		assert.ErrorIs(t, err, engine.ErrQuotationReferenced)
	})
}

func TestUpdateQuotationPreservesSubmittedQuotes(t *testing.T) {
	e := testEngine()
	s := baseSnapshot()
	s.Quotations[0].Suppliers[0] = domain.SupplierQuote{
		SupplierID: "sup-1",
		Prices:     map[string]float64{"Gauze": 4.50},
		Submitted:  true, SubmissionType: domain.SubmissionPortal, SubmittedBy: "sup-1",
	}

	next, err := e.Apply(s, engine.UpdateQuotation{
		ID:       "qt-1",
		Title:    "Monthly Restock (rev)",
		SectorID: "sec-1",
		Items:    []domain.QuotationItem{{Name: "Gauze", Quantity: 60}},
		// sup-2 dropped, sup-3 newly invited
		SupplierIDs: []string{"sup-1", "sup-3"},
		ActorID:     "user-1",
	})
	require.NoError(t, err)

	q, _ := next.QuotationByID("qt-1")
	require.Len(t, q.Suppliers, 2)

	kept, ok := q.Quote("sup-1")
	require.True(t, ok)
	assert.True(t, kept.Submitted)
	assert.Equal(t, 4.50, kept.Prices["Gauze"])

	fresh, ok := q.Quote("sup-3")
	require.True(t, ok)
	assert.False(t, fresh.Submitted)
	assert.Empty(t, fresh.Prices)

	_, dropped := q.Quote("sup-2")
	assert.False(t, dropped)

	assert.Equal(t, "Quotation edited.", q.History[len(q.History)-1].Action)
}

func TestRecordDelivery(t *testing.T) {
	e := testEngine()

	approvedSnapshot := func() domain.Snapshot {
		s := baseSnapshot()
		s.PurchaseOrders = []domain.PurchaseOrder{
			{ID: "po-1", QuotationID: "qt-1", SupplierID: "sup-1", Status: domain.OrderStatusApproved},
		}
		return s
	}

	t.Run("confirmed delivery", func(t *testing.T) {
		next, err := e.Apply(approvedSnapshot(), engine.RecordDelivery{
			OrderID: "po-1", Confirmed: true, Observation: "All items received.",
		})
		require.NoError(t, err)

		po, _ := next.OrderByID("po-1")
		assert.Equal(t, domain.OrderStatusDelivered, po.Status)
		require.NotNil(t, po.Delivery)
		assert.True(t, po.Delivery.Confirmed)
		assert.Equal(t, testNow, po.Delivery.Date)
	})

	t.Run("refused delivery rejects the order", func(t *testing.T) {
		next, err := e.Apply(approvedSnapshot(), engine.RecordDelivery{
			OrderID: "po-1", Confirmed: false, Observation: "Damaged packaging.",
		})
		require.NoError(t, err)

		po, _ := next.OrderByID("po-1")
		assert.Equal(t, domain.OrderStatusRejected, po.Status)
		require.NotNil(t, po.Delivery)
		assert.False(t, po.Delivery.Confirmed)
	})
}

func TestRecordEvaluation(t *testing.T) {
	e := testEngine()
	s := baseSnapshot()
	s.PurchaseOrders = []domain.PurchaseOrder{
		{ID: "po-1", QuotationID: "qt-1", SupplierID: "sup-1", Status: domain.OrderStatusDelivered},
	}

	t.Run("stores the rating", func(t *testing.T) {
		next, err := e.Apply(s, engine.RecordEvaluation{
			OrderID: "po-1", Rating: 4, Comment: "Quick turnaround.",
		})
		require.NoError(t, err)

		po, _ := next.OrderByID("po-1")
		require.NotNil(t, po.Evaluation)
		assert.Equal(t, 4, po.Evaluation.Rating)
	})

	t.Run("overwrites a previous rating", func(t *testing.T) {
		mid, err := e.Apply(s, engine.RecordEvaluation{OrderID: "po-1", Rating: 2})
		require.NoError(t, err)
		next, err := e.Apply(mid, engine.RecordEvaluation{OrderID: "po-1", Rating: 5, Comment: "Resolved."})
		require.NoError(t, err)

		po, _ := next.OrderByID("po-1")
		assert.Equal(t, 5, po.Evaluation.Rating)
		assert.Equal(t, "Resolved.", po.Evaluation.Comment)
	})

	t.Run("refuses out-of-range ratings", func(t *testing.T) {
		for _, rating := range []int{0, -1, 6} {
			_, err := e.Apply(s, engine.RecordEvaluation{OrderID: "po-1", Rating: rating})
			assert.ErrorIs(t, err, engine.ErrInvalidRating)
		}
	})
}

func TestDirectoryCommands(t *testing.T) {
	e := testEngine()

	t.Run("add supplier assigns an id when absent", func(t *testing.T) {
		s := baseSnapshot()
		next, err := e.Apply(s, engine.AddSupplier{
			Supplier: domain.Supplier{Name: "Equipment World", Email: "sales@equipworld.com"},
		})
		require.NoError(t, err)
		require.Len(t, next.Suppliers, 3)
		assert.NotEmpty(t, next.Suppliers[2].ID)
	})

	t.Run("update unknown sector is refused", func(t *testing.T) {
		s := baseSnapshot()
		_, err := e.Apply(s, engine.UpdateSector{Sector: domain.Sector{ID: "sec-99", Name: "X"}})
		assert.ErrorIs(t, err, engine.ErrSectorNotFound)
	})

	t.Run("delete role removes it without touching users", func(t *testing.T) {
		s := baseSnapshot()
		s.Roles = []domain.Role{{ID: "role-1", Name: "Staff"}}
		s.Users[0].RoleID = "role-1"

		next, err := e.Apply(s, engine.DeleteRole{ID: "role-1"})
		require.NoError(t, err)
		assert.Empty(t, next.Roles)
		assert.Equal(t, "role-1", next.Users[0].RoleID)
	})

	t.Run("set current user and logout", func(t *testing.T) {
		s := baseSnapshot()
		u := s.Users[0]
		next, err := e.Apply(s, engine.SetCurrentUser{User: &u})
		require.NoError(t, err)
		require.NotNil(t, next.CurrentUser)
		assert.Equal(t, "user-1", next.CurrentUser.ID)

		out, err := e.Apply(next, engine.SetCurrentUser{User: nil})
		require.NoError(t, err)
		assert.Nil(t, out.CurrentUser)
	})
}
