package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/auth"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/service"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingMailer captures outbound mail for assertions
type recordingMailer struct {
	mu        sync.Mutex
	invites   []string // "quotationID/supplierID"
	reminders []string
}

func (m *recordingMailer) SendQuotationInvite(_ domain.Settings, supplier domain.Supplier, q domain.Quotation, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invites = append(m.invites, q.ID+"/"+supplier.ID)
}

func (m *recordingMailer) SendPendingReminder(_ domain.Settings, supplier domain.Supplier, q domain.Quotation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders = append(m.reminders, q.ID+"/"+supplier.ID)
}

func staffCtx(id string, caps ...domain.Capability) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		SubjectID:    id,
		Kind:         auth.KindStaff,
		DisplayName:  "Test User",
		Capabilities: domain.CapabilitySet(caps),
	})
}

func supplierCtx(id string) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		SubjectID:   id,
		Kind:        auth.KindSupplier,
		DisplayName: "Test Supplier",
	})
}

func newQuotationService(t *testing.T) (*service.QuotationService, *service.OrderService, *recordingMailer, *store.Store) {
	t.Helper()
	st := newSeededStore(t)
	mailer := &recordingMailer{}
	qsvc := service.NewQuotationService(st, mailer, newTokenManager(), zap.NewNop())
	osvc := service.NewOrderService(st, zap.NewNop())
	return qsvc, osvc, mailer, st
}

func TestQuotationWorkflow(t *testing.T) {
	qsvc, osvc, mailer, st := newQuotationService(t)

	creator := staffCtx("user-2",
		domain.CapCreateQuotations, domain.CapEditQuotations,
		domain.CapCreateOrders, domain.CapApproveOrders,
		domain.CapConfirmDelivery, domain.CapEvaluateSupplier)

	// Create a draft
	q, err := qsvc.Create(creator, &domain.CreateQuotationRequest{
		Title:    "April Restock",
		SectorID: "sec-3",
		Items: []domain.QuotationItemRequest{
			{Name: "Gauze", Quantity: 50},
			{Name: "Gloves", Quantity: 100},
		},
		SupplierIDs: []string{"sup-1", "sup-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusDraft, q.Status)

	// Send it: pending plus one invite per supplier
	q, err = qsvc.Send(creator, q.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusPending, q.Status)
	assert.ElementsMatch(t, []string{q.ID + "/sup-1", q.ID + "/sup-2"}, mailer.invites)

	// Sending twice is refused
	_, err = qsvc.Send(creator, q.ID)
	assert.ErrorIs(t, err, service.ErrNotSendable)

	// Portal submission by the first supplier
	q, err = qsvc.SubmitPrices(supplierCtx("sup-1"), q.ID, &domain.SubmitPricesRequest{
		Prices: map[string]float64{"Gauze": 4.50, "Gloves": 0.30},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusPending, q.Status)

	// Manual entry for the second supplier completes the quotation
	q, err = qsvc.SubmitPrices(creator, q.ID, &domain.SubmitPricesRequest{
		SupplierID: "sup-2",
		Prices:     map[string]float64{"Gauze": 5.00, "Gloves": 0.25},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusCompleted, q.Status)

	// Best prices pick the cheapest positive submission per item
	best, err := qsvc.BestPrices(creator, q.ID)
	require.NoError(t, err)
	require.Len(t, best, 2)
	assert.Equal(t, "sup-1", best[0].SupplierID)
	assert.Equal(t, "sup-2", best[1].SupplierID)

	// Ordering from sup-1 closes the quotation
	po, err := osvc.CreateFromQuotation(creator, q.ID, &domain.CreateOrderRequest{SupplierID: "sup-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPendingApproval, po.Status)
	assert.InDelta(t, 50*4.50+100*0.30, po.Total, 0.0001)

	closed, err := qsvc.GetByID(creator, q.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusClosed, closed.Status)

	// Closed quotations cannot be edited or re-ordered
	_, err = qsvc.Update(creator, q.ID, &domain.UpdateQuotationRequest{
		Title: "x", SectorID: "sec-3",
		Items:       []domain.QuotationItemRequest{{Name: "Gauze", Quantity: 1}},
		SupplierIDs: []string{"sup-1"},
	})
	assert.ErrorIs(t, err, service.ErrConflict)
	_, err = osvc.CreateFromQuotation(creator, q.ID, &domain.CreateOrderRequest{SupplierID: "sup-2"})
	assert.ErrorIs(t, err, service.ErrNotCompleted)

	// Approve, deliver, evaluate
	po, err = osvc.Approve(creator, po.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusApproved, po.Status)

	confirmed := true
	po, err = osvc.RecordDelivery(creator, po.ID, &domain.DeliveryRequest{
		Confirmed: &confirmed, Observation: "Received complete.",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, po.Status)

	po, err = osvc.RecordEvaluation(creator, po.ID, &domain.EvaluationRequest{
		Rating: 4, Comment: "Minor delay.",
	})
	require.NoError(t, err)
	require.NotNil(t, po.Evaluation)
	assert.Equal(t, 4, po.Evaluation.Rating)

	// The store saw every step
	final := st.Snapshot()
	assert.Len(t, final.Quotations, 2)
	assert.Len(t, final.PurchaseOrders, 2)
}

func TestQuotationAuthorization(t *testing.T) {
	qsvc, osvc, _, _ := newQuotationService(t)

	req := &domain.CreateQuotationRequest{
		Title: "April Restock", SectorID: "sec-3",
		Items:       []domain.QuotationItemRequest{{Name: "Gauze", Quantity: 50}},
		SupplierIDs: []string{"sup-1"},
	}

	t.Run("unauthenticated calls are refused", func(t *testing.T) {
		_, err := qsvc.Create(context.Background(), req)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("missing capability is refused", func(t *testing.T) {
		_, err := qsvc.Create(staffCtx("user-3"), req)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("supplier sessions cannot use staff operations", func(t *testing.T) {
		_, err := qsvc.Create(supplierCtx("sup-1"), req)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)

		_, err = osvc.List(supplierCtx("sup-1"))
		assert.ErrorIs(t, err, service.ErrPermissionDenied)
	})

	t.Run("supplier cannot submit for another supplier", func(t *testing.T) {
		_, err := qsvc.SubmitPrices(supplierCtx("sup-1"), "qt-1", &domain.SubmitPricesRequest{
			SupplierID: "sup-2",
			Prices:     map[string]float64{"Gauze": 1},
		})
		assert.ErrorIs(t, err, service.ErrSupplierMismatch)
	})
}

func TestQuotationReferenceChecks(t *testing.T) {
	qsvc, _, _, _ := newQuotationService(t)
	creator := staffCtx("user-2", domain.CapCreateQuotations, domain.CapDeleteQuotations)

	t.Run("unknown sector is refused", func(t *testing.T) {
		_, err := qsvc.Create(creator, &domain.CreateQuotationRequest{
			Title: "X", SectorID: "sec-99",
			Items:       []domain.QuotationItemRequest{{Name: "Gauze", Quantity: 1}},
			SupplierIDs: []string{"sup-1"},
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("unknown supplier is refused", func(t *testing.T) {
		_, err := qsvc.Create(creator, &domain.CreateQuotationRequest{
			Title: "X", SectorID: "sec-3",
			Items:       []domain.QuotationItemRequest{{Name: "Gauze", Quantity: 1}},
			SupplierIDs: []string{"sup-99"},
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("referenced quotation cannot be deleted", func(t *testing.T) {
		// Seeded qt-1 is referenced by seeded po-1
		err := qsvc.Delete(creator, "qt-1")
		assert.ErrorIs(t, err, service.ErrConflict)
	})
}

func TestPortalListing(t *testing.T) {
	qsvc, _, _, _ := newQuotationService(t)
	creator := staffCtx("user-2", domain.CapCreateQuotations, domain.CapEditQuotations)

	q, err := qsvc.Create(creator, &domain.CreateQuotationRequest{
		Title: "April Restock", SectorID: "sec-3",
		Items:       []domain.QuotationItemRequest{{Name: "Gauze", Quantity: 50}},
		SupplierIDs: []string{"sup-1"},
	})
	require.NoError(t, err)

	// Drafts are not visible in the portal
	open, err := qsvc.ListForPortal(supplierCtx("sup-1"))
	require.NoError(t, err)
	assert.Empty(t, open)

	_, err = qsvc.Send(creator, q.ID)
	require.NoError(t, err)

	open, err = qsvc.ListForPortal(supplierCtx("sup-1"))
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, q.ID, open[0].ID)

	// Uninvited suppliers see nothing
	open, err = qsvc.ListForPortal(supplierCtx("sup-3"))
	require.NoError(t, err)
	assert.Empty(t, open)

	// After submitting, the quotation drops off the supplier's list
	_, err = qsvc.SubmitPrices(supplierCtx("sup-1"), q.ID, &domain.SubmitPricesRequest{
		Prices: map[string]float64{"Gauze": 4.50},
	})
	require.NoError(t, err)

	open, err = qsvc.ListForPortal(supplierCtx("sup-1"))
	require.NoError(t, err)
	assert.Empty(t, open)
}
