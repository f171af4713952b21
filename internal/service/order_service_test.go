package service_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOrderLifecycleGuards(t *testing.T) {
	st := newSeededStore(t)
	svc := service.NewOrderService(st, zap.NewNop())
	ctx := staffCtx("user-2",
		domain.CapApproveOrders, domain.CapCancelOrders,
		domain.CapConfirmDelivery, domain.CapEvaluateSupplier)

	// Seeded po-1 is already delivered
	t.Run("delivered order cannot be approved", func(t *testing.T) {
		_, err := svc.Approve(ctx, "po-1")
		assert.ErrorIs(t, err, service.ErrOrderNotPending)
	})

	t.Run("delivered order cannot be canceled", func(t *testing.T) {
		_, err := svc.Cancel(ctx, "po-1")
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("delivery cannot be recorded twice", func(t *testing.T) {
		confirmed := true
		_, err := svc.RecordDelivery(ctx, "po-1", &domain.DeliveryRequest{Confirmed: &confirmed})
		assert.ErrorIs(t, err, service.ErrOrderNotApproved)
	})

	t.Run("evaluation stays open after delivery", func(t *testing.T) {
		po, err := svc.RecordEvaluation(ctx, "po-1", &domain.EvaluationRequest{
			Rating: 3, Comment: "Revised after inspection.",
		})
		require.NoError(t, err)
		require.NotNil(t, po.Evaluation)
		assert.Equal(t, 3, po.Evaluation.Rating)
	})

	t.Run("out of range rating is refused", func(t *testing.T) {
		_, err := svc.RecordEvaluation(ctx, "po-1", &domain.EvaluationRequest{Rating: 6})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("unknown order is not found", func(t *testing.T) {
		_, err := svc.Approve(ctx, "po-missing")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestConcurrentOrderCreationConvertsOnce(t *testing.T) {
	st := newSeededStore(t)
	svc := service.NewOrderService(st, zap.NewNop())
	ctx := staffCtx("user-2", domain.CapCreateOrders)

	// Seeded qt-1 is completed; race many conversions against it
	const callers = 16
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.CreateFromQuotation(ctx, "qt-1", &domain.CreateOrderRequest{SupplierID: "sup-1"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, service.ErrNotCompleted), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	snap := st.Snapshot()
	q, ok := snap.QuotationByID("qt-1")
	require.True(t, ok)
	assert.Equal(t, domain.QuotationStatusClosed, q.Status)

	referencing := 0
	for _, po := range snap.PurchaseOrders {
		if po.QuotationID == "qt-1" {
			referencing++
		}
	}
	// The seeded po-1 plus exactly one new conversion
	assert.Equal(t, 2, referencing)
}
