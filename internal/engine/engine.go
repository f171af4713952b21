// Package engine implements the quotation and purchase-order workflow as a
// pure state transition function over whole snapshots. Commands never mutate
// the input snapshot; Apply derives the next snapshot from the previous one
// and refuses invalid transitions with typed errors, leaving the snapshot
// unchanged.
package engine

import (
	"errors"
	"time"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/google/uuid"
)

// ErrUserNotFound is returned when a referenced user does not exist
var ErrUserNotFound = errors.New("user not found")

// ErrSupplierNotFound is returned when a referenced supplier does not exist
var ErrSupplierNotFound = errors.New("supplier not found")

// ErrSectorNotFound is returned when a referenced sector does not exist
var ErrSectorNotFound = errors.New("sector not found")

// ErrRoleNotFound is returned when a referenced role does not exist
var ErrRoleNotFound = errors.New("role not found")

// ErrQuotationNotFound is returned when a referenced quotation does not exist
var ErrQuotationNotFound = errors.New("quotation not found")

// ErrOrderNotFound is returned when a referenced purchase order does not exist
var ErrOrderNotFound = errors.New("purchase order not found")

// ErrQuotationReferenced is returned when deleting a quotation that a
// purchase order still references
var ErrQuotationReferenced = errors.New("quotation is referenced by a purchase order")

// ErrSupplierNotInvited is returned when submitting prices for a supplier
// that was not invited to the quotation
var ErrSupplierNotInvited = errors.New("supplier was not invited to this quotation")

// ErrQuotationNotCompleted is returned when creating a purchase order from a
// quotation that is not in the completed status
var ErrQuotationNotCompleted = errors.New("quotation is not completed")

// ErrEmptyTitle is returned when creating a quotation without a title
var ErrEmptyTitle = errors.New("quotation title must not be empty")

// ErrNoItems is returned when creating a quotation without line items
var ErrNoItems = errors.New("quotation must have at least one item")

// ErrNoSuppliers is returned when creating a quotation without invited suppliers
var ErrNoSuppliers = errors.New("quotation must invite at least one supplier")

// ErrInvalidStatus is returned for an unknown status value
var ErrInvalidStatus = errors.New("invalid status")

// ErrInvalidSubmission is returned for an unknown submission type
var ErrInvalidSubmission = errors.New("invalid submission type")

// ErrInvalidRating is returned when an evaluation rating is outside 1-5
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Command marks a state transition request accepted by Apply
type Command interface {
	isCommand()
}

type command struct{}

func (command) isCommand() {}

// NewID returns a fresh unique identifier with the given entity prefix.
// Uniqueness is the only contract.
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Engine applies commands to snapshots. The clock is injectable so that
// transitions stay deterministic under test.
type Engine struct {
	now func() time.Time
}

// New creates an engine using the wall clock
func New() *Engine {
	return NewWithClock(time.Now)
}

// NewWithClock creates an engine with an explicit clock
func NewWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Apply derives the next snapshot from the current one and a command. It is
// total: unknown command values return the input snapshot unchanged with no
// error. Refused commands return the input snapshot unchanged together with a
// typed error the caller can surface.
func (e *Engine) Apply(s domain.Snapshot, cmd Command) (domain.Snapshot, error) {
	switch c := cmd.(type) {
	case SetCurrentUser:
		return e.applySetCurrentUser(s, c)
	case AddUser:
		return e.applyAddUser(s, c)
	case UpdateUser:
		return e.applyUpdateUser(s, c)
	case AddSupplier:
		return e.applyAddSupplier(s, c)
	case UpdateSupplier:
		return e.applyUpdateSupplier(s, c)
	case AddSector:
		return e.applyAddSector(s, c)
	case UpdateSector:
		return e.applyUpdateSector(s, c)
	case DeleteSector:
		return e.applyDeleteSector(s, c)
	case AddRole:
		return e.applyAddRole(s, c)
	case UpdateRole:
		return e.applyUpdateRole(s, c)
	case DeleteRole:
		return e.applyDeleteRole(s, c)
	case UpdateSettings:
		return e.applyUpdateSettings(s, c)
	case CreateQuotation:
		return e.applyCreateQuotation(s, c)
	case UpdateQuotation:
		return e.applyUpdateQuotation(s, c)
	case DeleteQuotation:
		return e.applyDeleteQuotation(s, c)
	case AdvanceQuotationStatus:
		return e.applyAdvanceQuotationStatus(s, c)
	case SubmitSupplierPrices:
		return e.applySubmitSupplierPrices(s, c)
	case SetSupplierPrice:
		return e.applySetSupplierPrice(s, c)
	case CreatePurchaseOrder:
		return e.applyCreatePurchaseOrder(s, c)
	case UpdatePurchaseOrderStatus:
		return e.applyUpdatePurchaseOrderStatus(s, c)
	case RecordDelivery:
		return e.applyRecordDelivery(s, c)
	case RecordEvaluation:
		return e.applyRecordEvaluation(s, c)
	default:
		return s, nil
	}
}
