package domain

import (
	"time"
)

// QuotationStatus represents the lifecycle state of a quotation
type QuotationStatus string

const (
	QuotationStatusDraft     QuotationStatus = "draft"
	QuotationStatusPending   QuotationStatus = "pending"
	QuotationStatusCompleted QuotationStatus = "completed"
	QuotationStatusClosed    QuotationStatus = "closed"
)

// IsValid checks if the QuotationStatus is a valid enum value
func (qs QuotationStatus) IsValid() bool {
	switch qs {
	case QuotationStatusDraft, QuotationStatusPending, QuotationStatusCompleted, QuotationStatusClosed:
		return true
	}
	return false
}

// OrderStatus represents the lifecycle state of a purchase order
type OrderStatus string

const (
	OrderStatusPendingApproval OrderStatus = "pending_approval"
	OrderStatusApproved        OrderStatus = "approved"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusRejected        OrderStatus = "rejected"
	OrderStatusCanceled        OrderStatus = "canceled"
)

// IsValid checks if the OrderStatus is a valid enum value
func (os OrderStatus) IsValid() bool {
	switch os {
	case OrderStatusPendingApproval, OrderStatusApproved, OrderStatusDelivered, OrderStatusRejected, OrderStatusCanceled:
		return true
	}
	return false
}

// IsTerminal reports whether no further status transitions are expected.
// Delivered orders may still receive an evaluation after the fact.
func (os OrderStatus) IsTerminal() bool {
	switch os {
	case OrderStatusDelivered, OrderStatusRejected, OrderStatusCanceled:
		return true
	}
	return false
}

// SubmissionType records how a supplier quote was submitted
type SubmissionType string

const (
	// SubmissionPortal means the supplier entered prices through the self-service portal
	SubmissionPortal SubmissionType = "portal"
	// SubmissionManual means a staff user entered prices on the supplier's behalf
	SubmissionManual SubmissionType = "manual"
)

// IsValid checks if the SubmissionType is a valid enum value
func (st SubmissionType) IsValid() bool {
	return st == SubmissionPortal || st == SubmissionManual
}

// Capability represents a named permission a user can hold
type Capability string

const (
	CapManageUsers      Capability = "users:manage"
	CapManageSuppliers  Capability = "suppliers:manage"
	CapManageSectors    Capability = "sectors:manage"
	CapManageRoles      Capability = "roles:manage"
	CapCreateQuotations Capability = "quotations:create"
	CapEditQuotations   Capability = "quotations:edit"
	CapDeleteQuotations Capability = "quotations:delete"
	CapCreateOrders     Capability = "orders:create"
	CapApproveOrders    Capability = "orders:approve"
	CapCancelOrders     Capability = "orders:cancel"
	CapConfirmDelivery  Capability = "deliveries:confirm"
	CapEvaluateSupplier Capability = "suppliers:evaluate"
)

// CapabilitySet holds the capabilities granted to a user
type CapabilitySet []Capability

// Has checks whether the set contains the given capability
func (cs CapabilitySet) Has(c Capability) bool {
	for _, have := range cs {
		if have == c {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the set
func (cs CapabilitySet) Clone() CapabilitySet {
	if cs == nil {
		return nil
	}
	out := make(CapabilitySet, len(cs))
	copy(out, cs)
	return out
}

// Role represents a named role assignable to users
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Sector represents an organizational cost center that owns quotations and orders
type Sector struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User represents a staff user of the procurement system.
// Passwords are opaque comparison secrets held in memory; there is no hashing
// layer in this design.
type User struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Password     string        `json:"-"`
	RoleID       string        `json:"roleId"`
	SectorID     string        `json:"sectorId"`
	Capabilities CapabilitySet `json:"capabilities"`
}

// Clone returns an independent copy of the user
func (u User) Clone() User {
	u.Capabilities = u.Capabilities.Clone()
	return u
}

// Supplier represents an external vendor invited to quote
type Supplier struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
}

// QuotationItem is a requested line item within a quotation.
// Item names are unique within a quotation and act as the join key between
// requested items and submitted prices.
type QuotationItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

// SupplierQuote is one invited supplier's response within a quotation
type SupplierQuote struct {
	SupplierID     string             `json:"supplierId"`
	Prices         map[string]float64 `json:"prices"`
	Submitted      bool               `json:"submitted"`
	SubmissionType SubmissionType     `json:"submissionType,omitempty"`
	// SubmittedBy is the supplier id for portal submissions and the staff
	// user id for manual submissions.
	SubmittedBy string `json:"submittedBy,omitempty"`
}

// Clone returns an independent copy of the supplier quote
func (sq SupplierQuote) Clone() SupplierQuote {
	prices := make(map[string]float64, len(sq.Prices))
	for k, v := range sq.Prices {
		prices[k] = v
	}
	sq.Prices = prices
	return sq
}

// HistoryEntry is one append-only audit record on a quotation
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actorId"`
	Action    string    `json:"action"`
}

// Quotation represents a request for quotation sent to one or more suppliers
type Quotation struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	CreatedBy string          `json:"createdBy"`
	SectorID  string          `json:"sectorId"`
	Status    QuotationStatus `json:"status"`
	Items     []QuotationItem `json:"items"`
	Suppliers []SupplierQuote `json:"suppliers"`
	CreatedAt time.Time       `json:"createdAt"`
	History   []HistoryEntry  `json:"history"`
}

// Clone returns a deep copy of the quotation
func (q Quotation) Clone() Quotation {
	items := make([]QuotationItem, len(q.Items))
	copy(items, q.Items)
	q.Items = items

	suppliers := make([]SupplierQuote, len(q.Suppliers))
	for i, sq := range q.Suppliers {
		suppliers[i] = sq.Clone()
	}
	q.Suppliers = suppliers

	history := make([]HistoryEntry, len(q.History))
	copy(history, q.History)
	q.History = history
	return q
}

// Quote returns the supplier quote for the given supplier id, if invited
func (q Quotation) Quote(supplierID string) (SupplierQuote, bool) {
	for _, sq := range q.Suppliers {
		if sq.SupplierID == supplierID {
			return sq, true
		}
	}
	return SupplierQuote{}, false
}

// AllSubmitted reports whether every invited supplier has submitted prices
func (q Quotation) AllSubmitted() bool {
	for _, sq := range q.Suppliers {
		if !sq.Submitted {
			return false
		}
	}
	return true
}

// OrderItem is a purchased line item captured at order creation time,
// independent of later quotation edits
type OrderItem struct {
	ProductName string  `json:"productName"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
}

// DeliveryRecord captures the outcome of a delivery confirmation
type DeliveryRecord struct {
	Confirmed   bool      `json:"confirmed"`
	Observation string    `json:"observation"`
	Date        time.Time `json:"date"`
}

// Evaluation is a 1-5 supplier rating recorded against a purchase order
type Evaluation struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// PurchaseOrder represents a commitment to buy from one supplier, created
// from a completed quotation
type PurchaseOrder struct {
	ID          string          `json:"id"`
	QuotationID string          `json:"quotationId"`
	SupplierID  string          `json:"supplierId"`
	SectorID    string          `json:"sectorId"`
	Items       []OrderItem     `json:"items"`
	Total       float64         `json:"total"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	Delivery    *DeliveryRecord `json:"delivery,omitempty"`
	Evaluation  *Evaluation     `json:"evaluation,omitempty"`
}

// Clone returns a deep copy of the purchase order
func (po PurchaseOrder) Clone() PurchaseOrder {
	items := make([]OrderItem, len(po.Items))
	copy(items, po.Items)
	po.Items = items

	if po.Delivery != nil {
		d := *po.Delivery
		po.Delivery = &d
	}
	if po.Evaluation != nil {
		e := *po.Evaluation
		po.Evaluation = &e
	}
	return po
}

// Settings holds the company identity used for outbound notification simulation
type Settings struct {
	CompanyName  string `json:"companyName"`
	CompanyEmail string `json:"companyEmail"`
}

// Snapshot is the whole application state at a point in time. Commands never
// mutate a snapshot in place; the engine derives the next snapshot from the
// previous one.
type Snapshot struct {
	Users          []User          `json:"users"`
	Suppliers      []Supplier      `json:"suppliers"`
	Sectors        []Sector        `json:"sectors"`
	Roles          []Role          `json:"roles"`
	Quotations     []Quotation     `json:"quotations"`
	PurchaseOrders []PurchaseOrder `json:"purchaseOrders"`
	CurrentUser    *User           `json:"currentUser,omitempty"`
	Settings       Settings        `json:"settings"`
}

// Clone returns a deep copy of the snapshot
func (s Snapshot) Clone() Snapshot {
	users := make([]User, len(s.Users))
	for i, u := range s.Users {
		users[i] = u.Clone()
	}
	s.Users = users

	suppliers := make([]Supplier, len(s.Suppliers))
	copy(suppliers, s.Suppliers)
	s.Suppliers = suppliers

	sectors := make([]Sector, len(s.Sectors))
	copy(sectors, s.Sectors)
	s.Sectors = sectors

	roles := make([]Role, len(s.Roles))
	copy(roles, s.Roles)
	s.Roles = roles

	quotations := make([]Quotation, len(s.Quotations))
	for i, q := range s.Quotations {
		quotations[i] = q.Clone()
	}
	s.Quotations = quotations

	orders := make([]PurchaseOrder, len(s.PurchaseOrders))
	for i, po := range s.PurchaseOrders {
		orders[i] = po.Clone()
	}
	s.PurchaseOrders = orders

	if s.CurrentUser != nil {
		u := s.CurrentUser.Clone()
		s.CurrentUser = &u
	}
	return s
}

// UserByID returns the user with the given id
func (s Snapshot) UserByID(id string) (User, bool) {
	for _, u := range s.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// UserByEmail returns the user with the given email
func (s Snapshot) UserByEmail(email string) (User, bool) {
	for _, u := range s.Users {
		if u.Email == email {
			return u, true
		}
	}
	return User{}, false
}

// SupplierByID returns the supplier with the given id
func (s Snapshot) SupplierByID(id string) (Supplier, bool) {
	for _, sup := range s.Suppliers {
		if sup.ID == id {
			return sup, true
		}
	}
	return Supplier{}, false
}

// SupplierByEmail returns the supplier with the given contact email
func (s Snapshot) SupplierByEmail(email string) (Supplier, bool) {
	for _, sup := range s.Suppliers {
		if sup.Email == email {
			return sup, true
		}
	}
	return Supplier{}, false
}

// QuotationByID returns the quotation with the given id
func (s Snapshot) QuotationByID(id string) (Quotation, bool) {
	for _, q := range s.Quotations {
		if q.ID == id {
			return q, true
		}
	}
	return Quotation{}, false
}

// OrderByID returns the purchase order with the given id
func (s Snapshot) OrderByID(id string) (PurchaseOrder, bool) {
	for _, po := range s.PurchaseOrders {
		if po.ID == id {
			return po, true
		}
	}
	return PurchaseOrder{}, false
}

// SectorByID returns the sector with the given id
func (s Snapshot) SectorByID(id string) (Sector, bool) {
	for _, sec := range s.Sectors {
		if sec.ID == id {
			return sec, true
		}
	}
	return Sector{}, false
}
