package domain

// LoginRequest carries staff credentials. Credentials are compared in
// plaintext against the in-memory user set; there is no hashing layer.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PortalLoginRequest identifies a supplier for self-service price submission
type PortalLoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// LoginResponse returns the issued bearer token and the authenticated user
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// PortalLoginResponse returns the issued portal token and the supplier it identifies
type PortalLoginResponse struct {
	Token    string   `json:"token"`
	Supplier Supplier `json:"supplier"`
}

// CreateUserRequest creates a staff user
type CreateUserRequest struct {
	Name         string        `json:"name" validate:"required,max=200"`
	Email        string        `json:"email" validate:"required,email"`
	Password     string        `json:"password" validate:"required"`
	RoleID       string        `json:"roleId" validate:"required"`
	SectorID     string        `json:"sectorId" validate:"required"`
	Capabilities CapabilitySet `json:"capabilities"`
}

// UpdateUserRequest edits a staff user; password is kept when empty
type UpdateUserRequest struct {
	Name         string        `json:"name" validate:"required,max=200"`
	Email        string        `json:"email" validate:"required,email"`
	Password     string        `json:"password"`
	RoleID       string        `json:"roleId" validate:"required"`
	SectorID     string        `json:"sectorId" validate:"required"`
	Capabilities CapabilitySet `json:"capabilities"`
}

// SupplierRequest creates or edits a supplier
type SupplierRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	ContactPerson string `json:"contactPerson" validate:"required,max=200"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,max=50"`
}

// NameRequest creates or renames a simple reference entity (sector, role)
type NameRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// QuotationItemRequest is one requested line item
type QuotationItemRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
}

// CreateQuotationRequest opens a new quotation in draft
type CreateQuotationRequest struct {
	Title       string                 `json:"title" validate:"required,max=200"`
	SectorID    string                 `json:"sectorId" validate:"required"`
	Items       []QuotationItemRequest `json:"items" validate:"required,min=1,dive"`
	SupplierIDs []string               `json:"supplierIds" validate:"required,min=1"`
}

// UpdateQuotationRequest edits a quotation that is not yet closed
type UpdateQuotationRequest struct {
	Title       string                 `json:"title" validate:"required,max=200"`
	SectorID    string                 `json:"sectorId" validate:"required"`
	Items       []QuotationItemRequest `json:"items" validate:"required,min=1,dive"`
	SupplierIDs []string               `json:"supplierIds" validate:"required,min=1"`
}

// SubmitPricesRequest replaces a supplier's whole price map
type SubmitPricesRequest struct {
	SupplierID string             `json:"supplierId"`
	Prices     map[string]float64 `json:"prices" validate:"required,min=1"`
}

// ManualPriceRequest sets a single item price on a supplier's behalf
type ManualPriceRequest struct {
	ItemName string  `json:"itemName" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
}

// CreateOrderRequest converts a quotation into a purchase order for one supplier
type CreateOrderRequest struct {
	SupplierID string `json:"supplierId" validate:"required"`
}

// OrderStatusRequest overwrites a purchase order status
type OrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required"`
}

// DeliveryRequest records the delivery outcome of a purchase order
type DeliveryRequest struct {
	Confirmed   *bool  `json:"confirmed" validate:"required"`
	Observation string `json:"observation" validate:"max=2000"`
}

// EvaluationRequest records a supplier rating for a purchase order
type EvaluationRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// SettingsRequest replaces the company notification identity
type SettingsRequest struct {
	CompanyName  string `json:"companyName" validate:"required,max=200"`
	CompanyEmail string `json:"companyEmail" validate:"required,email"`
}

// DashboardMetrics aggregates headline numbers for the dashboard
type DashboardMetrics struct {
	TotalSpend        float64       `json:"totalSpend"`
	OpenOrders        int           `json:"openOrders"`
	PendingQuotations int           `json:"pendingQuotations"`
	SpendBySector     []SectorSpend `json:"spendBySector"`
}

// SectorSpend is historical spend attributed to one sector
type SectorSpend struct {
	SectorID   string  `json:"sectorId"`
	SectorName string  `json:"sectorName"`
	Spend      float64 `json:"spend"`
}

// CashFlowEntry is one outflow row in the cash-flow ledger
type CashFlowEntry struct {
	Order        PurchaseOrder `json:"order"`
	SupplierName string        `json:"supplierName"`
	RunningTotal float64       `json:"runningTotal"`
}

// BestPrice is the lowest positive submitted price for one item
type BestPrice struct {
	ItemName     string  `json:"itemName"`
	SupplierID   string  `json:"supplierId"`
	SupplierName string  `json:"supplierName"`
	Price        float64 `json:"price"`
}
