package store

import (
	"time"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
)

// Capability presets matching the three shipped roles
var (
	adminCapabilities = domain.CapabilitySet{
		domain.CapManageUsers,
		domain.CapManageSuppliers,
		domain.CapManageSectors,
		domain.CapManageRoles,
		domain.CapCreateQuotations,
		domain.CapEditQuotations,
		domain.CapDeleteQuotations,
		domain.CapCreateOrders,
		domain.CapApproveOrders,
		domain.CapCancelOrders,
		domain.CapConfirmDelivery,
		domain.CapEvaluateSupplier,
	}

	managerCapabilities = domain.CapabilitySet{
		domain.CapManageSuppliers,
		domain.CapCreateQuotations,
		domain.CapEditQuotations,
		domain.CapCreateOrders,
		domain.CapApproveOrders,
		domain.CapCancelOrders,
		domain.CapConfirmDelivery,
		domain.CapEvaluateSupplier,
	}

	staffCapabilities = domain.CapabilitySet{
		domain.CapCreateQuotations,
		domain.CapConfirmDelivery,
		domain.CapEvaluateSupplier,
	}
)

// Seed builds the bootstrap dataset: users, roles, sectors, suppliers, one
// completed sample quotation and one delivered sample order. Timestamps are
// anchored to now so the dashboard has recent-looking data.
func Seed(now time.Time) domain.Snapshot {
	tenDaysAgo := now.AddDate(0, 0, -10)
	nineDaysAgo := now.AddDate(0, 0, -9)
	eightDaysAgo := now.AddDate(0, 0, -8)

	return domain.Snapshot{
		Sectors: []domain.Sector{
			{ID: "sec-1", Name: "Cardiology"},
			{ID: "sec-2", Name: "Orthopedics"},
			{ID: "sec-3", Name: "Pharmacy"},
			{ID: "sec-4", Name: "General"},
			{ID: "sec-5", Name: "Administration"},
		},
		Roles: []domain.Role{
			{ID: "role-1", Name: "Administrator"},
			{ID: "role-2", Name: "Manager"},
			{ID: "role-3", Name: "Staff"},
		},
		Users: []domain.User{
			{
				ID: "user-1", Name: "Dr. Alice Hart", Email: "alice@clinic.com",
				Password: "123", RoleID: "role-1", SectorID: "sec-5",
				Capabilities: adminCapabilities.Clone(),
			},
			{
				ID: "user-2", Name: "Ben Mercer", Email: "ben@clinic.com",
				Password: "123", RoleID: "role-2", SectorID: "sec-3",
				Capabilities: managerCapabilities.Clone(),
			},
			{
				ID: "user-3", Name: "Carla Reyes", Email: "carla@clinic.com",
				Password: "123", RoleID: "role-3", SectorID: "sec-1",
				Capabilities: staffCapabilities.Clone(),
			},
			{
				ID: "user-4", Name: "Diana Fields", Email: "diana@clinic.com",
				Password: "123", RoleID: "role-3", SectorID: "sec-2",
				Capabilities: staffCapabilities.Clone(),
			},
		},
		Suppliers: []domain.Supplier{
			{ID: "sup-1", Name: "MedSupplies Co.", ContactPerson: "John Silva", Email: "john.silva@medsupplies.com", Phone: "555-1234"},
			{ID: "sup-2", Name: "Pharma Solutions", ContactPerson: "Joan Rivers", Email: "joan.rivers@pharmasol.com", Phone: "555-5678"},
			{ID: "sup-3", Name: "Equipment World", ContactPerson: "Peter Soares", Email: "peter.soares@equipworld.com", Phone: "555-9012"},
		},
		Quotations: []domain.Quotation{
			{
				ID:        "qt-1",
				Title:     "Q1 Supply Request",
				CreatedBy: "user-2",
				SectorID:  "sec-3",
				Status:    domain.QuotationStatusCompleted,
				CreatedAt: tenDaysAgo,
				Items: []domain.QuotationItem{
					{Name: "Ibuprofen 200mg (Bottle)", Quantity: 10},
					{Name: "Saline Solution 500ml", Quantity: 20},
				},
				Suppliers: []domain.SupplierQuote{
					{
						SupplierID: "sup-1",
						Prices: map[string]float64{
							"Ibuprofen 200mg (Bottle)": 15.50,
							"Saline Solution 500ml":    8.00,
						},
						Submitted:      true,
						SubmissionType: domain.SubmissionPortal,
						SubmittedBy:    "sup-1",
					},
					{
						SupplierID: "sup-2",
						Prices: map[string]float64{
							"Ibuprofen 200mg (Bottle)": 14.99,
							"Saline Solution 500ml":    8.25,
						},
						Submitted:      true,
						SubmissionType: domain.SubmissionPortal,
						SubmittedBy:    "sup-2",
					},
				},
				History: []domain.HistoryEntry{
					{Timestamp: tenDaysAgo, ActorID: "user-2", Action: "Quotation created."},
					{Timestamp: nineDaysAgo, ActorID: "sup-1", Action: "Supplier MedSupplies Co. submitted prices."},
					{Timestamp: nineDaysAgo, ActorID: "sup-2", Action: "Supplier Pharma Solutions submitted prices."},
				},
			},
		},
		PurchaseOrders: []domain.PurchaseOrder{
			{
				ID:          "po-1",
				QuotationID: "qt-1",
				SupplierID:  "sup-2",
				SectorID:    "sec-3",
				Items: []domain.OrderItem{
					{ProductName: "Ibuprofen 200mg (Bottle)", Quantity: 10, Price: 14.99},
					{ProductName: "Saline Solution 500ml", Quantity: 20, Price: 8.25},
				},
				Total:     10*14.99 + 20*8.25,
				Status:    domain.OrderStatusDelivered,
				CreatedAt: nineDaysAgo,
				Delivery: &domain.DeliveryRecord{
					Confirmed:   true,
					Observation: "Received as ordered.",
					Date:        eightDaysAgo,
				},
				Evaluation: &domain.Evaluation{
					Rating:  5,
					Comment: "Fast delivery and good product quality.",
				},
			},
		},
		Settings: domain.Settings{
			CompanyName:  "ClinicSupply HQ",
			CompanyEmail: "purchasing@clinic.com",
		},
	}
}
