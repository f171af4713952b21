// Package notify simulates the outbound mail the procurement flow triggers.
// Nothing leaves the process; every message is written to the structured log
// so the flow can be observed and asserted on without an SMTP dependency.
package notify

import (
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"go.uber.org/zap"
)

// Mailer sends procurement notifications to suppliers
type Mailer interface {
	// SendQuotationInvite notifies an invited supplier that a quotation is
	// open for price submission, including their portal token
	SendQuotationInvite(settings domain.Settings, supplier domain.Supplier, quotation domain.Quotation, portalToken string)

	// SendPendingReminder nudges a supplier that has not yet submitted
	// prices for a pending quotation
	SendPendingReminder(settings domain.Settings, supplier domain.Supplier, quotation domain.Quotation)
}

// LogMailer is the in-process mailer; it records each message as a log entry
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a log-backed mailer
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendQuotationInvite(settings domain.Settings, supplier domain.Supplier, quotation domain.Quotation, portalToken string) {
	m.logger.Info("mail: quotation invite",
		zap.String("from_name", settings.CompanyName),
		zap.String("from_email", settings.CompanyEmail),
		zap.String("to_name", supplier.Name),
		zap.String("to_email", supplier.Email),
		zap.String("quotation_id", quotation.ID),
		zap.String("quotation_title", quotation.Title),
		zap.Int("item_count", len(quotation.Items)),
		zap.String("portal_token", portalToken),
	)
}

func (m *LogMailer) SendPendingReminder(settings domain.Settings, supplier domain.Supplier, quotation domain.Quotation) {
	m.logger.Info("mail: pending quotation reminder",
		zap.String("from_name", settings.CompanyName),
		zap.String("from_email", settings.CompanyEmail),
		zap.String("to_name", supplier.Name),
		zap.String("to_email", supplier.Email),
		zap.String("quotation_id", quotation.ID),
		zap.String("quotation_title", quotation.Title),
	)
}
