package jobs

import (
	"time"

	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/domain"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/notify"
	"github.com/clinicaaldeia-suprimentos/procurement-api/internal/store"
	"go.uber.org/zap"
)

// ReminderJobName is the name of the pending quotation reminder job
const ReminderJobName = "pending_quotation_reminder"

// ReminderJob reminds suppliers that have not submitted prices for pending
// quotations older than the configured age.
type ReminderJob struct {
	store  *store.Store
	mailer notify.Mailer
	logger *zap.Logger
	maxAge time.Duration
	now    func() time.Time
}

// NewReminderJob creates a new reminder job. maxAge is the minimum age a
// pending quotation must reach before its suppliers are reminded.
func NewReminderJob(st *store.Store, mailer notify.Mailer, logger *zap.Logger, maxAge time.Duration) *ReminderJob {
	return &ReminderJob{
		store:  st,
		mailer: mailer,
		logger: logger,
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Run executes the reminder job. This is called by the scheduler according to
// the cron expression.
func (j *ReminderJob) Run() {
	start := j.now()
	snap := j.store.Snapshot()
	cutoff := start.Add(-j.maxAge)

	reminded := 0
	for _, q := range snap.Quotations {
		if q.Status != domain.QuotationStatusPending {
			continue
		}
		if q.CreatedAt.After(cutoff) {
			continue
		}
		for _, sq := range q.Suppliers {
			if sq.Submitted {
				continue
			}
			supplier, ok := snap.SupplierByID(sq.SupplierID)
			if !ok {
				j.logger.Warn("skipping reminder for unknown supplier",
					zap.String("quotation_id", q.ID),
					zap.String("supplier_id", sq.SupplierID))
				continue
			}
			j.mailer.SendPendingReminder(snap.Settings, supplier, q)
			reminded++
		}
	}

	j.logger.Info("pending quotation reminder job completed",
		zap.Int("reminders_sent", reminded),
		zap.Duration("duration", time.Since(start)))
}
