package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/good-yellow-bee/alertrelay/internal/metrics"
	"github.com/good-yellow-bee/alertrelay/internal/models"
)

// HistoryStore persists alert lifecycle transitions.
type HistoryStore interface {
	Insert(ctx context.Context, h *models.AlertHistory) error
	UpdateLevel(ctx context.Context, nimid string, level int) error
	MarkClosed(ctx context.Context, nimid string) error
}

// MessageLogStore appends immutable audit records.
type MessageLogStore interface {
	Create(ctx context.Context, entry *models.MessageLogEntry) error
}

// Transport sends resolved recipient batches. Implemented by
// notifier.Dispatcher.
type Transport interface {
	SendSMS(ctx context.Context, body string, phones []string) error
	SendEmail(ctx context.Context, to []string, subject, body string) error
}

// Pipeline drives one alert end to end: maintenance suppression, recipient
// resolution, dispatch, audit logging and the lifecycle commit. All work is
// sequential; a dispatch failure is logged and isolated, it never rolls back
// or skips the lifecycle commit.
type Pipeline struct {
	resolver  *Resolver
	history   HistoryStore
	logs      MessageLogStore
	transport Transport

	// now is swappable for tests.
	now func() time.Time
}

// NewPipeline creates a pipeline over the given collaborators.
func NewPipeline(resolver *Resolver, history HistoryStore, logs MessageLogStore, transport Transport) *Pipeline {
	return &Pipeline{
		resolver:  resolver,
		history:   history,
		logs:      logs,
		transport: transport,
		now:       time.Now,
	}
}

// ProcessBatch processes one lifecycle batch in fetch order. Per-alert errors
// are logged and do not stop the batch; an error is returned only when the
// batch could not be processed at all.
func (p *Pipeline) ProcessBatch(ctx context.Context, kind models.LifecycleType, alerts []models.AlertEvent, windows []models.MaintenanceWindow, groups []models.PolicyGroup) {
	for i := range alerts {
		if err := p.processAlert(ctx, kind, &alerts[i], windows, groups); err != nil {
			log.Printf("process %s alert %s: %v", kind, alerts[i].NimID, err)
		}
		metrics.AlertsProcessedTotal.WithLabelValues(string(kind)).Inc()
	}
}

func (p *Pipeline) processAlert(ctx context.Context, kind models.LifecycleType, alert *models.AlertEvent, windows []models.MaintenanceWindow, groups []models.PolicyGroup) error {
	if Suppressed(alert, windows) {
		return p.suppress(ctx, kind, alert)
	}

	res, err := p.resolver.Resolve(ctx, alert, groups, p.now())
	if err != nil {
		return fmt.Errorf("resolve recipients: %w", err)
	}

	subject := renderSubject(kind, alert)
	smsBody, emailBody := renderBodies(kind, alert)
	logMessage := renderLogMessage(kind, alert)

	if len(res.SMSRecipients) > 0 {
		if err := p.transport.SendSMS(ctx, smsBody, res.SMSRecipients); err != nil {
			metrics.NotificationsTotal.WithLabelValues(models.MethodPhone, "error").Inc()
			log.Printf("send sms for alert %s: %v", alert.NimID, err)
		} else {
			metrics.NotificationsTotal.WithLabelValues(models.MethodPhone, "ok").Inc()
			metrics.RecipientsTotal.WithLabelValues(models.MethodPhone).Add(float64(len(res.SMSRecipients)))
		}
		if err := p.writeLog(ctx, alert, res.SMSGroups, logMessage, models.MethodPhone, res.SMSRecipients); err != nil {
			log.Printf("write sms message log for alert %s: %v", alert.NimID, err)
		}
	}

	if len(res.EmailRecipients) > 0 {
		if err := p.transport.SendEmail(ctx, res.EmailRecipients, subject, emailBody); err != nil {
			metrics.NotificationsTotal.WithLabelValues(models.MethodEmail, "error").Inc()
			log.Printf("send email for alert %s: %v", alert.NimID, err)
		} else {
			metrics.NotificationsTotal.WithLabelValues(models.MethodEmail, "ok").Inc()
			metrics.RecipientsTotal.WithLabelValues(models.MethodEmail).Add(float64(len(res.EmailRecipients)))
		}
		if err := p.writeLog(ctx, alert, res.EmailGroups, logMessage, models.MethodEmail, res.EmailRecipients); err != nil {
			log.Printf("write email message log for alert %s: %v", alert.NimID, err)
		}
	}

	return p.commitHistory(ctx, kind, alert)
}

// suppress records the lifecycle transition and an audit entry without any
// dispatch. Suppression is observable, not silent.
func (p *Pipeline) suppress(ctx context.Context, kind models.LifecycleType, alert *models.AlertEvent) error {
	log.Printf("alert %s on %s stored and skipped due to active maintenance", alert.NimID, alert.Hostname)
	metrics.AlertsSuppressedTotal.Inc()

	if err := p.writeLog(ctx, alert, []string{models.UnderMaintenanceGroup}, alert.Message, models.MethodNone, []string{}); err != nil {
		log.Printf("write suppression message log for alert %s: %v", alert.NimID, err)
	}
	return p.commitHistory(ctx, kind, alert)
}

// commitHistory applies the lifecycle transition for the alert's nimid.
func (p *Pipeline) commitHistory(ctx context.Context, kind models.LifecycleType, alert *models.AlertEvent) error {
	var err error
	switch kind {
	case models.LifecycleChanged:
		err = p.history.UpdateLevel(ctx, alert.NimID, alert.Level)
	case models.LifecycleClosed:
		err = p.history.MarkClosed(ctx, alert.NimID)
	default:
		err = p.history.Insert(ctx, &models.AlertHistory{
			NimID:     alert.NimID,
			PrevLevel: alert.PrevLevel,
			Level:     alert.Level,
		})
	}
	if err != nil {
		return fmt.Errorf("commit %s history: %w", kind, err)
	}
	return nil
}

func (p *Pipeline) writeLog(ctx context.Context, alert *models.AlertEvent, groups []string, message, method string, addresses []string) error {
	return p.logs.Create(ctx, &models.MessageLogEntry{
		ID:           uuid.New().String(),
		AlertID:      alert.NimID,
		PolicyGroups: groups,
		Date:         models.LogDate(p.now()),
		Hostname:     alert.Hostname,
		Severity:     alert.SeverityLabel(),
		Message:      message,
		Method:       method,
		Addresses:    addresses,
	})
}

// renderSubject builds the email subject line for the lifecycle type.
func renderSubject(kind models.LifecycleType, alert *models.AlertEvent) string {
	switch kind {
	case models.LifecycleChanged:
		return fmt.Sprintf("Alert on: %s Severity: %s Severity Pre: %d.", alert.Hostname, alert.SeverityLabel(), alert.PrevLevel)
	case models.LifecycleClosed:
		return fmt.Sprintf("Clear: Alert on: %s Severity: %s.", alert.Hostname, alert.SeverityLabel())
	default:
		return fmt.Sprintf("Alert on: %s Severity: %s.", alert.Hostname, alert.SeverityLabel())
	}
}

// renderBodies builds the SMS and email bodies for the lifecycle type.
func renderBodies(kind models.LifecycleType, alert *models.AlertEvent) (sms, email string) {
	sms = fmt.Sprintf("Alert on: %s %s", alert.Hostname, alert.Message)
	email = fmt.Sprintf("Alert on: %s \r\n %s", alert.Hostname, alert.Message)
	switch kind {
	case models.LifecycleChanged:
		sms = "Update Alarm: " + sms
		email = "Update Alarm: " + email
	case models.LifecycleClosed:
		sms = "Clear: " + sms
		email = "Clear: " + email
	}
	return sms, email
}

// renderLogMessage builds the message recorded in the audit log.
func renderLogMessage(kind models.LifecycleType, alert *models.AlertEvent) string {
	if kind == models.LifecycleChanged {
		return "Update Alarm: " + alert.Message
	}
	return alert.Message
}
