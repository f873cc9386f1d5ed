package notify

import (
	"fmt"
	"sync"

	"datamart-service/internal/util"

	"go.uber.org/zap"
)

// Severity classifies a notification for the presentation layer
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a user-facing event. Delivery is purely observational;
// callers never depend on acknowledgement.
type Notification struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Notifier receives user-facing notifications
type Notifier interface {
	Notify(n Notification)
}

// Publisher wraps a Notifier with typed helpers for the events the
// storefront emits
type Publisher struct {
	notifier Notifier
}

// NewPublisher creates a new notification publisher
func NewPublisher(notifier Notifier) *Publisher {
	return &Publisher{notifier: notifier}
}

// PaymentInstruction announces the destination wallet and amount due
func (p *Publisher) PaymentInstruction(wallet string, amount float64) {
	p.notifier.Notify(Notification{
		Title:    "Send Bitcoin Payment",
		Message:  fmt.Sprintf("Send equivalent of $%.2f in BTC to: %s", amount, wallet),
		Severity: SeverityInfo,
	})
}

// PaymentSettled announces a successful settlement and delivery
func (p *Publisher) PaymentSettled() {
	p.notifier.Notify(Notification{
		Title:    "Payment Successful!",
		Message:  "Your databases have been automatically delivered. Download links are now active.",
		Severity: SeveritySuccess,
	})
}

// PaymentFailed announces a settlement failure
func (p *Publisher) PaymentFailed() {
	p.notifier.Notify(Notification{
		Title:    "Payment Failed",
		Message:  "There was an issue processing your Bitcoin payment. Please try again.",
		Severity: SeverityError,
	})
}

// CheckoutRejected announces a benign rejection (empty cart, double initiation)
func (p *Publisher) CheckoutRejected(reason string) {
	p.notifier.Notify(Notification{
		Title:    "Checkout Unavailable",
		Message:  reason,
		Severity: SeverityInfo,
	})
}

// UploadSucceeded announces a completed catalog upload
func (p *Publisher) UploadSucceeded(count int) {
	p.notifier.Notify(Notification{
		Title:    "Upload successful",
		Message:  fmt.Sprintf("Added %d products to the database", count),
		Severity: SeveritySuccess,
	})
}

// UploadFailed announces a failed upload or decode
func (p *Publisher) UploadFailed(err error) {
	p.notifier.Notify(Notification{
		Title:    "Upload failed",
		Message:  err.Error(),
		Severity: SeverityError,
	})
}

// LogNotifier writes notifications to the structured log
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a zap-backed notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: util.NamedLogger("notify")}
}

// Notify implements Notifier
func (n *LogNotifier) Notify(event Notification) {
	switch event.Severity {
	case SeverityError:
		n.logger.Warn(event.Title, zap.String("message", event.Message))
	default:
		n.logger.Info(event.Title,
			zap.String("message", event.Message),
			zap.String("severity", string(event.Severity)))
	}
}

// Recorder captures notifications for inspection in tests. Safe for use
// across the deferred settlement callbacks, which fire on timer goroutines.
type Recorder struct {
	mu     sync.Mutex
	events []Notification
}

// Notify implements Notifier
func (r *Recorder) Notify(event Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of all recorded notifications in order
func (r *Recorder) Events() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.events))
	copy(out, r.events)
	return out
}

// Titles returns the titles of all recorded notifications in order
func (r *Recorder) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	titles := make([]string, 0, len(r.events))
	for _, e := range r.events {
		titles = append(titles, e.Title)
	}
	return titles
}
