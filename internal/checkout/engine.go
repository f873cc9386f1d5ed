package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"datamart-service/internal/cart"
	"datamart-service/internal/models"
	"datamart-service/internal/notify"
	"datamart-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Phase is the checkout lifecycle phase
type Phase string

const (
	PhaseIdle               Phase = "IDLE"
	PhaseAwaitingSettlement Phase = "AWAITING_SETTLEMENT"
	PhaseDelivered          Phase = "DELIVERED"
	PhaseClearing           Phase = "CLEARING"
)

var (
	// ErrEmptyCart rejects payment initiation on an empty cart
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPaymentInFlight rejects a second initiation while one is pending
	ErrPaymentInFlight = errors.New("a payment is already in progress")
)

// Config holds the payment policy for the engine
type Config struct {
	WalletAddress   string
	SettlementDelay time.Duration
	AutoClearDelay  time.Duration
	SuccessRate     float64
}

// Engine drives a cart through quote, payment-in-flight, delivery and the
// delayed cart sweep. The quote is frozen at initiation: cart edits made
// while a settlement is pending never change the amount due. Deferred
// callbacks carry the session token they were scheduled under and are
// no-ops once the session moves on.
type Engine struct {
	cart      *cart.Cart
	publisher *notify.Publisher
	logger    *zap.Logger

	wallet      string
	settleDelay time.Duration
	clearDelay  time.Duration
	settleFn    func() error

	mu          sync.Mutex
	phase       Phase
	targetTotal float64
	settled     map[string]struct{}
	session     uint64
	timer       *time.Timer
	initiatedAt time.Time
	closed      bool
}

// NewEngine creates a checkout engine over the given cart
func NewEngine(c *cart.Cart, publisher *notify.Publisher, cfg Config) *Engine {
	e := &Engine{
		cart:        c,
		publisher:   publisher,
		logger:      util.NamedLogger("checkout"),
		wallet:      cfg.WalletAddress,
		settleDelay: cfg.SettlementDelay,
		clearDelay:  cfg.AutoClearDelay,
		phase:       PhaseIdle,
	}
	e.settleFn = func() error {
		if rand.Float64() < cfg.SuccessRate {
			return nil
		}
		return errors.New("bitcoin payment could not be confirmed")
	}
	return e
}

// ComputeTotal sums price x quantity over all lines. It is a derived value,
// recomputed whenever lines change; only a checkout session freezes it.
func ComputeTotal(lines []models.CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.LineTotal()
	}
	return total
}

// InitiatePayment freezes the quote for the current cart and schedules the
// simulated settlement. Only the Idle phase accepts an initiation; an empty
// cart and a second initiation are rejected as no-ops.
func (e *Engine) InitiatePayment(ctx context.Context) error {
	_, span := util.StartSpan(ctx, "Engine.InitiatePayment")
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return errors.New("checkout engine is shut down")
	}

	if e.phase != PhaseIdle {
		util.CheckoutRejectedTotal.WithLabelValues("in_flight").Inc()
		e.publisher.CheckoutRejected("A payment is already in progress.")
		return ErrPaymentInFlight
	}

	lines := e.cart.Lines()
	if len(lines) == 0 {
		util.CheckoutRejectedTotal.WithLabelValues("empty_cart").Inc()
		e.publisher.CheckoutRejected("Your cart is empty.")
		return ErrEmptyCart
	}

	e.targetTotal = ComputeTotal(lines)
	e.phase = PhaseAwaitingSettlement
	e.initiatedAt = time.Now()
	e.session++
	token := e.session

	util.PaymentsInitiatedTotal.Inc()
	e.logger.Info("Payment initiated",
		zap.Float64("target_total", e.targetTotal),
		zap.Int("lines", len(lines)))
	e.publisher.PaymentInstruction(e.wallet, e.targetTotal)

	e.timer = time.AfterFunc(e.settleDelay, func() {
		e.settle(token)
	})
	return nil
}

// settle applies the simulated settlement outcome. A stale token, a phase
// change or engine shutdown makes it a no-op.
func (e *Engine) settle(token uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || token != e.session || e.phase != PhaseAwaitingSettlement {
		return
	}

	util.SettlementLatency.Observe(time.Since(e.initiatedAt).Seconds())

	if err := e.settleFn(); err != nil {
		// Revert to a clean slate: the cart itself is untouched, so the
		// user can retry from Idle.
		e.phase = PhaseIdle
		e.targetTotal = 0
		e.settled = nil

		util.PaymentsFailedTotal.Inc()
		e.logger.Warn("Settlement failed", zap.Error(err))
		e.publisher.PaymentFailed()
		return
	}

	reference := fmt.Sprintf("TXN-%s", uuid.New().String()[:8])

	e.settled = make(map[string]struct{})
	for _, line := range e.cart.Lines() {
		e.settled[line.ID] = struct{}{}
	}
	e.phase = PhaseDelivered

	util.PaymentsSettledTotal.Inc()
	e.logger.Info("Settlement confirmed",
		zap.String("reference", reference),
		zap.Float64("target_total", e.targetTotal),
		zap.Int("delivered", len(e.settled)))
	e.publisher.PaymentSettled()

	e.timer = time.AfterFunc(e.clearDelay, func() {
		e.autoClear(token)
	})
}

// autoClear sweeps the delivered lines out of the cart. It removes exactly
// the ids captured at settlement: cart edits after delivery cannot widen or
// narrow the sweep.
func (e *Engine) autoClear(token uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || token != e.session || e.phase != PhaseDelivered {
		return
	}

	e.phase = PhaseClearing
	removed := e.cart.Sweep(e.settled)

	e.phase = PhaseIdle
	e.targetTotal = 0
	e.settled = nil

	util.CartClearsTotal.Inc()
	e.logger.Info("Delivered lines cleared", zap.Int("removed", removed))
}

// Phase returns the current lifecycle phase
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// TargetTotal returns the amount frozen at initiation, or 0 outside a session
func (e *Engine) TargetTotal() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.targetTotal
}

// SettledIDs returns the entry ids delivered in the current session
func (e *Engine) SettledIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(e.settled))
	for id := range e.settled {
		ids = append(ids, id)
	}
	return ids
}

// IsDelivered reports whether the entry was delivered in the current session
func (e *Engine) IsDelivered(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, ok := e.settled[id]
	return ok && e.phase == PhaseDelivered
}

// Close cancels any pending deferred callback. Callbacks that already fired
// but have not acquired the lock see the closed flag and do nothing.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true
	if e.timer != nil {
		e.timer.Stop()
	}
}
