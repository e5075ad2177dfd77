package session

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokertrainer/internal/domain"
	"golang.org/x/sync/singleflight"
)

// Engine is the slice of the remote engine client the controller depends on
type Engine interface {
	CreateSession(ctx context.Context) (*domain.EngineUpdate, error)
	SubmitAction(ctx context.Context, sessionID string, kind domain.ActionKind, amount *int) (*domain.EngineUpdate, error)
	AdvanceHand(ctx context.Context, sessionID string) (*domain.EngineUpdate, error)
	QueryStatus(ctx context.Context, sessionID string) (*domain.EngineUpdate, error)
	EndSession(ctx context.Context, sessionID string) error
}

// HandRecorder receives each settled hand exactly once, after the update
// that completed it has been applied.
type HandRecorder interface {
	RecordHand(snapshot *domain.HandSnapshot)
}

// Controller serializes user intents against the remote engine and performs
// the atomic replacement of the (snapshot, legal actions, advice) triple.
// At most one mutating request is in flight at any time: an intent arriving
// while busy is dropped at the boundary, never queued.
type Controller struct {
	mu     sync.Mutex
	view   View
	engine Engine
	logger *log.Logger
	clock  quartz.Clock

	resync   singleflight.Group
	recorder HandRecorder

	// hand number of the last snapshot handed to the recorder
	recorded int
}

// Option configures a Controller
type Option func(*Controller)

// WithClock overrides the wall clock, used by tests
func WithClock(clock quartz.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithRecorder attaches a hand recorder that is handed each settled hand
func WithRecorder(r HandRecorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// NewController creates a session controller around the given engine client
func NewController(engine Engine, logger *log.Logger, opts ...Option) *Controller {
	c := &Controller{
		engine: engine,
		logger: logger.WithPrefix("session"),
		clock:  quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// View returns the current session view. The returned value shares the
// controller's slices; callers must not mutate them.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Start creates a fresh session. Accepted only when no session exists and
// no request is in flight.
func (c *Controller) Start(ctx context.Context) View {
	if !c.begin("start", func(v View) bool { return v.Phase() == PhaseIdle }) {
		return c.View()
	}
	update, err := c.engine.CreateSession(ctx)
	return c.settle("start", update, err)
}

// Submit sends one user action. Accepted only when the derived phase is
// AwaitingUserDecision, the action kind is in the last-delivered legal set,
// and no request is in flight. A nil amount is transmitted as zero.
func (c *Controller) Submit(ctx context.Context, kind domain.ActionKind, amount *int) View {
	var sessionID string
	ok := c.begin("submit", func(v View) bool {
		if v.Phase() != PhaseAwaitingUserDecision {
			return false
		}
		if !v.LegalKind(kind) {
			c.logger.Warn("Action not in legal set", "action", kind)
			return false
		}
		sessionID = v.Snapshot.SessionID
		return true
	})
	if !ok {
		return c.View()
	}
	update, err := c.engine.SubmitAction(ctx, sessionID, kind, amount)
	return c.settle("submit", update, err)
}

// Advance deals the next hand. Accepted only when the current hand is over
// and no request is in flight.
func (c *Controller) Advance(ctx context.Context) View {
	var sessionID string
	ok := c.begin("advance", func(v View) bool {
		if v.Phase() != PhaseHandComplete {
			return false
		}
		sessionID = v.Snapshot.SessionID
		return true
	})
	if !ok {
		return c.View()
	}
	update, err := c.engine.AdvanceHand(ctx, sessionID)
	return c.settle("advance", update, err)
}

// Resync fetches the engine's view of the session and applies it
// unconditionally: query responses always win over the local triple. It is
// read-only on the engine side, bypasses the busy gate, and concurrent
// calls collapse into a single request.
func (c *Controller) Resync(ctx context.Context) View {
	c.mu.Lock()
	if c.view.Snapshot == nil {
		c.mu.Unlock()
		return c.View()
	}
	sessionID := c.view.Snapshot.SessionID
	c.mu.Unlock()

	result, err, _ := c.resync.Do(sessionID, func() (any, error) {
		return c.engine.QueryStatus(ctx, sessionID)
	})

	c.mu.Lock()
	if err != nil {
		c.view.LastMessage = err.Error()
		c.logger.Warn("Resync failed", "error", err)
		view := c.view
		c.mu.Unlock()
		return view
	}
	c.apply(result.(*domain.EngineUpdate))
	settled := c.captureSettled()
	c.logger.Info("Resynced from engine", "hand", c.view.Snapshot.HandNumber, "phase", c.view.Phase())
	view := c.view
	c.mu.Unlock()

	c.record(settled)
	return view
}

// Reset destroys the session and returns the controller to the empty Idle
// view. The engine-side session is discarded best effort; the local reset
// happens regardless.
func (c *Controller) Reset(ctx context.Context) View {
	c.mu.Lock()
	sessionID := ""
	if c.view.Snapshot != nil {
		sessionID = c.view.Snapshot.SessionID
	}
	c.view = View{LastUpdated: c.clock.Now()}
	c.recorded = 0
	c.mu.Unlock()

	if sessionID != "" {
		if err := c.engine.EndSession(ctx, sessionID); err != nil {
			c.logger.Warn("Failed to end session on engine", "session", sessionID, "error", err)
		}
	}
	return c.View()
}

// begin is the single admission point for mutating intents. It holds the
// lock only long enough to test the busy flag and the intent's
// precondition, then marks the controller busy.
func (c *Controller) begin(intent string, precondition func(View) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view.Busy {
		c.logger.Debug("Intent dropped, request already in flight", "intent", intent)
		return false
	}
	if !precondition(c.view) {
		c.logger.Debug("Intent dropped, precondition not met", "intent", intent, "phase", c.view.Phase())
		return false
	}
	c.view.Busy = true
	return true
}

// settle applies the outcome of a mutating request and clears the busy
// flag. On failure the prior triple stands untouched and only the message
// changes; the user never observes a torn state.
func (c *Controller) settle(intent string, update *domain.EngineUpdate, err error) View {
	var settled *domain.HandSnapshot

	c.mu.Lock()
	c.view.Busy = false
	if err != nil {
		c.view.LastMessage = err.Error()
		c.logger.Warn("Intent failed", "intent", intent, "error", err)
	} else {
		c.apply(update)
		settled = c.captureSettled()
		c.logger.Info("Intent applied",
			"intent", intent,
			"hand", c.view.Snapshot.HandNumber,
			"street", c.view.Snapshot.Street,
			"phase", c.view.Phase())
	}
	view := c.view
	c.mu.Unlock()

	c.record(settled)
	return view
}

// captureSettled returns the snapshot if it settled a hand not yet handed
// to the recorder. Called with the lock held.
func (c *Controller) captureSettled() *domain.HandSnapshot {
	if c.view.Snapshot != nil && c.view.Snapshot.HandOver && c.view.Snapshot.HandNumber > c.recorded {
		c.recorded = c.view.Snapshot.HandNumber
		return c.view.Snapshot
	}
	return nil
}

// record hands a settled snapshot to the recorder, outside the lock
func (c *Controller) record(settled *domain.HandSnapshot) {
	if settled != nil && c.recorder != nil {
		c.recorder.RecordHand(settled)
	}
}

// apply replaces all three state slices together. Called with the lock
// held. The advisory slot is cleared whenever the new phase is not
// AwaitingUserDecision so the panel can never show advice for a stale
// decision point.
func (c *Controller) apply(update *domain.EngineUpdate) {
	c.view.Snapshot = &update.Snapshot
	c.view.LegalActions = update.LegalActions
	c.view.Advice = update.Advice
	c.view.LastMessage = update.Message
	c.view.LastUpdated = c.clock.Now()
	if c.view.Phase() != PhaseAwaitingUserDecision {
		c.view.Advice = nil
	}
}
