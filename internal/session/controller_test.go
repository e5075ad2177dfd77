package session

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertrainer/internal/deck"
	"github.com/lox/pokertrainer/internal/domain"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// step is one scripted engine response
type step struct {
	update *domain.EngineUpdate
	err    error
}

// fakeEngine plays back a scripted sequence of responses and records every
// call it receives. When gate is set, calls block until the gate closes.
type fakeEngine struct {
	mu     sync.Mutex
	script []step
	calls  []string
	gate   chan struct{}
}

func (f *fakeEngine) next(op string) (*domain.EngineUpdate, error) {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	gate := f.gate
	var s step
	if len(f.script) > 0 {
		s = f.script[0]
		f.script = f.script[1:]
	}
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return s.update, s.err
}

func (f *fakeEngine) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeEngine) CreateSession(ctx context.Context) (*domain.EngineUpdate, error) {
	return f.next("create")
}

func (f *fakeEngine) SubmitAction(ctx context.Context, sessionID string, kind domain.ActionKind, amount *int) (*domain.EngineUpdate, error) {
	return f.next("submit")
}

func (f *fakeEngine) AdvanceHand(ctx context.Context, sessionID string) (*domain.EngineUpdate, error) {
	return f.next("advance")
}

func (f *fakeEngine) QueryStatus(ctx context.Context, sessionID string) (*domain.EngineUpdate, error) {
	return f.next("status")
}

func (f *fakeEngine) EndSession(ctx context.Context, sessionID string) error {
	_, err := f.next("end")
	return err
}

func liveUpdate(hand int, active domain.Seat) *domain.EngineUpdate {
	amount := 10
	return &domain.EngineUpdate{
		Snapshot: domain.HandSnapshot{
			SessionID:    "sess-1",
			Street:       domain.StreetPreflop,
			PotSize:      30,
			UserStack:    990,
			BotStack:     980,
			UserCards:    deck.MustParseCards("AhKs"),
			CurrentBet:   20,
			AmountToCall: 10,
			ActivePlayer: active,
			HandNumber:   hand,
		},
		LegalActions: []domain.LegalAction{
			{Kind: domain.ActionFold, Label: "Fold"},
			{Kind: domain.ActionCall, Amount: &amount, Label: "Call $10"},
		},
		Message: "your move",
	}
}

func settledUpdate(hand int, winner domain.Winner) *domain.EngineUpdate {
	u := liveUpdate(hand, domain.SeatBot)
	u.Snapshot.Street = domain.StreetRiver
	u.Snapshot.CommunityCards = deck.MustParseCards("2h7dTcJsQd")
	u.Snapshot.BotCards = deck.MustParseCards("9c9d")
	u.Snapshot.HandOver = true
	u.Snapshot.Winner = &winner
	u.Snapshot.History = []domain.PlayerAction{
		{Kind: domain.ActionCall, Amount: 10, Actor: domain.SeatUser},
		{Kind: domain.ActionCheck, Actor: domain.SeatBot},
	}
	u.LegalActions = nil
	u.Message = "You win!"
	return u
}

func TestRoundTripDerivedPhases(t *testing.T) {
	engine := &fakeEngine{script: []step{
		{update: liveUpdate(1, domain.SeatUser)},
		{update: liveUpdate(1, domain.SeatBot)},
		{update: settledUpdate(1, domain.WinnerUser)},
		{update: liveUpdate(2, domain.SeatUser)},
	}}
	c := NewController(engine, testLogger())
	ctx := context.Background()

	v := c.Start(ctx)
	assert.Equal(t, PhaseAwaitingUserDecision, v.Phase())
	assert.Equal(t, 1, v.Snapshot.HandNumber)

	v = c.Submit(ctx, domain.ActionCall, nil)
	assert.Equal(t, PhaseAwaitingOpponentOrSettlement, v.Phase())

	v = c.Resync(ctx)
	assert.Equal(t, PhaseHandComplete, v.Phase())
	require.NotNil(t, v.Snapshot.Winner)
	assert.Equal(t, domain.WinnerUser, *v.Snapshot.Winner)
	assert.Len(t, v.Snapshot.BotCards, 2)

	v = c.Advance(ctx)
	assert.Equal(t, PhaseAwaitingUserDecision, v.Phase())
	assert.Equal(t, 2, v.Snapshot.HandNumber)
	assert.False(t, v.Snapshot.HandOver)
	assert.Empty(t, v.Snapshot.BotCards)

	assert.Equal(t, []string{"create", "submit", "status", "advance"}, engine.calls)
}

func TestBusyGateDropsConcurrentIntents(t *testing.T) {
	engine := &fakeEngine{
		script: []step{{update: liveUpdate(1, domain.SeatUser)}},
		gate:   make(chan struct{}),
	}
	c := NewController(engine, testLogger())

	done := make(chan View)
	go func() { done <- c.Start(context.Background()) }()

	// Wait for the first intent to claim the busy flag.
	require.Eventually(t, func() bool {
		return c.View().Busy
	}, time.Second, time.Millisecond)

	// A second intent while busy is a silent no-op: no engine call, state
	// triple unchanged.
	before := c.View()
	after := c.Start(context.Background())
	assert.Equal(t, 1, engine.callCount())
	assert.Equal(t, before.Snapshot, after.Snapshot)
	assert.Nil(t, after.Snapshot)

	close(engine.gate)
	v := <-done
	assert.False(t, v.Busy)
	assert.Equal(t, PhaseAwaitingUserDecision, v.Phase())
	assert.Equal(t, 1, engine.callCount())
}

func TestFailedSubmitLeavesTripleUntouched(t *testing.T) {
	engine := &fakeEngine{script: []step{
		{update: liveUpdate(1, domain.SeatUser)},
		{err: assert.AnError},
	}}
	c := NewController(engine, testLogger())
	ctx := context.Background()

	c.Start(ctx)
	before := c.View()

	after := c.Submit(ctx, domain.ActionCall, nil)

	assert.Same(t, before.Snapshot, after.Snapshot)
	assert.Equal(t, before.LegalActions, after.LegalActions)
	assert.Equal(t, before.Advice, after.Advice)
	assert.False(t, after.Busy)
	assert.Equal(t, assert.AnError.Error(), after.LastMessage)
	// The user can retry: the derived phase still offers the decision.
	assert.Equal(t, PhaseAwaitingUserDecision, after.Phase())
}

func TestSubmitRequiresLegalKind(t *testing.T) {
	engine := &fakeEngine{script: []step{{update: liveUpdate(1, domain.SeatUser)}}}
	c := NewController(engine, testLogger())
	ctx := context.Background()

	c.Start(ctx)
	v := c.Submit(ctx, domain.ActionRaise, nil) // legal set is fold/call only

	assert.Equal(t, 1, engine.callCount(), "no request for an action outside the legal set")
	assert.Equal(t, PhaseAwaitingUserDecision, v.Phase())
}

func TestSubmitRequiresUsersTurn(t *testing.T) {
	engine := &fakeEngine{script: []step{{update: liveUpdate(1, domain.SeatBot)}}}
	c := NewController(engine, testLogger())
	ctx := context.Background()

	c.Start(ctx)
	c.Submit(ctx, domain.ActionCall, nil)

	assert.Equal(t, 1, engine.callCount())
}

func TestAdvanceRequiresHandComplete(t *testing.T) {
	engine := &fakeEngine{script: []step{{update: liveUpdate(1, domain.SeatUser)}}}
	c := NewController(engine, testLogger())
	ctx := context.Background()

	c.Start(ctx)
	c.Advance(ctx)

	assert.Equal(t, 1, engine.callCount())
}

func TestStartRequiresIdle(t *testing.T) {
	engine := &fakeEngine{script: []step{{update: liveUpdate(1, domain.SeatUser)}}}
	c := NewController(engine, testLogger())
	ctx := context.Background()

	c.Start(ctx)
	c.Start(ctx)

	assert.Equal(t, 1, engine.callCount(), "start is only valid from the idle phase")
}

func TestAdviceClearedOutsideUserDecision(t *testing.T) {
	withAdvice := liveUpdate(1, domain.SeatBot)
	withAdvice.Advice = &domain.AdvisoryBundle{}

	engine := &fakeEngine{script: []step{{update: withAdvice}}}
	c := NewController(engine, testLogger())

	v := c.Start(context.Background())
	assert.Equal(t, PhaseAwaitingOpponentOrSettlement, v.Phase())
	assert.Nil(t, v.Advice, "advice must never outlive the decision it was computed for")
}

func TestResyncAlwaysWins(t *testing.T) {
	engine := &fakeEngine{script: []step{
		{update: liveUpdate(1, domain.SeatUser)},
		{update: liveUpdate(5, domain.SeatBot)},
	}}
	c := NewController(engine, testLogger())
	ctx := context.Background()

	c.Start(ctx)
	v := c.Resync(ctx)

	assert.Equal(t, 5, v.Snapshot.HandNumber, "query responses always win over the local triple")
	assert.Equal(t, PhaseAwaitingOpponentOrSettlement, v.Phase())
}

func TestResyncWithoutSessionIsNoop(t *testing.T) {
	engine := &fakeEngine{}
	c := NewController(engine, testLogger())

	v := c.Resync(context.Background())

	assert.Equal(t, 0, engine.callCount())
	assert.Equal(t, PhaseIdle, v.Phase())
}

func TestResetReturnsToIdleAndEndsSession(t *testing.T) {
	engine := &fakeEngine{script: []step{
		{update: liveUpdate(1, domain.SeatUser)},
		{}, // end session
	}}
	c := NewController(engine, testLogger())
	ctx := context.Background()

	c.Start(ctx)
	v := c.Reset(ctx)

	assert.Equal(t, PhaseIdle, v.Phase())
	assert.Nil(t, v.Snapshot)
	assert.Empty(t, v.LegalActions)
	assert.Nil(t, v.Advice)
	assert.Equal(t, []string{"create", "end"}, engine.calls)
}

// recordingSink captures hands handed to the recorder
type recordingSink struct {
	mu    sync.Mutex
	hands []int
}

func (r *recordingSink) RecordHand(s *domain.HandSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hands = append(r.hands, s.HandNumber)
}

func TestSettledHandsRecordedOnce(t *testing.T) {
	engine := &fakeEngine{script: []step{
		{update: liveUpdate(1, domain.SeatUser)},
		{update: settledUpdate(1, domain.WinnerUser)},
		{update: settledUpdate(1, domain.WinnerUser)}, // resync of the same settled hand
		{update: liveUpdate(2, domain.SeatUser)},
	}}
	sink := &recordingSink{}
	c := NewController(engine, testLogger(), WithRecorder(sink))
	ctx := context.Background()

	c.Start(ctx)
	c.Submit(ctx, domain.ActionCall, nil)
	c.Resync(ctx)
	c.Advance(ctx)

	assert.Equal(t, []int{1}, sink.hands, "each settled hand is recorded exactly once")
}

func TestLastUpdatedUsesInjectedClock(t *testing.T) {
	mock := quartz.NewMock(t)
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	mock.Set(now)

	engine := &fakeEngine{script: []step{{update: liveUpdate(1, domain.SeatUser)}}}
	c := NewController(engine, testLogger(), WithClock(mock))

	v := c.Start(context.Background())
	assert.Equal(t, now, v.LastUpdated)
}
