// Package room implements the session broadcaster: one actor goroutine per
// match owns the subscriber set and serializes every read-modify-write of
// that match's record. The actor loop is the per-match critical section the
// coordinator relies on; rooms for different matches run fully in parallel.
package room

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kuro-gg/wuwa-draft-backend/internal/draft"
	"github.com/kuro-gg/wuwa-draft-backend/internal/protocol"
	"github.com/kuro-gg/wuwa-draft-backend/internal/store"
)

type Msg interface{ isRoomMsg() }

// Join subscribes a connection. The latest persisted snapshot is sent to
// Outbox immediately; afterwards the connection receives every broadcast.
type Join struct {
	ClientID string
	UserID   int64 // 0 for anonymous spectators
	Outbox   chan protocol.ServerMessage
}

func (Join) isRoomMsg() {}

// Leave unsubscribes a connection. Unknown ids are ignored.
type Leave struct{ ClientID string }

func (Leave) isRoomMsg() {}

// FromClient submits a ban/pick action on behalf of the connection's
// session user.
type FromClient struct {
	ClientID    string
	UserID      int64
	Kind        draft.Kind
	CharacterID string
}

func (FromClient) isRoomMsg() {}

// CommitTeams submits a participant's preparation-stage team split.
type CommitTeams struct {
	ClientID string
	UserID   int64
	Team1    []string
	Team2    []string
}

func (CommitTeams) isRoomMsg() {}

// SubmitJoin runs the guest-join transition through the room so it is
// serialized with draft actions and broadcast like one.
type SubmitJoin struct {
	UserID int64
	Reply  chan JoinReply
}

func (SubmitJoin) isRoomMsg() {}

type JoinReply struct {
	Match draft.Match
	Err   error
}

// GetState reflects internal state without data races; used by tests.
type GetState struct{ Reply chan View }

func (GetState) isRoomMsg() {}

type View struct {
	Version    int
	NumClients int
	Match      draft.Match
}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

type client struct {
	userID int64
	outbox chan protocol.ServerMessage
}

type Room struct {
	matchID int64
	store   store.Store
	log     *zap.Logger

	inbox   chan Msg
	clients map[string]client
	version int

	// cached is the last match state this room loaded or persisted. The
	// actor is the only writer for the match, so it stays coherent.
	cached draft.Match
	loaded bool

	turnDeadline time.Time // zero when no drafting turn is running
	prepDeadline time.Time

	// retire is called once, from the actor, after the room has had no
	// subscribers for idleGrace. The registry owning the room is expected
	// to respond with a Shutdown.
	retire     func()
	idleGrace  time.Duration
	emptySince time.Time

	tickEvery time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
}

// Option tweaks room construction; only tests need it.
type Option func(*Room)

// WithTickInterval overrides the one second countdown resolution.
func WithTickInterval(d time.Duration) Option {
	return func(r *Room) { r.tickEvery = d }
}

// WithRetire registers the callback invoked when the room has sat empty for
// the idle grace period.
func WithRetire(fn func()) Option {
	return func(r *Room) { r.retire = fn }
}

// WithIdleGrace overrides how long an empty room lingers before retiring.
func WithIdleGrace(d time.Duration) Option {
	return func(r *Room) { r.idleGrace = d }
}

func NewRoom(parent context.Context, matchID int64, st store.Store, log *zap.Logger, opts ...Option) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		matchID:    matchID,
		store:      st,
		log:        log.With(zap.Int64("match_id", matchID)),
		inbox:      make(chan Msg, 64),
		clients:    make(map[string]client),
		idleGrace:  time.Minute,
		emptySince: time.Now(),
		tickEvery:  time.Second,
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	go r.loop()
	return r
}

// Inbox exposes the actor mailbox to the WS layer, HTTP layer, and tests.
func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	ticker := time.NewTicker(r.tickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case <-ticker.C:
			r.onTick()

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.onJoin(msg)
			case Leave:
				delete(r.clients, msg.ClientID)
			case FromClient:
				r.apply(msg.ClientID, func(m draft.Match) (draft.Match, error) {
					return draft.Apply(m, draft.Action{
						ActorID:     msg.UserID,
						Kind:        msg.Kind,
						CharacterID: msg.CharacterID,
					})
				})
			case CommitTeams:
				r.apply(msg.ClientID, func(m draft.Match) (draft.Match, error) {
					return draft.CommitTeams(m, msg.UserID, msg.Team1, msg.Team2)
				})
			case SubmitJoin:
				r.onSubmitJoin(msg)
			case GetState:
				msg.Reply <- View{Version: r.version, NumClients: len(r.clients), Match: r.cached}
			case Shutdown:
				r.shutdown()
				return
			}
			// Any handled message counts as activity for the idle clock.
			if len(r.clients) == 0 {
				r.emptySince = time.Now()
			} else {
				r.emptySince = time.Time{}
			}
		}
	}
}

func (r *Room) onJoin(msg Join) {
	m, err := r.load()
	if err != nil {
		r.deliver(msg.Outbox, errorMessage(err))
		return
	}
	r.clients[msg.ClientID] = client{userID: msg.UserID, outbox: msg.Outbox}
	r.deliver(msg.Outbox, protocol.ServerMessage{
		Type:    protocol.EventUpdateMatch,
		Version: r.version,
		Match:   &m,
	})
	// Arm on the first subscriber only; later joins must not reset a
	// running turn countdown.
	if r.turnDeadline.IsZero() && r.prepDeadline.IsZero() {
		r.armTimers(m)
	}
}

// apply is the single read-modify-write path: load, decide, persist,
// broadcast. A rejection is reported to the submitting client only and
// leaves the store untouched.
func (r *Room) apply(clientID string, fn func(draft.Match) (draft.Match, error)) {
	m, err := r.load()
	if err != nil {
		r.sendError(clientID, err)
		return
	}
	next, err := fn(m)
	if err != nil {
		r.sendError(clientID, err)
		return
	}
	if err := r.persistAndBroadcast(next); err != nil {
		r.sendError(clientID, err)
	}
}

func (r *Room) onSubmitJoin(msg SubmitJoin) {
	m, err := r.load()
	if err != nil {
		msg.Reply <- JoinReply{Err: err}
		return
	}
	next, err := draft.Join(m, msg.UserID)
	if err != nil {
		msg.Reply <- JoinReply{Err: err}
		return
	}
	if next.Status == m.Status && guestOf(next) == guestOf(m) {
		// Re-join by an existing participant; nothing changed.
		msg.Reply <- JoinReply{Match: next}
		return
	}
	if err := r.persistAndBroadcast(next); err != nil {
		msg.Reply <- JoinReply{Err: err}
		return
	}
	msg.Reply <- JoinReply{Match: next}
}

func guestOf(m draft.Match) int64 {
	if m.GuestID == nil {
		return 0
	}
	return *m.GuestID
}

func (r *Room) onTick() {
	if r.retire != nil && len(r.clients) == 0 &&
		!r.emptySince.IsZero() && time.Since(r.emptySince) >= r.idleGrace {
		r.log.Info("room idle, retiring")
		r.retire()
		r.retire = nil
	}

	if !r.loaded {
		return
	}

	switch r.cached.Status {
	case draft.StatusDrafting:
		if r.turnDeadline.IsZero() {
			return
		}
		remaining := int(time.Until(r.turnDeadline).Round(time.Second).Seconds())
		if remaining > 0 {
			r.broadcast(protocol.ServerMessage{
				Type:  protocol.EventTimerUpdate,
				Timer: &protocol.TimerUpdate{BanTime: remaining, PrepTime: r.cached.PrepTime},
			})
			return
		}
		r.autoResolve()

	case draft.StatusPreparation:
		if r.prepDeadline.IsZero() {
			return
		}
		remaining := int(time.Until(r.prepDeadline).Round(time.Second).Seconds())
		if remaining <= 0 {
			// Preparation countdown is advisory; it just stops ticking.
			r.prepDeadline = time.Time{}
			return
		}
		r.broadcast(protocol.ServerMessage{
			Type:  protocol.EventTimerUpdate,
			Timer: &protocol.TimerUpdate{PrepTime: remaining},
		})
	}
}

// autoResolve applies the timeout policy for the user on turn: a random
// legal selection of the kind the phase expects.
func (r *Room) autoResolve() {
	m, err := r.load()
	if err != nil {
		r.log.Warn("timer expiry load failed", zap.Error(err))
		return
	}
	next, err := draft.AutoAction(m)
	if err != nil {
		// Stale deadline (draft ended between ticks); disarm.
		r.turnDeadline = time.Time{}
		return
	}
	r.log.Info("turn timer expired, auto-resolving",
		zap.String("phase", string(m.CurrentPhase)))
	if err := r.persistAndBroadcast(next); err != nil {
		r.log.Error("persisting auto action", zap.Error(err))
	}
}

func (r *Room) persistAndBroadcast(next draft.Match) error {
	ctx, cancel := context.WithTimeout(r.ctx, 5*time.Second)
	defer cancel()
	persisted, err := r.store.UpdateMatch(ctx, next)
	if err != nil {
		r.log.Error("persisting match", zap.Error(err))
		return err
	}
	r.cached = persisted
	r.loaded = true
	r.version++
	r.broadcast(protocol.ServerMessage{
		Type:    protocol.EventUpdateMatch,
		Version: r.version,
		Match:   &persisted,
	})
	r.armTimers(persisted)
	return nil
}

func (r *Room) armTimers(m draft.Match) {
	switch m.Status {
	case draft.StatusDrafting:
		r.turnDeadline = time.Now().Add(time.Duration(m.BanTime) * time.Second)
	case draft.StatusPreparation:
		r.turnDeadline = time.Time{}
		if r.prepDeadline.IsZero() {
			r.prepDeadline = time.Now().Add(time.Duration(m.PrepTime) * time.Second)
		}
	default:
		r.turnDeadline = time.Time{}
	}
}

func (r *Room) load() (draft.Match, error) {
	ctx, cancel := context.WithTimeout(r.ctx, 5*time.Second)
	defer cancel()
	m, err := r.store.Match(ctx, r.matchID)
	if err != nil {
		return draft.Match{}, err
	}
	r.cached = m
	r.loaded = true
	return m, nil
}

func (r *Room) sendError(clientID string, err error) {
	c, ok := r.clients[clientID]
	if !ok {
		return
	}
	r.deliver(c.outbox, errorMessage(err))
}

// broadcast fans a message out to every subscriber. The room never closes
// an outbox: the owning connection keeps the channel for its whole lifetime
// and may re-subscribe with it after being dropped, so a drop only
// unregisters.
func (r *Room) broadcast(msg protocol.ServerMessage) {
	for id, c := range r.clients {
		select {
		case c.outbox <- msg:
		default:
			// Slow or dead subscriber; drop it rather than stall the match.
			delete(r.clients, id)
			r.log.Info("dropped slow subscriber", zap.String("client_id", id))
		}
	}
}

// deliver is a non-blocking send for targeted messages.
func (r *Room) deliver(ch chan protocol.ServerMessage, msg protocol.ServerMessage) {
	select {
	case ch <- msg:
	default:
	}
}

func (r *Room) shutdown() {
	clear(r.clients)
	r.cancel()
}
