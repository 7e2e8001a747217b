// Package hub is the connection registry: an actor that owns the map of live
// per-match rooms. It replaces any process-global socket state; the hub is
// created at startup, injected where needed, and torn down at shutdown.
package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/kuro-gg/wuwa-draft-backend/internal/room"
	"github.com/kuro-gg/wuwa-draft-backend/internal/store"
)

type HubMsg interface{ isHubMsg() }

// EnsureRoom returns the room for a match, creating it on first use.
type EnsureRoom struct {
	MatchID int64
	Reply   chan *room.Room
}

// GetRoom returns the room for a match, or nil if none is live.
type GetRoom struct {
	MatchID int64
	Reply   chan *room.Room
}

// RemoveRoom retires a room from the registry.
type RemoveRoom struct{ MatchID int64 }

type ShutdownHub struct{}

func (EnsureRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox    chan HubMsg
	rooms    map[int64]*room.Room
	store    store.Store
	log      *zap.Logger
	roomOpts []room.Option
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, st store.Store, log *zap.Logger, roomOpts ...room.Option) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		rooms:    make(map[int64]*room.Room),
		store:    st,
		log:      log,
		roomOpts: roomOpts,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Room is a convenience wrapper around EnsureRoom for callers that want a
// synchronous lookup.
func (h *Hub) Room(matchID int64) *room.Room {
	reply := make(chan *room.Room, 1)
	h.inbox <- EnsureRoom{MatchID: matchID, Reply: reply}
	return <-reply
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureRoom:
				rm := h.rooms[msg.MatchID]
				if rm == nil {
					rm = h.newRoom(msg.MatchID)
					h.rooms[msg.MatchID] = rm
					h.log.Info("room created", zap.Int64("match_id", msg.MatchID))
				}
				msg.Reply <- rm

			case GetRoom:
				msg.Reply <- h.rooms[msg.MatchID] // may be nil

			case RemoveRoom:
				if rm := h.rooms[msg.MatchID]; rm != nil {
					rm.Inbox() <- room.Shutdown{}
					delete(h.rooms, msg.MatchID)
					h.log.Info("room retired", zap.Int64("match_id", msg.MatchID))
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

// newRoom builds a room that asks to be retired once it has sat empty past
// its idle grace.
func (h *Hub) newRoom(matchID int64) *room.Room {
	opts := append([]room.Option(nil), h.roomOpts...)
	opts = append(opts, room.WithRetire(func() {
		select {
		case h.inbox <- RemoveRoom{MatchID: matchID}:
		case <-h.ctx.Done():
		}
	}))
	return room.NewRoom(h.ctx, matchID, h.store, h.log, opts...)
}

func (h *Hub) shutdown() {
	for id, rm := range h.rooms {
		rm.Inbox() <- room.Shutdown{}
		delete(h.rooms, id)
	}
	h.cancel()
}
