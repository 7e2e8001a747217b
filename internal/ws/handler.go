// Package ws bridges websocket connections to match rooms. A connection may
// subscribe to one match at a time; identity for mutating events comes from
// the session, never from the payload.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kuro-gg/wuwa-draft-backend/internal/auth"
	"github.com/kuro-gg/wuwa-draft-backend/internal/draft"
	"github.com/kuro-gg/wuwa-draft-backend/internal/hub"
	"github.com/kuro-gg/wuwa-draft-backend/internal/protocol"
	"github.com/kuro-gg/wuwa-draft-backend/internal/room"
	"github.com/kuro-gg/wuwa-draft-backend/internal/store"
)

const writeTimeout = 3 * time.Second

func Handler(h *hub.Hub, st store.Store, sessions *auth.Sessions, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Spectators may be anonymous; userID stays 0 then.
		userID, _ := sessions.UserID(r)

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			log.Warn("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		clog := log.With(zap.String("client_id", clientID), zap.Int64("user_id", userID))
		clog.Info("websocket connected", zap.String("remote", r.RemoteAddr))

		out := make(chan protocol.ServerMessage, 16)
		session := &connSession{
			hub:      h,
			store:    st,
			conn:     conn,
			clientID: clientID,
			userID:   userID,
			out:      out,
			log:      clog,
		}
		defer session.leave()

		// Writer goroutine: drains the outbox for the life of the
		// connection. Rooms never close the channel, so the same outbox is
		// safe to hand to every room this connection subscribes to.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case <-writeCtx.Done():
					return
				case msg := <-out:
					payload, err := json.Marshal(msg)
					if err != nil {
						continue
					}
					ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
					_ = conn.Write(ctx, websocket.MessageText, payload)
					cancel()
				}
			}
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					clog.Info("websocket closed")
				default:
					clog.Info("websocket read ended", zap.Error(err))
				}
				return
			}

			var cm protocol.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				session.sendError("VALIDATION", "malformed message")
				continue
			}
			session.dispatch(r.Context(), cm)
		}
	}
}

// connSession tracks which room this connection is subscribed to.
type connSession struct {
	hub      *hub.Hub
	store    store.Store
	conn     *websocket.Conn
	clientID string
	userID   int64
	out      chan protocol.ServerMessage
	log      *zap.Logger

	current *room.Room
}

func (s *connSession) dispatch(ctx context.Context, cm protocol.ClientMessage) {
	switch cm.Type {
	case protocol.EventJoinMatch:
		s.join(ctx, cm.MatchID)

	case protocol.EventLeaveMatch:
		s.leave()

	case protocol.EventDraftAction:
		if s.userID == 0 {
			s.sendError("UNAUTHENTICATED", "log in to act in a draft")
			return
		}
		if s.current == nil {
			s.sendError("VALIDATION", "join a match first")
			return
		}
		kind := draft.Kind(cm.Kind)
		if kind != draft.KindBan && kind != draft.KindPick {
			s.sendError("VALIDATION", "kind must be ban or pick")
			return
		}
		s.current.Inbox() <- room.FromClient{
			ClientID:    s.clientID,
			UserID:      s.userID,
			Kind:        kind,
			CharacterID: cm.CharacterID,
		}

	case protocol.EventCommitTeams:
		if s.userID == 0 {
			s.sendError("UNAUTHENTICATED", "log in to act in a draft")
			return
		}
		if s.current == nil {
			s.sendError("VALIDATION", "join a match first")
			return
		}
		s.current.Inbox() <- room.CommitTeams{
			ClientID: s.clientID,
			UserID:   s.userID,
			Team1:    cm.Team1,
			Team2:    cm.Team2,
		}

	default:
		s.sendError("VALIDATION", "unknown message type")
	}
}

func (s *connSession) join(ctx context.Context, matchID int64) {
	if _, err := s.store.Match(ctx, matchID); err != nil {
		s.sendError("NOT_FOUND", "match not found")
		return
	}
	s.leave()
	rm := s.hub.Room(matchID)
	rm.Inbox() <- room.Join{ClientID: s.clientID, UserID: s.userID, Outbox: s.out}
	s.current = rm
}

func (s *connSession) leave() {
	if s.current == nil {
		return
	}
	s.current.Inbox() <- room.Leave{ClientID: s.clientID}
	s.current = nil
}

// sendError writes straight to the connection rather than the room-owned
// outbox, which the room may have closed after dropping a slow subscriber.
func (s *connSession) sendError(code, message string) {
	payload, err := json.Marshal(protocol.ServerMessage{
		Type:  protocol.EventError,
		Error: &protocol.ErrorInfo{Code: code, Message: message},
	})
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	_ = s.conn.Write(ctx, websocket.MessageText, payload)
}
