// Package protocol defines the wire catalog spoken over the real-time
// channel. The server only ever pushes full match snapshots; clients resync
// from any single update_match with no history replay.
package protocol

import "github.com/kuro-gg/wuwa-draft-backend/internal/draft"

// Client -> server event types.
const (
	EventJoinMatch   = "join_match"
	EventLeaveMatch  = "leave_match"
	EventDraftAction = "draft_action"
	EventCommitTeams = "commit_teams"
)

// Server -> client event types.
const (
	EventUpdateMatch = "update_match"
	EventTimerUpdate = "timer_update"
	EventError       = "error"
)

// ClientMessage is every inbound frame. The acting user is resolved from the
// connection's session, so no user id field exists here.
type ClientMessage struct {
	Type        string   `json:"type"`
	MatchID     int64    `json:"matchId,omitempty"`
	Kind        string   `json:"kind,omitempty"` // "ban" | "pick"
	CharacterID string   `json:"characterId,omitempty"`
	Team1       []string `json:"team1,omitempty"`
	Team2       []string `json:"team2,omitempty"`
}

// TimerUpdate is the advisory countdown relayed to subscribers. Values are
// seconds remaining; it never reflects persisted state.
type TimerUpdate struct {
	BanTime  int `json:"banTime"`
	PrepTime int `json:"prepTime"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServerMessage is every outbound frame. Exactly one of Match, Timer, Error
// is set depending on Type.
type ServerMessage struct {
	Type    string       `json:"type"`
	Version int          `json:"version,omitempty"`
	Match   *draft.Match `json:"match,omitempty"`
	Timer   *TimerUpdate `json:"timer,omitempty"`
	Error   *ErrorInfo   `json:"error,omitempty"`
}
