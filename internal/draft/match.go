package draft

import "time"

type Status string

const (
	StatusWaiting     Status = "waiting"
	StatusDrafting    Status = "drafting"
	StatusPreparation Status = "preparation"
	StatusFinished    Status = "finished"
)

type Phase string

const (
	PhaseConfig      Phase = "config"
	PhaseBan1        Phase = "ban1"
	PhasePick1       Phase = "pick1"
	PhaseBan2        Phase = "ban2"
	PhasePick2       Phase = "pick2"
	PhasePreparation Phase = "preparation"
)

type Kind string

const (
	KindBan  Kind = "ban"
	KindPick Kind = "pick"
)

// Teams is a participant's final split of their six picks.
type Teams struct {
	Team1 []string `json:"team1"`
	Team2 []string `json:"team2"`
}

// Match is the single mutable aggregate. It is both the persisted record and
// the snapshot broadcast to subscribers; map fields serialize to JSONB.
type Match struct {
	ID       int64  `json:"id" gorm:"primaryKey"`
	HostID   int64  `json:"hostId"`
	GuestID  *int64 `json:"guestId"`
	WinnerID *int64 `json:"winnerId"`

	Mode     string `json:"mode"`
	BanTime  int    `json:"banTime"`  // seconds per drafting turn
	PrepTime int    `json:"prepTime"` // seconds for the preparation stage

	Status       Status `json:"status"`
	CurrentPhase Phase  `json:"currentPhase"`
	CurrentTurn  *int64 `json:"currentTurn"`

	Bans  map[int64][]string `json:"bans" gorm:"serializer:json"`
	Picks map[int64][]string `json:"picks" gorm:"serializer:json"`
	Teams map[int64]Teams    `json:"teams" gorm:"serializer:json"`

	CreatedAt time.Time `json:"createdAt"`
}

// NewMatch returns a fresh match owned by hostID. Zero timers fall back to
// the mode's defaults.
func NewMatch(hostID int64, mode string, banTime, prepTime int) Match {
	r := RulesFor(mode)
	if banTime <= 0 {
		banTime = r.DefaultBanTime
	}
	if prepTime <= 0 {
		prepTime = r.DefaultPrepTime
	}
	return Match{
		HostID:       hostID,
		Mode:         r.Name,
		BanTime:      banTime,
		PrepTime:     prepTime,
		Status:       StatusWaiting,
		CurrentPhase: PhaseConfig,
		Bans:         map[int64][]string{},
		Picks:        map[int64][]string{},
		Teams:        map[int64]Teams{},
		CreatedAt:    time.Now().UTC(),
	}
}

// Clone deep-copies the match so callers can mutate the result without
// aliasing the maps of the original. Rejected actions must leave the input
// untouched, so every mutating path works on a clone.
func (m Match) Clone() Match {
	out := m
	out.Bans = cloneLists(m.Bans)
	out.Picks = cloneLists(m.Picks)
	out.Teams = make(map[int64]Teams, len(m.Teams))
	for id, t := range m.Teams {
		out.Teams[id] = Teams{
			Team1: append([]string(nil), t.Team1...),
			Team2: append([]string(nil), t.Team2...),
		}
	}
	if m.GuestID != nil {
		g := *m.GuestID
		out.GuestID = &g
	}
	if m.WinnerID != nil {
		w := *m.WinnerID
		out.WinnerID = &w
	}
	if m.CurrentTurn != nil {
		t := *m.CurrentTurn
		out.CurrentTurn = &t
	}
	return out
}

func cloneLists(in map[int64][]string) map[int64][]string {
	out := make(map[int64][]string, len(in))
	for id, list := range in {
		out[id] = append([]string(nil), list...)
	}
	return out
}

// IsParticipant reports whether userID is the host or the joined guest.
func (m Match) IsParticipant(userID int64) bool {
	return userID == m.HostID || (m.GuestID != nil && *m.GuestID == userID)
}

// taken reports whether id already appears in any user's bans or picks.
func (m Match) taken(id string) bool {
	for _, list := range m.Bans {
		for _, c := range list {
			if c == id {
				return true
			}
		}
	}
	for _, list := range m.Picks {
		for _, c := range list {
			if c == id {
				return true
			}
		}
	}
	return false
}
