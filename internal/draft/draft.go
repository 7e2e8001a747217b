// Package draft is the authoritative coordinator for a ban/pick session.
// Every entry point is a pure decision function from (match, input) to
// (successor match, error): no I/O, no clock, no locking. Serialization of
// concurrent callers is the room's job.
package draft

import (
	"math/rand"
	"slices"

	"github.com/kuro-gg/wuwa-draft-backend/internal/roster"
)

// Action is a single ban or pick attempt. ActorID comes from the session
// identity of the submitting connection, never from a client payload.
type Action struct {
	ActorID     int64
	Kind        Kind
	CharacterID string
}

// Join admits userID as the guest of a waiting match and starts the draft:
// status drafting, phase ban1, host on turn. Joining your own match is a
// no-op so the host can safely hit the endpoint again.
func Join(m Match, userID int64) (Match, error) {
	if userID == m.HostID {
		return m, nil
	}
	if m.GuestID != nil {
		if *m.GuestID == userID {
			return m, nil
		}
		return m, ErrMatchFull
	}
	if m.Status != StatusWaiting {
		return m, ErrMatchFull
	}

	out := m.Clone()
	out.GuestID = &userID
	out.Status = StatusDrafting
	out.CurrentPhase = PhaseBan1
	host := m.HostID
	out.CurrentTurn = &host
	return out, nil
}

// Apply validates an action against the current match and, on success,
// returns the successor state. Validation order is fixed; the first failing
// check decides the rejection and the input match is returned unchanged.
func Apply(m Match, a Action) (Match, error) {
	if m.Status != StatusDrafting {
		return m, ErrNotDrafting
	}
	if m.CurrentTurn == nil || *m.CurrentTurn != a.ActorID {
		return m, ErrNotYourTurn
	}
	if !roster.IsValid(a.CharacterID) {
		return m, ErrUnknownCharacter
	}
	if m.taken(a.CharacterID) {
		return m, ErrCharacterTaken
	}
	expected, ok := KindFor(m.CurrentPhase)
	if !ok || expected != a.Kind {
		return m, ErrWrongKind
	}

	rules := RulesFor(m.Mode)
	quota := rules.Quotas[m.CurrentPhase]
	if rules.phaseCount(m, m.CurrentPhase, a.ActorID) >= quota {
		return m, ErrQuotaFull
	}

	out := m.Clone()
	switch a.Kind {
	case KindBan:
		out.Bans[a.ActorID] = append(out.Bans[a.ActorID], a.CharacterID)
	case KindPick:
		out.Picks[a.ActorID] = append(out.Picks[a.ActorID], a.CharacterID)
	}

	// Strict alternation: the turn flips on every accepted action, including
	// across phase boundaries.
	other := out.HostID
	if a.ActorID == out.HostID {
		other = *out.GuestID
	}
	out.CurrentTurn = &other

	if phaseExhausted(rules, out) {
		out.CurrentPhase = nextPhase(out.CurrentPhase)
		if out.CurrentPhase == PhasePreparation {
			out.Status = StatusPreparation
			out.CurrentTurn = nil
		}
	}
	return out, nil
}

func phaseExhausted(r Ruleset, m Match) bool {
	quota := r.Quotas[m.CurrentPhase]
	if m.GuestID == nil {
		return false
	}
	return r.phaseCount(m, m.CurrentPhase, m.HostID) >= quota &&
		r.phaseCount(m, m.CurrentPhase, *m.GuestID) >= quota
}

// chooseRandom is swapped out in tests for determinism.
var chooseRandom = func(candidates []string) string {
	return candidates[rand.Intn(len(candidates))]
}

// AutoAction resolves an expired turn timer: it selects a random legal
// character for the user on turn and applies it as the kind the current
// phase expects. This is the server-side timeout policy; a stalled player
// loses the choice, not the match.
func AutoAction(m Match) (Match, error) {
	if m.Status != StatusDrafting || m.CurrentTurn == nil {
		return m, ErrNotDrafting
	}
	kind, ok := KindFor(m.CurrentPhase)
	if !ok {
		return m, ErrNotDrafting
	}

	var candidates []string
	for _, id := range roster.IDs() {
		if !m.taken(id) {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return m, ErrUnknownCharacter
	}

	return Apply(m, Action{
		ActorID:     *m.CurrentTurn,
		Kind:        kind,
		CharacterID: chooseRandom(candidates),
	})
}

// CommitTeams records a participant's split of their picks into two teams of
// three during preparation. Both teams together must use exactly the user's
// picked characters, each once.
func CommitTeams(m Match, userID int64, team1, team2 []string) (Match, error) {
	if m.Status != StatusPreparation {
		return m, ErrNotPreparing
	}
	if !m.IsParticipant(userID) {
		return m, ErrNotParticipant
	}

	rules := RulesFor(m.Mode)
	half := rules.TotalPicks() / 2
	if len(team1) != half || len(team2) != half {
		return m, ErrBadTeams
	}

	picks := m.Picks[userID]
	combined := append(append([]string(nil), team1...), team2...)
	if len(combined) != len(picks) {
		return m, ErrBadTeams
	}
	seen := make(map[string]bool, len(combined))
	for _, id := range combined {
		if seen[id] || !slices.Contains(picks, id) {
			return m, ErrBadTeams
		}
		seen[id] = true
	}

	out := m.Clone()
	out.Teams[userID] = Teams{
		Team1: append([]string(nil), team1...),
		Team2: append([]string(nil), team2...),
	}
	return out, nil
}
