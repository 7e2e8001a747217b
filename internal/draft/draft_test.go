package draft

import (
	"errors"
	"reflect"
	"testing"
)

const (
	hostID  int64 = 1
	guestID int64 = 2
)

func draftingMatch() Match {
	m := NewMatch(hostID, "WhiWa", 300, 420)
	m.ID = 7
	m, err := Join(m, guestID)
	if err != nil {
		panic(err)
	}
	return m
}

func turn(m Match) int64 {
	if m.CurrentTurn == nil {
		return 0
	}
	return *m.CurrentTurn
}

func TestNewMatchDefaults(t *testing.T) {
	m := NewMatch(hostID, "", 0, 0)
	if m.Status != StatusWaiting || m.CurrentPhase != PhaseConfig {
		t.Fatalf("want waiting/config, got %s/%s", m.Status, m.CurrentPhase)
	}
	if m.Mode != "WhiWa" || m.BanTime != 300 || m.PrepTime != 420 {
		t.Fatalf("unexpected defaults: %s %d %d", m.Mode, m.BanTime, m.PrepTime)
	}
	if m.CurrentTurn != nil {
		t.Fatalf("no turn applies while waiting")
	}
}

func TestJoin(t *testing.T) {
	m := NewMatch(hostID, "WhiWa", 300, 420)

	joined, err := Join(m, guestID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if joined.Status != StatusDrafting || joined.CurrentPhase != PhaseBan1 {
		t.Fatalf("want drafting/ban1, got %s/%s", joined.Status, joined.CurrentPhase)
	}
	if turn(joined) != hostID {
		t.Fatalf("host opens the draft, got turn=%d", turn(joined))
	}

	// host re-join is a no-op
	again, err := Join(joined, hostID)
	if err != nil {
		t.Fatalf("host rejoin: %v", err)
	}
	if !reflect.DeepEqual(again, joined) {
		t.Fatalf("host rejoin must not change the match")
	}

	// third user bounces
	if _, err := Join(joined, 99); !errors.Is(err, ErrMatchFull) {
		t.Fatalf("want ErrMatchFull, got %v", err)
	}
}

func TestApplyValidationOrder(t *testing.T) {
	cases := []struct {
		name    string
		setup   func() Match
		action  Action
		wantErr error
	}{
		{
			name:    "not drafting",
			setup:   func() Match { return NewMatch(hostID, "WhiWa", 300, 420) },
			action:  Action{ActorID: hostID, Kind: KindBan, CharacterID: "jiyan"},
			wantErr: ErrNotDrafting,
		},
		{
			name:    "wrong turn",
			setup:   draftingMatch,
			action:  Action{ActorID: guestID, Kind: KindBan, CharacterID: "jiyan"},
			wantErr: ErrNotYourTurn,
		},
		{
			name:    "unknown character",
			setup:   draftingMatch,
			action:  Action{ActorID: hostID, Kind: KindBan, CharacterID: "ahri"},
			wantErr: ErrUnknownCharacter,
		},
		{
			name: "duplicate across users and kinds",
			setup: func() Match {
				m := draftingMatch()
				m.Bans[hostID] = []string{"jiyan"}
				g := guestID
				m.CurrentTurn = &g
				return m
			},
			action:  Action{ActorID: guestID, Kind: KindBan, CharacterID: "jiyan"},
			wantErr: ErrCharacterTaken,
		},
		{
			name:    "pick during ban phase",
			setup:   draftingMatch,
			action:  Action{ActorID: hostID, Kind: KindPick, CharacterID: "jiyan"},
			wantErr: ErrWrongKind,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := tc.setup()
			after, err := Apply(before, tc.action)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
			if !reflect.DeepEqual(after, before) {
				t.Fatalf("rejection must leave the match unchanged")
			}
		})
	}
}

func TestApplyAppendsAndAlternatesTurn(t *testing.T) {
	m := draftingMatch()

	m, err := Apply(m, Action{ActorID: hostID, Kind: KindBan, CharacterID: "jiyan"})
	if err != nil {
		t.Fatalf("host ban: %v", err)
	}
	if got := m.Bans[hostID]; len(got) != 1 || got[0] != "jiyan" {
		t.Fatalf("want bans[host]=[jiyan], got %v", got)
	}
	if turn(m) != guestID {
		t.Fatalf("turn must flip to guest, got %d", turn(m))
	}

	// duplicate by the other user is rejected and changes nothing
	rejected, err := Apply(m, Action{ActorID: guestID, Kind: KindBan, CharacterID: "jiyan"})
	if !errors.Is(err, ErrCharacterTaken) {
		t.Fatalf("want ErrCharacterTaken, got %v", err)
	}
	if !reflect.DeepEqual(rejected, m) {
		t.Fatalf("rejected action mutated the match")
	}
}

// runDraft drives a full legal draft and asserts the invariants along the
// way: strict alternation, forward-only phases, global uniqueness.
func TestFullDraftScenario(t *testing.T) {
	m := draftingMatch()

	phaseRank := map[Phase]int{
		PhaseBan1: 0, PhasePick1: 1, PhaseBan2: 2, PhasePick2: 3, PhasePreparation: 4,
	}

	pool := []string{
		"jiyan", "yinlin", "calcharo", "verina", "jianxin", "lingyang",
		"encore", "rover_spectro", "rover_havoc", "baizhi", "sanhua",
		"yangyang", "chixia", "danjin", "mortefi", "taoqi",
	}
	next := 0

	seen := map[string]bool{}
	lastRank := phaseRank[m.CurrentPhase]

	for m.Status == StatusDrafting {
		actor := turn(m)
		kind, ok := KindFor(m.CurrentPhase)
		if !ok {
			t.Fatalf("drafting match in phase %s", m.CurrentPhase)
		}
		id := pool[next]
		next++

		out, err := Apply(m, Action{ActorID: actor, Kind: kind, CharacterID: id})
		if err != nil {
			t.Fatalf("step %d (%s %s): %v", next, kind, id, err)
		}
		if seen[id] {
			t.Fatalf("character %s used twice", id)
		}
		seen[id] = true

		if out.Status == StatusDrafting && turn(out) == actor {
			t.Fatalf("turn did not alternate after %s", id)
		}
		if phaseRank[out.CurrentPhase] < lastRank {
			t.Fatalf("phase regressed from rank %d to %s", lastRank, out.CurrentPhase)
		}
		lastRank = phaseRank[out.CurrentPhase]
		m = out
	}

	if m.Status != StatusPreparation || m.CurrentPhase != PhasePreparation {
		t.Fatalf("want preparation, got %s/%s", m.Status, m.CurrentPhase)
	}
	if m.CurrentTurn != nil {
		t.Fatalf("turn must clear on entering preparation")
	}
	if len(m.Bans[hostID]) != 2 || len(m.Bans[guestID]) != 2 {
		t.Fatalf("want 2 bans each, got %d/%d", len(m.Bans[hostID]), len(m.Bans[guestID]))
	}
	if len(m.Picks[hostID]) != 6 || len(m.Picks[guestID]) != 6 {
		t.Fatalf("want 6 picks each, got %d/%d", len(m.Picks[hostID]), len(m.Picks[guestID]))
	}
}

func TestPhaseAdvance(t *testing.T) {
	m := draftingMatch()

	m, err := Apply(m, Action{ActorID: hostID, Kind: KindBan, CharacterID: "jiyan"})
	if err != nil {
		t.Fatalf("host ban: %v", err)
	}
	if m.CurrentPhase != PhaseBan1 {
		t.Fatalf("phase advanced early: %s", m.CurrentPhase)
	}

	m, err = Apply(m, Action{ActorID: guestID, Kind: KindBan, CharacterID: "yinlin"})
	if err != nil {
		t.Fatalf("guest ban: %v", err)
	}
	if m.CurrentPhase != PhasePick1 {
		t.Fatalf("want pick1 after both ban1 quotas, got %s", m.CurrentPhase)
	}
	if turn(m) != hostID {
		t.Fatalf("alternation continues across phases, got turn=%d", turn(m))
	}

	// a further ban in pick1 is the wrong kind
	if _, err := Apply(m, Action{ActorID: hostID, Kind: KindBan, CharacterID: "verina"}); !errors.Is(err, ErrWrongKind) {
		t.Fatalf("want ErrWrongKind, got %v", err)
	}
}

func TestAutoActionPicksLegalCharacter(t *testing.T) {
	restore := chooseRandom
	defer func() { chooseRandom = restore }()
	chooseRandom = func(candidates []string) string { return candidates[0] }

	m := draftingMatch()
	// jiyan is already gone, so the first remaining candidate is yinlin.
	m.Picks[guestID] = []string{"jiyan"}

	out, err := AutoAction(m)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got := out.Bans[hostID]
	if len(got) != 1 || got[0] != "yinlin" {
		t.Fatalf("want auto ban [yinlin] for the host, got %v", got)
	}
	if turn(out) != guestID {
		t.Fatalf("auto action must advance the turn")
	}
}

func TestAutoActionOutsideDrafting(t *testing.T) {
	m := NewMatch(hostID, "WhiWa", 300, 420)
	if _, err := AutoAction(m); !errors.Is(err, ErrNotDrafting) {
		t.Fatalf("want ErrNotDrafting, got %v", err)
	}
}

func TestCommitTeams(t *testing.T) {
	prep := func() Match {
		m := draftingMatch()
		m.Status = StatusPreparation
		m.CurrentPhase = PhasePreparation
		m.CurrentTurn = nil
		m.Picks[hostID] = []string{"jiyan", "yinlin", "calcharo", "verina", "jianxin", "lingyang"}
		return m
	}

	cases := []struct {
		name         string
		setup        func() Match
		userID       int64
		team1, team2 []string
		wantErr      error
	}{
		{
			name:   "valid split",
			setup:  prep,
			userID: hostID,
			team1:  []string{"jiyan", "yinlin", "calcharo"},
			team2:  []string{"verina", "jianxin", "lingyang"},
		},
		{
			name:    "not preparing",
			setup:   draftingMatch,
			userID:  hostID,
			team1:   []string{"jiyan", "yinlin", "calcharo"},
			team2:   []string{"verina", "jianxin", "lingyang"},
			wantErr: ErrNotPreparing,
		},
		{
			name:    "spectator cannot commit",
			setup:   prep,
			userID:  42,
			team1:   []string{"jiyan", "yinlin", "calcharo"},
			team2:   []string{"verina", "jianxin", "lingyang"},
			wantErr: ErrNotParticipant,
		},
		{
			name:    "character repeated across teams",
			setup:   prep,
			userID:  hostID,
			team1:   []string{"jiyan", "yinlin", "calcharo"},
			team2:   []string{"jiyan", "jianxin", "lingyang"},
			wantErr: ErrBadTeams,
		},
		{
			name:    "unpicked character",
			setup:   prep,
			userID:  hostID,
			team1:   []string{"jiyan", "yinlin", "taoqi"},
			team2:   []string{"verina", "jianxin", "lingyang"},
			wantErr: ErrBadTeams,
		},
		{
			name:    "wrong team size",
			setup:   prep,
			userID:  hostID,
			team1:   []string{"jiyan", "yinlin"},
			team2:   []string{"verina", "jianxin", "lingyang"},
			wantErr: ErrBadTeams,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := tc.setup()
			out, err := CommitTeams(before, tc.userID, tc.team1, tc.team2)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				if !reflect.DeepEqual(out, before) {
					t.Fatalf("rejection mutated the match")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			teams := out.Teams[tc.userID]
			if !reflect.DeepEqual(teams.Team1, tc.team1) || !reflect.DeepEqual(teams.Team2, tc.team2) {
				t.Fatalf("teams not recorded: %+v", teams)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := draftingMatch()
	m.Bans[hostID] = []string{"jiyan"}

	c := m.Clone()
	c.Bans[hostID][0] = "yinlin"
	c.Picks[guestID] = append(c.Picks[guestID], "verina")

	if m.Bans[hostID][0] != "jiyan" {
		t.Fatalf("clone shares ban slices with the original")
	}
	if len(m.Picks[guestID]) != 0 {
		t.Fatalf("clone shares pick map with the original")
	}
}
