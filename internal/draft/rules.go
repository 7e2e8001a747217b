package draft

// PhaseOrder is the fixed forward-only phase sequence while drafting.
var PhaseOrder = []Phase{PhaseBan1, PhasePick1, PhaseBan2, PhasePick2}

// Ruleset is per-mode configuration. Modes only vary timers and labels; the
// algorithm is identical across them.
type Ruleset struct {
	Name            string
	Quotas          map[Phase]int // actions per user within that phase
	DefaultBanTime  int           // seconds
	DefaultPrepTime int
}

var rulesets = map[string]Ruleset{
	// Each user gets 2 bans and 6 picks per match, spread across the two
	// phases of each kind.
	"WhiWa": {
		Name:            "WhiWa",
		Quotas:          map[Phase]int{PhaseBan1: 1, PhasePick1: 3, PhaseBan2: 1, PhasePick2: 3},
		DefaultBanTime:  300,
		DefaultPrepTime: 420,
	},
	"ToA": {
		Name:            "ToA",
		Quotas:          map[Phase]int{PhaseBan1: 1, PhasePick1: 3, PhaseBan2: 1, PhasePick2: 3},
		DefaultBanTime:  180,
		DefaultPrepTime: 300,
	},
}

// RulesFor resolves a mode tag, falling back to WhiWa for anything unknown.
func RulesFor(mode string) Ruleset {
	if r, ok := rulesets[mode]; ok {
		return r
	}
	return rulesets["WhiWa"]
}

// KindFor maps a drafting phase to the action kind it expects.
func KindFor(p Phase) (Kind, bool) {
	switch p {
	case PhaseBan1, PhaseBan2:
		return KindBan, true
	case PhasePick1, PhasePick2:
		return KindPick, true
	default:
		return "", false
	}
}

// nextPhase returns the phase after p, or preparation past the end.
func nextPhase(p Phase) Phase {
	for i, cur := range PhaseOrder {
		if cur == p {
			if i+1 < len(PhaseOrder) {
				return PhaseOrder[i+1]
			}
			return PhasePreparation
		}
	}
	return PhasePreparation
}

// phaseCount returns how many actions userID has taken within phase p, given
// that Bans and Picks accumulate across both phases of each kind.
func (r Ruleset) phaseCount(m Match, p Phase, userID int64) int {
	switch p {
	case PhaseBan1:
		return len(m.Bans[userID])
	case PhaseBan2:
		return len(m.Bans[userID]) - r.Quotas[PhaseBan1]
	case PhasePick1:
		return len(m.Picks[userID])
	case PhasePick2:
		return len(m.Picks[userID]) - r.Quotas[PhasePick1]
	default:
		return 0
	}
}

// TotalPicks is the combined pick allotment per user.
func (r Ruleset) TotalPicks() int {
	return r.Quotas[PhasePick1] + r.Quotas[PhasePick2]
}
