// Package view derives the UI-facing flags a client needs from a match
// snapshot and the viewer's identity. Pure functions only; the server and
// tests share them with any Go client code.
package view

import "github.com/kuro-gg/wuwa-draft-backend/internal/draft"

type Flags struct {
	IsHost        bool `json:"isHost"`
	IsGuest       bool `json:"isGuest"`
	IsParticipant bool `json:"isParticipant"`
	IsSpectator   bool `json:"isSpectator"`
	IsMyTurn      bool `json:"isMyTurn"`
}

// For computes the viewer's flags for a snapshot. An unauthenticated viewer
// (id 0) is always a spectator.
func For(m draft.Match, viewerID int64) Flags {
	f := Flags{
		IsHost:  viewerID != 0 && viewerID == m.HostID,
		IsGuest: viewerID != 0 && m.GuestID != nil && viewerID == *m.GuestID,
	}
	f.IsParticipant = f.IsHost || f.IsGuest
	f.IsSpectator = !f.IsParticipant
	f.IsMyTurn = f.IsParticipant &&
		m.Status == draft.StatusDrafting &&
		m.CurrentTurn != nil &&
		*m.CurrentTurn == viewerID
	return f
}
