package room

import (
	"errors"

	"github.com/kuro-gg/wuwa-draft-backend/internal/draft"
	"github.com/kuro-gg/wuwa-draft-backend/internal/protocol"
	"github.com/kuro-gg/wuwa-draft-backend/internal/store"
)

// Code maps a rejection to its wire/API error code. Anything unrecognized is
// a transient internal failure the caller may retry.
func Code(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, draft.ErrNotYourTurn):
		return "INVALID_TURN"
	case errors.Is(err, draft.ErrWrongKind):
		return "INVALID_PHASE_ACTION"
	case errors.Is(err, draft.ErrCharacterTaken):
		return "DUPLICATE_SELECTION"
	case errors.Is(err, draft.ErrQuotaFull):
		return "CAPACITY_EXCEEDED"
	case errors.Is(err, draft.ErrUnknownCharacter):
		return "UNKNOWN_CHARACTER"
	case errors.Is(err, draft.ErrNotDrafting):
		return "NOT_DRAFTING"
	case errors.Is(err, draft.ErrMatchFull):
		return "MATCH_FULL"
	case errors.Is(err, draft.ErrNotPreparing):
		return "NOT_PREPARING"
	case errors.Is(err, draft.ErrNotParticipant):
		return "NOT_PARTICIPANT"
	case errors.Is(err, draft.ErrBadTeams):
		return "VALIDATION"
	default:
		return "INTERNAL"
	}
}

func errorMessage(err error) protocol.ServerMessage {
	return protocol.ServerMessage{
		Type:  protocol.EventError,
		Error: &protocol.ErrorInfo{Code: Code(err), Message: err.Error()},
	}
}
