package draft

import "errors"

var (
	ErrNotDrafting      = errors.New("match is not drafting")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrUnknownCharacter = errors.New("unknown character")
	ErrCharacterTaken   = errors.New("character already banned or picked")
	ErrWrongKind        = errors.New("action kind does not match phase")
	ErrQuotaFull        = errors.New("phase quota reached")
	ErrMatchFull        = errors.New("match already has a guest")
	ErrNotPreparing     = errors.New("match is not in preparation")
	ErrNotParticipant   = errors.New("user is not a participant")
	ErrBadTeams         = errors.New("teams must split the user's picks into two teams of three")
)
