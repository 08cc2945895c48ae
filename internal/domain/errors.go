package domain

import "errors"

// Room errors
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrGameInProgress      = errors.New("game already in progress")
	ErrNotHost             = errors.New("only the host can perform this action")
	ErrNotInRoom           = errors.New("user is not in the room")
	ErrInsufficientPlayers = errors.New("not enough players to start a round")
	ErrRoundLimitReached   = errors.New("round limit reached")
)

// Round errors
var (
	ErrInvalidPhase    = errors.New("invalid phase for this action")
	ErrNotYourRole     = errors.New("your role cannot perform this action")
	ErrInvalidTarget   = errors.New("invalid target player")
	ErrPlayerDead      = errors.New("eliminated players cannot act")
	ErrAlreadyResolved = errors.New("round already resolved")
)
