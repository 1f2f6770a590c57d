package game

import "errors"

// 错误定义
var (
	ErrInvalidCard    = errors.New("invalid card")
	ErrDuplicateCard  = errors.New("card already exists")
	ErrCardNotHeld    = errors.New("card does not exist")
	ErrPlayerFinished = errors.New("player has finished the game")
	ErrNoCards        = errors.New("player has no card")
	ErrNotAPlayer     = errors.New("not a player object")
	ErrPlayerNotFound = errors.New("player not found")
	ErrTooFewPlayers  = errors.New("too few players")
	ErrTooManyPlayers = errors.New("too many players")
	ErrNotCompatible  = errors.New("not compatible with top card")

	ErrGameNotStarted = errors.New("game has not started")
	ErrGameStarted    = errors.New("game already started")
	ErrGameFinished   = errors.New("game already finished")

	// ErrTransitionNotAllowed is returned when a room phase transition is not allowed.
	ErrTransitionNotAllowed = errors.New("phase transition not allowed")
)
