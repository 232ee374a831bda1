package engine

import (
	"errors"
	"fmt"
)

var (
	ErrNotYourTurn     = errors.New("not your turn")
	ErrInvalidAction   = errors.New("invalid action")
	ErrInvalidPosition = errors.New("invalid position")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrWrongPhase      = errors.New("wrong phase for this action")
	ErrCannotAfford    = errors.New("cannot afford")
	ErrNoPriest        = errors.New("no priest available")
	ErrPlayerCount     = errors.New("unsupported number of players")

	// ErrPreconditionViolation is raised when a caller passes an argument
	// the rules forbid outright, such as a negative power amount.
	ErrPreconditionViolation = errors.New("precondition violation")
	// ErrInternal marks a broken engine invariant.
	ErrInternal = errors.New("internal invariant violated")
)

// fail panics with err wrapped in a formatted message. The core operations
// use it for contract violations the caller was expected to check first.
func fail(err error, format string, args ...any) {
	panic(fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...)))
}

func assert(cond bool, format string, args ...any) {
	if !cond {
		fail(ErrInternal, format, args...)
	}
}
