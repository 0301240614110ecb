package game

import "fmt"

// IllegalActionError reports an action that is not a member of the legal
// action set at the time of application. The state it was applied to is
// left untouched; recovery is the caller's concern.
type IllegalActionError struct {
	Action Move
}

func NewIllegalActionError(action Move) *IllegalActionError {
	return &IllegalActionError{Action: action}
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal action %s", e.Action)
}

// InvalidConfigError reports a malformed or out-of-range rules value.
// It is fatal at session construction.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func NewInvalidConfigError(field, reason string) *InvalidConfigError {
	return &InvalidConfigError{Field: field, Reason: reason}
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s %s", e.Field, e.Reason)
}

// InvalidPositionError reports coordinates off the board or on a light
// square. A correct generator never produces one; seeing it means a
// caller bug.
type InvalidPositionError struct {
	Pos Position
}

func NewInvalidPositionError(pos Position) *InvalidPositionError {
	return &InvalidPositionError{Pos: pos}
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("invalid position (%d,%d)", e.Pos.Row, e.Pos.Col)
}
