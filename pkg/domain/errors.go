package domain

import "errors"

// ErrInvalidThreshold is returned when a commit threshold is not a positive finite number.
var ErrInvalidThreshold = errors.New("threshold must be a positive finite number")

// ErrGestureSettled is returned when input reaches a controller that already settled.
var ErrGestureSettled = errors.New("gesture already settled")

// ErrCommitInFlight is returned when a pointer goes down while a committed card is flying off.
var ErrCommitInFlight = errors.New("commit animation in flight")

// ErrNotDragging is returned when move/up events arrive without a preceding pointer-down.
var ErrNotDragging = errors.New("gesture is not dragging")

// ErrTokenExists is returned when a decoration token is spawned twice for the same index.
var ErrTokenExists = errors.New("token already exists for index")

// ErrInvalidIndex is returned for negative stacking indexes.
var ErrInvalidIndex = errors.New("stacking index must be >= 0")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrDeckExhausted is returned when input arrives after the last card was decided.
var ErrDeckExhausted = errors.New("no cards left in deck")
