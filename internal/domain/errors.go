package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a client acts without an open attempt.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrInvalidTransition is returned when an action does not apply to the current state.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrOptionOutOfRange indicates a selected option index is not one of the question's options.
	ErrOptionOutOfRange = errors.New("option out of range")
	// ErrRecordNotFound indicates no result record is stored under the key.
	ErrRecordNotFound = errors.New("result record not found")
	// ErrMalformedRecord indicates a stored result record could not be decoded.
	ErrMalformedRecord = errors.New("malformed result record")
	// ErrActionUnavailable is returned when a result view action is not offered in its state.
	ErrActionUnavailable = errors.New("action unavailable")
)
