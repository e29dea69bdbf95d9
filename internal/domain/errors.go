package domain

import "errors"

var (
	// ErrEmptyNickname is returned when a connection is requested without a nickname.
	ErrEmptyNickname = errors.New("nickname must not be empty")
	// ErrEmptyRoomCode is returned when a connection is requested without a room code.
	ErrEmptyRoomCode = errors.New("room code must not be empty")
	// ErrMalformedSnapshot indicates an inbound snapshot missing fields its phase requires.
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	// ErrNotConnected indicates an action could not be queued for sending.
	ErrNotConnected = errors.New("not connected")
	// ErrInvalidQuiz indicates a quiz definition that the server would reject.
	ErrInvalidQuiz = errors.New("invalid quiz")
)
