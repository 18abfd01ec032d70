package model

import "errors"

var (
	// ErrNotConnected is returned when a send is attempted while the realtime channel is down.
	ErrNotConnected = errors.New("realtime channel is not connected")
	// ErrTokenExpired means the realtime connect token can no longer be used.
	ErrTokenExpired = errors.New("connect token expired")
	// ErrMalformedEvent marks an inbound event missing required fields.
	ErrMalformedEvent = errors.New("malformed event")
)
