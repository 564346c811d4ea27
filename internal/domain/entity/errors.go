package entity

import "errors"

var (
	// ErrUnknownDocument is returned for an id outside the checklist
	ErrUnknownDocument = errors.New("unknown document slot")
)
