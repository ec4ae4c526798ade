package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("ledger record not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTimezoneNotSet  = errors.New("timezone is not set")
	ErrNegativeTotal   = errors.New("subtraction would drive the daily total negative")
	ErrTimeNotAligned  = errors.New("time is not a multiple of 5 minutes")
	ErrNoEntries       = errors.New("no calorie entries for the requested date")
)
