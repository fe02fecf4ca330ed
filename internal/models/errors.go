package models

import "errors"

var (
	ErrInvalidSymbol = errors.New("invalid symbol")
	ErrInvalidPrice  = errors.New("invalid price")
	ErrEmptySnapshot = errors.New("snapshot contains no market data")
)
