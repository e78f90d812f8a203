package rmaapi

import "errors"

var (
	// ErrMissingSeparators is returned by StartAnalyze when no separators are set.
	ErrMissingSeparators = errors.New("separators is empty")

	// ErrMissingHost is returned when a request names no redis host.
	ErrMissingHost = errors.New("host is empty")

	// ErrInvalidSortVar is returned by ParseSortVar for an unknown ordering.
	ErrInvalidSortVar = errors.New("invalid sort")

	// ErrWrongKeyType is returned by a KeyInfo accessor that does not match the key's type.
	ErrWrongKeyType = errors.New("wrong key type")
)
