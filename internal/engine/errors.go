package engine

import "errors"

var (
	ErrInvalidFilter = errors.New("invalid filter specification")
	ErrSuperseded    = errors.New("refresh superseded by a newer filter change")
)
