package models

import "errors"

var (
	// ErrNotFound is returned when a minutes record or media object is missing.
	ErrNotFound = errors.New("not found")
	// ErrBadRequest is returned when a job cannot succeed as requested.
	ErrBadRequest = errors.New("bad request")
	// ErrUnsupportedMedia is returned for containers the transcriber cannot read.
	ErrUnsupportedMedia = errors.New("unsupported media type")
)
