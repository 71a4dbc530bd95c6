package errors

import "errors"

var (
	ErrChannelNotFound  = errors.New("channel not found")
	ErrAdFormatNotFound = errors.New("ad format not found")
)
