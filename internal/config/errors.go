package config

import "errors"

var (
	// ErrConfigNotFound is returned when an explicitly requested config file
	// does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidLogFormat is returned when log.format is neither json nor text.
	ErrInvalidLogFormat = errors.New("invalid log format: must be json or text")
)
