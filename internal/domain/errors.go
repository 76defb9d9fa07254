package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrShowNotFound indicates the requested show does not exist
	ErrShowNotFound = errors.New("show not found")

	// ErrSeasonNotFound indicates the requested season does not exist
	ErrSeasonNotFound = errors.New("season not found")

	// ErrServerOffline indicates the metadata server is unreachable
	ErrServerOffline = errors.New("metadata server is unreachable")

	// ErrAuthFailed indicates the API key was rejected
	ErrAuthFailed = errors.New("api key is invalid")
)
