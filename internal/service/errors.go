package service

import "errors"

var (
	// ErrInvalidURL is returned before any fetch when the URL is missing or not http(s).
	ErrInvalidURL = errors.New("invalid URL")
	// ErrPageUnavailable wraps every fetch failure: transport errors, timeouts and non-2xx statuses.
	ErrPageUnavailable = errors.New("page unavailable")
)

const analysisErrorMessage = "Error during analysis"
