package service

import "errors"

var (
	ErrMalformedInput       = errors.New("malformed input")
	ErrUnauthenticated      = errors.New("api key is missing")
	ErrInvalidRequest       = errors.New("invalid request")
	ErrEmptyQuery           = errors.New("query is empty")
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
	ErrNoMatch              = errors.New("no matching advertiser")
)
