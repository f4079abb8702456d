package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Generator and store errors pass through unwrapped so their sentinels stay checkable
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrTopicTooLong indicates the requested topic exceeds the configured
	// maximum length. The API layer should map this to HTTP 400 Bad Request.
	ErrTopicTooLong = errors.New("topic exceeds maximum length")
)
