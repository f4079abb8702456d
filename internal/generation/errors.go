package generation

import "errors"

// Common errors returned by the generation package. GenerateCards failures
// always wrap exactly one of these so callers can match with errors.Is.
var (
	// ErrEndpointUnavailable is returned when the inference endpoint cannot be
	// reached or answers with a transport-level failure (timeouts, connection
	// errors, 429, 5xx).
	ErrEndpointUnavailable = errors.New("inference endpoint unavailable")

	// ErrAuthFailure is returned when the inference endpoint rejects the
	// configured credentials.
	ErrAuthFailure = errors.New("inference endpoint rejected credentials")

	// ErrParseFailure is returned when the model response yields zero cards
	// under both the structured and the heuristic parsing strategies.
	ErrParseFailure = errors.New("could not parse cards from model response")

	// ErrEmptyResult is returned when the response parsed but no card survived
	// validation.
	ErrEmptyResult = errors.New("model response contained no usable cards")

	// ErrDisabled is returned when generation is switched off because no API
	// key is configured for the selected provider.
	ErrDisabled = errors.New("card generation is disabled")

	// ErrEmptyTopic is returned when the topic is blank after trimming.
	ErrEmptyTopic = errors.New("topic cannot be empty")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
