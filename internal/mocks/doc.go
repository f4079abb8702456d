// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of interfaces used throughout the
// application so test packages share one set of mocks instead of defining
// inline copies. Each mock exposes function fields for per-test overrides and
// a reasonable in-memory default implementation.
//
// Usage:
//
//	import "github.com/flashgenius/flashgenius-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    generator := mocks.NewMockGeneratorWithError(generation.ErrEndpointUnavailable)
//
//	    // Use the mock in your test...
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Assert interface conformance with a var _ declaration
package mocks
