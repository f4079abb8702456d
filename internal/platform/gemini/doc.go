// Package gemini provides an implementation of the generation.Generator
// interface backed by Google's Gemini API.
//
// The package is an infrastructure adapter: it owns client construction,
// request shaping, and the translation of transport failures into the
// generation package's error taxonomy. Prompt construction and response
// parsing are shared with the other providers through the generation
// package, so this adapter stays a thin transport layer.
package gemini
