// Package groq implements the generation.Generator interface on top of
// Groq's OpenAI-compatible chat completions API. The provider makes exactly
// one bounded HTTP call per generation request and classifies failures into
// the generation package's error taxonomy.
package groq
