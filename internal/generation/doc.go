// Package generation provides interfaces and shared machinery for turning a
// study topic into flashcards via an external LLM service. It abstracts the
// details of provider integration (Groq's OpenAI-compatible API, Gemini),
// allowing the application to generate flashcard sets without coupling to a
// specific external service. Response parsing is provider-agnostic and lives
// here so every provider classifies model output the same way.
package generation
