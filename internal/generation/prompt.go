package generation

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

// SystemPrompt pins the model's role for every provider. Keeping it identical
// across providers keeps their output parseable by the same pipeline.
const SystemPrompt = "You are an expert educator who creates high-quality educational flashcards. " +
	"Always respond with valid JSON format containing an array of flashcard objects."

//go:embed prompt.tmpl
var promptTemplateText string

var promptTemplate = template.Must(template.New("flashcards").Parse(promptTemplateText))

// BuildPrompt renders the instruction prompt for a generation request. The
// same request always renders the same prompt.
func BuildPrompt(req Request) (string, error) {
	if req.Topic == "" {
		return "", ErrEmptyTopic
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, req); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return buf.String(), nil
}
