package generation

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/flashgenius/flashgenius-api/internal/domain"
)

// ParseOutcome tags how a model response was turned into cards. Callers must
// handle every value; there is no implicit empty-success case.
type ParseOutcome int

const (
	// ParsedStructured means the response carried the requested JSON shape.
	ParsedStructured ParseOutcome = iota

	// ParsedHeuristic means JSON parsing failed and cards were recovered from
	// question/answer line patterns.
	ParsedHeuristic

	// ParseFailed means both strategies produced zero cards.
	ParseFailed
)

// String returns a log-friendly name for the outcome.
func (o ParseOutcome) String() string {
	switch o {
	case ParsedStructured:
		return "structured"
	case ParsedHeuristic:
		return "heuristic"
	case ParseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ParseResult is the tagged result of parsing a raw model completion.
type ParseResult struct {
	Outcome ParseOutcome
	Cards   []domain.Flashcard
}

// rawCard mirrors the JSON card shape the prompt asks the model to produce.
type rawCard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Heuristic line patterns. A question line is "Q:", "Question:", "Question 3:"
// or a numbered list marker; an answer line is "A:" or "Answer:". Separators
// may be a colon, period, closing paren, or dash.
var (
	questionLineRegex = regexp.MustCompile(`(?i)^(?:q(?:uestion)?\s*\d*\s*[:.)-]|\d+\s*[.)])\s*(\S.*)$`)
	answerLineRegex   = regexp.MustCompile(`(?i)^a(?:nswer)?\s*\d*\s*[:.)-]\s*(\S.*)$`)
)

// ParseCards extracts flashcards from a raw model completion. It first tries
// the structured JSON shape the prompt requests (tolerating Markdown code
// fences and surrounding prose), then falls back to scanning for
// question/answer line pairs. The outcome reports which strategy produced the
// cards.
//
// A ParsedStructured result may carry zero cards: the JSON shape matched but
// no entry was usable. That is a successful parse with an empty yield, not a
// parse failure, and the heuristic does not run. ParseFailed always carries
// no cards.
func ParseCards(raw string) ParseResult {
	text := stripCodeFences(raw)

	if cards, matched := parseStructured(text); matched {
		return ParseResult{Outcome: ParsedStructured, Cards: cards}
	}

	if cards := parseHeuristic(raw); len(cards) > 0 {
		return ParseResult{Outcome: ParsedHeuristic, Cards: cards}
	}

	return ParseResult{Outcome: ParseFailed}
}

// NormalizeCards drops invalid cards, deduplicates by case-insensitive
// question text (first occurrence wins), and truncates the result to limit.
// Card order is preserved.
func NormalizeCards(cards []domain.Flashcard, limit int) []domain.Flashcard {
	seen := make(map[string]struct{}, len(cards))
	normalized := make([]domain.Flashcard, 0, len(cards))

	for _, card := range cards {
		card.Question = strings.TrimSpace(card.Question)
		card.Answer = strings.TrimSpace(card.Answer)
		if card.Validate() != nil {
			continue
		}

		key := strings.ToLower(card.Question)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		normalized = append(normalized, card)
		if limit > 0 && len(normalized) == limit {
			break
		}
	}

	return normalized
}

// stripCodeFences removes a surrounding Markdown code fence, with or without
// a json language tag, from the response text.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if rest, ok := cutFoldPrefix(s, "json"); ok {
		s = rest
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}

// cutFoldPrefix trims prefix from s case-insensitively.
func cutFoldPrefix(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

// parseStructured attempts the JSON shapes the prompt asks for: an object
// {"flashcards": [...]} or a bare array of card objects. Models often wrap
// the JSON in prose, so the outermost object or array is carved out before
// unmarshalling. Entries with a blank question or answer are skipped.
//
// The boolean reports whether either shape matched at all, independently of
// how many entries survived; callers use it to tell "parsed but empty" apart
// from "nothing parseable".
func parseStructured(text string) ([]domain.Flashcard, bool) {
	if object, ok := carve(text, '{', '}'); ok {
		var wrapper struct {
			Flashcards []rawCard `json:"flashcards"`
		}
		if err := json.Unmarshal([]byte(object), &wrapper); err == nil && wrapper.Flashcards != nil {
			return convertRawCards(wrapper.Flashcards), true
		}
	}

	if array, ok := carve(text, '[', ']'); ok {
		var entries []rawCard
		if err := json.Unmarshal([]byte(array), &entries); err == nil {
			return convertRawCards(entries), true
		}
	}

	return nil, false
}

// carve returns the substring from the first opening delimiter to the last
// closing delimiter, inclusive.
func carve(text string, opening, closing byte) (string, bool) {
	start := strings.IndexByte(text, opening)
	end := strings.LastIndexByte(text, closing)
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// convertRawCards maps JSON entries onto domain cards, trimming fields and
// dropping entries missing either side.
func convertRawCards(entries []rawCard) []domain.Flashcard {
	cards := make([]domain.Flashcard, 0, len(entries))
	for _, entry := range entries {
		question := strings.TrimSpace(entry.Question)
		answer := strings.TrimSpace(entry.Answer)
		if question == "" || answer == "" {
			continue
		}
		cards = append(cards, domain.Flashcard{Question: question, Answer: answer})
	}
	return cards
}

// parseHeuristic recovers cards from question/answer line patterns. A question
// line opens a pending card; the next answer line completes it. Questions that
// never receive an answer are dropped, as are answers with no open question.
func parseHeuristic(raw string) []domain.Flashcard {
	var cards []domain.Flashcard
	var pendingQuestion string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := answerLineRegex.FindStringSubmatch(line); m != nil {
			if pendingQuestion != "" {
				cards = append(cards, domain.Flashcard{
					Question: pendingQuestion,
					Answer:   strings.TrimSpace(m[1]),
				})
				pendingQuestion = ""
			}
			continue
		}

		if m := questionLineRegex.FindStringSubmatch(line); m != nil {
			pendingQuestion = strings.TrimSpace(m[1])
		}
	}

	return cards
}
