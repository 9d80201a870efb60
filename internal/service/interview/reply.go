package interview

import (
	"strings"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/protocol"
)

// ParseReply extracts the ordered utterances from a completion reply. The
// model is instructed to answer {"messages": [...]}, but free text comes
// back often enough that parse failures degrade to a single-element list
// carrying the raw reply instead of aborting the turn.
func ParseReply(raw string) []string {
	trimmed := strings.TrimSpace(raw)

	// Models frequently wrap JSON in a markdown fence.
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	parsed, err := protocol.ParseValue([]byte(trimmed))
	if err != nil {
		return []string{fallbackSegment(raw)}
	}

	messages, ok := parsed.Get("messages")
	if !ok {
		return []string{fallbackSegment(raw)}
	}
	items, ok := messages.AsArray()
	if !ok || len(items) == 0 {
		return []string{fallbackSegment(raw)}
	}

	segments := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.AsString(); ok && strings.TrimSpace(s) != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return []string{fallbackSegment(raw)}
	}
	return segments
}

func fallbackSegment(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "The interviewer did not produce a readable reply. Please repeat your answer."
	}
	return trimmed
}
