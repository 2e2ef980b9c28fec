package assistant

import "github.com/techpal/techpal/internal/domain"

// Compact shrinks old history so long conversations keep fitting in the
// model's context window. The tail of the conversation — everything from the
// last plain-text user message on — is kept verbatim so in-flight tool
// exchanges survive intact. Older turns are reduced: plain-text turns stay,
// assistant block turns collapse to their text content, and tool-result
// turns are dropped entirely.
func Compact(history []domain.Turn, maxEntries int) []domain.Turn {
	if len(history) <= 4 {
		return history
	}

	lastUserIdx := 0
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleUser && history[i].IsText() {
			lastUserIdx = i
			break
		}
	}

	compacted := make([]domain.Turn, 0, len(history))
	for i, turn := range history {
		if i >= lastUserIdx {
			compacted = append(compacted, turn)
			continue
		}
		if turn.IsText() {
			compacted = append(compacted, turn)
			continue
		}
		if turn.Role == domain.RoleAssistant {
			if text := turn.JoinedText(); text != "" {
				compacted = append(compacted, domain.TextTurn(domain.RoleAssistant, text))
			}
			continue
		}
		// Old user block turns are tool results; drop them.
	}

	if len(compacted) > maxEntries {
		compacted = compacted[len(compacted)-maxEntries:]
	}

	// The API requires the first message to be from the user.
	for len(compacted) > 0 && compacted[0].Role != domain.RoleUser {
		compacted = compacted[1:]
	}

	return compacted
}
