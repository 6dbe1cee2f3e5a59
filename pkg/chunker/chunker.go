package chunker

import "strings"

// Split breaks free text into sentence chunks for embedding.
// Sentences are delimited by '.', whitespace-only fragments are dropped,
// and each retained chunk gets its trailing period back so the stored
// document reads as a complete sentence.
func Split(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	parts := strings.Split(trimmed, ".")
	chunks := make([]string, 0, len(parts))
	for _, part := range parts {
		sentence := strings.TrimSpace(part)
		if sentence == "" {
			continue
		}
		chunks = append(chunks, sentence+".")
	}

	// Input without any period still yields one embeddable chunk.
	if len(chunks) == 0 {
		return []string{trimmed + "."}
	}

	return chunks
}
