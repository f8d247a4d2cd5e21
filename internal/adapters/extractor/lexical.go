package extractor

import (
	"context"
	"strings"
	"unicode"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

// LexicalExtractor picks the context line sharing the most words with the question.
// It needs no model and serves as the offline fallback.
type LexicalExtractor struct {
	stopwords map[string]bool
}

// NewLexicalExtractor creates an offline extractor.
func NewLexicalExtractor() *LexicalExtractor {
	stop := map[string]bool{}
	for _, w := range []string{"apa", "apakah", "berapa", "yang", "di", "ke", "dari", "dan", "untuk", "adalah", "the", "what", "is", "of"} {
		stop[w] = true
	}
	return &LexicalExtractor{stopwords: stop}
}

// Extract scores every line after the first by question-word overlap.
// The first line of a table context is its header and only wins when it is the only line.
func (e *LexicalExtractor) Extract(ctx context.Context, question, context string) (entities.Answer, error) {
	if err := ctx.Err(); err != nil {
		return entities.Answer{}, err
	}

	terms := e.terms(question)
	lines := strings.Split(context, "\n")

	best, bestScore, bestStart := -1, -1.0, 0
	offset := 0
	for i, line := range lines {
		start := offset
		offset += len(line) + 1
		if strings.TrimSpace(line) == "" || (i == 0 && len(lines) > 1) {
			continue
		}
		score := overlap(terms, e.terms(line))
		if score > bestScore {
			best, bestScore, bestStart = i, score, start
		}
	}
	if best < 0 {
		return entities.Answer{Text: strings.TrimSpace(context), Start: -1, End: -1}, nil
	}

	line := lines[best]
	lead := len(line) - len(strings.TrimLeft(line, " \t"))
	text := strings.TrimSpace(line)
	return entities.Answer{
		Text:  text,
		Score: bestScore,
		Start: bestStart + lead,
		End:   bestStart + lead + len(text),
	}, nil
}

func (e *LexicalExtractor) terms(s string) map[string]bool {
	out := map[string]bool{}
	for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.'
	}) {
		w = strings.Trim(w, ".")
		if w != "" && !e.stopwords[w] {
			out[w] = true
		}
	}
	return out
}

// overlap is the share of question terms found in the line.
func overlap(question, line map[string]bool) float64 {
	if len(question) == 0 {
		return 0
	}
	hits := 0
	for w := range question {
		if line[w] {
			hits++
		}
	}
	return float64(hits) / float64(len(question))
}
