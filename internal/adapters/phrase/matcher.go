// Package phrase provides multi-phrase detection using an Aho-Corasick automaton.
// It wraps the petar-dambovaliev/aho-corasick library so a question is scanned once
// for every trigger phrase.
package phrase

import (
	aho "github.com/petar-dambovaliev/aho-corasick"
)

// Matcher implements ports.PhraseMatcher.
type Matcher struct {
	automaton aho.AhoCorasick
	phrases   []string
}

// NewMatcher compiles the automaton. Phrases are matched case-sensitively;
// callers lower-case both sides.
func NewMatcher(phrases []string) *Matcher {
	p := make([]string, len(phrases))
	copy(p, phrases)
	if len(p) == 0 {
		return &Matcher{}
	}

	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	return &Matcher{
		automaton: builder.Build(p),
		phrases:   p,
	}
}

// First returns the lowest phrase index occurring anywhere in text.
// Overlapping iteration is used so a lower-priority phrase cannot hide a
// higher-priority one that shares its bytes.
func (m *Matcher) First(text string) (int, bool) {
	if len(m.phrases) == 0 {
		return -1, false
	}
	best := -1
	iter := m.automaton.IterOverlappingByte([]byte(text))
	for next := iter.Next(); next != nil; next = iter.Next() {
		if idx := next.Pattern(); best < 0 || idx < best {
			best = idx
		}
		if best == 0 {
			break
		}
	}
	return best, best >= 0
}

// Phrases returns the compiled phrases in priority order.
func (m *Matcher) Phrases() []string {
	out := make([]string, len(m.phrases))
	copy(out, m.phrases)
	return out
}
