package generation

import (
	"strings"

	"github.com/abhisek/echotutor/internal/lang"
)

// Split breaks text into sentences on the language's terminator. Each
// sentence keeps its terminator; a trailing fragment without one is kept
// as is. Empty pieces are dropped.
func Split(text string, language lang.Language) []string {
	term := language.Terminator()
	parts := strings.Split(text, term)
	var out []string
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if i < len(parts)-1 {
			p += term
		}
		out = append(out, p)
	}
	return out
}

// Segment returns the utterances to speak for a response: the first limit
// sentences, or the whole text as a single utterance when it has no
// terminator or no usable sentence.
func Segment(text string, language lang.Language, limit int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if !strings.Contains(text, language.Terminator()) {
		return []string{text}
	}
	sentences := Split(text, language)
	if len(sentences) == 0 {
		return []string{text}
	}
	if limit > 0 && len(sentences) > limit {
		sentences = sentences[:limit]
	}
	return sentences
}

// splitter turns a stream of fragments into complete sentences.
type splitter struct {
	term string
	buf  strings.Builder
}

func newSplitter(language lang.Language) *splitter {
	return &splitter{term: language.Terminator()}
}

// feed appends a fragment and returns the sentences it completed.
func (s *splitter) feed(fragment string) []string {
	s.buf.WriteString(fragment)
	pending := s.buf.String()

	var out []string
	for {
		i := strings.Index(pending, s.term)
		if i < 0 {
			break
		}
		if sentence := strings.TrimSpace(pending[:i]); sentence != "" {
			out = append(out, sentence+s.term)
		}
		pending = pending[i+len(s.term):]
	}
	s.buf.Reset()
	s.buf.WriteString(pending)
	return out
}

// flush returns the unterminated tail, if any.
func (s *splitter) flush() string {
	tail := strings.TrimSpace(s.buf.String())
	s.buf.Reset()
	return tail
}
