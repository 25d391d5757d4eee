// Package command maps recognized speech to the small set of voice
// commands understood on the lesson and feedback screens.
package command

import (
	"strings"
	"unicode"
)

// Command is a named voice command.
type Command int

const (
	// Unknown means no keyword matched.
	Unknown Command = iota
	Listen
	Switch
	Repeat
	Ask
)

func (c Command) String() string {
	switch c {
	case Listen:
		return "listen"
	case Switch:
		return "switch"
	case Repeat:
		return "repeat"
	case Ask:
		return "ask"
	default:
		return "unknown"
	}
}

// keywords lists the English and Urdu phrases for each command. Matching
// is by substring, so "please repeat that" is a repeat.
var keywords = map[Command][]string{
	Listen: {"listen", "play", "سنو", "سنائیں"},
	Switch: {"switch", "change language", "بدلو", "تبدیل"},
	Repeat: {"repeat", "again", "دوبارہ", "دہرائیں"},
	Ask:    {"ask", "question", "پوچھو", "سوال"},
}

// fillers are words that may follow an ask keyword without forming a
// question, as in "ask a question" or "سوال پوچھو".
var fillers = map[string]bool{
	"a": true, "an": true, "the": true, "me": true, "please": true,
	"question": true, "questions": true, "something": true, "ask": true,
	"سوال": true, "پوچھو": true, "پوچھیں": true, "پوچھنا": true,
	"ایک": true, "کریں": true, "ہے": true,
}

// Result is an interpreted utterance.
type Result struct {
	Command Command
	Keyword string

	// Rest is the text following the keyword with surrounding space and
	// punctuation trimmed. For Ask it is an inline question, empty when
	// only filler words followed the keyword.
	Rest string
}

// Interpret finds the keyword occurring earliest in text, ignoring case.
// When two keywords start at the same position the longer one wins.
func Interpret(text string) Result {
	lower, offsets := fold(text)

	best := Result{Command: Unknown}
	at := -1
	for cmd, words := range keywords {
		for _, w := range words {
			i := strings.Index(lower, w)
			if i < 0 {
				continue
			}
			if at < 0 || i < at || (i == at && len(w) > len(best.Keyword)) {
				at = i
				best = Result{Command: cmd, Keyword: w}
			}
		}
	}
	if at < 0 {
		return best
	}
	best.Rest = strings.TrimFunc(text[offsets[at+len(best.Keyword)]:], trimmable)
	if best.Command == Ask && onlyFillers(best.Rest) {
		best.Rest = ""
	}
	return best
}

// fold lowercases text rune by rune. offsets maps every rune boundary in
// the folded string, and its end, to the same boundary in text; lowering
// can change a rune's encoded length.
func fold(text string) (string, map[int]int) {
	var b strings.Builder
	b.Grow(len(text))
	offsets := make(map[int]int, len(text)+1)
	for i, r := range text {
		offsets[b.Len()] = i
		b.WriteRune(unicode.ToLower(r))
	}
	offsets[b.Len()] = len(text)
	return b.String(), offsets
}

func onlyFillers(rest string) bool {
	for _, w := range strings.Fields(strings.ToLower(rest)) {
		if w = strings.TrimFunc(w, trimmable); w != "" && !fillers[w] {
			return false
		}
	}
	return true
}

func trimmable(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsPunct(r)
}
