// Package lang defines the languages a session can be conducted in.
package lang

import "fmt"

// Language is a session language.
type Language string

const (
	English Language = "en"
	Urdu    Language = "ur"
)

// Parse converts a language code into a Language.
func Parse(code string) (Language, error) {
	switch Language(code) {
	case English, Urdu:
		return Language(code), nil
	}
	return "", fmt.Errorf("unsupported language: %q", code)
}

// Other returns the language a switch command moves to.
func (l Language) Other() Language {
	if l == Urdu {
		return English
	}
	return Urdu
}

// Terminator is the sentence terminator used when segmenting text.
func (l Language) Terminator() string {
	if l == Urdu {
		return "۔"
	}
	return "."
}

// Name is the human-readable language name used in prompts.
func (l Language) Name() string {
	switch l {
	case Urdu:
		return "Urdu"
	default:
		return "English"
	}
}

// Tag is the BCP-47 tag passed to speech engines.
func (l Language) Tag() string {
	switch l {
	case Urdu:
		return "ur-PK"
	default:
		return "en-US"
	}
}
