package generation

// Config holds generation settings.
type Config struct {
	// MaxSentences caps how many sentences of a response are spoken.
	MaxSentences int

	// Stream speaks sentences as they are generated. Blocking generation
	// is used when false, and as the fallback when streaming fails.
	Stream bool

	MaxTokens            int
	Temperature          float64
	TranslationMaxTokens int
}

// DefaultConfig returns sensible defaults for spoken tutoring answers.
func DefaultConfig() Config {
	return Config{
		MaxSentences:         3,
		Stream:               false,
		MaxTokens:            256,
		Temperature:          0.4,
		TranslationMaxTokens: 512,
	}
}
