package session

import (
	"os"
	"strconv"
	"time"

	"github.com/abhisek/echotutor/internal/generation"
)

// Config holds session settings.
type Config struct {
	Generation generation.Config

	// CaptureTimeout bounds one camera capture.
	CaptureTimeout time.Duration

	// ListenTimeout bounds one recognition, including the wait for speech
	// output to finish.
	ListenTimeout time.Duration

	// WordPacing is how long a console synthesizer spends per word.
	WordPacing time.Duration

	// ContextTimeout bounds reading an item's diagram context.
	ContextTimeout time.Duration

	// Mailbox is the size of the reducer's inbox.
	Mailbox int
}

// DefaultConfig returns the default session settings.
func DefaultConfig() Config {
	return Config{
		Generation:     generation.DefaultConfig(),
		CaptureTimeout: 15 * time.Second,
		ListenTimeout:  20 * time.Second,
		WordPacing:     250 * time.Millisecond,
		ContextTimeout: 2 * time.Second,
		Mailbox:        64,
	}
}

// ConfigFromEnv returns DefaultConfig overridden by ECHOTUTOR_* variables.
// Unparseable values are ignored.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("ECHOTUTOR_STREAM"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Generation.Stream = b
		}
	}
	if v := os.Getenv("ECHOTUTOR_MAX_SENTENCES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Generation.MaxSentences = n
		}
	}
	durationEnv("ECHOTUTOR_CAPTURE_TIMEOUT", &cfg.CaptureTimeout)
	durationEnv("ECHOTUTOR_LISTEN_TIMEOUT", &cfg.ListenTimeout)
	durationEnv("ECHOTUTOR_WORD_PACING", &cfg.WordPacing)
	return cfg
}

func durationEnv(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			*dst = d
		}
	}
}
