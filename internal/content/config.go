package content

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds content store settings.
type Config struct {
	// Root is the directory holding the lessons/ and feedback/ packs.
	Root string

	// ContextTTL is how long a diagram context stays cached after it is
	// first read.
	ContextTTL time.Duration
}

// DefaultConfig returns sensible defaults for the content store.
func DefaultConfig() Config {
	return Config{
		Root:       "content",
		ContextTTL: 30 * time.Minute,
	}
}

// ConfigFromEnv reads ECHOTUTOR_CONTENT, falling back to
// $XDG_DATA_HOME/echotutor/content when that directory exists.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if root := os.Getenv("ECHOTUTOR_CONTENT"); root != "" {
		cfg.Root = root
		return cfg
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		dir := filepath.Join(xdg, "echotutor", "content")
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			cfg.Root = dir
		}
	}
	return cfg
}
