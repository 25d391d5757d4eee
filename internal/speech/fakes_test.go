package speech

import (
	"context"
	"sync"

	"github.com/abhisek/echotutor/internal/lang"
)

// gatedSynth plays an utterance until release receives or ctx ends. With a
// nil release every utterance finishes immediately.
type gatedSynth struct {
	release chan struct{}
	started chan string

	mu         sync.Mutex
	spoken     []string
	playing    int
	maxPlaying int
}

func newGatedSynth() *gatedSynth {
	return &gatedSynth{release: make(chan struct{}), started: make(chan string, 64)}
}

func (g *gatedSynth) Speak(ctx context.Context, u Utterance) error {
	g.mu.Lock()
	g.playing++
	g.maxPlaying = max(g.maxPlaying, g.playing)
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.playing--
		g.mu.Unlock()
	}()

	if g.started != nil {
		g.started <- u.Text
	}
	if g.release != nil {
		select {
		case <-g.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	g.mu.Lock()
	g.spoken = append(g.spoken, u.Text)
	g.mu.Unlock()
	return nil
}

func (g *gatedSynth) Spoken() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.spoken...)
}

func (g *gatedSynth) MaxPlaying() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.maxPlaying
}

// scriptedRecognizer returns text, or blocks until ctx ends when block is set.
type scriptedRecognizer struct {
	unavailable error
	text        string
	err         error
	block       bool

	called chan lang.Language
}

func (s *scriptedRecognizer) Available() error { return s.unavailable }

func (s *scriptedRecognizer) Recognize(ctx context.Context, language lang.Language) (string, error) {
	block, text, err := s.block, s.text, s.err
	if s.called != nil {
		s.called <- language
	}
	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return text, err
}
