// Package console provides terminal stand-ins for the device ports: a
// captioning synthesizer, a typed recognizer, a camera that replays image
// files and a recorder that writes answers to disk.
package console

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/echotutor/internal/lang"
	"github.com/abhisek/echotutor/internal/speech"
)

// clipLength is how long a recorded clip "plays" in the console.
const clipLength = 2 * time.Second

// Caption is one utterance shown instead of being spoken.
type Caption struct {
	Text  string
	Lang  lang.Language
	Audio string

	// Done is false when the utterance starts and true when it finished
	// or was stopped.
	Done    bool
	Stopped bool
}

// Synthesizer shows utterances as captions and holds the output for
// roughly as long as speaking them would take.
type Synthesizer struct {
	pacing   time.Duration
	captions chan Caption
	log      *zap.Logger
}

var _ speech.Synthesizer = (*Synthesizer)(nil)

// NewSynthesizer creates a synthesizer spending pacing per word.
func NewSynthesizer(pacing time.Duration, log *zap.Logger) *Synthesizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synthesizer{pacing: pacing, captions: make(chan Caption, 64), log: log.Named("synth")}
}

// Captions delivers caption events. Events are dropped when nobody reads.
func (s *Synthesizer) Captions() <-chan Caption { return s.captions }

// Speak captions u and blocks for its playing time.
func (s *Synthesizer) Speak(ctx context.Context, u speech.Utterance) error {
	c := Caption{Text: u.Text, Lang: u.Lang, Audio: u.Audio}
	s.emit(c)

	timer := time.NewTimer(s.duration(u))
	defer timer.Stop()
	select {
	case <-timer.C:
		c.Done = true
		s.emit(c)
		return nil
	case <-ctx.Done():
		c.Done, c.Stopped = true, true
		s.emit(c)
		return ctx.Err()
	}
}

func (s *Synthesizer) duration(u speech.Utterance) time.Duration {
	if u.Audio != "" {
		return clipLength
	}
	return time.Duration(len(strings.Fields(u.Text))) * s.pacing
}

func (s *Synthesizer) emit(c Caption) {
	select {
	case s.captions <- c:
	default:
		s.log.Debug("caption dropped", zap.String("text", c.Text))
	}
}
