package console

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/abhisek/echotutor/internal/content"
	"github.com/abhisek/echotutor/internal/llm"
	"github.com/abhisek/echotutor/internal/session"
)

// ErrNotRecording is returned by StopVoice without a recording.
var ErrNotRecording = errors.New("not recording")

// Recorder files answers under root/<item number>/. The console has no
// microphone, so a voice answer is a marker file noting its length.
type Recorder struct {
	root string
	now  func() time.Time

	mu      sync.Mutex
	item    *content.LessonItem
	started time.Time
}

var _ session.Recorder = (*Recorder)(nil)

func NewRecorder(root string) *Recorder {
	return &Recorder{root: root, now: time.Now}
}

func (r *Recorder) StartVoice(item *content.LessonItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.item != nil {
		return fmt.Errorf("already recording item %d", r.item.Number)
	}
	r.item, r.started = item, r.now()
	return nil
}

func (r *Recorder) StopVoice() (session.Clip, error) {
	r.mu.Lock()
	item, started := r.item, r.started
	r.item = nil
	r.mu.Unlock()
	if item == nil {
		return session.Clip{}, ErrNotRecording
	}

	stopped := r.now()
	clip := session.Clip{Duration: stopped.Sub(started)}
	path, err := r.write(item, "voice", stopped, ".txt",
		[]byte(fmt.Sprintf("voice answer, %s\n", clip.Duration.Round(time.Millisecond))))
	if err != nil {
		return session.Clip{}, err
	}
	clip.Path = path
	return clip, nil
}

func (r *Recorder) SavePhoto(item *content.LessonItem, img llm.Image) (string, error) {
	ext := ".img"
	if exts, _ := mime.ExtensionsByType(img.MIMEType); len(exts) > 0 {
		ext = exts[0]
	}
	return r.write(item, "photo", r.now(), ext, img.Data)
}

func (r *Recorder) write(item *content.LessonItem, kind string, at time.Time, ext string, data []byte) (string, error) {
	dir := filepath.Join(r.root, fmt.Sprintf("%d", item.Number))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create answer directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s%s", kind, at.UTC().Format("20060102T150405.000"), ext))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save %s answer: %w", kind, err)
	}
	return path, nil
}
