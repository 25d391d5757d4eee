package session

import (
	"slices"

	"github.com/abhisek/echotutor/internal/chat"
	"github.com/abhisek/echotutor/internal/content"
	"github.com/abhisek/echotutor/internal/lang"
	"github.com/abhisek/echotutor/internal/llm"
)

// State is one immutable snapshot of the session. The concrete type is one
// of Loading, Home, Homework, Feedback or Spatial. States are replaced
// wholesale, never modified after they are published.
type State interface {
	Screen() Screen
	isState()
}

// Loading is the state before the content scan resolves.
type Loading struct{}

// Home is the menu screen.
type Home struct {
	Lessons  int
	Feedback int

	// LessonsMissing and FeedbackMissing are set when the scan could not
	// load the pack.
	LessonsMissing  bool
	FeedbackMissing bool

	Notice string
}

// Cursor is the position and mode shared by the item screens.
// Index always satisfies 0 <= Index < pack size.
type Cursor struct {
	Index    int
	Lang     lang.Language
	Mode     Mode
	Response string
	Notice   string
}

// Homework walks through lesson items.
type Homework struct {
	Pack *content.LessonPack
	Cursor
}

// Feedback walks through feedback items.
type Feedback struct {
	Pack *content.FeedbackPack
	Cursor
}

// Spatial is the photo conversation screen.
type Spatial struct {
	Lang       lang.Language
	Mode       Mode
	Photos     []llm.Image
	Transcript []chat.Message
	Streaming  string
	Primed     *content.OnceFlag
	Notice     string
}

func (Loading) Screen() Screen  { return ScreenLoading }
func (Home) Screen() Screen     { return ScreenHome }
func (Homework) Screen() Screen { return ScreenHomework }
func (Feedback) Screen() Screen { return ScreenFeedback }
func (Spatial) Screen() Screen  { return ScreenSpatial }

func (Loading) isState()  {}
func (Home) isState()     {}
func (Homework) isState() {}
func (Feedback) isState() {}
func (Spatial) isState()  {}

// Item returns the current lesson item.
func (h Homework) Item() *content.LessonItem {
	item, _ := h.Pack.At(h.Index)
	return item
}

// Item returns the current feedback item.
func (f Feedback) Item() *content.FeedbackItem {
	item, _ := f.Pack.At(f.Index)
	return item
}

// ModeOf returns the mode of s. Loading and Home have no modes and report
// Viewing.
func ModeOf(s State) Mode {
	switch s := s.(type) {
	case Homework:
		return s.Mode
	case Feedback:
		return s.Mode
	case Spatial:
		return s.Mode
	default:
		return Viewing
	}
}

// LangOf returns the language of s, English for screens without one.
func LangOf(s State) lang.Language {
	switch s := s.(type) {
	case Homework:
		return s.Lang
	case Feedback:
		return s.Lang
	case Spatial:
		return s.Lang
	default:
		return lang.English
	}
}

// Idle reports whether s is in its screen's idle mode.
func Idle(s State) bool {
	return ModeOf(s) == IdleMode(s.Screen())
}

// withMode returns a copy of s in mode m with the notice cleared.
func withMode(s State, m Mode) State {
	switch s := s.(type) {
	case Homework:
		s.Mode, s.Notice = m, ""
		return s
	case Feedback:
		s.Mode, s.Notice = m, ""
		return s
	case Spatial:
		s.Mode, s.Notice = m, ""
		if m != GemmaResponding {
			s.Streaming = ""
		}
		return s
	default:
		return s
	}
}

// withNotice returns a copy of s showing a notice.
func withNotice(s State, notice string) State {
	switch s := s.(type) {
	case Home:
		s.Notice = notice
		return s
	case Homework:
		s.Notice = notice
		return s
	case Feedback:
		s.Notice = notice
		return s
	case Spatial:
		s.Notice = notice
		return s
	default:
		return s
	}
}

// withTranscript returns a copy of sp with msgs appended. The transcript
// is cloned so earlier snapshots keep their own.
func (sp Spatial) withTranscript(msgs ...chat.Message) Spatial {
	sp.Transcript = append(slices.Clone(sp.Transcript), msgs...)
	return sp
}

// withoutPending drops loading placeholders from the transcript.
func (sp Spatial) withoutPending() Spatial {
	sp.Transcript = slices.DeleteFunc(slices.Clone(sp.Transcript), func(m chat.Message) bool { return m.Pending })
	return sp
}

// Snapshot is a published state with its version. Versions increase by one
// on every replacement.
type Snapshot struct {
	Version uint64
	State   State
}
