package content

import (
	"sync/atomic"

	"github.com/abhisek/echotutor/internal/lang"
)

// LessonItem is one homework question. Everything except the translation
// cache is fixed when the pack is loaded.
type LessonItem struct {
	// Number is the item's numeric key, shared with its feedback item.
	Number int

	Question  string
	Diagram   string // path to the diagram image
	Narration string // path to the narration audio

	ScriptEnglish  string
	ScriptUrdu     string
	BrailleEnglish string
	BrailleUrdu    string

	contextPath string
	translation atomic.Pointer[string]
}

// SourceText returns the English question.
func (l *LessonItem) SourceText() string { return l.Question }

// Translation returns the cached Urdu question, if any.
func (l *LessonItem) Translation() (string, bool) { return load(&l.translation) }

// StoreTranslation caches text unless a translation is already cached and
// returns the cached value either way.
func (l *LessonItem) StoreTranslation(text string) string { return storeOnce(&l.translation, text) }

// Script returns the narration script in the given language.
func (l *LessonItem) Script(language lang.Language) string {
	if language == lang.Urdu {
		return l.ScriptUrdu
	}
	return l.ScriptEnglish
}

// Braille returns the braille rendering in the given language.
func (l *LessonItem) Braille(language lang.Language) string {
	if language == lang.Urdu {
		return l.BrailleUrdu
	}
	return l.BrailleEnglish
}

// FeedbackItem is the teacher's feedback on the lesson item with the same
// Number.
type FeedbackItem struct {
	Number            int
	Text              string
	BrailleCorrection string

	translation atomic.Pointer[string]
	primed      atomic.Bool
	spoken      atomic.Bool
}

// SourceText returns the English feedback.
func (f *FeedbackItem) SourceText() string { return f.Text }

// Translation returns the cached Urdu feedback, if any.
func (f *FeedbackItem) Translation() (string, bool) { return load(&f.translation) }

// StoreTranslation caches text unless a translation is already cached and
// returns the cached value either way.
func (f *FeedbackItem) StoreTranslation(text string) string { return storeOnce(&f.translation, text) }

// Primed reports whether the tutoring prompt has been sent for this item.
func (f *FeedbackItem) Primed() bool { return f.primed.Load() }

// MarkPrimed sets the primed flag and reports whether this call set it.
func (f *FeedbackItem) MarkPrimed() bool { return f.primed.CompareAndSwap(false, true) }

// Spoken reports whether the feedback has been read out.
func (f *FeedbackItem) Spoken() bool { return f.spoken.Load() }

// MarkSpoken sets the spoken flag and reports whether this call set it.
func (f *FeedbackItem) MarkSpoken() bool { return f.spoken.CompareAndSwap(false, true) }

// Translatable is an item with English source text and a write-once
// translation cache.
type Translatable interface {
	SourceText() string
	Translation() (string, bool)
	StoreTranslation(text string) string
}

// Primeable is a conversation owner whose priming happens at most once.
type Primeable interface {
	Primed() bool
	MarkPrimed() bool
}

var (
	_ Translatable = (*LessonItem)(nil)
	_ Translatable = (*FeedbackItem)(nil)
	_ Primeable    = (*FeedbackItem)(nil)
	_ Primeable    = (*OnceFlag)(nil)
)

func load(p *atomic.Pointer[string]) (string, bool) {
	if v := p.Load(); v != nil {
		return *v, true
	}
	return "", false
}

func storeOnce(p *atomic.Pointer[string], text string) string {
	if p.CompareAndSwap(nil, &text) {
		return text
	}
	return *p.Load()
}

// OnceFlag is a standalone Primeable for conversations that are not tied to
// a pack item. Copies of a state that share the pointer share the flag.
type OnceFlag struct {
	set atomic.Bool
}

func (f *OnceFlag) Primed() bool     { return f.set.Load() }
func (f *OnceFlag) MarkPrimed() bool { return f.set.CompareAndSwap(false, true) }
