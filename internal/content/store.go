package content

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/echotutor/internal/lang"
)

// Store loads packs and the per-item model context.
type Store interface {
	LoadLessonPack(ctx context.Context) (*LessonPack, error)
	LoadFeedbackPack(ctx context.Context) (*FeedbackPack, error)
	ReadDiagramContext(ctx context.Context, item *LessonItem) (string, error)
}

// Translator turns English text into the target language.
type Translator interface {
	Translate(ctx context.Context, text string, to lang.Language) (string, error)
}

// Translate returns item's text in the target language. English is the
// source language and is returned as is. A cached translation is returned
// without calling tr; otherwise the result is cached and, if another
// caller won the race, the already cached value is returned.
func Translate(ctx context.Context, tr Translator, item Translatable, to lang.Language) (string, error) {
	if to == lang.English {
		return item.SourceText(), nil
	}
	if cached, ok := item.Translation(); ok {
		return cached, nil
	}
	text, err := tr.Translate(ctx, item.SourceText(), to)
	if err != nil {
		return "", fmt.Errorf("translate to %s: %w", to, err)
	}
	return item.StoreTranslation(text), nil
}

// Library is the outcome of a scan. A pack that failed to load is nil and
// its error is kept.
type Library struct {
	Lessons     *LessonPack
	Feedback    *FeedbackPack
	LessonErr   error
	FeedbackErr error
}

// Lesson returns the lesson item sharing the feedback item's number.
func (l Library) Lesson(number int) (*LessonItem, bool) {
	for _, it := range l.Lessons.Items() {
		if it.Number == number {
			return it, true
		}
	}
	return nil, false
}

// Scan loads both packs concurrently. A missing pack does not fail the
// scan; only context cancellation does.
func Scan(ctx context.Context, s Store, log *zap.Logger) (Library, error) {
	var lib Library
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lib.Lessons, lib.LessonErr = s.LoadLessonPack(gctx)
		return cancelled(lib.LessonErr)
	})
	g.Go(func() error {
		lib.Feedback, lib.FeedbackErr = s.LoadFeedbackPack(gctx)
		return cancelled(lib.FeedbackErr)
	})
	if err := g.Wait(); err != nil {
		return Library{}, err
	}

	log.Info("content scanned",
		zap.Int("lessons", lib.Lessons.Len()),
		zap.Int("feedback", lib.Feedback.Len()),
		zap.NamedError("lesson_err", lib.LessonErr),
		zap.NamedError("feedback_err", lib.FeedbackErr))
	return lib, nil
}

func cancelled(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
