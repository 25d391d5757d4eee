package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/echotutor/internal/store"
)

const journalBuffer = 128

// journal writes state transitions to the event store off the reducer's
// goroutine. Transitions are dropped, with a warning, when the writer
// falls behind.
type journal struct {
	repo      store.EventRepo
	sessionID string
	log       *zap.Logger

	events chan store.TransitionEventData
	done   chan struct{}
}

func newJournal(repo store.EventRepo, sessionID string, log *zap.Logger) *journal {
	j := &journal{
		repo:      repo,
		sessionID: sessionID,
		log:       log,
		events:    make(chan store.TransitionEventData, journalBuffer),
		done:      make(chan struct{}),
	}
	go j.run()
	return j
}

func (j *journal) record(from, to State, trigger string) {
	data := store.TransitionEventData{
		SessionID:  j.sessionID,
		FromScreen: from.Screen().String(),
		FromMode:   modeLabel(from),
		ToScreen:   to.Screen().String(),
		ToMode:     modeLabel(to),
		Trigger:    trigger,
	}
	j.log.Debug("transition",
		zap.String("from", data.FromScreen+"/"+data.FromMode),
		zap.String("to", data.ToScreen+"/"+data.ToMode),
		zap.String("trigger", trigger))

	if j.repo == nil {
		return
	}
	select {
	case j.events <- data:
	default:
		j.log.Warn("transition journal full, dropping event", zap.String("trigger", trigger))
	}
}

func (j *journal) run() {
	defer close(j.done)
	for data := range j.events {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := j.repo.AppendTransition(ctx, data); err != nil {
			j.log.Warn("failed to record transition", zap.Error(err))
		}
		cancel()
	}
}

// close flushes pending events and stops the writer.
func (j *journal) close() {
	close(j.events)
	<-j.done
}

// modeLabel is the mode recorded for s; screens without modes have none.
func modeLabel(s State) string {
	switch s.(type) {
	case Homework, Feedback, Spatial:
		return ModeOf(s).String()
	default:
		return ""
	}
}
