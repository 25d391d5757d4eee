// Package generation turns a question into a short spoken answer: it calls
// the language model, splits the reply into sentences and plays them
// through the speech output queue.
package generation

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/abhisek/echotutor/internal/content"
	"github.com/abhisek/echotutor/internal/lang"
	"github.com/abhisek/echotutor/internal/llm"
	"github.com/abhisek/echotutor/internal/speech"
)

// Request describes one spoken answer.
type Request struct {
	// ID is the caller's token for the request; it is echoed in Result.
	ID      uint64
	Purpose string
	Lang    lang.Language

	System  string
	History []llm.Message

	// Priming is sent once per conversation before the first question.
	// Primed owns the once-only flag; both must be set for priming.
	Priming string
	Primed  content.Primeable

	Question string
	Images   []llm.Image

	// Prepare, when set, runs on the task's goroutine before anything is
	// sent and fills in the parts of the request that need blocking reads.
	Prepare func(ctx context.Context, req *Request)
}

// Result is the outcome of a finished request.
type Result struct {
	ID     uint64
	Text   string
	Spoken []string
	Err    error
}

// Runner starts generation tasks.
type Runner struct {
	provider llm.Provider
	queue    *speech.Queue
	cfg      Config
	log      *zap.Logger

	started atomic.Int64
}

// NewRunner creates a runner speaking through queue.
func NewRunner(provider llm.Provider, queue *speech.Queue, cfg Config, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{provider: provider, queue: queue, cfg: cfg, log: log.Named("generation")}
}

// Started returns the number of tasks started so far.
func (r *Runner) Started() int64 { return r.started.Load() }

// Start runs req in the background. onPartial receives streamed text as it
// arrives and may be nil. onDone is called once, after the spoken answer
// has finished playing or the request has failed; it is not called when
// the task is cancelled.
func (r *Runner) Start(req Request, onPartial func(string), onDone func(Result)) *Task {
	task := newTask(req.ID, r.queue)
	r.started.Add(1)

	go func() {
		defer close(task.done)
		res := r.run(task, req, onPartial)
		if task.Cancelled() || errors.Is(res.Err, context.Canceled) {
			r.log.Debug("task cancelled", zap.Uint64("id", req.ID))
			return
		}
		if res.Err != nil {
			r.log.Warn("generation failed", zap.Uint64("id", req.ID), zap.String("purpose", req.Purpose), zap.Error(res.Err))
		}
		if onDone != nil {
			onDone(res)
		}
	}()
	return task
}

func (r *Runner) run(task *Task, req Request, onPartial func(string)) Result {
	ctx := llm.WithPurpose(task.ctx, req.Purpose)
	res := Result{ID: req.ID}

	if req.Prepare != nil {
		req.Prepare(ctx, &req)
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
	}

	system, messages, err := r.prime(ctx, req)
	if err != nil {
		res.Err = err
		return res
	}

	llmReq := llm.Request{
		System:      system,
		Messages:    messages,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	}

	var text string
	if r.cfg.Stream {
		text, res.Spoken, err = r.stream(ctx, task, req.Lang, llmReq, onPartial)
	} else {
		text, res.Spoken, err = r.blocking(ctx, task, req.Lang, llmReq)
	}
	res.Text = text
	if err != nil {
		res.Err = err
		return res
	}

	if err := r.queue.WaitIdle(ctx); err != nil {
		res.Err = err
	}
	return res
}

// prime returns the system prompt and turns for the request, sending the
// priming prompt first when the conversation has not been primed yet.
func (r *Runner) prime(ctx context.Context, req Request) (string, []llm.Message, error) {
	question := llm.Message{Role: llm.RoleUser, Content: req.Question, Images: req.Images}
	messages := append([]llm.Message(nil), req.History...)

	if req.Priming == "" || req.Primed == nil {
		return req.System, append(messages, question), nil
	}
	if req.Primed.Primed() {
		return req.System + "\n\n" + req.Priming, append(messages, question), nil
	}

	primer := llm.Message{Role: llm.RoleUser, Content: req.Priming}
	resp, err := r.provider.Generate(llm.WithPurpose(ctx, llm.PurposePriming), llm.Request{
		System:      req.System,
		Messages:    append(append([]llm.Message(nil), messages...), primer),
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		return "", nil, err
	}
	if ctx.Err() != nil {
		return "", nil, ctx.Err()
	}
	req.Primed.MarkPrimed()

	reply := llm.Message{Role: llm.RoleAssistant, Content: resp.Text()}
	return req.System, append(messages, primer, reply, question), nil
}

func (r *Runner) blocking(ctx context.Context, task *Task, language lang.Language, req llm.Request) (string, []string, error) {
	resp, err := r.provider.Generate(ctx, req)
	if err != nil {
		return "", nil, err
	}
	text := resp.Text()

	var spoken []string
	for _, sentence := range Segment(text, language, r.cfg.MaxSentences) {
		if ctx.Err() != nil || !task.enqueue(speech.Utterance{Text: sentence, Lang: language}) {
			return text, spoken, context.Canceled
		}
		spoken = append(spoken, sentence)
	}
	return text, spoken, nil
}

// stream queues each sentence as soon as it is complete. If the stream
// fails before anything was queued, the request is retried blocking.
func (r *Runner) stream(ctx context.Context, task *Task, language lang.Language, req llm.Request, onPartial func(string)) (string, []string, error) {
	split := newSplitter(language)
	var spoken []string
	stopped := false

	say := func(sentence string) {
		if stopped || len(spoken) >= r.cfg.MaxSentences {
			return
		}
		if ctx.Err() != nil || !task.enqueue(speech.Utterance{Text: sentence, Lang: language}) {
			stopped = true
			return
		}
		spoken = append(spoken, sentence)
	}

	resp, err := llm.Stream(ctx, r.provider, req, func(fragment string) {
		if onPartial != nil && ctx.Err() == nil {
			onPartial(fragment)
		}
		for _, sentence := range split.feed(fragment) {
			say(sentence)
		}
	})
	if err != nil {
		if ctx.Err() != nil || len(spoken) > 0 {
			return "", spoken, err
		}
		r.log.Info("streaming failed, falling back to blocking generation", zap.Error(err))
		return r.blocking(ctx, task, language, req)
	}
	if stopped {
		return resp.Text(), spoken, context.Canceled
	}

	text := resp.Text()
	if tail := split.flush(); tail != "" {
		say(tail)
	}
	if len(spoken) == 0 {
		for _, u := range Segment(text, language, r.cfg.MaxSentences) {
			say(u)
		}
	}
	if stopped {
		return text, spoken, context.Canceled
	}
	return text, spoken, nil
}
