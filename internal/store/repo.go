package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int   // max results (0 = unlimited)
	After  int64 // sequence > After
	Before int64 // sequence < Before
}

// LLMRequestEventData captures the data for a single model request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Streamed     bool
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a persisted model request.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// TransitionEventData records one replacement of the session state.
type TransitionEventData struct {
	SessionID  string
	FromScreen string
	FromMode   string
	ToScreen   string
	ToMode     string
	Trigger    string
}

// TransitionEvent is a persisted state transition.
type TransitionEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	TransitionEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records a model API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns model events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns a single model event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// AppendTransition records a session state transition.
	AppendTransition(ctx context.Context, data TransitionEventData) error

	// QueryTransitions returns transitions for a session (all sessions when
	// sessionID is empty), oldest first.
	QueryTransitions(ctx context.Context, sessionID string, opts QueryOpts) ([]TransitionEvent, error)
}
