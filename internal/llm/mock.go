package llm

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error

	// Fragments, when set, are delivered one by one by GenerateStream and
	// joined to form the response content.
	Fragments []string

	// Gate, when non-nil, holds the call until it is closed or the request
	// context ends.
	Gate <-chan struct{}
}

// MockText is a canned plain-text response.
func MockText(text string) MockResponse {
	return MockResponse{Content: json.RawMessage(text)}
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
	streamed  int
}

var _ StreamingProvider = (*MockProvider)(nil)

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response or ErrProviderUnavailable if
// the queue is empty.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	resp, err := m.next(ctx, req, false)
	if err != nil {
		return nil, err
	}
	return m.respond(resp), nil
}

// GenerateStream delivers the next canned response through onPartial.
func (m *MockProvider) GenerateStream(ctx context.Context, req Request, onPartial func(string)) (*Response, error) {
	resp, err := m.next(ctx, req, true)
	if err != nil {
		return nil, err
	}
	fragments := resp.Fragments
	if len(fragments) == 0 && len(resp.Content) > 0 {
		fragments = []string{string(resp.Content)}
	}
	for _, f := range fragments {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if onPartial != nil {
			onPartial(f)
		}
	}
	return m.respond(resp), nil
}

func (m *MockProvider) next(ctx context.Context, req Request, streamed bool) (MockResponse, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	if streamed {
		m.streamed++
	}
	if len(m.responses) == 0 {
		m.mu.Unlock()
		return MockResponse{}, &ErrProviderUnavailable{Err: nil}
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	m.mu.Unlock()

	if resp.Gate != nil {
		select {
		case <-resp.Gate:
		case <-ctx.Done():
			return MockResponse{}, ctx.Err()
		}
	}
	if resp.Err != nil {
		return MockResponse{}, resp.Err
	}
	return resp, nil
}

func (m *MockProvider) respond(resp MockResponse) *Response {
	content := resp.Content
	if len(content) == 0 && len(resp.Fragments) > 0 {
		content = json.RawMessage(strings.Join(resp.Fragments, ""))
	}
	return &Response{
		Content:    content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate and GenerateStream calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// StreamCount returns the number of GenerateStream calls made.
func (m *MockProvider) StreamCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.streamed
}

// Call returns a copy of the i-th recorded request.
func (m *MockProvider) Call(i int) Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[i]
}
