package llm

import (
	"context"
	"errors"
	"sync"
)

// MockProvider replays queued responses in FIFO order and records every
// request it sees. It backs tests and the offline development mode.
type MockProvider struct {
	mu        sync.Mutex
	responses []mockResult
	calls     []Request
	model     string
}

type mockResult struct {
	resp *Response
	err  error
}

// NewMockProvider returns an empty mock. Generate fails until responses
// are queued.
func NewMockProvider() *MockProvider {
	return &MockProvider{model: "mock"}
}

// AddResponse queues a successful response with the given content.
func (p *MockProvider) AddResponse(content string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = append(p.responses, mockResult{
		resp: &Response{
			Content:    []byte(content),
			Model:      p.model,
			StopReason: StopEnd,
		},
	})
}

// AddError queues a failure.
func (p *MockProvider) AddError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = append(p.responses, mockResult{err: err})
}

// Generate pops the next queued result. An empty queue reports the
// provider unavailable.
func (p *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, req)

	if len(p.responses) == 0 {
		return nil, &ErrProviderUnavailable{Err: errors.New("mock: no responses queued")}
	}
	next := p.responses[0]
	p.responses = p.responses[1:]
	if next.err != nil {
		return nil, next.err
	}
	if err := validateResponse(req.Schema, next.resp.Content); err != nil {
		return nil, err
	}
	return next.resp, nil
}

// ModelID returns "mock".
func (p *MockProvider) ModelID() string { return p.model }

// Calls returns the requests seen so far.
func (p *MockProvider) Calls() []Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Request, len(p.calls))
	copy(out, p.calls)
	return out
}

// CallCount returns how many times Generate ran.
func (p *MockProvider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}
