package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	mock := NewMockProvider()
	mock.AddResponse(`{"ok":true}`)

	p := WithRetry(mock, retryConfig())
	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Errorf("Content = %s", resp.Content)
	}
	if mock.CallCount() != 1 {
		t.Errorf("CallCount = %d, want 1", mock.CallCount())
	}
}

func TestRetryRecoversFromUnavailable(t *testing.T) {
	mock := NewMockProvider()
	mock.AddError(&ErrProviderUnavailable{Err: errors.New("502")})
	mock.AddResponse(`{"ok":true}`)

	p := WithRetry(mock, retryConfig())
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("CallCount = %d, want 2", mock.CallCount())
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	mock := NewMockProvider()
	for i := 0; i < 3; i++ {
		mock.AddError(&ErrRateLimit{Err: errors.New("429")})
	}

	p := WithRetry(mock, retryConfig())
	_, err := p.Generate(context.Background(), Request{})

	var rateLimit *ErrRateLimit
	if !errors.As(err, &rateLimit) {
		t.Fatalf("error = %v, want ErrRateLimit", err)
	}
	if mock.CallCount() != 3 {
		t.Errorf("CallCount = %d, want 3", mock.CallCount())
	}
}

func TestRetryInvalidResponseOnlyOnce(t *testing.T) {
	mock := NewMockProvider()
	mock.AddError(&ErrInvalidResponse{Content: "x", Err: errors.New("bad json")})
	mock.AddError(&ErrInvalidResponse{Content: "y", Err: errors.New("bad json")})
	mock.AddError(&ErrInvalidResponse{Content: "z", Err: errors.New("bad json")})

	p := WithRetry(mock, retryConfig())
	_, err := p.Generate(context.Background(), Request{})

	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want ErrInvalidResponse", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("CallCount = %d, want 2 (one retry for invalid response)", mock.CallCount())
	}
}

func TestRetrySkipsMaxTokens(t *testing.T) {
	mock := NewMockProvider()
	mock.AddError(&ErrMaxTokensExceeded{Content: "partial"})

	p := WithRetry(mock, retryConfig())
	_, err := p.Generate(context.Background(), Request{})

	var maxTokens *ErrMaxTokensExceeded
	if !errors.As(err, &maxTokens) {
		t.Fatalf("error = %v, want ErrMaxTokensExceeded", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("CallCount = %d, want 1", mock.CallCount())
	}
}

func TestRetryStopsOnCanceledContext(t *testing.T) {
	mock := NewMockProvider()
	mock.AddError(&ErrProviderUnavailable{Err: errors.New("502")})
	mock.AddResponse(`{"ok":true}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := WithRetry(mock, retryConfig())
	if _, err := p.Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestRetryHonorsRetryAfter(t *testing.T) {
	mock := NewMockProvider()
	mock.AddError(&ErrRateLimit{RetryAfter: 20 * time.Millisecond, Err: errors.New("429")})
	mock.AddResponse(`{"ok":true}`)

	p := WithRetry(mock, retryConfig())
	start := time.Now()
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("retried after %v, want at least the announced 20ms", elapsed)
	}
}

func TestMockRecordsCalls(t *testing.T) {
	mock := NewMockProvider()
	mock.AddResponse(`{}`)

	req := Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "hi"}}}
	if _, err := mock.Generate(context.Background(), req); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("Calls = %d, want 1", len(calls))
	}
	if calls[0].System != "sys" || calls[0].Messages[0].Content != "hi" {
		t.Errorf("recorded call = %+v", calls[0])
	}

	// Drained queue reports the provider unavailable.
	_, err := mock.Generate(context.Background(), Request{})
	var unavailable *ErrProviderUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("error = %v, want ErrProviderUnavailable", err)
	}
}

func TestNewProviderUnknownName(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: "carrier-pigeon"}, nil)
	if err == nil {
		t.Fatal("NewProvider accepted unknown provider name")
	}
}

func TestNewProviderRequiresAPIKey(t *testing.T) {
	for _, name := range []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini} {
		if _, err := NewProvider(context.Background(), Config{Provider: name}, nil); err == nil {
			t.Errorf("NewProvider(%q) accepted empty API key", name)
		}
	}
}

func TestNewProviderMockNeedsNoKey(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil)
	if err != nil {
		t.Fatalf("NewProvider(mock): %v", err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("ModelID = %q, want mock", p.ModelID())
	}
}
