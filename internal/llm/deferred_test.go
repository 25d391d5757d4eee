package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDeferred_NotReadyBeforeResolve(t *testing.T) {
	d := NewDeferred(10 * time.Millisecond)
	if d.Ready() {
		t.Fatal("expected not ready")
	}
	if d.ModelID() != "pending" {
		t.Fatalf("expected 'pending', got %q", d.ModelID())
	}

	_, err := d.Generate(context.Background(), Request{})
	var nr *ErrNotReady
	if !errors.As(err, &nr) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestDeferred_ZeroTimeoutFailsFast(t *testing.T) {
	d := NewDeferred(0)
	start := time.Now()
	_, err := d.Wait(context.Background())
	var nr *ErrNotReady
	if !errors.As(err, &nr) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Fatal("zero timeout should not wait")
	}
}

func TestDeferred_WaitsForResolve(t *testing.T) {
	d := NewDeferred(time.Second)
	mock := NewMockProvider(MockText("ready now"))

	go func() {
		time.Sleep(5 * time.Millisecond)
		d.Resolve(mock)
	}()

	resp, err := d.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "ready now" {
		t.Fatalf("unexpected text: %q", resp.Text())
	}
	if !d.Ready() || d.ModelID() != "mock" {
		t.Fatal("expected resolved provider")
	}
}

func TestDeferred_FirstOutcomeWins(t *testing.T) {
	d := NewDeferred(time.Second)
	d.Fail(errors.New("model file missing"))
	d.Resolve(NewMockProvider(MockText("ignored")))

	if d.Ready() {
		t.Fatal("failed provider must not become ready")
	}
	_, err := d.GenerateStream(context.Background(), Request{}, nil)
	var nr *ErrNotReady
	if !errors.As(err, &nr) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if nr.Err == nil || nr.Err.Error() != "model file missing" {
		t.Fatalf("expected wrapped init error, got %v", nr.Err)
	}
}

func TestDeferred_StreamDelegates(t *testing.T) {
	d := NewDeferred(time.Second)
	d.Resolve(NewMockProvider(MockResponse{Fragments: []string{"A. ", "B."}}))

	var got []string
	resp, err := d.GenerateStream(context.Background(), Request{}, func(f string) { got = append(got, f) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || resp.Text() != "A. B." {
		t.Fatalf("unexpected stream result: %q / %q", got, resp.Text())
	}
}
