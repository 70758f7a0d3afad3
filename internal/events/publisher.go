package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Publisher hands an event to a downstream transport.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

// Published is an event captured by RecordingPublisher.
type Published struct {
	Type    string
	Payload json.RawMessage
}

// RecordingPublisher keeps events in memory. Useful for local runs and tests.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Published
	err    error
}

// NewRecordingPublisher returns an empty recorder.
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// FailWith makes subsequent Publish calls return err.
func (p *RecordingPublisher) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *RecordingPublisher) Publish(_ context.Context, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", eventType, err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, Published{Type: eventType, Payload: data})
	return nil
}

// Events returns a copy of everything published so far.
func (p *RecordingPublisher) Events() []Published {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Published, len(p.events))
	copy(out, p.events)
	return out
}
