package publishers

import (
	"context"
	"errors"
	"testing"
)

type stubPublisher struct {
	id     string
	typ    string
	err    error
	calls  int
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}

type closingPublisher struct {
	stubPublisher
}

func (c *closingPublisher) Close() error {
	c.closed = true
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	ok := &stubPublisher{id: "ok", typ: "http"}
	bad := &stubPublisher{id: "bad", typ: "http", err: errors.New("failed")}
	last := &stubPublisher{id: "last", typ: "slack"}
	fanout := NewFanout([]Publisher{ok, nil, bad, last})

	if fanout.Size() != 3 {
		t.Fatalf("nil publishers must be dropped, size=%d", fanout.Size())
	}

	count, err := fanout.Publish(context.Background(), Event{})
	if count != 2 {
		t.Fatalf("expected 2 successes, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if last.calls != 1 {
		t.Fatalf("a failing sink must not stop later sinks")
	}
}

func TestFanoutStopsOnCancelledContext(t *testing.T) {
	pub := &stubPublisher{id: "p", typ: "http"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count, err := NewFanout([]Publisher{pub}).Publish(ctx, Event{})
	if count != 0 || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got count=%d err=%v", count, err)
	}
	if pub.calls != 0 {
		t.Fatalf("publisher should not be called after cancellation")
	}
}

func TestFanoutCloseClosesClosers(t *testing.T) {
	c := &closingPublisher{stubPublisher{id: "ps", typ: TypeGCPPubSub}}
	if err := NewFanout([]Publisher{c, &stubPublisher{id: "x"}}).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !c.closed {
		t.Fatalf("expected closer to be closed")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
		{ID: "slack", Type: TypeSlack, Slack: &SlackPublisherConfig{WebhookURL: "https://hooks.slack.com/services/x"}},
		{ID: "discord", Type: TypeDiscord, Discord: &DiscordPublisherConfig{WebhookID: "1", WebhookToken: "t"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 3 {
		t.Fatalf("expected 3 publishers, got %d", len(pubs))
	}
	if pubs[2].Type() != TypeDiscord {
		t.Fatalf("unexpected type %s", pubs[2].Type())
	}
}

func TestBuildAllUnknownType(t *testing.T) {
	_, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{{ID: "x", Type: "kafka"}}, nil)
	if err == nil {
		t.Fatalf("expected error for unregistered type")
	}
}
