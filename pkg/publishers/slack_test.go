package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/slack-go/slack"
)

func TestSlackPublisherPostsWebhook(t *testing.T) {
	var msg slack.WebhookMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			t.Errorf("decode webhook body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	pub, err := newSlackPublisher(context.Background(), PublisherConfig{
		ID:    "slack",
		Type:  TypeSlack,
		Slack: &SlackPublisherConfig{WebhookURL: srv.URL, Channel: "#osu", Username: "osu-watch"},
	}, nil)
	if err != nil {
		t.Fatalf("newSlackPublisher: %v", err)
	}

	if err := pub.Publish(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if msg.Channel != "#osu" || msg.Username != "osu-watch" {
		t.Fatalf("unexpected routing %+v", msg)
	}
	if !strings.HasPrefix(msg.Text, "Cookiezi (osu!)") {
		t.Fatalf("unexpected text %q", msg.Text)
	}
	if len(msg.Attachments) != 1 || msg.Attachments[0].TitleLink != "https://osu.ppy.sh/users/124493" {
		t.Fatalf("unexpected attachments %+v", msg.Attachments)
	}
}

func TestSlackPublisherWrapsError(t *testing.T) {
	pub := &slackPublisher{
		id:  "slack",
		cfg: SlackPublisherConfig{WebhookURL: "https://hooks.slack.com/x"},
		post: func(context.Context, string, *slack.WebhookMessage) error {
			return errors.New("invalid_payload")
		},
		log: noopLogger{},
	}
	err := pub.Publish(context.Background(), sampleEvent())
	if err == nil || !strings.Contains(err.Error(), "invalid_payload") {
		t.Fatalf("expected wrapped webhook error, got %v", err)
	}
}
