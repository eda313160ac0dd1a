package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/slack-go/slack"
)

const slackColor = "#ff66aa"

type slackWebhookFunc func(ctx context.Context, url string, msg *slack.WebhookMessage) error

// slackPublisher posts a snapshot summary to a Slack incoming webhook.
type slackPublisher struct {
	id   string
	cfg  SlackPublisherConfig
	post slackWebhookFunc
	log  Logger
}

func newSlackPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.Slack == nil {
		return nil, fmt.Errorf("publisher %q missing slack configuration", cfg.ID)
	}
	return &slackPublisher{
		id:   cfg.ID,
		cfg:  *cfg.Slack,
		post: slack.PostWebhookContext,
		log:  ensureLogger(log),
	}, nil
}

func (s *slackPublisher) ID() string   { return s.id }
func (s *slackPublisher) Type() string { return TypeSlack }

func (s *slackPublisher) Publish(ctx context.Context, evt Event) error {
	if err := s.post(ctx, s.cfg.WebhookURL, s.message(evt)); err != nil {
		s.log.ErrorObj("slack publisher send failed", "publisher_slack_error", deliveryFields(s.id, evt, err))
		return fmt.Errorf("post slack webhook: %w", err)
	}
	s.log.DebugObj("slack publisher delivered event", "publisher_slack_delivery", deliveryFields(s.id, evt, nil))
	return nil
}

func (s *slackPublisher) message(evt Event) *slack.WebhookMessage {
	snap := evt.Snapshot

	fields := make([]slack.AttachmentField, 0, 8)
	for _, st := range snapshotStats(snap) {
		fields = append(fields, slack.AttachmentField{Title: st.name, Value: st.value, Short: true})
	}

	return &slack.WebhookMessage{
		Channel:   s.cfg.Channel,
		Username:  s.cfg.Username,
		IconEmoji: s.cfg.IconEmoji,
		Text:      summaryText(snap),
		Attachments: []slack.Attachment{{
			Color:     slackColor,
			Title:     snapshotTitle(snap),
			TitleLink: snapshotURL(snap),
			ThumbURL:  snapshotAvatar(snap),
			Fields:    fields,
			Footer:    "osu-watch",
			Ts:        json.Number(strconv.FormatInt(evt.CollectedAt.Unix(), 10)),
		}},
	}
}
