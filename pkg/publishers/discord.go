package publishers

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

const discordColor = 0xff66aa

type discordWebhookClient interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// discordPublisher posts an embed through a Discord webhook; no bot session is opened.
type discordPublisher struct {
	id     string
	cfg    DiscordPublisherConfig
	client discordWebhookClient
	log    Logger
}

func newDiscordPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.Discord == nil {
		return nil, fmt.Errorf("publisher %q missing discord configuration", cfg.ID)
	}

	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	return &discordPublisher{
		id:     cfg.ID,
		cfg:    *cfg.Discord,
		client: session,
		log:    ensureLogger(log),
	}, nil
}

func (d *discordPublisher) ID() string   { return d.id }
func (d *discordPublisher) Type() string { return TypeDiscord }

func (d *discordPublisher) Publish(ctx context.Context, evt Event) error {
	params := &discordgo.WebhookParams{
		Username: d.cfg.Username,
		Embeds:   []*discordgo.MessageEmbed{snapshotEmbed(evt)},
	}

	if _, err := d.client.WebhookExecute(d.cfg.WebhookID, d.cfg.WebhookToken, false, params, discordgo.WithContext(ctx)); err != nil {
		d.log.ErrorObj("discord publisher send failed", "publisher_discord_error", deliveryFields(d.id, evt, err))
		return fmt.Errorf("execute discord webhook: %w", err)
	}
	d.log.DebugObj("discord publisher delivered event", "publisher_discord_delivery", deliveryFields(d.id, evt, nil))
	return nil
}

func snapshotEmbed(evt Event) *discordgo.MessageEmbed {
	snap := evt.Snapshot

	embed := &discordgo.MessageEmbed{
		Title:     snapshotTitle(snap),
		URL:       snapshotURL(snap),
		Color:     discordColor,
		Timestamp: evt.CollectedAt.Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: "osu-watch"},
	}
	if snap.Page != nil && snap.Page.Description != "" {
		embed.Description = snap.Page.Description
	}
	if avatar := snapshotAvatar(snap); avatar != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: avatar}
	}
	for _, st := range snapshotStats(snap) {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   st.name,
			Value:  st.value,
			Inline: true,
		})
	}
	return embed
}
