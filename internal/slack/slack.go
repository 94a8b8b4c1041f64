// Package slack posts recaps to Slack: a plain-text header message and a
// threaded reply carrying the block-rendered PR details.
package slack

import (
	"context"
	"errors"
	"fmt"
	"strings"

	slackapi "github.com/slack-go/slack"
)

// ErrUserNotFound indicates the target username matched nobody in the
// workspace.
var ErrUserNotFound = errors.New("user not found")

// Poster wraps the Slack web API client.
type Poster struct {
	client *slackapi.Client
}

// New creates a Poster. Extra options are passed through to the underlying
// client (tests use slack.OptionAPIURL).
func New(token string, opts ...slackapi.Option) *Poster {
	return &Poster{client: slackapi.New(token, opts...)}
}

// ResolveTarget maps the --slack-user argument to a postable channel. A
// leading "#" marks a channel name used verbatim; anything else (with an
// optional "@" prefix) is a username resolved to the user's ID by exact
// match against the workspace user list.
func (p *Poster) ResolveTarget(ctx context.Context, target string) (string, error) {
	if strings.HasPrefix(target, "#") {
		return target, nil
	}

	username := strings.TrimPrefix(target, "@")
	users, err := p.client.GetUsersContext(ctx)
	if err != nil {
		return "", mapError(fmt.Errorf("listing users: %w", err))
	}

	for _, u := range users {
		if u.Name == username {
			return u.ID, nil
		}
	}
	return "", fmt.Errorf("%w: no Slack user matching %q (check the username)", ErrUserNotFound, target)
}

// PostRecap posts the header message to channel, then the detail blocks as
// a threaded reply on it. Link unfurling is disabled on the reply and
// fallback supplies the notification text.
func (p *Poster) PostRecap(ctx context.Context, channel, header string, blocks []slackapi.Block, fallback string) error {
	_, ts, err := p.client.PostMessageContext(ctx, channel,
		slackapi.MsgOptionText(header, false),
	)
	if err != nil {
		return mapError(fmt.Errorf("posting header: %w", err))
	}

	_, _, err = p.client.PostMessageContext(ctx, channel,
		slackapi.MsgOptionTS(ts),
		slackapi.MsgOptionBlocks(blocks...),
		slackapi.MsgOptionText(fallback, false),
		slackapi.MsgOptionDisableLinkUnfurl(),
	)
	if err != nil {
		return mapError(fmt.Errorf("posting details: %w", err))
	}
	return nil
}

// mapError translates known Slack error codes into actionable guidance.
func mapError(err error) error {
	var apiErr slackapi.SlackErrorResponse
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.Err {
	case "not_in_channel":
		return fmt.Errorf("the bot is not in that channel: invite it with /invite (%w)", err)
	case "channel_not_found":
		return fmt.Errorf("channel not found: check the channel name (%w)", err)
	case "user_not_found":
		return fmt.Errorf("%w: check the username (%v)", ErrUserNotFound, err)
	default:
		return fmt.Errorf("Slack API error: %w", err)
	}
}
