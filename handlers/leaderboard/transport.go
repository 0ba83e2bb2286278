package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"boss-challenge-bot/model"

	"github.com/bwmarrin/discordgo"
)

// Transport is the minimal message surface the sync needs.
// Lookups of deleted messages or channels return model.ErrNotFound.
type Transport interface {
	SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) (string, error)
	EditEmbed(ctx context.Context, channelID, messageID string, embed *discordgo.MessageEmbed) error
	FetchMessage(ctx context.Context, channelID, messageID string) error
	FindByTitle(ctx context.Context, channelID, marker string, limit int) (string, error)
}

// SessionTransport implements Transport on a discordgo session.
type SessionTransport struct {
	session *discordgo.Session
}

func NewSessionTransport(s *discordgo.Session) *SessionTransport {
	return &SessionTransport{session: s}
}

func (t *SessionTransport) SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) (string, error) {
	msg, err := t.session.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx))
	if err != nil {
		return "", translateError(err)
	}
	return msg.ID, nil
}

func (t *SessionTransport) EditEmbed(ctx context.Context, channelID, messageID string, embed *discordgo.MessageEmbed) error {
	_, err := t.session.ChannelMessageEditEmbed(channelID, messageID, embed, discordgo.WithContext(ctx))
	return translateError(err)
}

func (t *SessionTransport) FetchMessage(ctx context.Context, channelID, messageID string) error {
	_, err := t.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	return translateError(err)
}

// FindByTitle scans the newest limit messages for one sent by the bot whose
// first embed title contains marker.
func (t *SessionTransport) FindByTitle(ctx context.Context, channelID, marker string, limit int) (string, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	msgs, err := t.session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return "", translateError(err)
	}
	botID := ""
	if t.session.State != nil && t.session.State.User != nil {
		botID = t.session.State.User.ID
	}
	for _, m := range msgs {
		if m.Author == nil || m.Author.ID != botID || len(m.Embeds) == 0 {
			continue
		}
		if strings.Contains(m.Embeds[0].Title, marker) {
			return m.ID, nil
		}
	}
	return "", model.ErrNotFound
}

// translateError maps Discord "unknown message/channel" replies to model.ErrNotFound.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Message != nil {
			switch restErr.Message.Code {
			case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
				return fmt.Errorf("%w: %s", model.ErrNotFound, restErr.Message.Message)
			}
		}
		if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %v", model.ErrNotFound, err)
		}
	}
	return err
}
