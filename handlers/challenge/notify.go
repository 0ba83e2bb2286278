package challenge

import (
	"context"
	"fmt"
	"time"

	"boss-challenge-bot/model"
	"boss-challenge-bot/progression"

	"github.com/bwmarrin/discordgo"
)

// CompletionNotice describes an accepted kill for the completions channel.
type CompletionNotice struct {
	UserID          string
	UserName        string
	Mode            model.Mode
	DefeatedBoss    string
	NextBoss        string
	Progress        int
	Rank            int
	Finished        bool
	CompletionOrder int
	BeforeURL       string
	AfterURL        string
	At              time.Time
}

// ResetNotice describes a death.
type ResetNotice struct {
	UserID           string
	UserName         string
	Mode             model.Mode
	PreviousProgress int
	PreviousRank     int
	StartBoss        string
	At               time.Time
}

// Notifier posts workflow announcements.
type Notifier interface {
	NotifyCompletion(ctx context.Context, guildID string, n CompletionNotice) error
	NotifyReset(ctx context.Context, guildID string, n ResetNotice) error
}

// EmbedSender sends one embed to a channel.
type EmbedSender interface {
	SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) (string, error)
}

// ResourceLookup resolves bound channels.
type ResourceLookup interface {
	GetResource(guildID string, resourceType model.ResourceType) (*model.ResourceBinding, error)
}

// ChannelNotifier posts to the guild's bound completions channel.
type ChannelNotifier struct {
	sender    EmbedSender
	resources ResourceLookup
}

func NewChannelNotifier(sender EmbedSender, resources ResourceLookup) *ChannelNotifier {
	return &ChannelNotifier{sender: sender, resources: resources}
}

func (n *ChannelNotifier) NotifyCompletion(ctx context.Context, guildID string, notice CompletionNotice) error {
	return n.send(ctx, guildID, CompletionEmbed(notice))
}

func (n *ChannelNotifier) NotifyReset(ctx context.Context, guildID string, notice ResetNotice) error {
	return n.send(ctx, guildID, ResetEmbed(notice))
}

func (n *ChannelNotifier) send(ctx context.Context, guildID string, embed *discordgo.MessageEmbed) error {
	binding, err := n.resources.GetResource(guildID, model.ResourceCompletions)
	if err != nil {
		return fmt.Errorf("completions channel of guild %s: %w", guildID, err)
	}
	if _, err := n.sender.SendEmbed(ctx, binding.ResourceID, embed); err != nil {
		return fmt.Errorf("failed to post to completions channel: %w", err)
	}
	return nil
}

// CompletionEmbed renders the kill announcement.
func CompletionEmbed(n CompletionNotice) *discordgo.MessageEmbed {
	info := progression.GetModeInfo(n.Mode)
	finished := n.Finished && n.Mode != model.ModeExtreme

	title := "⚔️ Boss Defeated!"
	description := fmt.Sprintf("**%s** defeated **%s**! (%s %s)", n.UserName, n.DefeatedBoss, info.Emoji, info.Name)
	if finished {
		title = fmt.Sprintf("🎉 %s Completed!", info.Name)
		description += "\n🎊 **Congratulations on completing this difficulty!**"
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       info.Color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📈 Progression", Value: fmt.Sprintf("**%d** bosses defeated", n.Progress), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: n.DefeatedBoss + " defeated • Gear (small) | Loot (large)"},
		Timestamp: n.At.UTC().Format(time.RFC3339),
	}
	if finished {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "🏁 Finish", Value: fmt.Sprintf("#%d to finish %s", n.CompletionOrder, info.Name), Inline: true,
		})
	} else if n.Rank > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "🏆 Rank", Value: fmt.Sprintf("#%d", n.Rank), Inline: true,
		})
	}
	if n.NextBoss != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "🎯 Next Boss", Value: "**" + n.NextBoss + "**", Inline: true,
		})
	}
	if n.AfterURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: n.AfterURL}
	}
	if n.BeforeURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: n.BeforeURL}
	}
	return embed
}

// ResetEmbed renders the death announcement.
func ResetEmbed(n ResetNotice) *discordgo.MessageEmbed {
	footer := fmt.Sprintf("Was at %d bosses defeated", n.PreviousProgress)
	if n.PreviousRank > 0 {
		footer += fmt.Sprintf(" (rank #%d)", n.PreviousRank)
	}
	return &discordgo.MessageEmbed{
		Title:       "💀 RIP",
		Description: fmt.Sprintf("**%s** died! Back to **%s**, rookie!", n.UserName, n.StartBoss),
		Color:       0x607d8b,
		Footer:      &discordgo.MessageEmbedFooter{Text: footer},
		Timestamp:   n.At.UTC().Format(time.RFC3339),
	}
}
