package challenge

import (
	"context"
	"errors"
	"fmt"
	"log"

	"boss-challenge-bot/model"
	"boss-challenge-bot/progression"

	"github.com/bwmarrin/discordgo"
)

const (
	CategoryName         = "╔═══Boss Challenge═══╗"
	CompletionsChannel   = "🏆・boss-completions"
	InfoChannel          = "ℹ️・boss-challenge-info"
	completionsTopic     = "Boss Defeats and Progress Updates - View difficulty channels for rules and leaderboards"
	bossListMarker       = "Boss Progression"
	aboutTitle           = "📖 About the Boss Challenge"
	commandsTitle        = "🏆 Boss Challenge Commands"
	infoHistoryScanLimit = 10
)

// ChannelAdmin lists and creates guild channels.
type ChannelAdmin interface {
	Channels(ctx context.Context, guildID string) ([]*discordgo.Channel, error)
	CreateChannel(ctx context.Context, guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error)
	MoveChannel(ctx context.Context, channelID, parentID string) error
}

// MessageBoard sends embeds and finds earlier bot embeds by title.
type MessageBoard interface {
	EmbedSender
	FindByTitle(ctx context.Context, channelID, marker string, limit int) (string, error)
}

// ResourceStore persists channel bindings.
type ResourceStore interface {
	ResourceLookup
	StoreResource(guildID string, resourceType model.ResourceType, resourceID string, meta model.ResourceMetadata) error
	RemoveResource(guildID string, resourceType model.ResourceType) error
}

// BoardEnsurer makes sure a tier board exists in a channel.
type BoardEnsurer interface {
	Ensure(ctx context.Context, channelID, guildID string, mode model.Mode) error
}

// Setup bootstraps the challenge category, channels and static embeds of a guild.
type Setup struct {
	channels  ChannelAdmin
	messages  MessageBoard
	resources ResourceStore
	boards    BoardEnsurer
	scanLimit int
}

func NewSetup(channels ChannelAdmin, messages MessageBoard, resources ResourceStore, boards BoardEnsurer, scanLimit int) *Setup {
	if scanLimit <= 0 {
		scanLimit = 50
	}
	return &Setup{channels: channels, messages: messages, resources: resources, boards: boards, scanLimit: scanLimit}
}

// EnsureGuild creates whatever is missing. Each step is attempted even if
// an earlier one failed; the failures are returned joined.
func (s *Setup) EnsureGuild(ctx context.Context, guildID string) error {
	existing, err := s.channels.Channels(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to list channels of guild %s: %w", guildID, err)
	}
	byID := make(map[string]*discordgo.Channel, len(existing))
	for _, ch := range existing {
		byID[ch.ID] = ch
	}

	var errs []error
	categoryID, err := s.ensureChannel(ctx, guildID, byID, existing, channelSpec{
		resource: model.ResourceCategory,
		meta:     model.ResourceMetadata{Kind: model.KindCategory, Name: CategoryName},
		kind:     discordgo.ChannelTypeGuildCategory,
	}, "")
	if err != nil {
		errs = append(errs, err)
	}

	for _, mode := range model.Modes {
		info := progression.GetModeInfo(mode)
		name := info.Emoji + "・" + string(mode)
		channelID, err := s.ensureChannel(ctx, guildID, byID, existing, channelSpec{
			resource: model.ChannelResource(mode),
			meta:     model.ResourceMetadata{Kind: model.KindModeChannel, Mode: mode, Name: name},
			kind:     discordgo.ChannelTypeGuildText,
			topic:    modeTopic(mode),
		}, categoryID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := s.ensureEmbed(ctx, channelID, bossListMarker, func() *discordgo.MessageEmbed { return BossListEmbed(mode) }, s.scanLimit); err != nil {
			errs = append(errs, fmt.Errorf("%s boss list: %w", mode, err))
		}
		if err := s.boards.Ensure(ctx, channelID, guildID, mode); err != nil {
			errs = append(errs, fmt.Errorf("%s leaderboard: %w", mode, err))
		}
	}

	if _, err := s.ensureChannel(ctx, guildID, byID, existing, channelSpec{
		resource: model.ResourceCompletions,
		meta:     model.ResourceMetadata{Kind: model.KindCompletions, Name: CompletionsChannel},
		kind:     discordgo.ChannelTypeGuildText,
		topic:    completionsTopic,
	}, categoryID); err != nil {
		errs = append(errs, err)
	}

	infoID, err := s.ensureChannel(ctx, guildID, byID, existing, channelSpec{
		resource: model.ResourceInfo,
		meta:     model.ResourceMetadata{Kind: model.KindInfo, Name: InfoChannel},
		kind:     discordgo.ChannelTypeGuildText,
	}, categoryID)
	if err != nil {
		errs = append(errs, err)
	} else {
		if err := s.ensureEmbed(ctx, infoID, aboutTitle, AboutEmbed, infoHistoryScanLimit); err != nil {
			errs = append(errs, fmt.Errorf("about embed: %w", err))
		}
		if err := s.ensureEmbed(ctx, infoID, commandsTitle, CommandsEmbed, infoHistoryScanLimit); err != nil {
			errs = append(errs, fmt.Errorf("commands embed: %w", err))
		}
	}

	return errors.Join(errs...)
}

type channelSpec struct {
	resource model.ResourceType
	meta     model.ResourceMetadata
	kind     discordgo.ChannelType
	topic    string
}

// ensureChannel resolves a bound channel, drops a stale binding, adopts a
// channel with the expected name, or creates one.
func (s *Setup) ensureChannel(ctx context.Context, guildID string, byID map[string]*discordgo.Channel, existing []*discordgo.Channel, spec channelSpec, parentID string) (string, error) {
	binding, err := s.resources.GetResource(guildID, spec.resource)
	switch {
	case err == nil:
		if ch, ok := byID[binding.ResourceID]; ok {
			s.reparent(ctx, ch, parentID)
			return ch.ID, nil
		}
		log.Printf("Stored %s channel %s of guild %s is gone, removing binding", spec.resource, binding.ResourceID, guildID)
		if err := s.resources.RemoveResource(guildID, spec.resource); err != nil {
			return "", err
		}
	case !model.IsNotFound(err):
		return "", err
	}

	for _, ch := range existing {
		if ch.Type == spec.kind && ch.Name == spec.meta.Name {
			s.reparent(ctx, ch, parentID)
			return ch.ID, s.resources.StoreResource(guildID, spec.resource, ch.ID, spec.meta)
		}
	}

	ch, err := s.channels.CreateChannel(ctx, guildID, discordgo.GuildChannelCreateData{
		Name:     spec.meta.Name,
		Type:     spec.kind,
		Topic:    spec.topic,
		ParentID: parentID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create %s channel: %w", spec.resource, err)
	}
	byID[ch.ID] = ch
	log.Printf("Created %s channel %s in guild %s", spec.resource, ch.Name, guildID)
	return ch.ID, s.resources.StoreResource(guildID, spec.resource, ch.ID, spec.meta)
}

func (s *Setup) reparent(ctx context.Context, ch *discordgo.Channel, parentID string) {
	if parentID == "" || ch.Type == discordgo.ChannelTypeGuildCategory || ch.ParentID == parentID {
		return
	}
	if err := s.channels.MoveChannel(ctx, ch.ID, parentID); err != nil {
		log.Printf("Could not move channel %s into category %s: %v", ch.ID, parentID, err)
	}
}

// ensureEmbed posts an embed unless the bot already posted one with marker in its title.
func (s *Setup) ensureEmbed(ctx context.Context, channelID, marker string, build func() *discordgo.MessageEmbed, limit int) error {
	_, err := s.messages.FindByTitle(ctx, channelID, marker, limit)
	if err == nil {
		return nil
	}
	if !model.IsNotFound(err) {
		return err
	}
	_, err = s.messages.SendEmbed(ctx, channelID, build())
	return err
}

func modeTopic(mode model.Mode) string {
	info := progression.GetModeInfo(mode)
	if mode == model.ModeExtreme {
		return info.Name + " Challenge - Corrupted Hunleff to Infinite Random"
	}
	return fmt.Sprintf("%s Challenge - %s (%d bosses)", info.Name, info.Description, progression.MaxBosses(mode))
}

// SessionChannels implements ChannelAdmin on a discordgo session.
type SessionChannels struct {
	session *discordgo.Session
}

func NewSessionChannels(s *discordgo.Session) *SessionChannels {
	return &SessionChannels{session: s}
}

func (c *SessionChannels) Channels(ctx context.Context, guildID string) ([]*discordgo.Channel, error) {
	return c.session.GuildChannels(guildID, discordgo.WithContext(ctx))
}

func (c *SessionChannels) CreateChannel(ctx context.Context, guildID string, data discordgo.GuildChannelCreateData) (*discordgo.Channel, error) {
	return c.session.GuildChannelCreateComplex(guildID, data, discordgo.WithContext(ctx))
}

func (c *SessionChannels) MoveChannel(ctx context.Context, channelID, parentID string) error {
	_, err := c.session.ChannelEdit(channelID, &discordgo.ChannelEdit{ParentID: parentID}, discordgo.WithContext(ctx))
	return err
}
