package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"log"

	"boss-challenge-bot/model"
)

// Bindings persists the message id bound to each tier board.
type Bindings interface {
	GetResource(guildID string, resourceType model.ResourceType) (*model.ResourceBinding, error)
	StoreResource(guildID string, resourceType model.ResourceType, resourceID string, meta model.ResourceMetadata) error
	RemoveResource(guildID string, resourceType model.ResourceType) error
}

// Sync keeps exactly one live board message per (guild, tier) in step with the store.
type Sync struct {
	renderer  *Renderer
	transport Transport
	bindings  Bindings
	scanLimit int

	// OnStale is called when a bound message turned out to be deleted.
	OnStale func(guildID string, mode model.Mode, messageID string)
}

func NewSync(renderer *Renderer, transport Transport, bindings Bindings, scanLimit int) *Sync {
	if scanLimit <= 0 {
		scanLimit = 50
	}
	return &Sync{renderer: renderer, transport: transport, bindings: bindings, scanLimit: scanLimit}
}

// State reports whether a board is currently bound.
func (s *Sync) State(guildID string, mode model.Mode) (model.BindingState, error) {
	_, err := s.bindings.GetResource(guildID, model.LeaderboardResource(mode))
	switch {
	case err == nil:
		return model.Bound, nil
	case model.IsNotFound(err):
		return model.Unbound, nil
	}
	return model.Unbound, err
}

// Ensure makes sure a board exists in channelID. A board that is still
// reachable is left untouched.
func (s *Sync) Ensure(ctx context.Context, channelID, guildID string, mode model.Mode) error {
	binding, err := s.bound(guildID, mode)
	if err != nil {
		return err
	}
	if binding != nil {
		err := s.transport.FetchMessage(ctx, binding.Metadata.ChannelID, binding.ResourceID)
		if err == nil {
			return nil
		}
		if !model.IsNotFound(err) {
			return fmt.Errorf("failed to fetch %s board: %w", mode, err)
		}
		if err := s.unbind(guildID, mode, binding.ResourceID); err != nil {
			return err
		}
	}

	if id, err := s.probe(ctx, channelID, mode); err != nil {
		return err
	} else if id != "" {
		return s.bind(guildID, mode, channelID, id)
	}

	return s.sendFresh(ctx, channelID, guildID, mode)
}

// Update re-renders the board and edits it in place, recreating it when
// the bound message is gone.
func (s *Sync) Update(ctx context.Context, channelID, guildID string, mode model.Mode) error {
	view, err := s.renderer.Render(ctx, guildID, mode)
	if err != nil {
		return err
	}
	embed := Embed(view)

	binding, err := s.bound(guildID, mode)
	if err != nil {
		return err
	}
	if binding != nil {
		err := s.transport.EditEmbed(ctx, binding.Metadata.ChannelID, binding.ResourceID, embed)
		if err == nil {
			return nil
		}
		if !model.IsNotFound(err) {
			return fmt.Errorf("failed to edit %s board: %w", mode, err)
		}
		if err := s.unbind(guildID, mode, binding.ResourceID); err != nil {
			return err
		}
	}

	id, err := s.probe(ctx, channelID, mode)
	if err != nil {
		return err
	}
	if id != "" {
		err := s.transport.EditEmbed(ctx, channelID, id, embed)
		if err == nil {
			return s.bind(guildID, mode, channelID, id)
		}
		if !model.IsNotFound(err) {
			return fmt.Errorf("failed to edit %s board: %w", mode, err)
		}
	}

	id, err = s.transport.SendEmbed(ctx, channelID, embed)
	if err != nil {
		return fmt.Errorf("failed to send %s board: %w", mode, err)
	}
	return s.bind(guildID, mode, channelID, id)
}

// Refresh updates the board of a tier in its bound tier channel. A guild
// without a channel binding is skipped.
func (s *Sync) Refresh(ctx context.Context, guildID string, mode model.Mode) error {
	channel, err := s.bindings.GetResource(guildID, model.ChannelResource(mode))
	if err != nil {
		if model.IsNotFound(err) {
			log.Printf("No %s channel bound in guild %s, skipping leaderboard refresh", mode, guildID)
			return nil
		}
		return err
	}
	return s.Update(ctx, channel.ResourceID, guildID, mode)
}

// RefreshGuild refreshes every tier board of a guild.
func (s *Sync) RefreshGuild(ctx context.Context, guildID string) error {
	var errs []error
	for _, mode := range model.Modes {
		if err := s.Refresh(ctx, guildID, mode); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", mode, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Sync) bound(guildID string, mode model.Mode) (*model.ResourceBinding, error) {
	binding, err := s.bindings.GetResource(guildID, model.LeaderboardResource(mode))
	if err != nil {
		if model.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return binding, nil
}

// probe looks for a board the bot posted earlier but lost track of.
func (s *Sync) probe(ctx context.Context, channelID string, mode model.Mode) (string, error) {
	id, err := s.transport.FindByTitle(ctx, channelID, TitleMarker(mode), s.scanLimit)
	if err != nil {
		if model.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to scan channel %s: %w", channelID, err)
	}
	return id, nil
}

func (s *Sync) sendFresh(ctx context.Context, channelID, guildID string, mode model.Mode) error {
	view, err := s.renderer.Render(ctx, guildID, mode)
	if err != nil {
		return err
	}
	id, err := s.transport.SendEmbed(ctx, channelID, Embed(view))
	if err != nil {
		return fmt.Errorf("failed to send %s board: %w", mode, err)
	}
	return s.bind(guildID, mode, channelID, id)
}

func (s *Sync) bind(guildID string, mode model.Mode, channelID, messageID string) error {
	meta := model.ResourceMetadata{Kind: model.KindLeaderboard, Mode: mode, ChannelID: channelID}
	return s.bindings.StoreResource(guildID, model.LeaderboardResource(mode), messageID, meta)
}

func (s *Sync) unbind(guildID string, mode model.Mode, messageID string) error {
	log.Printf("Leaderboard %s in guild %s is %s (message %s gone), rebinding", mode, guildID, model.Stale, messageID)
	if s.OnStale != nil {
		s.OnStale(guildID, mode, messageID)
	}
	return s.bindings.RemoveResource(guildID, model.LeaderboardResource(mode))
}
