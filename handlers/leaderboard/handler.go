package leaderboard

import (
	"context"
	"fmt"
	"log"
	"time"

	"boss-challenge-bot/model"
	"boss-challenge-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// GuildBootstrapper recreates the challenge channels of a guild.
type GuildBootstrapper interface {
	EnsureGuild(ctx context.Context, guildID string) error
}

// HandleRefreshCommand handles /leaderboard-refresh: it repairs the guild
// layout and redraws every tier board.
func HandleRefreshCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot, setup GuildBootstrapper, boards *Sync) {
	cfg := b.GetConfig()
	if !utils.IsAdmin(i.Member, cfg.AdminRoleIDs, cfg.DeveloperUserIDs) {
		utils.SendErrorResponse(s, i, "You do not have permission to use this command.")
		return
	}
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Error deferring leaderboard refresh: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if setup != nil {
		if err := setup.EnsureGuild(ctx, i.GuildID); err != nil {
			utils.LogError(s, cfg.LogChannelID, "Leaderboard", "Refresh", fmt.Sprintf("guild setup for %s failed: %v", i.GuildID, err))
			utils.SendFollowUpError(s, i.Interaction, "Failed to recreate the challenge channels. Check the bot permissions.")
			return
		}
	}
	if err := boards.RefreshGuild(ctx, i.GuildID); err != nil {
		utils.LogError(s, cfg.LogChannelID, "Leaderboard", "Refresh", fmt.Sprintf("guild %s: %v", i.GuildID, err))
		utils.SendFollowUpError(s, i.Interaction, "Some leaderboards could not be refreshed. See the log channel for details.")
		return
	}
	utils.SendFollowUp(s, i.Interaction, "✅ All leaderboards have been refreshed.")
}

// UpdateGuild is the scheduled refresh of one guild.
func UpdateGuild(ctx context.Context, b model.Bot, boards *Sync, guildID string) {
	if err := boards.RefreshGuild(ctx, guildID); err != nil {
		log.Printf("Error updating leaderboards for guild %s: %v", guildID, err)
		utils.LogWarn(b.GetSession(), b.GetConfig().LogChannelID, "Leaderboard", "ScheduledUpdate", fmt.Sprintf("guild %s: %v", guildID, err))
	}
}
