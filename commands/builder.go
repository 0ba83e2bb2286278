package commands

import (
	"boss-challenge-bot/commands/defs"

	"github.com/bwmarrin/discordgo"
)

// GenerateCommands returns every slash command the bot registers in a guild.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Join,
		defs.Leave,
		defs.Reset,
		defs.Submit,
		defs.ChallengeLock,
		defs.ChallengeUnlock,
		defs.SetProgress,
		defs.LeaderboardRefresh,
		defs.SystemInfo,
	}
}
