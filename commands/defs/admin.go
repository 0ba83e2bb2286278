package defs

import "github.com/bwmarrin/discordgo"

var ChallengeLock = &discordgo.ApplicationCommand{
	Name:         "challenge-lock",
	Description:  "[Admin] Pause join, leave, reset and submit in this server",
	DMPermission: &noDM,
}

var ChallengeUnlock = &discordgo.ApplicationCommand{
	Name:         "challenge-unlock",
	Description:  "[Admin] Resume the boss challenge in this server",
	DMPermission: &noDM,
}

var SetProgress = &discordgo.ApplicationCommand{
	Name:         "set-progress",
	Description:  "[Admin/Test] Set your progress to the second-to-last boss of a difficulty",
	DMPermission: &noDM,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "difficulty",
			Description: "Difficulty to set progress for",
			Required:    true,
			Choices:     modeChoices(false),
		},
	},
}

var LeaderboardRefresh = &discordgo.ApplicationCommand{
	Name:         "leaderboard-refresh",
	Description:  "[Admin] Recreate missing challenge channels and refresh every leaderboard",
	DMPermission: &noDM,
}

var SystemInfo = &discordgo.ApplicationCommand{
	Name:         "system-info",
	Description:  "[Admin] Show host and challenge statistics",
	DMPermission: &noDM,
}
