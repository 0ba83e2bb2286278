package defs

import (
	"boss-challenge-bot/model"
	"boss-challenge-bot/progression"

	"github.com/bwmarrin/discordgo"
)

var noDM = false

func modeChoices(withRoute bool) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(model.Modes))
	for _, mode := range model.Modes {
		info := progression.GetModeInfo(mode)
		name := info.Emoji + " " + info.Name
		if withRoute {
			name += " (" + info.Description + ")"
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: string(mode)})
	}
	return choices
}

var Join = &discordgo.ApplicationCommand{
	Name:         "join",
	Description:  "Join the RuneScape boss progression challenge",
	DMPermission: &noDM,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "mode",
			Description: "Challenge difficulty: Easy, Normal, Hard, or Extreme",
			Required:    true,
			Choices:     modeChoices(true),
		},
	},
}

var Leave = &discordgo.ApplicationCommand{
	Name:         "leave",
	Description:  "Leave the boss progression challenge",
	DMPermission: &noDM,
}

var Reset = &discordgo.ApplicationCommand{
	Name:         "reset",
	Description:  "Reset your boss progression (if you died)",
	DMPermission: &noDM,
}

var Submit = &discordgo.ApplicationCommand{
	Name:         "submit",
	Description:  "Submit a boss kill with before/after screenshots",
	DMPermission: &noDM,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionAttachment,
			Name:        "before",
			Description: "Before image - your gear/inventory before fighting the boss",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionAttachment,
			Name:        "after",
			Description: "After image - your loot/rewards after killing the boss",
			Required:    true,
		},
	},
}
