package challenge

import (
	"fmt"
	"strings"

	"boss-challenge-bot/model"
	"boss-challenge-bot/progression"

	"github.com/bwmarrin/discordgo"
)

const bossesPerField = 25

// BossListEmbed lists the bosses of a tier in order.
func BossListEmbed(mode model.Mode) *discordgo.MessageEmbed {
	info := progression.GetModeInfo(mode)
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s %s", info.Emoji, info.Name, bossListMarker),
		Description: info.Description,
		Color:       info.Color,
		Footer:      &discordgo.MessageEmbedFooter{Text: info.Name + ": " + info.Description},
	}

	if mode == model.ModeExtreme {
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Starting Boss", Value: "**" + progression.ExtremeStartBoss + "**"},
			{Name: "After Completion", Value: "Random bosses from the entire boss list"},
		}
		return embed
	}

	list := progression.DifficultyList(mode)
	for start := 0; start < len(list); start += bossesPerField {
		end := min(start+bossesPerField, len(list))
		var b strings.Builder
		for i := start; i < end; i++ {
			fmt.Fprintf(&b, "%d. **%s**\n", i+1, list[i])
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("Bosses %d-%d", start+1, end),
			Value:  b.String(),
			Inline: true,
		})
	}
	return embed
}

// AboutEmbed explains the challenge in the info channel.
func AboutEmbed() *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       aboutTitle,
		Description: "Progress through RuneScape bosses in order. Complete one boss, move to the next.",
		Color:       0x3498db,
	}
	for _, mode := range model.Modes {
		info := progression.GetModeInfo(mode)
		value := fmt.Sprintf("%d bosses: %s", progression.MaxBosses(mode), info.Description)
		if mode == model.ModeExtreme {
			value = "Infinite: " + progression.ExtremeStartBoss + " → Random bosses"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: info.Emoji + " " + info.Name, Value: value, Inline: true})
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "📝 Core Rules", Value: "• Submit before/after screenshots\n• One boss at a time in order\n• Death = reset progress to 0"},
		&discordgo.MessageEmbedField{Name: "💰 Economy Rules", Value: "• Only boss loot can be sold for money\n• No other money-making methods\n• Can buy from Grand Exchange & shops\n• No picking up spawned items", Inline: true},
		&discordgo.MessageEmbedField{Name: "⚔️ Gear Restrictions", Value: "• Only items buyable from GE/shops\n• No void, dragon defender, arclight, etc.\n• Start with nothing after death", Inline: true},
	)
	return embed
}

// CommandsEmbed lists the participant commands.
func CommandsEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       commandsTitle,
		Description: "Use these slash commands to participate in the boss challenge!",
		Color:       0x3498db,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🎯 /join", Value: "Join the boss challenge by selecting a difficulty mode"},
			{Name: "🚪 /leave", Value: "Leave the challenge"},
			{Name: "🔄 /reset", Value: "Reset your progress back to **0**, if you died"},
			{Name: "✅ /submit", Value: "Submit **before** & **after** screenshots of your boss kill"},
		},
	}
}
