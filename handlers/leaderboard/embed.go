package leaderboard

import (
	"fmt"
	"strings"
	"time"

	"boss-challenge-bot/model"

	"github.com/bwmarrin/discordgo"
)

const fieldValueLimit = 1024

// Embed turns a view into the Discord message embed of the board.
func Embed(v *View) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       v.Title,
		Description: v.Description,
		Color:       v.Color,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Last updated"},
		Timestamp:   v.UpdatedAt.Format(time.RFC3339),
	}

	if v.Mode == model.ModeExtreme {
		if len(v.Rankings) == 0 {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "No active participants",
				Value: "Use `/join` to start Extreme Mode.",
			})
			return embed
		}
		lines := make([]string, len(v.Rankings))
		for i, row := range v.Rankings {
			lines[i] = fmt.Sprintf("%s **%s** - %d defeated | Next: %s", row.Marker, row.Name, row.Progress, row.NextBoss)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Rankings", Value: joinLines(lines)})
		return embed
	}

	finished := "No finishers yet"
	if len(v.Finished) > 0 {
		lines := make([]string, len(v.Finished))
		for i, row := range v.Finished {
			lines[i] = fmt.Sprintf("%s **%s** • finished at <t:%d:f>", row.Marker, row.Name, row.FinishedAt.Unix())
		}
		finished = joinLines(lines)
	}

	inProgress := "No active participants"
	if len(v.InProgress) > 0 {
		lines := make([]string, len(v.InProgress))
		for i, row := range v.InProgress {
			lines[i] = fmt.Sprintf("%s **%s** — %d defeated | Next: %s", row.Marker, row.Name, row.Progress, row.NextBoss)
		}
		inProgress = joinLines(lines)
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "🏁 Finished", Value: finished},
		&discordgo.MessageEmbedField{Name: "\u200b", Value: "— — —"},
		&discordgo.MessageEmbedField{Name: "⏳ In Progress", Value: inProgress},
	)
	return embed
}

// joinLines keeps whole lines within the embed field limit.
func joinLines(lines []string) string {
	var b strings.Builder
	for i, line := range lines {
		if b.Len()+len(line)+1 > fieldValueLimit {
			more := fmt.Sprintf("… and %d more", len(lines)-i)
			if b.Len()+len(more) <= fieldValueLimit {
				b.WriteString(more)
			}
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
