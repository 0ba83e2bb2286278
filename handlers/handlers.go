package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"boss-challenge-bot/bot"
	"boss-challenge-bot/handlers/challenge"
	"boss-challenge-bot/handlers/leaderboard"
	"boss-challenge-bot/utils"

	"github.com/bwmarrin/discordgo"
)

func Register(b *bot.Bot, svc *challenge.Service) {
	b.CommandHandlers = commandHandlers(b, challenge.NewHandler(svc, b))
	addHandlers(b)
}

func commandHandlers(b *bot.Bot, h *challenge.Handler) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"join":             h.HandleJoin,
		"leave":            h.HandleLeave,
		"reset":            h.HandleReset,
		"submit":           h.HandleSubmit,
		"challenge-lock":   h.HandleLock,
		"challenge-unlock": h.HandleUnlock,
		"set-progress":     h.HandleSetProgress,
		"leaderboard-refresh": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			leaderboard.HandleRefreshCommand(s, i, b, b.Setup, b.Boards)
		},
		"system-info": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			SystemInfoHandler(s, i, b, b.Store)
		},
	}
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})
	b.Session.AddHandler(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		if g.Unavailable {
			return
		}
		go func() {
			b.RefreshCommands(g.ID)
			setupGuild(b, g.ID)
		}()
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		if i.GuildID == "" {
			utils.SendErrorResponse(s, i, "The boss challenge can only be used inside a server.")
			return
		}
		if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
			h(s, i)
		}
	})
}

// GuildCreate fires for every guild at startup and for new joins.
func setupGuild(b *bot.Bot, guildID string) {
	cfg := b.GetConfig()
	if cfg.DisableGuildSetup || b.Setup == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := b.Setup.EnsureGuild(ctx, guildID); err != nil {
		log.Printf("Guild setup for %s finished with errors: %v", guildID, err)
		utils.LogWarn(b.Session, cfg.LogChannelID, "Setup", "EnsureGuild", fmt.Sprintf("guild %s: %v", guildID, err))
		return
	}
	log.Printf("Guild %s is set up for the boss challenge", guildID)
}
