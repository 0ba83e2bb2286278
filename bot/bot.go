package bot

import (
	"log"
	"sync"
	"sync/atomic"

	"boss-challenge-bot/commands"
	"boss-challenge-bot/handlers/challenge"
	"boss-challenge-bot/handlers/leaderboard"
	"boss-challenge-bot/model"
	"boss-challenge-bot/utils/database"

	"github.com/bwmarrin/discordgo"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	commandsMu         sync.Mutex
	config             atomic.Value // *model.Config
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	Store              *database.Store
	Boards             *leaderboard.Sync
	Setup              *challenge.Setup
	scheduler          *Scheduler
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func (b *Bot) GetStore() *database.Store {
	return b.Store
}

func (b *Bot) GetBoards() *leaderboard.Sync {
	return b.Boards
}

func New(cfg *model.Config, store *database.Store) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	b := &Bot{
		Session: dg,
		Store:   store,
	}
	b.config.Store(cfg)
	return b, nil
}

func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	if b.scheduler != nil {
		b.scheduler.Stop()
	}
	b.Session.Close()
}

// RefreshCommands overwrites the slash commands of a guild.
func (b *Bot) RefreshCommands(guildID string) {
	appID := b.GetConfig().AppID
	if appID == "" && b.Session.State != nil && b.Session.State.User != nil {
		appID = b.Session.State.User.ID
	}

	cmds := commands.GenerateCommands()
	log.Printf("Registering %d commands for guild %s...", len(cmds), guildID)
	registeredCmds, err := b.Session.ApplicationCommandBulkOverwrite(appID, guildID, cmds)
	if err != nil {
		log.Printf("cannot update commands for guild '%s': %v", guildID, err)
		return
	}
	b.commandsMu.Lock()
	b.RegisteredCommands = append(b.RegisteredCommands, registeredCmds...)
	b.commandsMu.Unlock()
}
