package bot

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"boss-challenge-bot/handlers/leaderboard"
	"boss-challenge-bot/model"
	"boss-challenge-bot/scanner"
	"boss-challenge-bot/utils/database"

	"github.com/bwmarrin/discordgo"
	"github.com/go-co-op/gocron/v2"
)

// BotProvider defines the methods the scheduler needs from the Bot.
type BotProvider interface {
	GetConfig() *model.Config
	GetSession() *discordgo.Session
	GetStore() *database.Store
	GetBoards() *leaderboard.Sync
}

// Scheduler manages all scheduled tasks.
type Scheduler struct {
	bot   BotProvider
	sched gocron.Scheduler
}

// NewScheduler creates a new scheduler.
func NewScheduler(bot BotProvider) *Scheduler {
	return &Scheduler{bot: bot}
}

// Start registers the periodic board refresh and the daily evidence cleanup.
func (s *Scheduler) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	interval := s.bot.GetConfig().RefreshInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if _, err := sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.updateLeaderboards),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return fmt.Errorf("failed to schedule leaderboard refresh: %w", err)
	}

	if _, err := sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(5, 0, 0))),
		gocron.NewTask(func() {
			scanner.RunEvidenceCleanup(s.bot.GetSession(), s.bot.GetConfig())
		}),
	); err != nil {
		return fmt.Errorf("failed to schedule evidence cleanup: %w", err)
	}

	sched.Start()
	s.sched = sched
	return nil
}

// Stop terminates all scheduled tasks gracefully.
func (s *Scheduler) Stop() {
	if s.sched == nil {
		return
	}
	log.Println("Stopping scheduler...")
	if err := s.sched.Shutdown(); err != nil {
		log.Printf("Error stopping scheduler: %v", err)
	}
	log.Println("Scheduler stopped.")
}

func (s *Scheduler) updateLeaderboards() {
	guilds, err := s.bot.GetStore().BoundGuilds()
	if err != nil {
		log.Printf("Error loading leaderboard bindings for update: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var wg sync.WaitGroup
	workerLimit := 5 // Limit to 5 concurrent workers
	guard := make(chan struct{}, workerLimit)

	for _, guildID := range guilds {
		wg.Add(1)
		guard <- struct{}{} // Acquire a worker slot

		go func(guildID string) {
			defer func() {
				<-guard // Release the worker slot
				wg.Done()
			}()
			log.Printf("Updating leaderboards for guild: %s", guildID)
			leaderboard.UpdateGuild(ctx, s.bot, s.bot.GetBoards(), guildID)
		}(guildID)
	}

	wg.Wait()
}
