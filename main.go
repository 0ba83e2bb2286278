package main

import (
	"context"
	"log"
	"time"

	"boss-challenge-bot/bot"
	"boss-challenge-bot/config"
	"boss-challenge-bot/handlers"
	"boss-challenge-bot/handlers/challenge"
	"boss-challenge-bot/handlers/leaderboard"
	"boss-challenge-bot/model"
	"boss-challenge-bot/progression"
	"boss-challenge-bot/utils"
	"boss-challenge-bot/utils/database"
	"boss-challenge-bot/utils/evidence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	store, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer store.Close()

	b, err := bot.New(cfg, store)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}
	defer b.Close()

	engine := progression.NewEngine()
	transport := leaderboard.NewSessionTransport(b.Session)
	renderer := leaderboard.NewRenderer(store, engine, utils.NewIdentity(b.Session), cfg.LeaderboardLimit)
	boards := leaderboard.NewSync(renderer, transport, store, cfg.HistoryScanLimit)
	boards.OnStale = func(guildID string, mode model.Mode, messageID string) {
		utils.LogWarn(b.Session, cfg.LogChannelID, "Leaderboard", "Stale", "guild "+guildID+" "+string(mode)+" board "+messageID+" was deleted, recreating")
	}
	b.Boards = boards

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	evidenceStore, err := newEvidenceStore(ctx, cfg)
	if err != nil {
		cancel()
		log.Fatalf("Error initializing evidence storage: %v", err)
	}
	locker, closeLocker, err := newLocker(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Error connecting to redis: %v", err)
	}
	defer closeLocker()

	notifier := challenge.NewChannelNotifier(transport, store)
	svc := challenge.NewService(store, engine, evidenceStore, boards, notifier, locker)
	svc.Warn = func(operation, details string) {
		utils.LogWarn(b.Session, cfg.LogChannelID, "Challenge", operation, details)
	}

	b.Setup = challenge.NewSetup(challenge.NewSessionChannels(b.Session), transport, store, boards, cfg.HistoryScanLimit)

	handlers.Register(b, svc)

	b.Run()
}

func newEvidenceStore(ctx context.Context, cfg *model.Config) (evidence.Store, error) {
	if cfg.Evidence.Backend == "s3" {
		client, err := evidence.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		log.Printf("Storing evidence in bucket %s", cfg.S3.Bucket)
		return evidence.NewS3Store(client, cfg.S3.Bucket, cfg.S3.PublicBaseURL, utils.GlobalHTTPClient), nil
	}
	log.Printf("Storing evidence under %s", cfg.Evidence.Path)
	return evidence.NewLocalStore(cfg.Evidence.Path, utils.GlobalHTTPClient), nil
}

// newLocker returns the submission locker and its cleanup func.
func newLocker(ctx context.Context, cfg *model.Config) (utils.Locker, func(), error) {
	if cfg.Redis.Addr == "" {
		return utils.NewMemoryLocker(cfg.SubmissionLockTTL), func() {}, nil
	}
	l, err := utils.NewRedisLocker(ctx, cfg.Redis, cfg.SubmissionLockTTL)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("Using redis at %s for submission locks", cfg.Redis.Addr)
	return l, func() { l.Close() }, nil
}
