package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"boss-challenge-bot/utils"
)

func (b *Bot) Run() {
	err := b.Session.Open()
	if err != nil {
		log.Fatalf("Error opening connection: %v", err)
	}

	// Start the scheduler
	b.scheduler = NewScheduler(b)
	if err := b.scheduler.Start(); err != nil {
		log.Printf("Failed to start scheduler: %v", err)
	}

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	utils.LogInfo(b.Session, b.GetConfig().LogChannelID, "System", "Startup", "Bot has started successfully.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
}
