// Package challenge implements the join, leave, reset and submit workflows
// and their Discord command handlers.
package challenge

import (
	"context"
	"log"
	"time"

	"boss-challenge-bot/model"
	"boss-challenge-bot/progression"
	"boss-challenge-bot/utils"
	"boss-challenge-bot/utils/evidence"
)

// Store is the participant store surface used by the workflows.
type Store interface {
	GetParticipant(guildID, userID string) (*model.Participant, error)
	Join(guildID, userID string, mode model.Mode) (*model.Participant, error)
	Leave(guildID, userID string) (*model.Participant, error)
	Reset(guildID, userID string) (*model.Participant, error)
	RecordCompletion(guildID, userID, beforePath, afterPath string) (*model.Participant, error)
	FinalizeDifficulty(guildID, userID string, mode model.Mode, finishedAt time.Time) (int, error)
	SetNextExtremeBoss(guildID, userID, boss string) error
	SetProgress(guildID, userID string, progress int, mode model.Mode) (*model.Participant, error)
	RankOf(guildID, userID string, mode model.Mode) (int, error)
	IsLocked(guildID string) (bool, error)
	SetLocked(guildID string, locked bool) error
}

// Board refreshes the live leaderboard of a tier.
type Board interface {
	Refresh(ctx context.Context, guildID string, mode model.Mode) error
}

// Service runs the participant workflows. Store mutations are the commit
// point; board refreshes and announcements after it are best effort.
type Service struct {
	store    Store
	engine   *progression.Engine
	evidence evidence.Store
	board    Board
	notifier Notifier
	locker   utils.Locker
	now      func() time.Time

	// Warn reports best-effort failures to operators. Defaults to stdout.
	Warn func(operation, details string)
}

func NewService(store Store, engine *progression.Engine, ev evidence.Store, board Board, notifier Notifier, locker utils.Locker) *Service {
	if locker == nil {
		locker = utils.NewMemoryLocker(0)
	}
	return &Service{
		store:    store,
		engine:   engine,
		evidence: ev,
		board:    board,
		notifier: notifier,
		locker:   locker,
		now:      time.Now,
		Warn: func(operation, details string) {
			log.Printf("[WARN] challenge/%s: %s", operation, details)
		},
	}
}

func (s *Service) checkUnlocked(guildID string) error {
	locked, err := s.store.IsLocked(guildID)
	if err != nil {
		return err
	}
	if locked {
		return model.ErrGuildLocked
	}
	return nil
}

// refreshBoard is the best-effort board update after a commit.
func (s *Service) refreshBoard(ctx context.Context, guildID string, mode model.Mode) {
	if s.board == nil {
		return
	}
	if err := s.board.Refresh(ctx, guildID, mode); err != nil {
		s.Warn("refresh", "guild "+guildID+" "+string(mode)+": "+err.Error())
	}
}
