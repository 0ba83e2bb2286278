package challenge

import (
	"context"
	"fmt"

	"boss-challenge-bot/model"
	"boss-challenge-bot/progression"
)

// JoinResult is what the user is told after joining.
type JoinResult struct {
	Participant *model.Participant
	StartBoss   string
	Info        progression.ModeInfo
}

// Join starts a run in the given tier.
func (s *Service) Join(ctx context.Context, guildID, userID, rawMode string) (*JoinResult, error) {
	mode, err := model.ParseMode(rawMode)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnlocked(guildID); err != nil {
		return nil, err
	}

	p, err := s.store.Join(guildID, userID, mode)
	if err != nil {
		return nil, err
	}

	s.refreshBoard(ctx, guildID, mode)
	return &JoinResult{
		Participant: p,
		StartBoss:   s.engine.NextBoss(0, mode),
		Info:        progression.GetModeInfo(mode),
	}, nil
}

// Leave ends a run. Extreme progress stays visible through the archive.
func (s *Service) Leave(ctx context.Context, guildID, userID string) (*model.Participant, error) {
	if err := s.checkUnlocked(guildID); err != nil {
		return nil, err
	}
	p, err := s.store.Leave(guildID, userID)
	if err != nil {
		return nil, err
	}
	s.refreshBoard(ctx, guildID, p.Mode)
	return p, nil
}

// ResetResult carries the state before the reset for the announcement.
type ResetResult struct {
	Mode             model.Mode
	PreviousProgress int
	PreviousRank     int
	StartBoss        string
}

// Reset sends a participant back to the first boss of their tier.
func (s *Service) Reset(ctx context.Context, guildID, userID, userName string) (*ResetResult, error) {
	if err := s.checkUnlocked(guildID); err != nil {
		return nil, err
	}
	before, err := s.store.GetParticipant(guildID, userID)
	if err != nil {
		return nil, err
	}
	rank, err := s.store.RankOf(guildID, userID, before.Mode)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Reset(guildID, userID); err != nil {
		return nil, err
	}

	res := &ResetResult{
		Mode:             before.Mode,
		PreviousProgress: before.Progress,
		PreviousRank:     rank,
		StartBoss:        s.engine.NextBoss(0, before.Mode),
	}

	if s.notifier != nil {
		notice := ResetNotice{
			UserID:           userID,
			UserName:         userName,
			Mode:             res.Mode,
			PreviousProgress: res.PreviousProgress,
			PreviousRank:     res.PreviousRank,
			StartBoss:        res.StartBoss,
			At:               s.now(),
		}
		if err := s.notifier.NotifyReset(ctx, guildID, notice); err != nil {
			s.Warn("reset", fmt.Sprintf("announcement for %s failed: %v", userID, err))
		}
	}
	s.refreshBoard(ctx, guildID, res.Mode)
	return res, nil
}
