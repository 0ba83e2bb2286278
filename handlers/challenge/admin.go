package challenge

import (
	"context"

	"boss-challenge-bot/model"
	"boss-challenge-bot/progression"
)

// Lock pauses all participant commands in a guild.
func (s *Service) Lock(guildID string) error {
	return s.store.SetLocked(guildID, true)
}

func (s *Service) Unlock(guildID string) error {
	return s.store.SetLocked(guildID, false)
}

// SetProgressResult reports the override applied by SetProgress.
type SetProgressResult struct {
	Mode     model.Mode
	Progress int
	Total    int
}

// SetProgress moves the user to the second to last boss of a finite tier,
// joining them if needed. Extreme has no last boss and is rejected.
func (s *Service) SetProgress(ctx context.Context, guildID, userID, rawMode string) (*SetProgressResult, error) {
	mode, err := model.ParseMode(rawMode)
	if err != nil {
		return nil, err
	}
	total := progression.MaxBosses(mode)
	if total < 0 {
		return nil, model.ErrNoFixedEnd
	}

	var previous model.Mode
	if p, err := s.store.GetParticipant(guildID, userID); err == nil {
		previous = p.Mode
	}

	p, err := s.store.SetProgress(guildID, userID, total-1, mode)
	if err != nil {
		return nil, err
	}

	if previous != "" && previous != mode {
		s.refreshBoard(ctx, guildID, previous)
	}
	s.refreshBoard(ctx, guildID, mode)
	return &SetProgressResult{Mode: mode, Progress: p.Progress, Total: total}, nil
}
