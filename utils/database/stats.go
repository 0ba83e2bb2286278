package database

import (
	"fmt"

	"boss-challenge-bot/model"
)

// ChallengeStats holds the counters shown by /system-info.
type ChallengeStats struct {
	Participants map[model.Mode]int // active runs per mode
	Completions  map[model.Mode]int // finishes per mode
	Archived     int                // archived extreme runs
	Submissions  int                // accepted submissions
}

// GetChallengeStats counts across all guilds when guildID is empty.
func (s *Store) GetChallengeStats(guildID string) (*ChallengeStats, error) {
	stats := &ChallengeStats{
		Participants: make(map[model.Mode]int),
		Completions:  make(map[model.Mode]int),
	}
	for _, mode := range model.Modes {
		n, err := s.CountParticipants(guildID, mode)
		if err != nil {
			return nil, err
		}
		stats.Participants[mode] = n
		if mode == model.ModeExtreme {
			continue
		}
		c, err := s.CountCompletions(guildID, mode)
		if err != nil {
			return nil, err
		}
		stats.Completions[mode] = c
	}

	if err := s.db.Get(&stats.Archived, "SELECT COUNT(*) FROM extreme_archive WHERE (? = '' OR guild_id = ?)", guildID, guildID); err != nil {
		return nil, fmt.Errorf("failed to count archived runs: %w", err)
	}
	if err := s.db.Get(&stats.Submissions, "SELECT COUNT(*) FROM submissions WHERE (? = '' OR guild_id = ?)", guildID, guildID); err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}
	return stats, nil
}

// CountParticipants counts active runs in a mode.
func (s *Store) CountParticipants(guildID string, mode model.Mode) (int, error) {
	var n int
	err := s.db.Get(&n, "SELECT COUNT(*) FROM participants WHERE (? = '' OR guild_id = ?) AND mode = ?", guildID, guildID, mode)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s participants: %w", mode, err)
	}
	return n, nil
}

// CountCompletions counts finish records in a mode.
func (s *Store) CountCompletions(guildID string, mode model.Mode) (int, error) {
	var n int
	err := s.db.Get(&n, "SELECT COUNT(*) FROM completions WHERE (? = '' OR guild_id = ?) AND difficulty = ?", guildID, guildID, mode)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s completions: %w", mode, err)
	}
	return n, nil
}
