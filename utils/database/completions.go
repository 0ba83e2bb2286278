package database

import (
	"fmt"
	"time"

	"boss-challenge-bot/model"
)

// FinalizeDifficulty appends a completion record with the next order for
// (guild, mode) and removes the participant. Both happen in one transaction.
func (s *Store) FinalizeDifficulty(guildID, userID string, mode model.Mode, finishedAt time.Time) (int, error) {
	if mode == model.ModeExtreme {
		return 0, model.ErrNoFixedEnd
	}
	if !mode.Valid() {
		return 0, fmt.Errorf("%w: %q", model.ErrInvalidMode, mode)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM participants WHERE guild_id = ? AND user_id = ?`, guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to remove finished participant %s: %w", userID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return 0, err
	} else if n == 0 {
		return 0, model.ErrNotJoined
	}

	_, err = tx.Exec(`INSERT INTO completions (guild_id, user_id, difficulty, completion_time, completion_order)
		SELECT ?, ?, ?, ?, COALESCE(MAX(completion_order), 0) + 1
		FROM completions WHERE guild_id = ? AND difficulty = ?`,
		guildID, userID, mode, finishedAt.UTC(), guildID, mode)
	if err != nil {
		return 0, fmt.Errorf("failed to insert completion for %s: %w", userID, err)
	}

	var order int
	err = tx.Get(&order, `SELECT MAX(completion_order) FROM completions WHERE guild_id = ? AND difficulty = ?`, guildID, mode)
	if err != nil {
		return 0, fmt.Errorf("failed to read completion order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return order, nil
}

// FinalizedLeaderboard returns every finisher of a tier in completion order.
func (s *Store) FinalizedLeaderboard(guildID string, mode model.Mode) ([]model.CompletionRecord, error) {
	var records []model.CompletionRecord
	err := s.db.Select(&records, `SELECT id, guild_id, user_id, difficulty, completion_time, completion_order
		FROM completions WHERE guild_id = ? AND difficulty = ?
		ORDER BY completion_order ASC`, guildID, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to get finished %s runs for guild %s: %w", mode, guildID, err)
	}
	return records, nil
}

// ListSubmissions returns the audit trail of a user, oldest first.
func (s *Store) ListSubmissions(guildID, userID string) ([]model.Submission, error) {
	var subs []model.Submission
	err := s.db.Select(&subs, `SELECT id, guild_id, user_id, step, before_path, after_path, submitted_at
		FROM submissions WHERE guild_id = ? AND user_id = ? ORDER BY id ASC`, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for %s: %w", userID, err)
	}
	return subs, nil
}
