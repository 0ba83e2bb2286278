package database

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"boss-challenge-bot/model"
	"boss-challenge-bot/progression"

	"github.com/jmoiron/sqlx"
)

const participantColumns = `guild_id, user_id, mode, progress, joined_at, last_completion_at, reset_at, next_extreme_boss`

// GetParticipant returns the active run of a user or model.ErrNotJoined.
func (s *Store) GetParticipant(guildID, userID string) (*model.Participant, error) {
	return getParticipant(s.db, guildID, userID)
}

func getParticipant(q sqlx.Queryer, guildID, userID string) (*model.Participant, error) {
	var p model.Participant
	query := "SELECT " + participantColumns + " FROM participants WHERE guild_id = ? AND user_id = ?"
	if err := sqlx.Get(q, &p, query, guildID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotJoined
		}
		return nil, fmt.Errorf("failed to get participant %s in guild %s: %w", userID, guildID, err)
	}
	return &p, nil
}

// IsJoined reports whether the user currently has an active run.
func (s *Store) IsJoined(guildID, userID string) (bool, error) {
	var count int
	err := s.db.Get(&count, "SELECT COUNT(*) FROM participants WHERE guild_id = ? AND user_id = ?", guildID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check participant %s in guild %s: %w", userID, guildID, err)
	}
	return count > 0, nil
}

// Join starts a run at progress 0. A user can only be in one tier at a time.
func (s *Store) Join(guildID, userID string, mode model.Mode) (*model.Participant, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidMode, mode)
	}
	p := model.Participant{
		GuildID:  guildID,
		UserID:   userID,
		Mode:     mode,
		Progress: 0,
		JoinedAt: s.timestamp(),
	}
	res, err := s.db.NamedExec(`INSERT INTO participants (guild_id, user_id, mode, progress, joined_at)
		VALUES (:guild_id, :user_id, :mode, :progress, :joined_at)
		ON CONFLICT (guild_id, user_id) DO NOTHING`, p)
	if err != nil {
		return nil, fmt.Errorf("failed to insert participant %s in guild %s: %w", userID, guildID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected for participant %s: %w", userID, err)
	}
	if n == 0 {
		return nil, model.ErrAlreadyJoined
	}
	return &p, nil
}

// Leave ends a run. Extreme runs are archived first so the final position
// stays on the board. The departed participant is returned.
func (s *Store) Leave(guildID, userID string) (*model.Participant, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p, err := getParticipant(tx, guildID, userID)
	if err != nil {
		return nil, err
	}

	if p.Mode == model.ModeExtreme {
		archive := model.ExtremeArchive{
			GuildID:          p.GuildID,
			UserID:           p.UserID,
			Progress:         p.Progress,
			LastCompletionAt: p.LastCompletionAt,
			NextExtremeBoss:  p.NextExtremeBoss,
			ArchivedAt:       s.timestamp(),
		}
		_, err = tx.NamedExec(`INSERT INTO extreme_archive (guild_id, user_id, progress, last_completion_at, next_extreme_boss, archived_at)
			VALUES (:guild_id, :user_id, :progress, :last_completion_at, :next_extreme_boss, :archived_at)
			ON CONFLICT (guild_id, user_id) DO UPDATE SET
				progress = excluded.progress,
				last_completion_at = excluded.last_completion_at,
				next_extreme_boss = excluded.next_extreme_boss,
				archived_at = excluded.archived_at`, archive)
		if err != nil {
			return nil, fmt.Errorf("failed to archive extreme participant %s: %w", userID, err)
		}
	}

	if _, err := tx.Exec("DELETE FROM participants WHERE guild_id = ? AND user_id = ?", guildID, userID); err != nil {
		return nil, fmt.Errorf("failed to delete participant %s in guild %s: %w", userID, guildID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

// Reset puts a run back to progress 0 without changing its tier.
func (s *Store) Reset(guildID, userID string) (*model.Participant, error) {
	res, err := s.db.Exec(`UPDATE participants SET progress = 0, reset_at = ?, next_extreme_boss = NULL
		WHERE guild_id = ? AND user_id = ?`, s.timestamp(), guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reset participant %s in guild %s: %w", userID, guildID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, model.ErrNotJoined
	}
	return s.GetParticipant(guildID, userID)
}

// RecordCompletion advances progress by exactly one and appends the
// submission audit row. It returns the updated participant.
func (s *Store) RecordCompletion(guildID, userID, beforePath, afterPath string) (*model.Participant, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := s.timestamp()
	res, err := tx.Exec(`UPDATE participants SET progress = progress + 1, last_completion_at = ?
		WHERE guild_id = ? AND user_id = ?`, now, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to advance participant %s: %w", userID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, model.ErrNotJoined
	}

	p, err := getParticipant(tx, guildID, userID)
	if err != nil {
		return nil, err
	}

	sub := model.Submission{
		GuildID:     guildID,
		UserID:      userID,
		Step:        p.Progress,
		BeforePath:  beforePath,
		AfterPath:   afterPath,
		SubmittedAt: now,
	}
	_, err = tx.NamedExec(`INSERT INTO submissions (guild_id, user_id, step, before_path, after_path, submitted_at)
		VALUES (:guild_id, :user_id, :step, :before_path, :after_path, :submitted_at)`, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to insert submission for %s: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

// SetNextExtremeBoss stores the pre-drawn next target of an extreme run.
func (s *Store) SetNextExtremeBoss(guildID, userID, boss string) error {
	var value interface{}
	if boss != "" {
		value = boss
	}
	res, err := s.db.Exec("UPDATE participants SET next_extreme_boss = ? WHERE guild_id = ? AND user_id = ?", value, guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to set next extreme boss for %s: %w", userID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return model.ErrNotJoined
	}
	return nil
}

// SetProgress is the admin override: it joins the user if needed, switches
// the tier and sets progress (clamped to zero).
func (s *Store) SetProgress(guildID, userID string, progress int, mode model.Mode) (*model.Participant, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidMode, mode)
	}
	now := s.timestamp()
	_, err := s.db.Exec(`INSERT INTO participants (guild_id, user_id, mode, progress, joined_at, last_completion_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (guild_id, user_id) DO UPDATE SET
			mode = excluded.mode,
			progress = excluded.progress,
			last_completion_at = excluded.last_completion_at`,
		guildID, userID, mode, progression.ClampProgress(progress), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to set progress for %s in guild %s: %w", userID, guildID, err)
	}
	return s.GetParticipant(guildID, userID)
}

// LeaderboardSnapshot returns the live participants of a tier ranked by
// progress, then earliest last completion, then user id. limit <= 0 returns all.
func (s *Store) LeaderboardSnapshot(guildID string, mode model.Mode, limit int) ([]model.Participant, error) {
	query := "SELECT " + participantColumns + ` FROM participants
		WHERE guild_id = ? AND mode = ?
		ORDER BY progress DESC, last_completion_at IS NULL, last_completion_at ASC, user_id ASC`
	args := []interface{}{guildID, mode}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []model.Participant
	if err := s.db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get %s leaderboard for guild %s: %w", mode, guildID, err)
	}
	return rows, nil
}

// ExtremeLiveWithArchive merges active extreme runs with archived ones.
// An active run hides the archive row of the same user.
func (s *Store) ExtremeLiveWithArchive(guildID string) ([]model.Standing, error) {
	active, err := s.LeaderboardSnapshot(guildID, model.ModeExtreme, 0)
	if err != nil {
		return nil, err
	}

	var archived []model.ExtremeArchive
	err = s.db.Select(&archived, `SELECT guild_id, user_id, progress, last_completion_at, next_extreme_boss, archived_at
		FROM extreme_archive WHERE guild_id = ?`, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get extreme archive for guild %s: %w", guildID, err)
	}

	seen := make(map[string]bool, len(active))
	standings := make([]model.Standing, 0, len(active)+len(archived))
	for _, p := range active {
		seen[p.UserID] = true
		standings = append(standings, standingFromParticipant(p))
	}
	for _, a := range archived {
		if seen[a.UserID] {
			continue
		}
		standings = append(standings, model.Standing{
			UserID:           a.UserID,
			Mode:             model.ModeExtreme,
			Progress:         a.Progress,
			LastCompletionAt: a.LastCompletionAt,
			NextExtremeBoss:  deref(a.NextExtremeBoss),
			Archived:         true,
		})
	}

	SortStandings(standings)
	return standings, nil
}

// Standings returns the full ranking of a tier; extreme includes archived users.
func (s *Store) Standings(guildID string, mode model.Mode) ([]model.Standing, error) {
	if mode == model.ModeExtreme {
		return s.ExtremeLiveWithArchive(guildID)
	}
	rows, err := s.LeaderboardSnapshot(guildID, mode, 0)
	if err != nil {
		return nil, err
	}
	standings := make([]model.Standing, len(rows))
	for i, p := range rows {
		standings[i] = standingFromParticipant(p)
	}
	return standings, nil
}

// RankOf returns the 1-based rank of a user on a tier board, 0 when absent.
func (s *Store) RankOf(guildID, userID string, mode model.Mode) (int, error) {
	standings, err := s.Standings(guildID, mode)
	if err != nil {
		return 0, err
	}
	for i, st := range standings {
		if st.UserID == userID {
			return i + 1, nil
		}
	}
	return 0, nil
}

// SortStandings applies the leaderboard order in place.
func SortStandings(standings []model.Standing) {
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Progress != b.Progress {
			return a.Progress > b.Progress
		}
		switch {
		case a.LastCompletionAt == nil && b.LastCompletionAt != nil:
			return false
		case a.LastCompletionAt != nil && b.LastCompletionAt == nil:
			return true
		case a.LastCompletionAt != nil && b.LastCompletionAt != nil && !a.LastCompletionAt.Equal(*b.LastCompletionAt):
			return a.LastCompletionAt.Before(*b.LastCompletionAt)
		}
		return a.UserID < b.UserID
	})
}

func standingFromParticipant(p model.Participant) model.Standing {
	return model.Standing{
		UserID:           p.UserID,
		Mode:             p.Mode,
		Progress:         p.Progress,
		LastCompletionAt: p.LastCompletionAt,
		NextExtremeBoss:  deref(p.NextExtremeBoss),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
