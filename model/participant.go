package model

import (
	"fmt"
	"strings"
	"time"
)

// Mode is one of the four challenge tiers.
type Mode string

const (
	ModeEasy    Mode = "easy"
	ModeNormal  Mode = "normal"
	ModeHard    Mode = "hard"
	ModeExtreme Mode = "extreme"
)

// Modes lists the tiers in the order they are shown to users.
var Modes = []Mode{ModeEasy, ModeNormal, ModeHard, ModeExtreme}

// ParseMode normalizes a user supplied tier name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeEasy, ModeNormal, ModeHard, ModeExtreme:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

func (m Mode) Valid() bool {
	_, err := ParseMode(string(m))
	return err == nil
}

// Title returns the capitalized tier name, e.g. "Hard".
func (m Mode) Title() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// Participant is a user's active run in a guild.
// The database table is 'participants'.
type Participant struct {
	GuildID          string     `db:"guild_id"`
	UserID           string     `db:"user_id"`
	Mode             Mode       `db:"mode"`
	Progress         int        `db:"progress"`
	JoinedAt         time.Time  `db:"joined_at"`
	LastCompletionAt *time.Time `db:"last_completion_at"`
	ResetAt          *time.Time `db:"reset_at"`
	NextExtremeBoss  *string    `db:"next_extreme_boss"`
}

// CompletionRecord marks a finished run of a finite tier.
type CompletionRecord struct {
	ID              int64     `db:"id"`
	GuildID         string    `db:"guild_id"`
	UserID          string    `db:"user_id"`
	Difficulty      Mode      `db:"difficulty"`
	CompletionTime  time.Time `db:"completion_time"`
	CompletionOrder int       `db:"completion_order"`
}

// ExtremeArchive is the snapshot kept when a user leaves extreme mode.
type ExtremeArchive struct {
	GuildID          string     `db:"guild_id"`
	UserID           string     `db:"user_id"`
	Progress         int        `db:"progress"`
	LastCompletionAt *time.Time `db:"last_completion_at"`
	NextExtremeBoss  *string    `db:"next_extreme_boss"`
	ArchivedAt       time.Time  `db:"archived_at"`
}

// Submission is the write-only audit trail of accepted kills.
type Submission struct {
	ID          int64     `db:"id"`
	GuildID     string    `db:"guild_id"`
	UserID      string    `db:"user_id"`
	Step        int       `db:"step"`
	BeforePath  string    `db:"before_path"`
	AfterPath   string    `db:"after_path"`
	SubmittedAt time.Time `db:"submitted_at"`
}

// Standing is one ranked line of a live leaderboard. Archived is set for
// extreme users who only exist in the archive.
type Standing struct {
	UserID           string
	Mode             Mode
	Progress         int
	LastCompletionAt *time.Time
	NextExtremeBoss  string
	Archived         bool
}
