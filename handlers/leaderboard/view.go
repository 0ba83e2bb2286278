package leaderboard

import (
	"context"
	"fmt"
	"time"

	"boss-challenge-bot/model"
	"boss-challenge-bot/progression"
)

const (
	completedPlaceholder = "🎉 COMPLETED!"
	randomPlaceholder    = "🎲 Random Boss"
)

// Source is the read side of the participant store used for rendering.
type Source interface {
	LeaderboardSnapshot(guildID string, mode model.Mode, limit int) ([]model.Participant, error)
	FinalizedLeaderboard(guildID string, mode model.Mode) ([]model.CompletionRecord, error)
	ExtremeLiveWithArchive(guildID string) ([]model.Standing, error)
}

// NameResolver turns a user id into a display name. It never fails.
type NameResolver interface {
	DisplayName(guildID, userID string) string
}

// Row is one line of a rendered board.
type Row struct {
	Rank       int
	Marker     string
	UserID     string
	Name       string
	Progress   int
	NextBoss   string
	FinishedAt time.Time
	Archived   bool
}

// View is the rendered state of one tier board, independent of Discord.
type View struct {
	Mode        model.Mode
	Title       string
	Description string
	Color       int
	Finished    []Row
	InProgress  []Row
	Rankings    []Row
	UpdatedAt   time.Time
}

// Renderer builds leaderboard views from the store.
type Renderer struct {
	source Source
	engine *progression.Engine
	names  NameResolver
	limit  int
	now    func() time.Time
}

func NewRenderer(source Source, engine *progression.Engine, names NameResolver, limit int) *Renderer {
	if limit <= 0 {
		limit = 10
	}
	return &Renderer{source: source, engine: engine, names: names, limit: limit, now: time.Now}
}

// TitleMarker is the part of a board title used to find it in channel history.
func TitleMarker(mode model.Mode) string {
	if mode == model.ModeExtreme {
		return "Extreme Mode Live Progress"
	}
	return progression.GetModeInfo(mode).Name + " Leaderboard"
}

// RankMarker returns the medal for the podium, "N." otherwise.
func RankMarker(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return fmt.Sprintf("%d.", rank)
}

// Render pulls finished and live standings for a tier in one pass.
func (r *Renderer) Render(ctx context.Context, guildID string, mode model.Mode) (*View, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidMode, mode)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info := progression.GetModeInfo(mode)
	view := &View{
		Mode:      mode,
		Title:     info.Emoji + " " + TitleMarker(mode),
		Color:     info.Color,
		UpdatedAt: r.now().UTC(),
	}

	if mode == model.ModeExtreme {
		view.Description = "Live rankings - " + info.Description
		standings, err := r.source.ExtremeLiveWithArchive(guildID)
		if err != nil {
			return nil, fmt.Errorf("failed to load extreme standings: %w", err)
		}
		if len(standings) > r.limit {
			standings = standings[:r.limit]
		}
		for i, st := range standings {
			next := r.engine.NextBoss(st.Progress, mode)
			if next == "" {
				next = st.NextExtremeBoss
			}
			if next == "" {
				next = randomPlaceholder
			}
			view.Rankings = append(view.Rankings, Row{
				Rank:     i + 1,
				Marker:   RankMarker(i + 1),
				UserID:   st.UserID,
				Name:     r.names.DisplayName(guildID, st.UserID),
				Progress: st.Progress,
				NextBoss: next,
				Archived: st.Archived,
			})
		}
		return view, nil
	}

	view.Description = info.Description
	finished, err := r.source.FinalizedLeaderboard(guildID, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to load finished %s runs: %w", mode, err)
	}
	for i, rec := range finished {
		view.Finished = append(view.Finished, Row{
			Rank:       i + 1,
			Marker:     RankMarker(i + 1),
			UserID:     rec.UserID,
			Name:       r.names.DisplayName(guildID, rec.UserID),
			Progress:   progression.MaxBosses(mode),
			FinishedAt: rec.CompletionTime,
		})
	}

	live, err := r.source.LeaderboardSnapshot(guildID, mode, r.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load live %s standings: %w", mode, err)
	}
	for i, p := range live {
		next := r.engine.NextBoss(p.Progress, mode)
		if next == "" {
			next = completedPlaceholder
		}
		view.InProgress = append(view.InProgress, Row{
			Rank:     i + 1,
			Marker:   "•",
			UserID:   p.UserID,
			Name:     r.names.DisplayName(guildID, p.UserID),
			Progress: p.Progress,
			NextBoss: next,
		})
	}
	return view, nil
}
