package challenge

import (
	"context"
	"fmt"

	"boss-challenge-bot/model"
	"boss-challenge-bot/progression"
	"boss-challenge-bot/utils"
	"boss-challenge-bot/utils/evidence"
)

// Attachment is one uploaded screenshot.
type Attachment struct {
	URL         string
	ContentType string
}

type SubmitRequest struct {
	GuildID  string
	UserID   string
	UserName string
	Before   Attachment
	After    Attachment
}

type SubmitResult struct {
	Mode            model.Mode
	DefeatedBoss    string
	NextBoss        string
	Progress        int
	Rank            int
	Finished        bool
	CompletionOrder int
}

// Submit records one boss kill. Validation and evidence failures leave the
// store untouched; once the kill is recorded the submission succeeds even
// if the board refresh or the announcement fails.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	release, err := s.locker.TryLock(ctx, utils.SubmissionKey(req.GuildID, req.UserID))
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.checkUnlocked(req.GuildID); err != nil {
		return nil, err
	}
	p, err := s.store.GetParticipant(req.GuildID, req.UserID)
	if err != nil {
		return nil, err
	}
	for _, a := range []struct {
		name string
		att  Attachment
	}{{"before", req.Before}, {"after", req.After}} {
		if !evidence.ValidMediaType(a.att.ContentType) {
			return nil, fmt.Errorf("%w: %s attachment is %q", model.ErrUnsupportedMedia, a.name, a.att.ContentType)
		}
	}

	step := p.Progress + 1
	defeated := s.defeatedBoss(p)

	beforeRef, err := s.saveEvidence(ctx, req, evidence.KindBefore, req.Before, step, defeated)
	if err != nil {
		return nil, err
	}
	afterRef, err := s.saveEvidence(ctx, req, evidence.KindAfter, req.After, step, defeated)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.RecordCompletion(req.GuildID, req.UserID, beforeRef, afterRef)
	if err != nil {
		return nil, err
	}

	res := &SubmitResult{
		Mode:         updated.Mode,
		DefeatedBoss: defeated,
		Progress:     updated.Progress,
	}

	if updated.Mode == model.ModeExtreme {
		res.NextBoss = s.engine.DrawRandomBoss()
		if err := s.store.SetNextExtremeBoss(req.GuildID, req.UserID, res.NextBoss); err != nil {
			return nil, fmt.Errorf("failed to assign next extreme boss: %w", err)
		}
	} else {
		res.NextBoss = s.engine.NextBoss(updated.Progress, updated.Mode)
	}

	if s.engine.IsComplete(updated.Progress, updated.Mode) {
		order, err := s.store.FinalizeDifficulty(req.GuildID, req.UserID, updated.Mode, s.now())
		if err != nil {
			return nil, fmt.Errorf("failed to finalize %s run: %w", updated.Mode, err)
		}
		res.Finished = true
		res.CompletionOrder = order
	} else {
		rank, err := s.store.RankOf(req.GuildID, req.UserID, updated.Mode)
		if err != nil {
			s.Warn("submit", fmt.Sprintf("rank lookup for %s failed: %v", req.UserID, err))
		}
		res.Rank = rank
	}

	s.refreshBoard(ctx, req.GuildID, res.Mode)
	if s.notifier != nil {
		notice := CompletionNotice{
			UserID:          req.UserID,
			UserName:        req.UserName,
			Mode:            res.Mode,
			DefeatedBoss:    res.DefeatedBoss,
			NextBoss:        res.NextBoss,
			Progress:        res.Progress,
			Rank:            res.Rank,
			Finished:        res.Finished,
			CompletionOrder: res.CompletionOrder,
			BeforeURL:       req.Before.URL,
			AfterURL:        req.After.URL,
			At:              s.now(),
		}
		if err := s.notifier.NotifyCompletion(ctx, req.GuildID, notice); err != nil {
			s.Warn("submit", fmt.Sprintf("announcement for %s failed: %v", req.UserID, err))
		}
	}
	return res, nil
}

// defeatedBoss is the target the participant was facing before this kill.
// Extreme kills after the first use the boss drawn on the previous kill.
func (s *Service) defeatedBoss(p *model.Participant) string {
	if boss := s.engine.NextBoss(p.Progress, p.Mode); boss != "" {
		return boss
	}
	if p.Mode == model.ModeExtreme && p.NextExtremeBoss != nil && *p.NextExtremeBoss != "" {
		return *p.NextExtremeBoss
	}
	return progression.UnknownBoss
}

func (s *Service) saveEvidence(ctx context.Context, req SubmitRequest, kind string, att Attachment, step int, boss string) (string, error) {
	ref, err := s.evidence.Save(ctx, evidence.Request{
		URL:         att.URL,
		ContentType: att.ContentType,
		GuildID:     req.GuildID,
		UserID:      req.UserID,
		Kind:        kind,
		Step:        step,
		Boss:        boss,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrEvidenceUpload, err)
	}
	return ref, nil
}
