package database

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"boss-challenge-bot/model"
	"boss-challenge-bot/progression"
)

const testGuild = "guild-1"

func newTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "challenge.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })
	return s, &now
}

func TestJoinTwiceFails(t *testing.T) {
	s, _ := newTestStore(t)

	if _, err := s.Join(testGuild, "u1", model.ModeHard); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, err := s.Join(testGuild, "u1", model.ModeEasy); !errors.Is(err, model.ErrAlreadyJoined) {
		t.Fatalf("second join err = %v, want ErrAlreadyJoined", err)
	}

	p, err := s.GetParticipant(testGuild, "u1")
	if err != nil {
		t.Fatalf("GetParticipant: %v", err)
	}
	if p.Progress != 0 || p.Mode != model.ModeHard {
		t.Fatalf("participant = %+v, want hard at 0", p)
	}
}

func TestJoinRejectsInvalidMode(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.Join(testGuild, "u1", model.Mode("nightmare")); !errors.Is(err, model.ErrInvalidMode) {
		t.Fatalf("err = %v, want ErrInvalidMode", err)
	}
}

func TestNotJoinedErrors(t *testing.T) {
	s, _ := newTestStore(t)

	if _, err := s.Leave(testGuild, "ghost"); !errors.Is(err, model.ErrNotJoined) {
		t.Errorf("Leave err = %v", err)
	}
	if _, err := s.Reset(testGuild, "ghost"); !errors.Is(err, model.ErrNotJoined) {
		t.Errorf("Reset err = %v", err)
	}
	if _, err := s.RecordCompletion(testGuild, "ghost", "a", "b"); !errors.Is(err, model.ErrNotJoined) {
		t.Errorf("RecordCompletion err = %v", err)
	}
	joined, err := s.IsJoined(testGuild, "ghost")
	if err != nil || joined {
		t.Errorf("IsJoined = %v, %v", joined, err)
	}
}

func TestFullHardRunFinalizes(t *testing.T) {
	s, now := newTestStore(t)

	if _, err := s.Join(testGuild, "u1", model.ModeHard); err != nil {
		t.Fatalf("Join: %v", err)
	}

	var p *model.Participant
	var err error
	for i := 0; i < progression.MaxBosses(model.ModeHard); i++ {
		*now = now.Add(time.Minute)
		p, err = s.RecordCompletion(testGuild, "u1", "before.png", "after.png")
		if err != nil {
			t.Fatalf("RecordCompletion %d: %v", i+1, err)
		}
		if p.Progress != i+1 {
			t.Fatalf("progress = %d, want %d", p.Progress, i+1)
		}
	}
	if !progression.NewEngine().IsComplete(p.Progress, model.ModeHard) {
		t.Fatalf("progress %d should complete hard mode", p.Progress)
	}

	order, err := s.FinalizeDifficulty(testGuild, "u1", model.ModeHard, *now)
	if err != nil {
		t.Fatalf("FinalizeDifficulty: %v", err)
	}
	if order != 1 {
		t.Fatalf("order = %d, want 1", order)
	}

	if joined, _ := s.IsJoined(testGuild, "u1"); joined {
		t.Fatal("participant still joined after finalize")
	}
	records, err := s.FinalizedLeaderboard(testGuild, model.ModeHard)
	if err != nil {
		t.Fatalf("FinalizedLeaderboard: %v", err)
	}
	if len(records) != 1 || records[0].UserID != "u1" || records[0].CompletionOrder != 1 {
		t.Fatalf("records = %+v", records)
	}

	subs, err := s.ListSubmissions(testGuild, "u1")
	if err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}
	if len(subs) != 48 || subs[47].Step != 48 {
		t.Fatalf("got %d submissions, last step %d", len(subs), subs[len(subs)-1].Step)
	}
}

func TestFinalizeOrderIncrementsPerMode(t *testing.T) {
	s, now := newTestStore(t)

	for _, u := range []string{"a", "b"} {
		if _, err := s.Join(testGuild, u, model.ModeEasy); err != nil {
			t.Fatalf("Join %s: %v", u, err)
		}
	}
	if _, err := s.Join(testGuild, "c", model.ModeNormal); err != nil {
		t.Fatalf("Join c: %v", err)
	}

	want := map[string]int{"a": 1, "b": 2, "c": 1}
	for _, u := range []string{"a", "b", "c"} {
		p, _ := s.GetParticipant(testGuild, u)
		order, err := s.FinalizeDifficulty(testGuild, u, p.Mode, *now)
		if err != nil {
			t.Fatalf("finalize %s: %v", u, err)
		}
		if order != want[u] {
			t.Errorf("order for %s = %d, want %d", u, order, want[u])
		}
	}
}

func TestFinalizeOrderNotReusedOnRejoin(t *testing.T) {
	s, now := newTestStore(t)

	var orders []int
	for _, u := range []string{"u1", "u2", "u1"} {
		if _, err := s.Join(testGuild, u, model.ModeEasy); err != nil {
			t.Fatalf("Join %s: %v", u, err)
		}
		order, err := s.FinalizeDifficulty(testGuild, u, model.ModeEasy, *now)
		if err != nil {
			t.Fatalf("finalize %s: %v", u, err)
		}
		orders = append(orders, order)
	}

	for i, want := range []int{1, 2, 3} {
		if orders[i] != want {
			t.Fatalf("orders = %v, want [1 2 3]", orders)
		}
	}
	records, err := s.FinalizedLeaderboard(testGuild, model.ModeEasy)
	if err != nil {
		t.Fatalf("FinalizedLeaderboard: %v", err)
	}
	if len(records) != 3 || records[0].UserID != "u1" || records[2].UserID != "u1" || records[2].CompletionOrder != 3 {
		t.Fatalf("records = %+v", records)
	}
}

func TestFinalizeExtremeRejected(t *testing.T) {
	s, now := newTestStore(t)
	s.Join(testGuild, "u1", model.ModeExtreme)
	if _, err := s.FinalizeDifficulty(testGuild, "u1", model.ModeExtreme, *now); !errors.Is(err, model.ErrNoFixedEnd) {
		t.Fatalf("err = %v, want ErrNoFixedEnd", err)
	}
}

func TestSnapshotOrdering(t *testing.T) {
	s, now := newTestStore(t)
	t1 := *now

	s.Join(testGuild, "late", model.ModeNormal)
	s.Join(testGuild, "early", model.ModeNormal)
	s.Join(testGuild, "behind", model.ModeNormal)
	s.Join(testGuild, "idle", model.ModeNormal)

	advance := func(user string, n int, at time.Time) {
		*now = at
		for i := 0; i < n; i++ {
			if _, err := s.RecordCompletion(testGuild, user, "b", "a"); err != nil {
				t.Fatalf("advance %s: %v", user, err)
			}
		}
	}
	advance("behind", 3, t1)
	advance("early", 5, t1.Add(time.Hour))
	advance("late", 5, t1.Add(2*time.Hour))

	rows, err := s.LeaderboardSnapshot(testGuild, model.ModeNormal, 0)
	if err != nil {
		t.Fatalf("LeaderboardSnapshot: %v", err)
	}
	got := make([]string, len(rows))
	for i, r := range rows {
		got[i] = r.UserID
	}
	want := []string{"early", "late", "behind", "idle"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	limited, err := s.LeaderboardSnapshot(testGuild, model.ModeNormal, 2)
	if err != nil {
		t.Fatalf("limited snapshot: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("limit 2 returned %d rows", len(limited))
	}

	rank, err := s.RankOf(testGuild, "behind", model.ModeNormal)
	if err != nil || rank != 3 {
		t.Fatalf("RankOf = %d, %v; want 3", rank, err)
	}
}

func TestExtremeArchiveRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	s.Join(testGuild, "u1", model.ModeExtreme)
	for i := 0; i < 7; i++ {
		if _, err := s.RecordCompletion(testGuild, "u1", "b", "a"); err != nil {
			t.Fatalf("RecordCompletion: %v", err)
		}
	}
	if err := s.SetNextExtremeBoss(testGuild, "u1", "Vorkath"); err != nil {
		t.Fatalf("SetNextExtremeBoss: %v", err)
	}

	departed, err := s.Leave(testGuild, "u1")
	if err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if departed.Progress != 7 {
		t.Fatalf("departed progress = %d", departed.Progress)
	}

	view, err := s.ExtremeLiveWithArchive(testGuild)
	if err != nil {
		t.Fatalf("ExtremeLiveWithArchive: %v", err)
	}
	if len(view) != 1 || view[0].Progress != 7 || !view[0].Archived || view[0].NextExtremeBoss != "Vorkath" {
		t.Fatalf("archived view = %+v", view)
	}

	if _, err := s.Join(testGuild, "u1", model.ModeExtreme); err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	view, err = s.ExtremeLiveWithArchive(testGuild)
	if err != nil {
		t.Fatalf("ExtremeLiveWithArchive: %v", err)
	}
	if len(view) != 1 || view[0].Progress != 0 || view[0].Archived {
		t.Fatalf("rejoined view = %+v, want active row at 0", view)
	}
}

func TestResetKeepsMode(t *testing.T) {
	s, _ := newTestStore(t)
	s.Join(testGuild, "u1", model.ModeExtreme)
	s.RecordCompletion(testGuild, "u1", "b", "a")
	s.SetNextExtremeBoss(testGuild, "u1", "Zulrah")

	p, err := s.Reset(testGuild, "u1")
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if p.Progress != 0 || p.Mode != model.ModeExtreme || p.NextExtremeBoss != nil || p.ResetAt == nil {
		t.Fatalf("after reset = %+v", p)
	}
}

func TestSetProgressClampsAndJoins(t *testing.T) {
	s, _ := newTestStore(t)

	p, err := s.SetProgress(testGuild, "u1", -4, model.ModeEasy)
	if err != nil {
		t.Fatalf("SetProgress: %v", err)
	}
	if p.Progress != 0 || p.Mode != model.ModeEasy {
		t.Fatalf("participant = %+v", p)
	}

	p, err = s.SetProgress(testGuild, "u1", 24, model.ModeNormal)
	if err != nil {
		t.Fatalf("SetProgress: %v", err)
	}
	if p.Progress != 24 || p.Mode != model.ModeNormal {
		t.Fatalf("participant = %+v", p)
	}
}

func TestResourceBindings(t *testing.T) {
	s, _ := newTestStore(t)
	rt := model.LeaderboardResource(model.ModeHard)

	if _, err := s.GetResource(testGuild, rt); !model.IsNotFound(err) {
		t.Fatalf("missing binding err = %v", err)
	}

	bad := model.ResourceMetadata{Kind: model.KindLeaderboard, Mode: model.ModeHard}
	if err := s.StoreResource(testGuild, rt, "m1", bad); err == nil {
		t.Fatal("leaderboard metadata without channel id accepted")
	}
	wrongMode := model.ResourceMetadata{Kind: model.KindLeaderboard, Mode: model.ModeEasy, ChannelID: "c1"}
	if err := s.StoreResource(testGuild, rt, "m1", wrongMode); err == nil {
		t.Fatal("metadata with mismatched mode accepted")
	}

	meta := model.ResourceMetadata{Kind: model.KindLeaderboard, Mode: model.ModeHard, ChannelID: "c1"}
	if err := s.StoreResource(testGuild, rt, "m1", meta); err != nil {
		t.Fatalf("StoreResource: %v", err)
	}
	if err := s.StoreResource(testGuild, rt, "m2", meta); err != nil {
		t.Fatalf("rebind: %v", err)
	}
	b, err := s.GetResource(testGuild, rt)
	if err != nil {
		t.Fatalf("GetResource: %v", err)
	}
	if b.ResourceID != "m2" || b.Metadata != meta {
		t.Fatalf("binding = %+v", b)
	}

	guilds, err := s.BoundGuilds()
	if err != nil || len(guilds) != 1 || guilds[0] != testGuild {
		t.Fatalf("BoundGuilds = %v, %v", guilds, err)
	}

	if err := s.RemoveResource(testGuild, rt); err != nil {
		t.Fatalf("RemoveResource: %v", err)
	}
	if _, err := s.GetResource(testGuild, rt); !model.IsNotFound(err) {
		t.Fatalf("after remove err = %v", err)
	}
}

func TestGuildLock(t *testing.T) {
	s, _ := newTestStore(t)

	locked, err := s.IsLocked(testGuild)
	if err != nil || locked {
		t.Fatalf("default lock = %v, %v", locked, err)
	}
	s.SetLocked(testGuild, true)
	if locked, _ := s.IsLocked(testGuild); !locked {
		t.Fatal("guild not locked")
	}
	s.SetLocked(testGuild, false)
	if locked, _ := s.IsLocked(testGuild); locked {
		t.Fatal("guild still locked")
	}
}

func TestChallengeStats(t *testing.T) {
	s, now := newTestStore(t)
	s.Join(testGuild, "a", model.ModeEasy)
	s.Join(testGuild, "b", model.ModeEasy)
	s.Join("other", "c", model.ModeExtreme)
	s.RecordCompletion(testGuild, "a", "b", "a")
	s.FinalizeDifficulty(testGuild, "b", model.ModeEasy, *now)

	stats, err := s.GetChallengeStats("")
	if err != nil {
		t.Fatalf("GetChallengeStats: %v", err)
	}
	if stats.Participants[model.ModeEasy] != 1 || stats.Participants[model.ModeExtreme] != 1 {
		t.Errorf("participants = %v", stats.Participants)
	}
	if stats.Completions[model.ModeEasy] != 1 || stats.Submissions != 1 {
		t.Errorf("stats = %+v", stats)
	}

	guildOnly, err := s.GetChallengeStats(testGuild)
	if err != nil {
		t.Fatalf("GetChallengeStats guild: %v", err)
	}
	if guildOnly.Participants[model.ModeExtreme] != 0 {
		t.Errorf("extreme in guild = %d", guildOnly.Participants[model.ModeExtreme])
	}
}
