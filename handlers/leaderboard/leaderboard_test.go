package leaderboard

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"boss-challenge-bot/model"
	"boss-challenge-bot/progression"
	"boss-challenge-bot/utils/database"

	"github.com/bwmarrin/discordgo"
)

const (
	guildID   = "g1"
	channelID = "c-hard"
)

type fakeNames struct{}

func (fakeNames) DisplayName(_, userID string) string { return "name-" + userID }

type fakeMessage struct {
	channelID string
	title     string
	embed     *discordgo.MessageEmbed
}

type fakeTransport struct {
	messages map[string]*fakeMessage
	order    []string
	nextID   int
	sends    int
	edits    int
	fetches  int
	fail     error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{messages: map[string]*fakeMessage{}}
}

func (f *fakeTransport) SendEmbed(_ context.Context, channelID string, embed *discordgo.MessageEmbed) (string, error) {
	if f.fail != nil {
		return "", f.fail
	}
	f.nextID++
	f.sends++
	id := fmt.Sprintf("m%d", f.nextID)
	f.messages[id] = &fakeMessage{channelID: channelID, title: embed.Title, embed: embed}
	f.order = append(f.order, id)
	return id, nil
}

func (f *fakeTransport) EditEmbed(_ context.Context, channelID, messageID string, embed *discordgo.MessageEmbed) error {
	if f.fail != nil {
		return f.fail
	}
	m, ok := f.messages[messageID]
	if !ok || m.channelID != channelID {
		return model.ErrNotFound
	}
	f.edits++
	m.title = embed.Title
	m.embed = embed
	return nil
}

func (f *fakeTransport) FetchMessage(_ context.Context, channelID, messageID string) error {
	f.fetches++
	if f.fail != nil {
		return f.fail
	}
	m, ok := f.messages[messageID]
	if !ok || m.channelID != channelID {
		return model.ErrNotFound
	}
	return nil
}

func (f *fakeTransport) FindByTitle(_ context.Context, channelID, marker string, limit int) (string, error) {
	seen := 0
	for i := len(f.order) - 1; i >= 0 && seen < limit; i-- {
		m, ok := f.messages[f.order[i]]
		if !ok || m.channelID != channelID {
			continue
		}
		seen++
		if strings.Contains(m.title, marker) {
			return f.order[i], nil
		}
	}
	return "", model.ErrNotFound
}

func (f *fakeTransport) delete(id string) {
	delete(f.messages, id)
}

func newTestSync(t *testing.T) (*Sync, *fakeTransport, *database.Store) {
	t.Helper()
	store, err := database.Open(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	renderer := NewRenderer(store, progression.NewSeededEngine(1), fakeNames{}, 10)
	transport := newFakeTransport()
	return NewSync(renderer, transport, store, 50), transport, store
}

func TestRankMarker(t *testing.T) {
	cases := map[int]string{1: "🥇", 2: "🥈", 3: "🥉", 4: "4.", 11: "11."}
	for rank, want := range cases {
		if got := RankMarker(rank); got != want {
			t.Errorf("RankMarker(%d) = %q, want %q", rank, got, want)
		}
	}
}

func TestRenderFiniteMode(t *testing.T) {
	store, err := database.Open(filepath.Join(t.TempDir(), "render.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	store.Join(guildID, "done", model.ModeEasy)
	store.FinalizeDifficulty(guildID, "done", model.ModeEasy, time.Unix(1700000000, 0))
	store.Join(guildID, "mid", model.ModeEasy)
	store.RecordCompletion(guildID, "mid", "b", "a")
	store.SetProgress(guildID, "max", progression.MaxBosses(model.ModeEasy), model.ModeEasy)

	r := NewRenderer(store, progression.NewEngine(), fakeNames{}, 10)
	view, err := r.Render(context.Background(), guildID, model.ModeEasy)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(view.Title, "Easy Mode Leaderboard") {
		t.Errorf("title = %q", view.Title)
	}
	if len(view.Finished) != 1 || view.Finished[0].Marker != "🥇" || view.Finished[0].Name != "name-done" {
		t.Fatalf("finished = %+v", view.Finished)
	}
	if len(view.InProgress) != 2 {
		t.Fatalf("in progress = %+v", view.InProgress)
	}
	if view.InProgress[0].UserID != "max" || view.InProgress[0].NextBoss != completedPlaceholder {
		t.Errorf("first live row = %+v", view.InProgress[0])
	}
	if want := progression.DifficultyList(model.ModeEasy)[1]; view.InProgress[1].NextBoss != want {
		t.Errorf("next boss = %q, want %q", view.InProgress[1].NextBoss, want)
	}

	embed := Embed(view)
	if len(embed.Fields) != 3 || embed.Fields[0].Name != "🏁 Finished" || embed.Fields[2].Name != "⏳ In Progress" {
		t.Fatalf("fields = %+v", embed.Fields)
	}
	if !strings.Contains(embed.Fields[0].Value, "<t:1700000000:f>") {
		t.Errorf("finished value = %q", embed.Fields[0].Value)
	}
}

func TestRenderExtremeMode(t *testing.T) {
	store, err := database.Open(filepath.Join(t.TempDir(), "extreme.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	store.Join(guildID, "fresh", model.ModeExtreme)
	store.Join(guildID, "assigned", model.ModeExtreme)
	store.RecordCompletion(guildID, "assigned", "b", "a")
	store.SetNextExtremeBoss(guildID, "assigned", "Vorkath")
	store.Join(guildID, "random", model.ModeExtreme)
	store.RecordCompletion(guildID, "random", "b", "a")
	store.RecordCompletion(guildID, "random", "b", "a")

	r := NewRenderer(store, progression.NewEngine(), fakeNames{}, 10)
	view, err := r.Render(context.Background(), guildID, model.ModeExtreme)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if view.Title != "💀 Extreme Mode Live Progress" {
		t.Errorf("title = %q", view.Title)
	}
	want := []struct{ user, next string }{
		{"random", randomPlaceholder},
		{"assigned", "Vorkath"},
		{"fresh", progression.ExtremeStartBoss},
	}
	if len(view.Rankings) != len(want) {
		t.Fatalf("rankings = %+v", view.Rankings)
	}
	for i, w := range want {
		if view.Rankings[i].UserID != w.user || view.Rankings[i].NextBoss != w.next {
			t.Errorf("row %d = %+v, want %s next %s", i, view.Rankings[i], w.user, w.next)
		}
	}
}

func TestRenderEmptyExtreme(t *testing.T) {
	embed := Embed(&View{Mode: model.ModeExtreme, Title: "x"})
	if len(embed.Fields) != 1 || embed.Fields[0].Name != "No active participants" {
		t.Fatalf("fields = %+v", embed.Fields)
	}
}

func TestJoinLinesRespectsFieldLimit(t *testing.T) {
	lines := make([]string, 100)
	for i := range lines {
		lines[i] = strings.Repeat("x", 40)
	}
	got := joinLines(lines)
	if len(got) > fieldValueLimit {
		t.Fatalf("len = %d", len(got))
	}
	if !strings.Contains(got, "more") {
		t.Errorf("missing overflow note")
	}
}

func TestEnsureIsIdempotentWhenBound(t *testing.T) {
	sync, transport, _ := newTestSync(t)
	ctx := context.Background()

	if err := sync.Ensure(ctx, channelID, guildID, model.ModeHard); err != nil {
		t.Fatalf("first Ensure: %v", err)
	}
	if err := sync.Ensure(ctx, channelID, guildID, model.ModeHard); err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	if transport.sends != 1 {
		t.Fatalf("sends = %d, want 1", transport.sends)
	}
	state, err := sync.State(guildID, model.ModeHard)
	if err != nil || state != model.Bound {
		t.Fatalf("state = %v, %v", state, err)
	}
}

func TestEnsureAdoptsBoardFromHistory(t *testing.T) {
	sync, transport, store := newTestSync(t)
	ctx := context.Background()

	id, _ := transport.SendEmbed(ctx, channelID, &discordgo.MessageEmbed{Title: "🔥 Hard Mode Leaderboard"})
	if err := sync.Ensure(ctx, channelID, guildID, model.ModeHard); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if transport.sends != 1 {
		t.Fatalf("sends = %d, want only the seeded message", transport.sends)
	}
	b, err := store.GetResource(guildID, model.LeaderboardResource(model.ModeHard))
	if err != nil || b.ResourceID != id {
		t.Fatalf("binding = %+v, %v; want %s", b, err, id)
	}
}

func TestEnsureRecreatesDeletedBoard(t *testing.T) {
	sync, transport, store := newTestSync(t)
	ctx := context.Background()

	var staleCalls int
	sync.OnStale = func(string, model.Mode, string) { staleCalls++ }

	sync.Ensure(ctx, channelID, guildID, model.ModeHard)
	first, _ := store.GetResource(guildID, model.LeaderboardResource(model.ModeHard))
	transport.delete(first.ResourceID)

	if err := sync.Ensure(ctx, channelID, guildID, model.ModeHard); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	second, _ := store.GetResource(guildID, model.LeaderboardResource(model.ModeHard))
	if second.ResourceID == first.ResourceID {
		t.Fatalf("board not recreated")
	}
	if staleCalls != 1 {
		t.Errorf("stale callbacks = %d", staleCalls)
	}
}

func TestUpdateSelfHealsAfterDeletion(t *testing.T) {
	sync, transport, store := newTestSync(t)
	ctx := context.Background()

	if err := sync.Update(ctx, channelID, guildID, model.ModeHard); err != nil {
		t.Fatalf("first Update: %v", err)
	}
	first, _ := store.GetResource(guildID, model.LeaderboardResource(model.ModeHard))
	transport.delete(first.ResourceID)

	store.Join(guildID, "u1", model.ModeHard)
	if err := sync.Update(ctx, channelID, guildID, model.ModeHard); err != nil {
		t.Fatalf("second Update: %v", err)
	}
	second, err := store.GetResource(guildID, model.LeaderboardResource(model.ModeHard))
	if err != nil || second.ResourceID == first.ResourceID {
		t.Fatalf("binding = %+v, %v", second, err)
	}
	msg := transport.messages[second.ResourceID]
	if msg == nil || !strings.Contains(msg.embed.Fields[2].Value, "name-u1") {
		t.Fatalf("new board does not show the participant: %+v", msg)
	}

	if err := sync.Update(ctx, channelID, guildID, model.ModeHard); err != nil {
		t.Fatalf("third Update: %v", err)
	}
	if transport.sends != 2 || transport.edits != 1 {
		t.Errorf("sends = %d edits = %d, want 2 and 1", transport.sends, transport.edits)
	}
}

func TestUpdatePropagatesTransportErrors(t *testing.T) {
	sync, transport, _ := newTestSync(t)
	transport.fail = fmt.Errorf("gateway down")

	if err := sync.Update(context.Background(), channelID, guildID, model.ModeHard); err == nil {
		t.Fatal("expected error")
	}
}

func TestRefreshSkipsUnboundChannel(t *testing.T) {
	sync, transport, store := newTestSync(t)
	ctx := context.Background()

	if err := sync.Refresh(ctx, guildID, model.ModeEasy); err != nil {
		t.Fatalf("Refresh unbound: %v", err)
	}
	if transport.sends != 0 {
		t.Fatalf("sent %d messages without a channel", transport.sends)
	}

	meta := model.ResourceMetadata{Kind: model.KindModeChannel, Mode: model.ModeEasy, Name: "🌱・easy"}
	if err := store.StoreResource(guildID, model.ChannelResource(model.ModeEasy), "c-easy", meta); err != nil {
		t.Fatalf("StoreResource: %v", err)
	}
	if err := sync.Refresh(ctx, guildID, model.ModeEasy); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	b, err := store.GetResource(guildID, model.LeaderboardResource(model.ModeEasy))
	if err != nil || b.Metadata.ChannelID != "c-easy" {
		t.Fatalf("binding = %+v, %v", b, err)
	}
}
