package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("ADMIN_ROLE_IDS", "r1, r2,,")
	t.Setenv("LEADERBOARD_REFRESH_MINUTES", "5")

	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.BotToken != "token" {
		t.Errorf("BotToken = %q", cfg.BotToken)
	}
	if len(cfg.AdminRoleIDs) != 2 || cfg.AdminRoleIDs[1] != "r2" {
		t.Errorf("AdminRoleIDs = %q", cfg.AdminRoleIDs)
	}
	if cfg.RefreshInterval != 5*time.Minute {
		t.Errorf("RefreshInterval = %v", cfg.RefreshInterval)
	}
	if cfg.DatabasePath != "data/boss_challenge.db" || cfg.Evidence.Backend != "local" || cfg.Evidence.Path != "data/images" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.LeaderboardLimit != 10 || cfg.HistoryScanLimit != 50 || cfg.SubmissionLockTTL != 2*time.Minute {
		t.Errorf("limits = %d %d %v", cfg.LeaderboardLimit, cfg.HistoryScanLimit, cfg.SubmissionLockTTL)
	}
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := "bot_token: from-file\nleaderboard_limit: 25\nevidence_backend: s3\ns3_bucket: shots\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LEADERBOARD_LIMIT", "15")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.BotToken != "from-file" {
		t.Errorf("BotToken = %q", cfg.BotToken)
	}
	if cfg.LeaderboardLimit != 15 {
		t.Errorf("LeaderboardLimit = %d, want env override 15", cfg.LeaderboardLimit)
	}
	if cfg.Evidence.Backend != "s3" || cfg.S3.Bucket != "shots" {
		t.Errorf("evidence = %+v s3 = %+v", cfg.Evidence, cfg.S3)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	if _, err := LoadFrom(t.TempDir()); err == nil {
		t.Fatal("expected error without BOT_TOKEN")
	}
}

func TestLoadRejectsS3WithoutBucket(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("EVIDENCE_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "")
	if _, err := LoadFrom(t.TempDir()); err == nil {
		t.Fatal("expected error for s3 backend without bucket")
	}
}
