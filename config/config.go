package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"boss-challenge-bot/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads .env, then data/config.yaml if present, then the environment.
// Environment variables win over the file.
func Load() (*model.Config, error) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}
	return LoadFrom("data")
}

// LoadFrom is Load without .env, searching configDir for config.yaml.
func LoadFrom(configDir string) (*model.Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	token := v.GetString("bot_token")
	if token == "" {
		return nil, errors.New("BOT_TOKEN environment variable not set")
	}

	logChannelID := v.GetString("log_channel_id")
	if logChannelID == "" {
		log.Println("Warning: LOG_CHANNEL_ID not set, channel logging will be disabled")
	}

	backend := strings.ToLower(v.GetString("evidence_backend"))
	if backend != "local" && backend != "s3" {
		return nil, fmt.Errorf("invalid EVIDENCE_BACKEND %q, want local or s3", backend)
	}
	if backend == "s3" && v.GetString("s3_bucket") == "" {
		return nil, errors.New("S3_BUCKET must be set when EVIDENCE_BACKEND is s3")
	}

	cfg := &model.Config{
		BotToken:          token,
		AppID:             v.GetString("app_id"),
		LogChannelID:      logChannelID,
		DatabasePath:      v.GetString("database_path"),
		DeveloperUserIDs:  splitList(v.GetString("developer_user_ids")),
		AdminRoleIDs:      splitList(v.GetString("admin_role_ids")),
		LeaderboardLimit:  v.GetInt("leaderboard_limit"),
		HistoryScanLimit:  v.GetInt("history_scan_limit"),
		RefreshInterval:   time.Duration(v.GetInt("leaderboard_refresh_minutes")) * time.Minute,
		SubmissionLockTTL: v.GetDuration("submission_lock_ttl"),
		DisableGuildSetup: v.GetBool("disable_guild_setup"),
		Evidence: model.EvidenceConfig{
			Backend:    backend,
			Path:       v.GetString("evidence_path"),
			MaxAgeDays: v.GetInt("evidence_max_age_days"),
		},
		S3: model.S3Config{
			Bucket:          v.GetString("s3_bucket"),
			Region:          v.GetString("s3_region"),
			Endpoint:        v.GetString("s3_endpoint"),
			AccessKeyID:     v.GetString("s3_access_key_id"),
			SecretAccessKey: v.GetString("s3_secret_access_key"),
			PublicBaseURL:   v.GetString("s3_public_base_url"),
		},
		Redis: model.RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
	}

	if cfg.LeaderboardLimit <= 0 {
		cfg.LeaderboardLimit = 10
	}
	if cfg.HistoryScanLimit <= 0 || cfg.HistoryScanLimit > 100 {
		cfg.HistoryScanLimit = 50
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database_path", "data/boss_challenge.db")
	v.SetDefault("evidence_backend", "local")
	v.SetDefault("evidence_path", "data/images")
	v.SetDefault("evidence_max_age_days", 0)
	v.SetDefault("s3_region", "auto")
	v.SetDefault("leaderboard_limit", 10)
	v.SetDefault("history_scan_limit", 50)
	v.SetDefault("leaderboard_refresh_minutes", 10)
	v.SetDefault("submission_lock_ttl", "2m")
	v.SetDefault("redis_db", 0)
}

// splitList parses a comma separated id list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
