package model

import "time"

// EvidenceConfig selects and configures the evidence storage backend.
type EvidenceConfig struct {
	Backend    string
	Path       string
	MaxAgeDays int
}

// S3Config configures the S3 compatible evidence backend.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

// RedisConfig enables the cross-process submission lock when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Config holds the application configuration.
type Config struct {
	BotToken          string
	AppID             string
	LogChannelID      string
	DatabasePath      string
	DeveloperUserIDs  []string
	AdminRoleIDs      []string
	LeaderboardLimit  int
	HistoryScanLimit  int
	RefreshInterval   time.Duration
	SubmissionLockTTL time.Duration
	DisableGuildSetup bool
	Evidence          EvidenceConfig
	S3                S3Config
	Redis             RedisConfig
}
