package model

import (
	"fmt"
	"strings"
	"time"
)

// ResourceKind tags the metadata stored with a resource binding.
type ResourceKind string

const (
	KindCategory    ResourceKind = "category"
	KindModeChannel ResourceKind = "channel"
	KindLeaderboard ResourceKind = "leaderboard"
	KindCompletions ResourceKind = "completions"
	KindInfo        ResourceKind = "info"
)

// ResourceType is the logical name a binding is stored under, e.g.
// "channel_easy" or "leaderboard_hard".
type ResourceType string

const (
	ResourceCategory    ResourceType = "category"
	ResourceCompletions ResourceType = "completions"
	ResourceInfo        ResourceType = "info"
)

func ChannelResource(mode Mode) ResourceType {
	return ResourceType("channel_" + string(mode))
}

func LeaderboardResource(mode Mode) ResourceType {
	return ResourceType("leaderboard_" + string(mode))
}

// Kind derives the metadata kind a resource type must carry.
func (t ResourceType) Kind() (ResourceKind, Mode, error) {
	s := string(t)
	switch {
	case t == ResourceCategory:
		return KindCategory, "", nil
	case t == ResourceCompletions:
		return KindCompletions, "", nil
	case t == ResourceInfo:
		return KindInfo, "", nil
	case strings.HasPrefix(s, "channel_"):
		m, err := ParseMode(strings.TrimPrefix(s, "channel_"))
		return KindModeChannel, m, err
	case strings.HasPrefix(s, "leaderboard_"):
		m, err := ParseMode(strings.TrimPrefix(s, "leaderboard_"))
		return KindLeaderboard, m, err
	}
	return "", "", fmt.Errorf("unknown resource type %q", s)
}

// ResourceMetadata is the typed metadata blob of a binding.
type ResourceMetadata struct {
	Kind      ResourceKind `json:"kind"`
	Mode      Mode         `json:"mode,omitempty"`
	Name      string       `json:"name,omitempty"`
	ChannelID string       `json:"channel_id,omitempty"`
}

// Validate checks that the metadata matches the resource type it is stored under.
func (m ResourceMetadata) Validate(t ResourceType) error {
	kind, mode, err := t.Kind()
	if err != nil {
		return err
	}
	if m.Kind != kind {
		return fmt.Errorf("resource %s: metadata kind %q, want %q", t, m.Kind, kind)
	}
	if mode != "" && m.Mode != mode {
		return fmt.Errorf("resource %s: metadata mode %q, want %q", t, m.Mode, mode)
	}
	if kind == KindLeaderboard && m.ChannelID == "" {
		return fmt.Errorf("resource %s: leaderboard binding needs a channel id", t)
	}
	return nil
}

// ResourceBinding maps a logical resource to a Discord channel or message id.
type ResourceBinding struct {
	GuildID      string
	ResourceType ResourceType
	ResourceID   string
	Metadata     ResourceMetadata
	CreatedAt    time.Time
}

// BindingState is the leaderboard sync state of one (guild, mode) pair.
type BindingState int

const (
	Unbound BindingState = iota
	Bound
	Stale
)

func (s BindingState) String() string {
	switch s {
	case Bound:
		return "bound"
	case Stale:
		return "stale"
	default:
		return "unbound"
	}
}
