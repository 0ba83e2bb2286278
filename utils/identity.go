package utils

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// NameSource records which lookup produced a display name.
type NameSource int

const (
	NameFromCache NameSource = iota
	NameFromMember
	NameFromUser
	NameFallback
)

func (s NameSource) String() string {
	switch s {
	case NameFromCache:
		return "cache"
	case NameFromMember:
		return "member"
	case NameFromUser:
		return "user"
	default:
		return "fallback"
	}
}

// Identity resolves display names: state cache member, then REST guild
// member, then REST user, then "User <id>".
type Identity struct {
	cachedMember func(guildID, userID string) (*discordgo.Member, error)
	guildMember  func(guildID, userID string) (*discordgo.Member, error)
	user         func(userID string) (*discordgo.User, error)
}

func NewIdentity(s *discordgo.Session) *Identity {
	return &Identity{
		cachedMember: func(guildID, userID string) (*discordgo.Member, error) {
			return s.State.Member(guildID, userID)
		},
		guildMember: func(guildID, userID string) (*discordgo.Member, error) {
			return s.GuildMember(guildID, userID)
		},
		user: func(userID string) (*discordgo.User, error) {
			return s.User(userID)
		},
	}
}

// Resolve returns the display name and where it came from. It never fails.
func (r *Identity) Resolve(guildID, userID string) (string, NameSource) {
	if r.cachedMember != nil {
		if m, err := r.cachedMember(guildID, userID); err == nil {
			if name := MemberDisplayName(m); name != "" {
				return name, NameFromCache
			}
		}
	}
	if r.guildMember != nil {
		if m, err := r.guildMember(guildID, userID); err == nil {
			if name := MemberDisplayName(m); name != "" {
				return name, NameFromMember
			}
		}
	}
	if r.user != nil {
		if u, err := r.user(userID); err == nil {
			if name := UserDisplayName(u); name != "" {
				return name, NameFromUser
			}
		}
	}
	return "User " + userID, NameFallback
}

// DisplayName is Resolve without the source.
func (r *Identity) DisplayName(guildID, userID string) string {
	name, source := r.Resolve(guildID, userID)
	if source == NameFallback {
		log.Printf("Could not resolve name of user %s in guild %s", userID, guildID)
	}
	return name
}

// MemberDisplayName prefers the guild nickname.
func MemberDisplayName(m *discordgo.Member) string {
	if m == nil {
		return ""
	}
	if m.Nick != "" {
		return m.Nick
	}
	return UserDisplayName(m.User)
}

func UserDisplayName(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}
