package utils

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

var errMissing = errors.New("missing")

func TestIdentityChain(t *testing.T) {
	member := func(m *discordgo.Member) func(string, string) (*discordgo.Member, error) {
		return func(string, string) (*discordgo.Member, error) {
			if m == nil {
				return nil, errMissing
			}
			return m, nil
		}
	}
	user := func(u *discordgo.User) func(string) (*discordgo.User, error) {
		return func(string) (*discordgo.User, error) {
			if u == nil {
				return nil, errMissing
			}
			return u, nil
		}
	}

	tests := []struct {
		name       string
		id         *Identity
		wantName   string
		wantSource NameSource
	}{
		{
			name: "cache nickname",
			id: &Identity{
				cachedMember: member(&discordgo.Member{Nick: "Nicky", User: &discordgo.User{Username: "nick"}}),
				guildMember:  member(nil),
				user:         user(nil),
			},
			wantName:   "Nicky",
			wantSource: NameFromCache,
		},
		{
			name: "rest member global name",
			id: &Identity{
				cachedMember: member(nil),
				guildMember:  member(&discordgo.Member{User: &discordgo.User{Username: "raw", GlobalName: "Global"}}),
				user:         user(nil),
			},
			wantName:   "Global",
			wantSource: NameFromMember,
		},
		{
			name: "user lookup",
			id: &Identity{
				cachedMember: member(nil),
				guildMember:  member(nil),
				user:         user(&discordgo.User{Username: "plain"}),
			},
			wantName:   "plain",
			wantSource: NameFromUser,
		},
		{
			name: "fallback",
			id: &Identity{
				cachedMember: member(nil),
				guildMember:  member(nil),
				user:         user(nil),
			},
			wantName:   "User 42",
			wantSource: NameFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, source := tt.id.Resolve("g", "42")
			if name != tt.wantName || source != tt.wantSource {
				t.Fatalf("Resolve = %q (%s), want %q (%s)", name, source, tt.wantName, tt.wantSource)
			}
		})
	}
}
