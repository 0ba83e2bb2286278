package handlers

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"boss-challenge-bot/model"
	"boss-challenge-bot/progression"
	"boss-challenge-bot/utils"
	"boss-challenge-bot/utils/database"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// StatsSource provides challenge counters for /system-info.
type StatsSource interface {
	GetChallengeStats(guildID string) (*database.ChallengeStats, error)
}

func SystemInfoHandler(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot, stats StatsSource) {
	cfg := b.GetConfig()
	if !utils.IsAdmin(i.Member, cfg.AdminRoleIDs, cfg.DeveloperUserIDs) {
		utils.SendErrorResponse(s, i, "You do not have permission to use this command.")
		return
	}

	// Get CPU info
	cpuCount, _ := cpu.Counts(true)
	cpuPercent, _ := cpu.Percent(0, false)
	cpuUsage := 0.0
	if len(cpuPercent) > 0 {
		cpuUsage = cpuPercent[0]
	}

	// Get memory info
	vm, _ := mem.VirtualMemory()
	memValue := "unknown"
	if vm != nil {
		memValue = fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024)
	}

	// Get host info
	osValue, kernel := "unknown", "unknown"
	if hostInfo, err := host.Info(); err == nil {
		osValue = fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion)
		kernel = hostInfo.KernelVersion
	}

	var dbSize int64
	if fi, err := os.Stat(cfg.DatabasePath); err == nil {
		dbSize = fi.Size() / 1024
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "💻 OS", Value: osValue, Inline: true},
		{Name: "🔧 Kernel", Value: kernel, Inline: true},
		{Name: "🐹 Go", Value: runtime.Version(), Inline: true},
		{Name: "🔼 CPUs", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
		{Name: "🔥 CPU usage", Value: fmt.Sprintf("%.1f%%", cpuUsage), Inline: true},
		{Name: "🧠 Memory", Value: memValue, Inline: true},
		{Name: "🗃️ Database", Value: fmt.Sprintf("%d KB", dbSize), Inline: true},
		{Name: "⏱️ WebSocket latency", Value: s.HeartbeatLatency().String(), Inline: true},
		{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
	}

	st, err := stats.GetChallengeStats(i.GuildID)
	if err != nil {
		utils.LogError(s, cfg.LogChannelID, "SystemInfo", "Stats", fmt.Sprintf("guild %s: %v", i.GuildID, err))
	} else {
		fields = append(fields, challengeFields(st)...)
	}

	embed := &discordgo.MessageEmbed{
		Title:  "System Info",
		Color:  0x5865F2, // Discord Blurple
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("System monitor・today %s", time.Now().Format("15:04")),
		},
	}

	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

func challengeFields(st *database.ChallengeStats) []*discordgo.MessageEmbedField {
	var active, finished []string
	for _, mode := range model.Modes {
		info := progression.GetModeInfo(mode)
		active = append(active, fmt.Sprintf("%s %s: %d", info.Emoji, mode.Title(), st.Participants[mode]))
		if mode != model.ModeExtreme {
			finished = append(finished, fmt.Sprintf("%s %s: %d", info.Emoji, mode.Title(), st.Completions[mode]))
		}
	}
	return []*discordgo.MessageEmbedField{
		{Name: "⚔️ Active runs", Value: strings.Join(active, "\n"), Inline: true},
		{Name: "🏁 Finished runs", Value: strings.Join(finished, "\n"), Inline: true},
		{Name: "📸 Submissions", Value: fmt.Sprintf("%d (%d archived extreme runs)", st.Submissions, st.Archived), Inline: true},
	}
}
