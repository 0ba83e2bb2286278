package challenge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"boss-challenge-bot/model"
	"boss-challenge-bot/utils"

	"github.com/bwmarrin/discordgo"
)

const commandTimeout = 2 * time.Minute

// Handler adapts Discord interactions to the Service.
type Handler struct {
	svc *Service
	bot model.Bot
}

func NewHandler(svc *Service, b model.Bot) *Handler {
	return &Handler{svc: svc, bot: b}
}

// UserMessage turns a workflow error into the ephemeral reply shown to the user.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrAlreadyJoined):
		return "⚔️ You're already participating in the boss challenge!"
	case errors.Is(err, model.ErrNotJoined):
		return "❓ You're not participating in the boss challenge. Use `/join` first!"
	case errors.Is(err, model.ErrInvalidMode):
		return "❌ Invalid mode! Choose one of: easy, normal, hard, extreme."
	case errors.Is(err, model.ErrUnsupportedMedia):
		return "❌ Both attachments must be images (png, jpg, gif or webp)."
	case errors.Is(err, model.ErrGuildLocked):
		return "🔒 The boss challenge is paused in this server. Try again once an admin unlocks it."
	case errors.Is(err, model.ErrNoFixedEnd):
		return "❌ Extreme mode has no final boss, so progress cannot be set for it."
	case errors.Is(err, model.ErrLockHeld):
		return "⏳ Your previous submission is still being processed. Please wait a moment."
	case errors.Is(err, model.ErrEvidenceUpload):
		return "❌ Failed to save images. Please try again."
	}
	return "❌ Something went wrong. Please try again."
}

func (h *Handler) fail(s *discordgo.Session, i *discordgo.InteractionCreate, operation string, err error) {
	if !model.IsValidation(err) {
		utils.LogError(s, h.bot.GetConfig().LogChannelID, "Challenge", operation, fmt.Sprintf("guild %s user %s: %v", i.GuildID, interactionUserID(i), err))
	}
	utils.SendSimpleResponse(s, i, UserMessage(err))
}

func (h *Handler) HandleJoin(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := h.svc.Join(ctx, i.GuildID, interactionUserID(i), stringOption(i, "mode"))
	if err != nil {
		h.fail(s, i, "Join", err)
		return
	}
	utils.SendSimpleResponse(s, i, fmt.Sprintf(
		"🎉 Welcome to the boss challenge - **%s (%s)**!\nStart with **%s** and work your way up. Use `/submit` to submit boss kills!",
		res.Info.Name, res.Info.Description, res.StartBoss))
}

func (h *Handler) HandleLeave(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if _, err := h.svc.Leave(ctx, i.GuildID, interactionUserID(i)); err != nil {
		h.fail(s, i, "Leave", err)
		return
	}
	utils.SendSimpleResponse(s, i, "👋 You've left the boss challenge. Your progression has been removed.")
}

func (h *Handler) HandleReset(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := h.svc.Reset(ctx, i.GuildID, interactionUserID(i), utils.MemberDisplayName(i.Member))
	if err != nil {
		h.fail(s, i, "Reset", err)
		return
	}
	utils.SendSimpleResponse(s, i, fmt.Sprintf(
		"💀 Your progression has been reset after %d bosses. Start again with **%s**.",
		res.PreviousProgress, res.StartBoss))
}

// HandleSubmit defers first because both screenshots are downloaded before the reply.
func (h *Handler) HandleSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	before, okBefore := attachmentOption(i, "before")
	after, okAfter := attachmentOption(i, "after")
	if !okBefore || !okAfter {
		utils.SendErrorResponse(s, i, "Please attach both a before and an after image.")
		return
	}
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Error deferring submit response: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := h.svc.Submit(ctx, SubmitRequest{
		GuildID:  i.GuildID,
		UserID:   interactionUserID(i),
		UserName: utils.MemberDisplayName(i.Member),
		Before:   before,
		After:    after,
	})
	if err != nil {
		if !model.IsValidation(err) {
			utils.LogError(s, h.bot.GetConfig().LogChannelID, "Challenge", "Submit", fmt.Sprintf("guild %s user %s: %v", i.GuildID, interactionUserID(i), err))
		}
		utils.SendFollowUp(s, i.Interaction, UserMessage(err))
		return
	}
	if res.Finished {
		utils.LogInfo(s, h.bot.GetConfig().LogChannelID, "Challenge", "Finish",
			fmt.Sprintf("%s finished %s mode in guild %s as #%d", interactionUserID(i), res.Mode, i.GuildID, res.CompletionOrder))
	}
	utils.SendFollowUp(s, i.Interaction, SubmitMessage(res))
}

// SubmitMessage is the private confirmation after an accepted kill.
func SubmitMessage(res *SubmitResult) string {
	prefix := ""
	if res.Finished {
		prefix = fmt.Sprintf("🎉 **DIFFICULTY COMPLETED!** You are finisher #%d. ", res.CompletionOrder)
	}
	msg := fmt.Sprintf("%s⚔️ Boss kill submitted successfully! You defeated **%s**. Check the completions channel for your defeat post and the %s channel for the leaderboard.",
		prefix, res.DefeatedBoss, res.Mode)
	if !res.Finished && res.NextBoss != "" {
		msg += fmt.Sprintf("\n🎯 Next boss: **%s**", res.NextBoss)
	}
	return msg
}

func (h *Handler) requireAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	cfg := h.bot.GetConfig()
	if utils.IsAdmin(i.Member, cfg.AdminRoleIDs, cfg.DeveloperUserIDs) {
		return true
	}
	utils.SendErrorResponse(s, i, "You do not have permission to use this command.")
	return false
}

func (h *Handler) HandleLock(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.requireAdmin(s, i) {
		return
	}
	if err := h.svc.Lock(i.GuildID); err != nil {
		h.fail(s, i, "Lock", err)
		return
	}
	utils.LogInfo(s, h.bot.GetConfig().LogChannelID, "Challenge", "Lock", fmt.Sprintf("guild %s locked by %s", i.GuildID, interactionUserID(i)))
	utils.SendSimpleResponse(s, i, "🔒 The boss challenge is now paused in this server.")
}

func (h *Handler) HandleUnlock(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.requireAdmin(s, i) {
		return
	}
	if err := h.svc.Unlock(i.GuildID); err != nil {
		h.fail(s, i, "Unlock", err)
		return
	}
	utils.LogInfo(s, h.bot.GetConfig().LogChannelID, "Challenge", "Unlock", fmt.Sprintf("guild %s unlocked by %s", i.GuildID, interactionUserID(i)))
	utils.SendSimpleResponse(s, i, "🔓 The boss challenge is open again.")
}

func (h *Handler) HandleSetProgress(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !h.requireAdmin(s, i) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	res, err := h.svc.SetProgress(ctx, i.GuildID, interactionUserID(i), stringOption(i, "difficulty"))
	if err != nil {
		h.fail(s, i, "SetProgress", err)
		return
	}
	utils.SendSimpleResponse(s, i, fmt.Sprintf(
		"🧪 Progress set to **%d/%d** in %s mode. One more `/submit` finishes the run.",
		res.Progress, res.Total, res.Mode))
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func stringOption(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionString {
			return opt.StringValue()
		}
	}
	return ""
}

// attachmentOption resolves an attachment option through the interaction's resolved data.
func attachmentOption(i *discordgo.InteractionCreate, name string) (Attachment, bool) {
	data := i.ApplicationCommandData()
	if data.Resolved == nil {
		return Attachment{}, false
	}
	for _, opt := range data.Options {
		if opt.Name != name || opt.Type != discordgo.ApplicationCommandOptionAttachment {
			continue
		}
		id, ok := opt.Value.(string)
		if !ok {
			return Attachment{}, false
		}
		att, ok := data.Resolved.Attachments[id]
		if !ok || att == nil {
			return Attachment{}, false
		}
		return Attachment{URL: att.URL, ContentType: att.ContentType}, true
	}
	return Attachment{}, false
}
