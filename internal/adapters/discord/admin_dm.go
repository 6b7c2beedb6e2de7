package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/vrml-tools/vrml-bot/internal/app/service"
)

const adminHelp = "Available admin commands:\n" +
	"```\n" +
	"!help        Show this help\n" +
	"!msg_guilds  Message system channel in all servers\n" +
	"!msg_owners  Message all server owners\n" +
	"!msg_both    Message server owners and system channels in all servers\n" +
	"!refresh     Rebuild the Discord to player index now\n" +
	"```"

type adminCommand struct {
	name string
	arg  string
}

// parseAdminCommand splits "!name rest of text". The text keeps its own
// line breaks.
func parseAdminCommand(content string) (adminCommand, bool) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "!") {
		return adminCommand{}, false
	}
	name, arg, _ := strings.Cut(content[1:], " ")
	if i := strings.IndexAny(name, "\n\t"); i >= 0 {
		name, arg = name[:i], name[i+1:]+" "+arg
	}
	return adminCommand{name: strings.ToLower(name), arg: strings.TrimSpace(arg)}, name != ""
}

func formatReport(what string, rep service.BroadcastReport) string {
	s := fmt.Sprintf("%s: %d of %d delivered", what, rep.Delivered, rep.Attempted)
	if rep.Forbidden > 0 {
		s += fmt.Sprintf(", %d refused", rep.Forbidden)
	}
	if rep.Failed > 0 {
		s += fmt.Sprintf(", %d failed", rep.Failed)
	}
	return s + "."
}

// handleDirectMessage serves operator commands sent to the bot in a DM.
// Messages from anyone else are ignored.
func (r *Router) handleDirectMessage(m *discordgo.MessageCreate) {
	if m.GuildID != "" || m.Author == nil || m.Author.Bot || !r.isOperator(m.Author.ID) {
		return
	}
	cmd, ok := parseAdminCommand(m.Content)
	if !ok {
		return
	}
	log := r.log.With(zap.String("admin_command", cmd.name))
	log.Info("operator command")

	answer := func(text string) {
		if _, err := r.s.ChannelMessageSend(m.ChannelID, text); err != nil {
			log.Warn("operator reply failed", zap.Error(err))
		}
	}

	needText := func() bool {
		if cmd.arg == "" {
			answer(fmt.Sprintf("Usage: `!%s <message>`", cmd.name))
			return false
		}
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	switch cmd.name {
	case "help":
		answer(adminHelp)

	case "msg_guilds":
		if !needText() {
			return
		}
		rep, err := r.broadcast.MessageGuilds(ctx, cmd.arg)
		if err != nil {
			log.Error("broadcast failed", zap.Error(err))
			answer("Broadcast failed: " + err.Error())
			return
		}
		answer(formatReport("System channels", rep))

	case "msg_owners":
		if !needText() {
			return
		}
		rep, err := r.broadcast.MessageOwners(ctx, cmd.arg)
		if err != nil {
			log.Error("broadcast failed", zap.Error(err))
			answer("Broadcast failed: " + err.Error())
			return
		}
		answer(formatReport("Server owners", rep))

	case "msg_both":
		if !needText() {
			return
		}
		channels, owners, err := r.broadcast.MessageBoth(ctx, cmd.arg)
		if err != nil {
			log.Error("broadcast failed", zap.Error(err))
			answer("Broadcast failed: " + err.Error())
			return
		}
		answer(formatReport("System channels", channels) + "\n" + formatReport("Server owners", owners))

	case "refresh":
		answer("🔄 Refresh started.")
		r.startRefresh(m.Author.ID)

	default:
		answer("Unknown command. Send `!help` for the list.")
	}
}

// startRefresh runs a forced cycle in the background and DMs the outcome
// to notifyUserID.
func (r *Router) startRefresh(notifyUserID string) {
	go func() {
		res, err := r.refresh.RunCycle(context.Background(), true)
		text := fmt.Sprintf("✅ Refresh %s done: %d players crawled, %d Discord accounts indexed, %d dropped, took %s.",
			res.ID, res.Players, res.Indexed, res.Dropped, res.Duration.Round(time.Second))
		if err != nil {
			r.log.Error("forced refresh failed", zap.Error(err))
			text = "❌ Refresh failed, the previous index is still in use: " + err.Error()
		}
		to := service.Target{Kind: service.TargetUser, ID: notifyUserID, Label: "operator"}
		if err := r.sink.SendMessage(context.Background(), to, service.Message{Text: text, Private: true}); err != nil {
			r.log.Warn("refresh notification not delivered", zap.Error(err))
		}
	}()
}
