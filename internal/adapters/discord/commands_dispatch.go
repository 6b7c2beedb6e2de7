// Slash command handling: parse the interaction, call the services, and
// format their results. No league logic lives here.
package discord

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/vrml-tools/vrml-bot/internal/app/service"
)

var ephemeralCommands = map[string]bool{
	"settings": true,
	"refresh":  true,
}

func (r *Router) handleSlashCommand(ic *discordgo.InteractionCreate) {
	cmd := ic.ApplicationCommandData()
	userID := ""
	if u := interactionUser(ic); u != nil {
		userID = u.ID
	}
	log := r.log.With(zap.String("command", cmd.Name), zap.String("user_id", userID), zap.String("guild_id", ic.GuildID))
	log.Info("slash command")
	defer r.step("command."+cmd.Name, zap.String("user_id", userID))()

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic in command", zap.Any("panic", rec), zap.ByteString("stack", debug.Stack()))
			r.reply(ic, service.MsgGenericFailure)
		}
	}()

	_ = r.deferReply(ic, ephemeralCommands[cmd.Name])
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	switch cmd.Name {
	case "ping":
		r.reply(ic, "Pong!")

	case "game":
		game, _ := optStr(ic, "game")
		g, err := r.league.GameSummary(ctx, game)
		if err != nil {
			r.fail(ic, log, err)
			return
		}
		r.reply(ic, "", gameEmbed(g))

	case "player":
		if ok, wait := r.limiter.Allow(userID); !ok {
			r.reply(ic, fmt.Sprintf("Slow down a little, try again in %.0fs.", wait.Seconds()+0.5))
			return
		}
		name, _ := optStr(ic, "name")
		game, _ := optStr(ic, "game")
		res, err := r.league.FindPlayers(ctx, name, game)
		if err != nil {
			r.fail(ic, log, err)
			return
		}
		if res.Many() {
			r.reply(ic, "Many players found. This might take a bit.")
		}
		if len(res.Players) == 0 {
			r.reply(ic, "No player found.")
			return
		}
		embeds := make([]*discordgo.MessageEmbed, 0, len(res.Players))
		for _, p := range res.Players {
			embeds = append(embeds, playerEmbed(p))
		}
		r.replyEmbeds(ic, "", embeds)

	case "team":
		name, _ := optStr(ic, "name")
		game, _ := optStr(ic, "game")
		season, _ := optStr(ic, "season")
		region, _ := optStr(ic, "region")
		res, err := r.league.FindTeams(ctx, service.TeamQuery{GuildID: ic.GuildID, Name: name, Game: game, Season: season, Region: region})
		if err != nil {
			r.fail(ic, log, err)
			return
		}
		switch {
		case res.Detail != nil:
			r.reply(ic, "", teamEmbed(*res.Detail))
		case len(res.Teams) == 0:
			r.reply(ic, fmt.Sprintf("No team found in %s.", res.Game.Name))
		default:
			r.reply(ic, "", teamListEmbed(res.Game.Name, res.Teams))
		}

	case "myteams":
		target, who := userID, "you"
		if id, ok := optUserID(ic, "user"); ok {
			target, who = id, "<@"+id+">"
		}
		game, _ := optStr(ic, "game")
		as, err := r.league.MyTeams(target, game)
		if err != nil {
			r.fail(ic, log, err)
			return
		}
		if len(as) == 0 {
			r.reply(ic, fmt.Sprintf("No VRML player is linked to %s yet. Links are refreshed once a week.", who))
			return
		}
		r.reply(ic, "", associationsEmbed(who, as))

	case "settings":
		if !r.requireGuildAdmin(ic) {
			return
		}
		sub, _ := subcmdName(ic)
		var (
			msg string
			err error
		)
		switch sub {
		case "default_game":
			game, _ := optStr(ic, "game")
			msg, err = r.guilds.SetDefaultGame(ic.GuildID, game)
			if err == nil {
				msg = "✅ Settings updated.\n" + msg
			}
		default:
			msg, err = r.guilds.Show(ic.GuildID)
		}
		if err != nil {
			r.fail(ic, log, err)
			return
		}
		r.replyEphemeral(ic, msg)

	case "refresh":
		if !r.requireOperator(ic) {
			return
		}
		r.replyEphemeral(ic, "🔄 Refresh started. It takes a while; the result goes to the logs and your DMs.")
		r.startRefresh(userID)

	default:
		log.Warn("unknown command")
		r.reply(ic, "Unknown command.")
	}
}

// fail logs err and shows the user its classified message. It is the first
// answer, so it is as visible as the deferral was.
func (r *Router) fail(ic *discordgo.InteractionCreate, log *zap.Logger, err error) {
	log.Warn("command failed", zap.Error(err))
	r.reply(ic, service.UserMessage(err))
}
