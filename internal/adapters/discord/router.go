package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/vrml-tools/vrml-bot/internal/app/service"
	"github.com/vrml-tools/vrml-bot/internal/infra/logging"
)

// Services are what the command handlers dispatch to.
type Services struct {
	League    *service.LeagueService
	Guilds    *service.GuildService
	Refresh   *service.RefreshService
	Broadcast *service.BroadcastService
}

type Router struct {
	s  *discordgo.Session
	ix interactions
	// guildIDs to register commands in; empty registers them globally
	guildIDs   []string
	operatorID string

	league    *service.LeagueService
	guilds    *service.GuildService
	refresh   *service.RefreshService
	broadcast *service.BroadcastService

	sink    *Sink
	limiter *userLimiter
	log     *zap.Logger
	timeout time.Duration
}

func NewRouter(s *discordgo.Session, guildIDs []string, operatorID string, svc Services, log *zap.Logger) *Router {
	log = logging.OrNop(log)
	return &Router{
		s:          s,
		ix:         s,
		guildIDs:   guildIDs,
		operatorID: operatorID,
		league:     svc.League,
		guilds:     svc.Guilds,
		refresh:    svc.Refresh,
		broadcast:  svc.Broadcast,
		sink:       NewSink(s),
		limiter:    newUserLimiter(5 * time.Second),
		log:        log.Named("discord"),
		timeout:    30 * time.Second,
	}
}

// Register creates the slash commands. Call it after the session is open.
func (r *Router) Register() error {
	appID := r.s.State.User.ID
	targets := r.guildIDs
	if len(targets) == 0 {
		targets = []string{""}
	}
	for _, guildID := range targets {
		if _, err := r.s.ApplicationCommandBulkOverwrite(appID, guildID, Commands); err != nil {
			return err
		}
		r.log.Info("commands registered", zap.String("guild_id", guildID), zap.Int("commands", len(Commands)))
	}
	return nil
}

func (r *Router) Handlers() {
	r.s.AddHandler(func(s *discordgo.Session, ready *discordgo.Ready) {
		r.log.Info("bot logged in", zap.String("user", ready.User.String()), zap.Int("guilds", len(ready.Guilds)))
	})
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		r.handleSlashCommand(ic)
	})
	r.s.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		r.handleDirectMessage(m)
	})
}
