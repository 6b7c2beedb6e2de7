package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	discordrouter "github.com/vrml-tools/vrml-bot/internal/adapters/discord"
	"github.com/vrml-tools/vrml-bot/internal/adapters/httpops"
	"github.com/vrml-tools/vrml-bot/internal/adapters/vrml"
	"github.com/vrml-tools/vrml-bot/internal/app/service"
	"github.com/vrml-tools/vrml-bot/internal/infra/config"
	"github.com/vrml-tools/vrml-bot/internal/infra/logging"
	"github.com/vrml-tools/vrml-bot/internal/infra/metrics"
	"github.com/vrml-tools/vrml-bot/internal/infra/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(true)
	if err != nil {
		logging.New("info", false).Fatal("invalid configuration", zap.Error(err))
	}
	log := logging.New(cfg.LogLevel, cfg.Dev)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	api := vrml.New(
		vrml.WithBaseURL(cfg.VRMLBaseURL),
		vrml.WithSiteURL(cfg.VRMLSiteURL),
		vrml.WithMaxAttempts(cfg.VRMLMaxAttempts),
		vrml.WithRateLimit(cfg.VRMLRPS, 1),
		vrml.WithLogger(log),
		vrml.WithMetrics(m),
	)

	// Storage
	cache := storage.NewPlayerCache(storage.PlayerIndexFile{Path: cfg.PlayerIndexPath()}, log)
	if err := cache.Reload(); err != nil {
		// serve empty lookups until the next refresh writes a good file
		log.Warn("starting without a player index", zap.Error(err))
	}
	guildStore := storage.NewGuildStore(cfg.GuildDir())

	// Discord session
	auth := strings.TrimSpace(cfg.DiscordToken)
	if !strings.HasPrefix(strings.ToLower(auth), "bot ") {
		auth = "Bot " + auth
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal("discord session", zap.Error(err))
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent

	// Services
	refreshSvc := service.NewRefreshService(api, cache, service.RefreshConfig{
		Weekday:     cfg.RefreshWeekday,
		HourUTC:     cfg.RefreshHourUTC,
		Concurrency: cfg.RefreshConcurrency,
	}, log, m)
	svc := discordrouter.Services{
		League:    service.NewLeagueService(api, guildStore, cache, log),
		Guilds:    service.NewGuildService(guildStore),
		Refresh:   refreshSvc,
		Broadcast: service.NewBroadcastService(discordrouter.NewGuildDirectory(s), discordrouter.NewSink(s), 0, log, m),
	}

	r := discordrouter.NewRouter(s, cfg.DiscordGuildIDs, cfg.AdminUserID, svc, log)
	r.Handlers()

	if err := s.Open(); err != nil {
		log.Fatal("discord connect", zap.Error(err))
	}
	defer s.Close()
	log.Info("connected", zap.String("user", s.State.User.Username), zap.String("id", s.State.User.ID))

	if err := r.Register(); err != nil {
		log.Fatal("registering commands", zap.Error(err))
	}

	if err := refreshSvc.Start(ctx); err != nil {
		log.Fatal("refresh scheduler", zap.Error(err))
	}

	ops := httpops.New(cfg.OpsSecret, refreshSvc, cache, reg, log)
	go func() {
		if err := ops.Run(ctx, cfg.HTTPAddr); err != nil {
			log.Error("ops server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
}
