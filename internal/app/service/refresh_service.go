package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/vrml-tools/vrml-bot/internal/adapters/vrml"
	"github.com/vrml-tools/vrml-bot/internal/domain"
	"github.com/vrml-tools/vrml-bot/internal/infra/logging"
	"github.com/vrml-tools/vrml-bot/internal/infra/metrics"
	"github.com/vrml-tools/vrml-bot/internal/infra/retry"
)

const (
	defaultDetailWorkers  = 10
	defaultDetailAttempts = 5
)

var ErrSchedulerRunning = crerr.New("refresh scheduler already running")

type RefreshConfig struct {
	// Weekday is the day a scheduled run does real work.
	Weekday time.Weekday
	// HourUTC is the hour of the daily tick.
	HourUTC int
	// Concurrency bounds simultaneous player detail fetches.
	Concurrency int
	// DetailAttempts bounds tries of one detail fetch on a malformed body.
	DetailAttempts int
}

// CycleResult summarizes one refresh cycle.
type CycleResult struct {
	ID       string
	Skipped  bool
	Games    int
	Players  int
	Indexed  int
	Dropped  int
	NoLink   int
	Duration time.Duration
}

type RefreshService struct {
	api   RosterAPI
	index IndexPublisher
	games []vrml.SupportedGame
	cfg   RefreshConfig

	log     *zap.Logger
	metrics *metrics.Metrics

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
	sleep retry.SleepFunc

	cycleMu sync.Mutex
	started atomic.Bool
}

func NewRefreshService(api RosterAPI, index IndexPublisher, cfg RefreshConfig, log *zap.Logger, m *metrics.Metrics) *RefreshService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultDetailWorkers
	}
	if cfg.DetailAttempts <= 0 {
		cfg.DetailAttempts = defaultDetailAttempts
	}
	log = logging.OrNop(log)
	return &RefreshService{
		api:     api,
		index:   index,
		games:   vrml.Games,
		cfg:     cfg,
		log:     log.Named("refresh"),
		metrics: m,
		now:     time.Now,
		after:   time.After,
		sleep:   retry.Sleep,
	}
}

// ShouldRefresh reports whether a cycle started at now does real work.
func ShouldRefresh(now time.Time, weekday time.Weekday, force bool) bool {
	return force || now.UTC().Weekday() == weekday
}

// nextTick is the next occurrence of hour:00 UTC strictly after now.
func nextTick(now time.Time, hour int) time.Time {
	now = now.UTC()
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// Start runs the daily timer until ctx is done. A second call while the
// timer is alive logs and returns ErrSchedulerRunning.
func (s *RefreshService) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		s.log.Warn("refresh scheduler already started, ignoring")
		return ErrSchedulerRunning
	}
	go s.loop(ctx)
	return nil
}

func (s *RefreshService) loop(ctx context.Context) {
	defer s.started.Store(false)
	for {
		next := nextTick(s.now(), s.cfg.HourUTC)
		wait := next.Sub(s.now())
		s.log.Debug("next refresh tick", zap.Time("at", next), zap.Duration("in", wait))

		select {
		case <-ctx.Done():
			return
		case <-s.after(wait):
		}

		if _, err := s.RunCycle(ctx, false); err != nil {
			s.log.Error("scheduled refresh failed", zap.Error(err))
		}
	}
}

type detailOutcome struct {
	player domain.Player
	ok     bool
}

// RunCycle rebuilds the player index from every game roster and publishes
// it. Without force it only works on the configured weekday. Cycles never
// overlap; a forced run waits for the running one. Failures of one page or
// one player are logged and skipped. Only a failed publish or a canceled
// ctx is returned, and both leave the previous index in place.
func (s *RefreshService) RunCycle(ctx context.Context, force bool) (CycleResult, error) {
	if !ShouldRefresh(s.now(), s.cfg.Weekday, force) {
		s.log.Debug("not the refresh day, skipping", zap.Stringer("weekday", s.cfg.Weekday))
		return CycleResult{Skipped: true}, nil
	}

	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	res := CycleResult{ID: uuid.NewString()}
	log := s.log.With(zap.String("cycle_id", res.ID), zap.Bool("force", force))
	started := s.now()
	log.Info("refresh cycle started", zap.Int("games", len(s.games)))

	b := domain.NewIndexBuilder()
	canceled := func(err error) (CycleResult, error) {
		s.metrics.RefreshCycle("canceled", s.now().Sub(started), 0)
		log.Warn("refresh interrupted, keeping previous index", zap.Error(err))
		return res, crerr.Wrap(err, "refresh cycle")
	}
	for _, g := range s.games {
		if err := ctx.Err(); err != nil {
			return canceled(err)
		}
		s.refreshGame(ctx, log, g, b, &res)
		res.Games++
	}
	// fetches of the last game fail quietly once ctx is done; a partial
	// index would replace a complete one
	if err := ctx.Err(); err != nil {
		return canceled(err)
	}

	idx := b.Build()
	res.Indexed = idx.Len()
	res.Duration = s.now().Sub(started)

	if err := s.index.Publish(idx); err != nil {
		s.metrics.RefreshCycle("error", res.Duration, 0)
		log.Error("publishing player index failed", zap.Error(err))
		return res, crerr.Wrap(err, "publish player index")
	}

	s.metrics.RefreshCycle("ok", res.Duration, res.Indexed)
	log.Info("refresh cycle finished",
		zap.Int("players", res.Players),
		zap.Int("indexed", res.Indexed),
		zap.Int("dropped", res.Dropped),
		zap.Int("no_link", res.NoLink),
		zap.Duration("took", res.Duration),
	)
	return res, nil
}

func (s *RefreshService) refreshGame(ctx context.Context, log *zap.Logger, g vrml.SupportedGame, b *domain.IndexBuilder, res *CycleResult) {
	log = log.With(zap.String("game", g.Short))

	roster, err := s.api.FetchFullRoster(ctx, g.Short)
	if err != nil {
		if len(roster) == 0 {
			log.Error("roster unavailable, skipping game", zap.Error(err))
			return
		}
		log.Warn("roster incomplete", zap.Int("players", len(roster)), zap.Error(err))
	}
	res.Players += len(roster)

	outcomes := make([]detailOutcome, len(roster))
	p := pool.New().WithMaxGoroutines(s.cfg.Concurrency)
	for i, entry := range roster {
		p.Go(func() {
			pl, err := s.fetchDetail(ctx, entry.ID)
			if err != nil {
				reason := "error"
				switch {
				case vrml.IsMalformed(err):
					reason = "malformed"
				case vrml.IsRetriesExhausted(err):
					reason = "exhausted"
				}
				s.metrics.PlayerDropped(reason)
				log.Warn("dropping player from this cycle",
					zap.String("player_id", entry.ID), zap.String("reason", reason), zap.Error(err))
				return
			}
			outcomes[i] = detailOutcome{player: pl, ok: true}
		})
	}
	p.Wait()

	for i, o := range outcomes {
		if !o.ok {
			res.Dropped++
			continue
		}
		if !o.player.User.HasDiscord() {
			res.NoLink++
			continue
		}
		b.Add(o.player.User.DiscordID, association(g, roster[i], o.player))
	}
}

// fetchDetail retries a player whose detail body came back malformed. Any
// other error already went through the client's own budget and is final.
func (s *RefreshService) fetchDetail(ctx context.Context, playerID string) (domain.Player, error) {
	var out domain.Player
	policy := retry.Policy{MaxAttempts: s.cfg.DetailAttempts, Sleep: s.sleep}
	err := policy.Do(ctx, func(ctx context.Context, attempt int) retry.Result {
		p, err := s.api.PlayerDetail(ctx, playerID)
		switch {
		case err == nil:
			out = p
			return retry.Done()
		case vrml.IsMalformed(err):
			s.log.Debug("malformed player detail, trying again",
				zap.String("player_id", playerID), zap.Int("attempt", attempt))
			return retry.Again(err)
		default:
			return retry.Fail(err)
		}
	})
	return out, err
}

// association prefers the team on the detail record and falls back to the
// roster entry.
func association(g vrml.SupportedGame, entry domain.PlayerSummary, p domain.Player) domain.PlayerAssociation {
	a := domain.PlayerAssociation{
		GameName:   p.Game.Name,
		PlayerID:   p.ID,
		PlayerName: p.Name,
		TeamID:     p.TeamID,
		TeamName:   p.TeamName,
	}
	if a.GameName == "" {
		a.GameName = g.Name
	}
	if a.PlayerID == "" {
		a.PlayerID = entry.ID
	}
	if a.PlayerName == "" {
		a.PlayerName = entry.Name
	}
	if a.TeamID == "" {
		a.TeamID, a.TeamName = entry.TeamID, entry.TeamName
	}
	return a
}
