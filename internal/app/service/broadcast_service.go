package service

import (
	"context"
	"sync"
	"sync/atomic"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/vrml-tools/vrml-bot/internal/infra/logging"
	"github.com/vrml-tools/vrml-bot/internal/infra/metrics"
)

const defaultBroadcastWorkers = 8

// BroadcastReport counts one batch. Delivered + Forbidden + Failed == Attempted.
type BroadcastReport struct {
	Attempted int
	Delivered int
	Forbidden int
	Failed    int
}

// BroadcastService sends operator announcements to every guild the bot is
// in. One recipient refusing or failing never stops the batch.
type BroadcastService struct {
	dir     GuildDirectory
	sink    Sink
	workers int
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewBroadcastService(dir GuildDirectory, sink Sink, workers int, log *zap.Logger, m *metrics.Metrics) *BroadcastService {
	if workers <= 0 {
		workers = defaultBroadcastWorkers
	}
	log = logging.OrNop(log)
	return &BroadcastService{dir: dir, sink: sink, workers: workers, log: log.Named("broadcast"), metrics: m}
}

// MessageGuilds posts text to the system channel of every guild that has one.
func (b *BroadcastService) MessageGuilds(ctx context.Context, text string) (BroadcastReport, error) {
	guilds, err := b.dir.Guilds(ctx)
	if err != nil {
		return BroadcastReport{}, crerr.Wrap(err, "list guilds")
	}
	return b.deliver(ctx, channelTargets(guilds), Message{Text: text})
}

// MessageOwners DMs every guild owner once, however many guilds they own.
func (b *BroadcastService) MessageOwners(ctx context.Context, text string) (BroadcastReport, error) {
	guilds, err := b.dir.Guilds(ctx)
	if err != nil {
		return BroadcastReport{}, crerr.Wrap(err, "list guilds")
	}
	return b.deliver(ctx, ownerTargets(guilds), Message{Text: text, Private: true})
}

func (b *BroadcastService) MessageBoth(ctx context.Context, text string) (channels, owners BroadcastReport, err error) {
	guilds, err := b.dir.Guilds(ctx)
	if err != nil {
		return BroadcastReport{}, BroadcastReport{}, crerr.Wrap(err, "list guilds")
	}
	channels, err = b.deliver(ctx, channelTargets(guilds), Message{Text: text})
	if err != nil {
		return channels, BroadcastReport{}, err
	}
	owners, err = b.deliver(ctx, ownerTargets(guilds), Message{Text: text, Private: true})
	return channels, owners, err
}

func channelTargets(guilds []GuildInfo) []Target {
	var out []Target
	for _, g := range guilds {
		if g.SystemChannelID == "" {
			continue
		}
		out = append(out, Target{Kind: TargetChannel, ID: g.SystemChannelID, Label: g.Name})
	}
	return out
}

func ownerTargets(guilds []GuildInfo) []Target {
	seen := map[string]bool{}
	var out []Target
	for _, g := range guilds {
		if g.OwnerID == "" || seen[g.OwnerID] {
			continue
		}
		seen[g.OwnerID] = true
		out = append(out, Target{Kind: TargetUser, ID: g.OwnerID, Label: "owner of " + g.Name})
	}
	return out
}

func (b *BroadcastService) deliver(ctx context.Context, targets []Target, msg Message) (BroadcastReport, error) {
	rep := BroadcastReport{Attempted: len(targets)}
	if len(targets) == 0 {
		return rep, nil
	}

	p, err := ants.NewPool(b.workers)
	if err != nil {
		return rep, crerr.Wrap(err, "broadcast pool")
	}
	defer p.Release()

	var delivered, forbidden, failed atomic.Int64
	var wg sync.WaitGroup
	for _, to := range targets {
		wg.Add(1)
		err := p.Submit(func() {
			defer wg.Done()
			switch err := b.sink.SendMessage(ctx, to, msg); {
			case err == nil:
				delivered.Add(1)
				b.metrics.Notification("delivered")
			case crerr.Is(err, ErrForbidden):
				forbidden.Add(1)
				b.metrics.Notification("forbidden")
				b.log.Info("recipient refused message", zap.String("target", to.ID), zap.String("label", to.Label))
			default:
				failed.Add(1)
				b.metrics.Notification("failed")
				b.log.Warn("message not delivered", zap.String("target", to.ID), zap.String("label", to.Label), zap.Error(err))
			}
		})
		if err != nil {
			wg.Done()
			failed.Add(1)
			b.metrics.Notification("failed")
			b.log.Warn("could not queue message", zap.String("target", to.ID), zap.Error(err))
		}
	}
	wg.Wait()

	rep.Delivered = int(delivered.Load())
	rep.Forbidden = int(forbidden.Load())
	rep.Failed = int(failed.Load())
	b.log.Info("broadcast finished",
		zap.Int("attempted", rep.Attempted),
		zap.Int("delivered", rep.Delivered),
		zap.Int("forbidden", rep.Forbidden),
		zap.Int("failed", rep.Failed),
	)
	return rep, nil
}
