package storage

import (
	"os"
	"sync/atomic"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/vrml-tools/vrml-bot/internal/domain"
	"github.com/vrml-tools/vrml-bot/internal/infra/logging"
)

const PlayerIndexFileName = "discord_players.json"

// PlayerIndexFile is the on-disk snapshot of the player index. Save is the
// only writer and replaces the file atomically.
type PlayerIndexFile struct {
	Path string
}

// Load reads the snapshot. A missing file is an empty index.
func (f PlayerIndexFile) Load() (domain.PlayerIndex, error) {
	raw, err := os.ReadFile(f.Path)
	if crerr.Is(err, os.ErrNotExist) {
		return domain.PlayerIndex{}, nil
	}
	if err != nil {
		return nil, crerr.Wrapf(err, "read %s", f.Path)
	}
	idx := domain.PlayerIndex{}
	if err := sonic.Unmarshal(raw, &idx); err != nil {
		return nil, crerr.Wrapf(err, "decode %s", f.Path)
	}
	return idx, nil
}

func (f PlayerIndexFile) Save(idx domain.PlayerIndex) error {
	if idx == nil {
		idx = domain.PlayerIndex{}
	}
	raw, err := sonic.Marshal(idx)
	if err != nil {
		return crerr.Wrap(err, "encode player index")
	}
	return writeFileAtomic(f.Path, raw, 0o644)
}

// PlayerCache serves lookups from the last loaded snapshot. Reload swaps in
// a new snapshot; callers holding an older one keep a consistent view.
type PlayerCache struct {
	file PlayerIndexFile
	log  *zap.Logger
	cur  atomic.Pointer[domain.PlayerIndex]
}

func NewPlayerCache(file PlayerIndexFile, log *zap.Logger) *PlayerCache {
	log = logging.OrNop(log)
	c := &PlayerCache{file: file, log: log.Named("player_cache")}
	empty := domain.PlayerIndex{}
	c.cur.Store(&empty)
	return c
}

// Reload reads the file and publishes it. On error the current snapshot stays.
func (c *PlayerCache) Reload() error {
	idx, err := c.file.Load()
	if err != nil {
		c.log.Error("player index reload failed", zap.String("path", c.file.Path), zap.Error(err))
		return err
	}
	if idx.Len() == 0 {
		c.log.Warn("player index is empty", zap.String("path", c.file.Path))
	}
	c.cur.Store(&idx)
	c.log.Info("player index loaded", zap.Int("identities", idx.Len()))
	return nil
}

func (c *PlayerCache) Snapshot() domain.PlayerIndex {
	return *c.cur.Load()
}

// Len is the number of identities in the current snapshot.
func (c *PlayerCache) Len() int { return c.Snapshot().Len() }

// Lookup returns the associations of a Discord user, optionally for one game.
func (c *PlayerCache) Lookup(discordID, game string) []domain.PlayerAssociation {
	return c.Snapshot().Lookup(discordID, game)
}

// Publish saves idx and makes it the current snapshot.
func (c *PlayerCache) Publish(idx domain.PlayerIndex) error {
	if err := c.file.Save(idx); err != nil {
		return err
	}
	c.cur.Store(&idx)
	return nil
}
