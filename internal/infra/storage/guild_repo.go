package storage

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

type GuildSettings struct {
	GuildID     string `json:"-"`
	DefaultGame string `json:"default_game,omitempty"`
}

// GuildStore keeps one JSON file per guild under Dir.
type GuildStore struct {
	dir string
	mu  sync.Mutex
}

func NewGuildStore(dir string) *GuildStore {
	return &GuildStore{dir: dir}
}

var ErrInvalidGuildID = crerr.New("invalid guild id")

func (s *GuildStore) path(guildID string) (string, error) {
	if guildID == "" || strings.ContainsAny(guildID, `/\.`) {
		return "", ErrInvalidGuildID
	}
	return filepath.Join(s.dir, guildID+".json"), nil
}

// Get returns the settings of a guild; a guild without a file gets defaults.
func (s *GuildStore) Get(guildID string) (GuildSettings, error) {
	p, err := s.path(guildID)
	if err != nil {
		return GuildSettings{}, err
	}
	raw, err := os.ReadFile(p)
	if crerr.Is(err, os.ErrNotExist) {
		return GuildSettings{GuildID: guildID}, nil
	}
	if err != nil {
		return GuildSettings{}, crerr.Wrapf(err, "read guild %s", guildID)
	}
	var gs GuildSettings
	if err := sonic.Unmarshal(raw, &gs); err != nil {
		return GuildSettings{}, crerr.Wrapf(err, "decode guild %s", guildID)
	}
	gs.GuildID = guildID
	return gs, nil
}

func (s *GuildStore) SetDefaultGame(guildID, game string) (GuildSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gs, err := s.Get(guildID)
	if err != nil {
		return GuildSettings{}, err
	}
	gs.DefaultGame = game
	raw, err := sonic.Marshal(gs)
	if err != nil {
		return GuildSettings{}, crerr.Wrap(err, "encode guild settings")
	}
	p, _ := s.path(guildID)
	if err := writeFileAtomic(p, raw, 0o644); err != nil {
		return GuildSettings{}, err
	}
	return gs, nil
}
