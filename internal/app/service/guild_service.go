package service

import (
	"fmt"

	"github.com/vrml-tools/vrml-bot/internal/infra/storage"
)

type GuildService struct {
	repo GuildRepo
}

func NewGuildService(r GuildRepo) *GuildService { return &GuildService{repo: r} }

func (s *GuildService) Get(guildID string) (storage.GuildSettings, error) {
	return s.repo.Get(guildID)
}

func (s *GuildService) Show(guildID string) (string, error) {
	gs, err := s.repo.Get(guildID)
	if err != nil {
		return "", err
	}
	game := gs.DefaultGame
	if game == "" {
		game = "not set"
	}
	return fmt.Sprintf("**Server settings**\n• default_game: **%s**", game), nil
}

// SetDefaultGame stores the display name of game so lookups compare against
// what the league returns.
func (s *GuildService) SetDefaultGame(guildID, game string) (string, error) {
	g, err := ResolveGame(game)
	if err != nil {
		return "", err
	}
	if g.Name == "" {
		return "", ErrNoGame
	}
	if _, err := s.repo.SetDefaultGame(guildID, g.Name); err != nil {
		return "", err
	}
	return s.Show(guildID)
}
