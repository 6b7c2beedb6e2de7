package service

import (
	"context"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/vrml-tools/vrml-bot/internal/adapters/vrml"
	"github.com/vrml-tools/vrml-bot/internal/domain"
	"github.com/vrml-tools/vrml-bot/internal/infra/logging"
)

// Search results above this size get a "this might take a bit" notice.
const ManyPlayersThreshold = 10

var (
	ErrUnknownGame = crerr.New("unknown game")
	ErrNoGame      = crerr.New("no game given and no default game set")
)

type LeagueService struct {
	api     LeagueAPI
	guilds  GuildRepo
	players PlayerLookup
	workers int
	log     *zap.Logger
}

func NewLeagueService(api LeagueAPI, guilds GuildRepo, players PlayerLookup, log *zap.Logger) *LeagueService {
	log = logging.OrNop(log)
	return &LeagueService{api: api, guilds: guilds, players: players, workers: defaultDetailWorkers, log: log.Named("league")}
}

// ResolveGame accepts a display or short name. Empty input resolves to the
// zero game and no error.
func ResolveGame(name string) (vrml.SupportedGame, error) {
	if strings.TrimSpace(name) == "" {
		return vrml.SupportedGame{}, nil
	}
	g, ok := vrml.LookupGame(name)
	if !ok {
		return vrml.SupportedGame{}, crerr.Wrapf(ErrUnknownGame, "%q", name)
	}
	return g, nil
}

func (s *LeagueService) GameSummary(ctx context.Context, game string) (domain.Game, error) {
	g, err := ResolveGame(game)
	if err != nil {
		return domain.Game{}, err
	}
	if g.Short == "" {
		return domain.Game{}, ErrNoGame
	}
	return s.api.Game(ctx, g.Short)
}

type PlayerSearch struct {
	// Found is the number of search hits before detail fetch and filtering.
	Found   int
	Players []domain.Player
}

// Many reports whether the search was large enough to warn the user.
func (r PlayerSearch) Many() bool { return r.Found > ManyPlayersThreshold }

// FindPlayers searches by name and expands every hit into its detail
// record, keeping those of game when given. Hits whose detail fails are
// left out; the search only fails when every one of them did.
func (s *LeagueService) FindPlayers(ctx context.Context, name, game string) (PlayerSearch, error) {
	g, err := ResolveGame(game)
	if err != nil {
		return PlayerSearch{}, err
	}

	hits, err := s.api.SearchPlayers(ctx, name)
	if err != nil {
		return PlayerSearch{}, err
	}
	res := PlayerSearch{Found: len(hits)}
	if len(hits) == 0 {
		return res, nil
	}

	details := make([]domain.Player, len(hits))
	errs := make([]error, len(hits))
	p := pool.New().WithMaxGoroutines(s.workers)
	for i, h := range hits {
		p.Go(func() {
			details[i], errs[i] = s.api.PlayerDetail(ctx, h.ID)
		})
	}
	p.Wait()

	var failed []error
	for i, pl := range details {
		if errs[i] != nil {
			s.log.Warn("player detail failed", zap.String("player_id", hits[i].ID), zap.Error(errs[i]))
			failed = append(failed, errs[i])
			continue
		}
		if g.Name != "" && !strings.EqualFold(pl.Game.Name, g.Name) {
			continue
		}
		res.Players = append(res.Players, pl)
	}
	if len(failed) == len(hits) {
		return res, crerr.Join(failed...)
	}
	return res, nil
}

// DefaultGame is the game a guild set with /settings, or the zero game.
func (s *LeagueService) DefaultGame(guildID string) vrml.SupportedGame {
	if guildID == "" || s.guilds == nil {
		return vrml.SupportedGame{}
	}
	gs, err := s.guilds.Get(guildID)
	if err != nil {
		s.log.Warn("guild settings unavailable", zap.String("guild_id", guildID), zap.Error(err))
		return vrml.SupportedGame{}
	}
	g, _ := vrml.LookupGame(gs.DefaultGame)
	return g
}

type TeamQuery struct {
	GuildID string
	Name    string
	Game    string
	Season  string
	Region  string
}

type TeamSearchResult struct {
	Game  vrml.SupportedGame
	Teams []domain.TeamSummary
	// Detail is filled when the search matched exactly one team.
	Detail *domain.Team
}

// FindTeams searches teams of q.Game, or of the guild's default game when
// q.Game is empty.
func (s *LeagueService) FindTeams(ctx context.Context, q TeamQuery) (TeamSearchResult, error) {
	g, err := ResolveGame(q.Game)
	if err != nil {
		return TeamSearchResult{}, err
	}
	if g.Short == "" {
		g = s.DefaultGame(q.GuildID)
	}
	if g.Short == "" {
		return TeamSearchResult{}, ErrNoGame
	}

	teams, err := s.api.SearchTeams(ctx, vrml.TeamSearch{Game: g.Short, Name: q.Name, Season: q.Season, Region: q.Region})
	if err != nil {
		return TeamSearchResult{}, err
	}
	res := TeamSearchResult{Game: g, Teams: teams}
	if len(teams) == 1 {
		t, err := s.api.Team(ctx, teams[0].ID)
		if err != nil {
			// the summary is still worth showing
			s.log.Warn("team detail failed", zap.String("team_id", teams[0].ID), zap.Error(err))
			return res, nil
		}
		res.Detail = &t
	}
	return res, nil
}

// MyTeams reads the player index for discordID, optionally one game.
func (s *LeagueService) MyTeams(discordID, game string) ([]domain.PlayerAssociation, error) {
	g, err := ResolveGame(game)
	if err != nil {
		return nil, err
	}
	return s.players.Lookup(discordID, g.Name), nil
}
