package vrml

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	crerr "github.com/cockroachdb/errors"

	"github.com/vrml-tools/vrml-bot/internal/domain"
)

// SearchPlayers searches every league for players named like name.
func (c *Client) SearchPlayers(ctx context.Context, name string) ([]domain.PlayerSummary, error) {
	q := url.Values{}
	q.Set("name", name)
	r := c.routes.Build(http.MethodGet, routePlayerSearch, nil).WithQuery(q)

	var dto []playerSearchDTO
	if err := c.Do(ctx, r, &dto); err != nil {
		return nil, err
	}
	out := make([]domain.PlayerSummary, 0, len(dto))
	for _, d := range dto {
		out = append(out, c.mapper.playerSummary(d))
	}
	return out, nil
}

// Game fetches the summary of one game by short name (e.g. "EchoArena").
func (c *Client) Game(ctx context.Context, short string) (domain.Game, error) {
	r := c.routes.Build(http.MethodGet, routeGame, Params{"game": short})

	var dto gameDTO
	if err := c.Do(ctx, r, &dto); err != nil {
		return domain.Game{}, err
	}
	return c.mapper.game(dto), nil
}

// PlayerDetail expands a player id into the full record. A body without a
// player is reported as malformed.
func (c *Client) PlayerDetail(ctx context.Context, playerID string) (domain.Player, error) {
	r := c.routes.Build(http.MethodGet, routePlayerDetailed, Params{"playerID": playerID})

	var dto playerDetailedDTO
	if err := c.Do(ctx, r, &dto); err != nil {
		return domain.Player{}, err
	}
	if dto.ThisGame.PlayerID == "" {
		return domain.Player{}, &MalformedResponseError{Route: r, Err: crerr.New("player record without thisGame.playerID")}
	}
	return c.mapper.player(dto), nil
}

// Team fetches the full team record.
func (c *Client) Team(ctx context.Context, teamID string) (domain.Team, error) {
	r := c.routes.Build(http.MethodGet, routeTeam, Params{"teamID": teamID})

	var dto teamDTO
	if err := c.Do(ctx, r, &dto); err != nil {
		return domain.Team{}, err
	}
	return c.mapper.team(dto), nil
}

// TeamSearch narrows a team name search; Season and Region are optional.
type TeamSearch struct {
	Game   string
	Name   string
	Season string
	Region string
}

func (c *Client) SearchTeams(ctx context.Context, s TeamSearch) ([]domain.TeamSummary, error) {
	q := url.Values{}
	q.Set("name", s.Name)
	if s.Season != "" {
		q.Set("season", s.Season)
	}
	if s.Region != "" {
		q.Set("region", s.Region)
	}
	r := c.routes.Build(http.MethodGet, routeTeamSearch, Params{"game": ShortName(s.Game)}).WithQuery(q)

	var dto []teamRefDTO
	if err := c.Do(ctx, r, &dto); err != nil {
		return nil, err
	}
	out := make([]domain.TeamSummary, 0, len(dto))
	for _, d := range dto {
		out = append(out, c.mapper.teamRef(d))
	}
	return out, nil
}

func (c *Client) MatchSets(ctx context.Context, matchID string) ([]domain.MatchSet, error) {
	r := c.routes.Build(http.MethodGet, routeMatchSets, Params{"matchID": matchID})

	var dto []matchSetDTO
	if err := c.Do(ctx, r, &dto); err != nil {
		return nil, err
	}
	out := make([]domain.MatchSet, 0, len(dto))
	for _, d := range dto {
		out = append(out, domain.MatchSet{MapName: d.MapName, HomeScore: d.HomeScore, AwayScore: d.AwayScore})
	}
	return out, nil
}

// RosterPage is one block of a game's player listing.
type RosterPage struct {
	Players []domain.PlayerSummary
	Total   int
	PosMin  int
	PerPage int
}

// RosterPage fetches the block of players starting at position posMin (1-based).
func (c *Client) RosterPage(ctx context.Context, game string, posMin int) (RosterPage, error) {
	q := url.Values{}
	q.Set("posMin", strconv.Itoa(posMin))
	r := c.routes.Build(http.MethodGet, routeGamePlayers, Params{"game": ShortName(game)}).WithQuery(q)

	var dto rosterPageDTO
	if err := c.Do(ctx, r, &dto); err != nil {
		return RosterPage{}, err
	}
	page := RosterPage{
		Players: make([]domain.PlayerSummary, 0, len(dto.Players)),
		Total:   dto.Total,
		PosMin:  dto.PosMin,
		PerPage: dto.NbPerPage,
	}
	if page.PosMin <= 0 {
		page.PosMin = posMin
	}
	for _, p := range dto.Players {
		page.Players = append(page.Players, c.mapper.rosterEntry(p))
	}
	return page, nil
}
