package vrml

import (
	"math"
	"strings"
	"time"

	"github.com/vrml-tools/vrml-bot/internal/domain"
)

// mapper turns API payloads into domain records. Relative links are
// resolved against site.
type mapper struct {
	site string
}

func (m mapper) abs(rel string) string {
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return ""
	}
	if strings.HasPrefix(rel, "http://") || strings.HasPrefix(rel, "https://") {
		return rel
	}
	if !strings.HasPrefix(rel, "/") {
		rel = "/" + rel
	}
	return m.site + rel
}

var utcLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseUTC reads the API's zone-less UTC timestamps. Unparseable or empty
// input gives nil.
func parseUTC(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range utcLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func prefixed(prefix, handle string) string {
	if handle == "" {
		return ""
	}
	return prefix + handle
}

func (m mapper) playerSummary(d playerSearchDTO) domain.PlayerSummary {
	return domain.PlayerSummary{
		ID:      string(d.ID),
		Name:    d.Name,
		LogoURL: m.abs(d.Image),
	}
}

func (m mapper) rosterEntry(d rosterPlayerDTO) domain.PlayerSummary {
	return domain.PlayerSummary{
		ID:       string(d.PlayerID),
		Name:     d.PlayerName,
		LogoURL:  m.abs(d.UserLogo),
		TeamID:   string(d.TeamID),
		TeamName: d.TeamName,
	}
}

func (m mapper) user(d userDTO) domain.User {
	return domain.User{
		ID:           string(d.UserID),
		Name:         d.UserName,
		LogoURL:      m.abs(d.UserLogo),
		Country:      d.Country,
		Nationality:  d.Nationality,
		DateJoined:   parseUTC(d.DateJoinedUTC),
		StreamURL:    d.StreamURL,
		DiscordID:    string(d.DiscordID),
		DiscordTag:   d.DiscordTag,
		IsTerminated: d.IsTerminated,
	}
}

func (m mapper) gameRef(d gameRefDTO) domain.GameRef {
	return domain.GameRef{
		ID:        string(d.GameID),
		Name:      d.GameName,
		ShortName: ShortName(d.GameName),
		URL:       m.abs(d.URL),
	}
}

func (m mapper) player(d playerDetailedDTO) domain.Player {
	tg := d.ThisGame
	return domain.Player{
		ID:       string(tg.PlayerID),
		Name:     tg.PlayerName,
		LogoURL:  m.abs(tg.UserLogo),
		Game:     m.gameRef(tg.Game),
		User:     m.user(d.User),
		TeamID:   string(tg.TeamID),
		TeamName: tg.TeamName,
	}
}

func (m mapper) season(d seasonDTO) domain.Season {
	return domain.Season{
		ID:                string(d.SeasonID),
		Name:              d.SeasonName,
		IsCurrent:         d.IsCurrent,
		Start:             parseUTC(d.DateStartUTC),
		End:               parseUTC(d.DateEndUTC),
		ChampionshipStart: parseUTC(d.DateChampionshipStartUTC),
		ChampionshipURL:   m.abs(d.ChampionshipURL),
	}
}

func (m mapper) game(d gameDTO) domain.Game {
	g := d.Game
	url := g.URLComplete
	if url == "" {
		url = m.abs(g.URL)
	}
	out := domain.Game{
		GameRef: domain.GameRef{
			ID:        string(g.GameID),
			Name:      g.GameName,
			ShortName: ShortName(g.GameName),
			URL:       url,
		},
		TeamMode:       g.TeamMode,
		MatchMode:      g.MatchMode,
		HasSubstitutes: g.HasSubstitutes,
		HasTies:        g.HasTies,
		HasCasters:     g.HasCasters,
		HasCameraman:   g.HasCameraman,
		YouTubeURL:     g.YouTube,
		TwitterURL:     prefixed("https://twitter.com/", g.Twitter),
		RedditURL:      prefixed("https://www.reddit.com/r/", g.Reddit),
		FacebookURL:    prefixed("https://www.facebook.com/", g.Facebook),
		DiscordInvite:  prefixed("https://discord.gg/", g.DiscordInvite),
		CurrentSeason:  m.season(d.Season),
	}
	for _, n := range d.NewPosts {
		post := domain.NewsPost{
			ID:            string(n.NewsID),
			Title:         n.Title,
			Author:        n.UserName,
			DateSubmitted: parseUTC(n.DateSubmittedUTC),
		}
		if url != "" && post.ID != "" {
			post.URL = url + "/News/" + post.ID
		}
		out.News = append(out.News, post)
	}
	for _, mt := range d.NextMatches {
		out.NextMatches = append(out.NextMatches, m.match(mt))
	}
	return out
}

// teamRef handles both the {teamID,teamName,teamLogo} and the search
// {id,name,image} spellings.
func (m mapper) teamRef(d teamRefDTO) domain.TeamSummary {
	t := domain.TeamSummary{ID: string(d.TeamID), Name: d.TeamName, LogoURL: d.TeamLogo}
	if t.ID == "" {
		t.ID = string(d.ID)
	}
	if t.Name == "" {
		t.Name = d.Name
	}
	if t.LogoURL == "" {
		t.LogoURL = d.Image
	}
	t.LogoURL = m.abs(t.LogoURL)
	return t
}

func discordTeamRole(id string) string {
	switch id {
	case "1":
		return "Captain"
	case "2":
		return "Co-Captain"
	default:
		return ""
	}
}

func (m mapper) teamPlayer(d teamPlayerDTO) domain.TeamPlayer {
	return domain.TeamPlayer{
		ID:              string(d.PlayerID),
		Name:            d.PlayerName,
		LogoURL:         m.abs(d.UserLogo),
		Country:         d.Country,
		Nationality:     d.Nationality,
		Role:            d.Role,
		IsTeamOwner:     d.IsTeamOwner,
		IsTeamStarter:   d.IsTeamStarter,
		IsCooldown:      d.IsCooldown,
		CooldownNote:    d.CooldownNote,
		CooldownExpires: parseUTC(d.CooldownDateExpiresUTC),
		DiscordRole:     discordTeamRole(string(d.DiscordTeamRole)),
	}
}

func (m mapper) team(d teamDTO) domain.Team {
	t := d.Team
	out := domain.Team{
		TeamSummary: domain.TeamSummary{
			ID:      string(t.TeamID),
			Name:    t.TeamName,
			LogoURL: m.abs(t.TeamLogo),
		},
		GameName:      t.GameName,
		Region:        t.Region,
		Division:      t.DivisionName,
		DivisionLogo:  m.abs(t.DivisionLogo),
		FanartURL:     m.abs(t.Fanart),
		Bio:           t.Bio.BioInfo,
		DiscordInvite: t.Bio.DiscordInvite,
		GamesPlayed:   t.GP,
		Wins:          t.W,
		Ties:          t.T,
		Losses:        t.L,
		Points:        t.Pts,
		PlusMinus:     t.PlusMinus,
		MMR:           int(math.Round(t.MMR)),
		RankRegional:  t.Rank,
		RankWorldwide: t.RankWorldwide,
		IsActive:      t.IsActive,
		IsRetired:     t.IsRetired,
		IsRecruiting:  t.IsRecruiting,
		Season:        m.season(d.Season),
	}
	for _, p := range t.Players {
		out.Players = append(out.Players, m.teamPlayer(p))
	}
	for _, p := range d.ExMembers {
		out.ExMembers = append(out.ExMembers, m.teamPlayer(p))
	}
	for _, mt := range t.UpcomingMatches {
		out.UpcomingMatches = append(out.UpcomingMatches, m.match(mt))
	}
	for _, mt := range d.SeasonMatches {
		out.SeasonMatches = append(out.SeasonMatches, m.match(mt))
	}
	for _, s := range d.SeasonStatsMaps {
		out.MapStats = append(out.MapStats, domain.MapStats{
			Map:                 s.MapName,
			Played:              s.Played,
			Won:                 s.Win,
			WinPercentage:       s.WinPercentage,
			RoundsPlayed:        s.RoundsPlayed,
			RoundsWinPercentage: s.RoundsWinPercentage,
		})
	}
	return out
}

func (m mapper) match(d matchDTO) domain.Match {
	return domain.Match{
		ID:            string(d.MatchID),
		SeasonName:    d.SeasonName,
		Week:          d.Week,
		HomeTeam:      m.teamRef(d.HomeTeam),
		AwayTeam:      m.teamRef(d.AwayTeam),
		HomeScore:     d.HomeScore,
		AwayScore:     d.AwayScore,
		WinningTeamID: string(d.WinningTeamID),
		LosingTeamID:  string(d.LosingTeamID),
		IsTie:         d.IsTie,
		IsForfeit:     d.IsForfeit,
		IsScheduled:   d.IsScheduled,
		IsChallenge:   d.IsChallenge,
		IsCup:         d.IsCup,
		DateScheduled: parseUTC(d.DateScheduledUTC),
		VODURL:        d.VODURL,
		CasterName:    d.CastingInfo.Caster,
		ChannelURL:    d.CastingInfo.ChannelURL,
	}
}
