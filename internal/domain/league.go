package domain

import "time"

// GameRef is the compact game shape embedded in other payloads.
type GameRef struct {
	ID        string
	Name      string
	ShortName string
	URL       string
}

type Season struct {
	ID                string
	Name              string
	IsCurrent         bool
	Start             *time.Time
	End               *time.Time
	ChampionshipStart *time.Time
	ChampionshipURL   string
}

// Game is the full record served by the game summary endpoint.
type Game struct {
	GameRef
	TeamMode       string
	MatchMode      string
	HasSubstitutes bool
	HasTies        bool
	HasCasters     bool
	HasCameraman   bool

	YouTubeURL    string
	TwitterURL    string
	RedditURL     string
	FacebookURL   string
	DiscordInvite string
	CurrentSeason Season
	News          []NewsPost
	NextMatches   []Match
}

type NewsPost struct {
	ID            string
	Title         string
	Author        string
	DateSubmitted *time.Time
	URL           string
}

// User is the league account, including the linked Discord identity if any.
type User struct {
	ID           string
	Name         string
	LogoURL      string
	Country      string
	Nationality  string
	DateJoined   *time.Time
	StreamURL    string
	DiscordID    string
	DiscordTag   string
	IsTerminated bool
}

// HasDiscord reports whether the account carries a Discord identity.
func (u User) HasDiscord() bool { return u.DiscordID != "" }

// PlayerSummary is what search and roster listings return. Team fields are
// only filled by roster pages.
type PlayerSummary struct {
	ID       string
	Name     string
	LogoURL  string
	TeamID   string
	TeamName string
}

// Player is the detailed record for one player in one game.
type Player struct {
	ID       string
	Name     string
	LogoURL  string
	Game     GameRef
	User     User
	TeamID   string
	TeamName string
}

type TeamSummary struct {
	ID      string
	Name    string
	LogoURL string
}

type TeamPlayer struct {
	ID              string
	Name            string
	LogoURL         string
	Country         string
	Nationality     string
	Role            string
	IsTeamOwner     bool
	IsTeamStarter   bool
	IsCooldown      bool
	CooldownNote    string
	CooldownExpires *time.Time
	DiscordRole     string
}

type MapStats struct {
	Map                 string
	Played              int
	Won                 int
	WinPercentage       float64
	RoundsPlayed        int
	RoundsWinPercentage float64
}

type Team struct {
	TeamSummary
	GameName      string
	Region        string
	Division      string
	DivisionLogo  string
	FanartURL     string
	Bio           string
	DiscordInvite string

	GamesPlayed   int
	Wins          int
	Ties          int
	Losses        int
	Points        int
	PlusMinus     int
	MMR           int
	RankRegional  int
	RankWorldwide int

	IsActive     bool
	IsRetired    bool
	IsRecruiting bool

	Season          Season
	Players         []TeamPlayer
	ExMembers       []TeamPlayer
	UpcomingMatches []Match
	SeasonMatches   []Match
	MapStats        []MapStats
}

type Match struct {
	ID            string
	SeasonName    string
	Week          int
	HomeTeam      TeamSummary
	AwayTeam      TeamSummary
	HomeScore     int
	AwayScore     int
	WinningTeamID string
	LosingTeamID  string
	IsTie         bool
	IsForfeit     bool
	IsScheduled   bool
	IsChallenge   bool
	IsCup         bool
	DateScheduled *time.Time
	VODURL        string
	CasterName    string
	ChannelURL    string
}

// MatchSet is one played map/round of a match.
type MatchSet struct {
	MapName   string
	HomeScore int
	AwayScore int
}
