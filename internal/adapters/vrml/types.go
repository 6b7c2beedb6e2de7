package vrml

import (
	"bytes"
	"strconv"
)

// flexString accepts a JSON string, number or null. The API is not
// consistent about how it serializes ids.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

// --- Players ---
type playerSearchDTO struct {
	ID    flexString `json:"id"`
	Name  string     `json:"name"`
	Image string     `json:"image"`
}

type userDTO struct {
	UserID        flexString `json:"userID"`
	UserName      string     `json:"userName"`
	UserLogo      string     `json:"userLogo"`
	Country       string     `json:"country"`
	Nationality   string     `json:"nationality"`
	DateJoinedUTC string     `json:"dateJoinedUTC"`
	StreamURL     string     `json:"streamUrl"`
	DiscordID     flexString `json:"discordID"`
	DiscordTag    string     `json:"discordTag"`
	IsTerminated  bool       `json:"isTerminated"`
}

type gameRefDTO struct {
	GameID   flexString `json:"gameID"`
	GameName string     `json:"gameName"`
	URL      string     `json:"url"`
}

type playerDetailedDTO struct {
	User     userDTO `json:"user"`
	ThisGame struct {
		PlayerID   flexString `json:"playerID"`
		PlayerName string     `json:"playerName"`
		UserLogo   string     `json:"userLogo"`
		Game       gameRefDTO `json:"game"`
		TeamID     flexString `json:"teamID"`
		TeamName   string     `json:"teamName"`
	} `json:"thisGame"`
}

// --- Roster pages (/{game}/Players) ---
type rosterPageDTO struct {
	Season struct {
		GameName     string     `json:"gameName"`
		GameURLShort string     `json:"gameUrlShort"`
		SeasonID     flexString `json:"seasonID"`
		SeasonName   string     `json:"seasonName"`
	} `json:"season"`
	Players   []rosterPlayerDTO `json:"players"`
	Total     int               `json:"total"`
	Pos       int               `json:"pos"`
	PosMin    int               `json:"posMin"`
	NbPerPage int               `json:"nbPerPage"`
}

type rosterPlayerDTO struct {
	Pos        int        `json:"pos"`
	PlayerID   flexString `json:"playerID"`
	UserID     flexString `json:"userID"`
	PlayerName string     `json:"playerName"`
	UserLogo   string     `json:"userLogo"`
	TeamID     flexString `json:"teamID"`
	TeamName   string     `json:"teamName"`
}

// --- Games ---
type seasonDTO struct {
	SeasonID                 flexString `json:"seasonID"`
	SeasonName               string     `json:"seasonName"`
	IsCurrent                bool       `json:"isCurrent"`
	ChampionshipURL          string     `json:"championshipUrl"`
	DateStartUTC             string     `json:"dateStartUTC"`
	DateEndUTC               string     `json:"dateEndUTC"`
	DateChampionshipStartUTC string     `json:"dateChampionshipStartUTC"`
}

type newsPostDTO struct {
	NewsID           flexString `json:"newsID"`
	Title            string     `json:"title"`
	UserName         string     `json:"userName"`
	DateSubmittedUTC string     `json:"dateSubmittedUTC"`
}

type gameDTO struct {
	Game struct {
		GameID         flexString `json:"gameID"`
		GameName       string     `json:"gameName"`
		URL            string     `json:"url"`
		URLComplete    string     `json:"urlComplete"`
		TeamMode       string     `json:"teamMode"`
		MatchMode      string     `json:"matchMode"`
		HasSubstitutes bool       `json:"hasSubstitutes"`
		HasTies        bool       `json:"hasTies"`
		HasCasters     bool       `json:"hasCasters"`
		HasCameraman   bool       `json:"hasCameraman"`
		YouTube        string     `json:"youtube"`
		Twitter        string     `json:"twitter"`
		Reddit         string     `json:"reddit"`
		Facebook       string     `json:"facebook"`
		DiscordInvite  string     `json:"discordInvite"`
	} `json:"game"`
	Season      seasonDTO     `json:"season"`
	NewPosts    []newsPostDTO `json:"newPosts"`
	NextMatches []matchDTO    `json:"nextMatches"`
}

// --- Teams ---
type teamRefDTO struct {
	TeamID   flexString `json:"teamID"`
	TeamName string     `json:"teamName"`
	TeamLogo string     `json:"teamLogo"`
	ID       flexString `json:"id"`
	Name     string     `json:"name"`
	Image    string     `json:"image"`
}

type teamPlayerDTO struct {
	PlayerID               flexString `json:"playerID"`
	PlayerName             string     `json:"playerName"`
	UserLogo               string     `json:"userLogo"`
	Country                string     `json:"country"`
	Nationality            string     `json:"nationality"`
	Role                   string     `json:"role"`
	IsTeamOwner            bool       `json:"isTeamOwner"`
	IsTeamStarter          bool       `json:"isTeamStarter"`
	IsCooldown             bool       `json:"isCooldown"`
	CooldownNote           string     `json:"cooldownNote"`
	CooldownDateExpiresUTC string     `json:"cooldownDateExpiresUTC"`
	DiscordTeamRole        flexString `json:"discordTeamRole"`
}

type mapStatsDTO struct {
	MapName             string  `json:"mapName"`
	Played              int     `json:"played"`
	Win                 int     `json:"win"`
	WinPercentage       float64 `json:"winPercentage"`
	RoundsPlayed        int     `json:"roundsPlayed"`
	RoundsWinPercentage float64 `json:"roundsWinPercentage"`
}

type teamDTO struct {
	Team struct {
		TeamID        flexString      `json:"teamID"`
		TeamName      string          `json:"teamName"`
		TeamLogo      string          `json:"teamLogo"`
		Region        string          `json:"region"`
		Fanart        string          `json:"fanart"`
		GameName      string          `json:"gameName"`
		DivisionName  string          `json:"divisionName"`
		DivisionLogo  string          `json:"divisionLogo"`
		GP            int             `json:"gp"`
		W             int             `json:"w"`
		T             int             `json:"t"`
		L             int             `json:"l"`
		Pts           int             `json:"pts"`
		PlusMinus     int             `json:"plusMinus"`
		MMR           float64         `json:"mmr"`
		Rank          int             `json:"rank"`
		RankWorldwide int             `json:"rankWorldwide"`
		IsActive      bool            `json:"isActive"`
		IsRetired     bool            `json:"isRetired"`
		IsRecruiting  bool            `json:"isRecruiting"`
		Players       []teamPlayerDTO `json:"players"`
		Bio           struct {
			BioInfo       string `json:"bioInfo"`
			DiscordInvite string `json:"discordInvite"`
		} `json:"bio"`
		UpcomingMatches []matchDTO `json:"upcomingMatches"`
	} `json:"team"`
	Season          seasonDTO       `json:"season"`
	SeasonStatsMaps []mapStatsDTO   `json:"seasonStatsMaps"`
	SeasonMatches   []matchDTO      `json:"seasonMatches"`
	ExMembers       []teamPlayerDTO `json:"exMembers"`
}

// --- Matches ---
type matchDTO struct {
	MatchID          flexString `json:"matchID"`
	SeasonName       string     `json:"seasonName"`
	Week             int        `json:"week"`
	WinningTeamID    flexString `json:"winningTeamID"`
	LosingTeamID     flexString `json:"losingTeamID"`
	HomeScore        int        `json:"homeScore"`
	AwayScore        int        `json:"awayScore"`
	IsTie            bool       `json:"isTie"`
	IsForfeit        bool       `json:"isForfeit"`
	IsScheduled      bool       `json:"isScheduled"`
	IsChallenge      bool       `json:"isChallenge"`
	IsCup            bool       `json:"isCup"`
	DateScheduledUTC string     `json:"dateScheduledUTC"`
	VODURL           string     `json:"vodUrl"`
	HomeTeam         teamRefDTO `json:"homeTeam"`
	AwayTeam         teamRefDTO `json:"awayTeam"`
	CastingInfo      struct {
		Caster     string `json:"caster"`
		ChannelURL string `json:"channelURL"`
	} `json:"castingInfo"`
}

type matchSetDTO struct {
	MapName   string `json:"mapName"`
	HomeScore int    `json:"homeScore"`
	AwayScore int    `json:"awayScore"`
}
