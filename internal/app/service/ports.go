package service

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/vrml-tools/vrml-bot/internal/adapters/vrml"
	"github.com/vrml-tools/vrml-bot/internal/domain"
	"github.com/vrml-tools/vrml-bot/internal/infra/storage"
)

// Implemented by internal/adapters/vrml.Client
type LeagueAPI interface {
	SearchPlayers(ctx context.Context, name string) ([]domain.PlayerSummary, error)
	PlayerDetail(ctx context.Context, playerID string) (domain.Player, error)
	Game(ctx context.Context, short string) (domain.Game, error)
	Team(ctx context.Context, teamID string) (domain.Team, error)
	SearchTeams(ctx context.Context, s vrml.TeamSearch) ([]domain.TeamSummary, error)
}

// The subset the refresh cycle needs.
type RosterAPI interface {
	FetchFullRoster(ctx context.Context, game string) ([]domain.PlayerSummary, error)
	PlayerDetail(ctx context.Context, playerID string) (domain.Player, error)
}

// Implemented by internal/infra/storage.PlayerCache
type IndexPublisher interface {
	Publish(idx domain.PlayerIndex) error
}

type PlayerLookup interface {
	Lookup(discordID, game string) []domain.PlayerAssociation
}

// Implemented by internal/infra/storage.GuildStore
type GuildRepo interface {
	Get(guildID string) (storage.GuildSettings, error)
	SetDefaultGame(guildID, game string) (storage.GuildSettings, error)
}

type TargetKind int

const (
	// TargetChannel is a guild text channel.
	TargetChannel TargetKind = iota
	// TargetUser is a direct message to a user.
	TargetUser
)

type Target struct {
	Kind TargetKind
	ID   string
	// Label names the recipient in logs (guild name, owner tag).
	Label string
}

type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

type Message struct {
	Text        string
	Attachments []Attachment
	// Private messages may only go to a TargetUser.
	Private bool
}

// ErrForbidden is returned by a Sink when the recipient refused the message
// (blocked DMs, missing channel permission). It never aborts a batch.
var ErrForbidden = crerr.New("recipient refused the message")

// Implemented by internal/adapters/discord.Sink
type Sink interface {
	SendMessage(ctx context.Context, to Target, msg Message) error
}

type GuildInfo struct {
	ID              string
	Name            string
	OwnerID         string
	SystemChannelID string
}

// Implemented by internal/adapters/discord.GuildDirectory
type GuildDirectory interface {
	Guilds(ctx context.Context) ([]GuildInfo, error)
}
