package discord

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrml-tools/vrml-bot/internal/domain"
)

func TestPlayerEmbed(t *testing.T) {
	t.Parallel()

	e := playerEmbed(domain.Player{
		Name:     "Some_Body",
		LogoURL:  "https://vrmasterleague.com/images/logo.png",
		Game:     domain.GameRef{Name: "Echo Arena"},
		User:     domain.User{DiscordTag: "somebody#0001"},
		TeamName: "*Stars*",
	})
	assert.Equal(t, "`Some_Body`", e.Title)
	assert.Equal(t, "`somebody#0001`", e.Description)
	require.NotNil(t, e.Thumbnail)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, `\*Stars\*`, e.Fields[1].Value)
}

func TestGameEmbed(t *testing.T) {
	t.Parallel()

	end := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	e := gameEmbed(domain.Game{
		GameRef:       domain.GameRef{ID: "4", Name: "Onward", URL: "https://vrmasterleague.com/Onward"},
		CurrentSeason: domain.Season{Name: "Season 9", End: &end},
		DiscordInvite: "https://discord.gg/onward",
	})
	assert.Contains(t, e.Description, "<https://vrmasterleague.com/Onward>")
	require.Len(t, e.Fields, 3)
	assert.Equal(t, "<t:1796083200:D>", e.Fields[1].Value)
	assert.Equal(t, "[Discord](https://discord.gg/onward)", e.Fields[2].Value)
}

func TestAssociationsEmbed(t *testing.T) {
	t.Parallel()

	e := associationsEmbed("you", []domain.PlayerAssociation{{GameName: "Onward", PlayerName: "p", TeamName: ""}})
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "p · no team", e.Fields[0].Value)
}
