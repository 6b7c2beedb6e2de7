package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slash(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{Name: name, Options: opts},
	}}
}

func strOpt(name, v string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: v}
}

func TestEscapeMarkdown(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `\*\*bold\*\* \_x\_ \~\~s\~\~`, escapeMarkdown("**bold** _x_ ~~s~~"))
	assert.Equal(t, "\\`code\\` \\|\\| \\<@1\\> \\\\", escapeMarkdown("`code` || <@1> \\"))
	assert.Equal(t, "plain name", escapeMarkdown("plain name"))
}

func TestOptions(t *testing.T) {
	t.Parallel()

	ic := slash("team", strOpt("name", "  Alpha  "), strOpt("region", "EU"),
		&discordgo.ApplicationCommandInteractionDataOption{Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: "42"})

	name, ok := optStr(ic, "name")
	require.True(t, ok)
	assert.Equal(t, "Alpha", name)

	_, ok = optStr(ic, "game")
	assert.False(t, ok)

	id, ok := optUserID(ic, "user")
	require.True(t, ok)
	assert.Equal(t, "42", id)

	_, ok = optStr(ic, "user")
	assert.False(t, ok, "type mismatch")
}

func TestSubcommandOptions(t *testing.T) {
	t.Parallel()

	ic := slash("settings", &discordgo.ApplicationCommandInteractionDataOption{
		Name:    "default_game",
		Type:    discordgo.ApplicationCommandOptionSubCommand,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{strOpt("game", "Onward")},
	})

	sub, ok := subcmdName(ic)
	require.True(t, ok)
	assert.Equal(t, "default_game", sub)

	game, ok := optStr(ic, "game")
	require.True(t, ok)
	assert.Equal(t, "Onward", game)
}

func TestInteractionUser(t *testing.T) {
	t.Parallel()

	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{User: &discordgo.User{ID: "dm"}}}
	assert.Equal(t, "dm", interactionUser(dm).ID)

	guild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Member: &discordgo.Member{User: &discordgo.User{ID: "member"}}}}
	assert.Equal(t, "member", interactionUser(guild).ID)
}

func TestChunkEmbeds(t *testing.T) {
	t.Parallel()

	embeds := make([]*discordgo.MessageEmbed, 23)
	chunks := chunkEmbeds(embeds)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 10)
	assert.Len(t, chunks[2], 3)
	assert.Empty(t, chunkEmbeds(nil))
}

func TestCommandsOfferEveryGame(t *testing.T) {
	t.Parallel()

	var game *discordgo.ApplicationCommand
	for _, c := range Commands {
		if c.Name == "game" {
			game = c
		}
	}
	require.NotNil(t, game)
	choices := game.Options[0].Choices
	require.Len(t, choices, 11)
	assert.Equal(t, "Archangel: Hellfire", choices[0].Name)
	assert.Equal(t, "ArchangelHellfire", choices[0].Value)
}
