package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/vrml-tools/vrml-bot/internal/adapters/vrml"
)

var adminPermission int64 = discordgo.PermissionAdministrator

func gameChoices() []*discordgo.ApplicationCommandOptionChoice {
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(vrml.Games))
	for _, g := range vrml.Games {
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: g.Name, Value: g.Short})
	}
	return out
}

func gameOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "game",
		Description: "Game name",
		Required:    required,
		Choices:     gameChoices(),
	}
}

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "ping",
		Description: "Check that the bot is alive",
	},
	{
		Name:        "game",
		Description: "Get general information of a game in VRML",
		Options:     []*discordgo.ApplicationCommandOption{gameOption(true)},
	},
	{
		Name:        "player",
		Description: "Search VRML players by name",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "Name of the player",
				Required:    true,
			},
			gameOption(false),
		},
	},
	{
		Name:        "team",
		Description: "Search VRML teams by name",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "Name of the team",
				Required:    true,
			},
			gameOption(false),
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "season",
				Description: "Season name, e.g. Season 5 (default: current)",
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "region",
				Description: "Region, e.g. EU or NA",
			},
		},
	},
	{
		Name:        "myteams",
		Description: "Show the VRML teams linked to a Discord account",
		Options: []*discordgo.ApplicationCommandOption{
			gameOption(false),
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Someone else (defaults to you)",
			},
		},
	},
	{
		Name:                     "settings",
		Description:              "Server settings (admins)",
		DefaultMemberPermissions: &adminPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "show", Description: "Show the settings"},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "default_game",
				Description: "Game used when a command is run without one",
				Options:     []*discordgo.ApplicationCommandOption{gameOption(true)},
			},
		},
	},
	{
		Name:                     "refresh",
		Description:              "Rebuild the Discord to player index now (bot operator)",
		DefaultMemberPermissions: &adminPermission,
	},
}
