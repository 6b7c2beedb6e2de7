package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// maxEmbeds is the most embeds Discord accepts on one message.
const maxEmbeds = 10

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"~", `\~`,
	"|", `\|`,
	">", `\>`,
	"<", `\<`,
)

// escapeMarkdown keeps user supplied names from being rendered as markup.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func options(ic *discordgo.InteractionCreate) []*discordgo.ApplicationCommandInteractionDataOption {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return nil
	}
	return ic.ApplicationCommandData().Options
}

func findOpt(ic *discordgo.InteractionCreate, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, o := range options(ic) {
		if o.Name == name {
			return o
		}
		// subcommand
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			for _, so := range o.Options {
				if so.Name == name {
					return so
				}
			}
		}
	}
	return nil
}

func optStr(ic *discordgo.InteractionCreate, name string) (string, bool) {
	o := findOpt(ic, name)
	if o == nil || o.Type != discordgo.ApplicationCommandOptionString {
		return "", false
	}
	return strings.TrimSpace(o.StringValue()), true
}

// optUserID reads a user option as an id; resolving the *User would need the
// session.
func optUserID(ic *discordgo.InteractionCreate, name string) (string, bool) {
	o := findOpt(ic, name)
	if o == nil || o.Type != discordgo.ApplicationCommandOptionUser {
		return "", false
	}
	id, ok := o.Value.(string)
	return id, ok && id != ""
}

func subcmdName(ic *discordgo.InteractionCreate) (string, bool) {
	for _, o := range options(ic) {
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			return o.Name, true
		}
	}
	return "", false
}

// interactionUser is the invoking user, in a guild or a DM.
func interactionUser(ic *discordgo.InteractionCreate) *discordgo.User {
	if ic.Member != nil && ic.Member.User != nil {
		return ic.Member.User
	}
	return ic.User
}

func chunkEmbeds(embeds []*discordgo.MessageEmbed) [][]*discordgo.MessageEmbed {
	var out [][]*discordgo.MessageEmbed
	for len(embeds) > maxEmbeds {
		out = append(out, embeds[:maxEmbeds])
		embeds = embeds[maxEmbeds:]
	}
	if len(embeds) > 0 {
		out = append(out, embeds)
	}
	return out
}
