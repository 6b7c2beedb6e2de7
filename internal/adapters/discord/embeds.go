package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/vrml-tools/vrml-bot/internal/domain"
)

const colorVRML = 0x1f8b4c

func thumbnail(url string) *discordgo.MessageEmbedThumbnail {
	if url == "" {
		return nil
	}
	return &discordgo.MessageEmbedThumbnail{URL: url}
}

func field(name, value string, inline bool) *discordgo.MessageEmbedField {
	if value == "" {
		value = "-"
	}
	return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: inline}
}

func playerEmbed(p domain.Player) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:     "`" + p.Name + "`",
		Color:     colorVRML,
		Thumbnail: thumbnail(p.LogoURL),
	}
	if p.User.DiscordTag != "" {
		e.Description = "`" + p.User.DiscordTag + "`"
	}
	e.Fields = append(e.Fields, field("Game", escapeMarkdown(p.Game.Name), true))
	if p.TeamName != "" {
		e.Fields = append(e.Fields, field("Team", escapeMarkdown(p.TeamName), true))
	}
	if p.User.Country != "" {
		e.Fields = append(e.Fields, field("Country", p.User.Country, true))
	}
	return e
}

func gameEmbed(g domain.Game) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       g.Name,
		URL:         g.URL,
		Color:       colorVRML,
		Description: fmt.Sprintf("%s (%s) can be found here: <%s>", g.Name, g.ID, g.URL),
	}
	if s := g.CurrentSeason; s.Name != "" {
		e.Fields = append(e.Fields, field("Season", s.Name, true))
		if s.End != nil {
			e.Fields = append(e.Fields, field("Season ends", fmt.Sprintf("<t:%d:D>", s.End.Unix()), true))
		}
	}

	var links []string
	for _, l := range []struct{ name, url string }{
		{"Discord", g.DiscordInvite},
		{"YouTube", g.YouTubeURL},
		{"Twitter", g.TwitterURL},
		{"Reddit", g.RedditURL},
		{"Facebook", g.FacebookURL},
	} {
		if l.url != "" {
			links = append(links, fmt.Sprintf("[%s](%s)", l.name, l.url))
		}
	}
	if len(links) > 0 {
		e.Fields = append(e.Fields, field("Links", strings.Join(links, " · "), false))
	}

	if len(g.News) > 0 {
		var b strings.Builder
		for i, n := range g.News {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "• [%s](%s)\n", escapeMarkdown(n.Title), n.URL)
		}
		e.Fields = append(e.Fields, field("News", b.String(), false))
	}
	if len(g.NextMatches) > 0 {
		e.Fields = append(e.Fields, field("Next matches", matchLines(g.NextMatches, 5), false))
	}
	return e
}

func matchLines(ms []domain.Match, limit int) string {
	var b strings.Builder
	for i, m := range ms {
		if i == limit {
			break
		}
		when := "TBD"
		if m.DateScheduled != nil {
			when = fmt.Sprintf("<t:%d:f>", m.DateScheduled.Unix())
		}
		fmt.Fprintf(&b, "%s vs %s · %s\n", escapeMarkdown(m.HomeTeam.Name), escapeMarkdown(m.AwayTeam.Name), when)
	}
	return b.String()
}

func teamListEmbed(game string, teams []domain.TeamSummary) *discordgo.MessageEmbed {
	var b strings.Builder
	for i, t := range teams {
		if i == 25 {
			fmt.Fprintf(&b, "…and %d more", len(teams)-i)
			break
		}
		fmt.Fprintf(&b, "• %s\n", escapeMarkdown(t.Name))
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%d teams found in %s", len(teams), game),
		Color:       colorVRML,
		Description: b.String(),
	}
}

func teamEmbed(t domain.Team) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       t.Name,
		Color:       colorVRML,
		Thumbnail:   thumbnail(t.LogoURL),
		Description: escapeMarkdown(t.Bio),
	}
	if t.FanartURL != "" {
		e.Image = &discordgo.MessageEmbedImage{URL: t.FanartURL}
	}
	e.Fields = append(e.Fields,
		field("Region", t.Region, true),
		field("Division", t.Division, true),
		field("MMR", fmt.Sprintf("%d", t.MMR), true),
		field("Record", fmt.Sprintf("%dW %dT %dL", t.Wins, t.Ties, t.Losses), true),
		field("Rank", fmt.Sprintf("#%d (world #%d)", t.RankRegional, t.RankWorldwide), true),
	)

	var roster []string
	for _, p := range t.Players {
		line := escapeMarkdown(p.Name)
		if p.DiscordRole != "" {
			line += " (" + p.DiscordRole + ")"
		}
		roster = append(roster, line)
	}
	if len(roster) > 0 {
		e.Fields = append(e.Fields, field("Roster", strings.Join(roster, "\n"), false))
	}
	if len(t.UpcomingMatches) > 0 {
		e.Fields = append(e.Fields, field("Upcoming", matchLines(t.UpcomingMatches, 3), false))
	}
	return e
}

func associationsEmbed(who string, as []domain.PlayerAssociation) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title: "Teams of " + who,
		Color: colorVRML,
	}
	for _, a := range as {
		team := a.TeamName
		if team == "" {
			team = "no team"
		}
		e.Fields = append(e.Fields, field(a.GameName, fmt.Sprintf("%s · %s", escapeMarkdown(a.PlayerName), escapeMarkdown(team)), false))
	}
	return e
}
