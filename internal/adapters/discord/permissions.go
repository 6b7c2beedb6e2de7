package discord

import "github.com/bwmarrin/discordgo"

// isOperator reports whether userID runs this bot instance.
func (r *Router) isOperator(userID string) bool {
	return r.operatorID != "" && userID == r.operatorID
}

// requireGuildAdmin lets the guild owner, members with Administrator or
// Manage Server, and the bot operator through. Everyone else gets a reply.
func (r *Router) requireGuildAdmin(ic *discordgo.InteractionCreate) bool {
	u := interactionUser(ic)
	if u != nil && r.isOperator(u.ID) {
		return true
	}
	if ic.GuildID == "" || ic.Member == nil {
		r.replyEphemeral(ic, "This only works inside a server.")
		return false
	}

	// Owner
	if g, _ := r.s.State.Guild(ic.GuildID); g != nil && u != nil && u.ID == g.OwnerID {
		return true
	}

	// Interactions carry the member's resolved permissions
	const manage = discordgo.PermissionAdministrator | discordgo.PermissionManageGuild
	if ic.Member.Permissions&manage != 0 {
		return true
	}

	r.replyEphemeral(ic, "🔒 You need the Manage Server permission for this.")
	return false
}

func (r *Router) requireOperator(ic *discordgo.InteractionCreate) bool {
	if u := interactionUser(ic); u != nil && r.isOperator(u.ID) {
		return true
	}
	r.replyEphemeral(ic, "🔒 Only the bot operator can do this.")
	return false
}
