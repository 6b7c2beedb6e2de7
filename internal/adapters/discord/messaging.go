package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// codeUnknownWebhook comes back on a followup when the deferral never landed.
const codeUnknownWebhook = 10015

// interactions is the part of *discordgo.Session that answers commands.
type interactions interface {
	InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(i *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// deferReply acknowledges the interaction so handlers can take longer than
// three seconds. Ephemeral deferrals make every followup ephemeral too.
func (r *Router) deferReply(ic *discordgo.InteractionCreate, ephemeral bool) error {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := r.ix.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: flags},
	})
	if err != nil {
		r.log.Warn("defer failed", zap.String("interaction", ic.ID), zap.Error(err))
	}
	return err
}

func (r *Router) reply(ic *discordgo.InteractionCreate, content string, embeds ...*discordgo.MessageEmbed) {
	r.followup(ic, content, 0, embeds)
}

// replyEphemeral only hides the message when it is not the first answer to
// a public deferral; Discord gives the first followup the deferral's flags.
func (r *Router) replyEphemeral(ic *discordgo.InteractionCreate, content string, embeds ...*discordgo.MessageEmbed) {
	r.followup(ic, content, discordgo.MessageFlagsEphemeral, embeds)
}

func (r *Router) followup(ic *discordgo.InteractionCreate, content string, flags discordgo.MessageFlags, embeds []*discordgo.MessageEmbed) {
	_, err := r.ix.FollowupMessageCreate(ic.Interaction, true, &discordgo.WebhookParams{
		Content:         content,
		Embeds:          embeds,
		Flags:           flags,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	})
	if err == nil {
		return
	}

	// Fallback only while there is no response yet (unknown webhook)
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Message != nil && rest.Message.Code == codeUnknownWebhook {
		err = r.ix.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: content,
				Embeds:  embeds,
				Flags:   flags,
			},
		})
		if err == nil {
			return
		}
	}
	r.log.Warn("reply failed", zap.String("interaction", ic.ID), zap.Error(err))
}

// replyEmbeds sends embeds in as many messages as Discord's per-message
// limit requires; content goes on the first one.
func (r *Router) replyEmbeds(ic *discordgo.InteractionCreate, content string, embeds []*discordgo.MessageEmbed) {
	chunks := chunkEmbeds(embeds)
	if len(chunks) == 0 {
		r.reply(ic, content)
		return
	}
	for i, chunk := range chunks {
		if i > 0 {
			content = ""
		}
		r.reply(ic, content, chunk...)
	}
}
