package discord

import (
	"bytes"
	"context"
	"net/http"

	"github.com/bwmarrin/discordgo"
	crerr "github.com/cockroachdb/errors"

	"github.com/vrml-tools/vrml-bot/internal/app/service"
)

// codeCannotDM is Discord's "Cannot send messages to this user".
const codeCannotDM = 50007

// Sink delivers service messages through a Discord session.
type Sink struct {
	s *discordgo.Session
}

func NewSink(s *discordgo.Session) *Sink { return &Sink{s: s} }

// ErrPrivateToChannel rejects a private message addressed to a channel.
var ErrPrivateToChannel = crerr.New("private message sent to a channel target")

func (k *Sink) SendMessage(ctx context.Context, to service.Target, msg service.Message) error {
	if msg.Private && to.Kind != service.TargetUser {
		return crerr.Wrapf(ErrPrivateToChannel, "target %s", to.ID)
	}
	channelID := to.ID
	if to.Kind == service.TargetUser {
		ch, err := k.s.UserChannelCreate(to.ID, discordgo.WithContext(ctx))
		if err != nil {
			return sendError(err)
		}
		channelID = ch.ID
	}

	send := &discordgo.MessageSend{
		Content:         msg.Text,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	for _, a := range msg.Attachments {
		send.Files = append(send.Files, &discordgo.File{
			Name:        a.Name,
			ContentType: a.ContentType,
			Reader:      bytes.NewReader(a.Data),
		})
	}
	_, err := k.s.ChannelMessageSendComplex(channelID, send, discordgo.WithContext(ctx))
	return sendError(err)
}

// sendError marks refusals by the recipient as service.ErrForbidden.
func sendError(err error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if crerr.As(err, &rest) {
		if (rest.Response != nil && rest.Response.StatusCode == http.StatusForbidden) ||
			(rest.Message != nil && rest.Message.Code == codeCannotDM) {
			return crerr.Mark(err, service.ErrForbidden)
		}
	}
	return crerr.Wrap(err, "discord send")
}

// GuildDirectory lists the guilds of the session's state cache.
type GuildDirectory struct {
	s *discordgo.Session
}

func NewGuildDirectory(s *discordgo.Session) *GuildDirectory { return &GuildDirectory{s: s} }

func (d *GuildDirectory) Guilds(context.Context) ([]service.GuildInfo, error) {
	if d.s.State == nil {
		return nil, crerr.New("discord state cache is disabled")
	}
	d.s.State.RLock()
	defer d.s.State.RUnlock()

	out := make([]service.GuildInfo, 0, len(d.s.State.Guilds))
	for _, g := range d.s.State.Guilds {
		if g.Unavailable {
			continue
		}
		out = append(out, service.GuildInfo{
			ID:              g.ID,
			Name:            g.Name,
			OwnerID:         g.OwnerID,
			SystemChannelID: g.SystemChannelID,
		})
	}
	return out, nil
}
