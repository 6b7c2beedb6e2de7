package discord

import (
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vrml-tools/vrml-bot/internal/app/service"
)

type recordedFollowup struct {
	content string
	flags   discordgo.MessageFlags
}

type fakeInteractions struct {
	mu        sync.Mutex
	deferrals []discordgo.MessageFlags
	followups []recordedFollowup
}

func (f *fakeInteractions) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deferrals = append(f.deferrals, resp.Data.Flags)
	return nil
}

func (f *fakeInteractions) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followups = append(f.followups, recordedFollowup{content: data.Content, flags: data.Flags})
	return &discordgo.Message{}, nil
}

func newTestRouter(t *testing.T) (*Router, *fakeInteractions) {
	t.Helper()
	ix := &fakeInteractions{}
	return &Router{
		ix:      ix,
		league:  service.NewLeagueService(nil, nil, nil, nil),
		limiter: newUserLimiter(time.Second),
		log:     zaptest.NewLogger(t),
		timeout: time.Second,
	}, ix
}

func TestHandleSlashCommand_PublicCommandFailsPublicly(t *testing.T) {
	t.Parallel()

	r, ix := newTestRouter(t)
	r.handleSlashCommand(slash("game", strOpt("game", "Quake")))

	require.Equal(t, []discordgo.MessageFlags{0}, ix.deferrals)
	require.Len(t, ix.followups, 1)
	assert.Equal(t, service.UserMessage(service.ErrUnknownGame), ix.followups[0].content)
	assert.Zero(t, ix.followups[0].flags)
}

func TestHandleSlashCommand_MissingGame(t *testing.T) {
	t.Parallel()

	r, ix := newTestRouter(t)
	r.handleSlashCommand(slash("game"))

	require.Len(t, ix.followups, 1)
	assert.Equal(t, service.UserMessage(service.ErrNoGame), ix.followups[0].content)
	assert.Zero(t, ix.followups[0].flags)
}

func TestHandleSlashCommand_SettingsDefersEphemeral(t *testing.T) {
	t.Parallel()

	r, ix := newTestRouter(t)
	r.handleSlashCommand(slash("settings"))

	require.Equal(t, []discordgo.MessageFlags{discordgo.MessageFlagsEphemeral}, ix.deferrals)
	require.Len(t, ix.followups, 1)
	assert.Equal(t, "This only works inside a server.", ix.followups[0].content)
}
