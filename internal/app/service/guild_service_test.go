package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildService_SetDefaultGame(t *testing.T) {
	t.Parallel()

	repo := fakeGuilds{}
	s := NewGuildService(repo)

	msg, err := s.Show("g1")
	require.NoError(t, err)
	assert.Contains(t, msg, "not set")

	msg, err = s.SetDefaultGame("g1", "echoarena")
	require.NoError(t, err)
	assert.Contains(t, msg, "Echo Arena")
	assert.Equal(t, "Echo Arena", repo["g1"])

	_, err = s.SetDefaultGame("g1", "Tetris")
	assert.ErrorIs(t, err, ErrUnknownGame)
	assert.Equal(t, "Echo Arena", repo["g1"])
}
