package vrml

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rosterHandler serves total players in pages of perPage under /{game}/Players.
// Positions listed in failAt answer 500.
func rosterHandler(t *testing.T, total, perPage int, failAt map[int]bool) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Onward/Players" {
			http.NotFound(w, r)
			return
		}
		pos, err := strconv.Atoi(r.URL.Query().Get("posMin"))
		if err != nil {
			t.Errorf("bad posMin %q", r.URL.RawQuery)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if failAt[pos] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		players := []map[string]any{}
		for i := pos; i < pos+perPage && i <= total; i++ {
			players = append(players, map[string]any{
				"pos":        i,
				"playerID":   fmt.Sprintf("p%d", i),
				"playerName": fmt.Sprintf("Player %d", i),
				"teamID":     "t1",
				"teamName":   "Team One",
				"userLogo":   "/images/p.png",
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"players":   players,
			"total":     total,
			"pos":       pos,
			"posMin":    pos,
			"nbPerPage": perPage,
		})
	}
}

func TestFetchFullRoster_PageOrder(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, rosterHandler(t, 250, 100, nil), WithPageConcurrency(3))

	players, err := c.FetchFullRoster(context.Background(), "Onward")
	require.NoError(t, err)
	require.Len(t, players, 250)
	for i, p := range players {
		assert.Equal(t, fmt.Sprintf("p%d", i+1), p.ID)
	}
	assert.Equal(t, "https://site.test/images/p.png", players[0].LogoURL)
	assert.Equal(t, "Team One", players[0].TeamName)
}

func TestFetchFullRoster_SkipsFailedPage(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, rosterHandler(t, 250, 100, map[int]bool{101: true}), WithMaxAttempts(2))

	players, err := c.FetchFullRoster(context.Background(), "Onward")
	require.Error(t, err)
	assert.True(t, IsRetriesExhausted(err))
	require.Len(t, players, 150)
	assert.Equal(t, "p100", players[99].ID)
	assert.Equal(t, "p201", players[100].ID)
}

func TestFetchFullRoster_FirstPageFailure(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, rosterHandler(t, 250, 100, map[int]bool{1: true}), WithMaxAttempts(1))

	players, err := c.FetchFullRoster(context.Background(), "Onward")
	require.Error(t, err)
	assert.Nil(t, players)
}

func TestPageOffsets(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{101, 201}, pageOffsets(1, 250, 100))
	assert.Equal(t, []int{101}, pageOffsets(1, 101, 100))
	assert.Nil(t, pageOffsets(1, 100, 100))
	assert.Nil(t, pageOffsets(1, 0, 100))
	assert.Nil(t, pageOffsets(1, 50, 0))
}
