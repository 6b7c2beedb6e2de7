package vrml

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutesBuild_EscapesUserText(t *testing.T) {
	t.Parallel()

	routes := Routes{Base: "https://api.example.test"}
	q := url.Values{}
	q.Set("name", "Foo Bar")
	r := routes.Build(http.MethodGet, routeTeamSearch, Params{"game": "EchoArena"}).WithQuery(q)

	assert.Equal(t, "https://api.example.test/EchoArena/Teams/Search?name=Foo%20Bar", r.URL())
	assert.Equal(t, "GET https://api.example.test/EchoArena/Teams/Search?name=Foo%20Bar", r.String())

	evil := routes.Build(http.MethodGet, routeTeam, Params{"teamID": "../Players/1?x=#y"})
	assert.Equal(t, "/Teams/..%2FPlayers%2F1%3Fx=%23y", evil.Path)
	assert.False(t, strings.Contains(strings.TrimPrefix(evil.Path, "/Teams/"), "/"))
}

func TestRoutesBuild_NumericVerbatim(t *testing.T) {
	t.Parallel()

	r := Routes{}.Build(http.MethodGet, routeMatchSets, Params{"matchID": 12345})
	assert.Equal(t, "/Matches/12345/Sets", r.Path)
	assert.Equal(t, "/Matches/12345/Sets", r.URL())
}

func TestRoutesBuild_PlusInQueryStaysEncoded(t *testing.T) {
	t.Parallel()

	q := url.Values{}
	q.Set("name", "a+b c")
	r := Routes{}.Build(http.MethodGet, routePlayerSearch, nil).WithQuery(q)
	assert.Equal(t, "name=a%2Bb%20c", r.RawQuery())
}

func TestRoutesBuild_MissingParamPanics(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		Routes{}.Build(http.MethodGet, routePlayerDetailed, Params{})
	})
}

func TestRouteWithQuery_Copies(t *testing.T) {
	t.Parallel()

	q := url.Values{}
	q.Set("posMin", "1")
	r := Routes{}.Build(http.MethodGet, routeGamePlayers, Params{"game": "Onward"}).WithQuery(q)
	q.Set("posMin", "101")

	assert.Equal(t, "posMin=1", r.RawQuery())
}
