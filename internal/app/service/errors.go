package service

import (
	crerr "github.com/cockroachdb/errors"

	"github.com/vrml-tools/vrml-bot/internal/adapters/vrml"
)

const (
	MsgLeagueUnavailable = "The VRML website is temporarily overloaded and did not answer. Please try again in a few minutes."
	MsgGenericFailure    = "Something went wrong. Please try again later, and report a bug if it keeps happening."
)

// UserMessage turns a command failure into what the user gets to read.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case vrml.IsServiceUnavailable(err):
		return MsgLeagueUnavailable
	case crerr.Is(err, ErrUnknownGame):
		return "I don't know that game. Pick one from the list."
	case crerr.Is(err, ErrNoGame):
		return "Please pick a game, or ask an admin to set a default one with `/settings default_game`."
	default:
		return MsgGenericFailure
	}
}
