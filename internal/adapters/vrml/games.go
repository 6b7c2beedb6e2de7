package vrml

import "strings"

// SupportedGame pairs the display name with the short name used in routes.
type SupportedGame struct {
	Name  string
	Short string
}

// Games is every league game, in the order refresh cycles walk them.
var Games = []SupportedGame{
	{Name: "Archangel: Hellfire", Short: "ArchangelHellfire"},
	{Name: "Blaston", Short: "Blaston"},
	{Name: "Contractors", Short: "Contractors"},
	{Name: "Echo Arena", Short: "EchoArena"},
	{Name: "Final Assault", Short: "FinalAssault"},
	{Name: "Onward", Short: "Onward"},
	{Name: "Pavlov PC only", Short: "PavlovPC"},
	{Name: "Pavlov PS5/PC", Short: "Pavlov"},
	{Name: "Snapshot", Short: "Snapshot"},
	{Name: "Space Junkies", Short: "SpaceJunkies"},
	{Name: "Ultimechs", Short: "Ultimechs"},
}

// ShortName maps a display name to its route name. Unknown names are
// returned with whitespace removed.
func ShortName(name string) string {
	for _, g := range Games {
		if strings.EqualFold(g.Name, name) || strings.EqualFold(g.Short, name) {
			return g.Short
		}
	}
	return strings.Join(strings.Fields(name), "")
}

// LookupGame finds a supported game by display or short name.
func LookupGame(name string) (SupportedGame, bool) {
	name = strings.TrimSpace(name)
	for _, g := range Games {
		if strings.EqualFold(g.Name, name) || strings.EqualFold(g.Short, name) {
			return g, true
		}
	}
	return SupportedGame{}, false
}
