package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"tmengine/internal/engine"
)

type command struct {
	name    string
	args    string
	help    string
	minArgs int
	// action builds the engine action. Commands without one are handled by
	// the session itself.
	action func(args []string) (engine.Action, error)
}

var commands = []command{
	{name: "place", args: "<hex>", help: "place a starting dwelling", minArgs: 1, action: func(a []string) (engine.Action, error) {
		return engine.Action{Type: engine.ActionPlaceDwelling, Position: a[0]}, nil
	}},
	{name: "pick", args: "<card>", help: "take a bonus card during setup", minArgs: 1, action: func(a []string) (engine.Action, error) {
		i, err := cardIndex(a[0])
		return engine.Action{Type: engine.ActionPickBonus, Index: i}, err
	}},
	{name: "build", args: "<hex>", help: "terraform if needed and build a dwelling", minArgs: 1, action: func(a []string) (engine.Action, error) {
		return engine.Action{Type: engine.ActionBuild, Position: a[0]}, nil
	}},
	{name: "upgrade", args: "<hex> <structure>", help: "upgrade a structure (TP, TE, SH, SA)", minArgs: 2, action: func(a []string) (engine.Action, error) {
		s, ok := engine.ParseStructure(strings.Join(a[1:], ""))
		if !ok {
			return engine.Action{}, fmt.Errorf("unknown structure %q", strings.Join(a[1:], " "))
		}
		return engine.Action{Type: engine.ActionUpgrade, Position: a[0], Structure: s}, nil
	}},
	{name: "priest", args: "<track>", help: "send a priest to a cult track", minArgs: 1, action: func(a []string) (engine.Action, error) {
		t, err := cultTrack(a[0])
		return engine.Action{Type: engine.ActionSendPriest, Track: t}, err
	}},
	{name: "burn", args: "<power>", help: "spend power from bowl III for coins", minArgs: 1, action: func(a []string) (engine.Action, error) {
		n, err := strconv.Atoi(a[0])
		if err != nil {
			return engine.Action{}, fmt.Errorf("burn: %q is not a number", a[0])
		}
		return engine.Action{Type: engine.ActionBurnPower, Amount: n}, nil
	}},
	{name: "town", args: "<hex> <key>", help: "found a town and take a town key", minArgs: 2, action: func(a []string) (engine.Action, error) {
		k, err := townKey(a[1])
		return engine.Action{Type: engine.ActionFoundTown, Position: a[0], TownKey: k}, err
	}},
	{name: "pass", args: "[card]", help: "end your round, taking a new bonus card", action: func(a []string) (engine.Action, error) {
		if len(a) == 0 {
			return engine.Action{Type: engine.ActionPass}, nil
		}
		i, err := cardIndex(a[0])
		return engine.Action{Type: engine.ActionPass, Index: i}, err
	}},
	{name: "show", help: "show the table"},
	{name: "scores", help: "show the current standings"},
	{name: "save", help: "write a snapshot"},
	{name: "help", help: "list commands"},
	{name: "quit", help: "leave the session"},
}

func lookupCommand(word string) (command, bool) {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}
	name, ok := closest(word, names)
	if !ok {
		return command{}, false
	}
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// closest resolves word against candidates: an exact match first, then a
// unique prefix, then the nearest candidate by edit distance.
func closest(word string, candidates []string) (string, bool) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return "", false
	}
	var prefixed []string
	for _, c := range candidates {
		lc := strings.ToLower(c)
		if lc == word {
			return c, true
		}
		if strings.HasPrefix(lc, word) {
			prefixed = append(prefixed, c)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0], true
	}
	if len(word) < 3 {
		return "", false
	}

	type scored struct {
		name string
		dist int
	}
	var hits []scored
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(word, strings.ToLower(c))
		if d <= distanceLimit(len(c)) {
			hits = append(hits, scored{c, d})
		}
	}
	if len(hits) == 0 {
		return "", false
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })
	if len(hits) > 1 && hits[0].dist == hits[1].dist {
		return "", false
	}
	return hits[0].name, true
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// cardIndex turns the 1-based card number shown to players into a pool
// index.
func cardIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not a card number", s)
	}
	return n - 1, nil
}

func cultTrack(s string) (engine.CultTrack, error) {
	var names []string
	for _, t := range engine.AllCultTracks() {
		names = append(names, t.String())
	}
	if name, ok := closest(s, names); ok {
		t, _ := engine.ParseCultTrack(name)
		return t, nil
	}
	return 0, fmt.Errorf("unknown cult track %q, want one of %s", s, strings.Join(names, ", "))
}

func townKey(s string) (engine.TownKey, error) {
	var names []string
	for _, k := range engine.AllTownKeys() {
		names = append(names, k.String())
	}
	if name, ok := closest(s, names); ok {
		k, _ := engine.ParseTownKey(name)
		return k, nil
	}
	return 0, fmt.Errorf("unknown town key %q, want one of %s", s, strings.Join(names, ", "))
}
