package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/tatianab/city-survival/internal/engine"
	"github.com/tatianab/city-survival/internal/models"
)

type verb int

const (
	cmdNone verb = iota
	cmdQuit
	cmdRestart
	cmdHelp
	cmdChoose
	cmdHousing
	cmdInsurance
	cmdInvest
	cmdStart
	cmdAllocate
	cmdStance
	cmdDeal
	cmdOffer
	cmdNext
	cmdRebalance
)

type command struct {
	verb   verb
	id     string
	pool   string
	amount int
	on     bool
	alloc  map[string]int
	stance engine.Stance
}

// Words the parser understands on its own; also the pool for suggestions.
var keywords = []string{
	"quit", "restart", "help",
	"city", "suburb", "insure", "no-insure", "safe", "risky", "start",
	"alloc", "hard", "soft", "mediate", "deal", "offer",
	"next", "continue", "buy", "sell",
}

// maxSuggestDistance bounds how far a typo may be from its suggestion.
const maxSuggestDistance = 3

// parseCommand turns a line of input into a command. A bare number picks
// the choice at that position; anything else must be a keyword or a
// choice id.
func parseCommand(input string, choices []models.Choice) (command, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(fields) == 0 {
		return command{verb: cmdNext}, nil
	}
	word := strings.TrimPrefix(fields[0], "/")
	args := fields[1:]

	if n, err := strconv.Atoi(word); err == nil && len(args) == 0 {
		if n < 1 || n > len(choices) {
			return command{}, fmt.Errorf("no choice numbered %d", n)
		}
		return command{verb: cmdChoose, id: choices[n-1].ID}, nil
	}

	switch word {
	case "quit", "exit":
		return command{verb: cmdQuit}, nil
	case "restart":
		return command{verb: cmdRestart}, nil
	case "help", "?":
		return command{verb: cmdHelp}, nil
	case "city", "suburb":
		return command{verb: cmdHousing, id: word}, nil
	case "insure":
		return command{verb: cmdInsurance, on: true}, nil
	case "no-insure":
		return command{verb: cmdInsurance}, nil
	case "safe", "risky":
		amount, err := amountArg(word, args)
		if err != nil {
			return command{}, err
		}
		return command{verb: cmdInvest, pool: word, amount: amount}, nil
	case "start":
		return command{verb: cmdStart}, nil
	case "alloc":
		return parseAlloc(args)
	case "hard", "soft", "mediate":
		return command{verb: cmdStance, stance: engine.Stance(strings.ToUpper(word))}, nil
	case "deal":
		return command{verb: cmdDeal}, nil
	case "offer":
		amount, err := amountArg(word, args)
		if err != nil {
			return command{}, err
		}
		return command{verb: cmdOffer, amount: amount}, nil
	case "next", "continue":
		return command{verb: cmdNext}, nil
	case "buy", "sell":
		if len(args) != 2 || (args[0] != "safe" && args[0] != "risky") {
			return command{}, fmt.Errorf("usage: %s safe|risky <amount>", word)
		}
		amount, err := amountArg(word, args[1:])
		if err != nil {
			return command{}, err
		}
		if word == "sell" {
			amount = -amount
		}
		return command{verb: cmdRebalance, pool: args[0], amount: amount}, nil
	}

	for _, c := range choices {
		if strings.EqualFold(c.ID, word) {
			return command{verb: cmdChoose, id: c.ID}, nil
		}
	}
	if s := suggest(word, choices); s != "" {
		return command{}, fmt.Errorf("unknown command %q, did you mean %q?", word, s)
	}
	return command{}, fmt.Errorf("unknown command %q, type help for a list", word)
}

func amountArg(word string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s <amount>", word)
	}
	s := strings.NewReplacer(",", "", "_", "").Replace(args[0])
	mult := 1
	if strings.HasSuffix(s, "k") {
		s, mult = strings.TrimSuffix(s, "k"), 1000
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s: %q is not an amount", word, args[0])
	}
	return n * mult, nil
}

// parseAlloc reads "alloc rest=3 work=2".
func parseAlloc(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, fmt.Errorf("usage: alloc <category>=<points> ...")
	}
	alloc := make(map[string]int, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		n, err := strconv.Atoi(v)
		if !ok || k == "" || err != nil {
			return command{}, fmt.Errorf("alloc: %q is not category=points", a)
		}
		alloc[k] += n
	}
	return command{verb: cmdAllocate, alloc: alloc}, nil
}

// suggest returns the closest keyword or choice id to word.
func suggest(word string, choices []models.Choice) string {
	candidates := slices.Clone(keywords)
	for _, c := range choices {
		if !c.Disabled {
			candidates = append(candidates, c.ID)
		}
	}
	best, bestDist := "", maxSuggestDistance+1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(word, strings.ToLower(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
