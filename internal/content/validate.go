package content

import (
	"errors"
	"fmt"

	"github.com/tatianab/city-survival/internal/models"
)

type probe struct {
	flags models.FlagSet
	stats models.Stats
}

// probes are representative run states. Every branch a context template or
// choice generator takes should be reachable from at least one of them.
func probes() []probe {
	base := models.InitialStats()

	rich := base
	rich.Cash, rich.SafeInvest, rich.RiskyInvest = 600000, 100000, 200000
	rich.Performance, rich.Moral = 95, 90

	broke := base
	broke.Cash, broke.Moral, broke.Body, broke.Performance = -60000, 10, 30, 20

	flagSets := [][]string{
		nil,
		{models.FlagRentCity},
		{models.FlagRentSuburb, models.FlagWeekdayRenter},
		{models.FlagRentSuburb, models.FlagInsuranceYes, models.FlagSkillUp},
		{models.FlagEntrepreneur, models.FlagBizBoom},
		{models.FlagNakedLoan, models.FlagBizStruggle},
		{models.FlagEntrepreneur, models.FlagBizFail},
		{models.FlagUnemployed},
		{models.FlagLoveComplex, models.FlagOwnHouse},
		{models.FlagSingle},
		{models.FlagDebtTrap},
		{models.FlagMarriedHome},
		{models.FlagWentAbroad, models.FlagPerfLow},
		{models.FlagSocialIsolation, models.FlagNetworkUp},
	}

	var out []probe
	for _, fs := range flagSets {
		for _, st := range []models.Stats{base, rich, broke} {
			out = append(out, probe{flags: models.NewFlagSet(fs...), stats: st})
		}
	}
	return out
}

// Validate walks every node and sub-event of table against the probe
// states. It reports choice lists that come up empty where no simulation
// takes their place, duplicate choice ids, links to sub-events the node
// does not define, and contexts that render to nothing.
func Validate(table models.Table) error {
	var errs []error
	for i, node := range table {
		if i > 0 && node.Month <= table[i-1].Month {
			errs = append(errs, fmt.Errorf("%s: month %d does not advance", node.ID, node.Month))
		}
		if node.Context == nil {
			errs = append(errs, fmt.Errorf("%s: no context", node.ID))
		}
		for _, ps := range probes() {
			if node.Context != nil && node.Context(ps.flags, ps.stats) == "" {
				errs = append(errs, fmt.Errorf("%s: empty context", node.ID))
			}
			if node.Simulation == nil {
				errs = append(errs, checkChoices(node, node.ID, node.Choices.Resolve(ps.flags, ps.stats))...)
			}
			for id, ev := range node.Events {
				if ev.Simulation != nil {
					continue
				}
				errs = append(errs, checkChoices(node, id, ev.Choices.Resolve(ps.flags, ps.stats))...)
			}
		}
	}
	return errors.Join(dedupe(errs)...)
}

func checkChoices(node models.Node, where string, choices []models.Choice) []error {
	if len(choices) == 0 {
		return []error{fmt.Errorf("%s: no choices", where)}
	}
	var errs []error
	seen := make(map[string]bool, len(choices))
	enabled := 0
	for _, c := range choices {
		if seen[c.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate choice %s", where, c.ID))
		}
		seen[c.ID] = true
		if !c.Disabled {
			enabled++
		}
		if c.NextEventID != "" {
			if _, ok := node.SubEvent(c.NextEventID); !ok {
				errs = append(errs, fmt.Errorf("%s: %s links to unknown sub-event %s", where, c.ID, c.NextEventID))
			}
		}
	}
	if enabled == 0 {
		errs = append(errs, fmt.Errorf("%s: every choice is disabled", where))
	}
	return errs
}

func dedupe(errs []error) []error {
	seen := make(map[string]bool, len(errs))
	out := errs[:0]
	for _, err := range errs {
		if seen[err.Error()] {
			continue
		}
		seen[err.Error()] = true
		out = append(out, err)
	}
	return out
}
