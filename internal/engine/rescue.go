package engine

import (
	"fmt"
	"slices"

	"github.com/tatianab/city-survival/internal/models"
)

// Rescue thresholds.
const (
	rescueBody  = 10
	rescueMind  = 10
	rescueMoral = 10
	rescueCash  = -3000

	debtCollectionCash = -10000
	friendLoanMoral    = 40
)

var (
	rescueBodyScenario = models.Rescue{
		ID:      "rescue-body",
		Title:   "Red alert: total collapse",
		Context: "After weeks of overtime you black out on the subway and wake up under a hospital ceiling. The doctor says your numbers look like an eighty-year-old's.",
		Choices: []models.Choice{
			{ID: "rb-c1", Text: "Full inpatient treatment (cash -15k)", Description: "Expensive maintenance. The price of recharging your life.", RiskLabel: models.RiskRescue,
				Effects: []models.Effect{models.E(models.StatBody, 50), models.E(models.StatCash, -15000), models.E(models.StatPerformance, -20)}},
			{ID: "rb-c2", Text: "IV drip and discharge yourself (cash -2000)", Description: "Patch the machine and keep running.", RiskLabel: models.RiskRescue,
				Effects: []models.Effect{models.E(models.StatBody, 30), models.E(models.StatMind, -10), models.E(models.StatCash, -2000)}},
		},
	}

	rescueMindScenario = models.Rescue{
		ID:      "rescue-mind",
		Title:   "Red alert: breakdown",
		Context: "On the office roof you watch the traffic below and a frightening thought arrives uninvited. You cannot stop crying and cannot read a single line.",
		Choices: []models.Choice{
			{ID: "rm-c1", Text: "Professional counselling (cash -8k)", Description: "Buy back your sanity. Costly, and it works.", RiskLabel: models.RiskRescue,
				Effects: []models.Effect{models.E(models.StatMind, 50), models.E(models.StatCash, -8000)}},
			{ID: "rm-c2", Text: "Shut yourself in", Description: "Cut off the world and lick your wounds alone.", RiskLabel: models.RiskRescue, Flag: models.FlagGiveUp,
				Effects: []models.Effect{models.E(models.StatMind, 30), models.E(models.StatBody, -10), models.E(models.StatMoral, -5), models.E(models.StatPerformance, -30)}},
		},
	}

	rescueCashScenario = models.Rescue{
		ID:      "rescue-cash",
		Title:   "Red alert: the darkest hour",
		Context: "The last credit card just bounced. The collectors' calls are your only link to society and the landlord is at the door.",
		Choices: []models.Choice{
			{ID: "rc-c1", Text: "Sign a high-interest online loan (cash +20k)", Description: "Drinking poison to quench thirst.", RiskLabel: models.RiskRescue, Flag: models.FlagDebtTrap,
				Effects: []models.Effect{models.E(models.StatCash, 20000), models.E(models.StatMind, -15), models.E(models.StatMoral, -10)}},
			{ID: "rc-c2", Text: "Night shifts of manual labour (cash +8k)", Description: "Trade sweat for the right to survive.", RiskLabel: models.RiskRescue,
				Effects: []models.Effect{models.E(models.StatCash, 8000), models.E(models.StatBody, -20), models.E(models.StatMind, -5), models.E(models.StatPerformance, -10)}},
		},
	}

	rescueMoralScenario = models.Rescue{
		ID:      "rescue-moral",
		Title:   "Red alert: social death",
		Context: "The lies snowballed and blew up. Unpaid loans and worse came to light, and old friends avoid you like the plague.",
		Choices: []models.Choice{
			{ID: "rmo-c1", Text: "Sell everything to repay (cash -20k)", Description: "Buy back a ticket to being a decent person.", RiskLabel: models.RiskRescue,
				Effects: []models.Effect{models.E(models.StatMoral, 50), models.E(models.StatCash, -20000), models.E(models.StatMind, -10)}},
			{ID: "rmo-c2", Text: "Vanish (cash +5k)", Description: "New city, new name. If you cannot be good, be a ghost.", RiskLabel: models.RiskRescue, Flag: models.FlagScammer,
				Effects: []models.Effect{models.E(models.StatCash, 5000), models.E(models.StatMoral, -30)}},
		},
	}
)

// ClassifyRescue returns the forced intervention for the given state, or
// nil. It never fires on a node directly after the previous rescue.
func ClassifyRescue(stats models.Stats, flags models.FlagReader, nodeIndex, lastRescueNodeIndex int) *models.Rescue {
	if nodeIndex-lastRescueNodeIndex <= 1 {
		return nil
	}

	switch {
	case stats.Body < rescueBody:
		return cloneRescue(rescueBodyScenario)
	case stats.Mind < rescueMind && !flags.Has(models.FlagGiveUp):
		return cloneRescue(rescueMindScenario)
	case flags.Has(models.FlagDebtTrap) && stats.Cash < debtCollectionCash:
		if r := debtCollection(stats, flags); slices.ContainsFunc(r.Choices, enabled) {
			return r
		}
		// Nothing to sell and nobody to borrow from: the generic cash
		// crisis still offers a way out.
		return cloneRescue(rescueCashScenario)
	case stats.Cash < rescueCash:
		return cloneRescue(rescueCashScenario)
	case stats.Moral < rescueMoral && !flags.Has(models.FlagScammer):
		return cloneRescue(rescueMoralScenario)
	}
	return nil
}

func debtCollection(stats models.Stats, flags models.FlagReader) *models.Rescue {
	invested := stats.Invested()
	debt := -stats.Cash
	sell := min(invested, debt+5000)
	canBorrow := stats.Moral >= friendLoanMoral && !flags.HasAny(models.FlagScammer, models.FlagSocialIsolation)

	friendDesc := "Spend the last of your goodwill. You will be left with no one."
	if !canBorrow {
		friendDesc = "Your credit with people is gone. Nobody will lend to you."
	}

	return &models.Rescue{
		ID:    "rescue-debt-collection",
		Title: "Red alert: violent collection",
		Context: fmt.Sprintf("You defaulted. Collectors are camped at your door and the corridor is splashed with red paint.\n\nDebt: %d\nSellable investments: %d",
			debt, invested),
		Choices: []models.Choice{
			{
				ID:          "rdc-sell",
				Text:        fmt.Sprintf("Dump your investments (-%.1fk)", float64(sell)/1000),
				Description: "Cut the flesh. Everything you saved goes at fire-sale prices.",
				RiskLabel:   models.RiskRescue,
				Effects: []models.Effect{
					models.E(models.StatCash, sell),
					models.E(models.StatSafeInvest, -stats.SafeInvest),
					models.E(models.StatRiskyInvest, -stats.RiskyInvest),
					models.E(models.StatMind, -15),
				},
				Disabled:       invested < 1000,
				DisabledReason: "nothing left to sell",
			},
			{
				ID:          "rdc-friend",
				Text:        fmt.Sprintf("Con a friend into a loan (+%.1fk)", float64(debt)/1000),
				Description: friendDesc,
				RiskLabel:   models.RiskRescue,
				Flag:        models.FlagSocialIsolation,
				Effects: []models.Effect{
					models.E(models.StatCash, debt+2000),
					models.E(models.StatMoral, -40),
					models.E(models.StatMind, -15),
				},
				Disabled:       !canBorrow,
				DisabledReason: "bad karma",
			},
		},
	}
}

func enabled(c models.Choice) bool { return !c.Disabled }

func cloneRescue(r models.Rescue) *models.Rescue {
	c := r
	c.Choices = make([]models.Choice, len(r.Choices))
	copy(c.Choices, r.Choices)
	return &c
}
