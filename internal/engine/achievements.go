package engine

import (
	"slices"

	"github.com/tatianab/city-survival/internal/models"
)

// Achievement is an unlockable badge. A nil Condition means it is only
// granted explicitly by the controller.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Hidden      bool
	Condition   func(stats models.Stats, flags models.FlagReader, history []string) bool
}

// AchievementFirstStep is granted when a run leaves the intro screen.
const AchievementFirstStep = "ach_first_step"

// Achievements is the full catalogue in display order.
var Achievements = []Achievement{
	{ID: AchievementFirstStep, Title: "The Drift Begins", Description: "Finish the opening setup and enter the city."},
	{
		ID: "ach_homeowner", Title: "Property Mogul", Description: "Own a home in this city, mortgage or not.",
		Condition: func(_ models.Stats, f models.FlagReader, _ []string) bool { return f.Has(models.FlagOwnHouse) },
	},
	{
		ID: "ach_debt_king", Title: "Staring into the Abyss", Description: "Fall into predatory debt or sink below -20k cash.",
		Condition: func(s models.Stats, f models.FlagReader, _ []string) bool {
			return f.Has(models.FlagDebtTrap) || s.Cash < -20000
		},
	},
	{
		ID: "ach_millionaire", Title: "First Pot of Gold", Description: "Reach a net worth of 300k.",
		Condition: func(s models.Stats, _ models.FlagReader, _ []string) bool { return s.NetWorth() >= 300000 },
	},
	{
		ID: "ach_layflat", Title: "Salted Fish Philosophy", Description: "Commit to lying flat.",
		Condition: func(_ models.Stats, f models.FlagReader, _ []string) bool {
			return f.HasAny(models.FlagLayFlat, models.FlagGiveUp)
		},
	},
	{
		ID: "ach_saint", Title: "Moral Paragon", Description: "Keep morality at 90 or above.",
		Condition: func(s models.Stats, _ models.FlagReader, _ []string) bool { return s.Moral >= 90 },
	},
	{
		ID: "ach_dark_forest", Title: "Dark Forest", Description: "Survive by any means (morality 10 or below).", Hidden: true,
		Condition: func(s models.Stats, _ models.FlagReader, _ []string) bool { return s.Moral <= 10 },
	},
	{
		ID: "ach_survivor", Title: "Survival Master", Description: "Make it through all 24 months.",
		Condition: func(_ models.Stats, _ models.FlagReader, h []string) bool { return slices.Contains(h, "n11-end") },
	},
	{
		ID: "ach_investor", Title: "Wolf of Wall Street", Description: "Hold 200k across both investment accounts.",
		Condition: func(s models.Stats, _ models.FlagReader, _ []string) bool { return s.Invested() >= 200000 },
	},
	{
		ID: "ach_entrepreneur", Title: "Maker Spirit", Description: "Quit to start your own company.",
		Condition: func(_ models.Stats, f models.FlagReader, _ []string) bool { return f.Has(models.FlagEntrepreneur) },
	},
	{
		ID: "ach_criminal", Title: "Breaking Bad", Description: "Cross into the underworld.", Hidden: true,
		Condition: func(_ models.Stats, f models.FlagReader, _ []string) bool { return f.Has(models.FlagCriminal) },
	},
}

// LookupAchievement finds a catalogue entry by id.
func LookupAchievement(id string) (Achievement, bool) {
	i := slices.IndexFunc(Achievements, func(a Achievement) bool { return a.ID == id })
	if i < 0 {
		return Achievement{}, false
	}
	return Achievements[i], true
}

// EvaluateAchievements returns the ids whose condition holds and that are
// not in unlocked, in catalogue order. Re-running it against the same
// state after recording the result returns nothing.
func EvaluateAchievements(state *models.RunState, unlocked []string) []string {
	var fresh []string
	for _, a := range Achievements {
		if a.Condition == nil || slices.Contains(unlocked, a.ID) {
			continue
		}
		if a.Condition(state.Stats, state.Flags, state.History) {
			fresh = append(fresh, a.ID)
		}
	}
	return fresh
}
