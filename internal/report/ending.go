package report

import (
	"fmt"
	"strings"

	"github.com/tatianab/city-survival/internal/engine"
	"github.com/tatianab/city-survival/internal/models"
)

type verdict struct {
	title string
	text  string
}

var verdicts = map[engine.Category]verdict{
	engine.CategoryExile:           {"Exile", "A new passport did not cure the body or the loneliness. You are free the way a kite with a cut string is free, and your savings cover rent and little else."},
	engine.CategoryUndocumented:    {"Off the Books", "The exchange rate ate your budget within months. You wash dishes for cash, without papers, and flinch at every knock."},
	engine.CategoryGlobalCitizen:   {"Global Citizen", "You left with money and with the instincts that earned it. Far from the rat race, the old struggle has become a story you tell over drinks."},
	engine.CategoryCriminal:        {"Breaking Bad", "The underground made you rich and took your name in exchange. The mansion is in someone else's name and every knock at the door stops your heart."},
	engine.CategoryVanished:        {"Vanished", "One night a van took you away and the records lost track of you. The interest outran you and then it ate you."},
	engine.CategoryIsolatedPatient: {"Isolated Patient", "You traded dignity and health to stay. When you collapsed, hundreds of contacts and not one would sign the consent form."},
	engine.CategoryScrappedPart:    {"Scrapped Part", "The pressure squeezed you dry. Depression and chronic strain left you unable to work, filed by the system as a worn-out component."},
	engine.CategoryFugitive:        {"Fugitive", "Loans, grey deals and borrowed trust all came due at once. You hide in a rented room with the curtains shut."},
	engine.CategoryDrifter:         {"Drifter", "Poverty and worry broke through every defence. You stopped thinking about the future and now watch commuters as if they were another species."},
	engine.CategoryBurnout:         {"Burnout", "You bet your health for money and lost both. The medical bills emptied you and the city shines on as if you were never there."},
	engine.CategoryCollapse:        {"Total Collapse", "Health, wealth, mind and conscience gave way together. Not an accident but a systemic failure."},
	engine.CategoryRetreat:         {"Orderly Retreat", "This battlefield was not yours. You left with scars and what savings remained, a dignified stop-loss."},
	engine.CategoryConcrete:        {"Concrete Prisoner", "You stayed and bought the flat. Some nights, looking at the mortgage statement, you wonder who owns whom."},
	engine.CategoryLowFlight:       {"Low Flight", "You learned to live in the cracks. No fortune and no disaster, but you are still breathing."},
	engine.CategoryCyberBaron:      {"Cyber Baron", "Cold decisions and clever use of the rules put you at the top of the food chain. The city is data and resources now."},
	engine.CategoryTycoon:          {"New Tycoon", "Camera flashes at the listing ceremony. You slew the dragon and grew its scales."},
	engine.CategoryClassLeap:       {"Class Leap", "You did not just survive, you became a predator. The city that once crushed you is now your playground."},
}

var assetLabels = map[engine.AssetTag]string{
	engine.AssetIllegal:   "Dirty money",
	engine.AssetDebt:      "Drowning in debt",
	engine.AssetHomeowner: "Mortgage slave",
	engine.AssetGambler:   "Aggressive gambler",
	engine.AssetSaver:     "Careful saver",
	engine.AssetCashKing:  "Cash is king",
	engine.AssetBalanced:  "Balanced portfolio",
}

var failLabels = map[string]string{
	engine.FailWealth: "destitute",
	engine.FailBody:   "critically ill",
	engine.FailMind:   "broken",
	engine.FailMoral:  "disgraced",
}

// Title is the headline for an ending category.
func Title(c engine.Category) string {
	if v, ok := verdicts[c]; ok {
		return v.title
	}
	return string(c)
}

// Verdict is the closing paragraph for an ending category.
func Verdict(c engine.Category) string {
	return verdicts[c].text
}

// Ending renders the final screen.
func (r *Printer) Ending(e engine.Ending, stats models.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s]\n\n%s\n\n", Title(e.Category), e.Tier, Verdict(e.Category))
	fmt.Fprintf(&b, "Net worth   %s\n", r.Money(e.NetWorth))
	fmt.Fprintf(&b, "Cash        %s\n", r.Money(stats.Cash))
	fmt.Fprintf(&b, "Invested    %s\n", r.Money(stats.Invested()))
	fmt.Fprintf(&b, "Portfolio   %s\n", assetLabels[e.AssetTag])
	if len(e.Failed) > 0 {
		warnings := make([]string, len(e.Failed))
		for i, f := range e.Failed {
			warnings[i] = failLabels[f]
		}
		fmt.Fprintf(&b, "Warnings    %s\n", strings.Join(warnings, ", "))
	}
	b.WriteString("\n")
	p := e.Personality
	for _, axis := range []struct {
		label string
		score int
	}{
		{"Pragmatist", p.Pragmatist},
		{"Traditionalist", p.Traditional},
		{"Gambler", p.Gambler},
		{"Lying flat", p.Layflat},
	} {
		fmt.Fprintf(&b, "%-15s %s %d\n", axis.label, bar(axis.score), axis.score)
	}
	return b.String()
}

func bar(score int) string {
	n := max(0, min(score, 100)) / 10
	return strings.Repeat("#", n) + strings.Repeat(".", 10-n)
}
