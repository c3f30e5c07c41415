package content

import (
	"math"

	"github.com/tatianab/city-survival/internal/models"
)

// choiceGen selects and gates the candidates of a pool for the current
// run state.
type choiceGen func(p pool, flags models.FlagReader, stats models.Stats) []models.Choice

var nodeChoices = map[string]choiceGen{
	"node-0": byHousing(
		[]string{"n0-c-city-fix", "n0-c-city-fight", "n0-c-city-endure"},
		[]string{"n0-c-suburb-taxi", "n0-c-suburb-grind", "n0-c-suburb-move"},
	),
	"node-1": byHousing(
		[]string{"n1-c-city-hustle", "n1-c-city-social", "n1-c-city-save"},
		[]string{"n1-c-suburb-study", "n1-c-suburb-course", "n1-c-suburb-sleep"},
	),
	"node-3":  officeFactions,
	"node-5":  layoffs,
	"node-6":  familyEmergency,
	"node-7":  housing,
	"node-9":  marriage,
	"node-10": allIn,
}

var eventChoices = map[string]choiceGen{
	"n0-final":                finalStraw,
	"n3-sub-skill-health":     insured("n3-h-a", "n3-h-b"),
	"n3-sub-politics-health":  insured("n3-hp-a", "n3-hp-b"),
	"n5-sub-startup":          startup,
	"n6-sub-home":             hospitalVigil,
	"n6-sub-home-consequence": homeConsequence,
}

var entryHooks = map[string]models.EntryHook{
	"node-3": officeKarma,
	"node-5": layoffReview,
	"node-6": businessSwing,
	"node-8": businessRebound,
}

func founder(flags models.FlagReader) bool {
	return flags.HasAny(models.FlagEntrepreneur, models.FlagNakedLoan)
}

func disable(c models.Choice, when bool, reason string) models.Choice {
	if when {
		c.Disabled = true
		c.DisabledReason = reason
	}
	return c
}

func byHousing(city, suburb []string) choiceGen {
	return func(p pool, flags models.FlagReader, _ models.Stats) []models.Choice {
		if flags.Has(models.FlagRentCity) {
			return p.pick(city...)
		}
		return p.pick(suburb...)
	}
}

func finalStraw(p pool, flags models.FlagReader, stats models.Stats) []models.Choice {
	name := "suburb"
	if flags.Has(models.FlagRentCity) {
		name = "city"
	}
	return []models.Choice{
		disable(p.variant("n0-f-a", name), stats.Cash < 800, "Not enough cash"),
		p.get("n0-f-b"),
	}
}

func insured(covered, uncovered string) choiceGen {
	return func(p pool, flags models.FlagReader, _ models.Stats) []models.Choice {
		if flags.Has(models.FlagInsuranceYes) {
			return p.pick(covered)
		}
		return p.pick(uncovered)
	}
}

func officeFactions(p pool, _ models.FlagReader, stats models.Stats) []models.Choice {
	return []models.Choice{
		disable(p.get("n3-c1"), stats.Body < 40, "Sub-health (body < 40)"),
		p.get("n3-c2"),
		p.get("n3-c3"),
	}
}

func officeKarma(_ models.FlagReader, _ float64, stats models.Stats) *models.EntryResult {
	if stats.Moral >= 30 {
		return nil
	}
	return &models.EntryResult{
		Text:    "[Karma] Your coldness has wrecked your standing with colleagues. Nobody will tip you off at a moment like this, so you choose blind. The stress piles up.",
		Effects: []models.Effect{models.E(models.StatMind, -15)},
	}
}

func layoffs(p pool, flags models.FlagReader, stats models.Stats) []models.Choice {
	venture := p.get("n5-c1")
	switch {
	case !flags.HasAny(models.FlagSkillUp, models.FlagNetworkUp):
		venture = disable(venture, true, "No skills or network")
	case stats.Cash < 30000:
		venture = disable(venture, true, "Not enough starting capital")
	}
	return []models.Choice{
		venture,
		disable(p.get("n5-c-promote"), stats.Performance < 80, "Performance below 80"),
		disable(p.get("n5-c2"), flags.Has(models.FlagPerfLow), "Performance too low (on the list)"),
		p.get("n5-c3"),
		p.get("n5-c4"),
	}
}

func layoffReview(_ models.FlagReader, _ float64, stats models.Stats) *models.EntryResult {
	var res models.EntryResult
	if stats.Moral < 30 {
		res.Text = "[Karma] Your reputation precedes you. The former colleagues starting a company did not invite you."
		res.Effects = append(res.Effects, models.E(models.StatMind, -10))
	}
	if stats.Performance < 40 {
		res.Text = joinLines(res.Text, "[Failed review] HR wants a word. Your slacking put you on the layoff list, and the road to staying is closed.")
		res.Effects = append(res.Effects, models.E(models.StatMind, -15))
		res.Flags = append(res.Flags, models.FlagPerfLow)
	}
	if len(res.Effects) == 0 {
		return nil
	}
	return &res
}

func startup(p pool, flags models.FlagReader, _ models.Stats) []models.Choice {
	if flags.Has(models.FlagNakedLoan) {
		return p.pick("n5-st-loan-invest", "n5-st-loan-biz", "n5-st-loan-save")
	}
	return p.pick("n5-st-a", "n5-st-b")
}

// seedDigit maps the run seed onto [0, 10) by its second decimal place.
func seedDigit(seed float64) float64 {
	return math.Mod(seed*100, 10)
}

func businessSwing(flags models.FlagReader, seed float64, stats models.Stats) *models.EntryResult {
	var res models.EntryResult
	if founder(flags) {
		if seedDigit(seed) > 5 {
			res.Text = "[Startup tailwind] Your project caught the wave and users are pouring in. The valuation doubled and investors want in again."
			res.Effects = append(res.Effects, models.E(models.StatRiskyInvest, max(20000, models.Round(float64(stats.RiskyInvest)*0.5))))
			res.Flags = append(res.Flags, models.FlagBizBoom)
		} else {
			res.Text = "[Startup crisis] The market turned and a rival started a brutal price war. Cash is tight and stock is piling up."
			res.Effects = append(res.Effects, models.E(models.StatRiskyInvest, min(-10000, models.Round(-float64(stats.RiskyInvest)*0.3))))
			res.Flags = append(res.Flags, models.FlagBizStruggle)
		}
	}
	if stats.Moral > 85 {
		res.Text = joinLines(res.Text, "[Kindness repaid] Hearing of your trouble, old classmates and volunteers you once helped share the bedside shifts and raise a gift of money.")
		res.Effects = append(res.Effects, models.E(models.StatCash, 8000), models.E(models.StatMind, 15))
	}
	if len(res.Effects) == 0 {
		return nil
	}
	return &res
}

func familyEmergency(p pool, flags models.FlagReader, stats models.Stats) []models.Choice {
	home := p.get("n6-c1")
	switch {
	case founder(flags):
		home = p.variant("n6-c1", "founder")
	case flags.Has(models.FlagUnemployed):
		home = p.variant("n6-c1", "unemployed")
	}
	return []models.Choice{
		disable(home, stats.Moral < 40, "Estranged from family (moral < 40)"),
		p.get("n6-c2"),
		disable(p.get("n6-c4"), !flags.HasAny(models.FlagSkillUp, models.FlagNetworkUp), "No resources or connections"),
		p.get("n6-c3"),
	}
}

func hospitalVigil(p pool, flags models.FlagReader, _ models.Stats) []models.Choice {
	switch {
	case founder(flags):
		return []models.Choice{p.variant("n6-sub-home-stay", "founder"), p.variant("n6-sub-home-leave", "founder")}
	case flags.Has(models.FlagUnemployed):
		return []models.Choice{p.variant("n6-sub-home-stay", "unemployed")}
	}
	return p.pick("n6-sub-home-stay", "n6-sub-home-leave")
}

func homeConsequence(p pool, flags models.FlagReader, _ models.Stats) []models.Choice {
	if flags.Has(models.FlagBizFail) {
		return p.pick("n6-hc-biz-fail")
	}
	return p.pick("n6-hc-1", "n6-hc-2")
}

func housing(p pool, flags models.FlagReader, stats models.Stats) []models.Choice {
	bizFail := flags.Has(models.FlagBizFail)

	help := p.get("n7-buy-help")
	switch {
	case bizFail:
		help = disable(help, true, "In debt")
	case flags.Has(models.FlagUnemployed):
		help = disable(help, true, "No proof of income")
	case flags.Has(models.FlagSocialIsolation):
		help = disable(help, true, "Everyone has turned away (SOCIAL_ISOLATION)")
	case stats.Moral < 30:
		help = disable(help, true, "Family ties are lukewarm")
	case stats.Cash < 20000:
		help = disable(help, true, "Cash below 20k")
	}

	alone := p.get("n7-buy-alone")
	alone.Effects = []models.Effect{
		models.E(models.StatCash, -100000),
		models.E(models.StatRiskyInvest, -stats.RiskyInvest),
		models.E(models.StatSafeInvest, -stats.SafeInvest),
		models.E(models.StatMind, 25),
	}
	switch {
	case bizFail:
		alone = disable(alone, true, "Credit destroyed")
	case stats.Cash < 100000:
		alone = disable(alone, true, "Less than 100k available")
	}
	return []models.Choice{help, alone, p.get("n7-rent")}
}

func businessRebound(flags models.FlagReader, seed float64, stats models.Stats) *models.EntryResult {
	var res models.EntryResult
	if founder(flags) {
		if seedDigit(seed) > 4 {
			if flags.Has(models.FlagBizBoom) {
				res.Text = "[Pressing the advantage] Results keep climbing and a fund has floated an acquisition."
			} else {
				res.Text = "[Bouncing back] After the restructuring the business finally turns a corner and cash flow goes positive."
			}
			res.Effects = append(res.Effects, models.E(models.StatRiskyInvest, max(30000, models.Round(float64(stats.RiskyInvest)*0.4))))
		} else {
			res.Text = "[Still under pressure] The market is still weak and big clients are paying later and later. The anxiety is making your hair fall out."
			res.Effects = append(res.Effects,
				models.E(models.StatRiskyInvest, min(-15000, models.Round(-float64(stats.RiskyInvest)*0.2))),
				models.E(models.StatMind, -10))
		}
	}
	if stats.Performance > 90 && !flags.HasAny(models.FlagUnemployed, models.FlagEntrepreneur) {
		res.Text = joinLines(res.Text, "[Retention bonus] Worried you will jump ship after a run of top reviews, the company approves a special retention bonus.")
		res.Effects = append(res.Effects, models.E(models.StatCash, 10000), models.E(models.StatMind, 10))
	}
	if len(res.Effects) == 0 {
		return nil
	}
	return &res
}

// marriage picks one of four storylines. Debt outranks everything unless
// the player is ruthless enough not to care.
func marriage(p pool, flags models.FlagReader, stats models.Stats) []models.Choice {
	inDebt := stats.Cash < -20000 || flags.Has(models.FlagDebtTrap)
	switch {
	case inDebt && stats.Moral >= 20:
		return p.pick("n9-debt-breakup", "n9-debt-beg")
	case flags.Has(models.FlagLoveComplex):
		moon := disable(p.get("n9-complex-moon"), stats.Cash < 50000 && !flags.Has(models.FlagOwnHouse), "Not enough assets to pay the price")
		return []models.Choice{moon, p.get("n9-complex-stable"), p.get("n9-complex-fail")}
	case flags.Has(models.FlagSingle):
		return p.pick("n9-single-marry", "n9-single-reject", "n9-single-delay")
	}
	return p.pick("n9-c1", "n9-c2", "n9-c3")
}

func allIn(p pool, flags models.FlagReader, stats models.Stats) []models.Choice {
	poor := stats.Cash < 20000
	inDebt := stats.Cash < 0 || flags.HasAny(models.FlagDebtTrap, models.FlagBizFail)
	loanShark := flags.Has(models.FlagDebtTrap) && stats.Cash < -5000
	desperate := stats.Cash < 5000 && stats.Moral < 20

	learnReason := "Cannot afford the fees"
	if loanShark {
		learnReason = "Blacklisted as a defaulter"
	}
	run := p.get("n10-c4")
	run.Effects = append([]models.Effect{
		models.E(models.StatCash, stats.SafeInvest+stats.RiskyInvest),
		models.E(models.StatSafeInvest, -stats.SafeInvest),
		models.E(models.StatRiskyInvest, -stats.RiskyInvest),
	}, run.Effects...)
	switch {
	case inDebt:
		run = disable(run, true, "Barred from leaving the country")
	case stats.NetWorth() <= 200000:
		run = disable(run, true, "Assets below 200k")
	}

	var out []models.Choice
	if inDebt {
		out = append(out, p.get("n10-debt-gamble"))
	}
	out = append(out,
		disable(p.get("n10-c1"), poor && !inDebt, "Not enough capital"),
		disable(p.get("n10-c2"), loanShark, "Owes a loan shark"),
		disable(p.get("n10-c3"), poor || loanShark, learnReason),
		run,
	)
	if desperate {
		out = append(out, p.get("n10-c-crime"))
	}
	return out
}

func joinLines(a, b string) string {
	if a == "" {
		return b
	}
	return a + "\n" + b
}
