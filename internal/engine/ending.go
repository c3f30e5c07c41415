package engine

import (
	"slices"

	"github.com/tatianab/city-survival/internal/models"
)

// Ending thresholds.
const (
	failThreshold     = 20
	poorNetWorth      = 20000
	ascendNetWorth    = 800000
	leftCityNetWorth  = 500000
	stableHomeCash    = 100000
	stableHomeMind    = 80
	abroadWeakStat    = 50
	abroadComfortCash = 250000
)

// Category is the displayed narrative outcome. It refines the tier.
type Category string

const (
	CategoryCriminal        Category = "criminal"
	CategoryVanished        Category = "vanished"
	CategoryIsolatedPatient Category = "isolated_patient"
	CategoryScrappedPart    Category = "scrapped_part"
	CategoryFugitive        Category = "fugitive"
	CategoryDrifter         Category = "drifter"
	CategoryBurnout         Category = "burnout"
	CategoryCollapse        Category = "collapse"
	CategoryRetreat         Category = "orderly_retreat"
	CategoryConcrete        Category = "concrete_prisoner"
	CategoryLowFlight       Category = "low_flight"
	CategoryCyberBaron      Category = "cyber_baron"
	CategoryTycoon          Category = "new_tycoon"
	CategoryClassLeap       Category = "class_leap"
	CategoryExile           Category = "abroad_exile"
	CategoryUndocumented    Category = "abroad_undocumented"
	CategoryGlobalCitizen   Category = "abroad_global_citizen"
)

// Failure conditions counted toward FOLD.
const (
	FailWealth = "wealth"
	FailBody   = "body"
	FailMind   = "mind"
	FailMoral  = "moral"
)

// AssetTag labels the shape of the final portfolio.
type AssetTag string

const (
	AssetIllegal   AssetTag = "ILLEGAL"
	AssetDebt      AssetTag = "DEBT"
	AssetHomeowner AssetTag = "HOMEOWNER"
	AssetGambler   AssetTag = "GAMBLER"
	AssetSaver     AssetTag = "SAVER"
	AssetCashKing  AssetTag = "CASH_KING"
	AssetBalanced  AssetTag = "BALANCED"
)

// Personality is the four-axis profile shown on the ending screen.
type Personality struct {
	Pragmatist  int `json:"pragmatist"`
	Traditional int `json:"traditional"`
	Gambler     int `json:"gambler"`
	Layflat     int `json:"layflat"`
}

// Ending is the full verdict for a finished run.
type Ending struct {
	Tier        models.Tier
	Category    Category
	Abroad      bool
	LeftCity    bool
	NetWorth    int
	FailCount   int
	Failed      []string
	AssetTag    AssetTag
	Personality Personality
}

// LeftCity reports whether the player gave up on the city.
func LeftCity(flags models.FlagReader, history []string) bool {
	return slices.Contains(history, "n9-c3") || slices.Contains(history, "n5-c3") || flags.Has(models.FlagMarriedHome)
}

// ClassifyEnding decides the tier and narrative category for final state.
func ClassifyEnding(stats models.Stats, flags models.FlagReader, history []string) Ending {
	e := Ending{
		NetWorth: stats.NetWorth(),
		LeftCity: LeftCity(flags, history),
		Abroad:   flags.Has(models.FlagWentAbroad),
	}

	for _, f := range []struct {
		id  string
		met bool
	}{
		{FailWealth, e.NetWorth < poorNetWorth},
		{FailBody, stats.Body < failThreshold},
		{FailMind, stats.Mind < failThreshold},
		{FailMoral, stats.Moral < failThreshold},
	} {
		if f.met {
			e.Failed = append(e.Failed, f.id)
		}
	}
	e.FailCount = len(e.Failed)

	hasHouse := flags.Has(models.FlagOwnHouse)
	switch {
	case flags.Has(models.FlagCriminal):
		e.Tier = models.TierCriminal
	case flags.Has(models.FlagDebtTrap) && stats.Cash < 0:
		e.Tier = models.TierVanished
	case e.FailCount >= 2:
		e.Tier = models.TierFold
	case e.NetWorth > ascendNetWorth,
		e.LeftCity && e.NetWorth > leftCityNetWorth,
		hasHouse && stats.Cash > stableHomeCash && stats.Mind > stableHomeMind:
		e.Tier = models.TierAscend
	default:
		e.Tier = models.TierEscape
	}

	e.Category = category(e, stats, flags)
	e.AssetTag = assetTag(stats, flags)
	e.Personality = personality(stats, flags)
	return e
}

func category(e Ending, stats models.Stats, flags models.FlagReader) Category {
	if e.Abroad && e.Tier != models.TierVanished {
		switch {
		case stats.Body < abroadWeakStat || stats.Mind < abroadWeakStat:
			return CategoryExile
		case stats.Cash < abroadComfortCash:
			return CategoryUndocumented
		}
		return CategoryGlobalCitizen
	}

	switch e.Tier {
	case models.TierCriminal:
		return CategoryCriminal
	case models.TierVanished:
		return CategoryVanished
	case models.TierFold:
		failed := func(ids ...string) bool {
			for _, id := range ids {
				if !slices.Contains(e.Failed, id) {
					return false
				}
			}
			return true
		}
		switch {
		case failed(FailBody, FailMoral):
			return CategoryIsolatedPatient
		case failed(FailBody, FailMind):
			return CategoryScrappedPart
		case failed(FailMoral, FailWealth):
			return CategoryFugitive
		case failed(FailMind, FailWealth):
			return CategoryDrifter
		case failed(FailBody, FailWealth):
			return CategoryBurnout
		}
		return CategoryCollapse
	case models.TierEscape:
		switch {
		case e.LeftCity:
			return CategoryRetreat
		case flags.Has(models.FlagOwnHouse):
			return CategoryConcrete
		}
		return CategoryLowFlight
	}

	switch {
	case stats.Moral < 40:
		return CategoryCyberBaron
	case flags.Has(models.FlagEntrepreneur):
		return CategoryTycoon
	}
	return CategoryClassLeap
}

func assetTag(stats models.Stats, flags models.FlagReader) AssetTag {
	invested := stats.Invested()
	switch {
	case flags.Has(models.FlagCriminal):
		return AssetIllegal
	case stats.Cash < 0:
		return AssetDebt
	case flags.Has(models.FlagOwnHouse):
		return AssetHomeowner
	case invested > stats.Cash*2:
		if stats.RiskyInvest > stats.SafeInvest {
			return AssetGambler
		}
		return AssetSaver
	case stats.Cash > invested*3:
		return AssetCashKing
	}
	return AssetBalanced
}

func personality(stats models.Stats, flags models.FlagReader) Personality {
	p := Personality{Pragmatist: 20, Traditional: 20, Gambler: 20, Layflat: 20}
	bump := func(score *int, ok bool, n int) {
		if ok {
			*score += n
		}
	}

	bump(&p.Pragmatist, flags.Has(models.FlagGrayArea), 30)
	bump(&p.Pragmatist, flags.Has(models.FlagMarriedDeal), 40)
	bump(&p.Pragmatist, flags.Has(models.FlagSkillUp), 20)
	bump(&p.Pragmatist, stats.Cash > 100000, 10)

	bump(&p.Traditional, flags.Has(models.FlagOwnHouse), 40)
	bump(&p.Traditional, flags.Has(models.FlagCivilPrep), 30)
	bump(&p.Traditional, flags.Has(models.FlagMarriedHome), 20)
	bump(&p.Traditional, flags.Has(models.FlagLoveStable), 20)

	bump(&p.Gambler, flags.Has(models.FlagEntrepreneur), 40)
	bump(&p.Gambler, flags.Has(models.FlagDebtTrap), 30)
	bump(&p.Gambler, flags.Has(models.FlagMarriedMoon), 30)
	bump(&p.Gambler, flags.Has(models.FlagWentAbroad), 20)
	bump(&p.Gambler, flags.Has(models.FlagCriminal), 50)
	bump(&p.Gambler, stats.RiskyInvest > 50000, 30)

	bump(&p.Layflat, flags.Has(models.FlagLayFlat), 40)
	bump(&p.Layflat, flags.Has(models.FlagUnemployed), 30)
	bump(&p.Layflat, flags.Has(models.FlagGiveUp), 30)
	bump(&p.Layflat, stats.Body > 80, 20)
	return p
}
