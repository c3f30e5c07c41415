package engine

import (
	"math"

	"github.com/tatianab/city-survival/internal/models"
)

// Economy constants. Monetary amounts are per month unless noted.
const (
	BaseSalary     = 6000
	BumpSalary     = 8500
	FounderSalary  = 3500
	BaseLivingCost = 3000
	PeriodMonths   = 6

	MortgageRent   = 5500
	CityRent       = 4000
	SuburbRent     = 2500
	InsuranceFee   = 4000
	InsuranceMonth = 12

	HouseBaseValue        = 2500000
	HouseAppreciationRate = 0.02

	InflationPerPhase = 0.05
	SafeYieldPercent  = 1.5

	BumpChance         = 0.15
	NakedLoanPrincipal = 500000
	OverdraftRate      = 0.03
	PredatoryRate      = 0.10
)

const bumpEvent = "Networking windfall: a chance meeting in the lift lands you a referral. Salary permanently raised to 8500."

// Settle runs the six-month financial settlement for the period ending at
// state.NodeIndex. It returns the new stats, the report and the flag the
// period granted, if any. rng is consulted for the city networking roll
// and the risky yield draw, in that order.
func Settle(table models.Table, state *models.RunState, rng Rand) (models.Stats, models.Summary, string) {
	stats := state.Stats
	flags := state.Flags
	idx := state.NodeIndex
	node, _ := table.Node(idx)
	phase := idx / PhaseLength

	var (
		newFlag string
		special string
	)

	if flags.Has(models.FlagRentCity) && !flags.Has(models.FlagSalaryBump) {
		if rng.Float64() < BumpChance {
			newFlag = models.FlagSalaryBump
			special = bumpEvent
		}
	}
	if flags.Has(models.FlagRentSuburb) {
		stats.Add(models.StatPerformance, -5)
		stats.Add(models.StatMind, -2)
	}

	monthly := BaseSalary
	if flags.Has(models.FlagSalaryBump) || newFlag == models.FlagSalaryBump {
		monthly = BumpSalary
	}
	switch {
	case flags.HasAny(models.FlagUnemployed, models.FlagBizFail):
		monthly = 0
	case flags.HasAny(models.FlagEntrepreneur, models.FlagNakedLoan):
		monthly = FounderSalary
	}
	salary := monthly * PeriodMonths

	var (
		monthlyRent  int
		valuation    *int
		appreciation *int
	)
	switch {
	case flags.Has(models.FlagOwnHouse):
		monthlyRent = MortgageRent
		stats.Add(models.StatMind, 5)
		gain := int(HouseBaseValue * HouseAppreciationRate)
		value := HouseBaseValue + gain*phase + gain
		valuation, appreciation = &value, &gain
	case flags.Has(models.FlagRentCity):
		monthlyRent = CityRent
		stats.Add(models.StatBody, 2)
		stats.Add(models.StatMind, 2)
	case flags.Has(models.FlagRentSuburb):
		monthlyRent = SuburbRent
		stats.Add(models.StatBody, -5)
		stats.Add(models.StatMind, -5)
	}
	rent := monthlyRent * PeriodMonths
	if node.Month == InsuranceMonth && flags.Has(models.FlagInsuranceYes) {
		rent += InsuranceFee
	}

	living := models.Round(BaseLivingCost * PeriodMonths * (1 + InflationPerPhase*float64(phase)))

	safeProfit := models.Round(float64(stats.SafeInvest) * SafeYieldPercent / 100)

	lo, hi := YieldRange(node.Trend, flags, state.Legacy)
	riskyYield := lo + rng.Float64()*(hi-lo)
	riskyProfit := models.Round(float64(stats.RiskyInvest) * riskyYield / 100)
	if stats.RiskyInvest+riskyProfit < 0 {
		riskyProfit = -stats.RiskyInvest
	}

	interest := DebtInterest(stats.Cash, flags)

	stats.Cash += salary - rent - living - interest
	stats.SafeInvest += safeProfit
	stats.RiskyInvest += riskyProfit

	return stats, models.Summary{
		Month:               node.Month,
		Salary:              salary,
		Rent:                rent,
		LivingCost:          living,
		SafeYield:           SafeYieldPercent,
		RiskyYield:          riskyYield,
		SafeProfit:          safeProfit,
		RiskyProfit:         riskyProfit,
		DebtInterest:        interest,
		TotalChange:         salary + safeProfit + riskyProfit - rent - living - interest,
		HousingValuation:    valuation,
		HousingAppreciation: appreciation,
		SpecialEvent:        special,
	}, newFlag
}

// YieldRange returns the risky-track yield bounds in percent.
func YieldRange(trend models.MarketTrend, flags models.FlagReader, legacy bool) (float64, float64) {
	var lo, hi float64
	switch trend {
	case models.TrendBull:
		lo, hi = 5, 35
	case models.TrendBear:
		lo, hi = -35, -5
	case models.TrendFlat:
		lo, hi = -5, 8
	default:
		lo, hi = -40, 40
	}
	if flags.Has(models.FlagNetworkUp) {
		lo += 10
		hi += 5
	}
	if legacy {
		lo += 5
		hi += 5
	}
	if flags.Has(models.FlagEntrepreneur) {
		lo, hi = -50, 80
	}
	if flags.Has(models.FlagNakedLoan) {
		lo, hi = -100, 200
	}
	return lo, hi
}

// DebtInterest is the six-month compound interest on overdraft plus any
// black-market loan.
func DebtInterest(cash int, flags models.FlagReader) int {
	principal := 0
	if cash < 0 {
		principal = -cash
	}
	if flags.Has(models.FlagNakedLoan) {
		principal += NakedLoanPrincipal
	}
	if principal == 0 {
		return 0
	}
	rate := OverdraftRate
	if flags.HasAny(models.FlagDebtTrap, models.FlagNakedLoan) {
		rate = PredatoryRate
	}
	return models.Round(float64(principal) * (math.Pow(1+rate, PeriodMonths) - 1))
}
