package engine

import (
	"math"
	"testing"

	"github.com/tatianab/city-survival/internal/models"
)

func TestSettleFirstPeriodSuburb(t *testing.T) {
	table := plainTable(12)
	state := playingState(2, models.FlagRentSuburb, models.FlagInsuranceNo)

	stats, sum, flag := Settle(table, state, &FixedRand{Values: []float64{0.5}})

	if sum.Salary != 36000 {
		t.Errorf("Expected salary 36000, got %d", sum.Salary)
	}
	if sum.Rent != 15000 {
		t.Errorf("Expected rent 15000, got %d", sum.Rent)
	}
	if sum.LivingCost != 18000 {
		t.Errorf("Expected living cost 18000, got %d", sum.LivingCost)
	}
	if sum.SafeProfit != 0 || sum.RiskyProfit != 0 || sum.DebtInterest != 0 {
		t.Errorf("Expected no investment or debt lines, got %+v", sum)
	}
	if sum.TotalChange != 3000 {
		t.Errorf("Expected total change 3000, got %d", sum.TotalChange)
	}
	if stats.Cash != 53000 {
		t.Errorf("Expected cash 53000, got %d", stats.Cash)
	}
	if sum.Month != 6 {
		t.Errorf("Expected month 6, got %d", sum.Month)
	}
	if math.Abs(sum.RiskyYield-1.5) > 1e-9 {
		t.Errorf("Expected FLAT midpoint yield 1.5, got %v", sum.RiskyYield)
	}
	if stats.Body != 55 || stats.Mind != 53 || stats.Performance != 45 {
		t.Errorf("Expected suburb commute wear (55/53/45), got body=%d mind=%d perf=%d", stats.Body, stats.Mind, stats.Performance)
	}
	if flag != "" {
		t.Errorf("Expected no flag, got %q", flag)
	}
	if state.Stats.Cash != 50000 {
		t.Errorf("Expected input state untouched, got cash %d", state.Stats.Cash)
	}
}

func TestSettleSafeTrackIsDeterministic(t *testing.T) {
	table := plainTable(12)
	for _, draw := range []float64{0, 0.3, 0.99} {
		state := playingState(2, models.FlagRentSuburb)
		state.Stats.SafeInvest = 100000
		stats, sum, _ := Settle(table, state, &FixedRand{Values: []float64{draw}})
		if sum.SafeProfit != 1500 {
			t.Fatalf("draw %v: expected safe profit 1500, got %d", draw, sum.SafeProfit)
		}
		if stats.SafeInvest != 101500 {
			t.Fatalf("draw %v: expected safe pool 101500, got %d", draw, stats.SafeInvest)
		}
	}
}

func TestSettleCityNetworkingRoll(t *testing.T) {
	table := plainTable(12)

	state := playingState(2, models.FlagRentCity)
	_, sum, flag := Settle(table, state, &FixedRand{Values: []float64{0.1, 0.5}})
	if flag != models.FlagSalaryBump {
		t.Fatalf("Expected SALARY_BUMP on a low roll, got %q", flag)
	}
	if sum.Salary != BumpSalary*PeriodMonths {
		t.Errorf("Expected bumped salary to apply immediately, got %d", sum.Salary)
	}
	if sum.SpecialEvent == "" {
		t.Errorf("Expected a special event line")
	}

	_, sum, flag = Settle(table, state, &FixedRand{Values: []float64{0.9, 0.5}})
	if flag != "" || sum.Salary != BaseSalary*PeriodMonths {
		t.Errorf("Expected no bump on a high roll, got flag %q salary %d", flag, sum.Salary)
	}

	bumped := playingState(2, models.FlagRentCity, models.FlagSalaryBump)
	rng := &FixedRand{Values: []float64{0.0, 0.5}}
	_, sum, flag = Settle(table, bumped, rng)
	if flag != "" {
		t.Errorf("Expected no second bump, got %q", flag)
	}
	if rng.next != 1 {
		t.Errorf("Expected only the yield draw once bumped, got %d draws", rng.next)
	}
	if sum.Rent != CityRent*PeriodMonths {
		t.Errorf("Expected city rent, got %d", sum.Rent)
	}
}

func TestSettleSalaryOverrides(t *testing.T) {
	table := plainTable(12)
	tests := []struct {
		flags []string
		want  int
	}{
		{[]string{models.FlagRentSuburb}, 36000},
		{[]string{models.FlagRentSuburb, models.FlagSalaryBump}, 51000},
		{[]string{models.FlagRentSuburb, models.FlagEntrepreneur}, 21000},
		{[]string{models.FlagRentSuburb, models.FlagSalaryBump, models.FlagNakedLoan}, 21000},
		{[]string{models.FlagRentSuburb, models.FlagUnemployed}, 0},
		{[]string{models.FlagRentSuburb, models.FlagEntrepreneur, models.FlagBizFail}, 0},
	}
	for _, tt := range tests {
		_, sum, _ := Settle(table, playingState(5, tt.flags...), &FixedRand{Values: []float64{0.5}})
		if sum.Salary != tt.want {
			t.Errorf("flags %v: expected salary %d, got %d", tt.flags, tt.want, sum.Salary)
		}
	}
}

func TestSettleHousingAndInflation(t *testing.T) {
	table := plainTable(12)

	state := playingState(5, models.FlagRentSuburb, models.FlagInsuranceYes)
	_, sum, _ := Settle(table, state, &FixedRand{Values: []float64{0.5}})
	if sum.Month != InsuranceMonth {
		t.Fatalf("Expected node 5 to be month 12, got %d", sum.Month)
	}
	if sum.Rent != SuburbRent*PeriodMonths+InsuranceFee {
		t.Errorf("Expected annual insurance with rent, got %d", sum.Rent)
	}
	if sum.LivingCost != 18900 {
		t.Errorf("Expected 5%% inflation in phase 1, got %d", sum.LivingCost)
	}

	owner := playingState(8, models.FlagRentCity, models.FlagSalaryBump, models.FlagOwnHouse)
	owner.Stats.Mind = 50
	stats, sum, _ := Settle(table, owner, &FixedRand{Values: []float64{0.5}})
	if sum.Rent != MortgageRent*PeriodMonths {
		t.Errorf("Expected mortgage to replace rent, got %d", sum.Rent)
	}
	if sum.HousingValuation == nil || *sum.HousingValuation != 2650000 {
		t.Errorf("Expected valuation 2650000 in phase 2, got %v", sum.HousingValuation)
	}
	if sum.HousingAppreciation == nil || *sum.HousingAppreciation != 50000 {
		t.Errorf("Expected appreciation 50000, got %v", sum.HousingAppreciation)
	}
	if stats.Mind != 55 {
		t.Errorf("Expected homeowner mind +5, got %d", stats.Mind)
	}
	if sum.LivingCost != 19800 {
		t.Errorf("Expected 10%% inflation in phase 2, got %d", sum.LivingCost)
	}
}

func TestDebtInterest(t *testing.T) {
	none := models.NewFlagSet()
	if got := DebtInterest(-10000, none); got != 1941 {
		t.Errorf("Expected overdraft interest 1941, got %d", got)
	}
	if got := DebtInterest(5000, none); got != 0 {
		t.Errorf("Expected no interest on positive cash, got %d", got)
	}

	trap := models.NewFlagSet(models.FlagDebtTrap)
	want := models.Round(10000 * (math.Pow(1.10, 6) - 1))
	if got := DebtInterest(-10000, trap); got != want {
		t.Errorf("Expected predatory interest %d, got %d", want, got)
	}

	loan := models.NewFlagSet(models.FlagNakedLoan)
	want = models.Round(500000 * (math.Pow(1.10, 6) - 1))
	if got := DebtInterest(50000, loan); got != want {
		t.Errorf("Expected synthetic loan interest %d with positive cash, got %d", want, got)
	}
	want = models.Round(520000 * (math.Pow(1.10, 6) - 1))
	if got := DebtInterest(-20000, loan); got != want {
		t.Errorf("Expected overdraft stacked on the loan (%d), got %d", want, got)
	}
}

func TestSettleRiskyFloor(t *testing.T) {
	table := plainTable(12)
	for _, draw := range []float64{0, 0.01, 0.2, 0.34, 0.5, 0.99} {
		state := playingState(2, models.FlagRentSuburb, models.FlagNakedLoan)
		state.Stats.RiskyInvest = 80000
		stats, sum, _ := Settle(table, state, &FixedRand{Values: []float64{draw}})
		if stats.RiskyInvest < 0 {
			t.Fatalf("draw %v: risky pool went negative (%d)", draw, stats.RiskyInvest)
		}
		if stats.RiskyInvest != 80000+sum.RiskyProfit {
			t.Fatalf("draw %v: pool %d does not match profit %d", draw, stats.RiskyInvest, sum.RiskyProfit)
		}
	}
}

func TestYieldRange(t *testing.T) {
	tests := []struct {
		trend  models.MarketTrend
		flags  []string
		legacy bool
		lo, hi float64
	}{
		{models.TrendBull, nil, false, 5, 35},
		{models.TrendBear, nil, false, -35, -5},
		{models.TrendFlat, nil, false, -5, 8},
		{models.TrendVolatile, nil, false, -40, 40},
		{"", nil, false, -40, 40},
		{models.TrendBear, []string{models.FlagNetworkUp}, false, -25, 0},
		{models.TrendBull, []string{models.FlagNetworkUp}, true, 20, 45},
		{models.TrendBull, []string{models.FlagNetworkUp, models.FlagEntrepreneur}, true, -50, 80},
		{models.TrendFlat, []string{models.FlagEntrepreneur, models.FlagNakedLoan}, false, -100, 200},
	}
	for _, tt := range tests {
		lo, hi := YieldRange(tt.trend, models.NewFlagSet(tt.flags...), tt.legacy)
		if lo != tt.lo || hi != tt.hi {
			t.Errorf("YieldRange(%q, %v, %v) = (%v, %v), want (%v, %v)", tt.trend, tt.flags, tt.legacy, lo, hi, tt.lo, tt.hi)
		}
	}
}
