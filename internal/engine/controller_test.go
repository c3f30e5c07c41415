package engine

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/tatianab/city-survival/internal/models"
)

func newTestController(t *testing.T, table models.Table, profile *memProfile) *Controller {
	t.Helper()
	return NewController(context.Background(), table, profile,
		WithRand(&FixedRand{Values: []float64{0.5}}),
		WithLogger(quietLogger()),
	)
}

func fourNodeTable() models.Table {
	table := plainTable(4)
	table[1].Choices = models.StaticChoices(
		models.Choice{ID: "c1", Text: "next"},
		models.Choice{ID: "locked", Text: "no", Disabled: true, DisabledReason: "not yet"},
	)
	table[3].Choices = models.StaticChoices(models.Choice{ID: "n11-end", Text: "the end"})
	return table
}

func TestControllerFullRun(t *testing.T) {
	ctx := context.Background()
	profile := &memProfile{playCount: 1}
	c := newTestController(t, fourNodeTable(), profile)

	if err := c.Start(ctx, StartConfig{Housing: HousingSuburb}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s := c.State()
	if s.Stage != models.StagePlaying || s.Stats.Cash != 46500 {
		t.Fatalf("Expected PLAYING with 46500 cash, got %s with %d", s.Stage, s.Stats.Cash)
	}
	if !slices.Equal(s.Flags.List(), []string{models.FlagRentSuburb, models.FlagInsuranceNo}) {
		t.Errorf("Expected [RENT_SUBURB INS_NO], got %v", s.Flags.List())
	}
	if s.Seed != 0.5 {
		t.Errorf("Expected the run seed drawn from the generator, got %v", s.Seed)
	}
	unlocked := c.DrainUnlocked()
	if len(unlocked) != 1 || unlocked[0].ID != AchievementFirstStep {
		t.Errorf("Expected first step unlocked, got %+v", unlocked)
	}
	if len(c.DrainUnlocked()) != 0 {
		t.Errorf("Expected drained unlocks to stay drained")
	}

	for _, id := range []string{"c0", "c1", "c2"} {
		if err := c.Choose(ctx, id); err != nil {
			t.Fatalf("Choose(%s): %v", id, err)
		}
	}
	if c.State().Phase() != models.PhaseSummaryPending || c.State().NodeIndex != 2 {
		t.Fatalf("Expected SUMMARY_PENDING on node 2, got %s on %d", c.State().Phase(), c.State().NodeIndex)
	}

	sum, err := c.ProceedToSummary(ctx)
	if err != nil {
		t.Fatalf("ProceedToSummary: %v", err)
	}
	if sum.TotalChange != 3000 || c.State().Stats.Cash != 49500 {
		t.Errorf("Expected +3000 to 49500, got %+d to %d", sum.TotalChange, c.State().Stats.Cash)
	}
	if c.State().LastSummary == nil {
		t.Errorf("Expected the summary kept on the state")
	}

	if err := c.Continue(ctx, Rebalance{Safe: 10000}); err != nil {
		t.Fatalf("Continue: %v", err)
	}
	s = c.State()
	if s.NodeIndex != 3 || s.Stats.Cash != 39500 || s.Stats.SafeInvest != 10000 {
		t.Fatalf("Expected node 3 with 39500 cash and 10000 safe, got %d %d %d", s.NodeIndex, s.Stats.Cash, s.Stats.SafeInvest)
	}

	if err := c.Choose(ctx, "n11-end"); err != nil {
		t.Fatalf("Choose(n11-end): %v", err)
	}
	ending, ok := c.Ending()
	if !ok {
		t.Fatalf("Expected an ending")
	}
	if ending.Tier != models.TierEscape {
		t.Errorf("Expected ESCAPE, got %s", ending.Tier)
	}
	if profile.tier != models.TierEscape {
		t.Errorf("Expected previous tier persisted, got %q", profile.tier)
	}
	if !slices.Contains(profile.achievements, "ach_survivor") || !slices.Contains(profile.achievements, AchievementFirstStep) {
		t.Errorf("Expected achievements persisted, got %v", profile.achievements)
	}
	if err := c.Choose(ctx, "n11-end"); !errors.Is(err, ErrWrongStage) {
		t.Errorf("Expected ErrWrongStage after the end, got %v", err)
	}
}

func TestControllerRejectsMisuse(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, fourNodeTable(), &memProfile{})

	if err := c.Choose(ctx, "c0"); !errors.Is(err, ErrWrongStage) {
		t.Errorf("Expected ErrWrongStage before start, got %v", err)
	}
	if err := c.Start(ctx, StartConfig{Housing: HousingCity, Insurance: true, SafeInvest: 30000, RiskyInvest: 11000}); !errors.Is(err, ErrOverBudget) {
		t.Errorf("Expected ErrOverBudget, got %v", err)
	}
	if err := c.Start(ctx, StartConfig{Housing: HousingCity, SafeInvest: -1}); !errors.Is(err, ErrInvalidAllocation) {
		t.Errorf("Expected ErrInvalidAllocation, got %v", err)
	}
	if err := c.Start(ctx, StartConfig{Housing: HousingCity, Insurance: true, SafeInvest: 30000, RiskyInvest: 10000}); err != nil {
		t.Fatalf("Expected an exact budget to be accepted, got %v", err)
	}
	if got := c.State().Stats.Cash; got != 0 {
		t.Errorf("Expected all cash spent, got %d", got)
	}
	if err := c.Start(ctx, StartConfig{Housing: HousingCity}); !errors.Is(err, ErrWrongStage) {
		t.Errorf("Expected ErrWrongStage on a second start, got %v", err)
	}
	if err := c.Choose(ctx, "nope"); !errors.Is(err, ErrUnknownChoice) {
		t.Errorf("Expected ErrUnknownChoice, got %v", err)
	}
	if _, err := c.ProceedToSummary(ctx); !errors.Is(err, ErrWrongStage) {
		t.Errorf("Expected ErrWrongStage outside a pending settlement, got %v", err)
	}
	if err := c.Continue(ctx, Rebalance{}); !errors.Is(err, ErrWrongStage) {
		t.Errorf("Expected ErrWrongStage outside a summary, got %v", err)
	}
	if _, err := c.ResolveAllocation(ctx, map[string]int{"rest": 1}); !errors.Is(err, ErrNoSimulation) {
		t.Errorf("Expected ErrNoSimulation, got %v", err)
	}
	_ = c.Choose(ctx, "c0")
	if err := c.Choose(ctx, "locked"); !errors.Is(err, ErrChoiceDisabled) {
		t.Errorf("Expected ErrChoiceDisabled, got %v", err)
	}
}

func TestControllerRebalance(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, fourNodeTable(), &memProfile{})
	if err := c.Start(ctx, StartConfig{Housing: HousingSuburb, SafeInvest: 5000}); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"c0", "c1", "c2"} {
		if err := c.Choose(ctx, id); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := c.ProceedToSummary(ctx); err != nil {
		t.Fatal(err)
	}
	safe := c.State().Stats.SafeInvest

	if err := c.Continue(ctx, Rebalance{Safe: -safe - 1}); !errors.Is(err, ErrInvalidRebalance) {
		t.Errorf("Expected ErrInvalidRebalance selling more than held, got %v", err)
	}
	if err := c.Continue(ctx, Rebalance{Risky: c.State().Stats.Cash + 1}); !errors.Is(err, ErrInvalidRebalance) {
		t.Errorf("Expected ErrInvalidRebalance buying past cash, got %v", err)
	}
	cash := c.State().Stats.Cash
	if err := c.Continue(ctx, Rebalance{Safe: -safe}); err != nil {
		t.Fatalf("Expected a full sale to be accepted, got %v", err)
	}
	if s := c.State(); s.Stats.SafeInvest != 0 || s.Stats.Cash != cash+safe {
		t.Errorf("Expected sale proceeds in cash, got safe %d cash %d", s.Stats.SafeInvest, s.Stats.Cash)
	}
}

func TestControllerLegacyRun(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, fourNodeTable(), &memProfile{tier: models.TierAscend})
	if !c.LegacyAvailable() {
		t.Fatalf("Expected legacy after an ASCEND run")
	}
	cfg := StartConfig{Housing: HousingSuburb}
	if got := c.Budget(cfg); got != 51500 {
		t.Errorf("Expected budget 51500, got %d", got)
	}
	if err := c.Start(ctx, cfg); err != nil {
		t.Fatal(err)
	}
	s := c.State()
	if !s.Legacy || !s.Flags.Has(models.FlagLegacy) || s.Stats.Cash != 51500 {
		t.Errorf("Expected legacy run with 51500 cash, got legacy=%v cash=%d flags=%v", s.Legacy, s.Stats.Cash, s.Flags.List())
	}
}

func TestControllerRestartAndResume(t *testing.T) {
	ctx := context.Background()
	profile := &memProfile{playCount: 2}
	c := newTestController(t, fourNodeTable(), profile)
	if c.PlayCount() != 2 {
		t.Fatalf("Expected play count read from the profile, got %d", c.PlayCount())
	}
	if err := c.Start(ctx, StartConfig{Housing: HousingCity}); err != nil {
		t.Fatal(err)
	}
	_ = c.Choose(ctx, "c0")
	saved := c.State()

	if err := c.Restart(ctx); err != nil {
		t.Fatal(err)
	}
	if profile.playCount != 3 || c.PlayCount() != 3 {
		t.Errorf("Expected play count 3, got %d/%d", profile.playCount, c.PlayCount())
	}
	if s := c.State(); s.Stage != models.StageIntro || s.LastRescueNodeIndex != -10 || s.ID == saved.ID {
		t.Errorf("Expected a fresh intro run, got %+v", s)
	}

	c.Resume(ctx, saved)
	if s := c.State(); s.NodeIndex != 1 || s.ID != saved.ID {
		t.Errorf("Expected resumed run on node 1, got %d %s", s.NodeIndex, s.ID)
	}
	if err := c.Choose(ctx, "c1"); err != nil {
		t.Errorf("Expected resumed run to accept choices, got %v", err)
	}
}

func TestControllerProfileFailuresAreNotFatal(t *testing.T) {
	ctx := context.Background()
	profile := &memProfile{err: errors.New("disk gone")}
	c := newTestController(t, fourNodeTable(), profile)
	if c.PlayCount() != 1 || c.LegacyAvailable() {
		t.Errorf("Expected defaults when the profile is unreadable")
	}
	if err := c.Start(ctx, StartConfig{Housing: HousingSuburb}); err != nil {
		t.Errorf("Expected start to succeed without a profile, got %v", err)
	}
}

func TestControllerSimulations(t *testing.T) {
	ctx := context.Background()
	table := fourNodeTable()
	table[1].Simulation = &holiday
	table[2].Choices = models.StaticChoices(models.Choice{ID: "c2", NextEventID: "talk"})
	table[2].Events = map[string]models.SubEvent{
		"talk": {ID: "talk", Simulation: &models.SimulationConfig{Type: models.SimNegotiation}},
	}

	c := newTestController(t, table, &memProfile{})
	if err := c.Start(ctx, StartConfig{Housing: HousingSuburb}); err != nil {
		t.Fatal(err)
	}
	_ = c.Choose(ctx, "c0")

	if len(c.Choices()) != 0 {
		t.Errorf("Expected no plain choices on the holiday node")
	}
	res, err := c.ResolveAllocation(ctx, map[string]int{"work": 7})
	if err != nil {
		t.Fatalf("ResolveAllocation: %v", err)
	}
	s := c.State()
	if s.NodeIndex != 2 || !s.Flags.Has(models.FlagWorkaholic) {
		t.Fatalf("Expected node 2 with WORKAHOLIC, got %d %v", s.NodeIndex, s.Flags.List())
	}
	if s.LastEventLog != res.Text {
		t.Errorf("Expected the simulation narration logged, got %q", s.LastEventLog)
	}
	if s.History[len(s.History)-1] != simConfirmID {
		t.Errorf("Expected %s in history, got %v", simConfirmID, s.History)
	}

	if _, err := c.Negotiate(StanceHard); !errors.Is(err, ErrNoSimulation) {
		t.Errorf("Expected ErrNoSimulation before the talk, got %v", err)
	}
	_ = c.Choose(ctx, "c2")
	for range 2 {
		if _, err := c.Negotiate(StanceHard); err != nil {
			t.Fatalf("Negotiate: %v", err)
		}
	}
	if n := c.Negotiation(); n == nil || n.Pressure != 100 {
		t.Fatalf("Expected pressure 100 after two hard rounds, got %+v", n)
	}
	if _, err := c.EndNegotiation(ctx); err != nil {
		t.Fatalf("EndNegotiation: %v", err)
	}
	if s := c.State(); !s.Flags.Has(models.FlagNegBreakdown) || s.Phase() != models.PhaseSummaryPending {
		t.Errorf("Expected breakdown and a pending settlement, got %s %v", s.Phase(), s.Flags.List())
	}
	if c.Negotiation() != nil {
		t.Errorf("Expected negotiation cleared")
	}
}
