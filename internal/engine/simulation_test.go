package engine

import (
	"errors"
	"testing"

	"github.com/tatianab/city-survival/internal/models"
)

var holiday = models.SimulationConfig{
	Type:        models.SimAllocation,
	TotalPoints: 7,
	Categories:  []models.SimCategory{{ID: "rest"}, {ID: "travel"}, {ID: "work"}},
}

func TestResolveHoliday(t *testing.T) {
	tests := []struct {
		alloc            map[string]int
		body, mind, cash int
		flag             string
	}{
		{map[string]int{"rest": 7}, 14, 7, 0, ""},
		{map[string]int{"work": 4, "rest": 3}, -6, -5, 3200, models.FlagWorkaholic},
		{map[string]int{"travel": 4, "rest": 3}, 6, 19, -6000, models.FlagHedonist},
		{map[string]int{"travel": 2, "work": 2, "rest": 3}, 0, 7, -1400, ""},
	}
	for _, tt := range tests {
		res, err := ResolveAllocation(holiday, tt.alloc)
		if err != nil {
			t.Fatalf("%v: unexpected error %v", tt.alloc, err)
		}
		body, _ := effect(res.Choice.Effects, models.StatBody)
		mind, _ := effect(res.Choice.Effects, models.StatMind)
		cash, _ := effect(res.Choice.Effects, models.StatCash)
		if body != tt.body || mind != tt.mind || cash != tt.cash {
			t.Errorf("%v: expected body/mind/cash %d/%d/%d, got %d/%d/%d", tt.alloc, tt.body, tt.mind, tt.cash, body, mind, cash)
		}
		if res.Choice.Flag != tt.flag {
			t.Errorf("%v: expected flag %q, got %q", tt.alloc, tt.flag, res.Choice.Flag)
		}
		if res.Choice.ID != simConfirmID || res.Text == "" {
			t.Errorf("%v: expected a confirm choice with narration, got %+v", tt.alloc, res)
		}
	}
}

func TestResolveAllocationRejects(t *testing.T) {
	for _, alloc := range []map[string]int{
		{"rest": 8},
		{"rest": 6},
		{},
		{"rest": -1, "work": 2},
		{"sleep": 1},
	} {
		if _, err := ResolveAllocation(holiday, alloc); !errors.Is(err, ErrInvalidAllocation) {
			t.Errorf("%v: expected ErrInvalidAllocation, got %v", alloc, err)
		}
	}
	if _, err := ResolveAllocation(models.SimulationConfig{Type: models.SimCaili}, nil); !errors.Is(err, ErrNoSimulation) {
		t.Errorf("Expected ErrNoSimulation for a non-points game, got %v", err)
	}
}

func TestResolveCrisis(t *testing.T) {
	cfg := models.SimulationConfig{Type: models.SimCrisisResource, TotalPoints: 100}
	tests := []struct {
		alloc map[string]int
		flag  string
	}{
		{map[string]int{"blame": 50, "overtime": 30, "ignore": 20}, models.FlagCrisisAverted},
		{map[string]int{"overtime": 50, "ignore": 50}, models.FlagCrisisSurvived},
		{map[string]int{"ignore": 100}, models.FlagCrisisFailed},
	}
	for _, tt := range tests {
		res, err := ResolveAllocation(cfg, tt.alloc)
		if err != nil {
			t.Fatalf("%v: unexpected error %v", tt.alloc, err)
		}
		if res.Choice.Flag != tt.flag {
			t.Errorf("%v: expected %s, got %s", tt.alloc, tt.flag, res.Choice.Flag)
		}
	}

	res, _ := ResolveAllocation(cfg, map[string]int{"blame": 50, "overtime": 30, "ignore": 20})
	if moral, _ := effect(res.Choice.Effects, models.StatMoral); moral != -20 {
		t.Errorf("Expected moral -20 for 50 blame points, got %d", moral)
	}
	if body, _ := effect(res.Choice.Effects, models.StatBody); body != -9 {
		t.Errorf("Expected body -9 for 30 overtime points, got %d", body)
	}
}

func TestNegotiation(t *testing.T) {
	n := NewNegotiation()
	for range 3 {
		if err := n.Play(StanceHard); err != nil {
			t.Fatal(err)
		}
	}
	if n.Pressure != 100 || n.Mood != 0 || n.Rounds != 3 {
		t.Fatalf("Expected gauges clamped to 0/100 after three hard rounds, got %+v", n)
	}
	if got := n.Result().Choice.Flag; got != models.FlagNegBreakdown {
		t.Errorf("Expected breakdown, got %s", got)
	}

	n = NewNegotiation()
	for range 3 {
		_ = n.Play(StanceSoft)
	}
	if got := n.Result().Choice.Flag; got != models.FlagNegCompromise {
		t.Errorf("Expected compromise after three soft rounds, got %s", got)
	}

	n = NewNegotiation()
	_ = n.Play(StanceMediate)
	_ = n.Play(StanceSoft)
	if got := n.Result().Choice.Flag; got != models.FlagNegSuccess {
		t.Errorf("Expected success, got %s", got)
	}
	if err := n.Play("SHOUT"); err == nil {
		t.Errorf("Expected an unknown stance to be rejected")
	}
}

func TestResolveCaili(t *testing.T) {
	none := models.NewFlagSet()
	tests := []struct {
		offer int
		flags models.FlagSet
		id    string
		next  string
		cash  int
	}{
		{5, none, "caili-submit-low", "n9-sub-caili-result-low", 0},
		{25, none, "caili-submit-high", "n9-sub-caili-result-high", 0},
		{15, models.NewFlagSet(models.FlagOwnHouse), "caili-submit-mid-house", "n9-sub-caili-result-mid-house", -150000},
		{15, none, "caili-submit-mid-norm", "n9-sub-caili-result-mid-norm", -30000},
		{10, none, "caili-submit-mid-norm", "n9-sub-caili-result-mid-norm", -20000},
		{20, models.NewFlagSet(models.FlagSocialIsolation), "caili-submit-mid-house", "n9-sub-caili-result-mid-house", -200000},
	}
	for _, tt := range tests {
		res, err := ResolveCaili(tt.offer, tt.flags)
		if err != nil {
			t.Fatalf("offer %d: unexpected error %v", tt.offer, err)
		}
		if res.Choice.ID != tt.id || res.Choice.NextEventID != tt.next {
			t.Errorf("offer %d: expected %s -> %s, got %s -> %s", tt.offer, tt.id, tt.next, res.Choice.ID, res.Choice.NextEventID)
		}
		if cash, _ := effect(res.Choice.Effects, models.StatCash); cash != tt.cash {
			t.Errorf("offer %d: expected cash %d, got %d", tt.offer, tt.cash, cash)
		}
	}
	for _, offer := range []int{-1, CailiMaxOffer + 1} {
		if _, err := ResolveCaili(offer, none); !errors.Is(err, ErrInvalidAllocation) {
			t.Errorf("offer %d: expected ErrInvalidAllocation, got %v", offer, err)
		}
	}
}
