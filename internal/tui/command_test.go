package tui

import (
	"strings"
	"testing"

	"github.com/tatianab/city-survival/internal/engine"
	"github.com/tatianab/city-survival/internal/models"
)

var testChoices = []models.Choice{
	{ID: "n1-c1", Text: "Work overtime"},
	{ID: "n1-c2", Text: "Go home"},
	{ID: "n1-locked", Text: "Buy a car", Disabled: true},
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want command
	}{
		{"", command{verb: cmdNext}},
		{"2", command{verb: cmdChoose, id: "n1-c2"}},
		{"N1-C1", command{verb: cmdChoose, id: "n1-c1"}},
		{"/quit", command{verb: cmdQuit}},
		{"suburb", command{verb: cmdHousing, id: "suburb"}},
		{"no-insure", command{verb: cmdInsurance}},
		{"safe 10k", command{verb: cmdInvest, pool: "safe", amount: 10000}},
		{"risky 2,500", command{verb: cmdInvest, pool: "risky", amount: 2500}},
		{"mediate", command{verb: cmdStance, stance: engine.StanceMediate}},
		{"offer 15", command{verb: cmdOffer, amount: 15}},
		{"sell risky 5000", command{verb: cmdRebalance, pool: "risky", amount: -5000}},
		{"buy safe 1k", command{verb: cmdRebalance, pool: "safe", amount: 1000}},
	}
	for _, tt := range tests {
		got, err := parseCommand(tt.in, testChoices)
		if err != nil {
			t.Errorf("parseCommand(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got.verb != tt.want.verb || got.id != tt.want.id || got.pool != tt.want.pool ||
			got.amount != tt.want.amount || got.on != tt.want.on || got.stance != tt.want.stance {
			t.Errorf("parseCommand(%q): expected %+v, got %+v", tt.in, tt.want, got)
		}
	}
}

func TestParseAlloc(t *testing.T) {
	got, err := parseCommand("alloc rest=3 work=2 rest=1", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.verb != cmdAllocate || got.alloc["rest"] != 4 || got.alloc["work"] != 2 {
		t.Errorf("Expected rest=4 work=2, got %+v", got.alloc)
	}
	if _, err := parseCommand("alloc rest", nil); err == nil {
		t.Error("Expected an error for a malformed allocation")
	}
}

func TestParseCommandErrors(t *testing.T) {
	tests := []struct {
		in      string
		wantSub string
	}{
		{"7", "no choice numbered 7"},
		{"n1-c3", `did you mean "n1-c1"?`},
		{"restrat", `did you mean "restart"?`},
		{"safe", "usage: safe <amount>"},
		{"offer lots", "not an amount"},
		{"buy gold 5", "usage: buy safe|risky"},
		{"xyzzyplugh", "type help"},
	}
	for _, tt := range tests {
		_, err := parseCommand(tt.in, testChoices)
		if err == nil || !strings.Contains(err.Error(), tt.wantSub) {
			t.Errorf("parseCommand(%q): expected error containing %q, got %v", tt.in, tt.wantSub, err)
		}
	}
}

func TestSuggestSkipsDisabledChoices(t *testing.T) {
	if got := suggest("n1-lockd", testChoices); got == "n1-locked" {
		t.Errorf("Expected no suggestion of a disabled choice, got %q", got)
	}
}
