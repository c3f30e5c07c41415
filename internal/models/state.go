package models

import (
	"slices"
	"time"
)

// Stage is the coarse screen the run is on.
type Stage string

const (
	StageIntro   Stage = "INTRO"
	StagePlaying Stage = "PLAYING"
	StageSummary Stage = "SUMMARY"
	StageEnding  Stage = "ENDING"
)

// Phase is the fine-grained state of the choice state machine.
type Phase string

const (
	PhaseIntro          Phase = "INTRO"
	PhasePlaying        Phase = "PLAYING"
	PhaseSubEvent       Phase = "SUB_EVENT"
	PhaseRescue         Phase = "RESCUE"
	PhaseSummaryPending Phase = "SUMMARY_PENDING"
	PhaseSummary        Phase = "SUMMARY"
	PhaseEnding         Phase = "ENDING"
)

// Tier is the numeric ending bucket used for the next-run bonus.
type Tier string

const (
	TierCriminal Tier = "CRIMINAL"
	TierVanished Tier = "VANISHED"
	TierFold     Tier = "FOLD"
	TierAscend   Tier = "ASCEND"
	TierEscape   Tier = "ESCAPE"
)

// Summary is the settlement report for one six-month period.
type Summary struct {
	Month               int     `yaml:"month" json:"month"`
	Salary              int     `yaml:"salary" json:"salary"`
	Rent                int     `yaml:"rent" json:"rent"`
	LivingCost          int     `yaml:"livingCost" json:"livingCost"`
	SafeYield           float64 `yaml:"safeYield" json:"safeYield"`
	RiskyYield          float64 `yaml:"riskyYield" json:"riskyYield"`
	SafeProfit          int     `yaml:"safeProfit" json:"safeProfit"`
	RiskyProfit         int     `yaml:"riskyProfit" json:"riskyProfit"`
	DebtInterest        int     `yaml:"debtInterest" json:"debtInterest"`
	TotalChange         int     `yaml:"totalChange" json:"totalChange"`
	HousingValuation    *int    `yaml:"housingValuation,omitempty" json:"housingValuation,omitempty"`
	HousingAppreciation *int    `yaml:"housingAppreciation,omitempty" json:"housingAppreciation,omitempty"`
	SpecialEvent        string  `yaml:"specialEvent,omitempty" json:"specialEvent,omitempty"`
}

// RunState is the authoritative record of one play-through.
type RunState struct {
	ID                  string    `yaml:"id"`
	Started             time.Time `yaml:"started"`
	Stage               Stage     `yaml:"stage"`
	NodeIndex           int       `yaml:"node_index"`
	Stats               Stats     `yaml:"stats"`
	Flags               FlagSet   `yaml:"flags"`
	History             []string  `yaml:"history"`
	Seed                float64   `yaml:"seed"`
	ActiveRescue        *Rescue   `yaml:"active_rescue,omitempty"`
	SubEventID          string    `yaml:"sub_event,omitempty"`
	SummaryPending      bool      `yaml:"summary_pending,omitempty"`
	LastSummary         *Summary  `yaml:"last_summary,omitempty"`
	LastEventLog        string    `yaml:"last_event_log,omitempty"`
	LastRoundEffects    []Effect  `yaml:"last_round_effects,omitempty"`
	Legacy              bool      `yaml:"legacy"`
	LastRescueNodeIndex int       `yaml:"last_rescue_node_index"`
}

// NewRunState returns a run sitting on the intro screen.
func NewRunState(id string) *RunState {
	return &RunState{
		ID:                  id,
		Started:             time.Now(),
		Stage:               StageIntro,
		Stats:               InitialStats(),
		LastRescueNodeIndex: -10,
	}
}

// Phase derives the state machine position from the stored fields.
func (s *RunState) Phase() Phase {
	switch {
	case s.Stage == StageIntro:
		return PhaseIntro
	case s.Stage == StageEnding:
		return PhaseEnding
	case s.Stage == StageSummary:
		return PhaseSummary
	case s.SummaryPending:
		return PhaseSummaryPending
	case s.ActiveRescue != nil:
		return PhaseRescue
	case s.SubEventID != "":
		return PhaseSubEvent
	}
	return PhasePlaying
}

// Chose reports whether id appears in the history.
func (s *RunState) Chose(id string) bool {
	return slices.Contains(s.History, id)
}

// Clone returns a deep copy so transitions never alias the caller's state.
func (s *RunState) Clone() *RunState {
	c := *s
	c.Flags = s.Flags.Clone()
	c.History = slices.Clone(s.History)
	c.LastRoundEffects = slices.Clone(s.LastRoundEffects)
	if s.ActiveRescue != nil {
		r := *s.ActiveRescue
		r.Choices = slices.Clone(s.ActiveRescue.Choices)
		c.ActiveRescue = &r
	}
	if s.LastSummary != nil {
		sum := *s.LastSummary
		c.LastSummary = &sum
	}
	return &c
}
