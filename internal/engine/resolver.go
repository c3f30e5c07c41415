package engine

import (
	"slices"

	"github.com/tatianab/city-survival/internal/models"
)

// PhaseLength is the number of nodes in one settlement period.
const PhaseLength = 3

// ApplyChoice applies choice to a copy of state and returns the next state.
// The caller's state is never mutated. Referencing a sub-event the node
// does not define is a content defect; the resulting state simply offers
// no choices.
func ApplyChoice(table models.Table, state *models.RunState, choice models.Choice) *models.RunState {
	next := state.Clone()
	next.Stats = next.Stats.Apply(choice.Effects)
	next.Flags.Add(choice.Flag)
	next.History = append(next.History, choice.ID)

	if choice.NextEventID != "" {
		next.SubEventID = choice.NextEventID
		next.LastEventLog = ""
		next.LastRoundEffects = slices.Clone(choice.Effects)
		return next
	}

	nextIndex := state.NodeIndex + 1
	switch {
	case nextIndex >= len(table):
		next.NodeIndex = nextIndex
		next.Stage = models.StageEnding
		next.ActiveRescue = nil
		next.SubEventID = ""
		next.LastRoundEffects = slices.Clone(choice.Effects)
	case nextIndex%PhaseLength == 0:
		// The cursor stays put until the player proceeds through settlement.
		next.SummaryPending = true
		next.ActiveRescue = nil
		next.SubEventID = ""
		next.LastRoundEffects = slices.Clone(choice.Effects)
	default:
		enterNode(table, next, nextIndex, choice.Effects)
	}
	return next
}

// enterNode moves s onto node idx, runs its entry hook and then the rescue
// classifier against the post-hook state.
func enterNode(table models.Table, s *models.RunState, idx int, prior []models.Effect) {
	s.NodeIndex = idx
	s.Stage = models.StagePlaying
	s.SubEventID = ""
	s.ActiveRescue = nil
	s.SummaryPending = false

	var (
		entryText    string
		entryEffects []models.Effect
	)
	if node, ok := table.Node(idx); ok && node.OnEnter != nil {
		if res := node.OnEnter(s.Flags, s.Seed, s.Stats); res != nil {
			entryText = res.Text
			entryEffects = res.Effects
			s.Stats = s.Stats.Apply(res.Effects)
			s.Flags.Merge(res.Flags...)
		}
	}
	s.LastRoundEffects = append(slices.Clone(prior), entryEffects...)

	if rescue := ClassifyRescue(s.Stats, s.Flags, idx, s.LastRescueNodeIndex); rescue != nil {
		s.ActiveRescue = rescue
		s.LastRescueNodeIndex = idx
		s.LastEventLog = ""
		return
	}
	s.LastEventLog = entryText
}

// CurrentChoices returns what the player can pick in the current phase.
// Nodes and sub-events that embed a simulation offer no plain choices.
func CurrentChoices(table models.Table, state *models.RunState) []models.Choice {
	switch state.Phase() {
	case models.PhaseRescue:
		return state.ActiveRescue.Choices
	case models.PhaseSubEvent:
		node, ok := table.Node(state.NodeIndex)
		if !ok {
			return nil
		}
		ev, ok := node.SubEvent(state.SubEventID)
		if !ok || ev.Simulation != nil {
			return nil
		}
		return ev.Choices.Resolve(state.Flags, state.Stats)
	case models.PhasePlaying:
		node, ok := table.Node(state.NodeIndex)
		if !ok || node.Simulation != nil {
			return nil
		}
		return node.Choices.Resolve(state.Flags, state.Stats)
	}
	return nil
}

// CurrentSimulation returns the mini-game awaiting input, if any.
func CurrentSimulation(table models.Table, state *models.RunState) *models.SimulationConfig {
	node, ok := table.Node(state.NodeIndex)
	if !ok {
		return nil
	}
	switch state.Phase() {
	case models.PhaseSubEvent:
		if ev, ok := node.SubEvent(state.SubEventID); ok {
			return ev.Simulation
		}
	case models.PhasePlaying:
		return node.Simulation
	}
	return nil
}

// CurrentContext renders the narrative for the current phase.
func CurrentContext(table models.Table, state *models.RunState) string {
	if state.Phase() == models.PhaseRescue {
		return state.ActiveRescue.Context
	}
	node, ok := table.Node(state.NodeIndex)
	if !ok {
		return ""
	}
	if state.SubEventID != "" {
		if ev, ok := node.SubEvent(state.SubEventID); ok && ev.Context != nil {
			return ev.Context(state.Flags, state.Stats)
		}
		return ""
	}
	if node.Context == nil {
		return ""
	}
	return node.Context(state.Flags, state.Stats)
}
