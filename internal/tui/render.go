package tui

import (
	"fmt"
	"strings"

	"github.com/tatianab/city-survival/internal/engine"
	"github.com/tatianab/city-survival/internal/models"
	"github.com/tatianab/city-survival/internal/report"
)

const intro = `Welcome to the city. You have just landed an office job and two years
to make it. Before the first month starts, pick where to live and what to
do with your savings.`

// renderScene describes where the run is now and what the player can type.
func (m model) renderScene() string {
	state := m.ctl.State()
	w := m.logWidth()
	var b strings.Builder

	if state.LastEventLog != "" {
		b.WriteString(gameStyle.Width(w).Render(state.LastEventLog) + "\n")
	}
	if fx := m.printer.Effects(state.LastRoundEffects); fx != "" && state.Phase() != models.PhaseIntro {
		b.WriteString(helpStyle.Render(fx) + "\n")
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}

	switch state.Phase() {
	case models.PhaseIntro:
		b.WriteString(m.renderSetup())
	case models.PhaseRescue:
		r := state.ActiveRescue
		b.WriteString(titleStyle.Render(r.Title) + "\n\n")
		b.WriteString(gameStyle.Width(w).Render(r.Context) + "\n\n")
		b.WriteString(m.renderChoices(r.Choices))
	case models.PhasePlaying, models.PhaseSubEvent:
		b.WriteString(m.renderNode(state))
	case models.PhaseSummaryPending:
		b.WriteString(helpStyle.Render("Six months have gone by. Type next to see the settlement."))
	case models.PhaseSummary:
		if state.LastSummary != nil {
			b.WriteString(m.printer.Summary(*state.LastSummary) + "\n")
		}
		b.WriteString(helpStyle.Render("Rebalance with buy|sell safe|risky <amount>, then type next."))
	case models.PhaseEnding:
		if e, ok := m.ctl.Ending(); ok {
			b.WriteString(m.printer.Ending(e, state.Stats))
		}
	}
	return b.String()
}

func (m model) renderSetup() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("A NEW LIFE") + "\n\n")
	b.WriteString(gameStyle.Width(m.logWidth()).Render(intro) + "\n\n")
	if m.ctl.LegacyAvailable() {
		b.WriteString(helpStyle.Render("Your last run ended at the top: an extra ¥5,000 is waiting for you.") + "\n\n")
	}
	housing := "suburb (deposit ¥3,500, short rent, long commute)"
	if m.setup.Housing == engine.HousingCity {
		housing = "city (deposit ¥6,000, dear rent, short commute)"
	}
	insurance := "no"
	if m.setup.Insurance {
		insurance = "yes (¥4,000 up front)"
	}
	fmt.Fprintf(&b, "Housing     %s\n", housing)
	fmt.Fprintf(&b, "Insurance   %s\n", insurance)
	fmt.Fprintf(&b, "Safe fund   %s\n", m.printer.Money(m.setup.SafeInvest))
	fmt.Fprintf(&b, "Risky fund  %s\n", m.printer.Money(m.setup.RiskyInvest))
	fmt.Fprintf(&b, "Budget      %s\n\n", m.printer.Money(m.ctl.Budget(m.setup)))
	b.WriteString(helpStyle.Render(helpText(models.PhaseIntro)))
	return b.String()
}

func (m model) renderNode(state *models.RunState) string {
	node, ok := m.ctl.Node()
	if !ok {
		return ""
	}
	w := m.logWidth()
	var b strings.Builder
	title := node.Title
	if ev, ok := node.SubEvent(state.SubEventID); ok && state.SubEventID != "" && ev.Title != "" {
		title = ev.Title
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("MONTH %d: %s", node.Month, title)) + "\n")
	if node.News != "" && state.SubEventID == "" {
		b.WriteString(helpStyle.Width(w).Render("News: "+node.News) + "\n")
	}
	b.WriteString("\n" + gameStyle.Width(w).Render(m.ctl.Context()) + "\n\n")

	if sim := m.ctl.Simulation(); sim != nil {
		b.WriteString(m.renderSimulation(*sim))
		return b.String()
	}
	b.WriteString(m.renderChoices(m.ctl.Choices()))
	return b.String()
}

func (m model) renderChoices(choices []models.Choice) string {
	var b strings.Builder
	for i, c := range choices {
		line := fmt.Sprintf("%d. %s", i+1, c.Text)
		if c.RiskLabel != "" {
			line += " [" + string(c.RiskLabel) + "]"
		}
		if c.Disabled {
			b.WriteString(helpStyle.Render(fmt.Sprintf("%s (locked: %s)", line, c.DisabledReason)) + "\n")
			continue
		}
		b.WriteString(gameStyle.Render(line) + "\n")
		if c.Description != "" {
			b.WriteString(helpStyle.Width(m.logWidth()).Render("   "+c.Description) + "\n")
		}
	}
	return b.String()
}

func (m model) renderSimulation(sim models.SimulationConfig) string {
	var b strings.Builder
	switch sim.Type {
	case models.SimAllocation, models.SimCrisisResource:
		fmt.Fprintf(&b, "Distribute %d points:\n", sim.TotalPoints)
		for _, c := range sim.Categories {
			fmt.Fprintf(&b, "  %-8s %s", c.ID, c.Label)
			if c.Desc != "" {
				b.WriteString(" - " + c.Desc)
			}
			b.WriteString("\n")
		}
	case models.SimNegotiation:
		n := m.ctl.Negotiation()
		if n == nil {
			n = engine.NewNegotiation()
		}
		if sim.NegotiationTarget != "" {
			fmt.Fprintf(&b, "Across the table: %s\n", sim.NegotiationTarget)
		}
		fmt.Fprintf(&b, "Mood %d  Pressure %d\n", n.Mood, n.Pressure)
	case models.SimCaili:
		fmt.Fprintf(&b, "Name the bride price in units of ¥10,000 (0 to %d).\n", engine.CailiMaxOffer)
	}
	b.WriteString(helpStyle.Render(simulationHelp(sim)))
	return b.String()
}

func simulationHelp(sim models.SimulationConfig) string {
	switch sim.Type {
	case models.SimAllocation, models.SimCrisisResource:
		ids := make([]string, len(sim.Categories))
		for i, c := range sim.Categories {
			ids[i] = c.ID + "=N"
		}
		return "Type alloc " + strings.Join(ids, " ")
	case models.SimNegotiation:
		return "Type hard, soft or mediate for each round, then deal to settle."
	case models.SimCaili:
		return "Type offer <amount>, e.g. offer 15."
	}
	return "This scene cannot be played here."
}

func helpText(p models.Phase) string {
	switch p {
	case models.PhaseIntro:
		return "Setup: city | suburb, insure | no-insure, safe <amount>, risky <amount>, then start."
	case models.PhaseSummaryPending:
		return "Type next to settle the last six months."
	case models.PhaseSummary:
		return "buy|sell safe|risky <amount> to rebalance, next to carry on."
	case models.PhaseEnding:
		return "The run is over. restart or quit."
	}
	return "Enter a choice number or id. restart starts over, quit leaves."
}

// renderState is the side panel.
func (m model) renderState() string {
	state := m.ctl.State()
	var b strings.Builder

	when := "Before the first month"
	if node, ok := m.ctl.Node(); ok && state.Phase() != models.PhaseIntro {
		when = fmt.Sprintf("Month %d of 24", node.Month)
	}
	if state.Phase() == models.PhaseEnding {
		when = "Two years on"
	}
	b.WriteString(titleStyle.Render("TIME") + "\n" + when + "\n\n")

	b.WriteString(titleStyle.Render("STATS") + "\n")
	for _, k := range models.StatKeys {
		fmt.Fprintf(&b, "%-12s %s\n", report.StatLabel(k), m.printer.Stat(k, state.Stats.Get(k)))
	}
	fmt.Fprintf(&b, "%-12s %s\n\n", "Net worth", m.printer.Money(state.Stats.NetWorth()))

	b.WriteString(titleStyle.Render("LIFE EVENTS") + "\n")
	flags := state.Flags.List()
	if len(flags) == 0 {
		b.WriteString("(none)\n")
	}
	for _, f := range flags {
		b.WriteString("- " + f + "\n")
	}

	stateWidth := int(float64(m.width) * 0.27)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(b.String())
}
