// Package tui is the terminal front-end. It drives an engine.Controller
// from typed commands and keeps a scrolling log of the run.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/city-survival/internal/engine"
	"github.com/tatianab/city-survival/internal/models"
	"github.com/tatianab/city-survival/internal/narrator"
	"github.com/tatianab/city-survival/internal/report"
)

// Options wires the front-end to its collaborators. Printer, Narrator and
// Logger default when nil.
type Options struct {
	Controller *engine.Controller
	Printer    *report.Printer
	Narrator   narrator.Narrator
	Logger     *slog.Logger
	// SaveSnapshots writes the run under models.SaveDir after every move.
	SaveSnapshots bool
}

type model struct {
	ctx       context.Context
	ctl       *engine.Controller
	printer   *report.Printer
	narrator  narrator.Narrator
	log       *slog.Logger
	save      bool
	setup     engine.StartConfig
	rebalance engine.Rebalance
	textInput textinput.Model
	viewport  viewport.Model
	gameLog   string
	notice    string
	epilogue  string
	loading   bool
	width     int
	height    int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

// NewModel returns a model positioned wherever the controller's run is,
// so a resumed run opens on its current scene.
func NewModel(ctx context.Context, opts Options) model {
	ti := textinput.New()
	ti.Placeholder = "Type a command, a choice number, or help..."
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 60

	m := model{
		ctx:       ctx,
		ctl:       opts.Controller,
		printer:   opts.Printer,
		narrator:  opts.Narrator,
		log:       opts.Logger,
		save:      opts.SaveSnapshots,
		setup:     engine.StartConfig{Housing: engine.HousingSuburb},
		textInput: ti,
		width:     100,
		height:    30,
	}
	if m.printer == nil {
		m.printer = report.Must(report.DefaultLocale)
	}
	if m.narrator == nil {
		m.narrator = narrator.Static{}
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	m.viewport = viewport.New(m.logWidth(), m.height-6)
	m.appendGame(m.renderScene())
	m.loading = m.ctl.State().Phase() == models.PhaseEnding
	return m
}

func (m model) Init() tea.Cmd {
	if m.loading {
		return tea.Batch(textinput.Blink, m.writeEpilogue())
	}
	return textinput.Blink
}

type epilogueMsg struct {
	text string
	err  error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			input := m.textInput.Value()
			m.textInput.Reset()
			m.notice = ""
			if input != "" {
				m.gameLog += "\n" + userStyle.Width(m.logWidth()).Render("> "+input) + "\n\n"
			}
			c, err := parseCommand(input, m.ctl.Choices())
			if err != nil {
				m.notice = err.Error()
				m.refresh()
				return m, nil
			}
			m, cmd = m.execute(c)
			m.refresh()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.logWidth()
		m.viewport.Height = max(msg.Height-6, 3)
		m.refresh()

	case epilogueMsg:
		m.loading = false
		if msg.err != nil {
			m.log.Warn("epilogue", "error", msg.err)
			m.notice = msg.err.Error()
			return m, nil
		}
		m.epilogue = msg.text
		m.appendGame(msg.text + "\n\n" + helpStyle.Render("Type restart to play again, or quit."))
		m.refresh()
		return m, nil
	}

	m.textInput, cmd = m.textInput.Update(msg)
	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(cmd, vpCmd)
}

// execute applies one parsed command to the controller.
func (m model) execute(c command) (model, tea.Cmd) {
	switch c.verb {
	case cmdQuit:
		return m, tea.Quit
	case cmdHelp:
		m.notice = helpText(m.ctl.State().Phase())
		return m, nil
	case cmdRestart:
		if err := m.ctl.Restart(m.ctx); err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.setup = engine.StartConfig{Housing: engine.HousingSuburb}
		m.rebalance = engine.Rebalance{}
		m.epilogue = ""
		m.gameLog = ""
		m.appendGame(m.renderScene())
		return m, nil
	}

	var err error
	switch phase := m.ctl.State().Phase(); phase {
	case models.PhaseIntro:
		err = m.configure(c)
	case models.PhasePlaying, models.PhaseSubEvent, models.PhaseRescue:
		err = m.play(c)
	case models.PhaseSummaryPending:
		if c.verb != cmdNext {
			err = wrongTime(phase)
			break
		}
		_, err = m.ctl.ProceedToSummary(m.ctx)
		if err == nil {
			m.transitioned()
		}
	case models.PhaseSummary:
		err = m.settle(c)
	case models.PhaseEnding:
		err = wrongTime(phase)
	}
	if err != nil {
		m.notice = err.Error()
		return m, nil
	}
	if m.ctl.State().Phase() == models.PhaseEnding && m.epilogue == "" && !m.loading {
		m.loading = true
		return m, m.writeEpilogue()
	}
	return m, nil
}

func (m *model) configure(c command) error {
	switch c.verb {
	case cmdHousing:
		m.setup.Housing = engine.Housing(c.id)
	case cmdInsurance:
		m.setup.Insurance = c.on
	case cmdInvest:
		if c.pool == "safe" {
			m.setup.SafeInvest = c.amount
		} else {
			m.setup.RiskyInvest = c.amount
		}
	case cmdStart:
		if err := m.ctl.Start(m.ctx, m.setup); err != nil {
			return err
		}
		m.transitioned()
		return nil
	default:
		return wrongTime(models.PhaseIntro)
	}
	m.gameLog = ""
	m.appendGame(m.renderScene())
	return nil
}

func (m *model) play(c command) error {
	sim := m.ctl.Simulation()
	if sim == nil {
		if c.verb != cmdChoose {
			return errors.New("pick a choice by number or id")
		}
		if err := m.ctl.Choose(m.ctx, c.id); err != nil {
			return err
		}
		m.transitioned()
		return nil
	}

	var err error
	switch {
	case c.verb == cmdAllocate && (sim.Type == models.SimAllocation || sim.Type == models.SimCrisisResource):
		_, err = m.ctl.ResolveAllocation(m.ctx, c.alloc)
	case c.verb == cmdStance && sim.Type == models.SimNegotiation:
		var n *engine.Negotiation
		if n, err = m.ctl.Negotiate(c.stance); err == nil {
			m.appendGame(gameStyle.Width(m.logWidth()).Render(n.Log[len(n.Log)-1]) + "\n" +
				helpStyle.Render(fmt.Sprintf("Mood %d  Pressure %d  Round %d", n.Mood, n.Pressure, n.Rounds)))
			return nil
		}
	case c.verb == cmdDeal && sim.Type == models.SimNegotiation:
		_, err = m.ctl.EndNegotiation(m.ctx)
	case c.verb == cmdOffer && sim.Type == models.SimCaili:
		_, err = m.ctl.OfferCaili(m.ctx, c.amount)
	default:
		return errors.New(simulationHelp(*sim))
	}
	if err != nil {
		return err
	}
	m.transitioned()
	return nil
}

func (m *model) settle(c command) error {
	switch c.verb {
	case cmdRebalance:
		if c.pool == "safe" {
			m.rebalance.Safe += c.amount
		} else {
			m.rebalance.Risky += c.amount
		}
		m.appendGame(helpStyle.Render(fmt.Sprintf("Pending: safe %s, risky %s. Type next to confirm.",
			m.printer.Delta(m.rebalance.Safe), m.printer.Delta(m.rebalance.Risky))))
		return nil
	case cmdNext:
		if err := m.ctl.Continue(m.ctx, m.rebalance); err != nil {
			m.rebalance = engine.Rebalance{}
			return fmt.Errorf("%w; pending trades cleared", err)
		}
		m.rebalance = engine.Rebalance{}
		m.transitioned()
		return nil
	}
	return wrongTime(models.PhaseSummary)
}

// transitioned records a successful move: snapshot, achievements, and the
// next scene.
func (m *model) transitioned() {
	state := m.ctl.State()
	if m.save {
		if err := state.Save(); err != nil {
			m.log.Error("save snapshot", "run", state.ID, "error", err)
		}
	}
	for _, a := range m.ctl.DrainUnlocked() {
		m.appendGame(titleStyle.Render("Achievement unlocked") + " " + a.Title + ": " + a.Description)
	}
	m.appendGame(m.renderScene())
}

func (m model) writeEpilogue() tea.Cmd {
	ctx, n := m.ctx, m.narrator
	state := m.ctl.State()
	e, _ := m.ctl.Ending()
	return func() tea.Msg {
		text, err := n.Epilogue(ctx, narrator.Run{Ending: e, Stats: state.Stats, Flags: state.Flags.List()})
		return epilogueMsg{text: text, err: err}
	}
}

func wrongTime(p models.Phase) error {
	return fmt.Errorf("%w (%s); type help", engine.ErrWrongStage, p)
}

func (m *model) appendGame(s string) {
	m.gameLog += s + "\n\n"
	m.refresh()
}

func (m *model) refresh() {
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m model) logWidth() int {
	return int(float64(m.width) * 0.70)
}

func (m model) View() string {
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, m.viewport.View(), m.renderState())

	footer := helpStyle.Render("Commands: help, restart, quit. Enter a number or an id to choose.")
	if m.loading {
		footer = helpStyle.Render("The narrator is writing your epilogue...")
	}
	if m.notice != "" {
		footer = noticeStyle.Render(m.notice)
	}

	return "\n" + lipgloss.JoinVertical(lipgloss.Left,
		mainView,
		"\n"+m.textInput.View(),
		"\n"+footer,
	) + "\n"
}

// Run starts the program and blocks until the player quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
