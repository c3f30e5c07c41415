package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/tatianab/city-survival/internal/models"
)

// Profile is the small durable record that outlives a run.
type Profile interface {
	PlayCount(ctx context.Context) (int, error)
	SetPlayCount(ctx context.Context, n int) error
	Achievements(ctx context.Context) ([]string, error)
	SetAchievements(ctx context.Context, ids []string) error
	PreviousTier(ctx context.Context) (models.Tier, error)
	SetPreviousTier(ctx context.Context, tier models.Tier) error
}

// Housing is the opening rental choice.
type Housing string

const (
	HousingCity   Housing = "city"
	HousingSuburb Housing = "suburb"
)

// Opening costs and pools.
const (
	StartPool        = 50000
	LegacyBonus      = 5000
	CityDeposit      = 6000
	SuburbDeposit    = 3500
	InsuranceUpfront = 4000
)

// StartConfig is the player's opening setup.
type StartConfig struct {
	Housing     Housing
	Insurance   bool
	SafeInvest  int
	RiskyInvest int
}

// Rebalance moves cash into (positive) or out of (negative) the pools when
// leaving a settlement report.
type Rebalance struct {
	Safe  int
	Risky int
}

// Controller owns the authoritative run state and drives every transition.
// It is not safe for concurrent use; callers serialise player actions.
type Controller struct {
	table   models.Table
	profile Profile
	rng     Rand
	log     *slog.Logger

	state       *models.RunState
	playCount   int
	unlocked    []string
	prevTier    models.Tier
	pending     []string
	negotiation *Negotiation
	ending      *Ending
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithRand sets the random source used for run seeds and settlement.
func WithRand(r Rand) Option {
	return func(c *Controller) { c.rng = r }
}

// NewController loads the profile and returns a controller sitting on the
// intro screen. Profile read failures are logged and fall back to defaults.
func NewController(ctx context.Context, table models.Table, profile Profile, opts ...Option) *Controller {
	c := &Controller{
		table:     table,
		profile:   profile,
		log:       slog.Default(),
		playCount: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		seed, err := NewSeed()
		if err != nil {
			c.log.Warn("falling back to fixed seed", "error", err)
		}
		c.rng = NewRand(seed)
	}

	if n, err := profile.PlayCount(ctx); err != nil {
		c.log.Warn("read play count", "error", err)
	} else if n > 0 {
		c.playCount = n
	}
	if ids, err := profile.Achievements(ctx); err != nil {
		c.log.Warn("read achievements", "error", err)
	} else {
		c.unlocked = ids
	}
	if tier, err := profile.PreviousTier(ctx); err != nil {
		c.log.Warn("read previous tier", "error", err)
	} else {
		c.prevTier = tier
	}

	c.state = models.NewRunState(uuid.NewString())
	return c
}

// State returns a copy of the current run state.
func (c *Controller) State() *models.RunState { return c.state.Clone() }

// Table returns the story the controller runs over.
func (c *Controller) Table() models.Table { return c.table }

func (c *Controller) PlayCount() int { return c.playCount }

func (c *Controller) PreviousTier() models.Tier { return c.prevTier }

func (c *Controller) Unlocked() []string { return slices.Clone(c.unlocked) }

// LegacyAvailable reports whether the last run ended in ASCEND.
func (c *Controller) LegacyAvailable() bool { return c.prevTier == models.TierAscend }

// Negotiation returns the in-progress negotiation, if one has started.
func (c *Controller) Negotiation() *Negotiation { return c.negotiation }

// Choices lists the selectable choices for the current phase.
func (c *Controller) Choices() []models.Choice { return CurrentChoices(c.table, c.state) }

// Context renders the narrative for the current phase.
func (c *Controller) Context() string { return CurrentContext(c.table, c.state) }

// Simulation returns the active mini-game, if any.
func (c *Controller) Simulation() *models.SimulationConfig {
	return CurrentSimulation(c.table, c.state)
}

// Node returns the node under the cursor.
func (c *Controller) Node() (models.Node, bool) { return c.table.Node(c.state.NodeIndex) }

// Budget is the amount available for opening investments under cfg.
func (c *Controller) Budget(cfg StartConfig) int {
	pool := StartPool
	if c.LegacyAvailable() {
		pool += LegacyBonus
	}
	return pool - fixedCosts(cfg)
}

func fixedCosts(cfg StartConfig) int {
	cost := SuburbDeposit
	if cfg.Housing == HousingCity {
		cost = CityDeposit
	}
	if cfg.Insurance {
		cost += InsuranceUpfront
	}
	return cost
}

// Start applies the opening setup and moves the run into PLAYING.
func (c *Controller) Start(ctx context.Context, cfg StartConfig) error {
	if c.state.Stage != models.StageIntro {
		return fmt.Errorf("start: %w", ErrWrongStage)
	}
	if cfg.SafeInvest < 0 || cfg.RiskyInvest < 0 {
		return fmt.Errorf("start: %w: negative investment", ErrInvalidAllocation)
	}
	if cfg.Housing != HousingCity && cfg.Housing != HousingSuburb {
		return fmt.Errorf("start: %w: housing %q", ErrInvalidAllocation, cfg.Housing)
	}
	if budget := c.Budget(cfg); cfg.SafeInvest+cfg.RiskyInvest > budget {
		return fmt.Errorf("start: %w: %d requested, %d available", ErrOverBudget, cfg.SafeInvest+cfg.RiskyInvest, budget)
	}

	legacy := c.LegacyAvailable()
	cashChange := -fixedCosts(cfg) - cfg.SafeInvest - cfg.RiskyInvest

	var flags []string
	if cfg.Housing == HousingCity {
		flags = append(flags, models.FlagRentCity)
	} else {
		flags = append(flags, models.FlagRentSuburb)
	}
	if legacy {
		cashChange += LegacyBonus
		flags = append(flags, models.FlagLegacy)
	}
	if cfg.Insurance {
		flags = append(flags, models.FlagInsuranceYes)
	} else {
		flags = append(flags, models.FlagInsuranceNo)
	}

	effects := []models.Effect{
		models.E(models.StatSafeInvest, cfg.SafeInvest),
		models.E(models.StatRiskyInvest, cfg.RiskyInvest),
		models.E(models.StatCash, cashChange),
	}

	s := c.state
	s.Stats = s.Stats.Apply(effects)
	s.Flags = models.NewFlagSet(flags...)
	s.Stage = models.StagePlaying
	s.NodeIndex = 0
	s.Seed = c.rng.Float64()
	s.LastRoundEffects = effects
	s.Legacy = s.Flags.Has(models.FlagLegacy)
	s.LastRescueNodeIndex = -10

	c.log.Debug("run started", "run", s.ID, "housing", cfg.Housing, "insurance", cfg.Insurance, "legacy", legacy)
	c.unlock(ctx, AchievementFirstStep)
	c.afterMutation(ctx)
	return nil
}

// Choose applies the choice with the given id from the current phase.
func (c *Controller) Choose(ctx context.Context, id string) error {
	switch c.state.Phase() {
	case models.PhasePlaying, models.PhaseSubEvent, models.PhaseRescue:
	default:
		return fmt.Errorf("choose %s: %w", id, ErrWrongStage)
	}
	choices := c.Choices()
	i := slices.IndexFunc(choices, func(ch models.Choice) bool { return ch.ID == id })
	if i < 0 {
		return fmt.Errorf("choose %s: %w", id, ErrUnknownChoice)
	}
	if choices[i].Disabled {
		return fmt.Errorf("choose %s: %w: %s", id, ErrChoiceDisabled, choices[i].DisabledReason)
	}
	c.apply(ctx, choices[i])
	return nil
}

// ResolveAllocation submits a points allocation for the active ALLOCATION
// or CRISIS_RESOURCE simulation.
func (c *Controller) ResolveAllocation(ctx context.Context, alloc map[string]int) (SimResult, error) {
	sim := c.Simulation()
	if sim == nil || (sim.Type != models.SimAllocation && sim.Type != models.SimCrisisResource) {
		return SimResult{}, fmt.Errorf("allocate: %w", ErrNoSimulation)
	}
	res, err := ResolveAllocation(*sim, alloc)
	if err != nil {
		return SimResult{}, fmt.Errorf("allocate: %w", err)
	}
	c.apply(ctx, res.Choice)
	c.setResultText(res.Text)
	return res, nil
}

// Negotiate plays one round of the active NEGOTIATION simulation.
func (c *Controller) Negotiate(stance Stance) (*Negotiation, error) {
	sim := c.Simulation()
	if sim == nil || sim.Type != models.SimNegotiation {
		return nil, fmt.Errorf("negotiate: %w", ErrNoSimulation)
	}
	if c.negotiation == nil {
		c.negotiation = NewNegotiation()
	}
	if err := c.negotiation.Play(stance); err != nil {
		return nil, fmt.Errorf("negotiate: %w", err)
	}
	return c.negotiation, nil
}

// EndNegotiation closes the active NEGOTIATION simulation.
func (c *Controller) EndNegotiation(ctx context.Context) (SimResult, error) {
	sim := c.Simulation()
	if sim == nil || sim.Type != models.SimNegotiation {
		return SimResult{}, fmt.Errorf("end negotiation: %w", ErrNoSimulation)
	}
	n := c.negotiation
	if n == nil {
		n = NewNegotiation()
	}
	res := n.Result()
	c.negotiation = nil
	c.apply(ctx, res.Choice)
	c.setResultText(res.Text)
	return res, nil
}

// OfferCaili submits the bride-price offer, in units of 10k.
func (c *Controller) OfferCaili(ctx context.Context, offer int) (SimResult, error) {
	sim := c.Simulation()
	if sim == nil || sim.Type != models.SimCaili {
		return SimResult{}, fmt.Errorf("offer: %w", ErrNoSimulation)
	}
	res, err := ResolveCaili(offer, c.state.Flags)
	if err != nil {
		return SimResult{}, fmt.Errorf("offer: %w", err)
	}
	c.apply(ctx, res.Choice)
	return res, nil
}

// ProceedToSummary runs the period settlement and shows its report.
func (c *Controller) ProceedToSummary(ctx context.Context) (models.Summary, error) {
	if c.state.Phase() != models.PhaseSummaryPending {
		return models.Summary{}, fmt.Errorf("proceed to summary: %w", ErrWrongStage)
	}
	stats, summary, flag := Settle(c.table, c.state, c.rng)

	s := c.state
	s.Stats = stats
	s.Flags.Add(flag)
	s.Stage = models.StageSummary
	s.SummaryPending = false
	s.ActiveRescue = nil
	s.SubEventID = ""
	s.LastSummary = &summary
	s.LastRoundEffects = nil

	c.log.Debug("period settled",
		"run", s.ID,
		"month", summary.Month,
		"salary", summary.Salary,
		"rent", summary.Rent,
		"living", summary.LivingCost,
		"interest", summary.DebtInterest,
		"total", summary.TotalChange,
		"flag", flag,
	)
	c.afterMutation(ctx)
	return summary, nil
}

// Continue leaves the settlement report, applying the portfolio rebalance,
// and enters the next node.
func (c *Controller) Continue(ctx context.Context, r Rebalance) error {
	if c.state.Phase() != models.PhaseSummary {
		return fmt.Errorf("continue: %w", ErrWrongStage)
	}
	s := c.state
	if s.Stats.SafeInvest+r.Safe < 0 || s.Stats.RiskyInvest+r.Risky < 0 {
		return fmt.Errorf("continue: %w: pool would go negative", ErrInvalidRebalance)
	}
	if (r.Safe > 0 || r.Risky > 0) && s.Stats.Cash-r.Safe-r.Risky < 0 {
		return fmt.Errorf("continue: %w", ErrInvalidRebalance)
	}

	s.Stats.SafeInvest += r.Safe
	s.Stats.RiskyInvest += r.Risky
	s.Stats.Cash -= r.Safe + r.Risky

	nextIndex := s.NodeIndex + 1
	if nextIndex >= len(c.table) {
		s.NodeIndex = nextIndex
		s.Stage = models.StageEnding
		c.afterMutation(ctx)
		return nil
	}
	enterNode(c.table, s, nextIndex, nil)
	c.logArrival(s)
	c.afterMutation(ctx)
	return nil
}

// Restart discards the run and returns to the intro screen.
func (c *Controller) Restart(ctx context.Context) error {
	c.playCount++
	if err := c.profile.SetPlayCount(ctx, c.playCount); err != nil {
		c.log.Error("write play count", "error", err)
	}
	c.state = models.NewRunState(uuid.NewString())
	c.pending = nil
	c.negotiation = nil
	c.ending = nil
	c.log.Debug("run restarted", "run", c.state.ID, "play_count", c.playCount)
	return nil
}

// Resume replaces the current run with a loaded snapshot.
func (c *Controller) Resume(ctx context.Context, state *models.RunState) {
	c.state = state.Clone()
	c.negotiation = nil
	c.ending = nil
	c.afterMutation(ctx)
}

// Ending returns the verdict once the run has finished.
func (c *Controller) Ending() (Ending, bool) {
	if c.ending == nil {
		return Ending{}, false
	}
	return *c.ending, true
}

// DrainUnlocked returns achievements unlocked since the last call.
func (c *Controller) DrainUnlocked() []Achievement {
	var out []Achievement
	for _, id := range c.pending {
		if a, ok := LookupAchievement(id); ok {
			out = append(out, a)
		}
	}
	c.pending = nil
	return out
}

func (c *Controller) apply(ctx context.Context, choice models.Choice) {
	prev := c.state.NodeIndex
	c.state = ApplyChoice(c.table, c.state, choice)
	c.log.Debug("choice applied", "run", c.state.ID, "choice", choice.ID, "phase", c.state.Phase())
	if c.state.NodeIndex != prev && c.state.Stage == models.StagePlaying {
		c.logArrival(c.state)
	}
	c.afterMutation(ctx)
}

func (c *Controller) setResultText(text string) {
	if c.state.LastEventLog == "" && c.state.ActiveRescue == nil {
		c.state.LastEventLog = text
	}
}

func (c *Controller) logArrival(s *models.RunState) {
	if s.ActiveRescue != nil {
		c.log.Debug("rescue armed", "run", s.ID, "node", s.NodeIndex, "rescue", s.ActiveRescue.ID)
		return
	}
	c.log.Debug("node entered", "run", s.ID, "node", s.NodeIndex)
}

// afterMutation evaluates achievements and finalises an ended run.
func (c *Controller) afterMutation(ctx context.Context) {
	for _, id := range EvaluateAchievements(c.state, c.unlocked) {
		c.unlock(ctx, id)
	}
	if c.state.Stage == models.StageEnding && c.ending == nil {
		e := ClassifyEnding(c.state.Stats, c.state.Flags, c.state.History)
		c.ending = &e
		c.prevTier = e.Tier
		if err := c.profile.SetPreviousTier(ctx, e.Tier); err != nil {
			c.log.Error("write previous tier", "error", err)
		}
		c.log.Info("run ended", "run", c.state.ID, "tier", e.Tier, "category", e.Category, "net_worth", e.NetWorth)
	}
}

func (c *Controller) unlock(ctx context.Context, id string) {
	if slices.Contains(c.unlocked, id) {
		return
	}
	c.unlocked = append(c.unlocked, id)
	c.pending = append(c.pending, id)
	if err := c.profile.SetAchievements(ctx, c.unlocked); err != nil {
		c.log.Error("write achievements", "error", err)
	}
	c.log.Debug("achievement unlocked", "id", id)
}
