// Package autoplay drives a Controller from start to ending without a human.
package autoplay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tatianab/city-survival/internal/engine"
	"github.com/tatianab/city-survival/internal/models"
)

// MaxSteps bounds a single run. A full run takes well under a hundred.
const MaxSteps = 500

// ErrStuck means the run stopped offering a way forward.
var ErrStuck = errors.New("run cannot advance")

// Policy makes every decision a player would.
type Policy interface {
	Setup(budget int) engine.StartConfig
	Choose(ctx context.Context, context string, choices []models.Choice) (string, error)
	Allocate(cfg models.SimulationConfig) map[string]int
	Stance(n *engine.Negotiation) engine.Stance
	Offer() int
	Rebalance(stats models.Stats) engine.Rebalance
}

// Result summarises a finished run.
type Result struct {
	Ending  engine.Ending
	State   *models.RunState
	Steps   int
	Rescues int
}

// Play runs ctl from the intro screen to the ending. The controller must
// be on the intro screen.
func Play(ctx context.Context, ctl *engine.Controller, p Policy, log *slog.Logger) (Result, error) {
	if log == nil {
		log = slog.Default()
	}
	probe := engine.StartConfig{Housing: engine.HousingCity}
	if err := ctl.Start(ctx, p.Setup(ctl.Budget(probe))); err != nil {
		return Result{}, fmt.Errorf("start: %w", err)
	}

	var res Result
	for res.Steps = 0; res.Steps < MaxSteps; res.Steps++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		state := ctl.State()
		switch state.Phase() {
		case models.PhaseEnding:
			e, ok := ctl.Ending()
			if !ok {
				return res, fmt.Errorf("%w: ending not classified", ErrStuck)
			}
			res.Ending, res.State = e, state
			log.Debug("autoplay finished", "run", state.ID, "tier", e.Tier, "category", e.Category, "steps", res.Steps)
			return res, nil
		case models.PhaseSummaryPending:
			if _, err := ctl.ProceedToSummary(ctx); err != nil {
				return res, err
			}
		case models.PhaseSummary:
			if err := ctl.Continue(ctx, p.Rebalance(state.Stats)); err != nil {
				// A policy that overreaches still lets the run go on.
				log.Debug("rebalance rejected", "error", err)
				if err := ctl.Continue(ctx, engine.Rebalance{}); err != nil {
					return res, err
				}
			}
		default:
			if state.Phase() == models.PhaseRescue {
				res.Rescues++
			}
			if err := step(ctx, ctl, p); err != nil {
				return res, fmt.Errorf("node %d (%s): %w", state.NodeIndex, state.Phase(), err)
			}
		}
	}
	return res, fmt.Errorf("%w: no ending after %d steps", ErrStuck, MaxSteps)
}

func step(ctx context.Context, ctl *engine.Controller, p Policy) error {
	if sim := ctl.Simulation(); sim != nil {
		var err error
		switch sim.Type {
		case models.SimAllocation, models.SimCrisisResource:
			_, err = ctl.ResolveAllocation(ctx, p.Allocate(*sim))
		case models.SimNegotiation:
			for range 3 {
				n := ctl.Negotiation()
				if _, err = ctl.Negotiate(p.Stance(n)); err != nil {
					return err
				}
			}
			_, err = ctl.EndNegotiation(ctx)
		case models.SimCaili:
			_, err = ctl.OfferCaili(ctx, p.Offer())
		default:
			err = fmt.Errorf("%w: simulation %s", ErrStuck, sim.Type)
		}
		return err
	}

	choices := ctl.Choices()
	if !anyEnabled(choices) {
		return fmt.Errorf("%w: no enabled choice", ErrStuck)
	}
	id, err := p.Choose(ctx, ctl.Context(), choices)
	if err != nil {
		return err
	}
	return ctl.Choose(ctx, id)
}

func anyEnabled(choices []models.Choice) bool {
	for _, c := range choices {
		if !c.Disabled {
			return true
		}
	}
	return false
}

// Enabled filters out disabled choices.
func Enabled(choices []models.Choice) []models.Choice {
	var out []models.Choice
	for _, c := range choices {
		if !c.Disabled {
			out = append(out, c)
		}
	}
	return out
}
