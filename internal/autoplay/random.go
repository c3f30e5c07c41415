package autoplay

import (
	"context"

	"github.com/tatianab/city-survival/internal/engine"
	"github.com/tatianab/city-survival/internal/models"
)

// Random picks uniformly among whatever is allowed.
type Random struct {
	rng engine.Rand
}

func NewRandom(rng engine.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) intn(n int) int {
	if n <= 0 {
		return 0
	}
	return min(int(r.rng.Float64()*float64(n)), n-1)
}

func (r *Random) Setup(budget int) engine.StartConfig {
	cfg := engine.StartConfig{Housing: engine.HousingSuburb, Insurance: r.intn(2) == 0}
	if r.intn(2) == 0 {
		cfg.Housing = engine.HousingCity
	}
	if cfg.Insurance {
		budget -= engine.InsuranceUpfront
	}
	// Keep a cushion of cash for the first period.
	spend := r.intn(max(budget/2, 0) + 1)
	cfg.SafeInvest = r.intn(spend + 1)
	cfg.RiskyInvest = spend - cfg.SafeInvest
	return cfg
}

func (r *Random) Choose(_ context.Context, _ string, choices []models.Choice) (string, error) {
	enabled := Enabled(choices)
	return enabled[r.intn(len(enabled))].ID, nil
}

func (r *Random) Allocate(cfg models.SimulationConfig) map[string]int {
	alloc := make(map[string]int, len(cfg.Categories))
	if len(cfg.Categories) == 0 {
		return alloc
	}
	for range cfg.TotalPoints {
		c := cfg.Categories[r.intn(len(cfg.Categories))]
		alloc[c.ID]++
	}
	return alloc
}

func (r *Random) Stance(*engine.Negotiation) engine.Stance {
	return []engine.Stance{engine.StanceHard, engine.StanceSoft, engine.StanceMediate}[r.intn(3)]
}

func (r *Random) Offer() int {
	return r.intn(engine.CailiMaxOffer + 1)
}

// Rebalance occasionally moves a slice of spare cash into one pool.
func (r *Random) Rebalance(stats models.Stats) engine.Rebalance {
	if stats.Cash <= 0 || r.intn(3) != 0 {
		return engine.Rebalance{}
	}
	amount := stats.Cash / 4
	if r.intn(2) == 0 {
		return engine.Rebalance{Safe: amount}
	}
	return engine.Rebalance{Risky: amount}
}
