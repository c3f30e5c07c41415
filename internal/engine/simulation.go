package engine

import (
	"fmt"
	"slices"

	"github.com/tatianab/city-survival/internal/models"
)

// SimResult is the outcome of a mini-game, expressed as a synthetic choice
// that flows through ApplyChoice like any other.
type SimResult struct {
	Choice models.Choice
	Text   string
}

const simConfirmID = "sim-confirm"

// ResolveAllocation scores a points allocation across the categories of
// an ALLOCATION or CRISIS_RESOURCE simulation.
func ResolveAllocation(cfg models.SimulationConfig, alloc map[string]int) (SimResult, error) {
	if err := validateAllocation(cfg, alloc); err != nil {
		return SimResult{}, err
	}
	switch cfg.Type {
	case models.SimAllocation:
		return resolveHoliday(cfg, alloc), nil
	case models.SimCrisisResource:
		return resolveCrisis(alloc), nil
	}
	return SimResult{}, fmt.Errorf("%w: %s is not a points simulation", ErrNoSimulation, cfg.Type)
}

func validateAllocation(cfg models.SimulationConfig, alloc map[string]int) error {
	total := 0
	for id, n := range alloc {
		if n < 0 {
			return fmt.Errorf("%w: %s is negative", ErrInvalidAllocation, id)
		}
		if len(cfg.Categories) > 0 && !slices.ContainsFunc(cfg.Categories, func(c models.SimCategory) bool { return c.ID == id }) {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidAllocation, id)
		}
		total += n
	}
	if cfg.TotalPoints > 0 && total != cfg.TotalPoints {
		return fmt.Errorf("%w: %d points allocated, exactly %d required", ErrInvalidAllocation, total, cfg.TotalPoints)
	}
	return nil
}

func resolveHoliday(cfg models.SimulationConfig, alloc map[string]int) SimResult {
	rest := alloc["rest"]
	consumption := alloc["travel"] + alloc["social"]
	production := alloc["work"] + alloc["hustle"]
	total := max(cfg.TotalPoints, 1)

	res := SimResult{Choice: models.Choice{
		ID:   simConfirmID,
		Text: "Confirm",
		Effects: []models.Effect{
			models.E(models.StatBody, rest*2-production*3),
			models.E(models.StatMind, rest+consumption*4-production*2),
			models.E(models.StatCash, production*800-consumption*1500),
		},
	}}
	switch {
	case float64(production) > float64(total)*0.5:
		res.Choice.Flag = models.FlagWorkaholic
		res.Text = "You worked straight through the holiday. Your wallet is fuller and your body feels hollowed out."
	case float64(consumption) > float64(total)*0.5:
		res.Choice.Flag = models.FlagHedonist
		res.Text = "The trip drained your savings, but the likes made it feel worth it."
	default:
		res.Text = "An unremarkable break. Everything went more or less to plan."
	}
	return res
}

func resolveCrisis(alloc map[string]int) SimResult {
	blame := float64(alloc["blame"])
	overtime := float64(alloc["overtime"])
	ignore := float64(alloc["ignore"])
	score := blame*1.2 + overtime*1.0 + ignore*0.1

	res := SimResult{Choice: models.Choice{
		ID:   simConfirmID,
		Text: "Confirm",
		Effects: []models.Effect{
			models.E(models.StatMoral, models.Round(-(blame * 0.4))),
			models.E(models.StatBody, models.Round(-(overtime * 0.3))),
			models.E(models.StatMind, models.Round(ignore*0.1)),
		},
	}}
	switch {
	case score >= 80:
		res.Choice.Flag = models.FlagCrisisAverted
		res.Choice.Effects = append(res.Choice.Effects, models.E(models.StatMind, 5))
		res.Text = "Crisis defused. Your handling worked, or was slippery enough, and your seat is safe."
	case score >= 50:
		res.Choice.Flag = models.FlagCrisisSurvived
		res.Choice.Effects = append(res.Choice.Effects, models.E(models.StatCash, -2000))
		res.Text = "You scraped through, but your manager will remember this."
	default:
		res.Choice.Flag = models.FlagCrisisFailed
		res.Choice.Effects = append(res.Choice.Effects, models.E(models.StatCash, -8000), models.E(models.StatMind, -15))
		res.Text = "You were left holding the blame and face suspension and a pay cut."
	}
	return res
}

// Stance is one move in a NEGOTIATION round.
type Stance string

const (
	StanceHard    Stance = "HARD"
	StanceSoft    Stance = "SOFT"
	StanceMediate Stance = "MEDIATE"
)

// Negotiation tracks an in-progress NEGOTIATION mini-game.
type Negotiation struct {
	Mood     int      `yaml:"mood"`
	Pressure int      `yaml:"pressure"`
	Rounds   int      `yaml:"rounds"`
	Log      []string `yaml:"log,omitempty"`
}

// NewNegotiation starts both gauges at 50.
func NewNegotiation() *Negotiation {
	return &Negotiation{Mood: 50, Pressure: 50}
}

// Play applies one stance.
func (n *Negotiation) Play(s Stance) error {
	var mood, pressure int
	var line string
	switch s {
	case StanceHard:
		mood, pressure = -20, 30
		line = "You flatly refuse. Their face darkens, but they have felt your limit."
	case StanceSoft:
		mood, pressure = 15, -10
		line = "You try to reason gently. They soften, and start treating you as a pushover."
	case StanceMediate:
		mood, pressure = -5, 10
		line = "You bring in facts and a third party. Awkward, but the talk turns rational."
	default:
		return fmt.Errorf("%w: unknown stance %q", ErrInvalidAllocation, s)
	}
	n.Mood = max(0, min(100, n.Mood+mood))
	n.Pressure = max(0, min(100, n.Pressure+pressure))
	n.Rounds++
	n.Log = append(n.Log, line)
	return nil
}

// Result closes the negotiation.
func (n *Negotiation) Result() SimResult {
	res := SimResult{Choice: models.Choice{ID: simConfirmID, Text: "Confirm"}}
	switch {
	case n.Pressure > 80:
		res.Choice.Flag = models.FlagNegBreakdown
		res.Choice.Effects = []models.Effect{models.E(models.StatMind, -10), models.E(models.StatMoral, 5), models.E(models.StatCash, 0)}
		res.Text = "Talks collapse. You kept your dignity and they slammed the door."
	case n.Mood > 80:
		res.Choice.Flag = models.FlagNegCompromise
		res.Choice.Effects = []models.Effect{models.E(models.StatCash, -20000), models.E(models.StatMoral, 10)}
		res.Text = "You conceded a lot. They are delighted and your savings are thinner."
	default:
		res.Choice.Flag = models.FlagNegSuccess
		res.Choice.Effects = []models.Effect{models.E(models.StatCash, -5000), models.E(models.StatMind, 5)}
		res.Text = "A deal. Both sides gave ground and life goes on."
	}
	return res
}

// Bride-price offer bounds, in units of 10k.
const (
	CailiMaxOffer = 35
	cailiLow      = 10
	cailiHigh     = 20
	cailiUnit     = 10000
)

// ResolveCaili settles the bride-price negotiation for an offer in units
// of 10k. Parents cannot chip in when they already funded a house or the
// player has burned every bridge.
func ResolveCaili(offer int, flags models.FlagReader) (SimResult, error) {
	if offer < 0 || offer > CailiMaxOffer {
		return SimResult{}, fmt.Errorf("%w: offer %d outside 0..%d", ErrInvalidAllocation, offer, CailiMaxOffer)
	}
	total := offer * cailiUnit

	switch {
	case offer < cailiLow:
		return SimResult{
			Choice: models.Choice{ID: "caili-submit-low", Text: "Low offer", NextEventID: "n9-sub-caili-result-low",
				Effects: []models.Effect{models.E(models.StatMind, -20), models.E(models.StatBody, -10)}},
			Text: "Your partner thinks you are not serious. The relationship is in trouble.",
		}, nil
	case offer > cailiHigh:
		return SimResult{
			Choice: models.Choice{ID: "caili-submit-high", Text: "High offer", NextEventID: "n9-sub-caili-result-high",
				Effects: []models.Effect{models.E(models.StatMind, 20), models.E(models.StatMoral, 5)}},
			Text: "The in-laws beam.",
		}, nil
	case flags.HasAny(models.FlagOwnHouse, models.FlagSocialIsolation):
		return SimResult{
			Choice: models.Choice{ID: "caili-submit-mid-house", Text: "Mid offer, self-funded", NextEventID: "n9-sub-caili-result-mid-house",
				Effects: []models.Effect{models.E(models.StatCash, -total), models.E(models.StatMind, -20)}},
			Text: "Your parents cannot help this time. You pay the whole amount yourself.",
		}, nil
	}
	return SimResult{
		Choice: models.Choice{ID: "caili-submit-mid-norm", Text: "Mid offer, split", NextEventID: "n9-sub-caili-result-mid-norm",
			Effects: []models.Effect{models.E(models.StatCash, -total/5), models.E(models.StatMind, -25)}},
		Text: "Your parents cover most of it. You pay a fifth.",
	}, nil
}
