package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tatianab/city-survival/internal/models"
)

// plainTable builds n FLAT nodes, two months apart, each offering a single
// choice "c<i>" that advances the cursor.
func plainTable(n int) models.Table {
	t := make(models.Table, n)
	for i := range t {
		t[i] = models.Node{
			ID:      fmt.Sprintf("node-%d", i),
			Month:   (i + 1) * 2,
			Title:   fmt.Sprintf("Node %d", i),
			Trend:   models.TrendFlat,
			Context: models.Text(fmt.Sprintf("context %d", i)),
			Choices: models.StaticChoices(models.Choice{ID: fmt.Sprintf("c%d", i), Text: "next"}),
		}
	}
	return t
}

func playingState(nodeIndex int, flags ...string) *models.RunState {
	s := models.NewRunState("test-run")
	s.Stage = models.StagePlaying
	s.NodeIndex = nodeIndex
	s.Flags = models.NewFlagSet(flags...)
	return s
}

func effect(effects []models.Effect, key models.StatKey) (int, bool) {
	total, found := 0, false
	for _, e := range effects {
		if e.Stat == key {
			total += e.Value
			found = true
		}
	}
	return total, found
}

type memProfile struct {
	playCount    int
	achievements []string
	tier         models.Tier
	err          error
}

func (p *memProfile) PlayCount(context.Context) (int, error) { return p.playCount, p.err }

func (p *memProfile) SetPlayCount(_ context.Context, n int) error {
	p.playCount = n
	return p.err
}

func (p *memProfile) Achievements(context.Context) ([]string, error) { return p.achievements, p.err }

func (p *memProfile) SetAchievements(_ context.Context, ids []string) error {
	p.achievements = append([]string(nil), ids...)
	return p.err
}

func (p *memProfile) PreviousTier(context.Context) (models.Tier, error) { return p.tier, p.err }

func (p *memProfile) SetPreviousTier(_ context.Context, tier models.Tier) error {
	p.tier = tier
	return p.err
}

func quietLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }
