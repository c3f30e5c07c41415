package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/tatianab/city-survival/internal/models"
)

// Keys written by Profile.
const (
	KeyPlayCount    = "csl_play_count"
	KeyAchievements = "csl_achievements"
	KeyPreviousTier = "csl_prev_tier"
)

// Profile is the typed view of the durable player record.
type Profile struct {
	s Store
}

func NewProfile(s Store) *Profile {
	return &Profile{s: s}
}

// PlayCount defaults to 1 before the first restart.
func (p *Profile) PlayCount(ctx context.Context) (int, error) {
	v, err := p.s.Get(ctx, KeyPlayCount)
	if errors.Is(err, ErrNotFound) {
		return 1, nil
	}
	if err != nil {
		return 1, fmt.Errorf("get play count: %w", err)
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 1, fmt.Errorf("get play count: bad value %q", v)
	}
	return n, nil
}

func (p *Profile) SetPlayCount(ctx context.Context, n int) error {
	if err := p.s.Set(ctx, KeyPlayCount, strconv.Itoa(n)); err != nil {
		return fmt.Errorf("set play count: %w", err)
	}
	return nil
}

// Achievements is stored as a JSON array of ids.
func (p *Profile) Achievements(ctx context.Context) ([]string, error) {
	v, err := p.s.Get(ctx, KeyAchievements)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get achievements: %w", err)
	}
	var ids []string
	if err := json.Unmarshal([]byte(v), &ids); err != nil {
		return nil, fmt.Errorf("get achievements: %w", err)
	}
	return ids, nil
}

func (p *Profile) SetAchievements(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("set achievements: %w", err)
	}
	if err := p.s.Set(ctx, KeyAchievements, string(raw)); err != nil {
		return fmt.Errorf("set achievements: %w", err)
	}
	return nil
}

// PreviousTier is empty until a run has ended.
func (p *Profile) PreviousTier(ctx context.Context) (models.Tier, error) {
	v, err := p.s.Get(ctx, KeyPreviousTier)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get previous tier: %w", err)
	}
	return models.Tier(v), nil
}

func (p *Profile) SetPreviousTier(ctx context.Context, tier models.Tier) error {
	if err := p.s.Set(ctx, KeyPreviousTier, string(tier)); err != nil {
		return fmt.Errorf("set previous tier: %w", err)
	}
	return nil
}
