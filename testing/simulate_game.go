package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tatianab/city-survival/internal/autoplay"
	"github.com/tatianab/city-survival/internal/config"
	"github.com/tatianab/city-survival/internal/content"
	"github.com/tatianab/city-survival/internal/engine"
	"github.com/tatianab/city-survival/internal/models"
	"github.com/tatianab/city-survival/internal/report"
	"github.com/tatianab/city-survival/internal/store"
)

func main() {
	ctx := context.Background()
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	games := fs.Int("games", 200, "number of runs to play")
	useLLM := fs.Bool("llm", false, "let Gemini pick the story choices (needs GEMINI_API_KEY)")
	cfg, err := config.ParseConfig(fs, os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	table, err := content.Load()
	if err != nil {
		log.Fatalf("Failed to load story: %v", err)
	}
	if err := content.Validate(table); err != nil {
		log.Fatalf("Story failed validation: %v", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = engine.NewSeed(); err != nil {
			log.Fatalf("Failed to seed: %v", err)
		}
	}

	var player *llmPlayer
	if *useLLM {
		if cfg.GeminiAPIKey == "" {
			log.Fatal("-llm needs GEMINI_API_KEY")
		}
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			log.Fatalf("Failed to create player client: %v", err)
		}
		defer client.Close()
		player = &llmPlayer{model: client.GenerativeModel(cfg.Model), log: logger}
	}

	// One profile across all runs so legacy bonuses and play counts carry.
	profile := store.NewProfile(store.NewMemory())
	printer := report.Must(cfg.Locale)

	tiers := make(map[models.Tier]int)
	categories := make(map[engine.Category]int)
	var rescues, totalWorth int
	for i := range *games {
		s := seed + int64(i)
		ctl := engine.NewController(ctx, table, profile,
			engine.WithLogger(logger),
			engine.WithRand(engine.NewRand(s)),
		)
		var policy autoplay.Policy = autoplay.NewRandom(engine.NewRand(s ^ 0x5eed))
		if player != nil {
			player.Random = autoplay.NewRandom(engine.NewRand(s ^ 0x5eed))
			policy = player
		}
		res, err := autoplay.Play(ctx, ctl, policy, logger)
		if err != nil {
			log.Fatalf("Run %d (seed %d) failed: %v", i, s, err)
		}
		tiers[res.Ending.Tier]++
		categories[res.Ending.Category]++
		rescues += res.Rescues
		totalWorth += res.Ending.NetWorth
		logger.Info("run finished", "run", i, "seed", s, "tier", res.Ending.Tier, "category", res.Ending.Category,
			"net_worth", res.Ending.NetWorth, "steps", res.Steps, "rescues", res.Rescues)
		if err := ctl.Restart(ctx); err != nil {
			log.Fatalf("Restart failed: %v", err)
		}
	}

	fmt.Printf("--- %d runs from seed %d ---\n", *games, seed)
	for _, t := range slices.Sorted(maps.Keys(tiers)) {
		fmt.Printf("%-10s %5d  %s\n", t, tiers[t], printer.Percent(float64(tiers[t])/float64(*games)))
	}
	fmt.Println()
	for _, c := range slices.Sorted(maps.Keys(categories)) {
		fmt.Printf("%-22s %5d\n", report.Title(c), categories[c])
	}
	if *games > 0 {
		fmt.Printf("\nAverage net worth: %s\n", printer.Money(totalWorth / *games))
		fmt.Printf("Rescues per run:   %.2f\n", float64(rescues)/float64(*games))
	}
}

// llmPlayer asks Gemini for story choices and leaves the mini-games to the
// embedded random policy.
type llmPlayer struct {
	*autoplay.Random
	model *genai.GenerativeModel
	log   *slog.Logger
}

func (p *llmPlayer) Choose(ctx context.Context, scene string, choices []models.Choice) (string, error) {
	enabled := autoplay.Enabled(choices)
	var list strings.Builder
	for _, c := range enabled {
		fmt.Fprintf(&list, "- %s: %s. %s\n", c.ID, c.Text, c.Description)
	}
	prompt := fmt.Sprintf(`You are playing a life simulation about surviving two years as an office worker in a big city.

Scene:
%s

Options:
%s
Which option do you take? Return ONLY the option id, no extra commentary.`, scene, list.String())

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err == nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		answer := strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
		for _, c := range enabled {
			if strings.EqualFold(answer, c.ID) {
				return c.ID, nil
			}
		}
		p.log.Debug("player answered with an unknown id", "answer", answer)
	} else if err != nil {
		p.log.Warn("player model failed, choosing at random", "error", err)
	}
	return p.Random.Choose(ctx, scene, choices)
}
