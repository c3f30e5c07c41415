// Package narrator writes the closing epilogue of a run. With a Gemini API
// key it asks the model; otherwise, or when the model fails, it falls back
// to the fixed verdict text.
package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tatianab/city-survival/internal/engine"
	"github.com/tatianab/city-survival/internal/models"
	"github.com/tatianab/city-survival/internal/report"
)

//go:embed prompts/epilogue.txt
var epiloguePrompt string

var epilogueTmpl = template.Must(template.New("epilogue").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(epiloguePrompt))

const maxWords = 120

var errNoContent = errors.New("no content returned from Gemini")

// Run is what the narrator sees of a finished run.
type Run struct {
	Ending engine.Ending
	Stats  models.Stats
	Flags  []string
}

// Narrator writes an epilogue for a finished run.
type Narrator interface {
	Epilogue(ctx context.Context, run Run) (string, error)
}

// Static returns the fixed verdict for the ending category.
type Static struct{}

func (Static) Epilogue(_ context.Context, run Run) (string, error) {
	return report.Verdict(run.Ending.Category), nil
}

type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Gemini asks a generative model for the epilogue.
type Gemini struct {
	client *genai.Client
	model  generator
	log    *slog.Logger
}

// NewGemini connects to the Gemini API.
func NewGemini(ctx context.Context, apiKey, model string, log *slog.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	m := client.GenerativeModel(model)
	m.SetTemperature(0.9)
	return &Gemini{client: client, model: m, log: log}, nil
}

func (g *Gemini) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

// Epilogue never fails: a model error is logged and the fixed verdict is
// returned instead.
func (g *Gemini) Epilogue(ctx context.Context, run Run) (string, error) {
	prompt, err := renderPrompt(run)
	if err != nil {
		return "", err
	}
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err == nil {
		var text string
		if text, err = extractText(resp); err == nil {
			return text, nil
		}
	}
	g.log.Warn("epilogue generation failed, using fixed verdict", "error", err, "category", run.Ending.Category)
	return Static{}.Epilogue(ctx, run)
}

// New picks Gemini when an API key is configured and Static otherwise.
// The returned close function is always safe to call.
func New(ctx context.Context, apiKey, model string, log *slog.Logger) (Narrator, func(), error) {
	if apiKey == "" {
		return Static{}, func() {}, nil
	}
	g, err := NewGemini(ctx, apiKey, model, log)
	if err != nil {
		return nil, nil, err
	}
	return g, g.Close, nil
}

func renderPrompt(run Run) (string, error) {
	e := run.Ending
	var buf bytes.Buffer
	err := epilogueTmpl.Execute(&buf, struct {
		MaxWords int
		Title    string
		Tier     models.Tier
		Verdict  string
		NetWorth string
		Stats    models.Stats
		Failed   []string
		Flags    []string
		Abroad   bool
		LeftCity bool
	}{
		MaxWords: maxWords,
		Title:    report.Title(e.Category),
		Tier:     e.Tier,
		Verdict:  report.Verdict(e.Category),
		NetWorth: report.Must(report.DefaultLocale).Money(e.NetWorth),
		Stats:    run.Stats,
		Failed:   e.Failed,
		Flags:    run.Flags,
		Abroad:   e.Abroad,
		LeftCity: e.LeftCity,
	})
	if err != nil {
		return "", fmt.Errorf("render epilogue prompt: %w", err)
	}
	return buf.String(), nil
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errNoContent
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(b.String())
	out = strings.TrimPrefix(out, "```text")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	out = strings.TrimSpace(out)
	if out == "" {
		return "", errNoContent
	}
	return out, nil
}
