// Package content holds the city survival story table. Narrative text lives
// in story.yaml; state-dependent choice lists and entry hooks live in Go.
package content

import (
	_ "embed"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/tatianab/city-survival/internal/models"
)

//go:embed story.yaml
var storyYAML []byte

type storyDoc struct {
	Nodes []nodeDoc `yaml:"nodes"`
}

type nodeDoc struct {
	ID         string                   `yaml:"id"`
	Month      int                      `yaml:"month"`
	Title      string                   `yaml:"title"`
	News       string                   `yaml:"news"`
	Trend      models.MarketTrend       `yaml:"trend"`
	Context    string                   `yaml:"context"`
	Choices    []choiceDoc              `yaml:"choices"`
	Simulation *models.SimulationConfig `yaml:"simulation"`
	Events     []eventDoc               `yaml:"events"`
}

type eventDoc struct {
	ID         string                   `yaml:"id"`
	Title      string                   `yaml:"title"`
	Context    string                   `yaml:"context"`
	Choices    []choiceDoc              `yaml:"choices"`
	Simulation *models.SimulationConfig `yaml:"simulation"`
}

// choiceDoc is a choice plus named overrides. A variant replaces only the
// fields it sets.
type choiceDoc struct {
	models.Choice `yaml:",inline"`
	Variants      map[string]models.Choice `yaml:"variants"`
}

// pool is the candidate list of one node or sub-event.
type pool struct {
	owner string
	order []string
	byID  map[string]choiceDoc
}

func newPool(owner string, docs []choiceDoc) (pool, error) {
	p := pool{owner: owner, byID: make(map[string]choiceDoc, len(docs))}
	for _, d := range docs {
		if d.ID == "" {
			return pool{}, fmt.Errorf("%s: choice without id", owner)
		}
		if _, dup := p.byID[d.ID]; dup {
			return pool{}, fmt.Errorf("%s: duplicate choice %q", owner, d.ID)
		}
		p.order = append(p.order, d.ID)
		p.byID[d.ID] = d
	}
	return p, nil
}

// get returns a copy of the choice so callers may patch it freely.
func (p pool) get(id string) models.Choice {
	d, ok := p.byID[id]
	if !ok {
		panic(fmt.Sprintf("content: %s has no choice %q", p.owner, id))
	}
	c := d.Choice
	c.Effects = slices.Clone(c.Effects)
	return c
}

// variant returns the choice with the named override applied. An unknown
// variant name yields the base choice.
func (p pool) variant(id, name string) models.Choice {
	c := p.get(id)
	v, ok := p.byID[id].Variants[name]
	if !ok {
		return c
	}
	if v.Text != "" {
		c.Text = v.Text
	}
	if v.Description != "" {
		c.Description = v.Description
	}
	if v.Effects != nil {
		c.Effects = slices.Clone(v.Effects)
	}
	if v.Flag != "" {
		c.Flag = v.Flag
	}
	if v.NextEventID != "" {
		c.NextEventID = v.NextEventID
	}
	if v.RiskLabel != "" {
		c.RiskLabel = v.RiskLabel
	}
	return c
}

func (p pool) pick(ids ...string) []models.Choice {
	out := make([]models.Choice, 0, len(ids))
	for _, id := range ids {
		out = append(out, p.get(id))
	}
	return out
}

func (p pool) all() []models.Choice {
	return p.pick(p.order...)
}

// Load builds the story table. It fails if the embedded document is
// malformed, a template does not parse, a hook targets something that
// does not exist, or a choice links to an unknown sub-event.
func Load() (models.Table, error) {
	return load(storyYAML)
}

func load(raw []byte) (models.Table, error) {
	var doc storyDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse story: %w", err)
	}
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("parse story: no nodes")
	}

	nodes, events := make(map[string]bool), make(map[string]bool)
	table := make(models.Table, 0, len(doc.Nodes))
	for _, nd := range doc.Nodes {
		if nodes[nd.ID] {
			return nil, fmt.Errorf("duplicate node %q", nd.ID)
		}
		nodes[nd.ID] = true
		node, err := buildNode(nd, events)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", nd.ID, err)
		}
		table = append(table, node)
	}

	for _, id := range slices.Sorted(maps.Keys(nodeChoices)) {
		if !nodes[id] {
			return nil, fmt.Errorf("choice generator for unknown node %q", id)
		}
	}
	for _, id := range slices.Sorted(maps.Keys(entryHooks)) {
		if !nodes[id] {
			return nil, fmt.Errorf("entry hook for unknown node %q", id)
		}
	}
	for _, id := range slices.Sorted(maps.Keys(eventChoices)) {
		if !events[id] {
			return nil, fmt.Errorf("choice generator for unknown sub-event %q", id)
		}
	}
	return table, nil
}

func buildNode(nd nodeDoc, events map[string]bool) (models.Node, error) {
	ctx, err := compile(nd.ID, nd.Context)
	if err != nil {
		return models.Node{}, err
	}
	node := models.Node{
		ID:         nd.ID,
		Month:      nd.Month,
		Title:      nd.Title,
		News:       nd.News,
		Trend:      nd.Trend,
		Context:    ctx,
		Simulation: nd.Simulation,
		OnEnter:    entryHooks[nd.ID],
		Events:     make(map[string]models.SubEvent, len(nd.Events)),
	}
	if node.Trend == "" {
		node.Trend = models.TrendVolatile
	}

	// Sub-event ids are collected first so links can point forward.
	targets := make(map[string]bool, len(nd.Events))
	for _, ev := range nd.Events {
		if targets[ev.ID] {
			return models.Node{}, fmt.Errorf("duplicate sub-event %q", ev.ID)
		}
		targets[ev.ID] = true
		events[ev.ID] = true
	}

	p, err := newPool(nd.ID, nd.Choices)
	if err != nil {
		return models.Node{}, err
	}
	if err := checkLinks(p, targets); err != nil {
		return models.Node{}, err
	}
	node.Choices = source(p, nodeChoices[nd.ID])

	for _, ed := range nd.Events {
		ctx, err := compile(ed.ID, ed.Context)
		if err != nil {
			return models.Node{}, err
		}
		p, err := newPool(ed.ID, ed.Choices)
		if err != nil {
			return models.Node{}, err
		}
		if err := checkLinks(p, targets); err != nil {
			return models.Node{}, err
		}
		node.Events[ed.ID] = models.SubEvent{
			ID:         ed.ID,
			Title:      ed.Title,
			Context:    ctx,
			Choices:    source(p, eventChoices[ed.ID]),
			Simulation: ed.Simulation,
		}
	}
	return node, nil
}

func checkLinks(p pool, targets map[string]bool) error {
	for _, id := range p.order {
		d := p.byID[id]
		links := []string{d.NextEventID}
		for _, v := range d.Variants {
			links = append(links, v.NextEventID)
		}
		for _, next := range links {
			if next != "" && !targets[next] {
				return fmt.Errorf("choice %s links to unknown sub-event %q", id, next)
			}
		}
	}
	return nil
}

func source(p pool, gen choiceGen) models.ChoiceSource {
	if gen == nil {
		return models.StaticChoices(p.all()...)
	}
	return models.StateChoices(func(flags models.FlagReader, stats models.Stats) []models.Choice {
		return gen(p, flags, stats)
	})
}

type templateData struct {
	Flags models.FlagReader
	Stats models.Stats
}

// compile turns a context template into a ContextFunc. The template is
// rendered against every probe state up front so that play never hits an
// execution error.
func compile(name, text string) (models.ContextFunc, error) {
	text = strings.TrimRight(text, "\n")
	if !strings.Contains(text, "{{") {
		return models.Text(text), nil
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("context template: %w", err)
	}
	for _, ps := range probes() {
		if err := tmpl.Execute(io.Discard, templateData{Flags: ps.flags, Stats: ps.stats}); err != nil {
			return nil, fmt.Errorf("context template: %w", err)
		}
	}
	return func(flags models.FlagReader, stats models.Stats) string {
		var b strings.Builder
		_ = tmpl.Execute(&b, templateData{Flags: flags, Stats: stats})
		return b.String()
	}, nil
}

// MustLoad is Load for callers that treat a broken story as fatal.
func MustLoad() models.Table {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}
