package models

// MarketTrend tags a node with the market regime used for risky yields.
type MarketTrend string

const (
	TrendBull     MarketTrend = "BULL"
	TrendBear     MarketTrend = "BEAR"
	TrendFlat     MarketTrend = "FLAT"
	TrendVolatile MarketTrend = "VOLATILE"
)

// RiskLabel is an optional badge shown next to a choice.
type RiskLabel string

const (
	RiskHigh   RiskLabel = "High Risk"
	RiskLow    RiskLabel = "Low Risk"
	RiskSafe   RiskLabel = "Safe"
	RiskRescue RiskLabel = "Rescue"
)

// Choice is one selectable action.
type Choice struct {
	ID             string    `yaml:"id" json:"id"`
	Text           string    `yaml:"text" json:"text"`
	Description    string    `yaml:"description,omitempty" json:"description,omitempty"`
	Effects        []Effect  `yaml:"effects,omitempty" json:"effects,omitempty"`
	Flag           string    `yaml:"flag,omitempty" json:"flag,omitempty"`
	RiskLabel      RiskLabel `yaml:"risk,omitempty" json:"riskLabel,omitempty"`
	NextEventID    string    `yaml:"next,omitempty" json:"nextEventId,omitempty"`
	Disabled       bool      `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	DisabledReason string    `yaml:"disabledReason,omitempty" json:"disabledReason,omitempty"`
}

// ChoiceKind names what a dynamic choice generator needs to see.
type ChoiceKind int

const (
	ChoicesStatic ChoiceKind = iota
	ChoicesByFlags
	ChoicesByState
)

// ChoiceSource is either a fixed list or a generator over the run state.
// The kind is declared by the author so no dispatch on function shape is
// needed.
type ChoiceSource struct {
	Kind    ChoiceKind
	List    []Choice
	ByFlags func(flags FlagReader) []Choice
	ByState func(flags FlagReader, stats Stats) []Choice
}

// StaticChoices wraps a fixed choice list.
func StaticChoices(choices ...Choice) ChoiceSource {
	return ChoiceSource{Kind: ChoicesStatic, List: choices}
}

// FlagChoices wraps a generator that only reads flags.
func FlagChoices(fn func(flags FlagReader) []Choice) ChoiceSource {
	return ChoiceSource{Kind: ChoicesByFlags, ByFlags: fn}
}

// StateChoices wraps a generator that reads flags and stats.
func StateChoices(fn func(flags FlagReader, stats Stats) []Choice) ChoiceSource {
	return ChoiceSource{Kind: ChoicesByState, ByState: fn}
}

// Resolve returns the choices visible for the given state.
func (c ChoiceSource) Resolve(flags FlagReader, stats Stats) []Choice {
	switch c.Kind {
	case ChoicesByFlags:
		if c.ByFlags != nil {
			return c.ByFlags(flags)
		}
	case ChoicesByState:
		if c.ByState != nil {
			return c.ByState(flags, stats)
		}
	default:
		return c.List
	}
	return nil
}

// Empty reports whether the source can never produce a choice.
func (c ChoiceSource) Empty() bool {
	switch c.Kind {
	case ChoicesByFlags:
		return c.ByFlags == nil
	case ChoicesByState:
		return c.ByState == nil
	}
	return len(c.List) == 0
}

// ContextFunc renders the narrative text for a node or sub-event.
type ContextFunc func(flags FlagReader, stats Stats) string

// Text is a ContextFunc that ignores the run state.
func Text(s string) ContextFunc {
	return func(FlagReader, Stats) string { return s }
}

// EntryResult is what a node's entry hook contributes on arrival.
type EntryResult struct {
	Text    string
	Effects []Effect
	Flags   []string
}

// EntryHook runs when the cursor arrives on a node. seed is the run's
// fixed random value. A nil result means nothing happened.
type EntryHook func(flags FlagReader, seed float64, stats Stats) *EntryResult

// SimulationType selects a mini-game embedded in a node or sub-event.
type SimulationType string

const (
	SimAllocation     SimulationType = "ALLOCATION"
	SimNegotiation    SimulationType = "NEGOTIATION"
	SimCrisisResource SimulationType = "CRISIS_RESOURCE"
	SimCaili          SimulationType = "CAILI_NEGOTIATION"
)

// SimCategory is one bucket of an allocation mini-game.
type SimCategory struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Desc  string `yaml:"desc"`
}

// SimulationConfig describes an embedded mini-game.
type SimulationConfig struct {
	Type              SimulationType `yaml:"type"`
	TotalPoints       int            `yaml:"totalPoints,omitempty"`
	Categories        []SimCategory  `yaml:"categories,omitempty"`
	NegotiationTarget string         `yaml:"negotiationTarget,omitempty"`
}

// SubEvent is a nested branch inside a node.
type SubEvent struct {
	ID         string
	Title      string
	Context    ContextFunc
	Choices    ChoiceSource
	Simulation *SimulationConfig
}

// Node is one step of the story table.
type Node struct {
	ID         string
	Month      int
	Title      string
	News       string
	Trend      MarketTrend
	Context    ContextFunc
	Choices    ChoiceSource
	Simulation *SimulationConfig
	OnEnter    EntryHook
	Events     map[string]SubEvent
}

// SubEvent looks up a nested branch by id.
func (n Node) SubEvent(id string) (SubEvent, bool) {
	ev, ok := n.Events[id]
	return ev, ok
}

// Table is the ordered story. The engine treats it as read-only.
type Table []Node

// Node returns the node at index i.
func (t Table) Node(i int) (Node, bool) {
	if i < 0 || i >= len(t) {
		return Node{}, false
	}
	return t[i], true
}

// Rescue is a forced intervention that replaces a node's choices.
type Rescue struct {
	ID      string   `yaml:"id" json:"id"`
	Title   string   `yaml:"title" json:"title"`
	Context string   `yaml:"context" json:"context"`
	Choices []Choice `yaml:"choices" json:"choices"`
}
