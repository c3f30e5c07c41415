package models

import "math"

// StatKey names one field of the stat vector.
type StatKey string

const (
	StatCash        StatKey = "cash"
	StatSafeInvest  StatKey = "safeInvest"
	StatRiskyInvest StatKey = "riskyInvest"
	StatBody        StatKey = "body"
	StatMind        StatKey = "mind"
	StatMoral       StatKey = "moral"
	StatPerformance StatKey = "performance"
)

// StatKeys lists every stat in display order.
var StatKeys = []StatKey{StatCash, StatSafeInvest, StatRiskyInvest, StatBody, StatMind, StatMoral, StatPerformance}

// Bounded reports whether the stat is clamped to [0,100].
func (k StatKey) Bounded() bool {
	switch k {
	case StatBody, StatMind, StatMoral, StatPerformance:
		return true
	}
	return false
}

// Clamp is the only sanctioned way to write a bounded stat. Money stats
// pass through unchanged so they can carry debt or windfalls.
func Clamp(key StatKey, value int) int {
	if !key.Bounded() {
		return value
	}
	return max(0, min(100, value))
}

// Stats is the player's numeric state vector.
type Stats struct {
	Cash        int `yaml:"cash" json:"cash"`
	SafeInvest  int `yaml:"safeInvest" json:"safeInvest"`
	RiskyInvest int `yaml:"riskyInvest" json:"riskyInvest"`
	Body        int `yaml:"body" json:"body"`
	Mind        int `yaml:"mind" json:"mind"`
	Moral       int `yaml:"moral" json:"moral"`
	Performance int `yaml:"performance" json:"performance"`
}

// InitialStats is the stat vector every run starts from.
func InitialStats() Stats {
	return Stats{
		Cash:        50000,
		Body:        60,
		Mind:        60,
		Moral:       60,
		Performance: 50,
	}
}

// Get returns the value stored under key. Unknown keys read as zero.
func (s Stats) Get(key StatKey) int {
	switch key {
	case StatCash:
		return s.Cash
	case StatSafeInvest:
		return s.SafeInvest
	case StatRiskyInvest:
		return s.RiskyInvest
	case StatBody:
		return s.Body
	case StatMind:
		return s.Mind
	case StatMoral:
		return s.Moral
	case StatPerformance:
		return s.Performance
	}
	return 0
}

// Set stores value under key after clamping it.
func (s *Stats) Set(key StatKey, value int) {
	value = Clamp(key, value)
	switch key {
	case StatCash:
		s.Cash = value
	case StatSafeInvest:
		s.SafeInvest = value
	case StatRiskyInvest:
		s.RiskyInvest = value
	case StatBody:
		s.Body = value
	case StatMind:
		s.Mind = value
	case StatMoral:
		s.Moral = value
	case StatPerformance:
		s.Performance = value
	}
}

// Add adjusts key by delta, clamping bounded stats.
func (s *Stats) Add(key StatKey, delta int) {
	s.Set(key, s.Get(key)+delta)
}

// Apply returns a copy of s with every effect applied in order.
func (s Stats) Apply(effects []Effect) Stats {
	for _, e := range effects {
		s.Add(e.Stat, e.Value)
	}
	return s
}

// Invested is the combined balance of both investment pools.
func (s Stats) Invested() int {
	return s.SafeInvest + s.RiskyInvest
}

// NetWorth is cash plus both investment pools.
func (s Stats) NetWorth() int {
	return s.Cash + s.Invested()
}

// Effect is a signed adjustment to one stat.
type Effect struct {
	Stat  StatKey `yaml:"stat" json:"stat"`
	Value int     `yaml:"value" json:"value"`
}

// E is shorthand for building an Effect.
func E(stat StatKey, value int) Effect {
	return Effect{Stat: stat, Value: value}
}

// Round rounds half away toward positive infinity, matching the game's
// balance tables (-2.5 rounds to -2).
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}
