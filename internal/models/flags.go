package models

import "gopkg.in/yaml.v3"

// Narrative flags referenced by the engine. Content may add others.
const (
	FlagRentCity        = "RENT_CITY"
	FlagRentSuburb      = "RENT_SUBURB"
	FlagOwnHouse        = "OWN_HOUSE"
	FlagInsuranceYes    = "INS_YES"
	FlagInsuranceNo     = "INS_NO"
	FlagLegacy          = "LEGACY_CONNECTION"
	FlagSalaryBump      = "SALARY_BUMP"
	FlagUnemployed      = "UNEMPLOYED"
	FlagEntrepreneur    = "ENTREPRENEUR"
	FlagNakedLoan       = "NAKED_LOAN"
	FlagBizFail         = "BIZ_FAIL"
	FlagBizBoom         = "BIZ_BOOM"
	FlagBizStruggle     = "BIZ_STRUGGLE"
	FlagNetworkUp       = "NETWORK_UP"
	FlagSkillUp         = "SKILL_UP"
	FlagDebtTrap        = "DEBT_TRAP"
	FlagGiveUp          = "GIVE_UP"
	FlagLayFlat         = "LAY_FLAT"
	FlagScammer         = "SCAMMER"
	FlagSocialIsolation = "SOCIAL_ISOLATION"
	FlagCriminal        = "CRIMINAL"
	FlagWentAbroad      = "WENT_ABROAD"
	FlagMarriedHome     = "MARRIED_HOME"
	FlagMarriedDeal     = "MARRIED_DEAL"
	FlagMarriedMoon     = "MARRIED_MOON"
	FlagLoveStable      = "LOVE_STABLE"
	FlagLoveComplex     = "LOVE_COMPLEX"
	FlagSingle          = "SINGLE_DOG"
	FlagGrayArea        = "GRAY_AREA"
	FlagCivilPrep       = "CIVIL_PREP"
	FlagWeekdayRenter   = "WEEKDAY_RENTER"
	FlagPerfLow         = "PERF_LOW"
	FlagWorkaholic      = "WORKAHOLIC"
	FlagHedonist        = "HEDONIST"
	FlagCrisisAverted   = "CRISIS_AVERTED"
	FlagCrisisSurvived  = "CRISIS_SURVIVED"
	FlagCrisisFailed    = "CRISIS_FAILED"
	FlagNegBreakdown    = "NEG_BREAKDOWN"
	FlagNegCompromise   = "NEG_COMPROMISE"
	FlagNegSuccess      = "NEG_SUCCESS"
)

// FlagReader is the read-only view of a flag set handed to content hooks.
type FlagReader interface {
	Has(flag string) bool
	HasAny(flags ...string) bool
}

// FlagSet is an insertion-ordered set of flags. Flags are never removed
// during a run.
type FlagSet struct {
	order []string
	index map[string]struct{}
}

// NewFlagSet builds a set from flags, dropping duplicates and empties.
func NewFlagSet(flags ...string) FlagSet {
	var fs FlagSet
	for _, f := range flags {
		fs.Add(f)
	}
	return fs
}

// Has reports whether flag is held.
func (fs FlagSet) Has(flag string) bool {
	_, ok := fs.index[flag]
	return ok
}

// HasAny reports whether at least one of flags is held.
func (fs FlagSet) HasAny(flags ...string) bool {
	for _, f := range flags {
		if fs.Has(f) {
			return true
		}
	}
	return false
}

// Add inserts flag and reports whether it was new.
func (fs *FlagSet) Add(flag string) bool {
	if flag == "" || fs.Has(flag) {
		return false
	}
	if fs.index == nil {
		fs.index = make(map[string]struct{})
	}
	fs.index[flag] = struct{}{}
	fs.order = append(fs.order, flag)
	return true
}

// Merge adds every flag in order.
func (fs *FlagSet) Merge(flags ...string) {
	for _, f := range flags {
		fs.Add(f)
	}
}

// List returns the flags in insertion order.
func (fs FlagSet) List() []string {
	out := make([]string, len(fs.order))
	copy(out, fs.order)
	return out
}

// Len is the number of flags held.
func (fs FlagSet) Len() int {
	return len(fs.order)
}

// Clone returns an independent copy.
func (fs FlagSet) Clone() FlagSet {
	return NewFlagSet(fs.order...)
}

func (fs FlagSet) MarshalYAML() (any, error) {
	return fs.List(), nil
}

func (fs *FlagSet) UnmarshalYAML(node *yaml.Node) error {
	var flags []string
	if err := node.Decode(&flags); err != nil {
		return err
	}
	*fs = NewFlagSet(flags...)
	return nil
}
