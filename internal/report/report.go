// Package report renders settlement summaries and endings as plain text,
// with money and percentages formatted for the player's locale.
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tatianab/city-survival/internal/models"
)

// DefaultLocale is used when none is configured.
const DefaultLocale = "en-US"

// Printer formats numbers for one locale.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a Printer for a BCP 47 locale such as "en-US" or "de-DE".
func New(locale string) (*Printer, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &Printer{tag: tag, p: message.NewPrinter(tag)}, nil
}

// Must is New for locales known to be valid.
func Must(locale string) *Printer {
	p, err := New(locale)
	if err != nil {
		panic(err)
	}
	return p
}

// Locale returns the tag the printer formats for.
func (r *Printer) Locale() language.Tag { return r.tag }

// Money formats an amount of yuan with digit grouping.
func (r *Printer) Money(v int) string {
	if v < 0 {
		return "-¥" + r.p.Sprintf("%d", -v)
	}
	return "¥" + r.p.Sprintf("%d", v)
}

// Delta is Money with an explicit sign.
func (r *Printer) Delta(v int) string {
	if v > 0 {
		return "+" + r.Money(v)
	}
	return r.Money(v)
}

func (r *Printer) signed(v int) string {
	if v > 0 {
		return "+" + r.p.Sprintf("%d", v)
	}
	return r.p.Sprintf("%d", v)
}

// Percent formats a fraction, 0.015 as 1.5%.
func (r *Printer) Percent(f float64) string {
	return r.p.Sprintf("%.1f%%", f*100)
}

// Stat formats the value of one stat.
func (r *Printer) Stat(k models.StatKey, v int) string {
	if k.Bounded() {
		return r.p.Sprintf("%d", v)
	}
	return r.Money(v)
}

// Effects sums effects per stat and lists the non-zero totals in display
// order, e.g. "Cash -¥15,000, Body +30".
func (r *Printer) Effects(effects []models.Effect) string {
	totals := make(map[models.StatKey]int, len(effects))
	for _, e := range effects {
		totals[e.Stat] += e.Value
	}
	var parts []string
	for _, k := range models.StatKeys {
		v := totals[k]
		if v == 0 {
			continue
		}
		if k.Bounded() {
			parts = append(parts, StatLabel(k)+" "+r.signed(v))
		} else {
			parts = append(parts, StatLabel(k)+" "+r.Delta(v))
		}
	}
	return strings.Join(parts, ", ")
}

// StatLabel is the display name of a stat.
func StatLabel(k models.StatKey) string {
	switch k {
	case models.StatCash:
		return "Cash"
	case models.StatSafeInvest:
		return "Safe fund"
	case models.StatRiskyInvest:
		return "Risky fund"
	case models.StatBody:
		return "Body"
	case models.StatMind:
		return "Mind"
	case models.StatMoral:
		return "Moral"
	case models.StatPerformance:
		return "Performance"
	}
	return string(k)
}

// Summary renders a six-month settlement report.
func (r *Printer) Summary(s models.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Settlement, month %d\n", s.Month)
	row := func(label, value string) { fmt.Fprintf(&b, "  %-22s %s\n", label, value) }
	row("Salary", r.Delta(s.Salary))
	row("Rent", r.Delta(-s.Rent))
	row("Living costs", r.Delta(-s.LivingCost))
	if s.DebtInterest > 0 {
		row("Debt interest", r.Delta(-s.DebtInterest))
	}
	row("Safe fund "+r.Percent(s.SafeYield), r.Delta(s.SafeProfit))
	row("Risky fund "+r.Percent(s.RiskyYield), r.Delta(s.RiskyProfit))
	if s.HousingValuation != nil {
		row("Home valuation", r.Money(*s.HousingValuation))
	}
	if s.HousingAppreciation != nil {
		row("Home appreciation", r.Delta(*s.HousingAppreciation))
	}
	row("Net change", r.Delta(s.TotalChange))
	if s.SpecialEvent != "" {
		b.WriteString("\n" + s.SpecialEvent + "\n")
	}
	return b.String()
}
