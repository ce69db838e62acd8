package offer

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/group/ticketmachine/internal/domain/ticket"
)

// CurrencySymbol marks fixed-amount discounts in offer descriptions.
const CurrencySymbol = "£"

// RuleKind identifies which discount rule an offer description expresses.
type RuleKind int

const (
	RuleNone RuleKind = iota
	RuleOverride
	RulePercent
	RuleFixedOff
)

func (k RuleKind) String() string {
	switch k {
	case RuleOverride:
		return "override"
	case RulePercent:
		return "percent"
	case RuleFixedOff:
		return "fixed_off"
	}
	return "none"
}

// DiscountRule is the parsed form of an offer description.
// Value is the override price, the percentage, or the amount off, depending on Kind.
type DiscountRule struct {
	Kind  RuleKind
	Value decimal.Decimal
}

var (
	numberPattern   = `(\d+(?:[.,]\d+)?)`
	reOverride      = regexp.MustCompile(`(?i)\bprice\s*=\s*` + numberPattern)
	rePercent       = regexp.MustCompile(numberPattern + `\s*%`)
	reFixedPrefixed = regexp.MustCompile(regexp.QuoteMeta(CurrencySymbol) + numberPattern)
	reFixedSuffixed = regexp.MustCompile(numberPattern + regexp.QuoteMeta(CurrencySymbol))

	reSingleWord = regexp.MustCompile(`(?i)\bsingle\b`)
	reReturnWord = regexp.MustCompile(`(?i)\breturn\b`)

	hundred = decimal.NewFromInt(100)
)

// ParseDiscountRule interprets a description. The first matching rule wins, in the
// order override, percentage, fixed amount off.
func ParseDiscountRule(description string) DiscountRule {
	if v, ok := firstNumber(reOverride, description); ok {
		return DiscountRule{Kind: RuleOverride, Value: v}
	}
	if v, ok := firstNumber(rePercent, description); ok {
		return DiscountRule{Kind: RulePercent, Value: v}
	}
	if v, ok := firstNumber(reFixedPrefixed, description); ok {
		return DiscountRule{Kind: RuleFixedOff, Value: v}
	}
	if v, ok := firstNumber(reFixedSuffixed, description); ok {
		return DiscountRule{Kind: RuleFixedOff, Value: v}
	}
	return DiscountRule{Kind: RuleNone}
}

// Apply returns the price this rule yields for base. Only a fixed amount off is
// floored at zero; callers decide whether the result is an improvement.
func (r DiscountRule) Apply(base decimal.Decimal) decimal.Decimal {
	switch r.Kind {
	case RuleOverride:
		return r.Value
	case RulePercent:
		return base.Mul(decimal.NewFromInt(1).Sub(r.Value.Div(hundred)))
	case RuleFixedOff:
		p := base.Sub(r.Value)
		if p.IsNegative() {
			return decimal.Zero
		}
		return p
	}
	return base
}

func firstNumber(re *regexp.Regexp, s string) (decimal.Decimal, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(strings.Replace(m[1], ",", ".", 1))
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

// restriction records which ticket types a description names.
type restriction struct {
	single bool
	ret    bool
}

func parseRestriction(description string) restriction {
	return restriction{
		single: reSingleWord.MatchString(description),
		ret:    reReturnWord.MatchString(description),
	}
}

// allows: naming neither or both types applies to either; naming one restricts to it.
func (r restriction) allows(t ticket.Type) bool {
	if r.single == r.ret {
		return true
	}
	if r.single {
		return t == ticket.TypeSingle
	}
	return t == ticket.TypeReturn
}
