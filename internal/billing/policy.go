package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"invoicegen/internal/timesheet"
)

// Mode is the billing jurisdiction of the invoiced company.
type Mode string

const (
	ModeSameState  Mode = "same_state"
	ModeOtherState Mode = "other_state"
	ModeForeign    Mode = "foreign"
)

// Tax line names as they appear on the invoice document.
const (
	TaxCGST = "CGST"
	TaxSGST = "SGST"
	TaxIGST = "IGST"
)

// ErrMissingRate reports purchase-order terms that lack the rate field
// the selected mode requires. The legacy system silently billed zero
// in this case; it is rejected here instead.
var ErrMissingRate = errors.New("billing: required rate missing for mode")

// ErrInvalidMode reports an unknown billing mode.
var ErrInvalidMode = errors.New("billing: invalid mode")

// Terms are the jurisdiction-scoped purchase-order terms. MonthlyBudget
// is consulted for the salaried modes, HourlyRate for foreign; zero tax
// rates fall back to the policy defaults.
type Terms struct {
	Mode          Mode
	MonthlyBudget decimal.Decimal
	HourlyRate    decimal.Decimal
	CGSTRate      decimal.Decimal
	SGSTRate      decimal.Decimal
	IGSTRate      decimal.Decimal
}

// Policy holds the business constants the computation depends on.
// They were inline literals in the legacy system and are injected
// configuration here.
type Policy struct {
	// StandardMonthDays is the fixed per-day-rate denominator, not
	// derived from the sheet.
	StandardMonthDays int64
	// INRConversionRate converts foreign-currency totals into the INR
	// mirror used for payment tracking only.
	INRConversionRate decimal.Decimal
	DefaultCGSTRate   decimal.Decimal
	DefaultSGSTRate   decimal.Decimal
	DefaultIGSTRate   decimal.Decimal
}

// DefaultPolicy matches the legacy constants: a 22-day standard month,
// 85 INR per USD, and 9/9/18 percent default GST rates.
func DefaultPolicy() Policy {
	return Policy{
		StandardMonthDays: 22,
		INRConversionRate: decimal.NewFromInt(85),
		DefaultCGSTRate:   decimal.NewFromInt(9),
		DefaultSGSTRate:   decimal.NewFromInt(9),
		DefaultIGSTRate:   decimal.NewFromInt(18),
	}
}

// Result is the monetary outcome for one employee's sheet.
// SubTotal always equals BaseAmount plus every tax line.
type Result struct {
	// WorkedUnits is days for the salaried modes, hours for foreign.
	WorkedUnits decimal.Decimal
	BaseAmount  decimal.Decimal
	TaxLines    map[string]decimal.Decimal
	SubTotal    decimal.Decimal
}

var percent = decimal.NewFromInt(100)

// Compute applies the jurisdiction's billing rules to one sheet's
// totals. Only the rate fields relevant to terms.Mode are consulted.
func (p Policy) Compute(totals timesheet.Totals, terms Terms) (Result, error) {
	switch terms.Mode {
	case ModeForeign:
		if terms.HourlyRate.IsZero() {
			return Result{}, fmt.Errorf("%w: hourly rate is required for foreign billing", ErrMissingRate)
		}
		base := totals.Hours.Mul(terms.HourlyRate)
		return finishResult(totals.Hours, base, nil), nil

	case ModeSameState, ModeOtherState:
		if terms.MonthlyBudget.IsZero() {
			return Result{}, fmt.Errorf("%w: monthly budget is required for %s billing", ErrMissingRate, terms.Mode)
		}
		perDay := terms.MonthlyBudget.Div(decimal.NewFromInt(p.StandardMonthDays))
		base := perDay.Mul(totals.WorkedDays)

		taxLines := make(map[string]decimal.Decimal)
		if terms.Mode == ModeSameState {
			taxLines[TaxCGST] = base.Mul(rateOrDefault(terms.CGSTRate, p.DefaultCGSTRate)).Div(percent)
			taxLines[TaxSGST] = base.Mul(rateOrDefault(terms.SGSTRate, p.DefaultSGSTRate)).Div(percent)
		} else {
			taxLines[TaxIGST] = base.Mul(rateOrDefault(terms.IGSTRate, p.DefaultIGSTRate)).Div(percent)
		}
		return finishResult(totals.WorkedDays, base, taxLines), nil

	default:
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidMode, terms.Mode)
	}
}

// finishResult derives SubTotal from the base and tax lines so the
// invariant cannot drift from the branch logic.
func finishResult(units, base decimal.Decimal, taxLines map[string]decimal.Decimal) Result {
	if taxLines == nil {
		taxLines = map[string]decimal.Decimal{}
	}
	subTotal := base
	for _, amt := range taxLines {
		subTotal = subTotal.Add(amt)
	}
	return Result{
		WorkedUnits: units,
		BaseAmount:  base,
		TaxLines:    taxLines,
		SubTotal:    subTotal,
	}
}

func rateOrDefault(rate, fallback decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return fallback
	}
	return rate
}

// ConvertToINR produces the local-currency mirror of a foreign-currency
// amount. It never feeds the document's headline amounts.
func (p Policy) ConvertToINR(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.INRConversionRate)
}

// Aggregate element-wise sums a batch of per-employee results. A tax
// line absent from one result contributes zero to that line's total.
func Aggregate(results []Result) Result {
	grand := Result{
		WorkedUnits: decimal.Zero,
		BaseAmount:  decimal.Zero,
		TaxLines:    map[string]decimal.Decimal{},
		SubTotal:    decimal.Zero,
	}
	for _, r := range results {
		grand.WorkedUnits = grand.WorkedUnits.Add(r.WorkedUnits)
		grand.BaseAmount = grand.BaseAmount.Add(r.BaseAmount)
		grand.SubTotal = grand.SubTotal.Add(r.SubTotal)
		for name, amt := range r.TaxLines {
			grand.TaxLines[name] = grand.TaxLines[name].Add(amt)
		}
	}
	return grand
}

// TaxLine returns the named tax total, zero when the line is absent.
func (r Result) TaxLine(name string) decimal.Decimal {
	if amt, ok := r.TaxLines[name]; ok {
		return amt
	}
	return decimal.Zero
}
