package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicegen/internal/timesheet"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCompute_SameStateFullMonth(t *testing.T) {
	policy := DefaultPolicy()
	totals := timesheet.Totals{WorkedDays: dec("22")}
	terms := Terms{Mode: ModeSameState, MonthlyBudget: dec("22000")}

	result, err := policy.Compute(totals, terms)
	require.NoError(t, err)

	assert.True(t, result.BaseAmount.Equal(dec("22000")), "base = %s", result.BaseAmount)
	assert.True(t, result.TaxLine(TaxCGST).Equal(dec("1980")), "cgst = %s", result.TaxLine(TaxCGST))
	assert.True(t, result.TaxLine(TaxSGST).Equal(dec("1980")), "sgst = %s", result.TaxLine(TaxSGST))
	assert.True(t, result.SubTotal.Equal(dec("25960")), "sub_total = %s", result.SubTotal)
	assert.NotContains(t, result.TaxLines, TaxIGST)
}

func TestCompute_OtherStateHalfMonth(t *testing.T) {
	policy := DefaultPolicy()
	totals := timesheet.Totals{WorkedDays: dec("11")}
	terms := Terms{Mode: ModeOtherState, MonthlyBudget: dec("22000"), IGSTRate: dec("18")}

	result, err := policy.Compute(totals, terms)
	require.NoError(t, err)

	assert.True(t, result.BaseAmount.Equal(dec("11000")), "base = %s", result.BaseAmount)
	assert.True(t, result.TaxLine(TaxIGST).Equal(dec("1980")), "igst = %s", result.TaxLine(TaxIGST))
	assert.True(t, result.SubTotal.Equal(dec("12980")), "sub_total = %s", result.SubTotal)
	assert.NotContains(t, result.TaxLines, TaxCGST)
	assert.NotContains(t, result.TaxLines, TaxSGST)
}

func TestCompute_ForeignHourly(t *testing.T) {
	policy := DefaultPolicy()
	totals := timesheet.Totals{Hours: dec("12")}
	terms := Terms{Mode: ModeForeign, HourlyRate: dec("25")}

	result, err := policy.Compute(totals, terms)
	require.NoError(t, err)

	assert.True(t, result.WorkedUnits.Equal(dec("12")))
	assert.True(t, result.BaseAmount.Equal(dec("300")), "base = %s", result.BaseAmount)
	assert.True(t, result.SubTotal.Equal(dec("300")), "sub_total = %s", result.SubTotal)
	assert.Empty(t, result.TaxLines)
}

func TestCompute_DefaultRatesApplied(t *testing.T) {
	policy := DefaultPolicy()
	totals := timesheet.Totals{WorkedDays: dec("22")}

	// Zero tax rates fall back to policy defaults, not to zero tax.
	result, err := policy.Compute(totals, Terms{Mode: ModeOtherState, MonthlyBudget: dec("22000")})
	require.NoError(t, err)
	assert.True(t, result.TaxLine(TaxIGST).Equal(dec("3960")), "igst = %s", result.TaxLine(TaxIGST))
}

func TestCompute_ExplicitRatesOverrideDefaults(t *testing.T) {
	policy := DefaultPolicy()
	totals := timesheet.Totals{WorkedDays: dec("22")}
	terms := Terms{Mode: ModeSameState, MonthlyBudget: dec("22000"), CGSTRate: dec("6"), SGSTRate: dec("6")}

	result, err := policy.Compute(totals, terms)
	require.NoError(t, err)
	assert.True(t, result.TaxLine(TaxCGST).Equal(dec("1320")))
	assert.True(t, result.TaxLine(TaxSGST).Equal(dec("1320")))
}

func TestCompute_MissingBudgetRejected(t *testing.T) {
	policy := DefaultPolicy()
	totals := timesheet.Totals{WorkedDays: dec("10")}

	_, err := policy.Compute(totals, Terms{Mode: ModeSameState})
	assert.ErrorIs(t, err, ErrMissingRate)

	_, err = policy.Compute(totals, Terms{Mode: ModeOtherState})
	assert.ErrorIs(t, err, ErrMissingRate)
}

func TestCompute_MissingHourlyRateRejected(t *testing.T) {
	policy := DefaultPolicy()
	totals := timesheet.Totals{Hours: dec("160")}

	_, err := policy.Compute(totals, Terms{Mode: ModeForeign})
	assert.ErrorIs(t, err, ErrMissingRate)
}

func TestCompute_InvalidMode(t *testing.T) {
	policy := DefaultPolicy()

	_, err := policy.Compute(timesheet.Totals{}, Terms{Mode: Mode("offshore")})
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestCompute_SubTotalInvariant(t *testing.T) {
	policy := DefaultPolicy()
	totals := timesheet.Totals{WorkedDays: dec("17.5")}
	terms := Terms{Mode: ModeSameState, MonthlyBudget: dec("95000")}

	result, err := policy.Compute(totals, terms)
	require.NoError(t, err)

	sum := result.BaseAmount
	for _, amt := range result.TaxLines {
		sum = sum.Add(amt)
	}
	assert.True(t, result.SubTotal.Equal(sum), "sub_total %s != base+taxes %s", result.SubTotal, sum)
}

func TestAggregate_MixedJurisdictions(t *testing.T) {
	policy := DefaultPolicy()

	domestic, err := policy.Compute(timesheet.Totals{WorkedDays: dec("22")}, Terms{Mode: ModeSameState, MonthlyBudget: dec("22000")})
	require.NoError(t, err)
	foreign, err := policy.Compute(timesheet.Totals{Hours: dec("12")}, Terms{Mode: ModeForeign, HourlyRate: dec("25")})
	require.NoError(t, err)

	grand := Aggregate([]Result{domestic, foreign})

	assert.True(t, grand.BaseAmount.Equal(dec("22300")))
	assert.True(t, grand.SubTotal.Equal(dec("26260")))
	// Foreign result has no tax lines; it contributes zero to each.
	assert.True(t, grand.TaxLine(TaxCGST).Equal(dec("1980")))
	assert.True(t, grand.TaxLine(TaxIGST).Equal(decimal.Zero))
}

func TestAggregate_Empty(t *testing.T) {
	grand := Aggregate(nil)
	assert.True(t, grand.SubTotal.IsZero())
	assert.Empty(t, grand.TaxLines)
}

func TestConvertToINR(t *testing.T) {
	policy := DefaultPolicy()
	assert.True(t, policy.ConvertToINR(dec("300")).Equal(dec("25500")))
}
