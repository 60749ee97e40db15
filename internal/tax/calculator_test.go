package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

func TestNewRegime(t *testing.T) {
	testCases := []struct {
		income int64
		want   string
	}{
		{0, "0"},
		{250000, "0"},
		{300000, "0"},
		{300001, "0.05"},
		{400000, "5000"},
		{600000, "15000"},
		{750000, "30000"},
		{900000, "45000"},
		{1200000, "90000"},
		{1500000, "150000"},
		{2000000, "300000"},
	}

	for _, tc := range testCases {
		assertDecimal(t, tc.want, NewRegime(d(tc.income)), "income", tc.income)
	}
}

func TestNewRegimeSecondBracketIsLinear(t *testing.T) {
	for income := int64(300001); income <= 600000; income += 12345 {
		want := d(income - 300000).Mul(decimal.RequireFromString("0.05"))
		assertDecimal(t, want.String(), NewRegime(d(income)), "income", income)
	}
}

func TestNewRegimeContinuousAtBreakpoints(t *testing.T) {
	constants := map[int64]string{
		300000:  "0",
		600000:  "15000",
		900000:  "45000",
		1200000: "90000",
		1500000: "150000",
	}
	eps := decimal.RequireFromString("0.01")

	for point, want := range constants {
		at := NewRegime(d(point))
		assertDecimal(t, want, at, "breakpoint", point)

		below := NewRegime(d(point).Sub(eps))
		above := NewRegime(d(point).Add(eps))
		assert.True(t, at.Sub(below).Abs().LessThanOrEqual(eps), "jump below %d", point)
		assert.True(t, above.Sub(at).Abs().LessThanOrEqual(eps), "jump above %d", point)
	}
}

func TestOldRegime(t *testing.T) {
	testCases := []struct {
		name       string
		income     int64
		deductions int64
		want       string
	}{
		{"zero", 0, 0, "0"},
		{"below exemption", 300000, 0, "0"},
		{"deductions exceed income", 100000, 500000, "0"},
		{"taxable at 500000", 700000, 150000, "13000"},
		{"taxable at 1000000", 1200000, 150000, "117000"},
		{"top bracket", 2050000, 0, "429000"},
		{"second bracket", 600000, 0, "23400"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assertDecimal(t, tc.want, OldRegime(d(tc.income), d(tc.deductions)))
		})
	}
}

func TestOldRegimeZeroBelowExemption(t *testing.T) {
	for income := int64(0); income <= 400000; income += 25000 {
		for _, deductions := range []int64{0, 50000, 150000} {
			if income-deductions-50000 > 250000 {
				continue
			}
			assert.True(t, OldRegime(d(income), d(deductions)).IsZero(), "income %d deductions %d", income, deductions)
		}
	}
}

func TestSuggestITRForm(t *testing.T) {
	assert.Equal(t, "ITR-1 (Sahaj)", SuggestITRForm(d(0)))
	assert.Equal(t, "ITR-1 (Sahaj)", SuggestITRForm(d(5000000)))
	assert.Equal(t, "ITR-2 or higher", SuggestITRForm(d(5000001)))
}

func TestNewQuery(t *testing.T) {
	q := NewQuery(d(-10), d(-1), "OLD")
	assert.True(t, q.Income.IsZero())
	assert.True(t, q.Deductions.IsZero())
	assert.Equal(t, RegimeOld, q.Regime)

	q = NewQuery(d(1200000), decimal.Zero, "whatever")
	assertDecimal(t, "1200000", q.Income)
	assert.True(t, q.Deductions.IsZero())
	assert.Equal(t, RegimeNew, q.Regime)
}

func TestLargeIncomeIsExact(t *testing.T) {
	income := decimal.RequireFromString("20000000000000000000")
	q := NewQuery(income, decimal.Zero, "new")
	assertDecimal(t, "20000000000000000000", q.Income)

	c := Compare(q)
	assertDecimal(t, "5999999999999700000", c.NewTax)
	assertDecimal(t, "6239999999999789400", c.OldTax)
	assert.Equal(t, FormITR2OrHigh, c.Form)

	// 超过 2^53 的奇数也不丢精度
	odd := decimal.RequireFromString("9007199254740993")
	assertDecimal(t, "2702159776122297.9", NewRegime(odd))
}

func TestCompareIgnoresRegime(t *testing.T) {
	a := Compare(NewQuery(d(1200000), d(150000), "old"))
	b := Compare(NewQuery(d(1200000), d(150000), "new"))

	assert.True(t, a.OldTax.Equal(b.OldTax))
	assert.True(t, a.NewTax.Equal(b.NewTax))
	assertDecimal(t, "117000", a.OldTax)
	assertDecimal(t, "90000", a.NewTax)
	assertDecimal(t, "27000", a.Savings)
	assert.Equal(t, FormITR1, a.Form)
}
