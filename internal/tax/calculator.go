// Package tax 个人所得税计算（新旧两种税制）以及ITR表格建议
package tax

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Regime 税制
type Regime string

const (
	RegimeOld Regime = "old"
	RegimeNew Regime = "new"
)

// ParseRegime 解析税制，无法识别时默认新税制
func ParseRegime(s string) Regime {
	if strings.EqualFold(strings.TrimSpace(s), string(RegimeOld)) {
		return RegimeOld
	}
	return RegimeNew
}

// Bracket 税率档：从From开始（不含）到下一档的From为止按Rate计税
type Bracket struct {
	From decimal.Decimal
	Rate decimal.Decimal
}

func bracket(from int64, rate string) Bracket {
	return Bracket{From: decimal.NewFromInt(from), Rate: decimal.RequireFromString(rate)}
}

// NewRegimeBrackets 新税制税率表（无附加税）
var NewRegimeBrackets = []Bracket{
	bracket(0, "0"),
	bracket(300000, "0.05"),
	bracket(600000, "0.10"),
	bracket(900000, "0.15"),
	bracket(1200000, "0.20"),
	bracket(1500000, "0.30"),
}

// OldRegimeBrackets 旧税制税率表
var OldRegimeBrackets = []Bracket{
	bracket(0, "0"),
	bracket(250000, "0.05"),
	bracket(500000, "0.20"),
	bracket(1000000, "0.30"),
}

var (
	// StandardDeduction 旧税制标准扣除
	StandardDeduction = decimal.NewFromInt(50000)
	// CessMultiplier 4% 教育附加税，作用于总税额
	CessMultiplier = decimal.RequireFromString("1.04")
	// ITR1Limit ITR-1 收入上限（含）
	ITR1Limit = decimal.NewFromInt(5000000)
)

const (
	FormITR1       = "ITR-1 (Sahaj)"
	FormITR2OrHigh = "ITR-2 or higher"
)

// Query 一次计算请求，构造后不再修改
type Query struct {
	Income     decimal.Decimal
	Deductions decimal.Decimal
	Regime     Regime
}

// NewQuery 构造Query，负数按0处理，不设上限
func NewQuery(income, deductions decimal.Decimal, regime string) Query {
	return Query{
		Income:     nonNegative(income),
		Deductions: nonNegative(deductions),
		Regime:     ParseRegime(regime),
	}
}

func nonNegative(v decimal.Decimal) decimal.Decimal {
	if v.Sign() <= 0 {
		return decimal.Zero
	}
	return v
}

// progressive 累进计算：每一档只对超过本档起点的部分计税
func progressive(amount decimal.Decimal, brackets []Bracket) decimal.Decimal {
	total := decimal.Zero
	for i, b := range brackets {
		if amount.LessThanOrEqual(b.From) {
			break
		}
		slice := amount.Sub(b.From)
		if i+1 < len(brackets) {
			if width := brackets[i+1].From.Sub(b.From); slice.GreaterThan(width) {
				slice = width
			}
		}
		total = total.Add(slice.Mul(b.Rate))
	}
	return total
}

// NewRegime 新税制税额
func NewRegime(income decimal.Decimal) decimal.Decimal {
	return progressive(income, NewRegimeBrackets)
}

// OldRegime 旧税制税额（扣除标准扣除和申报扣除后计税，再乘以附加税）
func OldRegime(income, deductions decimal.Decimal) decimal.Decimal {
	taxable := decimal.Max(decimal.Zero, income.Sub(deductions).Sub(StandardDeduction))
	return progressive(taxable, OldRegimeBrackets).Mul(CessMultiplier)
}

// SuggestITRForm 按收入给出ITR表格建议，仅看收入阈值
func SuggestITRForm(income decimal.Decimal) string {
	if income.LessThanOrEqual(ITR1Limit) {
		return FormITR1
	}
	return FormITR2OrHigh
}

// Comparison 新旧税制对比结果
type Comparison struct {
	Query   Query
	OldTax  decimal.Decimal
	NewTax  decimal.Decimal
	Savings decimal.Decimal // OldTax - NewTax，正数表示新税制更省
	Form    string
}

// Compare 同时计算两种税制；Query.Regime 不参与计算
func Compare(q Query) Comparison {
	oldTax := OldRegime(q.Income, q.Deductions)
	newTax := NewRegime(q.Income)
	return Comparison{
		Query:   q,
		OldTax:  oldTax,
		NewTax:  newTax,
		Savings: oldTax.Sub(newTax),
		Form:    SuggestITRForm(q.Income),
	}
}
