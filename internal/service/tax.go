package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"taxmate-go/internal/fetcher"
	"taxmate-go/internal/model"
	"taxmate-go/internal/tax"
)

// SystemPrompt 两次LLM调用共用的系统提示
const SystemPrompt = "You are a tax assistant for India."

const extractPromptTemplate = "Extract income, deductions, and regime (old/new) from: '%s'. " +
	"Convert Indian terms like '10 lakhs' to numeric (10 lakhs = 1000000). " +
	"If not specified, assume deductions are 0 and regime is 'new'. " +
	"Return valid JSON only, nothing else, e.g., {'income': 1000000, 'deductions': 150000, 'regime': 'old'}."

const narrativePromptTemplate = "User said: '%s'. %s The ITR form is %s. " +
	"Respond naturally, explaining this comparison clearly and suggesting the better option."

// TaxService 税务对比服务
type TaxService struct {
	llm    fetcher.LLMClient
	logger *zap.Logger
}

// NewTaxService 创建服务
func NewTaxService(llm fetcher.LLMClient, logger *zap.Logger) *TaxService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaxService{llm: llm, logger: logger}
}

// ExtractDetails 让LLM从自然语言中提取收入、扣除和税制
// 调用失败或解析失败都返回默认值，不向用户暴露
func (s *TaxService) ExtractDetails(ctx context.Context, input string) fetcher.TaxDetails {
	raw, err := s.llm.Chat(ctx, SystemPrompt, fmt.Sprintf(extractPromptTemplate, input))
	if err != nil {
		s.logger.Warn("Extraction call failed, using defaults", zap.Error(err))
		return fetcher.DefaultTaxDetails()
	}

	details, err := fetcher.ParseTaxDetails(raw)
	if err != nil {
		s.logger.Warn("Extraction output unparseable, using defaults",
			zap.Error(err),
			zap.String("raw", raw))
		return fetcher.DefaultTaxDetails()
	}
	return details
}

// ComposeComparison 根据节省金额的符号选择文案
func ComposeComparison(c tax.Comparison) (model.Variant, string) {
	income := FormatRupees(c.Query.Income)
	deductions := FormatRupees(c.Query.Deductions)
	oldTax := FormatRupees(c.OldTax)
	newTax := FormatRupees(c.NewTax)

	switch c.Savings.Sign() {
	case 1:
		return model.VariantNewRegimeSaves, fmt.Sprintf(
			"For your income of %s and deductions of %s, the tax under the old regime is %s, while the new regime tax is %s. "+
				"The new regime saves you %s since it offers lower rates and doesn't rely on deductions.",
			income, deductions, oldTax, newTax, FormatRupees(c.Savings))
	case -1:
		return model.VariantOldRegimeSaves, fmt.Sprintf(
			"For your income of %s and deductions of %s, the tax under the old regime is %s, while the new regime tax is %s. "+
				"The old regime saves you %s because your deductions reduce taxable income effectively.",
			income, deductions, oldTax, newTax, FormatRupees(c.Savings.Abs()))
	default:
		return model.VariantNoSavings, fmt.Sprintf(
			"For your income of %s and deductions of %s, both the old regime tax and new regime tax are %s. No savings either way.",
			income, deductions, newTax)
	}
}

// BuildNarrativePrompt 第二次LLM调用的提示
func BuildNarrativePrompt(input, facts, form string) string {
	return fmt.Sprintf(narrativePromptTemplate, input, facts, form)
}

// FormatRupees 金额格式化：保留两位小数，按印度习惯分组（12,00,000.00）
// 直接使用decimal的文本，金额不受float64/int64范围限制
func FormatRupees(amount decimal.Decimal) string {
	text := amount.Round(2).StringFixed(2)

	sign := ""
	if strings.HasPrefix(text, "-") {
		sign, text = "-", text[1:]
	}
	whole, frac, _ := strings.Cut(text, ".")
	return sign + "₹" + groupLakh(whole) + "." + frac
}

// groupLakh 末三位一组，其余两位一组
func groupLakh(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	groups := []string{tail}
	for len(head) > 2 {
		groups = append(groups, head[len(head)-2:])
		head = head[:len(head)-2]
	}
	groups = append(groups, head)

	for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
		groups[i], groups[j] = groups[j], groups[i]
	}
	return strings.Join(groups, ",")
}

// Advise 完整流程：提取 -> 计算 -> 生成说明
func (s *TaxService) Advise(ctx context.Context, input string) *model.Advice {
	start := time.Now()

	details := s.ExtractDetails(ctx, input)
	query := tax.NewQuery(details.Income, details.Deductions, details.Regime)
	cmp := tax.Compare(query)
	variant, facts := ComposeComparison(cmp)

	response := fetcher.Reply(ctx, s.llm, SystemPrompt, BuildNarrativePrompt(input, facts, cmp.Form))

	s.logger.Info("Tax comparison completed",
		zap.String("income", query.Income.String()),
		zap.String("deductions", query.Deductions.String()),
		zap.String("regime", string(query.Regime)),
		zap.String("old_tax", cmp.OldTax.String()),
		zap.String("new_tax", cmp.NewTax.String()),
		zap.String("variant", string(variant)),
		zap.Duration("elapsed", time.Since(start)))

	return &model.Advice{
		Input:      input,
		Regime:     string(query.Regime),
		Income:     FormatRupees(query.Income),
		Deductions: FormatRupees(query.Deductions),
		OldTax:     FormatRupees(cmp.OldTax),
		NewTax:     FormatRupees(cmp.NewTax),
		Form:       cmp.Form,
		Variant:    variant,
		Facts:      facts,
		Response:   response,
	}
}
