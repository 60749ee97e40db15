package fetcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrExtractionParse LLM提取结果无法解析
var ErrExtractionParse = errors.New("extraction output is not a JSON object")

var codeBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// extractJSON 从LLM响应中提取JSON（处理markdown代码块）
func extractJSON(response string) string {
	// 尝试提取 ```json ... ``` 代码块
	matches := codeBlockRe.FindStringSubmatch(response)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	// 如果没有代码块，尝试找 { } 包围的内容
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start != -1 && end > start {
		return response[start : end+1]
	}

	return strings.TrimSpace(response)
}

// ParseTaxDetails 解析LLM返回的类JSON文本
// 先严格解析，失败后把单引号替换为双引号再试一次
func ParseTaxDetails(raw string) (TaxDetails, error) {
	candidate := extractJSON(raw)
	if candidate == "" {
		return DefaultTaxDetails(), fmt.Errorf("%w: empty response", ErrExtractionParse)
	}

	details, err := decodeTaxDetails(candidate)
	if err == nil {
		return details, nil
	}

	normalized := strings.ReplaceAll(candidate, "'", `"`)
	details, err = decodeTaxDetails(normalized)
	if err != nil {
		return DefaultTaxDetails(), fmt.Errorf("%w: %v", ErrExtractionParse, err)
	}
	return details, nil
}

func decodeTaxDetails(s string) (TaxDetails, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return TaxDetails{}, err
	}
	if fields == nil {
		return TaxDetails{}, errors.New("null object")
	}

	details := DefaultTaxDetails()
	details.Income = toAmount(fields["income"])
	details.Deductions = toAmount(fields["deductions"])
	if regime, ok := fields["regime"].(string); ok && strings.EqualFold(strings.TrimSpace(regime), "old") {
		details.Regime = "old"
	}
	return details, nil
}

// toAmount 把数字或数字字符串转换为非负金额，无法识别时为0
func toAmount(v interface{}) decimal.Decimal {
	var text string
	switch x := v.(type) {
	case json.Number:
		text = x.String()
	case string:
		text = strings.NewReplacer(",", "", "₹", "", " ", "").Replace(x)
	default:
		return decimal.Zero
	}

	amount, err := decimal.NewFromString(text)
	if err != nil || amount.Sign() <= 0 {
		return decimal.Zero
	}
	return amount
}
