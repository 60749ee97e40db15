package fetcher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// LLMClient 文本生成客户端 (Cohere)
type LLMClient interface {
	Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// TaxDetails 从自然语言中提取的税务字段，金额不设上限
type TaxDetails struct {
	Income     decimal.Decimal
	Deductions decimal.Decimal
	Regime     string
}

// MarshalJSON 金额按JSON数字输出
func (t TaxDetails) MarshalJSON() ([]byte, error) {
	regime, err := json.Marshal(t.Regime)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf(`{"income":%s,"deductions":%s,"regime":%s}`,
		t.Income.String(), t.Deductions.String(), regime)), nil
}

// DefaultTaxDetails 提取失败时使用的默认值
func DefaultTaxDetails() TaxDetails {
	return TaxDetails{Income: decimal.Zero, Deductions: decimal.Zero, Regime: "new"}
}
