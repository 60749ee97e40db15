package model

// Variant 对比文案类型，由 旧税制税额-新税制税额 的符号决定
type Variant string

const (
	VariantNewRegimeSaves Variant = "new_regime_saves"
	VariantOldRegimeSaves Variant = "old_regime_saves"
	VariantNoSavings      Variant = "no_savings"
)

// Advice 一次请求的完整结果，金额字段已格式化用于展示
type Advice struct {
	Input      string  `json:"input"`
	Regime     string  `json:"regime"` // 提取到的税制，不参与计算
	Income     string  `json:"income"`
	Deductions string  `json:"deductions"`
	OldTax     string  `json:"old_tax"`
	NewTax     string  `json:"new_tax"`
	Form       string  `json:"itr_form"`
	Variant    Variant `json:"variant"`
	Facts      string  `json:"facts"`    // 交给LLM的确定性对比文本
	Response   string  `json:"response"` // LLM生成的说明或错误文本
}
