package models

// Category 预算类别及其占收入的百分比（静态配置，不入库）
type Category struct {
	Name       string  `json:"name" example:"Food"`
	Percentage float64 `json:"percentage" example:"15"`
}
