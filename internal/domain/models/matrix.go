package models

// MatrixView is the derived grid: items grouped in statement order, per
// month subtotals per category, and the operating profit row. It is never
// persisted; it is recomputed from (items × masters × months) on demand.
type MatrixView struct {
	Months        []MonthColumn               `json:"months"`
	GroupedItems  map[Category][]EnrichedItem `json:"grouped_items"`
	MonthlyTotals map[Category]MonthAmounts   `json:"monthly_totals"`
	Profit        MonthAmounts                `json:"profit"`
}

// MonthAmounts maps a month key to a signed amount.
type MonthAmounts map[string]int64
