package matrix

import (
	"github.com/ghostplan/matrix/internal/domain/models"
)

// Aggregate groups enriched items into statement categories and computes the
// per-month subtotal for each category plus the operating profit row.
//
// Category order follows models.CategoryOrder; within a category the input
// order is preserved. Profit deliberately excludes non_operating:
//
//	profit[m] = sales[m] - cost_of_sales[m] - sga[m]
//
// The function is pure and total: same inputs always yield the same view.
func Aggregate(enriched []models.EnrichedItem, months []models.MonthColumn) models.MatrixView {
	groups := make(map[models.Category][]models.EnrichedItem, len(models.CategoryOrder))
	for _, cat := range models.CategoryOrder {
		groups[cat] = []models.EnrichedItem{}
	}
	for _, item := range enriched {
		bucket := item.Category.Bucket()
		groups[bucket] = append(groups[bucket], item)
	}

	totals := make(map[models.Category]models.MonthAmounts, len(models.CategoryOrder))
	for _, cat := range models.CategoryOrder {
		sums := make(models.MonthAmounts, len(months))
		for _, m := range months {
			var sum int64
			for _, item := range groups[cat] {
				sum += item.AmountOn(m.Key)
			}
			sums[m.Key] = sum
		}
		totals[cat] = sums
	}

	profit := make(models.MonthAmounts, len(months))
	for _, m := range months {
		profit[m.Key] = totals[models.CategorySales][m.Key] -
			totals[models.CategoryCostOfSales][m.Key] -
			totals[models.CategorySGA][m.Key]
	}

	return models.MatrixView{
		Months:        months,
		GroupedItems:  groups,
		MonthlyTotals: totals,
		Profit:        profit,
	}
}
