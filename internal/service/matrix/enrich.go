package matrix

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ghostplan/matrix/internal/domain/models"
)

// Enrich resolves each item's type and account references against the master
// lists. A dangling item_type_id, or a type whose account_id does not
// resolve, yields CategoryUnresolved; such items are bucketed under
// non_operating downstream.
func Enrich(items []models.Item, accounts []models.Account, itemTypes []models.ItemType) []models.EnrichedItem {
	typesByID := make(map[string]*models.ItemType, len(itemTypes))
	for i := range itemTypes {
		typesByID[itemTypes[i].ID] = &itemTypes[i]
	}
	accountsByID := make(map[string]*models.Account, len(accounts))
	for i := range accounts {
		accountsByID[accounts[i].ID] = &accounts[i]
	}

	enriched := make([]models.EnrichedItem, 0, len(items))
	for _, item := range items {
		e := models.EnrichedItem{Item: item, Category: models.CategoryUnresolved}

		if t, ok := typesByID[item.ItemTypeID]; ok {
			e.Type = t
			if a, ok := accountsByID[t.AccountID]; ok {
				e.Account = a
				e.Category = models.ParseCategory(a.Category)
			}
		}

		enriched = append(enriched, e)
	}

	return enriched
}

// SortForDisplay orders items by (category weight ascending, name ascending
// under Japanese collation). Applied to the source list before grouping so
// within-category order is deterministic across reloads. The sort is stable.
func SortForDisplay(enriched []models.EnrichedItem) {
	c := collate.New(language.Japanese)
	sort.SliceStable(enriched, func(i, j int) bool {
		wi, wj := enriched[i].Category.Weight(), enriched[j].Category.Weight()
		if wi != wj {
			return wi < wj
		}
		return c.CompareString(enriched[i].Name, enriched[j].Name) < 0
	})
}
