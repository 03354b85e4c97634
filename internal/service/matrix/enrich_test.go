package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghostplan/matrix/internal/domain/models"
)

var testAccounts = []models.Account{
	{ID: "acc-sales", Category: "sales", Name: "売上高"},
	{ID: "acc-cogs", Category: "cost_of_sales", Name: "売上原価"},
	{ID: "acc-sga", Category: "sga", Name: "販管費"},
	{ID: "acc-nonop", Category: "non_operating", Name: "営業外"},
}

var testItemTypes = []models.ItemType{
	{ID: "type-revenue", AccountID: "acc-sales", Name: "受託収入"},
	{ID: "type-outsourcing", AccountID: "acc-cogs", Name: "外注費"},
	{ID: "type-labor", AccountID: "acc-sga", Name: "人件費"},
	{ID: "type-orphan", AccountID: "acc-missing", Name: "宙に浮いた種別"},
}

func item(id, typeID, name string, entries ...models.Entry) models.Item {
	return models.Item{ID: id, ItemTypeID: typeID, Name: name, Entries: entries}
}

func TestEnrich_ResolvesMasters(t *testing.T) {
	items := []models.Item{item("i1", "type-revenue", "新規受注")}

	enriched := Enrich(items, testAccounts, testItemTypes)
	require.Len(t, enriched, 1)

	e := enriched[0]
	require.NotNil(t, e.Type)
	require.NotNil(t, e.Account)
	assert.Equal(t, "受託収入", e.Type.Name)
	assert.Equal(t, models.CategorySales, e.Category)
}

func TestEnrich_DanglingItemType(t *testing.T) {
	items := []models.Item{item("i1", "type-nope", "迷子")}

	enriched := Enrich(items, testAccounts, testItemTypes)
	require.Len(t, enriched, 1)

	e := enriched[0]
	assert.Nil(t, e.Type)
	assert.Nil(t, e.Account)
	assert.Equal(t, models.CategoryUnresolved, e.Category)
	assert.Equal(t, models.CategoryNonOp, e.Category.Bucket())
}

func TestEnrich_DanglingAccount(t *testing.T) {
	items := []models.Item{item("i1", "type-orphan", "片割れ")}

	enriched := Enrich(items, testAccounts, testItemTypes)
	require.Len(t, enriched, 1)

	e := enriched[0]
	require.NotNil(t, e.Type)
	assert.Nil(t, e.Account)
	assert.Equal(t, models.CategoryUnresolved, e.Category)
}

func TestEnrich_PreservesInputOrder(t *testing.T) {
	items := []models.Item{
		item("i1", "type-labor", "b"),
		item("i2", "type-revenue", "a"),
	}

	enriched := Enrich(items, testAccounts, testItemTypes)
	require.Len(t, enriched, 2)
	assert.Equal(t, "i1", enriched[0].ID)
	assert.Equal(t, "i2", enriched[1].ID)
}

func TestSortForDisplay_CategoryWeightFirst(t *testing.T) {
	enriched := Enrich([]models.Item{
		item("i1", "type-labor", "人件費A"),
		item("i2", "type-nope", "未分類"),
		item("i3", "type-revenue", "受注B"),
		item("i4", "type-outsourcing", "外注C"),
	}, testAccounts, testItemTypes)

	SortForDisplay(enriched)

	got := []models.Category{enriched[0].Category, enriched[1].Category, enriched[2].Category, enriched[3].Category}
	assert.Equal(t, []models.Category{
		models.CategorySales,
		models.CategoryCostOfSales,
		models.CategorySGA,
		models.CategoryUnresolved, // weight 99, sorts last
	}, got)
}

func TestSortForDisplay_NameWithinCategory(t *testing.T) {
	enriched := Enrich([]models.Item{
		item("i1", "type-revenue", "b案件"),
		item("i2", "type-revenue", "a案件"),
	}, testAccounts, testItemTypes)

	SortForDisplay(enriched)

	assert.Equal(t, "a案件", enriched[0].Name)
	assert.Equal(t, "b案件", enriched[1].Name)
}
