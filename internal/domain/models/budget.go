package models

// Category is the financial statement bucket an Account belongs to.
type Category string

const (
	CategorySales       Category = "sales"
	CategoryCostOfSales Category = "cost_of_sales"
	CategorySGA         Category = "sga"
	CategoryNonOp       Category = "non_operating"
	// CategoryUnresolved marks an item whose master references are dangling.
	// Such items are bucketed under non_operating for display and totals.
	CategoryUnresolved Category = "unresolved"
)

// CategoryOrder is the statement rendering order. Subtotal rows follow this
// sequence, so the order is a contract, not a display preference.
var CategoryOrder = []Category{CategorySales, CategoryCostOfSales, CategorySGA, CategoryNonOp}

// ParseCategory maps an upstream category string to a Category. Anything
// unknown resolves to CategoryUnresolved.
func ParseCategory(s string) Category {
	switch Category(s) {
	case CategorySales, CategoryCostOfSales, CategorySGA, CategoryNonOp:
		return Category(s)
	default:
		return CategoryUnresolved
	}
}

// Weight returns the fixed sort priority of a category. Unresolved sorts last.
func (c Category) Weight() int {
	switch c {
	case CategorySales:
		return 1
	case CategoryCostOfSales:
		return 2
	case CategorySGA:
		return 3
	case CategoryNonOp:
		return 4
	default:
		return 99
	}
}

// Bucket returns the statement bucket an item is grouped and totaled under.
// Unresolved items fall into non_operating.
func (c Category) Bucket() Category {
	if c == CategoryUnresolved {
		return CategoryNonOp
	}
	return c
}

// Label returns the statement row label used by the original grid.
func (c Category) Label() string {
	switch c {
	case CategorySales:
		return "売上高"
	case CategoryCostOfSales:
		return "売上原価"
	case CategorySGA:
		return "販管費"
	default:
		return "営業外"
	}
}

// Account is a master-data record owned by the upstream Ghost API.
type Account struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Name     string `json:"name"`
}

// ItemType is the second master level, pointing each item at an account.
type ItemType struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
}

// Entry holds one month's amount for an item. Amounts are signed integers in
// minor currency units. At most one entry may exist per (item, date); writes
// go through the edit session, which enforces that.
type Entry struct {
	ItemID string `json:"item_id"`
	Date   string `json:"date"` // YYYY-MM-DD, always the first of the month
	Amount int64  `json:"amount"`
}

// Item is a budget line belonging to an upstream Job.
type Item struct {
	ID          string  `json:"id"`
	ItemTypeID  string  `json:"item_type_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	AssigneeID  *string `json:"assignee_id,omitempty"`
	Entries     []Entry `json:"entries"`
}

// Clone returns a structural deep copy of the item. The edit session
// snapshots drafts with it so draft mutation never reaches server-sourced
// data.
func (i Item) Clone() Item {
	out := i
	if i.AssigneeID != nil {
		id := *i.AssigneeID
		out.AssigneeID = &id
	}
	out.Entries = make([]Entry, len(i.Entries))
	copy(out.Entries, i.Entries)
	return out
}

// CloneItems deep-copies a whole item list.
func CloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// AmountOn returns the entry amount for a month key, or 0 when the item has
// no entry for that month.
func (i Item) AmountOn(monthKey string) int64 {
	for _, e := range i.Entries {
		if e.Date == monthKey {
			return e.Amount
		}
	}
	return 0
}

// EnrichedItem is an Item with its master references resolved. Account or
// Type stay nil when the reference is dangling; Category records which
// branch was taken.
type EnrichedItem struct {
	Item
	Type     *ItemType `json:"item_type,omitempty"`
	Account  *Account  `json:"account,omitempty"`
	Category Category  `json:"category"`
}

// Job is the upstream unit of work a budget's items belong to. Read-only
// here; the Ghost API owns it.
type Job struct {
	ID            string `json:"id"`
	ProjectID     string `json:"project_id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	BusinessModel string `json:"business_model,omitempty"`
}

// MonthColumn is one bucket of the fiscal-year window.
type MonthColumn struct {
	Key       string `json:"key"`        // YYYY-MM-01
	Label     string `json:"label"`      // e.g. 4月
	FullLabel string `json:"full_label"` // e.g. 2026年4月
}
