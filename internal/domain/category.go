package domain

import "time"

// Category is a single-level hierarchy; the active roots are a fixed seed
// list upserted at startup.
type Category struct {
	ID        int64
	Name      string
	Icon      string
	ParentID  *int64
	SortOrder int
	IsActive  bool
	CreatedAt time.Time
}

// Selectable reports whether a category may be attached to a draft: only
// active roots qualify.
func (c *Category) Selectable() bool {
	return c.IsActive && c.ParentID == nil
}

// SeedCategories is the fixed active-root set. Missing entries are inserted,
// existing ones get icon/sortOrder refreshed; nothing is deleted.
func SeedCategories() []Category {
	return []Category{
		{Name: "electronics", Icon: "📱", SortOrder: 10, IsActive: true},
		{Name: "furniture", Icon: "🛋", SortOrder: 20, IsActive: true},
		{Name: "clothes", Icon: "👕", SortOrder: 30, IsActive: true},
		{Name: "kids", Icon: "🧸", SortOrder: 40, IsActive: true},
		{Name: "auto", Icon: "🚗", SortOrder: 50, IsActive: true},
		{Name: "services", Icon: "🛠", SortOrder: 60, IsActive: true},
		{Name: "realty", Icon: "🏠", SortOrder: 70, IsActive: true},
		{Name: "free", Icon: "🎁", SortOrder: 80, IsActive: true},
		{Name: "other", Icon: "📦", SortOrder: 90, IsActive: true},
	}
}
