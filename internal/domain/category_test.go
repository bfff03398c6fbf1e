package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorySelectable(t *testing.T) {
	parent := int64(1)

	active := &Category{ID: 1, Name: "electronics", IsActive: true}
	assert.True(t, active.Selectable())

	retired := &Category{ID: 2, Name: "misc", IsActive: false}
	assert.False(t, retired.Selectable())

	child := &Category{ID: 3, Name: "phones", IsActive: true, ParentID: &parent}
	assert.False(t, child.Selectable(), "only roots are offered to drafts")
}

func TestSeedCategoriesAreSelectable(t *testing.T) {
	for _, c := range SeedCategories() {
		c := c
		assert.True(t, c.Selectable(), "seed category %s", c.Name)
	}
}
