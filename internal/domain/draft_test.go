package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTitleBounds(t *testing.T) {
	assert.Error(t, ValidateTitle("ab"))
	assert.NoError(t, ValidateTitle("abc"))
	assert.NoError(t, ValidateTitle(strings.Repeat("я", 100)), "rune count, not bytes")
	assert.Error(t, ValidateTitle(strings.Repeat("я", 101)))
}

func TestValidateDescriptionBounds(t *testing.T) {
	assert.Error(t, ValidateDescription("short"))
	assert.NoError(t, ValidateDescription("just long enough"))
	assert.NoError(t, ValidateDescription(strings.Repeat("о", 600)))
	assert.Error(t, ValidateDescription(strings.Repeat("о", 601)))
}

func TestValidateLocation(t *testing.T) {
	assert.Error(t, ValidateLocation("x"))
	assert.NoError(t, ValidateLocation("Hamburg"))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Велосипед", Capitalize("велосипед"))
	assert.Equal(t, "Bike", Capitalize("  bike"))
	assert.Equal(t, "", Capitalize("  "))
}

func TestDraftComplete(t *testing.T) {
	d := NewDraft(1)
	assert.False(t, d.Complete())

	d.Title = "Old bike"
	d.Description = "Good condition, barely used"
	d.CategoryID = 1
	d.Price = NegotiablePrice()
	d.PriceSet = true
	d.Location = "Hamburg"
	assert.True(t, d.Complete())
}

func TestNewDraftDefaults(t *testing.T) {
	d := NewDraft(42)
	assert.Equal(t, StepTitle, d.Step)
	assert.Equal(t, RegionHamburg, d.Region)
	assert.Equal(t, NewTariffSet(), d.Tariffs)
}
