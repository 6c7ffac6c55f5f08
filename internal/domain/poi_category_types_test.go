package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := map[string]Category{
		"cafe":         CategoryCafe,
		" Park ":       CategoryPark,
		"PET_HOSPITAL": CategoryPetHospital,
		"vet":          CategoryPetHospital,
		"dog_park":     CategoryPark,
		"boarding":     CategoryHotel,
		"":             CategoryUnknown,
		"zoo":          CategoryUnknown,
		"unknown":      CategoryUnknown,
	}

	for raw, expected := range tests {
		assert.Equal(t, expected, ParseCategory(raw), raw)
	}
}

func TestCategory_DisplayName(t *testing.T) {
	assert.Equal(t, "Pet Hospital", CategoryPetHospital.DisplayName())
	assert.Equal(t, "Other", CategoryUnknown.DisplayName())
	assert.Equal(t, "Other", Category("zoo").DisplayName())

	for _, c := range ValidCategories() {
		assert.NotEqual(t, "Other", c.DisplayName(), c)
	}
}

func TestIsValidCategory(t *testing.T) {
	assert.True(t, IsValidCategory(CategoryGrooming))
	assert.False(t, IsValidCategory(CategoryUnknown))
	assert.False(t, IsValidCategory(Category("vet")))
}
