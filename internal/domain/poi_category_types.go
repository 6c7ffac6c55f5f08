package domain

import "strings"

// Category - категория заведения, как её присылает backend
type Category string

// Place category constants
const (
	CategoryPark        Category = "park"
	CategoryCafe        Category = "cafe"
	CategoryRestaurant  Category = "restaurant"
	CategoryHotel       Category = "hotel"
	CategoryPetHospital Category = "pet_hospital"
	CategoryPetStore    Category = "pet_store"
	CategoryGrooming    Category = "grooming"
	CategoryMall        Category = "mall"
	CategoryUnknown     Category = "unknown"
)

// categoryDisplayNames - фиксированная таблица отображаемых названий
var categoryDisplayNames = map[Category]string{
	CategoryPark:        "Dog Park",
	CategoryCafe:        "Pet-friendly Café",
	CategoryRestaurant:  "Pet-friendly Restaurant",
	CategoryHotel:       "Pet Hotel",
	CategoryPetHospital: "Pet Hospital",
	CategoryPetStore:    "Pet Store",
	CategoryGrooming:    "Grooming Salon",
	CategoryMall:        "Pet-friendly Mall",
	CategoryUnknown:     "Other",
}

// categoryAliases maps legacy backend codes to categories
var categoryAliases = map[string]Category{
	"dog_park":   CategoryPark,
	"coffee":     CategoryCafe,
	"veterinary": CategoryPetHospital,
	"vet":        CategoryPetHospital,
	"hospital":   CategoryPetHospital,
	"shop":       CategoryPetStore,
	"store":      CategoryPetStore,
	"spa":        CategoryGrooming,
	"boarding":   CategoryHotel,
}

// ParseCategory сопоставляет значение backend с категорией.
// Неизвестные и пустые значения превращаются в CategoryUnknown, а не отбрасываются.
func ParseCategory(raw string) Category {
	code := strings.ToLower(strings.TrimSpace(raw))
	if code == "" {
		return CategoryUnknown
	}
	if _, ok := categoryDisplayNames[Category(code)]; ok {
		return Category(code)
	}
	if c, ok := categoryAliases[code]; ok {
		return c
	}
	return CategoryUnknown
}

// DisplayName возвращает отображаемое название категории
func (c Category) DisplayName() string {
	if name, ok := categoryDisplayNames[c]; ok {
		return name
	}
	return categoryDisplayNames[CategoryUnknown]
}

// ValidCategories returns the categories a search filter may use
func ValidCategories() []Category {
	return []Category{
		CategoryPark,
		CategoryCafe,
		CategoryRestaurant,
		CategoryHotel,
		CategoryPetHospital,
		CategoryPetStore,
		CategoryGrooming,
		CategoryMall,
	}
}

// IsValidCategory checks if category may be used as a filter
func IsValidCategory(category Category) bool {
	for _, c := range ValidCategories() {
		if c == category {
			return true
		}
	}
	return false
}
