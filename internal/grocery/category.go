package grocery

import "strings"

// Category is a standard grocery category for organizing items.
// Stored as plain strings in the database; parse with ParseCategory
// so unknown values collapse to CategoryOther instead of leaking
// free text through the system.
type Category string

const (
	CategoryProduce    Category = "produce"
	CategoryDairy      Category = "dairy"
	CategoryMeat       Category = "meat"
	CategorySeafood    Category = "seafood"
	CategoryBakery     Category = "bakery"
	CategoryFrozen     Category = "frozen"
	CategoryPantry     Category = "pantry" // canned goods, dry goods
	CategoryBeverages  Category = "beverages"
	CategorySnacks     Category = "snacks"
	CategoryCondiments Category = "condiments"
	CategorySpices     Category = "spices"
	CategoryOther      Category = "other"
)

// Categories lists every valid category in declaration order.
var Categories = []Category{
	CategoryProduce,
	CategoryDairy,
	CategoryMeat,
	CategorySeafood,
	CategoryBakery,
	CategoryFrozen,
	CategoryPantry,
	CategoryBeverages,
	CategorySnacks,
	CategoryCondiments,
	CategorySpices,
	CategoryOther,
}

// ParseCategory maps an arbitrary string onto the closed category set.
// Unrecognized values fall back to CategoryOther; the second return
// reports whether the input was a known category.
func ParseCategory(s string) (Category, bool) {
	cleaned := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range Categories {
		if c == cleaned {
			return c, true
		}
	}
	return CategoryOther, false
}

// Source records how a pantry item entered the inventory.
type Source string

const (
	SourceManual  Source = "manual"  // user added it by hand
	SourceReceipt Source = "receipt" // extracted from a receipt upload
)
