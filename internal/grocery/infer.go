package grocery

import "strings"

// categoryKeywords maps each category to the keywords that vote for it.
// Declaration order matters: ties are resolved in favor of the category
// listed first, so the slice keeps a stable order instead of a map.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryProduce, []string{
		"apple", "banana", "orange", "lettuce", "spinach", "tomato", "potato",
		"onion", "carrot", "celery", "broccoli", "pepper", "cucumber", "avocado",
		"lemon", "lime", "grape", "berry", "melon", "mango", "pear", "peach",
		"mushroom", "garlic", "ginger", "herb", "cilantro", "parsley", "basil",
	}},
	{CategoryDairy, []string{
		"milk", "cheese", "yogurt", "butter", "cream", "egg", "sour cream",
		"cottage", "mozzarella", "cheddar", "parmesan", "feta", "ricotta",
	}},
	{CategoryMeat, []string{
		"chicken", "beef", "pork", "turkey", "lamb", "bacon", "sausage",
		"ham", "steak", "ground", "breast", "thigh", "wing", "rib",
	}},
	{CategorySeafood, []string{
		"salmon", "tuna", "shrimp", "fish", "crab", "lobster", "tilapia",
		"cod", "halibut", "scallop", "oyster", "clam", "mussel",
	}},
	{CategoryBakery, []string{
		"bread", "bagel", "muffin", "croissant", "roll", "bun", "tortilla",
		"pita", "cake", "cookie", "donut", "pastry",
	}},
	{CategoryFrozen, []string{
		"frozen", "ice cream", "pizza", "fries", "nugget", "waffle",
	}},
	{CategoryPantry, []string{
		"rice", "pasta", "noodle", "bean", "lentil", "flour", "sugar",
		"oil", "vinegar", "sauce", "soup", "broth", "canned", "cereal",
		"oat", "granola", "nut", "peanut", "almond",
	}},
	{CategoryBeverages, []string{
		"water", "juice", "soda", "coffee", "tea", "beer", "wine",
		"drink", "beverage", "sparkling", "kombucha",
	}},
	{CategorySnacks, []string{
		"chip", "cracker", "pretzel", "popcorn", "candy", "chocolate",
		"bar", "trail mix", "snack",
	}},
	{CategoryCondiments, []string{
		"ketchup", "mustard", "mayo", "mayonnaise", "dressing", "salsa",
		"hot sauce", "soy sauce", "bbq", "relish", "pickle",
	}},
	{CategorySpices, []string{
		"salt", "pepper", "spice", "seasoning", "cumin", "paprika",
		"oregano", "thyme", "cinnamon", "nutmeg", "curry",
	}},
}

// InferCategory guesses the category of a normalized item name by counting
// keyword hits per category. The category with the most hits wins; ties go
// to the category declared first; no hits at all yields CategoryOther.
func InferCategory(normalizedName string) Category {
	name := strings.ToLower(normalizedName)

	best := CategoryOther
	bestScore := 0

	for _, entry := range categoryKeywords {
		score := 0
		for _, kw := range entry.keywords {
			if strings.Contains(name, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = entry.category
		}
	}

	return best
}
