package grocery

import "testing"

func TestParseCategory(t *testing.T) {
	t.Run("Known", func(t *testing.T) {
		cat, ok := ParseCategory("  Dairy ")
		if !ok {
			t.Fatal("Expected 'Dairy' to parse as a known category")
		}
		if cat != CategoryDairy {
			t.Errorf("Expected CategoryDairy, got '%s'", cat)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		cat, ok := ParseCategory("electronics")
		if ok {
			t.Error("Expected 'electronics' to be unknown")
		}
		if cat != CategoryOther {
			t.Errorf("Expected CategoryOther fallback, got '%s'", cat)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		cat, ok := ParseCategory("")
		if ok {
			t.Error("Expected empty string to be unknown")
		}
		if cat != CategoryOther {
			t.Errorf("Expected CategoryOther fallback, got '%s'", cat)
		}
	})
}

func TestInferCategory(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Category
	}{
		{"Milk", "milk", CategoryDairy},
		{"ChickenBreast", "chicken breast", CategoryMeat},
		{"BabySpinach", "baby spinach", CategoryProduce},
		{"Salmon", "salmon fillet", CategorySeafood},
		{"Bread", "sourdough bread", CategoryBakery},
		{"Soda", "sparkling water", CategoryBeverages},
		{"NoSignal", "mystery box", CategoryOther},
		{"Empty", "", CategoryOther},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := InferCategory(tc.input)
			if got != tc.expected {
				t.Errorf("InferCategory(%q) = '%s', expected '%s'", tc.input, got, tc.expected)
			}
		})
	}

	t.Run("MostHitsWins", func(t *testing.T) {
		// "chicken breast thigh" hits meat three times, produce zero.
		got := InferCategory("chicken breast thigh")
		if got != CategoryMeat {
			t.Errorf("Expected CategoryMeat, got '%s'", got)
		}
	})

	t.Run("TieGoesToFirstDeclared", func(t *testing.T) {
		// One produce keyword ("apple") and one pantry keyword ("cereal").
		// Produce is declared before pantry in the keyword table.
		got := InferCategory("apple cereal")
		if got != CategoryProduce {
			t.Errorf("Expected tie to resolve to CategoryProduce, got '%s'", got)
		}
	})
}
