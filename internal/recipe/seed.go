package recipe

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
)

//go:embed data/recipes_seed.json
var seedData []byte

// Seed loads the embedded catalog into an empty recipes table. It is a
// no-op when recipes already exist, so restarts never duplicate rows.
func (r *Repository) Seed(ctx context.Context) (int, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	var recipes []Recipe
	if err := json.Unmarshal(seedData, &recipes); err != nil {
		return 0, fmt.Errorf("failed to decode seed dataset: %w", err)
	}

	for i := range recipes {
		if _, err := r.Create(ctx, recipes[i]); err != nil {
			return i, fmt.Errorf("failed to seed recipe %q: %w", recipes[i].Title, err)
		}
	}

	log.Printf("Seeded %d recipes", len(recipes))
	return len(recipes), nil
}
