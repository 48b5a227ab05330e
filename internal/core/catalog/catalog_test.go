package catalog

import "testing"

func TestMenu_RecipesReferenceSeededIngredients(t *testing.T) {
	known := make(map[string]bool)
	for _, ing := range Inventory() {
		known[ing.ID] = true
	}

	for _, item := range Menu() {
		if item.Price <= 0 {
			t.Errorf("item %s: expected positive price, got %v", item.ID, item.Price)
		}
		for ingID, qty := range item.Recipe {
			if !known[ingID] {
				t.Errorf("item %s: recipe references unknown ingredient %q", item.ID, ingID)
			}
			if qty <= 0 {
				t.Errorf("item %s: expected positive quantity for %s, got %v", item.ID, ingID, qty)
			}
		}
	}
}

func TestMenu_ReturnsFreshCopies(t *testing.T) {
	first := Menu()
	first[0].Recipe["cheese"] = 99

	second := Menu()
	if second[0].Recipe["cheese"] == 99 {
		t.Error("expected mutation of one copy not to leak into the next")
	}
}

func TestMenu_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, item := range Menu() {
		if seen[item.ID] {
			t.Errorf("duplicate menu id %s", item.ID)
		}
		seen[item.ID] = true
	}
}
