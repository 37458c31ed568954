package matrix

// OnParentCategoryChange prunes currentSelection to the item names that
// belong to newCategories. An empty category selection prunes nothing.
func OnParentCategoryChange(newCategories, currentSelection []string, allItems []Item) []string {
	if len(newCategories) == 0 {
		return clone(currentSelection)
	}
	allowed := make(map[string]bool, len(allItems))
	for _, it := range allItems {
		if it.Category.In(newCategories) {
			allowed[it.Name] = true
		}
	}
	kept := make([]string, 0, len(currentSelection))
	for _, name := range currentSelection {
		if allowed[name] {
			kept = append(kept, name)
		}
	}
	return kept
}

// ItemOptions lists the item names selectable under categories, in item
// order and without duplicates.
func ItemOptions(categories []string, allItems []Item) []string {
	seen := map[string]bool{}
	names := make([]string, 0, len(allItems))
	for _, it := range allItems {
		if len(categories) > 0 && !it.Category.In(categories) {
			continue
		}
		if seen[it.Name] {
			continue
		}
		seen[it.Name] = true
		names = append(names, it.Name)
	}
	return names
}
