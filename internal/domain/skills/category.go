package skills

import "strings"

// OthersLabel is the bucket label for items without a parent category.
const OthersLabel = "Others"

// Category is either a named parent category or the implicit Others bucket.
// The zero value is Others.
type Category struct {
	name string
}

// ParseCategory treats empty and whitespace-only labels as Others.
func ParseCategory(label string) Category {
	return Category{name: strings.TrimSpace(label)}
}

func Named(name string) Category {
	return ParseCategory(name)
}

func (c Category) IsOthers() bool {
	return c.name == "" || c.name == OthersLabel
}

// Label is the name shown in category selectors.
func (c Category) Label() string {
	if c.name == "" {
		return OthersLabel
	}
	return c.name
}

// In reports whether the category is part of a selection of labels. An
// "Others" entry in the selection matches both the implicit bucket and
// items explicitly labelled Others, alongside any named matches.
func (c Category) In(selection []string) bool {
	label := c.Label()
	for _, candidate := range selection {
		if strings.TrimSpace(candidate) == label {
			return true
		}
	}
	return false
}
