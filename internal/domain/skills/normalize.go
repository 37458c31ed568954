package skills

import (
	"fmt"
	"strings"
	"time"
)

const monthLayout = "2006-01"

// NormalizeProficiency maps the common "Advance" spelling and casing
// variants onto the canonical level names.
func NormalizeProficiency(level string) string {
	level = strings.TrimSpace(level)
	if strings.EqualFold(level, "Advance") {
		return ProficiencyAdvanced
	}
	return Canonical(level, ProficiencyLevels)
}

// Canonical returns the allowed value matching value ignoring case, or the
// trimmed input when none does.
func Canonical(value string, allowed []string) string {
	value = strings.TrimSpace(value)
	for _, known := range allowed {
		if strings.EqualFold(value, known) {
			return known
		}
	}
	return value
}

// NormalizeSkillCategory maps HardSkill/SoftSkill spellings onto the two
// display categories; other labels pass through trimmed.
func NormalizeSkillCategory(category string) string {
	category = strings.TrimSpace(category)
	key := strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(category))
	switch key {
	case "hardskill", "technical", "technicalskill":
		return CategoryTechnical
	case "softskill", "nontechnical", "nontechnicalskill":
		return CategoryNonTechnical
	}
	return category
}

// NormalizeMonth reduces an assessment date to YYYY-MM. It accepts YYYY-MM
// and the full date forms of ParseDate; empty input stays empty.
func NormalizeMonth(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if t, err := time.Parse(monthLayout, value); err == nil {
		return t.Format(monthLayout), nil
	}
	d, err := ParseDate(value)
	if err != nil {
		return "", fmt.Errorf("%w: last assessed %q is not a month", ErrInvalidInput, value)
	}
	return d.Format(monthLayout), nil
}
