package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategoryOthersForms(t *testing.T) {
	for _, label := range []string{"", "   ", "\t", "Others"} {
		c := ParseCategory(label)
		assert.True(t, c.IsOthers(), "label %q", label)
		assert.Equal(t, OthersLabel, c.Label())
	}

	named := ParseCategory("  Backend ")
	assert.False(t, named.IsOthers())
	assert.Equal(t, "Backend", named.Label())
}

func TestCategoryInUnionsOthers(t *testing.T) {
	selection := []string{"Backend", OthersLabel}

	assert.True(t, ParseCategory("").In(selection))
	assert.True(t, ParseCategory("Backend").In(selection))
	assert.False(t, ParseCategory("Frontend").In(selection))
	assert.False(t, ParseCategory("").In([]string{"Backend"}))
}

func TestSkillCategoryFromParentSkill(t *testing.T) {
	skill := Skill{Name: "Go", ParentSkill: ""}
	assert.True(t, skill.Category().In([]string{OthersLabel}))
	assert.False(t, skill.Category().In([]string{"Backend"}))
}
