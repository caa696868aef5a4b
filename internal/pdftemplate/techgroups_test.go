package pdftemplate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupTechSkillsBucketsByCategory(t *testing.T) {
	groups := GroupTechSkills([]string{
		"Go", "React", "PostgreSQL", "Docker", "Microservices", "Esperanto",
	})

	require.Len(t, groups, 6)
	assert.Equal(t, "Backend Development", groups[0].Name)
	assert.Equal(t, []string{"Go"}, groups[0].Skills)
	assert.Equal(t, "Frontend & UI", groups[1].Name)
	assert.Equal(t, "Database & Data", groups[2].Name)
	assert.Equal(t, "DevOps & Cloud", groups[3].Name)
	assert.Equal(t, "Architecture & Practices", groups[4].Name)
	assert.Equal(t, "Other", groups[5].Name)
	assert.Equal(t, []string{"Esperanto"}, groups[5].Skills)
}

func TestGroupTechSkillsMatchesWholeTokensOnly(t *testing.T) {
	groups := GroupTechSkills([]string{"MongoDB", "REST APIs"})

	require.Len(t, groups, 2)
	// "go" must not swallow "mongodb"
	assert.Equal(t, "Backend Development", groups[0].Name)
	assert.Equal(t, []string{"REST APIs"}, groups[0].Skills)
	assert.Equal(t, "Database & Data", groups[1].Name)
	assert.Equal(t, []string{"MongoDB"}, groups[1].Skills)
}

func TestGroupTechSkillsDeduplicatesCaseInsensitively(t *testing.T) {
	groups := GroupTechSkills([]string{"Go", "go", "GO", " "})

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"Go"}, groups[0].Skills)
}

func TestGroupTechSkillsEmptyInput(t *testing.T) {
	assert.Empty(t, GroupTechSkills(nil))
}

func buildGroups(count, skillsPer, skillLen int) []TechGroup {
	groups := make([]TechGroup, 0, count)
	for i := 0; i < count; i++ {
		skills := make([]string, skillsPer)
		for j := range skills {
			skills[j] = strings.Repeat(string(rune('a'+i)), skillLen)
		}
		groups = append(groups, TechGroup{Name: "G" + string(rune('1'+i)), Skills: skills})
	}
	return groups
}

func TestRenderTechLineKeepsShortLines(t *testing.T) {
	line := renderTechLine(buildGroups(3, 3, 5))

	assert.Equal(t, 2, strings.Count(line, " | "))
	assert.LessOrEqual(t, len(line), techRecapSecond)
}

func TestRenderTechLineRecapsToFiveByFour(t *testing.T) {
	// a 6x5 serialization between 300 and 400 chars shrinks to 5 groups x 4 skills
	line := renderTechLine(buildGroups(6, 5, 8))

	assert.Equal(t, 4, strings.Count(line, " | "))
	assert.Equal(t, 15, strings.Count(line, ","))
}

func TestRenderTechLineRecapsToFourByFour(t *testing.T) {
	// past 400 chars the line shrinks to 4 groups x 4 skills
	line := renderTechLine(buildGroups(6, 5, 12))

	assert.Equal(t, 3, strings.Count(line, " | "))
	assert.Equal(t, 12, strings.Count(line, ","))
}

func TestCapGroupsBoundsGroupsAndSkills(t *testing.T) {
	capped := capGroups(buildGroups(7, 6, 3), 6, 5)

	require.Len(t, capped, 6)
	for _, group := range capped {
		assert.Len(t, group.Skills, 5)
	}
}
