package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyContext(t *testing.T) {
	gc := EmptyContext()
	assert.Equal(t, "Player", gc.PlayerName)
	assert.Empty(t, gc.TopSkills)
	assert.False(t, gc.Employed)
	assert.Equal(t, 1, gc.Day)
}

func TestFromGameState_TopSkills(t *testing.T) {
	skills := map[string]Proficiency{
		"Python":     ProficiencyExpert,
		"SQL":        ProficiencyIntermediate,
		"Statistics": ProficiencyAdvanced,
		"PyTorch":    ProficiencyBasic,
		"Docker":     ProficiencyBasic,
		"Rust":       ProficiencyNone,
		"Go":         ProficiencyIntermediate,
	}

	gc := FromGameState("Alice", skills, true, "ML Engineer", 12)

	assert.Equal(t, "Alice", gc.PlayerName)
	assert.True(t, gc.Employed)
	assert.Equal(t, "ML Engineer", gc.CurrentJob)
	assert.Equal(t, 12, gc.Day)
	assert.Equal(t, []SkillInfo{
		{Name: "Python", Proficiency: "Expert"},
		{Name: "Statistics", Proficiency: "Advanced"},
		{Name: "Go", Proficiency: "Intermediate"},
		{Name: "SQL", Proficiency: "Intermediate"},
		{Name: "Docker", Proficiency: "Basic"},
	}, gc.TopSkills)
}

func TestFromGameState_Deterministic(t *testing.T) {
	skills := map[string]Proficiency{}
	for _, name := range []string{"e", "d", "c", "b", "a", "f", "g"} {
		skills[name] = ProficiencyBasic
	}

	first := FromGameState("P", skills, false, "", 1)
	for i := 0; i < 20; i++ {
		again := FromGameState("P", skills, false, "", 1)
		assert.Equal(t, first.SkillNames(), again.SkillNames())
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, first.SkillNames())
}

func TestFromGameState_NoSkills(t *testing.T) {
	gc := FromGameState("Bob", nil, false, "", 3)
	assert.Empty(t, gc.TopSkills)
	assert.Contains(t, gc.PromptSection(), "Skills: None yet")
}

func TestPromptSection(t *testing.T) {
	gc := GameContext{
		PlayerName: "Alice",
		TopSkills: []SkillInfo{
			{Name: "Python", Proficiency: "Expert"},
			{Name: "SQL", Proficiency: "Intermediate"},
		},
		Day: 5,
	}

	prompt := gc.PromptSection()
	assert.True(t, strings.HasPrefix(prompt, "PLAYER INFO:\n"))
	assert.Contains(t, prompt, "- Name: Alice")
	assert.Contains(t, prompt, "Python (Expert), SQL (Intermediate)")
	assert.Contains(t, prompt, "No, looking for opportunities")
	assert.Contains(t, prompt, "Current Day: 5")
}

func TestPromptSection_Employment(t *testing.T) {
	tests := []struct {
		name     string
		employed bool
		job      string
		expected string
	}{
		{name: "employed with job", employed: true, job: "Data Scientist", expected: "- Employed: Yes - Data Scientist"},
		{name: "employed without job", employed: true, expected: "- Employed: Yes\n"},
		{name: "unemployed ignores job", employed: false, job: "Barista", expected: "- Employed: No, looking for opportunities"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gc := GameContext{PlayerName: "P", Employed: tt.employed, CurrentJob: tt.job, Day: 1}
			assert.Contains(t, gc.PromptSection(), tt.expected)
		})
	}
}

func TestParseProficiency(t *testing.T) {
	p, err := ParseProficiency("expert")
	assert.NoError(t, err)
	assert.Equal(t, ProficiencyExpert, p)

	_, err = ParseProficiency("Wizard")
	assert.Error(t, err)

	assert.Equal(t, "Intermediate", ProficiencyIntermediate.String())
	assert.Equal(t, "Proficiency(9)", Proficiency(9).String())
}
