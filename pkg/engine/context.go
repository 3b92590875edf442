package engine

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// MaxTopSkills is the number of skills carried in a GameContext.
const MaxTopSkills = 5

// Proficiency is the ordinal skill level of the player.
type Proficiency int

const (
	ProficiencyNone Proficiency = iota
	ProficiencyBasic
	ProficiencyIntermediate
	ProficiencyAdvanced
	ProficiencyExpert
)

var proficiencyNames = []string{"None", "Basic", "Intermediate", "Advanced", "Expert"}

func (p Proficiency) String() string {
	if p < ProficiencyNone || p > ProficiencyExpert {
		return fmt.Sprintf("Proficiency(%d)", int(p))
	}
	return proficiencyNames[p]
}

// ParseProficiency accepts the labels produced by String, ignoring case.
func ParseProficiency(s string) (Proficiency, error) {
	for i, name := range proficiencyNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Proficiency(i), nil
		}
	}
	return ProficiencyNone, fmt.Errorf("unknown proficiency: %q", s)
}

// SkillInfo is a skill name with its proficiency label.
type SkillInfo struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// GameContext is a point-in-time snapshot of the player passed to activity
// engines. It is built fresh by the caller before each invocation and is
// never retained by an engine.
type GameContext struct {
	PlayerName string      `json:"player_name"`
	TopSkills  []SkillInfo `json:"top_skills,omitempty"`
	Employed   bool        `json:"employed"`
	CurrentJob string      `json:"current_job,omitempty"`
	Day        int         `json:"day"`
}

// EmptyContext returns a neutral context, mostly useful in tests.
func EmptyContext() GameContext {
	return GameContext{
		PlayerName: "Player",
		Day:        1,
	}
}

// FromGameState projects player state into a GameContext. The top five
// skills are kept, highest proficiency first; equal levels are ordered by
// skill name so the result does not depend on map iteration.
func FromGameState(playerName string, skills map[string]Proficiency, employed bool, currentJob string, day int) GameContext {
	type ranked struct {
		name  string
		level Proficiency
	}

	list := make([]ranked, 0, len(skills))
	for name, level := range skills {
		list = append(list, ranked{name: name, level: level})
	}
	slices.SortFunc(list, func(a, b ranked) int {
		if c := cmp.Compare(b.level, a.level); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})
	if len(list) > MaxTopSkills {
		list = list[:MaxTopSkills]
	}

	var top []SkillInfo
	for _, s := range list {
		top = append(top, SkillInfo{Name: s.name, Proficiency: s.level.String()})
	}

	return GameContext{
		PlayerName: playerName,
		TopSkills:  top,
		Employed:   employed,
		CurrentJob: currentJob,
		Day:        day,
	}
}

// SkillNames returns the names of the top skills in order.
func (gc GameContext) SkillNames() []string {
	names := make([]string, len(gc.TopSkills))
	for i, s := range gc.TopSkills {
		names[i] = s.Name
	}
	return names
}

// PromptSection renders the context for inclusion in an LLM system prompt.
func (gc GameContext) PromptSection() string {
	skills := "None yet"
	if len(gc.TopSkills) > 0 {
		parts := make([]string, len(gc.TopSkills))
		for i, s := range gc.TopSkills {
			parts[i] = fmt.Sprintf("%s (%s)", s.Name, s.Proficiency)
		}
		skills = strings.Join(parts, ", ")
	}

	var employment string
	switch {
	case gc.Employed && gc.CurrentJob != "":
		employment = "Yes - " + gc.CurrentJob
	case gc.Employed:
		employment = "Yes"
	default:
		employment = "No, looking for opportunities"
	}

	var sb strings.Builder
	sb.WriteString("PLAYER INFO:\n")
	sb.WriteString("- Name: " + gc.PlayerName + "\n")
	sb.WriteString("- Skills: " + skills + "\n")
	sb.WriteString("- Employed: " + employment + "\n")
	sb.WriteString(fmt.Sprintf("- Current Day: %d", gc.Day))
	return sb.String()
}
