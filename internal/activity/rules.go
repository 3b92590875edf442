package activity

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RuleDialog picks a static line for the turn. Lines cycle; negative turns
// are treated as the first turn. With no lines configured the NPC introduces
// itself, using the title-cased class when it has no name.
func RuleDialog(lines []string, npcName, npcClass string, turn int) string {
	if len(lines) > 0 {
		if turn < 0 {
			turn = 0
		}
		return lines[turn%len(lines)]
	}

	name := strings.TrimSpace(npcName)
	if name == "" {
		name = cases.Title(language.English).String(strings.TrimSpace(npcClass))
	}
	return fmt.Sprintf("Hi, I'm %s. Nice to meet you!", name)
}
