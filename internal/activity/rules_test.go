package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleDialog(t *testing.T) {
	lines := []string{"one", "two", "three"}

	tests := []struct {
		name     string
		lines    []string
		npcName  string
		npcClass string
		turn     int
		want     string
	}{
		{"first turn", lines, "Sarah", "recruiter", 0, "one"},
		{"cycles", lines, "Sarah", "recruiter", 4, "two"},
		{"negative turn", lines, "Sarah", "recruiter", -3, "one"},
		{"canned with name", nil, "Sarah", "recruiter", 2, "Hi, I'm Sarah. Nice to meet you!"},
		{"canned with class", nil, "", "barista", 0, "Hi, I'm Barista. Nice to meet you!"},
		{"canned with multiword class", nil, " ", "data scientist", 0, "Hi, I'm Data Scientist. Nice to meet you!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RuleDialog(tt.lines, tt.npcName, tt.npcClass, tt.turn))
		})
	}
}
