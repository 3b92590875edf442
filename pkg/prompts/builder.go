package prompts

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/career-rpg/pkg/chat"
	"github.com/jwebster45206/career-rpg/pkg/engine"
)

const (
	// OpeningTurn stands in for the player when they walk up without saying anything.
	OpeningTurn = "*The player approaches you and says hello.*"

	// BrevityGuideline keeps NPC replies short enough for a dialog box.
	BrevityGuideline = "Reply in character in one to three short sentences."

	defaultNPCName = "a townsperson"
)

// DefaultPersona is used for classes without a configured persona.
func DefaultPersona(npcName string) string {
	if npcName == "" {
		npcName = defaultNPCName
	}
	return fmt.Sprintf("You are %s, a resident of a small town where people build careers in AI.", npcName)
}

// Builder constructs the system prompt and messages for an NPC reply
// using a fluent interface.
type Builder struct {
	persona       string
	npcName       string
	gc            *engine.GameContext
	playerMessage string
}

// New creates a new prompt builder.
func New() *Builder {
	return &Builder{}
}

// WithPersona sets the NPC persona. Empty means the default persona.
func (b *Builder) WithPersona(persona string) *Builder {
	b.persona = persona
	return b
}

// WithNPCName sets the name the NPC answers to.
func (b *Builder) WithNPCName(name string) *Builder {
	b.npcName = name
	return b
}

// WithContext sets the player snapshot.
func (b *Builder) WithContext(gc engine.GameContext) *Builder {
	b.gc = &gc
	return b
}

// WithPlayerMessage sets what the player said. Empty means the opening turn.
func (b *Builder) WithPlayerMessage(message string) *Builder {
	b.playerMessage = message
	return b
}

// Build returns the system prompt and the conversation for the provider.
func (b *Builder) Build() (string, []chat.ChatMessage, error) {
	if b.gc == nil {
		return "", nil, fmt.Errorf("game context is required")
	}

	var sb strings.Builder

	persona := strings.TrimSpace(b.persona)
	if persona == "" {
		persona = DefaultPersona(b.npcName)
	}
	sb.WriteString(persona)

	// Context
	sb.WriteString("\n\n")
	sb.WriteString(b.gc.PromptSection())

	if b.npcName != "" {
		sb.WriteString("\n\nYour name is " + b.npcName + ".")
	}

	sb.WriteString("\n\n" + BrevityGuideline)

	message := strings.TrimSpace(b.playerMessage)
	if message == "" {
		message = OpeningTurn
	}

	return sb.String(), []chat.ChatMessage{chat.User(message)}, nil
}

// BuildNPCPrompt is a convenience function for the common case.
func BuildNPCPrompt(persona, npcName string, gc engine.GameContext, playerMessage string) (string, []chat.ChatMessage, error) {
	return New().
		WithPersona(persona).
		WithNPCName(npcName).
		WithContext(gc).
		WithPlayerMessage(playerMessage).
		Build()
}
