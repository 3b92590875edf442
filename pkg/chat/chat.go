package chat

import (
	"fmt"
	"strings"
)

const (
	ChatRoleUser   = "user"      // Player
	ChatRoleAgent  = "assistant" // NPC
	ChatRoleSystem = "system"    // Persona and game context
)

// ChatMessage represents a single message in a conversation with an LLM.
// Values are treated as immutable once built.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// User creates a player message.
func User(content string) ChatMessage {
	return ChatMessage{Role: ChatRoleUser, Content: content}
}

// Assistant creates an NPC message.
func Assistant(content string) ChatMessage {
	return ChatMessage{Role: ChatRoleAgent, Content: content}
}

// System creates a system message.
func System(content string) ChatMessage {
	return ChatMessage{Role: ChatRoleSystem, Content: content}
}

// PlayerInfo is the player state a client sends along with a dialog request.
// Skills maps skill name to a proficiency label ("Basic", "Expert", ...).
type PlayerInfo struct {
	Name       string            `json:"name"`
	Skills     map[string]string `json:"skills,omitempty"`
	Employed   bool              `json:"employed"`
	CurrentJob string            `json:"current_job,omitempty"`
	Day        int               `json:"day"`
}

// DialogRequest is a request to talk to an NPC through the career-rpg api.
type DialogRequest struct {
	NPCID         int        `json:"npc_id"`
	NPCClass      string     `json:"npc_class"`
	NPCName       string     `json:"npc_name"`
	PlayerMessage string     `json:"player_message,omitempty"`
	Turn          int        `json:"turn"`
	Player        PlayerInfo `json:"player"`
}

// DialogResponse is returned by the career-rpg api for a dialog request.
type DialogResponse struct {
	RequestID    string `json:"request_id,omitempty"`
	Text         string `json:"text,omitempty"`
	FromProvider bool   `json:"from_provider"`
	Cached       bool   `json:"cached"`
	Engine       string `json:"engine,omitempty"`
	Error        string `json:"error,omitempty"`
}

func (dr *DialogRequest) Validate() error {
	if strings.TrimSpace(dr.NPCClass) == "" {
		return fmt.Errorf("npc_class cannot be empty")
	}
	if dr.Turn < 0 {
		return fmt.Errorf("turn cannot be negative")
	}
	if dr.Player.Day < 0 {
		return fmt.Errorf("player.day cannot be negative")
	}
	return nil
}
