package chat

import (
	"encoding/json"
	"testing"
)

func TestMessageConstructors(t *testing.T) {
	tests := []struct {
		name     string
		msg      ChatMessage
		wantRole string
	}{
		{name: "user", msg: User("hello"), wantRole: ChatRoleUser},
		{name: "assistant", msg: Assistant("hi there"), wantRole: ChatRoleAgent},
		{name: "system", msg: System("be helpful"), wantRole: ChatRoleSystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.msg.Role != tt.wantRole {
				t.Errorf("Expected role %q, got %q", tt.wantRole, tt.msg.Role)
			}
			if tt.msg.Content == "" {
				t.Error("Expected content to be set")
			}
		})
	}

	if User("hi") != (ChatMessage{Role: "user", Content: "hi"}) {
		t.Error("User() should build a comparable value")
	}
}

func TestDialogRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     DialogRequest
		wantErr bool
	}{
		{name: "valid", req: DialogRequest{NPCClass: "recruiter", Player: PlayerInfo{Name: "Alice", Day: 3}}},
		{name: "missing class", req: DialogRequest{NPCClass: "  "}, wantErr: true},
		{name: "negative turn", req: DialogRequest{NPCClass: "barista", Turn: -1}, wantErr: true},
		{name: "negative day", req: DialogRequest{NPCClass: "barista", Player: PlayerInfo{Day: -2}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDialogRequest_JSON(t *testing.T) {
	body := `{"npc_id":2,"npc_class":"recruiter","npc_name":"Alex","player_message":"What jobs do you have?",
		"player":{"name":"Test Player","skills":{"Python":"Intermediate"},"employed":false,"day":5}}`

	var req DialogRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Failed to unmarshal request: %v", err)
	}
	if req.NPCClass != "recruiter" || req.NPCName != "Alex" || req.NPCID != 2 {
		t.Errorf("Unexpected npc fields: %+v", req)
	}
	if req.Player.Skills["Python"] != "Intermediate" {
		t.Errorf("Expected Python skill to be Intermediate, got %q", req.Player.Skills["Python"])
	}
	if req.Player.Day != 5 {
		t.Errorf("Expected day 5, got %d", req.Player.Day)
	}
}
