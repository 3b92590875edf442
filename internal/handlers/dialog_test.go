package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/career-rpg/internal/activity"
	"github.com/jwebster45206/career-rpg/internal/services"
	"github.com/jwebster45206/career-rpg/internal/storage"
	"github.com/jwebster45206/career-rpg/pkg/chat"
	"github.com/jwebster45206/career-rpg/pkg/engine"
	"github.com/jwebster45206/career-rpg/pkg/gameconfig"
)

const handlerTestConfig = `
llm:
  provider: mock
  model: test
npc:
  default_engine: rule
  classes:
    recruiter:
      engine: llm
      fallback_dialog: ["Hey! I'm a recruiter."]
    engineer:
      engine: hybrid
      fallback_dialog: ["Focus on fundamentals."]
    barista:
      fallback_dialog: ["Welcome to the Coffee Shop!"]
`

type recordingRecorder struct {
	mu     sync.Mutex
	events []storage.DialogEvent
}

func (r *recordingRecorder) Record(_ context.Context, ev storage.DialogEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

type testServer struct {
	handler  http.Handler
	provider *services.MockProvider
	recorder *recordingRecorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg, err := gameconfig.Parse([]byte(handlerTestConfig))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := services.NewMockProvider("Welcome to TechCorp!")
	cache := services.NewResponseCache()
	recorder := &recordingRecorder{}

	npcEngine := activity.NewNPCEngine(cfg, provider, cache, logger)
	router := NewRouter(Routes{
		Health: NewHealthHandler(cache, provider, logger),
		NPCs:   NewNPCListHandler(cfg, logger),
		Dialog: NewDialogHandler(npcEngine, recorder, logger),
	}, logger)

	return &testServer{handler: router, provider: provider, recorder: recorder}
}

func (s *testServer) postDialog(t *testing.T, body string) (*httptest.ResponseRecorder, chat.DialogResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/npc/dialog", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	var response chat.DialogResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	return rr, response
}

func TestDialogHandler_RuleNPC(t *testing.T) {
	s := newTestServer(t)

	rr, response := s.postDialog(t, `{"npc_id": 3, "npc_class": "barista", "turn": 0, "player": {"name": "Alice", "day": 2}}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Welcome to the Coffee Shop!", response.Text)
	assert.Equal(t, "rule", response.Engine)
	assert.False(t, response.FromProvider)
	assert.NotEmpty(t, response.RequestID)
	assert.Equal(t, response.RequestID, rr.Header().Get(RequestIDHeader))
	assert.Empty(t, s.provider.GetRequests())
}

func TestDialogHandler_LLMNPC(t *testing.T) {
	s := newTestServer(t)
	body := `{
		"npc_class": "recruiter",
		"npc_name": "Sarah",
		"player_message": "Are you hiring?",
		"player": {"name": "Alice", "skills": {"Python": "Advanced"}, "employed": false, "day": 12}
	}`

	rr, response := s.postDialog(t, body)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Welcome to TechCorp!", response.Text)
	assert.True(t, response.FromProvider)
	assert.False(t, response.Cached)
	assert.Equal(t, "llm", response.Engine)

	requests := s.provider.GetRequests()
	require.Len(t, requests, 1)
	assert.Contains(t, requests[0].System, "Python (Advanced)")
	assert.Equal(t, "Are you hiring?", requests[0].Messages[0].Content)

	_, again := s.postDialog(t, body)
	assert.True(t, again.Cached)
	assert.False(t, again.FromProvider)
	assert.Len(t, s.provider.GetRequests(), 1)

	require.Len(t, s.recorder.events, 2)
	assert.True(t, s.recorder.events[0].FromProvider)
	assert.True(t, s.recorder.events[1].Cached)
}

func TestDialogHandler_ProviderFailure(t *testing.T) {
	s := newTestServer(t)
	s.provider.SetCompleteError(errors.New("upstream secret detail"))

	rr, response := s.postDialog(t, `{"npc_class": "recruiter", "player": {"name": "Alice", "day": 1}}`)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.NotEmpty(t, response.Error)
	assert.NotContains(t, response.Error, "secret", "provider errors must not leak to clients")

	rr, response = s.postDialog(t, `{"npc_class": "engineer", "player": {"name": "Alice", "day": 1}}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Focus on fundamentals.", response.Text)
	assert.False(t, response.FromProvider)

	require.Len(t, s.recorder.events, 2)
	assert.True(t, s.recorder.events[0].Failed)
	assert.False(t, s.recorder.events[1].Failed)
}

func TestDialogHandler_BadRequests(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalid json", `{"npc_class": `, "Invalid request body"},
		{"missing class", `{"turn": 1}`, "npc_class"},
		{"negative turn", `{"npc_class": "barista", "turn": -1}`, "turn"},
		{"unknown proficiency", `{"npc_class": "barista", "player": {"skills": {"Go": "Wizard"}}}`, "player.skills.Go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, response := s.postDialog(t, tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, response.Error, tt.want)
		})
	}
	assert.Empty(t, s.recorder.events)
}

func TestDialogHandler_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/npc/dialog", nil)
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestNPCListHandler(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/npcs", nil)
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var response NPCListResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	assert.Equal(t, "rule", response.DefaultEngine)
	assert.Equal(t, []NPCClassInfo{
		{Class: "barista", Engine: "rule", DialogLines: 1},
		{Class: "engineer", Engine: "hybrid", DialogLines: 1},
		{Class: "recruiter", Engine: "llm", DialogLines: 1},
	}, response.Classes)
}

func TestRequestID_ReusesClientHeader(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/npc/dialog", strings.NewReader(`{"npc_class": "barista"}`))
	req.Header.Set(RequestIDHeader, "client-123")
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	assert.Equal(t, "client-123", rr.Header().Get(RequestIDHeader))
	var response chat.DialogResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	assert.Equal(t, "client-123", response.RequestID)
}

func TestGameContextFromPlayer(t *testing.T) {
	gc, err := GameContextFromPlayer(chat.PlayerInfo{
		Name:     "Alice",
		Skills:   map[string]string{"SQL": "basic", "Python": "Expert"},
		Employed: true,
		Day:      7,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "SQL"}, gc.SkillNames())
	assert.True(t, gc.Employed)

	gc, err = GameContextFromPlayer(chat.PlayerInfo{})
	require.NoError(t, err)
	assert.Equal(t, engine.EmptyContext().PlayerName, gc.PlayerName)
}
