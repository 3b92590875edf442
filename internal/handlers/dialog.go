package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jwebster45206/career-rpg/internal/activity"
	"github.com/jwebster45206/career-rpg/internal/logger"
	"github.com/jwebster45206/career-rpg/internal/storage"
	"github.com/jwebster45206/career-rpg/pkg/chat"
	"github.com/jwebster45206/career-rpg/pkg/engine"
)

const maxDialogBodyBytes = 64 << 10

// UsageRecorder receives one event per served dialog request.
type UsageRecorder interface {
	Record(ctx context.Context, ev storage.DialogEvent) error
}

// DialogHandler serves NPC dialog.
type DialogHandler struct {
	engine   engine.ActivityEngine[activity.NPCInput, activity.NPCOutput]
	recorder UsageRecorder
	logger   *slog.Logger
}

// NewDialogHandler creates a dialog handler. recorder may be nil.
func NewDialogHandler(
	npcEngine engine.ActivityEngine[activity.NPCInput, activity.NPCOutput],
	recorder UsageRecorder,
	logger *slog.Logger,
) *DialogHandler {
	return &DialogHandler{
		engine:   npcEngine,
		recorder: recorder,
		logger:   logger,
	}
}

func (h *DialogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	requestID := RequestIDFromContext(r.Context())
	log := logger.WithRequestID(h.logger, requestID)

	var request chat.DialogRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDialogBodyBytes)).Decode(&request); err != nil {
		log.Warn("Invalid dialog request body", "error", err)
		h.writeError(w, http.StatusBadRequest, requestID, "Invalid request body. Expected JSON with 'npc_class' field.")
		return
	}

	if err := request.Validate(); err != nil {
		log.Warn("Dialog request failed validation", "error", err)
		h.writeError(w, http.StatusBadRequest, requestID, err.Error())
		return
	}

	gc, err := GameContextFromPlayer(request.Player)
	if err != nil {
		log.Warn("Invalid player info", "error", err)
		h.writeError(w, http.StatusBadRequest, requestID, err.Error())
		return
	}

	in := activity.NPCInput{
		NPCID:         request.NPCID,
		NPCClass:      request.NPCClass,
		NPCName:       request.NPCName,
		PlayerMessage: request.PlayerMessage,
		Turn:          request.Turn,
	}

	start := time.Now()
	out, err := h.engine.Execute(r.Context(), in, gc)
	latency := time.Since(start)

	if err != nil {
		logger.WithError(log, err).Error("NPC dialog failed",
			"npc_class", request.NPCClass,
			"npc_id", request.NPCID)
		h.record(r.Context(), log, storage.DialogEvent{
			RequestID: requestID,
			NPCClass:  request.NPCClass,
			Engine:    engine.LLM.String(),
			Failed:    true,
			Latency:   latency,
		})

		status := http.StatusBadGateway
		if errors.Is(err, context.Canceled) {
			status = http.StatusServiceUnavailable
		}
		h.writeError(w, status, requestID, "The NPC could not answer right now. Please try again.")
		return
	}

	log.Info("NPC dialog served",
		"npc_class", request.NPCClass,
		"engine", out.Engine.String(),
		"from_provider", out.FromProvider,
		"cached", out.Cached,
		"latency", latency)

	h.record(r.Context(), log, storage.DialogEvent{
		RequestID:    requestID,
		NPCClass:     request.NPCClass,
		Engine:       out.Engine.String(),
		FromProvider: out.FromProvider,
		Cached:       out.Cached,
		Latency:      latency,
	})

	response := chat.DialogResponse{
		RequestID:    requestID,
		Text:         out.Text,
		FromProvider: out.FromProvider,
		Cached:       out.Cached,
		Engine:       out.Engine.String(),
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("Error encoding dialog response", "error", err)
	}
}

func (h *DialogHandler) record(ctx context.Context, log *slog.Logger, ev storage.DialogEvent) {
	if h.recorder == nil {
		return
	}
	if err := h.recorder.Record(ctx, ev); err != nil {
		log.Warn("Failed to record dialog usage", "error", err)
	}
}

func (h *DialogHandler) writeError(w http.ResponseWriter, status int, requestID, message string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(chat.DialogResponse{RequestID: requestID, Error: message}); err != nil {
		h.logger.Error("Error encoding error response", "error", err)
	}
}

// GameContextFromPlayer converts client player info into a GameContext.
func GameContextFromPlayer(p chat.PlayerInfo) (engine.GameContext, error) {
	skills := make(map[string]engine.Proficiency, len(p.Skills))
	for name, label := range p.Skills {
		level, err := engine.ParseProficiency(label)
		if err != nil {
			return engine.GameContext{}, fmt.Errorf("player.skills.%s: %w", name, err)
		}
		skills[name] = level
	}

	name := p.Name
	if name == "" {
		name = engine.EmptyContext().PlayerName
	}
	return engine.FromGameState(name, skills, p.Employed, p.CurrentJob, p.Day), nil
}
