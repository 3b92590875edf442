package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/career-rpg/pkg/gameconfig"
)

// NPCClassInfo describes one configured NPC class.
type NPCClassInfo struct {
	Class       string `json:"class"`
	Engine      string `json:"engine"`
	HasPersona  bool   `json:"has_persona"`
	DialogLines int    `json:"dialog_lines"`
}

type NPCListResponse struct {
	DefaultEngine string         `json:"default_engine"`
	Classes       []NPCClassInfo `json:"classes"`
}

// NPCListHandler lists NPC classes with their resolved engine type.
type NPCListHandler struct {
	cfg    *gameconfig.GameConfig
	logger *slog.Logger
}

func NewNPCListHandler(cfg *gameconfig.GameConfig, logger *slog.Logger) *NPCListHandler {
	return &NPCListHandler{cfg: cfg, logger: logger}
}

func (h *NPCListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	names := h.cfg.NPCClasses()
	response := NPCListResponse{
		// resolved through an unknown class so typos fall back like lookups do
		DefaultEngine: h.cfg.NPCEngine("").String(),
		Classes:       make([]NPCClassInfo, 0, len(names)),
	}
	for _, name := range names {
		_, hasPersona := h.cfg.NPCPersona(name)
		lines, _ := h.cfg.NPCFallbackDialog(name)
		response.Classes = append(response.Classes, NPCClassInfo{
			Class:       name,
			Engine:      h.cfg.NPCEngine(name).String(),
			HasPersona:  hasPersona,
			DialogLines: len(lines),
		})
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding NPC list", "error", err)
	}
}
