package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/jwebster45206/career-rpg/internal/services"
	"github.com/jwebster45206/career-rpg/pkg/engine"
	"github.com/jwebster45206/career-rpg/pkg/gameconfig"
	"github.com/jwebster45206/career-rpg/pkg/prompts"
	"github.com/jwebster45206/career-rpg/pkg/textfilter"
)

const (
	// ActivityNPCDialog namespaces NPC dialog entries in the response cache
	ActivityNPCDialog = "npc_dialog"

	ProviderTimeout = 30 * time.Second
)

var (
	ErrNoProvider     = errors.New("no LLM provider configured")
	ErrProviderFailed = errors.New("LLM provider failed")
)

// NPCInput identifies who the player is talking to and what they said.
type NPCInput struct {
	NPCID         int    `json:"npc_id"`
	NPCClass      string `json:"npc_class"`
	NPCName       string `json:"npc_name"`
	PlayerMessage string `json:"player_message,omitempty"`
	Turn          int    `json:"turn"`
}

// NPCOutput is the line the NPC says. FromProvider is true only when the
// text was generated for this request.
type NPCOutput struct {
	Text         string            `json:"text"`
	FromProvider bool              `json:"from_provider"`
	Engine       engine.EngineType `json:"engine"`
	Cached       bool              `json:"cached"`
}

// NPCEngine produces NPC dialog using static lines, an LLM provider, or
// both, depending on the configured engine type of the NPC class.
type NPCEngine struct {
	cfg       *gameconfig.GameConfig
	provider  services.Provider
	cache     services.Cache
	sanitizer *textfilter.Sanitizer
	logger    *slog.Logger
}

var _ engine.ActivityEngine[NPCInput, NPCOutput] = (*NPCEngine)(nil)

// NewNPCEngine creates an engine. provider may be nil, in which case LLM
// classes fail and hybrid classes use their static lines. A nil cache gets
// a default in-memory cache and a nil logger uses slog.Default().
func NewNPCEngine(cfg *gameconfig.GameConfig, provider services.Provider, cache services.Cache, logger *slog.Logger) *NPCEngine {
	if cfg == nil {
		cfg = gameconfig.Default()
	}
	if cache == nil {
		cache = services.NewResponseCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NPCEngine{
		cfg:       cfg,
		provider:  provider,
		cache:     cache,
		sanitizer: textfilter.NewSanitizer(),
		logger:    logger,
	}
}

// NewNPCEngineWithMock creates an engine backed by a mock provider that
// always answers with response.
func NewNPCEngineWithMock(cfg *gameconfig.GameConfig, response string, logger *slog.Logger) (*NPCEngine, *services.MockProvider) {
	mock := services.NewMockProvider(response)
	return NewNPCEngine(cfg, mock, services.NewResponseCache(), logger), mock
}

// Execute returns the NPC's reply for this turn.
func (e *NPCEngine) Execute(ctx context.Context, in NPCInput, gc engine.GameContext) (NPCOutput, error) {
	engineType := e.cfg.NPCEngine(in.NPCClass)

	if engineType == engine.Rule {
		return e.ruleOutput(in), nil
	}

	key := services.MakeCacheKey(ActivityNPCDialog, inputID(in), gc)
	if text, ok := e.cache.Get(ctx, key); ok {
		e.logger.Debug("NPC dialog cache hit", "npc_class", in.NPCClass, "key", key)
		return NPCOutput{Text: text, Engine: engineType, Cached: true}, nil
	}

	text, err := e.generate(ctx, in, gc)
	if err != nil {
		if engineType == engine.Hybrid {
			e.logger.Warn("LLM dialog failed, using fallback",
				"npc_class", in.NPCClass,
				"npc_id", in.NPCID,
				"error", err)
			return e.ruleOutput(in), nil
		}
		return NPCOutput{}, err
	}

	e.cache.Set(ctx, key, text)
	return NPCOutput{Text: text, FromProvider: true, Engine: engineType}, nil
}

func (e *NPCEngine) ruleOutput(in NPCInput) NPCOutput {
	lines, _ := e.cfg.NPCFallbackDialog(in.NPCClass)
	return NPCOutput{
		Text:   RuleDialog(lines, in.NPCName, in.NPCClass, in.Turn),
		Engine: e.cfg.NPCEngine(in.NPCClass),
	}
}

func (e *NPCEngine) generate(ctx context.Context, in NPCInput, gc engine.GameContext) (string, error) {
	if e.provider == nil {
		return "", ErrNoProvider
	}

	persona, _ := e.cfg.NPCPersona(in.NPCClass)
	system, messages, err := prompts.BuildNPCPrompt(persona, in.NPCName, gc, in.PlayerMessage)
	if err != nil {
		return "", fmt.Errorf("failed to build NPC prompt: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, ProviderTimeout)
	defer cancel()

	start := time.Now()
	text, err := e.provider.Complete(callCtx, system, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrProviderFailed, e.provider.Name(), err)
	}

	e.logger.Debug("NPC dialog generated",
		"npc_class", in.NPCClass,
		"provider", e.provider.Name(),
		"duration", time.Since(start))

	clean := e.sanitizer.Sanitize(text)
	if clean == "" {
		return "", fmt.Errorf("%w: %s: %w", ErrProviderFailed, e.provider.Name(), services.ErrNoTextContent)
	}
	return clean, nil
}

// inputID identifies the conversational position: class and turn, plus a
// hash of what the player said when they said anything.
func inputID(in NPCInput) string {
	id := in.NPCClass + "#" + strconv.Itoa(in.Turn)
	if in.PlayerMessage != "" {
		id += fmt.Sprintf("#%016x", xxhash.Sum64String(in.PlayerMessage))
	}
	return id
}
