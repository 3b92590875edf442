// Package gameconfig loads the game configuration document that selects
// how each activity generates content and which LLM backs it.
package gameconfig

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/career-rpg/pkg/engine"
)

// KnownProviders lists the provider names the services factory can build.
var KnownProviders = []string{"anthropic", "mock"}

// LLMConfig holds the LLM connection parameters.
type LLMConfig struct {
	Provider string `yaml:"provider"` // "anthropic" or "mock"
	Model    string `yaml:"model"`
}

// NPCClassConfig overrides behavior for one NPC class.
type NPCClassConfig struct {
	Engine         string   `yaml:"engine,omitempty"`
	Persona        string   `yaml:"persona,omitempty"`
	FallbackDialog []string `yaml:"fallback_dialog,omitempty"`
}

type NPCConfig struct {
	DefaultEngine string                    `yaml:"default_engine"`
	Classes       map[string]NPCClassConfig `yaml:"classes"`
}

type InterviewConfig struct {
	Engine string `yaml:"engine"`
}

// GameConfig is loaded once at startup and treated as read-only afterwards.
type GameConfig struct {
	LLM       LLMConfig       `yaml:"llm"`
	NPC       NPCConfig       `yaml:"npc"`
	Interview InterviewConfig `yaml:"interview"`
}

// Default returns a configuration where every activity runs on rules.
func Default() *GameConfig {
	return &GameConfig{
		LLM: LLMConfig{Provider: "mock", Model: "mock"},
		NPC: NPCConfig{
			DefaultEngine: engine.Rule.String(),
			Classes:       map[string]NPCClassConfig{},
		},
		Interview: InterviewConfig{Engine: engine.Rule.String()},
	}
}

// Load reads a YAML game configuration from disk.
func Load(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "filepath: "+path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "filepath: "+path)
	}
	return cfg, nil
}

// Parse decodes a YAML game configuration. Environment variables are
// expanded before decoding; unknown keys are rejected.
func Parse(data []byte) (*GameConfig, error) {
	expanded := os.ExpandEnv(string(data))

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)

	var cfg GameConfig
	if err := dec.Decode(&cfg); err != nil {
		if err == io.EOF {
			return nil, errors.New("game config is empty")
		}
		return nil, errors.Wrap(err, "parse game config")
	}

	if strings.TrimSpace(cfg.LLM.Provider) == "" {
		return nil, errors.New("game config: llm.provider is required")
	}
	if cfg.NPC.DefaultEngine == "" {
		cfg.NPC.DefaultEngine = engine.Rule.String()
	}
	if cfg.NPC.Classes == nil {
		cfg.NPC.Classes = map[string]NPCClassConfig{}
	}
	if cfg.Interview.Engine == "" {
		cfg.Interview.Engine = engine.Rule.String()
	}

	return &cfg, nil
}

// parseOrRule treats unrecognized engine strings as Rule.
func parseOrRule(s string) engine.EngineType {
	et, err := engine.ParseEngineType(s)
	if err != nil {
		return engine.Rule
	}
	return et
}

// NPCEngine returns the engine type for an NPC class. A class override
// wins over the global default; unknown classes use the default.
func (c *GameConfig) NPCEngine(class string) engine.EngineType {
	if cc, ok := c.NPC.Classes[class]; ok && cc.Engine != "" {
		return parseOrRule(cc.Engine)
	}
	return parseOrRule(c.NPC.DefaultEngine)
}

// NPCPersona returns the persona template configured for an NPC class.
func (c *GameConfig) NPCPersona(class string) (string, bool) {
	cc, ok := c.NPC.Classes[class]
	if !ok || cc.Persona == "" {
		return "", false
	}
	return cc.Persona, true
}

// NPCFallbackDialog returns a copy of the static dialog lines for a class.
func (c *GameConfig) NPCFallbackDialog(class string) ([]string, bool) {
	cc, ok := c.NPC.Classes[class]
	if !ok || len(cc.FallbackDialog) == 0 {
		return nil, false
	}
	return slices.Clone(cc.FallbackDialog), true
}

// InterviewEngine returns the engine type configured for interviews.
func (c *GameConfig) InterviewEngine() engine.EngineType {
	return parseOrRule(c.Interview.Engine)
}

// NPCClasses returns the configured class names in sorted order.
func (c *GameConfig) NPCClasses() []string {
	names := make([]string, 0, len(c.NPC.Classes))
	for name := range c.NPC.Classes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate reports problems that lookups would otherwise paper over by
// falling back to Rule. An empty result means the document is clean.
func (c *GameConfig) Validate() []string {
	var problems []string

	if !slices.Contains(KnownProviders, strings.ToLower(strings.TrimSpace(c.LLM.Provider))) {
		problems = append(problems, fmt.Sprintf("llm.provider %q is not one of %v", c.LLM.Provider, KnownProviders))
	}
	if c.LLM.Model == "" {
		problems = append(problems, "llm.model is empty")
	}
	if _, err := engine.ParseEngineType(c.NPC.DefaultEngine); err != nil {
		problems = append(problems, fmt.Sprintf("npc.default_engine: %v", err))
	}
	if _, err := engine.ParseEngineType(c.Interview.Engine); err != nil {
		problems = append(problems, fmt.Sprintf("interview.engine: %v", err))
	}

	for _, name := range c.NPCClasses() {
		cc := c.NPC.Classes[name]
		if cc.Engine != "" {
			if _, err := engine.ParseEngineType(cc.Engine); err != nil {
				problems = append(problems, fmt.Sprintf("npc.classes.%s.engine: %v", name, err))
			}
		}
		if c.NPCEngine(name) == engine.Rule && len(cc.FallbackDialog) == 0 {
			problems = append(problems, fmt.Sprintf("npc.classes.%s: rule engine without fallback_dialog uses the canned greeting", name))
		}
	}

	return problems
}
