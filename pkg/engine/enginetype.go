// Package engine holds the types shared by every game activity: how an
// activity generates content, and the player snapshot it reasons about.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// EngineType selects how an activity generates content.
type EngineType int

const (
	// Rule uses local deterministic logic only. It is the zero value so an
	// unset engine never spends API calls.
	Rule EngineType = iota
	// LLM always calls the provider; provider failures reach the caller.
	LLM
	// Hybrid tries the provider and falls back to Rule on any failure.
	Hybrid
)

var ErrUnknownEngineType = errors.New("unknown engine type")

func (e EngineType) String() string {
	switch e {
	case LLM:
		return "llm"
	case Hybrid:
		return "hybrid"
	default:
		return "rule"
	}
}

// ParseEngineType parses "rule", "llm" or "hybrid" in any letter case.
func ParseEngineType(s string) (EngineType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rule":
		return Rule, nil
	case "llm":
		return LLM, nil
	case "hybrid":
		return Hybrid, nil
	default:
		return Rule, fmt.Errorf("%w: %q", ErrUnknownEngineType, s)
	}
}

func (e EngineType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *EngineType) UnmarshalText(text []byte) error {
	parsed, err := ParseEngineType(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// UsesProvider reports whether the engine type may call an LLM provider.
func (e EngineType) UsesProvider() bool {
	return e == LLM || e == Hybrid
}

// ActivityEngine is implemented by every game activity that can be powered
// by rules or by an LLM. Implementations decide internally how each
// EngineType is handled.
type ActivityEngine[I, O any] interface {
	Execute(ctx context.Context, input I, gc GameContext) (O, error)
}
