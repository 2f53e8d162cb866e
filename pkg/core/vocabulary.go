// pkg/core/vocabulary.go
package core

import (
	"fmt"
	"slices"
	"sort"
)

// UnknownVocabularyError is returned when a value falls outside a closed set.
type UnknownVocabularyError struct {
	Vocabulary string
	Value      any
}

func (e *UnknownVocabularyError) Error() string {
	return fmt.Sprintf("unknown %s: %v", e.Vocabulary, e.Value)
}

// Vocabulary holds the configured closed sets of agent types and vision radii.
type Vocabulary struct {
	Agents map[AgentType]string
	// Radii excludes FullyObservable, which is always accepted.
	Radii []Observability
}

// DefaultVocabulary mirrors the simulator's agent ids and the radii used in the experiments.
// Some result sets were produced with MCTS under id 6; those need a
// vocabulary.agents override mapping 6 to MCTS.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Agents: map[AgentType]string{
			0: "DoNothing",
			1: "Random",
			2: "OSLA",
			3: "RuleBased",
			4: "RHEA",
			5: "MCTS",
		},
		Radii: []Observability{1, 2, 4},
	}
}

// AgentName returns the configured name of agent.
func (v Vocabulary) AgentName(agent AgentType) string {
	if name, ok := v.Agents[agent]; ok {
		return name
	}
	return fmt.Sprintf("agent%d", int(agent))
}

// AgentTypes returns the configured agent types in ascending order.
func (v Vocabulary) AgentTypes() []AgentType {
	out := make([]AgentType, 0, len(v.Agents))
	for a := range v.Agents {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Observabilities returns the configured radii followed by the sentinel.
func (v Vocabulary) Observabilities() []Observability {
	out := slices.Clone(v.Radii)
	return append(out, FullyObservable)
}

// AgentByName resolves an agent type by its configured name.
func (v Vocabulary) AgentByName(name string) (AgentType, error) {
	for a, n := range v.Agents {
		if n == name {
			return a, nil
		}
	}
	return 0, &UnknownVocabularyError{Vocabulary: "agent type", Value: name}
}

// ValidateAgent checks agent against the configured agent types.
func (v Vocabulary) ValidateAgent(agent AgentType) error {
	if _, ok := v.Agents[agent]; !ok {
		return &UnknownVocabularyError{Vocabulary: "agent type", Value: int(agent)}
	}
	return nil
}

// ValidateObservability checks o against the configured radii and the sentinel.
func (v Vocabulary) ValidateObservability(o Observability) error {
	if o == FullyObservable || slices.Contains(v.Radii, o) {
		return nil
	}
	return &UnknownVocabularyError{Vocabulary: "observability", Value: int(o)}
}

// ValidateRunConfig checks the mode, radius and every roster entry.
func (v Vocabulary) ValidateRunConfig(cfg RunConfig) error {
	if cfg.Mode != FreeForAll && cfg.Mode != Team {
		return &UnknownVocabularyError{Vocabulary: "game mode", Value: int(cfg.Mode)}
	}
	if err := v.ValidateObservability(cfg.Observability); err != nil {
		return err
	}
	for _, a := range cfg.Roster {
		if err := v.ValidateAgent(a); err != nil {
			return err
		}
	}
	return nil
}
