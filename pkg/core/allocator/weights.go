package allocator

import (
	"fmt"
	"strings"
)

// Built-in scoring weights. Lower candidate scores are preferred, so every weight
// that should attract a player is subtracted and every weight that should repel one is added.
const (
	// DefaultTargetGames is the number of games a player without a quota is expected to play
	DefaultTargetGames = 5

	// WeightQuota is applied per game still owed to a quota player.
	// It must dominate every other weight so under-quota players are always picked first.
	WeightQuota = 1000

	// WeightBelowTarget is applied per game a player is below the target
	WeightBelowTarget = 200

	// WeightAboveTarget is applied per game a player is above the target
	WeightAboveTarget = 100

	// WeightSaturated is the fixed penalty for a player at or above max games
	WeightSaturated = 2000

	// WeightPartner is multiplied by the bond weight of a preferred partnership
	WeightPartner = 30

	// DefaultQuotaTolerance is how far a match type may run past its target before
	// it is skipped in the first, restricted pass over a court slot
	DefaultQuotaTolerance = 2
)

// ScoringWeights parameterises the scoring heuristic
type ScoringWeights struct {
	TargetGames int
	Quota       float64
	BelowTarget float64
	AboveTarget float64
	Saturated   float64
	Partner     float64
}

// IsZero returns true if no weight has been set
func (w ScoringWeights) IsZero() bool {
	return w == ScoringWeights{}
}

// DefaultScoringWeights returns the built-in weights
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		TargetGames: DefaultTargetGames,
		Quota:       WeightQuota,
		BelowTarget: WeightBelowTarget,
		AboveTarget: WeightAboveTarget,
		Saturated:   WeightSaturated,
		Partner:     WeightPartner,
	}
}

// DefaultTypePriority is the order match types are tried in for every court slot.
// Women's doubles goes first so eligible women get their games before the
// larger mixed and men's pools fill the courts.
var DefaultTypePriority = []MatchType{WomensDoubles, MixedDoubles, MensDoubles}

// Preset bundles a set of tuning parameters under a name
type Preset struct {
	Name           string
	Weights        ScoringWeights
	TypePriority   []MatchType
	QuotaTolerance int
}

var (
	// PresetClassic is the weekly-session tuning: women's first, generous tolerance
	PresetClassic = Preset{
		Name:           "classic",
		Weights:        DefaultScoringWeights(),
		TypePriority:   DefaultTypePriority,
		QuotaTolerance: DefaultQuotaTolerance,
	}

	// PresetBalanced favours mixed doubles and keeps match types close to their targets
	PresetBalanced = Preset{
		Name: "balanced",
		Weights: ScoringWeights{
			TargetGames: 4,
			Quota:       WeightQuota,
			BelowTarget: 300,
			AboveTarget: 150,
			Saturated:   WeightSaturated,
			Partner:     20,
		},
		TypePriority:   []MatchType{MixedDoubles, WomensDoubles, MensDoubles},
		QuotaTolerance: 1,
	}
)

// Presets lists all named presets
var Presets = []Preset{PresetClassic, PresetBalanced}

// PresetByName looks up a preset. An empty name returns the classic preset.
func PresetByName(name string) (Preset, error) {
	if name == "" {
		return PresetClassic, nil
	}
	for _, p := range Presets {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown preset %q", name)
}

// Apply copies the preset's tuning into the config, leaving explicitly set fields alone
func (p Preset) Apply(cfg *AllocationConfig) {
	if cfg.Weights.IsZero() {
		cfg.Weights = p.Weights
	}
	if len(cfg.TypePriority) == 0 {
		cfg.TypePriority = p.TypePriority
	}
	if cfg.QuotaTolerance == nil {
		tolerance := p.QuotaTolerance
		cfg.QuotaTolerance = &tolerance
	}
}
