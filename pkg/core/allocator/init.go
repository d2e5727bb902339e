package allocator

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// ErrInvalidConfig is returned (wrapped) for any configuration problem detected before scheduling
var ErrInvalidConfig = errors.New("invalid allocation config")

// Roster holds the disjoint male and female player lists
type Roster struct {
	Males   []string
	Females []string
}

// Size returns the number of players on the roster
func (r Roster) Size() int {
	return len(r.Males) + len(r.Females)
}

// PlayerConstraint holds the optional entitlements and restrictions of one player
type PlayerConstraint struct {
	// FixedGameQuota is the exact number of games the player is entitled to (0 = no quota)
	FixedGameQuota int

	EarlyDeparture    bool
	OnlyWomensDoubles bool
}

// TypeShares is the desired fraction of the schedule for each match type.
// Mixed and men's targets are rounded down; women's doubles receives the remainder.
type TypeShares struct {
	Mixed  float64
	Mens   float64
	Womens float64
}

// DefaultTypeShares gives half the matches to mixed doubles and a third to men's doubles
var DefaultTypeShares = TypeShares{Mixed: 0.5, Mens: 1.0 / 3, Womens: 1.0 / 6}

// IsZero returns true if no share has been set
func (s TypeShares) IsZero() bool {
	return s == TypeShares{}
}

// AllocationConfig contains the immutable input of one scheduling run
type AllocationConfig struct {
	Roster Roster

	// MixedDoublesEligible is the set of males allowed to play mixed doubles.
	// Females may always play mixed unless restricted to women's doubles.
	MixedDoublesEligible []string

	// Constraints keyed by player name
	Constraints map[string]PlayerConstraint

	// PartnerBonds maps a preferred partnership to its (positive) weight
	PartnerBonds map[PairKey]float64

	CourtCount        int
	MatchesPerCourt   int
	MaxGamesPerPlayer int

	// TypeShares defaults to DefaultTypeShares when zero
	TypeShares TypeShares

	// RandomSeed drives the pool shuffle; identical seeds give identical schedules
	RandomSeed int64

	// Weights defaults to DefaultScoringWeights when zero
	Weights ScoringWeights

	// TypePriority defaults to DefaultTypePriority when empty
	TypePriority []MatchType

	// QuotaTolerance defaults to DefaultQuotaTolerance when nil
	QuotaTolerance *int

	// Criteria to apply during allocation (with their weights)
	Criteria []Criterion

	// Logger defaults to a no-op logger when nil
	Logger *zap.Logger
}

// RequestedMatches returns the total number of matches the run tries to schedule
func (c AllocationConfig) RequestedMatches() int {
	return c.CourtCount * c.MatchesPerCourt
}

// Validate checks the configuration for inconsistencies.
// All returned errors wrap ErrInvalidConfig.
func (c AllocationConfig) Validate() error {
	if c.CourtCount <= 0 {
		return fmt.Errorf("%w: court count must be positive, got %d", ErrInvalidConfig, c.CourtCount)
	}
	if c.MatchesPerCourt <= 0 {
		return fmt.Errorf("%w: matches per court must be positive, got %d", ErrInvalidConfig, c.MatchesPerCourt)
	}
	if c.MaxGamesPerPlayer <= 0 {
		return fmt.Errorf("%w: max games per player must be positive, got %d", ErrInvalidConfig, c.MaxGamesPerPlayer)
	}

	// Roster names must be unique across both lists
	seen := make(map[string]Gender, c.Roster.Size())
	for _, list := range []struct {
		names  []string
		gender Gender
	}{{c.Roster.Males, GenderMale}, {c.Roster.Females, GenderFemale}} {
		for _, name := range list.names {
			if name == "" {
				return fmt.Errorf("%w: empty player name", ErrInvalidConfig)
			}
			if _, dup := seen[name]; dup {
				return fmt.Errorf("%w: player %q appears more than once in the roster", ErrInvalidConfig, name)
			}
			seen[name] = list.gender
		}
	}

	for _, name := range c.MixedDoublesEligible {
		if _, ok := seen[name]; !ok {
			return fmt.Errorf("%w: mixed doubles player %q is not on the roster", ErrInvalidConfig, name)
		}
	}

	for name, constraint := range c.Constraints {
		if _, ok := seen[name]; !ok {
			return fmt.Errorf("%w: constraint for unknown player %q", ErrInvalidConfig, name)
		}
		if constraint.FixedGameQuota < 0 {
			return fmt.Errorf("%w: player %q has a negative game quota", ErrInvalidConfig, name)
		}
		if constraint.FixedGameQuota > c.MaxGamesPerPlayer {
			return fmt.Errorf("%w: player %q has a game quota of %d which exceeds max games per player (%d)",
				ErrInvalidConfig, name, constraint.FixedGameQuota, c.MaxGamesPerPlayer)
		}
	}

	for pair, weight := range c.PartnerBonds {
		if pair.A == pair.B {
			return fmt.Errorf("%w: partner bond %s names the same player twice", ErrInvalidConfig, pair)
		}
		for _, name := range []string{pair.A, pair.B} {
			if _, ok := seen[name]; !ok {
				return fmt.Errorf("%w: partner bond %s names unknown player %q", ErrInvalidConfig, pair, name)
			}
		}
		if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
			return fmt.Errorf("%w: partner bond %s must have a positive weight, got %v", ErrInvalidConfig, pair, weight)
		}
	}

	shares := c.TypeShares
	if shares.Mixed < 0 || shares.Mens < 0 || shares.Womens < 0 {
		return fmt.Errorf("%w: type shares must not be negative", ErrInvalidConfig)
	}
	if shares.Mixed+shares.Mens+shares.Womens > 1+1e-9 {
		return fmt.Errorf("%w: type shares sum to more than 1", ErrInvalidConfig)
	}

	if c.QuotaTolerance != nil && *c.QuotaTolerance < 0 {
		return fmt.Errorf("%w: quota tolerance must not be negative", ErrInvalidConfig)
	}
	for _, t := range c.TypePriority {
		if t != MensDoubles && t != WomensDoubles && t != MixedDoubles {
			return fmt.Errorf("%w: unknown match type %d in type priority", ErrInvalidConfig, int(t))
		}
	}

	return nil
}

// withDefaults fills every unset tuning parameter
func (c AllocationConfig) withDefaults() AllocationConfig {
	PresetClassic.Apply(&c)
	if c.TypeShares.IsZero() {
		c.TypeShares = DefaultTypeShares
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// TypeTargets splits the requested total into per-type targets.
// Mixed and men's shares are rounded down and women's doubles takes what is left.
func TypeTargets(total int, shares TypeShares) map[MatchType]int {
	// The epsilon keeps 12 * (1/3) from rounding down to 3
	mixed := int(math.Floor(float64(total)*shares.Mixed + 1e-9))
	mens := int(math.Floor(float64(total)*shares.Mens + 1e-9))
	womens := max(total-mixed-mens, 0)
	return map[MatchType]int{
		MixedDoubles:  mixed,
		MensDoubles:   mens,
		WomensDoubles: womens,
	}
}

// InitAllocation validates the config and builds an allocator with fresh, shuffled pools
func InitAllocation(config AllocationConfig) (*Allocator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config = config.withDefaults()

	state := InitSchedulerState(config)

	return &Allocator{
		criteria:       config.Criteria,
		state:          state,
		weights:        config.Weights,
		priority:       config.TypePriority,
		quotaTolerance: *config.QuotaTolerance,
		logger:         config.Logger,
	}, nil
}

// InitSchedulerState builds the per-run state: players, counters and shuffled candidate pools.
// The config must already be validated and defaulted.
func InitSchedulerState(config AllocationConfig) *SchedulerState {
	mixedEligible := make(map[string]bool, len(config.MixedDoublesEligible))
	for _, name := range config.MixedDoublesEligible {
		mixedEligible[name] = true
	}

	onlyWomens := make(map[string]bool)
	for name, constraint := range config.Constraints {
		if constraint.OnlyWomensDoubles {
			onlyWomens[name] = true
		}
	}

	players := make(map[string]*PlayerState, config.Roster.Size())
	order := make([]string, 0, config.Roster.Size())
	addPlayer := func(name string, gender Gender) {
		constraint := config.Constraints[name]
		mixed := mixedEligible[name]
		if gender == GenderFemale {
			mixed = !constraint.OnlyWomensDoubles
		}
		players[name] = &PlayerState{
			Player: &Player{
				Name:                 name,
				Gender:               gender,
				MixedDoublesEligible: mixed,
				OnlyWomensDoubles:    constraint.OnlyWomensDoubles,
				FixedGameQuota:       constraint.FixedGameQuota,
				EarlyDeparture:       constraint.EarlyDeparture,
			},
			TypeGames: make(map[MatchType]int),
		}
		order = append(order, name)
	}
	for _, m := range config.Roster.Males {
		addPlayer(m, GenderMale)
	}
	for _, f := range config.Roster.Females {
		addPlayer(f, GenderFemale)
	}

	bonds := make(map[PairKey]float64, len(config.PartnerBonds))
	for pair, weight := range config.PartnerBonds {
		bonds[NewPairKey(pair.A, pair.B)] = weight
	}

	pools := GenerateCandidates(GenerateCandidatesInput{
		Males:         config.Roster.Males,
		Females:       config.Roster.Females,
		MixedEligible: mixedEligible,
		OnlyWomens:    onlyWomens,
	})
	ShufflePools(pools, config.RandomSeed)

	requested := config.RequestedMatches()

	return &SchedulerState{
		Players:           players,
		PlayerOrder:       order,
		PartnerBonds:      bonds,
		PartnerCounts:     make(map[PairKey]int),
		Pools:             pools,
		TypeCounts:        make(map[MatchType]int),
		TypeTargets:       TypeTargets(requested, config.TypeShares),
		MaxGamesPerPlayer: config.MaxGamesPerPlayer,
		CourtCount:        config.CourtCount,
		Requested:         requested,
		roundPlayers:      make(map[string]bool),
	}
}
