package e2e

import (
	allocator "github.com/yyw794/badminton-score/pkg/core/allocator"
	"github.com/yyw794/badminton-score/pkg/core/allocator/criteria"
)

// Type aliases to avoid prefixing everything with allocator.
type (
	AllocationConfig  = allocator.AllocationConfig
	AllocationOutcome = allocator.AllocationOutcome
	Roster            = allocator.Roster
	PlayerConstraint  = allocator.PlayerConstraint
	PairKey           = allocator.PairKey
	ScheduledMatch    = allocator.ScheduledMatch
	Criterion         = allocator.Criterion
	TypeShares        = allocator.TypeShares
)

// Function aliases
var (
	Allocate                   = allocator.Allocate
	NewPairKey                 = allocator.NewPairKey
	NewEarlyDepartureCriterion = criteria.NewEarlyDepartureCriterion
	NewPartnerVarietyCriterion = criteria.NewPartnerVarietyCriterion
	NewNoIdlePlayersCriterion  = criteria.NewNoIdlePlayersCriterion
)

const (
	MensDoubles   = allocator.MensDoubles
	WomensDoubles = allocator.WomensDoubles
	MixedDoubles  = allocator.MixedDoubles
)
