// Package engine implements the tower defense simulation: grid and path
// derivation, entity storage, targeting, combat, wave spawning and the
// session state machine. It has no timers and performs no I/O; the caller
// drives it with elapsed time and discrete commands.
package engine

import (
	"fmt"
	"math"
	"strings"
)

// Coord is an integer grid coordinate. Y grows downward.
type Coord struct {
	X int
	Y int
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Manhattan returns the Manhattan distance to another coordinate.
func (c Coord) Manhattan(other Coord) int {
	dx := c.X - other.X
	dy := c.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Vec returns the coordinate as a continuous position.
func (c Coord) Vec() Vec {
	return Vec{X: float64(c.X), Y: float64(c.Y)}
}

// Vec is a continuous position in tile units.
type Vec struct {
	X float64
	Y float64
}

// Floor returns the grid cell containing the position.
func (v Vec) Floor() Coord {
	return Coord{X: int(math.Floor(v.X)), Y: int(math.Floor(v.Y))}
}

// manhattanF is the Manhattan distance between two continuous positions.
func manhattanF(a, b Vec) float64 {
	return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
}

// EntityID identifies a tower or minion. IDs are allocated from a single
// increasing sequence per session, so ascending ID order is creation order.
type EntityID uint64

// NoEntity is the zero ID; no entity ever has it.
const NoEntity EntityID = 0

// TowerType enumerates the placeable towers.
type TowerType int

const (
	TowerNone TowerType = iota
	TowerGunner
	TowerFrost
	TowerFlamethrower
	TowerTesla
)

// TowerTypes lists every placeable tower type in hotkey order.
var TowerTypes = []TowerType{TowerGunner, TowerFrost, TowerFlamethrower, TowerTesla}

func (t TowerType) String() string {
	switch t {
	case TowerNone:
		return "None"
	case TowerGunner:
		return "Gunner"
	case TowerFrost:
		return "Frost"
	case TowerFlamethrower:
		return "Flamethrower"
	case TowerTesla:
		return "Tesla"
	default:
		return fmt.Sprintf("TowerType(%d)", int(t))
	}
}

// ParseTowerType resolves a tower name, ignoring case.
func ParseTowerType(s string) (TowerType, error) {
	for _, t := range append([]TowerType{TowerNone}, TowerTypes...) {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return TowerNone, fmt.Errorf("unknown tower type %q", s)
}

// MinionType enumerates the enemy kinds.
type MinionType int

const (
	MinionGrunt MinionType = iota
	MinionRunner
	MinionTank
	MinionCursed
)

// MinionTypes lists every minion type.
var MinionTypes = []MinionType{MinionGrunt, MinionRunner, MinionTank, MinionCursed}

func (m MinionType) String() string {
	switch m {
	case MinionGrunt:
		return "Grunt"
	case MinionRunner:
		return "Runner"
	case MinionTank:
		return "Tank"
	case MinionCursed:
		return "Cursed"
	default:
		return fmt.Sprintf("MinionType(%d)", int(m))
	}
}

// ParseMinionType resolves a minion name, ignoring case.
func ParseMinionType(s string) (MinionType, error) {
	for _, m := range MinionTypes {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return MinionGrunt, fmt.Errorf("unknown minion type %q", s)
}

// MinionAbility is a bit set of innate minion traits.
type MinionAbility uint8

const (
	AbilityArmor MinionAbility = 1 << iota
	AbilityDeathExplode
	AbilityFast
)

// Has reports whether every bit of a is set.
func (m MinionAbility) Has(a MinionAbility) bool {
	return a != 0 && m&a == a
}

func (m MinionAbility) String() string {
	if m == 0 {
		return "None"
	}
	var parts []string
	if m.Has(AbilityArmor) {
		parts = append(parts, "Armor")
	}
	if m.Has(AbilityDeathExplode) {
		parts = append(parts, "DeathExplode")
	}
	if m.Has(AbilityFast) {
		parts = append(parts, "Fast")
	}
	return strings.Join(parts, "|")
}

// ParseMinionAbility resolves a single ability name. "None" yields zero.
func ParseMinionAbility(s string) (MinionAbility, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return 0, nil
	case "armor":
		return AbilityArmor, nil
	case "deathexplode":
		return AbilityDeathExplode, nil
	case "fast":
		return AbilityFast, nil
	}
	return 0, fmt.Errorf("unknown minion ability %q", s)
}

// TowerAbility is the secondary effect a tower applies to surviving targets.
type TowerAbility int

const (
	TowerAbilityNone TowerAbility = iota
	TowerAbilitySlow
	TowerAbilityBurn
	TowerAbilityChainLightning
)

func (a TowerAbility) String() string {
	switch a {
	case TowerAbilitySlow:
		return "Slow"
	case TowerAbilityBurn:
		return "Burn"
	case TowerAbilityChainLightning:
		return "ChainLightning"
	default:
		return "None"
	}
}

// ParseTowerAbility resolves a tower ability name, ignoring case.
func ParseTowerAbility(s string) (TowerAbility, error) {
	for _, a := range []TowerAbility{TowerAbilityNone, TowerAbilitySlow, TowerAbilityBurn, TowerAbilityChainLightning} {
		if strings.EqualFold(s, a.String()) {
			return a, nil
		}
	}
	if s == "" {
		return TowerAbilityNone, nil
	}
	return TowerAbilityNone, fmt.Errorf("unknown tower ability %q", s)
}

// EffectKind is a timed status effect on a minion.
type EffectKind int

const (
	EffectSlow EffectKind = iota
	EffectBurn
)

func (e EffectKind) String() string {
	if e == EffectBurn {
		return "Burn"
	}
	return "Slow"
}

// Effect is an active status effect and its remaining duration in seconds.
type Effect struct {
	Kind      EffectKind
	Remaining float64
}

// TowerStats are the base numbers of a tower type.
type TowerStats struct {
	Damage   float64
	Range    float64 // Manhattan tiles
	Cooldown float64 // seconds
	Cost     int
	Ability  TowerAbility
	Area     bool // attacks every minion in range
}

// MinionStats are the base numbers of a minion type.
type MinionStats struct {
	Health    float64
	Speed     float64 // tiles per second
	Reward    int
	Abilities MinionAbility
}

// Tower is a placed tower.
type Tower struct {
	ID              EntityID
	Type            TowerType
	Level           int
	Damage          float64
	Range           float64
	Cooldown        float64
	CurrentCooldown float64
	Cost            int
	Pos             Coord
	Ability         TowerAbility
	Area            bool

	// RangeCells caches CellsInRange for Pos and Range. It is replaced
	// whenever Range changes and never mutated in place.
	RangeCells RangeSet

	// TargetID is the minion attacked on the most recent firing tick.
	TargetID EntityID
}

// Minion is an enemy walking the path.
type Minion struct {
	ID        EntityID
	Type      MinionType
	Health    float64
	MaxHealth float64
	Speed     float64
	Reward    int
	Abilities MinionAbility
	Pos       Vec
	PathIndex int // index of the last waypoint reached
	Effects   []Effect
	Dead      bool
	Escaped   bool    // reached the exit; no reward was paid
	DeadFor   float64 // seconds since death
}

// Effect returns the active effect of the given kind, or nil.
func (m *Minion) Effect(kind EffectKind) *Effect {
	for i := range m.Effects {
		if m.Effects[i].Kind == kind {
			return &m.Effects[i]
		}
	}
	return nil
}

// HasEffect reports whether an effect of the given kind is active.
func (m Minion) HasEffect(kind EffectKind) bool {
	for _, e := range m.Effects {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// HealthFraction returns health/maxHealth in [0, 1].
func (m Minion) HealthFraction() float64 {
	if m.MaxHealth <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, m.Health/m.MaxHealth))
}
