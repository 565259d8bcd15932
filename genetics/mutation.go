package genetics

import (
	"math/rand/v2"
)

// MutationParams controls the adaptive point mutation.
type MutationParams struct {
	MinChance float64 // Chance for a tree at or above MaxEnergy
	MaxChance float64 // Chance for a tree with no balance left
	MaxEnergy float64
}

// Chance returns the mutation probability for a parent balance. Starved
// parents mutate more often.
func (p MutationParams) Chance(balance int) float64 {
	normalized := 0.0
	if p.MaxEnergy > 0 {
		normalized = float64(balance) / p.MaxEnergy
	}
	normalized = min(max(normalized, 0), 1)
	return p.MinChance + (1-normalized)*(p.MaxChance-p.MinChance)
}

// Mutate returns a copy of g with at most one outcome rewritten, and whether
// a rewrite happened. The new value is always a gene index, never Blocked.
// Colors are copied unchanged; choosing a new display color is up to the caller.
func Mutate(rng *rand.Rand, g *Genome, balance int, p MutationParams) (*Genome, bool) {
	child := g.Clone()
	if rng.Float64() >= p.Chance(balance) {
		return child, false
	}

	gene := rng.IntN(NumGenes)
	dir := rng.IntN(NumDirections)
	child.Genes[gene][dir] = uint8(rng.IntN(NumGenes))
	return child, true
}

// DriftLifespan moves lifespan one tick up or down with the given chance.
func DriftLifespan(rng *rand.Rand, lifespan int, chance float64) int {
	if rng.Float64() >= chance {
		return lifespan
	}
	if rng.IntN(2) == 0 {
		return lifespan + 1
	}
	return lifespan - 1
}
