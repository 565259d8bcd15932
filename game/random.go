package game

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// seededRNG returns the single random source a world draws from, so a run
// is reproducible from its seed.
func seededRNG(seed int64) *rand.Rand {
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}
