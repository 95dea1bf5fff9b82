package seed

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive_Pure(t *testing.T) {
	for i := range uint32(1000) {
		a := Derive(12345, i)
		b := Derive(12345, i)
		require.Equal(t, a, b, "Derive must be deterministic for index %d", i)
	}
}

func TestDerive_DistinctAcrossIndices(t *testing.T) {
	// Sample a large index range, including indices well past 2^20,
	// and require no collisions within the sample.
	seen := make(map[uint32]uint32, 300000)

	check := func(idx uint32) {
		s := Derive(12345, idx)
		if prev, ok := seen[s]; ok && prev != idx {
			t.Fatalf("seed collision: index %d and %d both derive %#x", prev, idx, s)
		}
		seen[s] = idx
	}

	for i := range uint32(100000) {
		check(i)
	}
	// Sparse sweep through the high range (> 2^20, up to the billions).
	for i := uint32(1 << 20); i > 1<<19; i += 21467 {
		check(i * 3)
	}
}

func TestDerive_Avalanche_AdjacentIndices(t *testing.T) {
	// Adjacent zone indices must produce thoroughly decorrelated seeds.
	// Measured statistically: the average hamming distance between seeds of
	// index i and i+1 over many world seeds should be near 16 bits and
	// never degrade below 10.
	total := 0
	samples := 0
	for ws := uint32(1); ws < 4000; ws += 7 {
		for idx := uint32(0); idx < 64; idx += 13 {
			d := bits.OnesCount32(Derive(ws, idx) ^ Derive(ws, idx+1))
			total += d
			samples++
		}
	}
	avg := float64(total) / float64(samples)
	assert.Greater(t, avg, 10.0, "average avalanche between adjacent indices")
	assert.Less(t, avg, 22.0, "average avalanche should hover around 16 bits")
}

func TestDerive_ReferenceScenario(t *testing.T) {
	// worldSeed 12345: zone 0 and zone 1 must not resemble each other.
	a := Derive(12345, 0)
	b := Derive(12345, 1)
	require.NotEqual(t, a, b)

	// Single-pair bit distance is noisy; assert a loose floor here and rely
	// on TestDerive_Avalanche_AdjacentIndices for the statistical property.
	assert.GreaterOrEqual(t, bits.OnesCount32(a^b), 6)
}

func TestDerive_LargeIndexStaysDefined(t *testing.T) {
	// Defined for the whole uint32 domain, no panic, no degenerate output.
	assert.NotEqual(t, Derive(0, 0), Derive(0, ^uint32(0)))
	_ = Derive(^uint32(0), ^uint32(0))
}
