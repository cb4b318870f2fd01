package rarity

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coin = DenominationUnit

func TestAlphas(t *testing.T) {
	assert.Equal(t, []uint64{460 * coin}, Alphas(460*coin-10_000, 460*coin+10_000))
	assert.Equal(t, []uint64{0}, Alphas(0, 1))
	assert.Equal(t, []uint64{coin, 2 * coin, 3 * coin}, Alphas(1, 3*coin+1))
	assert.Empty(t, Alphas(1, coin))
	assert.Empty(t, Alphas(5, 5))
}

func TestOmegas(t *testing.T) {
	assert.Equal(t, []uint64{460*coin - 1}, Omegas(460*coin-10_000, 460*coin+10_000))
	assert.Empty(t, Omegas(0, coin-1))
	assert.Equal(t, []uint64{coin - 1}, Omegas(0, coin))

	// highest first
	assert.Equal(t, []uint64{3*coin - 1, 2*coin - 1, coin - 1}, Omegas(0, 3*coin+5))
	assert.Equal(t, []uint64{3*coin - 1, 2*coin - 1}, Omegas(coin, 3*coin+5))
}

func TestDenominationProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 500; i++ {
		start := rng.Uint64N(2_000_000_000_000_000)
		end := start + 1 + rng.Uint64N(5*coin)

		alphas := Alphas(start, end)
		for j, v := range alphas {
			require.Zero(t, v%coin)
			require.GreaterOrEqual(t, v, start)
			require.Less(t, v, end)
			if j > 0 {
				require.Equal(t, alphas[j-1]+coin, v)
			}
		}

		omegas := Omegas(start, end)
		for j, v := range omegas {
			require.Zero(t, (v+1)%coin)
			require.GreaterOrEqual(t, v, start)
			require.Less(t, v, end)
			if j > 0 {
				require.Equal(t, omegas[j-1]-coin, v)
			}
		}

		// every bucket boundary in range is found
		expected := 0
		for b := (start/coin + 1) * coin; b <= end; b += coin {
			expected++
		}
		require.Len(t, omegas, expected, "range [%d, %d)", start, end)
	}
}
