package game

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
)

// Outcome draws and grid shuffles use crypto/rand: the result must not be
// predictable by a client timing or replaying requests.

// secureFloat64 returns a uniform random float64 in [0, 1).
func secureFloat64() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing means the platform entropy source is broken;
		// refuse to produce a biased draw.
		panic("game: entropy source unavailable: " + err.Error())
	}
	// 53 high-quality bits, same construction as math/rand's Float64.
	return float64(binary.BigEndian.Uint64(buf[:])>>11) / (1 << 53)
}

// secureIntn returns a uniform random int in [0, n).
func secureIntn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("game: entropy source unavailable: " + err.Error())
	}
	return int(v.Int64())
}

// secureShuffle Fisher-Yates shuffles vals in place.
func secureShuffle(vals []int64) {
	for i := len(vals) - 1; i > 0; i-- {
		j := secureIntn(i + 1)
		vals[i], vals[j] = vals[j], vals[i]
	}
}

// shuffledCopy returns a shuffled copy of vals.
func shuffledCopy(vals []int64) []int64 {
	out := make([]int64, len(vals))
	copy(out, vals)
	secureShuffle(out)
	return out
}
