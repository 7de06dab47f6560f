// internal/words/random.go
//
// Deterministic randomness for puzzle generation.
//
// Random is a small linear-congruential generator:
//
//	state = (state*9301 + 49297) mod 233280
//	value = state / 233280
//
// The recurrence is fixed so that a seed reproduces the same puzzle on any
// platform (daily challenges, shared seeds, golden tests). It is NOT suitable
// for anything security related.

package words

const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// Random is a seeded pseudo-random stream. The zero value is a stream seeded with 0.
// A Random is not safe for concurrent use; give each generation attempt its own.
type Random struct {
	state int64
}

// NewRandom returns a stream seeded with seed.
// Seeds are reduced modulo 233280 up front, which leaves the sequence unchanged
// for non-negative seeds and keeps the multiplication from overflowing.
func NewRandom(seed int64) *Random {
	s := seed % lcgModulus
	if s < 0 {
		s += lcgModulus
	}
	return &Random{state: s}
}

// Float64 advances the stream and returns a value in [0, 1).
func (r *Random) Float64() float64 {
	r.state = (r.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(r.state) / lcgModulus
}

// Intn returns floor(Float64() * n), a value in [0, n). n must be > 0.
func (r *Random) Intn(n int) int {
	return int(r.Float64() * float64(n))
}

// Shuffle permutes list in place with Fisher–Yates, drawing exactly
// len(list)-1 values from r in descending index order.
func Shuffle[T any](list []T, r *Random) {
	for i := len(list) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		list[i], list[j] = list[j], list[i]
	}
}
