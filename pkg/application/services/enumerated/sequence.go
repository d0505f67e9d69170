package enumerated

import (
	"math/rand"

	"github.com/vsinha/factorysim/pkg/domain/entities"
)

// permutationCount returns n! or ok=false once it exceeds limit
func permutationCount(n, limit int) (int, bool) {
	count := 1
	for i := 2; i <= n; i++ {
		count *= i
		if count > limit {
			return 0, false
		}
	}
	return count, true
}

// nthPermutation returns the k-th lexicographic permutation of orders (k < n!)
func nthPermutation(orders []*entities.Order, k int) []*entities.Order {
	pool := append([]*entities.Order(nil), orders...)
	result := make([]*entities.Order, 0, len(orders))

	factorial := 1
	for i := 2; i < len(pool); i++ {
		factorial *= i
	}
	for len(pool) > 0 {
		idx := k / factorial
		k %= factorial
		result = append(result, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
		if len(pool) > 0 {
			factorial /= len(pool)
		}
	}
	return result
}

// sequencer decides the order sequence of each trial
type sequencer struct {
	orders     []*entities.Order
	exhaustive bool
	count      int
}

func newSequencer(orders []*entities.Order, budget int) *sequencer {
	count, ok := permutationCount(len(orders), budget)
	return &sequencer{orders: orders, exhaustive: ok, count: count}
}

// sequence returns the orders for trial t (t >= 1). Small order sets walk every
// permutation in lexicographic order; large ones are shuffled.
func (s *sequencer) sequence(t int, rng *rand.Rand) []*entities.Order {
	if s.exhaustive {
		return nthPermutation(s.orders, (t-1)%s.count)
	}
	shuffled := append([]*entities.Order(nil), s.orders...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled
}
