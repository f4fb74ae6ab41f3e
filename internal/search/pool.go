package search

import (
	"fmt"
	"math/rand/v2"
)

// Pool is the shrinking set of configurations random search has not drawn
// yet. Each Draw removes what it returns, so no configuration is drawn twice.
type Pool struct {
	items []Combination
	rng   *rand.Rand
}

// NewPool takes its own copy of items.
func NewPool(items []Combination, rng *rand.Rand) *Pool {
	return &Pool{
		items: append([]Combination(nil), items...),
		rng:   rng,
	}
}

// Len is the number of configurations left to draw.
func (p *Pool) Len() int { return len(p.items) }

// Draw picks a remaining configuration uniformly at random and removes it.
func (p *Pool) Draw() (Combination, error) {
	if len(p.items) == 0 {
		return Combination{}, ErrPoolExhausted
	}
	i := p.rng.IntN(len(p.items))
	picked := p.items[i]
	p.items = append(p.items[:i], p.items[i+1:]...)
	return picked, nil
}

// Reserve checks that n draws can be satisfied.
func (p *Pool) Reserve(n int) error {
	if n > len(p.items) {
		return fmt.Errorf("%w: %d draws requested, %d configurations available", ErrPoolExhausted, n, len(p.items))
	}
	return nil
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
