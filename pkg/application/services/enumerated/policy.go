package enumerated

import (
	"math/rand"

	"github.com/vsinha/factorysim/pkg/application/services/planning"
	"github.com/vsinha/factorysim/pkg/domain/entities"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
)

// randomPolicy makes every planning choice from a per-trial RNG. Drivers are paired
// with transporters up front; transporters left without a partner get whichever
// driver is free at run time.
type randomPolicy struct {
	rng      *rand.Rand
	pool     map[string]*simulation.Driver
	smallest bool
}

var _ planning.Policy = (*randomPolicy)(nil)

func newRandomPolicy(rng *rand.Rand, factory *simulation.Factory) *randomPolicy {
	return &randomPolicy{
		rng:      rng,
		pool:     driverPool(rng, factory.Transporters(), factory.Drivers()),
		smallest: rng.Intn(2) == 0,
	}
}

// driverPool shuffles the drivers and hands them out to transporters in declaration order
func driverPool(rng *rand.Rand, transporters []*simulation.Transporter, drivers []*simulation.Driver) map[string]*simulation.Driver {
	shuffled := append([]*simulation.Driver(nil), drivers...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	pool := make(map[string]*simulation.Driver, len(transporters))
	for i, t := range transporters {
		if i < len(shuffled) {
			pool[t.Name()] = shuffled[i]
		}
	}
	return pool
}

func (p *randomPolicy) ChooseProduction(candidates []*simulation.Production, _ *planning.Records) *simulation.Production {
	return candidates[p.rng.Intn(len(candidates))]
}

// ChooseTransporter either takes the smallest transporter that carries the whole load,
// falling back to the largest ones, or any fitting transporter at random
func (p *randomPolicy) ChooseTransporter(candidates []*simulation.Transporter, amount entities.Quantity, _ *planning.Records) *simulation.Transporter {
	if !p.smallest {
		return candidates[p.rng.Intn(len(candidates))]
	}

	var fitting, largest []*simulation.Transporter
	for _, t := range candidates {
		if t.Capacity() >= amount {
			switch {
			case len(fitting) == 0 || t.Capacity() < fitting[0].Capacity():
				fitting = []*simulation.Transporter{t}
			case t.Capacity() == fitting[0].Capacity():
				fitting = append(fitting, t)
			}
		}
		switch {
		case len(largest) == 0 || t.Capacity() > largest[0].Capacity():
			largest = []*simulation.Transporter{t}
		case t.Capacity() == largest[0].Capacity():
			largest = append(largest, t)
		}
	}
	if len(fitting) > 0 {
		return fitting[p.rng.Intn(len(fitting))]
	}
	return largest[p.rng.Intn(len(largest))]
}

func (p *randomPolicy) ChooseDriver(t *simulation.Transporter, _ []*simulation.Driver, _ *planning.Records) *simulation.Driver {
	return p.pool[t.Name()]
}
