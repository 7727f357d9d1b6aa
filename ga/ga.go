// Package ga implements the genetic-algorithm job assigner: it
// partitions a set of deliveries across a fleet of vehicles, evolving
// a population of candidate assignments toward fewer stops and fewer
// capacity violations.
package ga

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"routex/graph"
	"routex/prng"
)

// Params bundles GA tuning constants.
type Params struct {
	Population  int
	Generations int
	MutateRate  float64
}

// Default returns the reference 20/20/0.2 parameters the orchestrator
// always uses (see orchestrator package and DESIGN.md's resolution of
// the config-vs-hard-coded open question).
func Default() Params {
	return Params{Population: 20, Generations: 20, MutateRate: 0.2}
}

// Chromosome maps vehicle id to its ordered job list.
type Chromosome map[string][]string

// Planner evolves a population of chromosomes for a fixed fleet and
// job set.
type Planner struct {
	vehicleIDs []string // stable iteration order, fixed at construction
	vehicles   map[string]graph.Vehicle
	jobs       map[string]graph.Delivery
	params     Params
	rng        *prng.Source
}

// New builds a Planner. vehicleIDs fixes the iteration order used by
// random-chromosome round-robin distribution, so that two Planners
// built from the same inputs and seed reproduce identical output.
func New(vehicleIDs []string, vehicles map[string]graph.Vehicle, jobs map[string]graph.Delivery, params Params, rng *prng.Source) *Planner {
	return &Planner{vehicleIDs: vehicleIDs, vehicles: vehicles, jobs: jobs, params: params, rng: rng}
}

// Plan runs the full generational loop and returns the fittest
// chromosome. Per-chromosome fitness evaluation within a generation
// runs in one goroutine per chromosome (errgroup), but the final ranking
// sorts by (fitness, population index) so concurrent evaluation never
// changes the result for a fixed seed.
func (p *Planner) Plan(ctx context.Context) Chromosome {
	pop := make([]Chromosome, p.params.Population)
	for i := range pop {
		pop[i] = p.randomChromosome()
	}

	eliteSize := p.params.Population / 5
	if eliteSize < 2 {
		eliteSize = 2
	}

	for gen := 0; gen < p.params.Generations; gen++ {
		pop = p.rankDescending(ctx, pop)
		elite := pop[:eliteSize]

		children := make([]Chromosome, 0, p.params.Population)
		children = append(children, elite...)
		for len(children) < p.params.Population {
			a := elite[p.rng.Intn(len(elite))]
			b := elite[p.rng.Intn(len(elite))]
			child := p.crossover(a, b)
			p.mutate(child)
			children = append(children, child)
		}
		pop = children
	}

	pop = p.rankDescending(ctx, pop)
	return pop[0]
}

type scored struct {
	idx     int
	chrom   Chromosome
	fitness float64
}

// rankDescending evaluates every chromosome's fitness and returns the
// population sorted best-first.
func (p *Planner) rankDescending(ctx context.Context, pop []Chromosome) []Chromosome {
	results := make([]scored, len(pop))

	g, _ := errgroup.WithContext(ctx)
	for i, chrom := range pop {
		i, chrom := i, chrom
		g.Go(func() error {
			results[i] = scored{idx: i, chrom: chrom, fitness: p.fitness(chrom)}
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].fitness != results[j].fitness {
			return results[i].fitness > results[j].fitness
		}
		return results[i].idx < results[j].idx
	})

	out := make([]Chromosome, len(results))
	for i, r := range results {
		out[i] = r.chrom
	}
	return out
}

// randomChromosome shuffles the job ids and distributes them
// round-robin across vehicles in the fixed vehicleIDs order.
func (p *Planner) randomChromosome() Chromosome {
	ids := make([]string, 0, len(p.jobs))
	for id := range p.jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids) // canonical order before shuffling, so the shuffle alone determines the result
	p.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	chrom := make(Chromosome, len(p.vehicleIDs))
	for _, vid := range p.vehicleIDs {
		chrom[vid] = nil
	}
	for i, jid := range ids {
		vid := p.vehicleIDs[i%len(p.vehicleIDs)]
		chrom[vid] = append(chrom[vid], jid)
	}
	return chrom
}

// fitness maximises -(total_stops + penalty), penalty being 100 per
// unit of capacity overflow.
func (p *Planner) fitness(chrom Chromosome) float64 {
	stops := 0
	penalty := 0.0
	for vid, jobIDs := range chrom {
		stops += len(jobIDs)
		demand := 0.0
		for _, jid := range jobIDs {
			demand += p.jobs[jid].Demand
		}
		if over := demand - p.vehicles[vid].LoadCapacity; over > 0 {
			penalty += over * 100.0
		}
	}
	return -(float64(stops) + penalty)
}

// mutate moves one job from a randomly chosen vehicle to another, with
// probability params.MutateRate.
func (p *Planner) mutate(chrom Chromosome) {
	if p.rng.Float64() >= p.params.MutateRate {
		return
	}
	if len(p.vehicleIDs) < 2 {
		return
	}
	ai, bi := p.rng.Intn(len(p.vehicleIDs)), p.rng.Intn(len(p.vehicleIDs))
	for bi == ai {
		bi = p.rng.Intn(len(p.vehicleIDs))
	}
	a, b := p.vehicleIDs[ai], p.vehicleIDs[bi]

	if len(chrom[a]) == 0 {
		return
	}
	ji := p.rng.Intn(len(chrom[a]))
	job := chrom[a][ji]
	chrom[a] = append(chrom[a][:ji], chrom[a][ji+1:]...)
	chrom[b] = append(chrom[b], job)
}

// crossover inherits, per vehicle, the intersection of a's and b's job
// lists, then distributes every job missing from the child uniformly
// over vehicles. Every job ends up assigned exactly once, though
// capacity may be violated — fitness, not crossover, punishes that.
func (p *Planner) crossover(a, b Chromosome) Chromosome {
	child := make(Chromosome, len(p.vehicleIDs))
	assigned := map[string]bool{}

	for _, vid := range p.vehicleIDs {
		setB := map[string]bool{}
		for _, jid := range b[vid] {
			setB[jid] = true
		}
		var inter []string
		for _, jid := range a[vid] {
			if setB[jid] {
				inter = append(inter, jid)
				assigned[jid] = true
			}
		}
		child[vid] = inter
	}

	var missing []string
	for jid := range p.jobs {
		if !assigned[jid] {
			missing = append(missing, jid)
		}
	}
	sort.Strings(missing)
	p.rng.Shuffle(len(missing), func(i, j int) { missing[i], missing[j] = missing[j], missing[i] })

	for _, jid := range missing {
		vid := p.vehicleIDs[p.rng.Intn(len(p.vehicleIDs))]
		child[vid] = append(child[vid], jid)
	}

	return child
}
