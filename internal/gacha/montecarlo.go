package gacha

import (
	"math"
	"sort"

	"github.com/xtding233/petgacha/internal/model"
)

// Stats summarizes simulation results.
type Stats struct {
	Mean   float64
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
	// Optional: raw samples if caller needs histograms/exports
	Samples []int `json:"-"`
}

// SimResult is the outcome of Simulate.
type SimResult struct {
	Trials int
	Counts [model.NumRarities]int
	Freq   [model.NumRarities]float64
	Forced int // pulls whose rarity came from the hard pity
	// pulls needed per legendary, counting from the previous one
	UntilLegendary Stats
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	// mean
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)
	stddev := math.Sqrt(variance)

	// percentiles
	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 {
			return float64(cp[0])
		}
		if p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Mean:    mean,
		Var:     variance,
		StdDev:  stddev,
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}

// Simulate runs trials consecutive pulls on pool with a fresh counter, using
// the same roll and pity steps as Engine.Pull but without costs or storage.
// pity <= 0 disables the hard pity.
func Simulate(pool Pool, pity int, trials int, rng RandomSource) SimResult {
	if rng == nil {
		rng = DefaultRNG()
	}
	res := SimResult{Trials: trials}
	if trials <= 0 {
		return res
	}
	ps := NewPitySystem(pity)
	var gaps []int
	since := 0
	for i := 0; i < trials; i++ {
		w := pool.Soft.effectiveWeights(pool.Weights, ps.Count, ps.Pity)
		r, forced := ps.Evaluate(Roll(w, rng))
		res.Counts[r]++
		if forced {
			res.Forced++
		}
		since++
		if r == model.Legendary {
			gaps = append(gaps, since)
			since = 0
		}
	}
	for i, c := range res.Counts {
		res.Freq[i] = float64(c) / float64(trials)
	}
	res.UntilLegendary = calcStats(gaps)
	return res
}
