package sim

import (
	"math"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Stats summarizes integer samples.
type Stats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
}

// Report is the aggregate of a simulation.
type Report struct {
	Runs       int           `json:"runs"`
	Busts      int           `json:"busts"`
	Leaves     int           `json:"leaves"`
	Unfinished int           `json:"unfinished"`
	BustRate   float64       `json:"bust_rate"`
	Zone       Stats         `json:"zone"`
	Banked     Stats         `json:"banked"`
	MeanSpent  float64       `json:"mean_spent"`
	MeanSpins  float64       `json:"mean_spins"`
	Revives    int           `json:"revives"`
	Elapsed    time.Duration `json:"elapsed"`
}

func summarize(outcomes []Outcome) *Report {
	r := &Report{Runs: len(outcomes)}
	if r.Runs == 0 {
		return r
	}

	zones := make([]int, len(outcomes))
	banked := make([]int, len(outcomes))
	var spent, spins int64
	for i, o := range outcomes {
		zones[i] = o.Zone
		banked[i] = o.Banked
		spent += int64(o.Spent)
		spins += int64(o.Spins)
		r.Revives += o.Revives
		switch {
		case !o.Done:
			r.Unfinished++
		case o.Bust:
			r.Busts++
		default:
			r.Leaves++
		}
	}

	n := decimal.NewFromInt(int64(r.Runs))
	r.BustRate = decimal.NewFromInt(int64(r.Busts)).Div(n).Round(6).InexactFloat64()
	r.MeanSpent = decimal.NewFromInt(spent).Div(n).Round(4).InexactFloat64()
	r.MeanSpins = decimal.NewFromInt(spins).Div(n).Round(4).InexactFloat64()
	r.Zone = calcStats(zones)
	r.Banked = calcStats(banked)
	return r
}

// calcStats computes mean, population deviation and interpolated
// percentiles. Sums are exact.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}

	sum := decimal.Zero
	for _, v := range xs {
		sum = sum.Add(decimal.NewFromInt(int64(v)))
	}
	count := decimal.NewFromInt(int64(n))
	mean := sum.Div(count)

	acc := decimal.Zero
	for _, v := range xs {
		d := decimal.NewFromInt(int64(v)).Sub(mean)
		acc = acc.Add(d.Mul(d))
	}
	variance := acc.Div(count).InexactFloat64()

	cp := slices.Clone(xs)
	slices.Sort(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
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
		Mean:   mean.Round(4).InexactFloat64(),
		StdDev: math.Sqrt(variance),
		Min:    cp[0],
		Max:    cp[n-1],
		P50:    percentile(0.50),
		P90:    percentile(0.90),
		P99:    percentile(0.99),
	}
}
