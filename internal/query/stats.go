package query

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ConfidenceLevel is the two-tailed level of every reported interval.
const ConfidenceLevel = 0.95

// AggregateResult summarizes the samples of one query.
type AggregateResult struct {
	// Count is the number of per-game-per-seat samples.
	Count int `json:"count"`
	// Games is the number of distinct rows that contributed samples.
	Games     int     `json:"games"`
	Mean      float64 `json:"mean"`
	StdErr    float64 `json:"stderr"`
	HalfWidth float64 `json:"halfWidth"`
}

// Interval returns the bounds of the confidence interval.
func (r AggregateResult) Interval() (lo, hi float64) {
	return r.Mean - r.HalfWidth, r.Mean + r.HalfWidth
}

// Scale multiplies mean, standard error and half-width by factor.
func (r AggregateResult) Scale(factor float64) AggregateResult {
	r.Mean *= factor
	r.StdErr *= factor
	r.HalfWidth *= factor
	return r
}

// Aggregate computes the mean, the standard error from the population
// variance of samples and the half-width of the interval with games-1
// degrees of freedom.
func Aggregate(samples []float64, games int) (AggregateResult, error) {
	n := len(samples)
	if n == 0 {
		return AggregateResult{}, &EmptySelectionError{}
	}
	if games < 2 {
		return AggregateResult{}, fmt.Errorf("%w: %d game(s), %d sample(s)", ErrTooFewGames, games, n)
	}

	sum := 0.0
	for _, s := range samples {
		sum += s
	}
	mean := sum / float64(n)

	sq := 0.0
	for _, s := range samples {
		sq += (s - mean) * (s - mean)
	}
	variance := sq / float64(n)
	stdErr := math.Sqrt(variance) / math.Sqrt(float64(n))

	return AggregateResult{
		Count:     n,
		Games:     games,
		Mean:      mean,
		StdErr:    stdErr,
		HalfWidth: stdErr * TCritical(games-1),
	}, nil
}

// TCritical returns the two-tailed Student-t critical value at
// ConfidenceLevel for df degrees of freedom.
func TCritical(df int) float64 {
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	return t.Quantile(1 - (1-ConfidenceLevel)/2)
}
