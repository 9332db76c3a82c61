package stats

import (
	"math"
	"sort"
)

// WhiskerFactor is the Tukey fence multiplier. Whiskers reach the most
// extreme observations within WhiskerFactor IQRs of the box.
const WhiskerFactor = 1.5

// Summary describes one box of a box plot.
type Summary struct {
	N            int
	Min          float64
	Q1           float64
	Median       float64
	Q3           float64
	Max          float64
	LowerWhisker float64
	UpperWhisker float64
	Outliers     []float64 // ascending
}

// IQR returns the interquartile range.
func (s Summary) IQR() float64 {
	return s.Q3 - s.Q1
}

// Quantile returns the p-quantile (0 <= p <= 1) of an ascending slice,
// interpolating linearly between order statistics (Hyndman and Fan type 7).
// It returns NaN for an empty slice.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// Summarize computes the box-plot summary of values. The input is not
// modified. ok is false when values is empty.
func Summarize(values []float64) (s Summary, ok bool) {
	if len(values) == 0 {
		return Summary{}, false
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s = Summary{
		N:      len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q1:     Quantile(sorted, 0.25),
		Median: Quantile(sorted, 0.5),
		Q3:     Quantile(sorted, 0.75),
	}

	lowFence := s.Q1 - WhiskerFactor*s.IQR()
	highFence := s.Q3 + WhiskerFactor*s.IQR()

	s.LowerWhisker = s.Q1
	s.UpperWhisker = s.Q3
	for _, v := range sorted {
		if v >= lowFence {
			s.LowerWhisker = math.Min(v, s.Q1)
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= highFence {
			s.UpperWhisker = math.Max(sorted[i], s.Q3)
			break
		}
	}
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			s.Outliers = append(s.Outliers, v)
		}
	}
	return s, true
}
