package formalize

import (
	"math"
	"sort"
)

const nDecileBoundaries = 9

type Stats struct {
	NSamples int
	Mean     float64
	StdDev   float64
	StdErr   float64
	Min      float64
	MinIndex int
	Max      float64
	MaxIndex int
	Deciles  []float64
}

func getMean(series []float64) float64 {
	ret := float64(0)
	nSamplesF64 := float64(len(series))

	for _, element := range series {
		ret += element / nSamplesF64
	}

	return ret
}

func getSquareMean(series []float64) float64 {
	ret := float64(0)
	nSamplesF64 := float64(len(series))

	for _, element := range series {
		ret += element * element / nSamplesF64
	}

	return ret
}

func getStdDevUsingMean(series []float64, mean float64) float64 {
	// rounding can leave a tiny negative variance for constant series
	return math.Sqrt(math.Max(getSquareMean(series)-(mean*mean), 0))
}

// getDeciles picks the sample nearest to each i/10 quantile, i = 1..9.
func getDeciles(series []float64) []float64 {
	sorted := append([]float64{}, series...)
	sort.Float64s(sorted)

	ret := []float64{}
	lastIndex := len(sorted) - 1
	for iter := 1; iter <= nDecileBoundaries; iter += 1 {
		rank := int(math.Round(float64(iter*lastIndex) / 10))
		ret = append(ret, sorted[rank])
	}

	return ret
}

func getF64Stats(series []float64) *Stats {
	ret := &Stats{
		Min:      math.Inf(1),
		Max:      math.Inf(-1),
		MinIndex: 0,
		MaxIndex: 0,
	}

	for index, element := range series {
		if element < ret.Min {
			ret.Min = element
			ret.MinIndex = index
		}
		if element > ret.Max {
			ret.Max = element
			ret.MaxIndex = index
		}
	}

	ret.NSamples = len(series)
	ret.Mean = getMean(series)
	ret.StdDev = getStdDevUsingMean(series, ret.Mean)
	ret.StdErr = ret.StdDev / math.Sqrt(float64(ret.NSamples))
	ret.Deciles = getDeciles(series)

	return ret
}
