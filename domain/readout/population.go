package readout

// RangeFilter is the (Min, Max) sample window.
//
// Min == 0 disables the lower bound: the predicate becomes x < Max even for negative x.
// Any other Min gives the strict window Min < x < Max. Callers rely on this convention.
type RangeFilter struct {
	Min float64
	Max float64
}

// Accept reports whether x passes the filter
func (f RangeFilter) Accept(x float64) bool {
	if f.Min == 0 {
		return x < f.Max
	}
	return x > f.Min && x < f.Max
}

// Population holds the extracted samples before and after the range filter
type Population struct {
	Total    []float64
	Filtered []float64
}

// Concat folds populations in argument order
func Concat(pops ...Population) Population {
	var nTotal, nFiltered int
	for _, p := range pops {
		nTotal += len(p.Total)
		nFiltered += len(p.Filtered)
	}
	out := Population{
		Total:    make([]float64, 0, nTotal),
		Filtered: make([]float64, 0, nFiltered),
	}
	for _, p := range pops {
		out.Total = append(out.Total, p.Total...)
		out.Filtered = append(out.Filtered, p.Filtered...)
	}
	return out
}
