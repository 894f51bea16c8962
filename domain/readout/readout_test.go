package readout

import (
	"testing"

	"astriql/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeFilterZeroMinDisablesLowerBound(t *testing.T) {
	f := RangeFilter{Min: 0, Max: 100}
	var got []float64
	for _, x := range []float64{-5, 0, 50, 100, 150} {
		if f.Accept(x) {
			got = append(got, x)
		}
	}
	assert.Equal(t, []float64{-5, 0, 50}, got)
}

func TestRangeFilterStrictBounds(t *testing.T) {
	f := RangeFilter{Min: 10, Max: 100}
	var got []float64
	for _, x := range []float64{-5, 0, 10, 50, 100, 150} {
		if f.Accept(x) {
			got = append(got, x)
		}
	}
	assert.Equal(t, []float64{50}, got)
}

func TestNewColumnRejectsMixedShapes(t *testing.T) {
	_, err := NewColumn("PDM01HI", []Row{Array(1, 2, 3), Scalar(4)})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrShapeMismatch)

	_, err = NewColumn("PDM01HI", []Row{Array(1, 2, 3), Array(4, 5)})
	assert.ErrorIs(t, err, core.ErrShapeMismatch)

	col, err := NewColumn("PDM01HI", []Row{Array(1, 2, 3), Array(4, 5, 6)})
	require.NoError(t, err)
	assert.True(t, col.IsArray())
	assert.Equal(t, 3, col.Width())
}

func TestRowElementIsOneBased(t *testing.T) {
	r := Array(10, 20, 30)
	v, err := r.Element(2)
	require.NoError(t, err)
	assert.Equal(t, 20.0, v)

	_, err = r.Element(4)
	assert.ErrorIs(t, err, core.ErrSubChannelOutOfRange)
	_, err = Scalar(1).Element(1)
	assert.ErrorIs(t, err, core.ErrSubChannelOutOfRange)
}

func TestArrayCopiesInput(t *testing.T) {
	in := []float64{1, 2}
	r := Array(in...)
	in[0] = 99
	v, _ := r.Element(1)
	assert.Equal(t, 1.0, v)
}

func TestColumnHead(t *testing.T) {
	col, err := NewColumn("T", []Row{Scalar(1), Scalar(2), Scalar(3), Scalar(4), Scalar(5)})
	require.NoError(t, err)
	assert.Equal(t, 3, col.Head(3).Len())
	assert.Equal(t, 5, col.Head(0).Len())
	assert.Equal(t, 5, col.Head(10).Len())
}

func TestConcatKeepsArgumentOrder(t *testing.T) {
	got := Concat(
		Population{Total: []float64{1, 2}, Filtered: []float64{1}},
		Population{Total: []float64{3}, Filtered: nil},
		Population{Total: []float64{4, 5}, Filtered: []float64{4, 5}},
	)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, got.Total)
	assert.Equal(t, []float64{1, 4, 5}, got.Filtered)
}

func TestSummaryNoData(t *testing.T) {
	s := &Summary{EntryCount: 4}
	assert.False(t, s.HasData())
	_, _, err := s.MeanStdDev()
	assert.ErrorIs(t, err, core.ErrNoData)
}

func TestTemporalProbes(t *testing.T) {
	s := TemporalSeries{
		Times:      []float64{100, 101, 102},
		RowNumbers: []int{1, 2, 3},
		Values:     []float64{5, 6, 7},
	}
	p, err := s.TimeProbe(2)
	require.NoError(t, err)
	assert.Equal(t, Probe{Index: 2, X: 101, Y: 6}, p)

	p, err = s.RowProbe(3)
	require.NoError(t, err)
	assert.Equal(t, Probe{Index: 3, X: 3, Y: 7}, p)

	_, err = s.TimeProbe(0)
	assert.ErrorIs(t, err, core.ErrSampleIndexOutOfRange)
	_, err = s.RowProbe(4)
	assert.ErrorIs(t, err, core.ErrSampleIndexOutOfRange)
}

func TestSummaryAnnotations(t *testing.T) {
	s := &Summary{EntryCount: 12, Moments: &Moments{Mean: 4, StdDev: 2.2608}, TargetBin: 2, SelectedBinContent: 5}
	assert.Equal(t, []string{"Entries = 12", "Mean = 4.0", "RMS = 2.3", "Bin content [2] = 5"}, s.Annotations())

	empty := &Summary{EntryCount: 3}
	assert.Equal(t, []string{"Entries = 3", "Mean = n/a", "RMS = n/a"}, empty.Annotations())
}
