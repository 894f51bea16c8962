package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"astriql/domain/core"
	"astriql/domain/readout"
	"astriql/internal"
	"astriql/internal/errors"
	"astriql/internal/extraction"
	"astriql/internal/testkit"
	"astriql/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = internal.NewLoggerTo(io.Discard, internal.LogLevelError)

// failingOpener fails the test if any file is opened
func failingOpener(t *testing.T) ports.SourceOpener {
	return ports.SourceOpenerFunc(func(ctx context.Context, path string) (ports.TableSourcePort, error) {
		t.Fatalf("source %s opened for an invalid request", path)
		return nil, nil
	})
}

func threeModuleSource() *testkit.MemorySource {
	src := testkit.NewMemorySource()
	src.MustAddColumn("PDM01HI", readout.Array(1, 2), readout.Array(2, 3))
	src.MustAddColumn("PDM02HI", readout.Array(4, 5), readout.Array(5, 5))
	src.MustAddColumn("PDM03HI", readout.Array(9, 12), readout.Array(0, 11))
	src.AddScalars("TIME_S", 100, 100.5)
	return src
}

func TestHistogramServiceAllModules(t *testing.T) {
	src := threeModuleSource()
	svc := NewHistogramService(src.Opener(), extraction.NewFieldSelector("PDM", 3), 2, quietLogger)

	report, err := svc.Run(context.Background(), HistogramRequest{
		Path: "run.lv0", Module: 0, Param: "HI", Bins: 4, Min: 0, Max: 10, TargetBin: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"PDM01HI", "PDM02HI", "PDM03HI"}, report.Fields)
	assert.Equal(t, []string{"PDM01HI", "PDM02HI", "PDM03HI"}, sortedCopy(src.Requested()))
	assert.True(t, src.Closed())

	s := report.Summary
	assert.Equal(t, 12, s.EntryCount)
	// Min == 0 keeps every x < 10, including the 0 sample
	assert.Equal(t, 10, s.FilteredCount)
	assert.Equal(t, []int{4, 2, 3, 1}, s.Histogram.Counts)
	assert.Equal(t, 2, s.SelectedBinContent)
	require.NotNil(t, report.Profile)
	assert.Equal(t, 0.0, report.Profile.Min)
	assert.Equal(t, "HI", report.Labels.Title)
	assert.False(t, report.RunID == "")
}

func TestHistogramServiceSubChannel(t *testing.T) {
	src := threeModuleSource()
	svc := NewHistogramService(src.Opener(), extraction.NewFieldSelector("PDM", 3), 1, quietLogger)

	report, err := svc.Run(context.Background(), HistogramRequest{
		Path: "run.lv0", Module: 2, Param: "HI", SubChannel: 2, Bins: 2, Min: 1, Max: 6, NoTargetBin: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"PDM02HI"}, src.Requested())
	assert.Equal(t, 2, report.Summary.EntryCount)
	mean, sd, err := report.Summary.MeanStdDev()
	require.NoError(t, err)
	assert.Equal(t, 5.0, mean)
	assert.Equal(t, 0.0, sd)
	assert.Equal(t, "HI [2]", report.Labels.Title)
}

func TestHistogramServiceNoData(t *testing.T) {
	src := threeModuleSource()
	svc := NewHistogramService(src.Opener(), extraction.NewFieldSelector("PDM", 3), 1, quietLogger)

	report, err := svc.Run(context.Background(), HistogramRequest{
		Path: "run.lv0", Module: 1, Param: "HI", Bins: 5, Min: 100, Max: 200, NoTargetBin: true,
	})
	require.NoError(t, err)
	assert.False(t, report.Summary.HasData())
	assert.Nil(t, report.Profile)
	assert.Equal(t, 4, report.Summary.EntryCount)
}

func TestHistogramServiceRejectsBeforeOpening(t *testing.T) {
	base := HistogramRequest{Path: "run.lv0", Module: 1, Param: "HI", Bins: 10, Min: 0, Max: 100, TargetBin: 1}

	cases := map[string]func(r *HistogramRequest){
		"module too high":    func(r *HistogramRequest) { r.Module = 38 },
		"negative module":    func(r *HistogramRequest) { r.Module = -1 },
		"empty param":        func(r *HistogramRequest) { r.Param = "" },
		"zero bins":          func(r *HistogramRequest) { r.Bins = 0 },
		"inverted range":     func(r *HistogramRequest) { r.Min, r.Max = 100, 0 },
		"target bin too big": func(r *HistogramRequest) { r.TargetBin = 11 },
		"target bin missing": func(r *HistogramRequest) { r.TargetBin = 0 },
		"negative maxevt":    func(r *HistogramRequest) { r.MaxRows = -1 },
		"negative subfield":  func(r *HistogramRequest) { r.SubChannel = -3 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			svc := NewHistogramService(failingOpener(t), extraction.NewFieldSelector("PDM", 37), 1, quietLogger)
			req := base
			mutate(&req)
			_, err := svc.Run(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
		})
	}
}

func TestHistogramServiceMissingField(t *testing.T) {
	src := threeModuleSource()
	svc := NewHistogramService(src.Opener(), extraction.NewFieldSelector("PDM", 4), 1, quietLogger)

	_, err := svc.Run(context.Background(), HistogramRequest{
		Path: "run.lv0", Module: 0, Param: "HI", Bins: 4, Min: 0, Max: 10, NoTargetBin: true,
	})
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	assert.True(t, src.Closed())
}

func TestHistogramServiceSubChannelOutOfRange(t *testing.T) {
	src := threeModuleSource()
	svc := NewHistogramService(src.Opener(), extraction.NewFieldSelector("PDM", 3), 1, quietLogger)

	_, err := svc.Run(context.Background(), HistogramRequest{
		Path: "run.lv0", Module: 1, Param: "HI", SubChannel: 3, Bins: 4, Min: 0, Max: 10, NoTargetBin: true,
	})
	assert.ErrorIs(t, err, core.ErrSubChannelOutOfRange)
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
}

func TestTemporalService(t *testing.T) {
	src := threeModuleSource()
	svc := NewTemporalService(src.Opener(), extraction.NewFieldSelector("PDM", 3), "TIME_S", quietLogger)

	report, err := svc.Run(context.Background(), TemporalRequest{
		Path: "run.lv0", Module: 2, Param: "HI", SubChannel: 1, TimeIndex: 2, RowIndex: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{4, 5}, report.Series.Values)
	assert.Equal(t, readout.Probe{Index: 2, X: 100.5, Y: 5}, report.TimeProbe)
	assert.Equal(t, readout.Probe{Index: 1, X: 1, Y: 4}, report.RowProbe)
	assert.Equal(t, "HI", report.Labels.YLabel)
	assert.Equal(t, "TIME_S", report.TimeField)
	assert.True(t, src.Closed())
}

func TestTemporalServiceProbeOutOfRange(t *testing.T) {
	src := threeModuleSource()
	svc := NewTemporalService(src.Opener(), extraction.NewFieldSelector("PDM", 3), "TIME_S", quietLogger)

	_, err := svc.Run(context.Background(), TemporalRequest{
		Path: "run.lv0", Module: 1, Param: "HI", SubChannel: 1, TimeIndex: 3, RowIndex: 1,
	})
	assert.ErrorIs(t, err, core.ErrSampleIndexOutOfRange)
}

func TestTemporalServiceRejectsAllModules(t *testing.T) {
	svc := NewTemporalService(failingOpener(t), extraction.NewFieldSelector("PDM", 37), "TIME_S", quietLogger)

	_, err := svc.Run(context.Background(), TemporalRequest{
		Path: "run.lv0", Module: 0, Param: "HI", SubChannel: 1, TimeIndex: 1, RowIndex: 1,
	})
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
}

func TestOpenSourceByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readout.csv")
	require.NoError(t, os.WriteFile(path, []byte("TIME_S,PDM01T[1],PDM01T[2]\n1,20,21\n2,22,23\n"), 0o644))

	src, err := FileSourceOpener.Open(context.Background(), path)
	require.NoError(t, err)
	defer src.Close()

	col, err := src.Column(context.Background(), "PDM01T")
	require.NoError(t, err)
	assert.Equal(t, 2, col.Width())
}

func TestOpenSourceMissingFITS(t *testing.T) {
	_, err := OpenSource(context.Background(), filepath.Join(t.TempDir(), "missing.lv0"))
	assert.Equal(t, errors.CodeIOError, errors.GetCode(err))
}

func sortedCopy(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}

func TestTemporalServiceShortTimeColumnIsFormatError(t *testing.T) {
	src := testkit.NewMemorySource().AddScalars("TIME_S", 100)
	src.MustAddColumn("PDM01HI", readout.Scalar(1), readout.Scalar(2))
	svc := NewTemporalService(src.Opener(), extraction.NewFieldSelector("PDM", 1), "TIME_S", quietLogger)

	_, err := svc.Run(context.Background(), TemporalRequest{
		Path: "run.lv0", Module: 1, Param: "HI", TimeIndex: 1, RowIndex: 1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMalformed)
	assert.Equal(t, errors.CodeFormatError, errors.GetCode(err))
}
