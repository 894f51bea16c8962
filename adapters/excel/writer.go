package excel

import (
	"context"
	"fmt"
	"log"

	"astriql/domain/readout"
	"astriql/internal/errors"
	"astriql/ports"

	"github.com/xuri/excelize/v2"
)

const (
	histogramSheet = "Histogram"
	summarySheet   = "Summary"
)

// HistogramWriter exports histogram tables to xlsx workbooks
type HistogramWriter struct{}

// NewHistogramWriter creates a new writer
func NewHistogramWriter() *HistogramWriter {
	return &HistogramWriter{}
}

// ExportHistogram writes the bin table and the summary block to path
func (w *HistogramWriter) ExportHistogram(ctx context.Context, path string, report *readout.HistogramReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()

	histIdx, err := f.NewSheet(histogramSheet)
	if err != nil {
		return errors.IOError("failed to create histogram sheet", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return errors.IOError("failed to create summary sheet", err)
	}
	f.SetActiveSheet(histIdx)
	if err := f.DeleteSheet(SheetName); err != nil {
		return errors.IOError("failed to drop default sheet", err)
	}

	if err := f.SetSheetRow(histogramSheet, "A1", &[]interface{}{"bin", "low_edge", "high_edge", "count"}); err != nil {
		return errors.IOError("failed to write histogram header", err)
	}
	h := report.Summary.Histogram
	for i, count := range h.Counts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.InternalError(err.Error())
		}
		row := []interface{}{i + 1, h.Edges[i], h.Edges[i+1], count}
		if err := f.SetSheetRow(histogramSheet, cell, &row); err != nil {
			return errors.IOError("failed to write histogram row", err)
		}
	}

	for i, kv := range summaryRows(report) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.InternalError(err.Error())
		}
		row := []interface{}{kv[0], kv[1]}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return errors.IOError("failed to write summary row", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.IOError(fmt.Sprintf("failed to save %s", path), err)
	}
	log.Printf("[HistogramWriter] Wrote %d bins to %s", h.Bins(), path)
	return nil
}

func summaryRows(report *readout.HistogramReport) [][2]interface{} {
	s := report.Summary
	rows := [][2]interface{}{
		{"run_id", report.RunID.String()},
		{"source", report.SourcePath},
		{"fields", fmt.Sprint(report.Fields)},
		{"sub_channel", report.SubChannel},
		{"min", report.Filter.Min},
		{"max", report.Filter.Max},
		{"entries", s.EntryCount},
		{"filtered", s.FilteredCount},
	}
	if mean, sd, err := s.MeanStdDev(); err == nil {
		rows = append(rows, [2]interface{}{"mean", mean}, [2]interface{}{"rms", sd})
	} else {
		rows = append(rows, [2]interface{}{"mean", "n/a"}, [2]interface{}{"rms", "n/a"})
	}
	if s.HasTargetBin() {
		rows = append(rows, [2]interface{}{fmt.Sprintf("bin_content[%d]", s.TargetBin), s.SelectedBinContent})
	}
	if p := report.Profile; p != nil {
		rows = append(rows,
			[2]interface{}{"sample_min", p.Min},
			[2]interface{}{"sample_max", p.Max},
			[2]interface{}{"median", p.Median},
			[2]interface{}{"q25", p.Q25},
			[2]interface{}{"q75", p.Q75},
			[2]interface{}{"skewness", p.Skewness},
			[2]interface{}{"kurtosis", p.Kurtosis},
			[2]interface{}{"outliers", p.Outliers},
		)
	}
	return rows
}

// WriteColumns writes columns to Sheet1 of a new workbook using the NAME / NAME[k] header layout
func WriteColumns(path string, cols []readout.Column) error {
	f := excelize.NewFile()
	defer f.Close()

	var header []interface{}
	nRows := 0
	for _, c := range cols {
		if c.Len() > nRows {
			nRows = c.Len()
		}
		if !c.IsArray() {
			header = append(header, c.Name)
			continue
		}
		for k := 1; k <= c.Width(); k++ {
			header = append(header, fmt.Sprintf("%s[%d]", c.Name, k))
		}
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return errors.IOError("failed to write header", err)
	}

	for i := 0; i < nRows; i++ {
		row := make([]interface{}, 0, len(header))
		for _, c := range cols {
			if i >= c.Len() {
				return errors.FormatError(fmt.Sprintf("column %s has %d rows, expected %d", c.Name, c.Len(), nRows), nil)
			}
			c.Rows[i].Each(func(v float64) { row = append(row, v) })
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.InternalError(err.Error())
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return errors.IOError("failed to write row", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.IOError(fmt.Sprintf("failed to save %s", path), err)
	}
	return nil
}

var _ ports.HistogramExporter = (*HistogramWriter)(nil)
