package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"astriql/adapters/excel"
	"astriql/adapters/htmlreport"
	"astriql/adapters/plot"
	"astriql/app"
	"astriql/domain/readout"
	"astriql/internal/config"
	"astriql/internal/container"
	"astriql/internal/errors"
	"astriql/internal/testkit"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	defaultHistogramImage = "ASTRIQL_histo.png"
	defaultTemporalImage  = "ASTRIQL_temporal.png"
)

type containerFactory func() (*container.Container, error)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(loadContainer).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadContainer() (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return container.New(cfg)
}

func newRootCmd(build containerFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "astriql",
		Short: "Quick-look histograms and temporal curves for ASTRI DL0 data",
		Long: `Quick-look histograms and temporal curves for ASTRI DL0 data.

Fields are named <prefix><module><param>, e.g. PDM01HI; module 0 selects every PDM.
Sub-channels count from 1; sub-channel 0 takes the whole array.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newHistoCmd(build),
		newHistoHTMLCmd(build),
		newTemporalCmd(build),
		newGenerateCmd(),
	)
	return rootCmd
}

func newHistoCmd(build containerFactory) *cobra.Command {
	var out, xlsx string

	cmd := &cobra.Command{
		Use:   "histo FILE MODULE PARAM SUBFIELD NBINS MINVAL MAXVAL MAXEVT BINX [t=title] [x=xlabel] [y=ylabel]",
		Short: "Plot the histogram of a field with the content of one bin",
		Long: `Plot the histogram of a field.

  FILE      path of the DL0 file (FITS; .xlsx and .csv exports are also read)
  MODULE    PDM to plot; 0 plots all the PDMs
  PARAM     field name without the module prefix, e.g. HI
  SUBFIELD  element of the sub-array (from 1); 0 plots the whole array
  NBINS     number of histogram bins
  MINVAL    histogram minimum; 0 keeps every value below MAXVAL
  MAXVAL    histogram maximum
  MAXEVT    rows (events) to read; 0 reads all
  BINX      bin (from 1) whose content is reported
  t= x= y=  optional title and axis labels, in any order`,
		Example: `  astriql histo astri_000_11_111_11111_R_000000_000_0201.lv0 1 HI 0 100 800 1400 0 50 "t=PDM 01 HG histo" "x=ADC counts" "y=N"`,
		Args:    cobra.MaximumNArgs(9 + len(histogramOptionKeys)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			req, err := parseHistogramArgs(args, true)
			if err != nil {
				return err
			}
			c, err := build()
			if err != nil {
				return err
			}
			report, err := c.Histograms.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			path := c.OutputPath(out)
			renderer, err := c.ImageRenderer(path)
			if err != nil {
				return err
			}
			if err := writeFile(path, func(w io.Writer) error {
				return renderer.RenderHistogram(cmd.Context(), w, report)
			}); err != nil {
				return err
			}
			printHistogramSummary(cmd.OutOrStdout(), report)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)

			if xlsx != "" {
				xlsxPath := c.OutputPath(xlsx)
				if err := c.Exporter().ExportHistogram(cmd.Context(), xlsxPath, report); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", xlsxPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", defaultHistogramImage, "Output image (.png or .svg)")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "Also export the histogram table to this xlsx file")
	return cmd
}

func newHistoHTMLCmd(build containerFactory) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "histo-html FILE MODULE PARAM SUBFIELD NBINS MINVAL MAXVAL MAXEVT [t=title] [x=xlabel] [y=ylabel]",
		Short: "Write the histogram of a field as an HTML page",
		Long: `Write the histogram of a field as a standalone HTML page.

Arguments are those of histo without BINX.`,
		Example: `  astriql histo-html astri_000_11_111_11111_R_000000_000_0201.lv0 0 HI 1 100 800 1400 0 "t=HI pixel 1"`,
		Args:    cobra.MaximumNArgs(8 + len(histogramOptionKeys)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			req, err := parseHistogramArgs(args, false)
			if err != nil {
				return err
			}
			c, err := build()
			if err != nil {
				return err
			}
			report, err := c.Histograms.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			path := c.OutputPath(out)
			if err := writeFile(path, func(w io.Writer) error {
				return c.HTMLRenderer().RenderHistogram(cmd.Context(), w, report)
			}); err != nil {
				return err
			}
			printHistogramSummary(cmd.OutOrStdout(), report)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", htmlreport.DefaultFileName, "Output HTML file")
	return cmd
}

func newTemporalCmd(build containerFactory) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "temporal FILE MODULE PARAM SUBFIELD MAXEVT XTEMP XGRAPH [t=title] [y=ylabel]",
		Short: "Plot a field of one PDM against time and row counter",
		Long: `Plot a field of one PDM against the event time and the row counter.

  FILE      path of the DL0 file
  MODULE    PDM to plot (> 0)
  PARAM     field name without the module prefix, e.g. T
  SUBFIELD  element of the sub-array (from 1); 0 for scalar fields
  MAXEVT    rows (events) to read; 0 reads all
  XTEMP     event (from 1) whose value is printed on the time panel
  XGRAPH    event (from 1) whose value is printed on the row-counter panel
  t= y=     optional title and y label, in any order`,
		Example: `  astriql temporal astri_000_13_002_00001_F_000009_000_0202.lv0 1 T 1 100 50 50 "t=PDM1 Temperature" "y=T"`,
		Args:    cobra.MaximumNArgs(7 + len(temporalOptionKeys)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			req, err := parseTemporalArgs(args)
			if err != nil {
				return err
			}
			c, err := build()
			if err != nil {
				return err
			}
			report, err := c.Temporal.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			path := c.OutputPath(out)
			renderer, err := c.ImageRenderer(path)
			if err != nil {
				return err
			}
			if err := writeFile(path, func(w io.Writer) error {
				return renderer.RenderTemporal(cmd.Context(), w, report)
			}); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Field = %s, events = %d\n", report.Series.Field, report.Series.Len())
			fmt.Fprintln(w, plot.ProbeText(report.Labels.YLabel, report.TimeProbe))
			fmt.Fprintln(w, plot.ProbeText(report.Labels.YLabel, report.RowProbe))
			fmt.Fprintf(w, "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", defaultTemporalImage, "Output image (.png or .svg)")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var modules, events int
	var seed int64

	cmd := &cobra.Command{
		Use:   "generate OUTPUT.xlsx",
		Short: "Write a synthetic camera readout table for trying the other commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := testkit.DefaultCameraConfig()
			gen.Modules, gen.Events, gen.Seed = modules, events, seed

			src, err := testkit.NewCameraGenerator(gen).Generate()
			if err != nil {
				return err
			}
			cols := make([]readout.Column, 0, len(src.Fields()))
			for _, name := range src.Fields() {
				col, err := src.Column(context.Background(), name)
				if err != nil {
					return err
				}
				cols = append(cols, col)
			}
			if err := excel.WriteColumns(args[0], cols); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d fields, %d events to %s\n", len(cols), events, args[0])
			return nil
		},
	}

	cmd.Flags().IntVar(&modules, "modules", 2, "Number of PDMs")
	cmd.Flags().IntVar(&events, "events", 100, "Number of events")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")
	return cmd
}

// parseHistogramArgs parses histo (withBin) and histo-html positional arguments
func parseHistogramArgs(args []string, withBin bool) (app.HistogramRequest, error) {
	positional := 8
	if withBin {
		positional = 9
	}
	if len(args) < positional {
		return app.HistogramRequest{}, fmt.Errorf("expected %d arguments, got %d", positional, len(args))
	}

	req := app.HistogramRequest{Path: args[0], Param: args[2], NoTargetBin: !withBin}
	ints := []struct {
		name string
		dst  *int
		idx  int
	}{
		{"MODULE", &req.Module, 1},
		{"SUBFIELD", &req.SubChannel, 3},
		{"NBINS", &req.Bins, 4},
		{"MAXEVT", &req.MaxRows, 7},
	}
	if withBin {
		ints = append(ints, struct {
			name string
			dst  *int
			idx  int
		}{"BINX", &req.TargetBin, 8})
	}
	for _, p := range ints {
		v, err := parseInt(p.name, args[p.idx])
		if err != nil {
			return req, err
		}
		*p.dst = v
	}
	minVal, err := parseInt("MINVAL", args[5])
	if err != nil {
		return req, err
	}
	maxVal, err := parseInt("MAXVAL", args[6])
	if err != nil {
		return req, err
	}
	req.Min, req.Max = float64(minVal), float64(maxVal)

	if withBin && req.TargetBin < 1 {
		return req, errors.InvalidParameter("BINX", fmt.Errorf("must be >= 1, got %d", req.TargetBin))
	}

	req.Labels, err = parseOptions(args[positional:], histogramOptionKeys)
	return req, err
}

func parseTemporalArgs(args []string) (app.TemporalRequest, error) {
	const positional = 7
	if len(args) < positional {
		return app.TemporalRequest{}, fmt.Errorf("expected %d arguments, got %d", positional, len(args))
	}

	req := app.TemporalRequest{Path: args[0], Param: args[2]}
	for _, p := range []struct {
		name string
		dst  *int
		idx  int
	}{
		{"MODULE", &req.Module, 1},
		{"SUBFIELD", &req.SubChannel, 3},
		{"MAXEVT", &req.MaxRows, 4},
		{"XTEMP", &req.TimeIndex, 5},
		{"XGRAPH", &req.RowIndex, 6},
	} {
		v, err := parseInt(p.name, args[p.idx])
		if err != nil {
			return req, err
		}
		*p.dst = v
	}

	var err error
	req.Labels, err = parseOptions(args[positional:], temporalOptionKeys)
	return req, err
}

func printHistogramSummary(w io.Writer, report *readout.HistogramReport) {
	switch len(report.Fields) {
	case 1:
		fmt.Fprintf(w, "Field = %s\n", report.Fields[0])
	default:
		fmt.Fprintf(w, "Fields = %s .. %s\n", report.Fields[0], report.Fields[len(report.Fields)-1])
	}
	fmt.Fprintln(w, strings.Join(report.Summary.Annotations(), "\n"))
}

func writeFile(path string, render func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.IOError(fmt.Sprintf("failed to create %s", path), err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.IOError(fmt.Sprintf("failed to close %s", path), err)
	}
	return nil
}
