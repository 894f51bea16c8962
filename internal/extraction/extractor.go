package extraction

import (
	"context"
	"fmt"

	"astriql/domain/core"
	"astriql/domain/readout"
	"astriql/ports"

	"golang.org/x/sync/errgroup"
)

// ExtractOptions control how a column is turned into samples
type ExtractOptions struct {
	MaxRows    int // 0 reads every row
	SubChannel int // 0 flattens every element, k >= 1 picks element k
	Filter     readout.RangeFilter
}

// Validate checks the options that do not depend on the column shape
func (o ExtractOptions) Validate() error {
	if o.MaxRows < 0 {
		return core.NewValidationError("maxevt", fmt.Sprintf("must be >= 0, got %d", o.MaxRows))
	}
	if o.SubChannel < 0 {
		return fmt.Errorf("%w: %d is negative", core.ErrSubChannelOutOfRange, o.SubChannel)
	}
	return nil
}

// Extract fetches one field and builds its total and filtered populations
func Extract(ctx context.Context, src ports.TableSourcePort, field string, opts ExtractOptions) (readout.Population, error) {
	if err := opts.Validate(); err != nil {
		return readout.Population{}, err
	}
	if err := ctx.Err(); err != nil {
		return readout.Population{}, err
	}
	col, err := src.Column(ctx, field)
	if err != nil {
		return readout.Population{}, fmt.Errorf("read field %s: %w", field, err)
	}
	return ExtractColumn(col, opts)
}

// ExtractColumn builds the populations from an already fetched column
func ExtractColumn(col readout.Column, opts ExtractOptions) (readout.Population, error) {
	if err := opts.Validate(); err != nil {
		return readout.Population{}, err
	}
	col = col.Head(opts.MaxRows)
	if col.Len() == 0 {
		return readout.Population{Total: []float64{}, Filtered: []float64{}}, nil
	}

	if opts.SubChannel > 0 {
		if !col.IsArray() || opts.SubChannel > col.Width() {
			return readout.Population{}, fmt.Errorf("field %s: %w", col.Name, core.NewSubChannelError(opts.SubChannel, col.Width()))
		}
		pop := population{Population: readout.Population{
			Total:    make([]float64, 0, col.Len()),
			Filtered: make([]float64, 0, col.Len()),
		}}
		for _, row := range col.Rows {
			v, err := row.Element(opts.SubChannel)
			if err != nil {
				return readout.Population{}, err
			}
			pop.add(v, opts.Filter)
		}
		return pop.Population, nil
	}

	size := col.Len()
	if col.IsArray() {
		size *= col.Width()
	}
	pop := population{Population: readout.Population{
		Total:    make([]float64, 0, size),
		Filtered: make([]float64, 0, size),
	}}
	for _, row := range col.Rows {
		row.Each(func(v float64) { pop.add(v, opts.Filter) })
	}
	return pop.Population, nil
}

type population struct {
	readout.Population
}

func (p *population) add(v float64, f readout.RangeFilter) {
	p.Total = append(p.Total, v)
	if f.Accept(v) {
		p.Filtered = append(p.Filtered, v)
	}
}

// ExtractModules extracts every field and concatenates the populations in field order.
// With workers > 1 the fields are read concurrently; the merge order does not change.
func ExtractModules(ctx context.Context, src ports.TableSourcePort, fields []string, opts ExtractOptions, workers int) (readout.Population, error) {
	if err := opts.Validate(); err != nil {
		return readout.Population{}, err
	}
	pops := make([]readout.Population, len(fields))

	if workers <= 1 || len(fields) < 2 {
		for i, field := range fields {
			pop, err := Extract(ctx, src, field, opts)
			if err != nil {
				return readout.Population{}, err
			}
			pops[i] = pop
		}
		return readout.Concat(pops...), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, field := range fields {
		i, field := i, field
		g.Go(func() error {
			pop, err := Extract(gctx, src, field, opts)
			if err != nil {
				return err
			}
			pops[i] = pop
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return readout.Population{}, err
	}
	return readout.Concat(pops...), nil
}
